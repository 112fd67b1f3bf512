// Package rest exposes the wallet over HTTP/JSON. Routes live under /api/v1;
// protected routes go through the authenticate middleware, which resolves the
// bearer token to a user and stores it in the request context.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/lvdopqt/carteira-digital-api/internal/logging"
	"github.com/lvdopqt/carteira-digital-api/internal/server/models"
	"github.com/lvdopqt/carteira-digital-api/internal/server/services"
)

// UserService is the part of services.UserService the API needs.
type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*services.TokenResult, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type TokenValidator interface {
	Validate(token string, now time.Time) (int64, error)
}

type DocumentService interface {
	Create(ctx context.Context, owner *models.User, in services.CreateDocumentInput) (*models.Document, error)
	List(ctx context.Context, owner *models.User) ([]*models.Document, error)
	Get(ctx context.Context, owner *models.User, id int64) (*models.Document, error)
	PresignUpload(ctx context.Context, owner *models.User) (*services.UploadTarget, error)
}

type TransportService interface {
	Balance(ctx context.Context, owner *models.User) (float64, error)
	Recharge(ctx context.Context, owner *models.User, amount float64) (float64, error)
}

type Chatbot interface {
	Answer(question string) string
}

// Pinger reports database reachability; *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps groups the collaborators of Server. Health may be nil.
type Deps struct {
	Users     UserService
	Tokens    TokenValidator
	Documents DocumentService
	Transport TransportService
	Chatbot   Chatbot
	Health    Pinger
}

type Server struct {
	address      string
	logger       logging.Logger
	deps         Deps
	readTimeout  time.Duration
	writeTimeout time.Duration
	now          func() time.Time
}

// Option customizes a Server.
type Option func(*Server)

// WithTimeouts sets the HTTP server read and write timeouts.
func WithTimeouts(read, write time.Duration) Option {
	return func(s *Server) {
		s.readTimeout = read
		s.writeTimeout = write
	}
}

// WithClock replaces the clock used to check token expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

func NewServer(address string, l logging.Logger, deps Deps, opts ...Option) *Server {
	s := &Server{
		address:      address,
		logger:       l.With("module", "rest_server"),
		deps:         deps,
		readTimeout:  10 * time.Second,
		writeTimeout: 10 * time.Second,
		now:          time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

const shutdownTimeout = 5 * time.Second

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(shutdownCtx, "HTTP shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
