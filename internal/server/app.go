// Package server initializes and runs the wallet server: it opens the
// database, applies migrations, wires repositories and services, and runs the
// HTTP API next to the gRPC health endpoint until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/lvdopqt/carteira-digital-api/internal/logging"
	"github.com/lvdopqt/carteira-digital-api/internal/server/auth"
	"github.com/lvdopqt/carteira-digital-api/internal/server/config"
	"github.com/lvdopqt/carteira-digital-api/internal/server/repositories/balances"
	"github.com/lvdopqt/carteira-digital-api/internal/server/repositories/repomanager"
	"github.com/lvdopqt/carteira-digital-api/internal/server/rest"
	"github.com/lvdopqt/carteira-digital-api/internal/server/services"

	gs "github.com/lvdopqt/carteira-digital-api/internal/server/grpc"
)

// openDB is a seam for tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	restServer  *rest.Server
	grpcServer  *gs.HealthServer
}

// NewApp builds the application graph. Connections are opened lazily by
// database/sql, so an unreachable database surfaces in Run.
func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	return newApp(c, logger, db, rm)
}

func newApp(c *config.Config, logger logging.Logger, db *sql.DB, rm repomanager.RepositoryManager) (*App, error) {
	store, err := newBalanceStore(c.BalanceStore, db, rm)
	if err != nil {
		return nil, err
	}

	tokens := auth.NewTokenService([]byte(c.SecretKey), c.AccessTokenValidityDuration)
	hasher := auth.NewPasswordHasher(c.BcryptCost)

	deps := rest.Deps{
		Users:     services.NewUserService(db, rm, hasher, tokens),
		Tokens:    tokens,
		Documents: services.NewDocumentService(db, rm, c),
		Transport: services.NewTransportService(store),
		Chatbot:   services.NewChatbotService(),
		Health:    db,
	}

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		repomanager: rm,
		restServer:  rest.NewServer(c.HTTPAddr, logger, deps, rest.WithTimeouts(c.HTTPReadTimeout, c.HTTPWriteTimeout)),
		grpcServer:  gs.NewHealthServer(c.GRPCHealthAddr, logger, db, c.HealthCheckInterval),
	}, nil
}

func newBalanceStore(kind string, db *sql.DB, rm repomanager.RepositoryManager) (balances.Store, error) {
	switch kind {
	case config.BalanceStoreMemory, "":
		return balances.NewMemoryStore(), nil
	case config.BalanceStorePostgres:
		return rm.Balances(db), nil
	default:
		return nil, fmt.Errorf("unknown balance store %q", kind)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run applies migrations when enabled, then serves until ctx is cancelled or
// a server fails. The database is closed on return.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.db.Close()

	app.logger.Info(ctx, "Starting app...", "balance_store", app.config.BalanceStore)

	app.initSignalHandler(cancelFunc)

	if app.config.RunMigrations {
		if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		app.logger.Info(ctx, "Migrations applied")
	}

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	run := func(name string, fn func(context.Context) error) {
		defer wg.Done()
		if err := fn(ctx); err != nil {
			app.logger.Error(ctx, "server failed", "server", name, "error", err)
			errOnce.Do(func() { firstErr = fmt.Errorf("%s: %w", name, err) })
			cancelFunc()
		}
	}

	wg.Add(2)
	go run("http", app.restServer.Run)
	go run("grpc", app.grpcServer.Run)

	wg.Wait()

	app.logger.Info(context.Background(), "App stopped")
	return firstErr
}
