// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login and the lookups behind
// per-request identity resolution.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lvdopqt/carteira-digital-api/internal/common"
	"github.com/lvdopqt/carteira-digital-api/internal/dbx"
	"github.com/lvdopqt/carteira-digital-api/internal/server/auth"
	"github.com/lvdopqt/carteira-digital-api/internal/server/models"
	"github.com/lvdopqt/carteira-digital-api/internal/server/repositories/repomanager"
)

// RegisterInput carries the fields accepted when creating a user.
type RegisterInput struct {
	Email       string
	Password    string
	FullName    *string
	IsActive    bool
	IsSuperuser bool
}

// TokenResult is a freshly issued access token.
type TokenResult struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

// UserService provides authentication-related operations:
// - Register: create users with a hashed password
// - Authenticate: verify credentials and mint an access token
// - GetByID: resolve the subject of a validated token
// - FindOrCreateExternal: provision users vouched for by an external identity provider
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *auth.PasswordHasher
	tokens      *auth.TokenService
	now         func() time.Time

	decoyOnce   sync.Once
	decoyDigest string
}

// NewUserService constructs a UserService.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher *auth.PasswordHasher, tokens *auth.TokenService) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
		now:         time.Now,
	}
}

// Register creates a new user. A taken email yields common.ErrorAlreadyExists
// and leaves the stored user untouched.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	user := &models.User{
		Email:          in.Email,
		HashedPassword: digest,
		FullName:       in.FullName,
		IsActive:       in.IsActive,
		IsSuperuser:    in.IsSuperuser,
	}

	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// CreateSuperuser registers an active superuser.
func (s *UserService) CreateSuperuser(ctx context.Context, email, password string, fullName *string) (*models.User, error) {
	return s.Register(ctx, RegisterInput{
		Email:       email,
		Password:    password,
		FullName:    fullName,
		IsActive:    true,
		IsSuperuser: true,
	})
}

// Authenticate verifies the credentials and, on success, issues an access
// token. Unknown email and wrong password both yield common.ErrorUnauthorized.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*TokenResult, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// spend the same bcrypt work as for a known email
			s.hasher.Verify(password, s.decoy())
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	if !s.hasher.Verify(password, user.HashedPassword) {
		return nil, common.ErrorUnauthorized
	}

	return s.issue(user.ID)
}

// GetByID returns the user with the given id or common.ErrorNotFound.
func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	u, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return u, nil
}

// GetByEmail returns the user registered under email or common.ErrorNotFound.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	u, err := repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return u, nil
}

// FindOrCreateExternal returns the user registered under email, creating an
// active, non-superuser account when there is none. New accounts get a
// placeholder digest, so they can only sign in through the external provider.
func (s *UserService) FindOrCreateExternal(ctx context.Context, email string, fullName *string) (*models.User, error) {
	digest, err := s.hasher.PlaceholderDigest()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	var user *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		u, _, err := s.repomanager.Users(tx).CreateIfAbsent(ctx, &models.User{
			Email:          email,
			HashedPassword: digest,
			FullName:       fullName,
			IsActive:       true,
		})
		if err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error provisioning external user: %w", err)
	}
	return user, nil
}

// --- helpers below ---

func (s *UserService) issue(userID int64) (*TokenResult, error) {
	now := s.now()
	token, err := s.tokens.Issue(userID, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return &TokenResult{
		AccessToken: token,
		TokenType:   common.TokenType,
		ExpiresAt:   now.Truncate(time.Second).Add(s.tokens.TTL()),
	}, nil
}

func (s *UserService) decoy() string {
	s.decoyOnce.Do(func() {
		s.decoyDigest, _ = s.hasher.PlaceholderDigest()
	})
	return s.decoyDigest
}
