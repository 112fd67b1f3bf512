package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lvdopqt/carteira-digital-api/internal/common"
	"github.com/lvdopqt/carteira-digital-api/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func newUserService(t *testing.T, db *sql.DB, rm *fakeRepoManager) *UserService {
	t.Helper()
	return NewUserService(db, rm,
		auth.NewPasswordHasher(bcrypt.MinCost),
		auth.NewTokenService([]byte("k"), time.Hour))
}

func strPtr(s string) *string { return &s }

func TestRegister_ThenAuthenticate_TokenCarriesUserID(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	s := newUserService(t, db, rm)
	ctx := context.Background()

	u, err := s.Register(ctx, RegisterInput{Email: "a@x.com", Password: "pw1", IsActive: true})
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.NotEqual(t, "pw1", u.HashedPassword)

	res, err := s.Authenticate(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "bearer", res.TokenType)

	sub, err := s.tokens.Validate(res.AccessToken, time.Now())
	require.NoError(t, err)
	assert.Equal(t, u.ID, sub)
}

func TestAuthenticate_AnyRegisteredAccount(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	s := newUserService(t, db, rm)
	ctx := context.Background()

	tests := []struct {
		name string
		in   RegisterInput
	}{
		{"inactive", RegisterInput{Email: "off@x.com", Password: "pw1", IsActive: false}},
		{"empty password", RegisterInput{Email: "blank@x.com", Password: "", IsActive: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := s.Register(ctx, tt.in)
			require.NoError(t, err)

			res, err := s.Authenticate(ctx, tt.in.Email, tt.in.Password)
			require.NoError(t, err)
			sub, err := s.tokens.Validate(res.AccessToken, time.Now())
			require.NoError(t, err)
			assert.Equal(t, u.ID, sub)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	s := newUserService(t, db, rm)
	ctx := context.Background()

	first, err := s.Register(ctx, RegisterInput{Email: "a@x.com", Password: "pw1", IsActive: true})
	require.NoError(t, err)

	_, err = s.Register(ctx, RegisterInput{Email: "a@x.com", Password: "other", IsActive: true})
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want ErrorAlreadyExists, got %v", err)
	}

	// the first account is untouched
	stored, err := rm.u.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, first.HashedPassword, stored.HashedPassword)
}

func TestAuthenticate_Failures(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	s := newUserService(t, db, rm)
	ctx := context.Background()

	_, err := s.Register(ctx, RegisterInput{Email: "a@x.com", Password: "pw1", IsActive: true})
	require.NoError(t, err)

	tests := []struct {
		name, email, password string
	}{
		{"unknown email", "nobody@x.com", "pw1"},
		{"wrong password", "a@x.com", "nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Authenticate(ctx, tt.email, tt.password)
			if !errors.Is(err, common.ErrorUnauthorized) {
				t.Fatalf("want ErrorUnauthorized, got %v", err)
			}
		})
	}
}

func TestAuthenticate_RepoError_IsInternal(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	rm.u.getErr = errBoom{}
	s := newUserService(t, db, rm)

	_, err := s.Authenticate(context.Background(), "a@x.com", "pw")
	if !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("want ErrorInternal, got %v", err)
	}
}

func TestAuthenticate_ExpiresAtUsesTTL(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	s := newUserService(t, db, rm)
	fixed := time.Date(2024, 5, 1, 10, 0, 0, 700, time.UTC)
	s.now = func() time.Time { return fixed }

	_, err := s.Register(context.Background(), RegisterInput{Email: "a@x.com", Password: "pw", IsActive: true})
	require.NoError(t, err)

	res, err := s.Authenticate(context.Background(), "a@x.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC), res.ExpiresAt)
}

func TestGetByID(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	s := newUserService(t, db, rm)
	ctx := context.Background()

	u, err := s.Register(ctx, RegisterInput{Email: "a@x.com", Password: "pw", FullName: strPtr("Ana")})
	require.NoError(t, err)

	got, err := s.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", got.Email)
	require.NotNil(t, got.FullName)
	assert.Equal(t, "Ana", *got.FullName)

	_, err = s.GetByID(ctx, 999)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestCreateSuperuser(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	s := newUserService(t, db, rm)

	u, err := s.CreateSuperuser(context.Background(), "root@x.com", "pw", nil)
	require.NoError(t, err)
	assert.True(t, u.IsActive)
	assert.True(t, u.IsSuperuser)
}

func TestFindOrCreateExternal_Idempotent(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := newFakeRepoManager()
	s := newUserService(t, db, rm)
	ctx := context.Background()

	first, err := s.FindOrCreateExternal(ctx, "ext@x.com", strPtr("Ext"))
	require.NoError(t, err)
	assert.True(t, first.IsActive)
	assert.False(t, first.IsSuperuser)

	second, err := s.FindOrCreateExternal(ctx, "ext@x.com", nil)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	// placeholder credentials never authenticate
	_, err = s.Authenticate(ctx, "ext@x.com", "")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestFindOrCreateExternal_BeginError(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin().WillReturnError(errBoom{})

	s := newUserService(t, db, newFakeRepoManager())
	_, err := s.FindOrCreateExternal(context.Background(), "ext@x.com", nil)
	require.Error(t, err)
}
