package services

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/lvdopqt/carteira-digital-api/internal/common"
	"github.com/lvdopqt/carteira-digital-api/internal/dbx"
	"github.com/lvdopqt/carteira-digital-api/internal/server/models"
	"github.com/lvdopqt/carteira-digital-api/internal/server/repositories/balances"
	"github.com/lvdopqt/carteira-digital-api/internal/server/repositories/documents"
	"github.com/lvdopqt/carteira-digital-api/internal/server/repositories/users"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// fakeUsersRepo is an in-memory users.Repository with a unique email index.
type fakeUsersRepo struct {
	mu      sync.Mutex
	nextID  int64
	byEmail map[string]*models.User

	getErr error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byEmail: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEmail[u.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	f.nextID++
	cp := *u
	cp.ID = f.nextID
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.byEmail[cp.Email] = &cp
	out := cp
	return &out, nil
}

func (f *fakeUsersRepo) CreateIfAbsent(ctx context.Context, u *models.User) (*models.User, bool, error) {
	if existing, err := f.GetByEmail(ctx, u.Email); err == nil {
		return existing, false, nil
	}
	created, err := f.Create(ctx, u)
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}

func (f *fakeUsersRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsersRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byEmail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

// fakeDocumentsRepo is an in-memory documents.Repository.
type fakeDocumentsRepo struct {
	mu     sync.Mutex
	nextID int64
	docs   []*models.Document
}

func (f *fakeDocumentsRepo) Create(_ context.Context, d *models.Document) (*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	cp := *d
	cp.ID = f.nextID
	f.docs = append(f.docs, &cp)
	out := cp
	return &out, nil
}

func (f *fakeDocumentsRepo) ListByOwner(_ context.Context, ownerID int64) ([]*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Document{}
	for _, d := range f.docs {
		if d.OwnerID == ownerID {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeDocumentsRepo) GetByIDAndOwner(_ context.Context, id, ownerID int64) (*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.docs {
		if d.ID == id && d.OwnerID == ownerID {
			cp := *d
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	d *fakeDocumentsRepo
	b balances.Store
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		u: newFakeUsersRepo(),
		d: &fakeDocumentsRepo{},
		b: balances.NewMemoryStore(),
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository             { return m.u }
func (m *fakeRepoManager) Documents(dbx.DBTX) documents.Repository     { return m.d }
func (m *fakeRepoManager) Balances(dbx.DBTX) balances.Store            { return m.b }
