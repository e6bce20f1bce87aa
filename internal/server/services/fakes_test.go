package services

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/dmitrijs2005/orgbook/internal/common"
	"github.com/dmitrijs2005/orgbook/internal/server/models"
	"github.com/dmitrijs2005/orgbook/internal/server/repositories/companies"
	"github.com/dmitrijs2005/orgbook/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/orgbook/internal/server/repositories/users"
)

// --- repositories ---

type fakeCompanies struct {
	items map[string]*models.Company
	err   error
	found models.FindParams
}

func (f *fakeCompanies) Find(_ context.Context, p models.FindParams) ([]*models.Company, error) {
	f.found = p
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*models.Company, 0, len(f.items))
	for _, c := range f.items {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCompanies) Get(_ context.Context, id string) (*models.Company, error) {
	c, ok := f.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return c, nil
}

func (f *fakeCompanies) Create(_ context.Context, c *models.Company) (*models.Company, error) {
	if f.err != nil {
		return nil, f.err
	}
	cp := *c
	cp.ID = "c-new"
	f.items[cp.ID] = &cp
	return &cp, nil
}

func (f *fakeCompanies) Update(_ context.Context, id string, upd models.CompanyUpdate) (*models.Company, error) {
	c, ok := f.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if upd.Name != nil {
		c.Name = *upd.Name
	}
	if upd.Since != nil {
		c.Since = *upd.Since
	}
	return c, nil
}

func (f *fakeCompanies) Trash(_ context.Context, id string) (*models.Company, error) {
	c, ok := f.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	now := c.CreatedAt
	c.DeletedAt = &now
	return c, nil
}

func (f *fakeCompanies) Restore(_ context.Context, id string) (*models.Company, error) {
	c, ok := f.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c.DeletedAt = nil
	return c, nil
}

func (f *fakeCompanies) Erase(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.items, id)
	return nil
}

type fakeUsers struct {
	items     map[string]*models.User
	createErr error
	updateErr error
	updates   []models.UserUpdate
}

func (f *fakeUsers) Find(context.Context, models.FindParams) ([]*models.User, error) {
	out := make([]*models.User, 0, len(f.items))
	for _, u := range f.items {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUsers) Get(_ context.Context, id string) (*models.User, error) {
	u, ok := f.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.items {
		if u.Email == email && u.DeletedAt == nil {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	cp := *u
	cp.ID = "u-new"
	f.items[cp.ID] = &cp
	return &cp, nil
}

func (f *fakeUsers) Update(_ context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	f.updates = append(f.updates, upd)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	u, ok := f.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
	if upd.Avatar != nil {
		u.Avatar = *upd.Avatar
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) Trash(_ context.Context, id string) (*models.User, error) {
	u, ok := f.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	now := u.CreatedAt
	u.DeletedAt = &now
	return u, nil
}

func (f *fakeUsers) Restore(_ context.Context, id string) (*models.User, error) {
	u, ok := f.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u.DeletedAt = nil
	return u, nil
}

func (f *fakeUsers) Erase(_ context.Context, id string) (*models.User, error) {
	u, ok := f.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(f.items, id)
	return u, nil
}

type fakeManager struct {
	companies *fakeCompanies
	users     *fakeUsers
	txCalls   int
}

func newFakeManager() *fakeManager {
	return &fakeManager{
		companies: &fakeCompanies{items: map[string]*models.Company{}},
		users:     &fakeUsers{items: map[string]*models.User{}},
	}
}

func (m *fakeManager) Companies() companies.Repository { return m.companies }
func (m *fakeManager) Users() users.Repository         { return m.users }

func (m *fakeManager) WithTx(ctx context.Context, fn func(ctx context.Context, r repomanager.Repositories) error) error {
	m.txCalls++
	return fn(ctx, m)
}

func (m *fakeManager) RunMigrations(context.Context) error { return nil }
func (m *fakeManager) Close(context.Context) error         { return nil }

// --- avatar store ---

type fakeStore struct {
	mu      sync.Mutex
	saved   map[string]string
	deleted []string
	saveErr error
}

func newFakeStore() *fakeStore { return &fakeStore{saved: map[string]string{}} }

func (s *fakeStore) Save(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.saved[key]; ok {
		return errors.New("exists")
	}
	s.saved[key] = string(b)
	return nil
}

func (s *fakeStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.saved, key)
	s.deleted = append(s.deleted, key)
	return nil
}
