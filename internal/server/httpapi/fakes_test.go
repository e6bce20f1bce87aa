package httpapi

import (
	"context"
	"io"
	"time"

	"github.com/dmitrijs2005/orgbook/internal/common"
	"github.com/dmitrijs2005/orgbook/internal/server/models"
	"github.com/dmitrijs2005/orgbook/internal/server/services"
)

var (
	created = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	since   = time.Date(1999, 12, 31, 0, 0, 0, 0, time.UTC)
)

type fakeCompanyService struct {
	params  models.FindParams
	name    string
	since   time.Time
	upd     models.CompanyUpdate
	mode    models.DeleteMode
	err     error
	company *models.Company
}

func newFakeCompanyService() *fakeCompanyService {
	return &fakeCompanyService{company: &models.Company{
		ID: "c1", Name: "Acme", Since: since, CreatedAt: created, UpdatedAt: created,
	}}
}

func (f *fakeCompanyService) Find(_ context.Context, p models.FindParams) ([]*models.Company, error) {
	f.params = p
	if f.err != nil {
		return nil, f.err
	}
	return []*models.Company{f.company}, nil
}

func (f *fakeCompanyService) Get(_ context.Context, id string) (*models.Company, error) {
	if f.err != nil {
		return nil, f.err
	}
	if id != f.company.ID {
		return nil, common.ErrorNotFound
	}
	return f.company, nil
}

func (f *fakeCompanyService) Create(_ context.Context, name string, since time.Time) (*models.Company, error) {
	f.name, f.since = name, since
	if f.err != nil {
		return nil, f.err
	}
	c := *f.company
	c.Name, c.Since = name, since
	return &c, nil
}

func (f *fakeCompanyService) Update(_ context.Context, id string, upd models.CompanyUpdate) (*models.Company, error) {
	f.upd = upd
	if f.err != nil {
		return nil, f.err
	}
	if id != f.company.ID {
		return nil, common.ErrorNotFound
	}
	return f.company, nil
}

func (f *fakeCompanyService) Delete(_ context.Context, id string, mode models.DeleteMode) (*models.Company, error) {
	f.mode = mode
	if id != f.company.ID {
		return nil, common.ErrorNotFound
	}
	switch mode {
	case models.DeleteErase:
		return nil, nil
	case models.DeleteTrash:
		c := *f.company
		c.DeletedAt = &created
		return &c, nil
	}
	return f.company, nil
}

type fakeUserService struct {
	params     models.FindParams
	newUser    services.NewUser
	avatarBody string
	changes    services.UserChanges
	mode       models.DeleteMode
	err        error
	user       *models.User
	token      string
}

func newFakeUserService() *fakeUserService {
	return &fakeUserService{
		user: &models.User{
			ID: "u1", Name: "Alice", Email: "alice@example.com", PasswordHash: "$2a$hash",
			Avatar: "a.png", CreatedAt: created, UpdatedAt: created,
		},
		token: "tok",
	}
}

func (f *fakeUserService) Find(_ context.Context, p models.FindParams) ([]*models.User, error) {
	f.params = p
	return []*models.User{f.user}, f.err
}

func (f *fakeUserService) Get(_ context.Context, id string) (*models.User, error) {
	if id != f.user.ID {
		return nil, common.ErrorNotFound
	}
	return f.user, nil
}

func (f *fakeUserService) Create(_ context.Context, in services.NewUser) (*models.User, error) {
	f.newUser = in
	if in.Avatar.Body != nil {
		b, err := io.ReadAll(in.Avatar.Body)
		if err != nil {
			return nil, err
		}
		f.avatarBody = string(b)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func (f *fakeUserService) Update(_ context.Context, id string, ch services.UserChanges) (*models.User, error) {
	f.changes = ch
	if ch.Avatar != nil {
		b, err := io.ReadAll(ch.Avatar.Body)
		if err != nil {
			return nil, err
		}
		f.avatarBody = string(b)
	}
	if id != f.user.ID {
		return nil, common.ErrorNotFound
	}
	return f.user, f.err
}

func (f *fakeUserService) Delete(_ context.Context, id string, mode models.DeleteMode) (*models.User, error) {
	f.mode = mode
	if id != f.user.ID {
		return nil, common.ErrorNotFound
	}
	if mode == models.DeleteErase {
		return nil, nil
	}
	return f.user, nil
}

func (f *fakeUserService) Login(_ context.Context, email, password string) (string, error) {
	if email != f.user.Email || password != "secret1" {
		return "", common.ErrorUnauthorized
	}
	return f.token, nil
}
