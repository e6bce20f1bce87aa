package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/orgbook/internal/client/api"
	"github.com/dmitrijs2005/orgbook/internal/client/config"
)

type fakeAPI struct {
	token string

	loginEmail, loginPassword string
	loginErr                  error

	companies    []api.Company
	company      *api.Company
	createdName  string
	createdSince string
	deleted      []string

	users     []api.User
	user      *api.User
	newUser   api.NewUser
	avatarFor string
	avatar    string

	err error
}

func (f *fakeAPI) Login(_ context.Context, email, password string) error {
	f.loginEmail, f.loginPassword = email, password
	if f.loginErr != nil {
		return f.loginErr
	}
	f.token = "tok"
	return nil
}
func (f *fakeAPI) Token() string         { return f.token }
func (f *fakeAPI) SetToken(token string) { f.token = token }

func (f *fakeAPI) Companies(context.Context, string) ([]api.Company, error) {
	return f.companies, f.err
}
func (f *fakeAPI) Company(context.Context, string) (*api.Company, error) { return f.company, f.err }
func (f *fakeAPI) CreateCompany(_ context.Context, name, since string) (*api.Company, error) {
	f.createdName, f.createdSince = name, since
	return &api.Company{ID: "c-new", Name: name, Since: since}, f.err
}
func (f *fakeAPI) DeleteCompany(_ context.Context, id, mode string) (*api.Company, error) {
	f.deleted = append(f.deleted, "companies:"+id+":"+mode)
	if mode == api.ModeErase {
		return nil, f.err
	}
	return &api.Company{ID: id}, f.err
}

func (f *fakeAPI) Users(context.Context, string) ([]api.User, error) { return f.users, f.err }
func (f *fakeAPI) User(context.Context, string) (*api.User, error)   { return f.user, f.err }
func (f *fakeAPI) CreateUser(_ context.Context, u api.NewUser) (*api.User, error) {
	f.newUser = u
	return &api.User{ID: "u-new", Name: u.Name, Email: u.Email}, f.err
}
func (f *fakeAPI) UpdateUserAvatar(_ context.Context, id, path string) (*api.User, error) {
	f.avatarFor, f.avatar = id, path
	return &api.User{ID: id, Avatar: "new.png"}, f.err
}
func (f *fakeAPI) DeleteUser(_ context.Context, id, mode string) (*api.User, error) {
	f.deleted = append(f.deleted, "users:"+id+":"+mode)
	if mode == api.ModeErase {
		return nil, f.err
	}
	return &api.User{ID: id}, f.err
}

// stubInputs replaces the prompt helpers with canned answers served in order.
func stubInputs(t *testing.T, texts []string, passwords []string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if len(texts) == 0 {
			return "", io.EOF
		}
		s := texts[0]
		texts = texts[1:]
		return s, nil
	}
	getPassword = func(_ string, _ io.Writer) ([]byte, error) {
		if len(passwords) == 0 {
			return nil, io.EOF
		}
		p := passwords[0]
		passwords = passwords[1:]
		return []byte(p), nil
	}
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

func newTestApp(f *fakeAPI) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return &App{config: cfg, client: f, out: &out}, &out
}

func bufioReader(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}
