package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/dmitrijs2005/orgbook/internal/client/api"
	"github.com/dmitrijs2005/orgbook/internal/client/config"
	"github.com/dmitrijs2005/orgbook/internal/uclient"
)

// apiClient is the part of *api.Client the commands use.
type apiClient interface {
	Login(ctx context.Context, email, password string) error
	Token() string
	SetToken(token string)

	Companies(ctx context.Context, search string) ([]api.Company, error)
	Company(ctx context.Context, id string) (*api.Company, error)
	CreateCompany(ctx context.Context, name, since string) (*api.Company, error)
	DeleteCompany(ctx context.Context, id, mode string) (*api.Company, error)

	Users(ctx context.Context, search string) ([]api.User, error)
	User(ctx context.Context, id string) (*api.User, error)
	CreateUser(ctx context.Context, u api.NewUser) (*api.User, error)
	UpdateUserAvatar(ctx context.Context, id, path string) (*api.User, error)
	DeleteUser(ctx context.Context, id, mode string) (*api.User, error)
}

type App struct {
	config   *config.Config
	client   apiClient
	userName string
	reader   *bufio.Reader
	out      io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	client, err := api.New(uclient.Backend(c.Backend), c.ServerURL, c.RequestTimeout)
	if err != nil {
		return nil, err
	}
	return &App{config: c, client: client, reader: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.client.Token() != ""
}
