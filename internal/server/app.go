// Package server wires configuration, storage, avatar store, services and the
// HTTP API together and runs them until the process is signalled.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/orgbook/internal/logging"
	"github.com/dmitrijs2005/orgbook/internal/server/avatars"
	"github.com/dmitrijs2005/orgbook/internal/server/config"
	"github.com/dmitrijs2005/orgbook/internal/server/httpapi"
	"github.com/dmitrijs2005/orgbook/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/orgbook/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	httpServer  *httpapi.HTTPServer
}

// seams for tests
var (
	openPostgres = func(ctx context.Context, dsn string) (repomanager.RepositoryManager, error) {
		return repomanager.OpenPostgres(ctx, dsn)
	}
	openMongo = func(ctx context.Context, uri, database string) (repomanager.RepositoryManager, error) {
		return repomanager.OpenMongo(ctx, uri, database)
	}
	newS3Store = func(ctx context.Context, cfg avatars.S3Config) (avatars.Store, error) {
		return avatars.NewS3Store(ctx, cfg)
	}
)

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	rm, err := openStorage(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx); err != nil {
		_ = rm.Close(ctx)
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	store, err := openAvatarStore(ctx, c)
	if err != nil {
		_ = rm.Close(ctx)
		return nil, fmt.Errorf("avatar store init error: %w", err)
	}

	cs := services.NewCompanyService(rm, logger)
	us := services.NewUserService(rm, store, logger, c.SecretKey, c.AccessTokenValidityDuration)

	hs := httpapi.NewHTTPServer(httpapi.Options{
		Address:        c.EndpointAddrHTTP,
		SecretKey:      c.SecretKey,
		MaxUploadSize:  c.MaxUploadSize,
		AllowedOrigins: c.AllowedOrigins,
	}, logger, cs, us)

	return &App{config: c, logger: logger, repomanager: rm, httpServer: hs}, nil
}

func openStorage(ctx context.Context, c *config.Config) (repomanager.RepositoryManager, error) {
	switch c.Storage {
	case repomanager.StorageMongo:
		return openMongo(ctx, c.MongoURI, c.MongoDatabase)
	default:
		return openPostgres(ctx, c.DatabaseDSN)
	}
}

func openAvatarStore(ctx context.Context, c *config.Config) (avatars.Store, error) {
	switch c.AvatarStore {
	case avatars.StoreS3:
		return newS3Store(ctx, avatars.S3Config{
			User:         c.S3RootUser,
			Password:     c.S3RootPassword,
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
		})
	default:
		return avatars.NewLocalStore(c.AvatarDir)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.httpServer.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until ctx is cancelled or a termination signal arrives, then
// closes storage.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.Storage, "avatars", app.config.AvatarStore)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.repomanager.Close(context.Background()); err != nil {
		app.logger.Error(ctx, "storage close", "error", err)
	}
	app.logger.Info(ctx, "Stopped")
}
