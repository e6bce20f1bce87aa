// Package httpapi exposes companies, users and login as a JSON REST API
// under /api/v1.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/orgbook/internal/logging"
	"github.com/dmitrijs2005/orgbook/internal/server/models"
	"github.com/dmitrijs2005/orgbook/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type CompanyService interface {
	Find(ctx context.Context, p models.FindParams) ([]*models.Company, error)
	Get(ctx context.Context, id string) (*models.Company, error)
	Create(ctx context.Context, name string, since time.Time) (*models.Company, error)
	Update(ctx context.Context, id string, upd models.CompanyUpdate) (*models.Company, error)
	Delete(ctx context.Context, id string, mode models.DeleteMode) (*models.Company, error)
}

type UserService interface {
	Find(ctx context.Context, p models.FindParams) ([]*models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, in services.NewUser) (*models.User, error)
	Update(ctx context.Context, id string, ch services.UserChanges) (*models.User, error)
	Delete(ctx context.Context, id string, mode models.DeleteMode) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
}

// Options configures an HTTPServer. Empty AllowedOrigins allows any origin.
type Options struct {
	Address        string
	SecretKey      string
	MaxUploadSize  int64
	AllowedOrigins []string
}

type HTTPServer struct {
	address       string
	logger        logging.Logger
	companies     CompanyService
	users         UserService
	jwtSecret     []byte
	maxUploadSize int64
	validate      *validator.Validate
	engine        *gin.Engine
}

func NewHTTPServer(opts Options, l logging.Logger, cs CompanyService, us UserService) *HTTPServer {
	s := &HTTPServer{
		address:       opts.Address,
		logger:        l.With("module", "http_server"),
		companies:     cs,
		users:         us,
		jwtSecret:     []byte(opts.SecretKey),
		maxUploadSize: opts.MaxUploadSize,
		validate:      newValidator(),
	}
	s.engine = s.routes(opts.AllowedOrigins)
	return s
}

// Handler returns the routed gin engine.
func (s *HTTPServer) Handler() http.Handler { return s.engine }

func (s *HTTPServer) routes(origins []string) *gin.Engine {
	e := gin.New()
	e.MaxMultipartMemory = 1 << 20
	e.Use(gin.Recovery(), s.requestLogger(), corsMiddleware(origins))
	e.NoRoute(func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusNotFound, rejection("Not found"))
	})

	api := e.Group("/api/v1")
	api.POST("/auth/login", s.login)

	companies := api.Group("/companies")
	companies.GET("", s.findCompanies)
	companies.GET("/:id", s.getCompany)
	companies.POST("", s.authRequired, s.createCompany)
	companies.PATCH("/:id", s.authRequired, s.updateCompany)
	companies.PUT("/:id", s.authRequired, s.updateCompany)
	companies.DELETE("/:id", s.authRequired, s.deleteCompany)

	users := api.Group("/users")
	users.GET("", s.findUsers)
	users.GET("/:id", s.getUser)
	users.POST("", s.createUser)
	users.PATCH("/:id", s.authRequired, s.updateUser)
	users.DELETE("/:id", s.authRequired, s.deleteUser)

	return e
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve is Run on an already bound listener.
func (s *HTTPServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	return nil
}
