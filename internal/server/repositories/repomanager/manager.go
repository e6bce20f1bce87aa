// Package repomanager selects the storage backend and hands out repositories
// bound either to the plain connection or to a transaction.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/orgbook/internal/server/repositories/companies"
	"github.com/dmitrijs2005/orgbook/internal/server/repositories/users"
)

// Storage backend names accepted in configuration.
const (
	StoragePostgres = "postgres"
	StorageMongo    = "mongo"
)

// Repositories groups the repositories of one storage scope.
type Repositories interface {
	Companies() companies.Repository
	Users() users.Repository
}

type RepositoryManager interface {
	Repositories

	// WithTx runs fn with repositories sharing one unit of work. Whether
	// that unit is atomic depends on the backend.
	WithTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error

	// RunMigrations brings the schema (tables or indexes) up to date.
	RunMigrations(ctx context.Context) error

	Close(ctx context.Context) error
}
