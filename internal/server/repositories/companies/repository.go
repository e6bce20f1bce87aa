// Package companies persists company records in PostgreSQL or MongoDB.
package companies

import (
	"context"

	"github.com/dmitrijs2005/orgbook/internal/server/models"
)

// Repository is implemented by every company storage backend. Unknown or
// malformed ids yield common.ErrorNotFound.
type Repository interface {
	Find(ctx context.Context, p models.FindParams) ([]*models.Company, error)
	Get(ctx context.Context, id string) (*models.Company, error)
	Create(ctx context.Context, c *models.Company) (*models.Company, error)
	Update(ctx context.Context, id string, upd models.CompanyUpdate) (*models.Company, error)
	Trash(ctx context.Context, id string) (*models.Company, error)
	Restore(ctx context.Context, id string) (*models.Company, error)
	Erase(ctx context.Context, id string) error
}

// SortField returns the storage field for an accepted sort_by key.
func SortField(key string) (string, bool) {
	switch key {
	case "name":
		return "name", true
	case "since":
		return "since", true
	}
	return "", false
}
