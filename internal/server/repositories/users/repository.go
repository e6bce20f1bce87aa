// Package users persists user accounts in PostgreSQL or MongoDB.
package users

import (
	"context"

	"github.com/dmitrijs2005/orgbook/internal/server/models"
)

// Repository is implemented by every user storage backend. Unknown or
// malformed ids yield common.ErrorNotFound; a taken email yields
// common.ErrorAlreadyExists.
type Repository interface {
	Find(ctx context.Context, p models.FindParams) ([]*models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	// GetByEmail returns the live (not trashed) account with this email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u *models.User) (*models.User, error)
	Update(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error)
	Trash(ctx context.Context, id string) (*models.User, error)
	Restore(ctx context.Context, id string) (*models.User, error)
	// Erase removes the account and returns it as it was.
	Erase(ctx context.Context, id string) (*models.User, error)
}

// SortField returns the storage field for an accepted sort_by key.
func SortField(key string) (string, bool) {
	switch key {
	case "name":
		return "name", true
	case "email":
		return "email", true
	}
	return "", false
}
