// Package services contains server-side business logic for companies and
// users. Services talk to storage only through repomanager and to avatar
// files only through avatars.Store.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/orgbook/internal/common"
	"github.com/dmitrijs2005/orgbook/internal/logging"
	"github.com/dmitrijs2005/orgbook/internal/server/models"
	"github.com/dmitrijs2005/orgbook/internal/server/repositories/repomanager"
)

type CompanyService struct {
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewCompanyService(m repomanager.RepositoryManager, logger logging.Logger) *CompanyService {
	return &CompanyService{repomanager: m, logger: logger.With("module", "company_service")}
}

func (s *CompanyService) Find(ctx context.Context, p models.FindParams) ([]*models.Company, error) {
	return s.repomanager.Companies().Find(ctx, p)
}

func (s *CompanyService) Get(ctx context.Context, id string) (*models.Company, error) {
	return s.repomanager.Companies().Get(ctx, id)
}

func (s *CompanyService) Create(ctx context.Context, name string, since time.Time) (*models.Company, error) {
	c, err := s.repomanager.Companies().Create(ctx, &models.Company{Name: name, Since: since})
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "company created", "id", c.ID)
	return c, nil
}

// Update applies upd. An empty update returns the current record.
func (s *CompanyService) Update(ctx context.Context, id string, upd models.CompanyUpdate) (*models.Company, error) {
	if upd.Empty() {
		return s.Get(ctx, id)
	}
	return s.repomanager.Companies().Update(ctx, id, upd)
}

// Delete trashes, restores or erases a company. Erase returns a nil record.
func (s *CompanyService) Delete(ctx context.Context, id string, mode models.DeleteMode) (*models.Company, error) {
	repo := s.repomanager.Companies()

	switch mode {
	case models.DeleteTrash:
		return repo.Trash(ctx, id)
	case models.DeleteRestore:
		return repo.Restore(ctx, id)
	case models.DeleteErase:
		if err := repo.Erase(ctx, id); err != nil {
			return nil, err
		}
		s.logger.Info(ctx, "company erased", "id", id)
		return nil, nil
	}
	return nil, fmt.Errorf("%w: unknown delete mode %q", common.ErrorValidation, mode)
}
