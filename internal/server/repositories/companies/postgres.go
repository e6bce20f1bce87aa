package companies

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/orgbook/internal/common"
	"github.com/dmitrijs2005/orgbook/internal/dbx"
	"github.com/dmitrijs2005/orgbook/internal/server/models"
	"github.com/google/uuid"
)

const columns = `id, name, since, created_at, updated_at, deleted_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*models.Company, error) {
	c := &models.Company{}
	var deleted sql.NullTime
	if err := s.Scan(&c.ID, &c.Name, &c.Since, &c.CreatedAt, &c.UpdatedAt, &deleted); err != nil {
		return nil, err
	}
	c.DeletedAt = dbx.TimePtr(deleted)
	return c, nil
}

func (r *PostgresRepository) one(ctx context.Context, query string, args ...any) (*models.Company, error) {
	c, err := scan(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Find(ctx context.Context, p models.FindParams) ([]*models.Company, error) {
	var (
		q    strings.Builder
		args []any
	)
	q.WriteString(`SELECT ` + columns + ` FROM companies`)

	if p.Search != "" {
		args = append(args, dbx.ContainsPattern(p.Search))
		fmt.Fprintf(&q, ` WHERE name ILIKE $%d`, len(args))
	}
	if col, ok := SortField(p.SortBy); ok {
		q.WriteString(` ORDER BY ` + col + ` ASC, id ASC`)
	} else {
		q.WriteString(` ORDER BY created_at ASC, id ASC`)
	}
	if p.Limit > 0 {
		args = append(args, p.Limit)
		fmt.Fprintf(&q, ` LIMIT $%d`, len(args))
	}

	rows, err := r.db.QueryContext(ctx, q.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Company, 0)
	for rows.Next() {
		c, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Company, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	return r.one(ctx, `SELECT `+columns+` FROM companies WHERE id = $1`, id)
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Company) (*models.Company, error) {
	query := `INSERT INTO companies (name, since)
		VALUES ($1, $2)
		RETURNING ` + columns

	return r.one(ctx, query, c.Name, c.Since)
}

func (r *PostgresRepository) Update(ctx context.Context, id string, upd models.CompanyUpdate) (*models.Company, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	query := `UPDATE companies
		SET name = COALESCE($2, name),
			since = COALESCE($3, since),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + columns

	return r.one(ctx, query, id, dbx.NullString(upd.Name), dbx.NullTime(upd.Since))
}

func (r *PostgresRepository) Trash(ctx context.Context, id string) (*models.Company, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	return r.one(ctx, `UPDATE companies SET deleted_at = now() WHERE id = $1 RETURNING `+columns, id)
}

func (r *PostgresRepository) Restore(ctx context.Context, id string) (*models.Company, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	return r.one(ctx, `UPDATE companies SET deleted_at = NULL WHERE id = $1 RETURNING `+columns, id)
}

func (r *PostgresRepository) Erase(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
