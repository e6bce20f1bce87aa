package users

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

const columns = `id, name, email, password_hash, avatar, created_at, updated_at, deleted_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*models.User, error) {
	u := &models.User{}
	var deleted sql.NullTime
	err := s.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Avatar, &u.CreatedAt, &u.UpdatedAt, &deleted)
	if err != nil {
		return nil, err
	}
	u.DeletedAt = dbx.TimePtr(deleted)
	return u, nil
}

func (r *PostgresRepository) one(ctx context.Context, query string, args ...any) (*models.User, error) {
	u, err := scan(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) Find(ctx context.Context, p models.FindParams) ([]*models.User, error) {
	var (
		q    strings.Builder
		args []any
	)
	q.WriteString(`SELECT ` + columns + ` FROM users`)

	if p.Search != "" {
		args = append(args, dbx.ContainsPattern(p.Search))
		fmt.Fprintf(&q, ` WHERE (name ILIKE $%d OR email ILIKE $%d)`, len(args), len(args))
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

	result := make([]*models.User, 0)
	for rows.Next() {
		u, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	return r.one(ctx, `SELECT `+columns+` FROM users WHERE id = $1`, id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.one(ctx, `SELECT `+columns+` FROM users WHERE email = $1 AND deleted_at IS NULL`, email)
}

func (r *PostgresRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	query := `INSERT INTO users (name, email, password_hash, avatar)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + columns

	return r.one(ctx, query, u.Name, u.Email, u.PasswordHash, u.Avatar)
}

func (r *PostgresRepository) Update(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	query := `UPDATE users
		SET name = COALESCE($2, name),
			email = COALESCE($3, email),
			password_hash = COALESCE($4, password_hash),
			avatar = COALESCE($5, avatar),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + columns

	return r.one(ctx, query, id,
		dbx.NullString(upd.Name), dbx.NullString(upd.Email),
		dbx.NullString(upd.PasswordHash), dbx.NullString(upd.Avatar))
}

func (r *PostgresRepository) Trash(ctx context.Context, id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	return r.one(ctx, `UPDATE users SET deleted_at = now() WHERE id = $1 RETURNING `+columns, id)
}

func (r *PostgresRepository) Restore(ctx context.Context, id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	return r.one(ctx, `UPDATE users SET deleted_at = NULL WHERE id = $1 RETURNING `+columns, id)
}

func (r *PostgresRepository) Erase(ctx context.Context, id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	return r.one(ctx, `DELETE FROM users WHERE id = $1 RETURNING `+columns, id)
}
