package companies

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/orgbook/internal/common"
	"github.com/dmitrijs2005/orgbook/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testID = "0b7c2c1e-8f5d-4b53-9a53-3c6b1d1b7f10"

var (
	since   = time.Date(1999, 3, 1, 0, 0, 0, 0, time.UTC)
	created = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewPostgresRepository(db), mock
}

func companyRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "since", "created_at", "updated_at", "deleted_at"})
}

func TestFind_AllParams(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)^SELECT id, name, since, created_at, updated_at, deleted_at FROM companies WHERE name ILIKE \$1 ORDER BY name ASC, id ASC LIMIT \$2$`
	mock.ExpectQuery(q).
		WithArgs(`%50\%%`, 10).
		WillReturnRows(companyRows().
			AddRow(testID, "Acme 50%", since, created, created, nil).
			AddRow("11111111-1111-1111-1111-111111111111", "Beta 50%", since, created, created, created))

	got, err := repo.Find(context.Background(), models.FindParams{Search: "50%", SortBy: "name", Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Acme 50%", got[0].Name)
	assert.Nil(t, got[0].DeletedAt)
	require.NotNil(t, got[1].DeletedAt)
	assert.Equal(t, created, *got[1].DeletedAt)
}

func TestFind_NoParams(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)^SELECT id, name, since, created_at, updated_at, deleted_at FROM companies ORDER BY created_at ASC, id ASC$`
	mock.ExpectQuery(q).WillReturnRows(companyRows())

	got, err := repo.Find(context.Background(), models.FindParams{SortBy: "capacity"})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFind_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT .* FROM companies`).WillReturnError(errors.New("db down"))

	_, err := repo.Find(context.Background(), models.FindParams{})
	require.Error(t, err)
	assert.Regexp(t, regexp.MustCompile(`db error: .*db down`), err.Error())
}

func TestGet(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)^SELECT id, name, since, created_at, updated_at, deleted_at FROM companies WHERE id = \$1$`
	mock.ExpectQuery(q).WithArgs(testID).
		WillReturnRows(companyRows().AddRow(testID, "Acme", since, created, created, nil))

	got, err := repo.Get(context.Background(), testID)
	require.NoError(t, err)
	assert.Equal(t, &models.Company{ID: testID, Name: "Acme", Since: since, CreatedAt: created, UpdatedAt: created}, got)
}

func TestGet_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM companies WHERE id`).WithArgs(testID).WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), testID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMalformedIDIsNotFound(t *testing.T) {
	repo, _ := newRepoWithMock(t)
	ctx := context.Background()

	_, err := repo.Get(ctx, "42")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = repo.Update(ctx, "nope", models.CompanyUpdate{})
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = repo.Trash(ctx, "nope")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = repo.Restore(ctx, "nope")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, repo.Erase(ctx, "nope"), common.ErrorNotFound)
}

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)^INSERT\s+INTO\s+companies\s*\(name,\s*since\)\s*VALUES\s*\(\$1,\s*\$2\)\s*RETURNING id, name, since, created_at, updated_at, deleted_at$`
	mock.ExpectQuery(q).WithArgs("Acme", since).
		WillReturnRows(companyRows().AddRow(testID, "Acme", since, created, created, nil))

	got, err := repo.Create(context.Background(), &models.Company{Name: "Acme", Since: since})
	require.NoError(t, err)
	assert.Equal(t, testID, got.ID)
}

func TestUpdate_Partial(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)^UPDATE companies\s+SET name = COALESCE\(\$2, name\),\s+since = COALESCE\(\$3, since\),\s+updated_at = now\(\)\s+WHERE id = \$1\s+RETURNING`
	mock.ExpectQuery(q).WithArgs(testID, "New", nil).
		WillReturnRows(companyRows().AddRow(testID, "New", since, created, created, nil))

	name := "New"
	got, err := repo.Update(context.Background(), testID, models.CompanyUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "New", got.Name)
}

func TestTrashAndRestore(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)^UPDATE companies SET deleted_at = now\(\) WHERE id = \$1 RETURNING`).WithArgs(testID).
		WillReturnRows(companyRows().AddRow(testID, "Acme", since, created, created, created))
	mock.ExpectQuery(`(?s)^UPDATE companies SET deleted_at = NULL WHERE id = \$1 RETURNING`).WithArgs(testID).
		WillReturnRows(companyRows().AddRow(testID, "Acme", since, created, created, nil))

	trashed, err := repo.Trash(context.Background(), testID)
	require.NoError(t, err)
	assert.NotNil(t, trashed.DeletedAt)

	restored, err := repo.Restore(context.Background(), testID)
	require.NoError(t, err)
	assert.Nil(t, restored.DeletedAt)
}

func TestErase(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)^DELETE FROM companies WHERE id = \$1$`
	mock.ExpectExec(q).WithArgs(testID).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs(testID).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(q).WithArgs(testID).WillReturnError(errors.New("db err"))

	require.NoError(t, repo.Erase(context.Background(), testID))
	assert.ErrorIs(t, repo.Erase(context.Background(), testID), common.ErrorNotFound)

	err := repo.Erase(context.Background(), testID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error: db err")
}
