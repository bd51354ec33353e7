package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCategoryRepo(t *testing.T) (*CategoryRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewCategoryRepo(db), mock
}

func TestCategoryRepoSearch(t *testing.T) {
	repo, mock := newCategoryRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("LOWER(name) LIKE LOWER(CONCAT('%', ?, '%'))")).
		WithArgs("shep").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description"}).
			AddRow(2, "German Shepherd", "working breed"))

	out, err := repo.Search(context.Background(), "shep")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "German Shepherd", out[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepoUpdate(t *testing.T) {
	t.Run("unchanged values on an existing row succeed", func(t *testing.T) {
		repo, mock := newCategoryRepo(t)

		// The driver reports changed rows, not matched rows, so an
		// idempotent resubmit comes back with zero affected.
		mock.ExpectExec(regexp.QuoteMeta("UPDATE categories SET name = ?, description = ? WHERE id = ?")).
			WithArgs("Husky", "sled breed", uint64(3)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM categories WHERE id = ?")).
			WithArgs(uint64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

		err := repo.Update(context.Background(), 3, "Husky", "sled breed")
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown category", func(t *testing.T) {
		repo, mock := newCategoryRepo(t)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE categories SET name = ?, description = ? WHERE id = ?")).
			WithArgs("Husky", "sled breed", uint64(404)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM categories WHERE id = ?")).
			WithArgs(uint64(404)).
			WillReturnError(sql.ErrNoRows)

		err := repo.Update(context.Background(), 404, "Husky", "sled breed")
		assert.ErrorIs(t, err, ErrCategoryNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCategoryRepoDelete(t *testing.T) {
	t.Run("cascades through dependents", func(t *testing.T) {
		repo, mock := newCategoryRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("DELETE rv FROM reviews rv")).
			WithArgs(uint64(2)).
			WillReturnResult(sqlmock.NewResult(0, 4))
		mock.ExpectExec(regexp.QuoteMeta("DELETE p FROM parents p")).
			WithArgs(uint64(2)).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM parents WHERE category_id = ?")).
			WithArgs(uint64(2)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM dogs WHERE category_id = ?")).
			WithArgs(uint64(2)).
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM categories WHERE id = ?")).
			WithArgs(uint64(2)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Delete(context.Background(), 2)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown category rolls back", func(t *testing.T) {
		repo, mock := newCategoryRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("DELETE rv FROM reviews rv")).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta("DELETE p FROM parents p")).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM parents WHERE category_id = ?")).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM dogs WHERE category_id = ?")).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM categories WHERE id = ?")).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.Delete(context.Background(), 404)
		assert.ErrorIs(t, err, ErrCategoryNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
