package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kennelapp/dog-kennel/internal/domain"
)

func newUserRepo(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserRepo(db), mock
}

func TestUserRepoCreate(t *testing.T) {
	t.Run("defaults role and names", func(t *testing.T) {
		repo, mock := newUserRepo(t)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (email, password_hash, role, first_name, last_name) VALUES (?,?,?,?,?)")).
			WithArgs("a@b.com", sqlmock.AnyArg(), domain.RoleUser, "Anonymous", "Anonymous").
			WillReturnResult(sqlmock.NewResult(42, 1))

		id, err := repo.Create(context.Background(), "  A@B.com ", "secret123", 4)
		require.NoError(t, err)
		assert.Equal(t, uint64(42), id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo, mock := newUserRepo(t)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
			WillReturnError(errors.New("Error 1062: Duplicate entry"))

		_, err := repo.Create(context.Background(), "a@b.com", "secret123", 4)
		assert.ErrorIs(t, err, ErrEmailExists)
	})
}

func TestUserRepoGetByID(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id=? LIMIT 1")).
		WithArgs(uint64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepoUpdateProfile(t *testing.T) {
	t.Run("unchanged values on an existing row succeed", func(t *testing.T) {
		repo, mock := newUserRepo(t)

		// Changed rows, not matched rows: resubmitting the same profile
		// reports zero affected even though the row exists.
		mock.ExpectExec(regexp.QuoteMeta("UPDATE users")).
			WithArgs("Ann", "Smith", nil, nil, nil, uint64(9)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM users WHERE id = ?")).
			WithArgs(uint64(9)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))

		err := repo.UpdateProfile(context.Background(), 9, "Ann", "Smith", nil, nil, nil)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown user", func(t *testing.T) {
		repo, mock := newUserRepo(t)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE users")).
			WithArgs("Ann", "Smith", nil, nil, nil, uint64(404)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM users WHERE id = ?")).
			WithArgs(uint64(404)).
			WillReturnError(sql.ErrNoRows)

		err := repo.UpdateProfile(context.Background(), 404, "Ann", "Smith", nil, nil, nil)
		assert.ErrorIs(t, err, ErrUserNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepoDelete(t *testing.T) {
	t.Run("detaches dogs and reviews, drops tokens", func(t *testing.T) {
		repo, mock := newUserRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("UPDATE dogs SET owner_id=NULL WHERE owner_id=?")).
			WithArgs(uint64(9)).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(regexp.QuoteMeta("UPDATE reviews SET autor_id=NULL WHERE autor_id=?")).
			WithArgs(uint64(9)).
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM refresh_tokens WHERE user_id=?")).
			WithArgs(uint64(9)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id=?")).
			WithArgs(uint64(9)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Delete(context.Background(), 9)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown user rolls back", func(t *testing.T) {
		repo, mock := newUserRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("UPDATE dogs SET owner_id=NULL WHERE owner_id=?")).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta("UPDATE reviews SET autor_id=NULL WHERE autor_id=?")).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM refresh_tokens WHERE user_id=?")).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id=?")).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.Delete(context.Background(), 77)
		assert.ErrorIs(t, err, ErrUserNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
