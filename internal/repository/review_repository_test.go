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
)

func newReviewRepo(t *testing.T) (*ReviewRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewReviewRepo(db), mock
}

func TestReviewRepoCreate(t *testing.T) {
	t.Run("populates id and created", func(t *testing.T) {
		repo, mock := newReviewRepo(t)

		author := uint64(5)
		rv := &Review{
			Title:        "Great pup",
			Slug:         "great-pup",
			Content:      "something nice",
			SignOfReview: true,
			AutorID:      &author,
			DogID:        3,
		}

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reviews")).
			WithArgs("Great pup", "great-pup", "something nice", true, &author, uint64(3)).
			WillReturnResult(sqlmock.NewResult(11, 1))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT created FROM reviews WHERE id = ?")).
			WithArgs(uint64(11)).
			WillReturnRows(sqlmock.NewRows([]string{"created"}).AddRow(testTime))

		require.NoError(t, repo.Create(context.Background(), rv))
		assert.Equal(t, uint64(11), rv.ID)
		assert.Equal(t, testTime, rv.Created)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate slug", func(t *testing.T) {
		repo, mock := newReviewRepo(t)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reviews")).
			WillReturnError(errors.New("Error 1062: Duplicate entry 'great-pup' for key 'slug'"))

		err := repo.Create(context.Background(), &Review{Slug: "great-pup"})
		assert.ErrorIs(t, err, ErrSlugTaken)
	})
}

func TestReviewRepoSlugExists(t *testing.T) {
	repo, mock := newReviewRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM reviews WHERE slug = ? LIMIT 1")).
		WithArgs("taken").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM reviews WHERE slug = ? LIMIT 1")).
		WithArgs("free").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	taken, err := repo.SlugExists(context.Background(), "taken")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.SlugExists(context.Background(), "free")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestReviewRepoToggleBySlug(t *testing.T) {
	t.Run("flips the flag", func(t *testing.T) {
		repo, mock := newReviewRepo(t)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE reviews SET sign_of_review = NOT sign_of_review WHERE slug = ?")).
			WithArgs("great-pup").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT sign_of_review FROM reviews WHERE slug = ?")).
			WithArgs("great-pup").
			WillReturnRows(sqlmock.NewRows([]string{"sign_of_review"}).AddRow(false))

		active, err := repo.ToggleBySlug(context.Background(), "great-pup")
		require.NoError(t, err)
		assert.False(t, active)
	})

	t.Run("unknown slug", func(t *testing.T) {
		repo, mock := newReviewRepo(t)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE reviews SET sign_of_review = NOT sign_of_review WHERE slug = ?")).
			WithArgs("nope").
			WillReturnResult(sqlmock.NewResult(0, 0))

		_, err := repo.ToggleBySlug(context.Background(), "nope")
		assert.ErrorIs(t, err, ErrReviewNotFound)
	})
}

func TestReviewRepoUpdate(t *testing.T) {
	t.Run("rewrites title and content", func(t *testing.T) {
		repo, mock := newReviewRepo(t)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE reviews SET title = ?, content = ? WHERE slug = ?")).
			WithArgs("New title", "new content", "great-pup").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Update(context.Background(), "great-pup", "New title", "new content")
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unchanged values on an existing row succeed", func(t *testing.T) {
		repo, mock := newReviewRepo(t)

		// Changed rows, not matched rows: a resubmit with the same
		// values reports zero affected even though the row exists.
		mock.ExpectExec(regexp.QuoteMeta("UPDATE reviews SET title = ?, content = ? WHERE slug = ?")).
			WithArgs("Great pup", "something nice", "great-pup").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM reviews WHERE slug = ?")).
			WithArgs("great-pup").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

		err := repo.Update(context.Background(), "great-pup", "Great pup", "something nice")
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown slug", func(t *testing.T) {
		repo, mock := newReviewRepo(t)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE reviews SET title = ?, content = ? WHERE slug = ?")).
			WithArgs("New title", "new content", "nope").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM reviews WHERE slug = ?")).
			WithArgs("nope").
			WillReturnError(sql.ErrNoRows)

		err := repo.Update(context.Background(), "nope", "New title", "new content")
		assert.ErrorIs(t, err, ErrReviewNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
