package service

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kennelapp/dog-kennel/internal/config"
	"github.com/kennelapp/dog-kennel/internal/repository"
)

func TestCategoryCacheDisabled(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// Two calls, two database reads: nothing is cached when disabled.
	for i := 0; i < 2; i++ {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, description FROM categories ORDER BY id")).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description"}).
				AddRow(1, "Husky", "sled breed"))
	}

	cache := NewCategoryCache(config.CacheConfig{}, nil, repository.NewCategoryRepo(db))

	for i := 0; i < 2; i++ {
		list, err := cache.List(context.Background())
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Husky", list[0].Name)
	}
	assert.NoError(t, mock.ExpectationsWereMet())

	// OnWrite is a no-op without a Redis client.
	cache.OnWrite(context.Background())
}
