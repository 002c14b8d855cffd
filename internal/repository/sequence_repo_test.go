package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSequenceTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&model.ReceiptSequence{})
	require.NoError(t, err)

	return db
}

func TestSequenceRepository_Seed(t *testing.T) {
	db := setupSequenceTestDB(t)
	repo := NewSequenceRepository(db)
	ctx := context.Background()

	t.Run("creates the counter row once", func(t *testing.T) {
		require.NoError(t, repo.Seed(ctx))

		last, err := repo.Last(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), last)
	})

	t.Run("leaves an existing counter untouched", func(t *testing.T) {
		_, err := repo.Next(ctx)
		require.NoError(t, err)

		require.NoError(t, repo.Seed(ctx))

		last, err := repo.Last(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), last)
	})
}

func TestSequenceRepository_Next(t *testing.T) {
	db := setupSequenceTestDB(t)
	repo := NewSequenceRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.Seed(ctx))

	t.Run("returns zero-padded ten digit identifiers", func(t *testing.T) {
		id, err := repo.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, "0000000001", id)
		assert.Len(t, id, model.ReceiptIDLength)
	})

	t.Run("issues strictly increasing unique identifiers", func(t *testing.T) {
		seen := map[string]bool{}
		prev := ""
		for i := 0; i < 50; i++ {
			id, err := repo.Next(ctx)
			require.NoError(t, err)
			assert.Len(t, id, model.ReceiptIDLength)
			assert.False(t, seen[id], "identifier %s issued twice", id)
			assert.Greater(t, id, prev)
			seen[id] = true
			prev = id
		}

		last, err := repo.Last(ctx)
		require.NoError(t, err)
		assert.Equal(t, FormatReceiptID(last), prev)
	})
}

func TestSequenceRepository_NextMissingCounter(t *testing.T) {
	db := setupSequenceTestDB(t)
	repo := NewSequenceRepository(db)

	_, err := repo.Next(context.Background())
	assert.ErrorIs(t, err, ErrSequenceMissing)
}

func TestSequenceRepository_RollbackReturnsIdentifier(t *testing.T) {
	db := setupSequenceTestDB(t)
	repo := NewSequenceRepository(db)
	txManager := NewTransactionManager(db)
	ctx := context.Background()
	require.NoError(t, repo.Seed(ctx))

	err := txManager.RunInTx(ctx, func(txCtx context.Context) error {
		id, nextErr := repo.Next(txCtx)
		require.NoError(t, nextErr)
		assert.Equal(t, "0000000001", id)
		return errors.New("boom")
	})
	require.Error(t, err)

	// The failed transaction spent no identifier.
	last, err := repo.Last(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), last)

	id, err := repo.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0000000001", id)
}

func TestFormatReceiptID(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{1, "0000000001"},
		{42, "0000000042"},
		{9999999999, "9999999999"},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprint(tc.in), func(t *testing.T) {
			assert.Equal(t, tc.want, FormatReceiptID(tc.in))
		})
	}
}
