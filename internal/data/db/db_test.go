package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_CreatesSchema(t *testing.T) {
	dir := t.TempDir()

	database, err := Open(dir, DefaultOpenOptions())
	require.NoError(t, err)
	defer func() { _ = database.Close() }()

	assert.Equal(t, filepath.Join(dir, FileName), database.Path())

	keys, err := database.Queries().KVListKeys(context.Background(), sql.NullInt64{Int64: 0, Valid: true})
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestOpen_Reopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	database, err := Open(dir, OpenOptions{})
	require.NoError(t, err)
	require.NoError(t, database.Queries().KVSet(ctx, KVSetParams{
		Key: "k", Value: []byte(`"v"`), CreatedAt: 1, UpdatedAt: 1,
	}))
	require.NoError(t, database.Close())

	database, err = Open(dir, OpenOptions{})
	require.NoError(t, err)
	defer func() { _ = database.Close() }()

	row, err := database.Queries().KVGet(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `"v"`, string(row.Value))
}

func TestKVSet_KeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	database, err := Open(t.TempDir(), DefaultOpenOptions())
	require.NoError(t, err)
	defer func() { _ = database.Close() }()

	q := database.Queries()
	require.NoError(t, q.KVSet(ctx, KVSetParams{Key: "k", Value: []byte(`1`), CreatedAt: 10, UpdatedAt: 10}))
	require.NoError(t, q.KVSet(ctx, KVSetParams{Key: "k", Value: []byte(`2`), CreatedAt: 20, UpdatedAt: 20}))

	row, err := q.KVGet(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(10), row.CreatedAt)
	assert.Equal(t, int64(20), row.UpdatedAt)
	assert.Equal(t, `2`, string(row.Value))

	updatedAt, err := q.KVUpdatedAt(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(20), updatedAt)
}

func TestWithTx_Rollback(t *testing.T) {
	ctx := context.Background()
	database, err := Open(t.TempDir(), DefaultOpenOptions())
	require.NoError(t, err)
	defer func() { _ = database.Close() }()

	err = database.WithTx(ctx, func(q *Queries) error {
		if err := q.KVSet(ctx, KVSetParams{Key: "k", Value: []byte(`1`), CreatedAt: 1, UpdatedAt: 1}); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	_, err = database.Queries().KVGet(ctx, "k")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
