package kv_test

import (
	"context"
	"testing"
	"time"

	"github.com/colonyops/tick/internal/core/kv"
	"github.com/colonyops/tick/internal/core/task"
	"github.com/colonyops/tick/internal/data/db"
	"github.com/colonyops/tick/internal/data/stores"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKV(t *testing.T) kv.KV {
	t.Helper()
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return stores.NewKVStore(database)
}

func TestTypedKV_SetAndGet(t *testing.T) {
	ctx := context.Background()
	typed := kv.Typed[[]task.Task](newTestKV(t))

	tasks := []task.Task{
		{ID: "a", Text: "Buy milk", Status: task.StatusPending, Timestamp: "1/2/2026, 3:04:05 PM"},
	}
	require.NoError(t, typed.Set(ctx, task.StorageKey, tasks))

	got, err := typed.Get(ctx, task.StorageKey)
	require.NoError(t, err)
	assert.Equal(t, tasks, got)
}

func TestTypedKV_Raw(t *testing.T) {
	ctx := context.Background()
	typed := kv.Typed[[]string](newTestKV(t))

	require.NoError(t, typed.Set(ctx, "names", []string{"a", "b"}))

	entry, err := typed.Raw(ctx, "names")
	require.NoError(t, err)
	assert.Equal(t, "names", entry.Key)
	assert.JSONEq(t, `["a","b"]`, string(entry.Value))
	assert.False(t, entry.UpdatedAt.IsZero())
	assert.Nil(t, entry.ExpiresAt)
}

func TestTypedKV_ScopedPrefix(t *testing.T) {
	ctx := context.Background()
	store := newTestKV(t)

	alpha := kv.Scoped[int](store, "alpha")
	beta := kv.Scoped[int](store, "beta")

	require.NoError(t, alpha.Set(ctx, "count", 10))
	require.NoError(t, beta.Set(ctx, "count", 20))

	a, err := alpha.Get(ctx, "count")
	require.NoError(t, err)
	assert.Equal(t, 10, a)

	b, err := beta.Get(ctx, "count")
	require.NoError(t, err)
	assert.Equal(t, 20, b)

	keys, err := store.ListKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha:count", "beta:count"}, keys)
}

func TestTypedKV_DeleteAndHas(t *testing.T) {
	ctx := context.Background()
	typed := kv.Typed[string](newTestKV(t))

	has, err := typed.Has(ctx, "key")
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, typed.Set(ctx, "key", "val"))
	has, err = typed.Has(ctx, "key")
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, typed.Delete(ctx, "key"))
	_, err = typed.Get(ctx, "key")
	assert.True(t, kv.IsNotFound(err))
}

func TestTypedKV_TTL(t *testing.T) {
	ctx := context.Background()
	typed := kv.Scoped[string](newTestKV(t), "ttl")

	require.NoError(t, typed.SetTTL(ctx, "temp", "gone", time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, err := typed.Get(ctx, "temp")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}
