package kv

import (
	"context"
	"time"
)

// TypedKV provides type-safe access to a KV store for a specific type T.
type TypedKV[T any] struct {
	store  KV
	prefix string
}

// Typed returns a TypedKV[T] addressing keys as given.
func Typed[T any](store KV) *TypedKV[T] {
	return &TypedKV[T]{store: store}
}

// Scoped returns a TypedKV[T] that prefixes all keys with "namespace:".
func Scoped[T any](store KV, namespace string) *TypedKV[T] {
	return &TypedKV[T]{
		store:  store,
		prefix: namespace + ":",
	}
}

// Key returns the backend key for key.
func (t *TypedKV[T]) Key(key string) string {
	return t.prefix + key
}

// Get retrieves and deserializes a value by key.
func (t *TypedKV[T]) Get(ctx context.Context, key string) (T, error) {
	var v T
	if err := t.store.Get(ctx, t.Key(key), &v); err != nil {
		return v, err
	}
	return v, nil
}

// Raw returns the stored entry without decoding it into T.
func (t *TypedKV[T]) Raw(ctx context.Context, key string) (Entry, error) {
	return t.store.GetRaw(ctx, t.Key(key))
}

// Set stores a value with no expiry.
func (t *TypedKV[T]) Set(ctx context.Context, key string, value T) error {
	return t.store.Set(ctx, t.Key(key), value)
}

// SetTTL stores a value that expires after the given duration.
func (t *TypedKV[T]) SetTTL(ctx context.Context, key string, value T, ttl time.Duration) error {
	return t.store.SetTTL(ctx, t.Key(key), value, ttl)
}

// Delete removes a key.
func (t *TypedKV[T]) Delete(ctx context.Context, key string) error {
	return t.store.Delete(ctx, t.Key(key))
}

// Has returns whether a key exists.
func (t *TypedKV[T]) Has(ctx context.Context, key string) (bool, error) {
	return t.store.Has(ctx, t.Key(key))
}
