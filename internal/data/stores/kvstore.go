package stores

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/colonyops/tick/internal/core/kv"
	"github.com/colonyops/tick/internal/data/db"
)

// KVStore implements kv.KV on the kv_store table. Times are stored as Unix
// nanoseconds. Expired rows read as missing and are removed when touched;
// SweepExpired clears the rest.
type KVStore struct {
	db  *db.DB
	now func() time.Time
}

var _ kv.KV = (*KVStore)(nil)

// KVStoreOption configures a KVStore.
type KVStoreOption func(*KVStore)

// WithKVClock sets the time source for expiry and update stamps.
func WithKVClock(now func() time.Time) KVStoreOption {
	return func(s *KVStore) { s.now = now }
}

func NewKVStore(database *db.DB, opts ...KVStoreOption) *KVStore {
	s := &KVStore{db: database, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *KVStore) Get(ctx context.Context, key string, dest any) error {
	row, err := s.live(ctx, key)
	if err != nil {
		return fmt.Errorf("kv get %q: %w", key, err)
	}
	if err := json.Unmarshal(row.Value, dest); err != nil {
		return fmt.Errorf("kv get %q: decode: %w", key, err)
	}
	return nil
}

func (s *KVStore) GetRaw(ctx context.Context, key string) (kv.Entry, error) {
	row, err := s.live(ctx, key)
	if err != nil {
		return kv.Entry{}, fmt.Errorf("kv get raw %q: %w", key, err)
	}
	return toEntry(row), nil
}

func (s *KVStore) Has(ctx context.Context, key string) (bool, error) {
	_, err := s.live(ctx, key)
	switch {
	case err == nil:
		return true, nil
	case kv.IsNotFound(err):
		return false, nil
	default:
		return false, fmt.Errorf("kv has %q: %w", key, err)
	}
}

// UpdatedAt returns the last write time of key without reading its value.
// Expiry is not checked.
func (s *KVStore) UpdatedAt(ctx context.Context, key string) (time.Time, error) {
	stamp, err := s.db.Queries().KVUpdatedAt(ctx, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("kv updated at %q: %w", key, notFound(err))
	}
	return time.Unix(0, stamp), nil
}

func (s *KVStore) Set(ctx context.Context, key string, value any) error {
	return s.put(ctx, key, value, sql.NullInt64{})
}

func (s *KVStore) SetTTL(ctx context.Context, key string, value any, ttl time.Duration) error {
	expires := s.now().Add(ttl).UnixNano()
	return s.put(ctx, key, value, sql.NullInt64{Int64: expires, Valid: true})
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	if err := s.db.Queries().KVDelete(ctx, key); err != nil {
		return fmt.Errorf("kv delete %q: %w", key, err)
	}
	return nil
}

// ListKeys returns the live keys in sorted order.
func (s *KVStore) ListKeys(ctx context.Context) ([]string, error) {
	keys, err := s.db.Queries().KVListKeys(ctx, s.stamp())
	if err != nil {
		return nil, fmt.Errorf("kv list keys: %w", err)
	}
	return keys, nil
}

func (s *KVStore) SweepExpired(ctx context.Context) error {
	if err := s.db.Queries().KVSweepExpired(ctx, s.stamp()); err != nil {
		return fmt.Errorf("kv sweep expired: %w", err)
	}
	return nil
}

func (s *KVStore) put(ctx context.Context, key string, value any, expires sql.NullInt64) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kv set %q: encode: %w", key, err)
	}

	at := s.now().UnixNano()
	err = s.db.Queries().KVSet(ctx, db.KVSetParams{
		Key:       key,
		Value:     data,
		ExpiresAt: expires,
		CreatedAt: at,
		UpdatedAt: at,
	})
	if err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}
	return nil
}

// live loads key and drops it when its expiry has passed.
func (s *KVStore) live(ctx context.Context, key string) (db.KvStore, error) {
	row, err := s.db.Queries().KVGet(ctx, key)
	if err != nil {
		return db.KvStore{}, notFound(err)
	}

	if row.ExpiresAt.Valid && row.ExpiresAt.Int64 <= s.now().UnixNano() {
		_ = s.db.Queries().KVDelete(ctx, key)
		return db.KvStore{}, fmt.Errorf("%w: expired", kv.ErrNotFound)
	}
	return row, nil
}

func (s *KVStore) stamp() sql.NullInt64 {
	return sql.NullInt64{Int64: s.now().UnixNano(), Valid: true}
}

// notFound tags sql.ErrNoRows with kv.ErrNotFound; other errors pass through.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", kv.ErrNotFound, err)
	}
	return err
}

func toEntry(row db.KvStore) kv.Entry {
	entry := kv.Entry{
		Key:       row.Key,
		Value:     json.RawMessage(row.Value),
		CreatedAt: time.Unix(0, row.CreatedAt),
		UpdatedAt: time.Unix(0, row.UpdatedAt),
	}
	if row.ExpiresAt.Valid {
		expires := time.Unix(0, row.ExpiresAt.Int64)
		entry.ExpiresAt = &expires
	}
	return entry
}
