package db

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Queries holds the statements used by the stores.
type Queries struct {
	db DBTX
}

// New returns a Queries bound to db.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a Queries bound to tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// KvStore is a row of the kv_store table.
type KvStore struct {
	Key       string
	Value     []byte
	ExpiresAt sql.NullInt64
	CreatedAt int64
	UpdatedAt int64
}

const kvGet = `SELECT key, value, expires_at, created_at, updated_at FROM kv_store WHERE key = ?`

// KVGet returns the row for key or sql.ErrNoRows.
func (q *Queries) KVGet(ctx context.Context, key string) (KvStore, error) {
	var row KvStore
	err := q.db.QueryRowContext(ctx, kvGet, key).Scan(
		&row.Key,
		&row.Value,
		&row.ExpiresAt,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	return row, err
}

const kvUpdatedAt = `SELECT updated_at FROM kv_store WHERE key = ?`

// KVUpdatedAt returns only the update stamp for key.
func (q *Queries) KVUpdatedAt(ctx context.Context, key string) (int64, error) {
	var updatedAt int64
	err := q.db.QueryRowContext(ctx, kvUpdatedAt, key).Scan(&updatedAt)
	return updatedAt, err
}

// KVSetParams are the arguments to KVSet.
type KVSetParams struct {
	Key       string
	Value     []byte
	ExpiresAt sql.NullInt64
	CreatedAt int64
	UpdatedAt int64
}

const kvSet = `INSERT INTO kv_store (key, value, expires_at, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (key) DO UPDATE SET
    value = excluded.value,
    expires_at = excluded.expires_at,
    updated_at = excluded.updated_at`

// KVSet inserts or replaces the value for a key. created_at is kept on update.
func (q *Queries) KVSet(ctx context.Context, arg KVSetParams) error {
	_, err := q.db.ExecContext(ctx, kvSet,
		arg.Key,
		arg.Value,
		arg.ExpiresAt,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const kvDelete = `DELETE FROM kv_store WHERE key = ?`

// KVDelete removes a key. Deleting a missing key is not an error.
func (q *Queries) KVDelete(ctx context.Context, key string) error {
	_, err := q.db.ExecContext(ctx, kvDelete, key)
	return err
}

const kvListKeys = `SELECT key FROM kv_store WHERE expires_at IS NULL OR expires_at > ? ORDER BY key`

// KVListKeys returns the non-expired keys in sorted order.
func (q *Queries) KVListKeys(ctx context.Context, now sql.NullInt64) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, kvListKeys, now)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	keys := []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

const kvSweepExpired = `DELETE FROM kv_store WHERE expires_at IS NOT NULL AND expires_at <= ?`

// KVSweepExpired deletes rows whose expiry has passed.
func (q *Queries) KVSweepExpired(ctx context.Context, now sql.NullInt64) error {
	_, err := q.db.ExecContext(ctx, kvSweepExpired, now)
	return err
}
