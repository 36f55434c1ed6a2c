package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// KVRepo is a string-keyed record table, the on-device equivalent of a
// browser key-value store.
type KVRepo struct {
	db querier
}

func NewKVRepo(db *sql.DB) *KVRepo {
	return &KVRepo{db: db}
}

func newTxKVRepo(tx *sql.Tx) *KVRepo {
	return &KVRepo{db: tx}
}

// Get returns the stored value for key. A missing key yields ok=false and no error.
func (r *KVRepo) Get(ctx context.Context, key string) (value []byte, ok bool, err error) {
	row := r.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key)
	var s string
	if err := row.Scan(&s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, &PersistenceError{Op: "read", Key: key, Err: err}
	}
	return []byte(s), true, nil
}

func (r *KVRepo) Put(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, string(value), time.Now().UTC())
	if err != nil {
		return &PersistenceError{Op: "write", Key: key, Err: err}
	}
	return nil
}

func (r *KVRepo) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return &PersistenceError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

// decodeFailed copies an undecodable value to key+CorruptSuffix so a later
// write to key cannot destroy it.
func (r *KVRepo) decodeFailed(ctx context.Context, key string, data []byte, err error) error {
	if putErr := r.Put(ctx, key+CorruptSuffix, data); putErr != nil {
		err = errors.Join(err, putErr)
	}
	return &PersistenceError{Op: "decode", Key: key, Err: err}
}
