package storage

import (
	"context"
	"database/sql"
)

// Store bundles the item and progress records on one database.
type Store struct {
	db       *sql.DB
	kv       *KVRepo
	items    *ItemRepo
	progress *ProgressRepo
}

func NewStore(db *sql.DB) *Store {
	kv := NewKVRepo(db)
	return &Store{
		db:       db,
		kv:       kv,
		items:    NewItemRepo(kv),
		progress: NewProgressRepo(kv),
	}
}

func (s *Store) KV() *KVRepo                 { return s.kv }
func (s *Store) ItemRepo() *ItemRepo         { return s.items }
func (s *Store) ProgressRepo() *ProgressRepo { return s.progress }

func (s *Store) LoadItems(ctx context.Context) ([]Item, error) {
	return s.items.Load(ctx)
}

func (s *Store) SaveItems(ctx context.Context, items []Item) error {
	return s.items.Save(ctx, items)
}

func (s *Store) LoadProgress(ctx context.Context) (*Progress, error) {
	return s.progress.GetOrCreate(ctx)
}

func (s *Store) SaveProgress(ctx context.Context, p *Progress) error {
	return s.progress.Save(ctx, p)
}

// SaveAll writes both records in one transaction.
func (s *Store) SaveAll(ctx context.Context, items []Item, p *Progress) error {
	return WithTx(ctx, s.db, func(tx *sql.Tx) error {
		kv := newTxKVRepo(tx)
		if err := NewItemRepo(kv).Save(ctx, items); err != nil {
			return err
		}
		return NewProgressRepo(kv).Save(ctx, p)
	})
}
