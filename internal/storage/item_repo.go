package storage

import (
	"context"
	"encoding/json"
)

type ItemRepo struct {
	kv *KVRepo
}

func NewItemRepo(kv *KVRepo) *ItemRepo {
	return &ItemRepo{kv: kv}
}

// Load returns the stored items in their stored order. A missing record is an empty list.
func (r *ItemRepo) Load(ctx context.Context) ([]Item, error) {
	data, ok, err := r.kv.Get(ctx, ItemsKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []Item{}, nil
	}

	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, r.kv.decodeFailed(ctx, ItemsKey, data, err)
	}
	for i := range items {
		if items[i].Logs == nil {
			items[i].Logs = []Log{}
		}
		for j := range items[i].Logs {
			// Older records carry a single implicit event type.
			if items[i].Logs[j].Type == "" {
				items[i].Logs[j].Type = LogFound
			}
		}
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}

func (r *ItemRepo) Save(ctx context.Context, items []Item) error {
	if items == nil {
		items = []Item{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return &PersistenceError{Op: "encode", Key: ItemsKey, Err: err}
	}
	return r.kv.Put(ctx, ItemsKey, data)
}
