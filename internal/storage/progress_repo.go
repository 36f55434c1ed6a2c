package storage

import (
	"context"
	"encoding/json"
)

type ProgressRepo struct {
	kv *KVRepo
}

func NewProgressRepo(kv *KVRepo) *ProgressRepo {
	return &ProgressRepo{kv: kv}
}

// GetOrCreate returns the stored progress, or first-run defaults when none exist yet.
// Defaults are not written until the first Save.
func (r *ProgressRepo) GetOrCreate(ctx context.Context) (*Progress, error) {
	data, ok, err := r.kv.Get(ctx, ProgressKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return NewProgress(), nil
	}

	p := NewProgress()
	if err := json.Unmarshal(data, p); err != nil {
		return nil, r.kv.decodeFailed(ctx, ProgressKey, data, err)
	}
	if p.Level < 1 {
		p.Level = 1
	}
	if p.Achievements == nil {
		p.Achievements = []string{}
	}
	return p, nil
}

func (r *ProgressRepo) Save(ctx context.Context, p *Progress) error {
	data, err := json.Marshal(p)
	if err != nil {
		return &PersistenceError{Op: "encode", Key: ProgressKey, Err: err}
	}
	return r.kv.Put(ctx, ProgressKey, data)
}
