package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kynaruniverse/Unearth/internal/storage"
)

// Persister is the durable storage the engine writes through after every mutation.
// *storage.Store implements it.
type Persister interface {
	LoadItems(ctx context.Context) ([]storage.Item, error)
	SaveItems(ctx context.Context, items []storage.Item) error
	LoadProgress(ctx context.Context) (*storage.Progress, error)
	SaveProgress(ctx context.Context, p *storage.Progress) error
	SaveAll(ctx context.Context, items []storage.Item, p *storage.Progress) error
}

type Options struct {
	Logger          *zap.Logger
	Now             func() time.Time
	Location        *time.Location // calendar used for days and weekdays; defaults to time.Local
	ChallengeTarget int
	LevelUpMode     LevelUpMode
}

// Service owns the item store and progression state. All mutation goes through
// its methods; callers only ever see copies.
type Service struct {
	mu sync.Mutex

	store           Persister
	log             *zap.Logger
	now             func() time.Time
	loc             *time.Location
	challengeTarget int
	levelUpMode     LevelUpMode

	items    []storage.Item
	progress *storage.Progress

	notices []Notice

	// Last failure per record; cleared when that record is written.
	itemsErr    error
	progressErr error
	// A record that failed to load is never overwritten until Reset or
	// Import replaces it explicitly.
	itemsLoadErr    error
	progressLoadErr error
}

// NewService loads state from store. A failed load is reported as a
// persistence notice, the service starts from empty state for that record,
// and the record is not written again until Reset or Import replaces it.
func NewService(ctx context.Context, store Persister, opts Options) *Service {
	s := &Service{
		store:           store,
		log:             opts.Logger,
		now:             opts.Now,
		loc:             opts.Location,
		challengeTarget: opts.ChallengeTarget,
		levelUpMode:     opts.LevelUpMode,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.challengeTarget <= 0 {
		s.challengeTarget = DefaultChallengeTarget
	}
	if s.levelUpMode == "" {
		s.levelUpMode = LevelUpLoop
	}

	items, err := store.LoadItems(ctx)
	if err != nil {
		s.persistFailed("load items", storage.ItemsKey, err)
		s.itemsLoadErr = err
		items = []storage.Item{}
	}
	p, err := store.LoadProgress(ctx)
	if err != nil {
		s.persistFailed("load progress", storage.ProgressKey, err)
		s.progressLoadErr = err
		p = storage.NewProgress()
	}
	s.items = items
	s.progress = p
	s.log.Debug("state loaded", zap.Int("items", len(items)), zap.Int("xp", p.XP), zap.Int("level", p.Level))
	return s
}

// Progress returns a copy of the current progression state.
func (s *Service) Progress() storage.Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneProgress(s.progress)
}

// LastPersistError reports every record whose latest load or write failed.
// It is nil only when both records are durable.
func (s *Service) LastPersistError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return errors.Join(s.itemsErr, s.progressErr)
}

// DrainNotices returns and clears the notices emitted since the last call.
func (s *Service) DrainNotices() []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.notices
	s.notices = nil
	return out
}

// Now returns the service clock in its calendar location.
func (s *Service) Now() time.Time {
	return s.today()
}

func (s *Service) today() time.Time {
	return s.now().In(s.loc)
}

func (s *Service) emit(n Notice) {
	s.notices = append(s.notices, n)
}

func (s *Service) persistItems(ctx context.Context) {
	if s.itemsLoadErr != nil {
		s.refuseWrite("save items", storage.ItemsKey, s.itemsLoadErr)
		return
	}
	if err := s.store.SaveItems(ctx, s.items); err != nil {
		s.persistFailed("save items", storage.ItemsKey, err)
		return
	}
	s.itemsErr = nil
}

func (s *Service) persistProgress(ctx context.Context) {
	if s.progressLoadErr != nil {
		s.refuseWrite("save progress", storage.ProgressKey, s.progressLoadErr)
		return
	}
	if err := s.store.SaveProgress(ctx, s.progress); err != nil {
		s.persistFailed("save progress", storage.ProgressKey, err)
		return
	}
	s.progressErr = nil
}

func (s *Service) persistAll(ctx context.Context) {
	if s.itemsLoadErr != nil || s.progressLoadErr != nil {
		s.persistItems(ctx)
		s.persistProgress(ctx)
		return
	}
	if err := s.store.SaveAll(ctx, s.items, s.progress); err != nil {
		s.persistFailed("save all", storage.ItemsKey, err)
		s.progressErr = err
		return
	}
	s.itemsErr = nil
	s.progressErr = nil
}

func (s *Service) persistFailed(op, key string, err error) {
	switch key {
	case storage.ItemsKey:
		s.itemsErr = err
	case storage.ProgressKey:
		s.progressErr = err
	}
	s.log.Error("persistence failed", zap.String("op", op), zap.String("key", key), zap.Error(err))
	msg := "Changes could not be saved: "
	if strings.HasPrefix(op, "load") {
		msg = "Saved data could not be loaded: "
	}
	s.emit(Notice{Kind: NoticePersistenceFailed, Message: msg + err.Error(), Err: err})
}

// refuseWrite reports a skipped write to a record that failed to load.
func (s *Service) refuseWrite(op, key string, loadErr error) {
	err := fmt.Errorf("%w: %s: %w", ErrStateNotLoaded, key, loadErr)
	if key == storage.ItemsKey {
		s.itemsErr = err
	} else {
		s.progressErr = err
	}
	s.log.Warn("write refused", zap.String("op", op), zap.String("key", key), zap.Error(loadErr))
	s.emit(Notice{Kind: NoticePersistenceFailed, Message: "Changes could not be saved: " + err.Error(), Err: err})
}

func cloneItem(it storage.Item) storage.Item {
	out := it
	out.Logs = append([]storage.Log(nil), it.Logs...)
	if out.Logs == nil {
		out.Logs = []storage.Log{}
	}
	return out
}

func cloneItems(items []storage.Item) []storage.Item {
	out := make([]storage.Item, len(items))
	for i := range items {
		out[i] = cloneItem(items[i])
	}
	return out
}

func cloneProgress(p *storage.Progress) storage.Progress {
	out := *p
	out.Achievements = append([]string{}, p.Achievements...)
	return out
}
