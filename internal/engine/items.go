package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"github.com/kynaruniverse/Unearth/internal/storage"
)

// minIDPrefix is the shortest id prefix FindItem accepts.
const minIDPrefix = 4

func normalizeName(name string) (string, error) {
	n := strings.TrimSpace(name)
	if n == "" {
		return "", ErrEmptyName
	}
	return n, nil
}

func foldName(name string) string {
	return cases.Fold().String(name)
}

// AddItem registers a new item. Names are trimmed and must be unique ignoring case.
func (s *Service) AddItem(ctx context.Context, name string) (storage.Item, error) {
	n, err := normalizeName(name)
	if err != nil {
		return storage.Item{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing := s.findByName(n); existing != nil {
		return storage.Item{}, DuplicateNameError{Name: n, Existing: existing.Name}
	}

	now := s.now()
	item := storage.Item{
		ID:        uuid.NewString(),
		Name:      n,
		CreatedAt: now,
		Logs:      []storage.Log{},
	}
	s.items = append(s.items, item)
	s.log.Debug("item added", zap.String("id", item.ID), zap.String("name", item.Name))
	s.persistItems(ctx)

	s.afterAction(ctx, XPAddItem, "add item", false)
	return cloneItem(item), nil
}

// DeleteItem removes the item and its logs. It reports false for an unknown id.
func (s *Service) DeleteItem(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.log.Debug("item deleted", zap.String("id", id), zap.String("name", s.items[i].Name))
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.persistItems(ctx)
	return true
}

// AddLog appends a found or stored event at location to the item.
func (s *Service) AddLog(ctx context.Context, itemID, location string, typ storage.LogType) error {
	loc := strings.TrimSpace(location)
	if loc == "" {
		return ErrEmptyLocation
	}
	if !typ.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidLogType, typ)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(itemID)
	if i < 0 {
		return ErrItemNotFound
	}
	s.items[i].Logs = append(s.items[i].Logs, storage.Log{
		Timestamp: s.now(),
		Location:  loc,
		Type:      typ,
	})
	s.log.Debug("log added", zap.String("id", itemID), zap.String("type", string(typ)), zap.String("location", loc))
	s.persistItems(ctx)

	xp := XPLogFound
	if typ == storage.LogStored {
		xp = XPLogStored
	}
	s.afterAction(ctx, xp, "log "+string(typ), true)
	return nil
}

// ReportLost records that the item has gone missing again.
func (s *Service) ReportLost(ctx context.Context, itemID string) (storage.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(itemID)
	if i < 0 {
		return storage.Item{}, ErrItemNotFound
	}
	s.items[i].LostCount++
	s.log.Debug("item lost", zap.String("id", itemID), zap.Int("count", s.items[i].LostCount))
	s.persistItems(ctx)

	s.afterAction(ctx, XPReportLost, "report lost", false)
	return cloneItem(s.items[i]), nil
}

// afterAction runs the progression pipeline for a user action and persists it.
func (s *Service) afterAction(ctx context.Context, xp int, reason string, countsForChallenge bool) {
	today := DayOf(s.today(), s.loc)
	s.checkDailyChallenge(today)
	s.recordActivity(today)
	s.grantXP(xp, reason)
	if countsForChallenge {
		s.incrementDailyChallenge()
	}
	s.checkAchievements()
	s.persistProgress(ctx)
}

// Items returns copies of all items in creation order.
func (s *Service) Items() []storage.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.items)
}

func (s *Service) Item(id string) (storage.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return storage.Item{}, ErrItemNotFound
	}
	return cloneItem(s.items[i]), nil
}

// FindItem resolves ref as an exact id, a case-insensitive name, or a unique id prefix.
func (s *Service) FindItem(ref string) (storage.Item, error) {
	r := strings.TrimSpace(ref)
	if r == "" {
		return storage.Item{}, ErrItemNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(r); i >= 0 {
		return cloneItem(s.items[i]), nil
	}
	if it := s.findByName(r); it != nil {
		return cloneItem(*it), nil
	}
	if len(r) >= minIDPrefix {
		var match *storage.Item
		for i := range s.items {
			if strings.HasPrefix(s.items[i].ID, r) {
				if match != nil {
					return storage.Item{}, fmt.Errorf("%w: %q matches more than one id", ErrItemNotFound, r)
				}
				match = &s.items[i]
			}
		}
		if match != nil {
			return cloneItem(*match), nil
		}
	}
	return storage.Item{}, fmt.Errorf("%w: %q", ErrItemNotFound, r)
}

// RecentLogs returns up to n of the item's logs, newest first.
func (s *Service) RecentLogs(id string, n int) ([]storage.Log, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return nil, ErrItemNotFound
	}
	return recentLogs(s.items[i].Logs, n), nil
}

func (s *Service) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) findByName(name string) *storage.Item {
	folded := foldName(name)
	for i := range s.items {
		if foldName(s.items[i].Name) == folded {
			return &s.items[i]
		}
	}
	return nil
}
