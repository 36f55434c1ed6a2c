package engine

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/kynaruniverse/Unearth/internal/storage"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// Monday 2026-10-12, mid-morning UTC.
var testStart = time.Date(2026, 10, 12, 9, 0, 0, 0, time.UTC)

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()
	ctx := context.Background()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	db, err := storage.Open(ctx, path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return storage.NewStore(db)
}

func newTestService(t *testing.T) (*Service, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: testStart}
	svc := NewService(context.Background(), openTestStore(t), Options{
		Now:      clock.Now,
		Location: time.UTC,
	})
	return svc, clock
}

func mustAddItem(t *testing.T, svc *Service, name string) storage.Item {
	t.Helper()
	it, err := svc.AddItem(context.Background(), name)
	if err != nil {
		t.Fatalf("AddItem(%q): %v", name, err)
	}
	return it
}

func mustLog(t *testing.T, svc *Service, id, location string, typ storage.LogType) {
	t.Helper()
	if err := svc.AddLog(context.Background(), id, location, typ); err != nil {
		t.Fatalf("AddLog(%q): %v", location, err)
	}
}

func countNotices(notices []Notice, kind NoticeKind) int {
	n := 0
	for _, x := range notices {
		if x.Kind == kind {
			n++
		}
	}
	return n
}

func TestXPBoundaries(t *testing.T) {
	if got := XPRequiredForLevel(1); got != 0 {
		t.Fatalf("XPRequiredForLevel(1)=%d, want 0", got)
	}
	l2 := XPRequiredForLevel(2)
	if l2 != 100 {
		t.Fatalf("XPRequiredForLevel(2)=%d, want 100", l2)
	}
	if got := LevelForXP(l2 - 1); got != 1 {
		t.Fatalf("LevelForXP(l2-1)=%d, want 1", got)
	}
	if got := LevelForXP(l2); got != 2 {
		t.Fatalf("LevelForXP(l2)=%d, want 2", got)
	}

	top := XPRequiredForLevel(MaxLevel())
	if got := LevelForXP(top * 100); got != MaxLevel() {
		t.Fatalf("LevelForXP(huge)=%d, want %d", got, MaxLevel())
	}
	if got := XPRequiredForLevel(MaxLevel() + 5); got != top {
		t.Fatalf("XPRequiredForLevel past table=%d, want %d", got, top)
	}
	for i := 1; i < len(Levels); i++ {
		if Levels[i].MinXP <= Levels[i-1].MinXP {
			t.Fatalf("level table not increasing at %d", Levels[i].Number)
		}
	}
}

func TestStreakXPIsCapped(t *testing.T) {
	if got := StreakXP(2); got != 10 {
		t.Fatalf("StreakXP(2)=%d, want 10", got)
	}
	if got := StreakXP(40); got != StreakXPCap {
		t.Fatalf("StreakXP(40)=%d, want %d", got, StreakXPCap)
	}
}

func TestParseLogType(t *testing.T) {
	cases := map[string]storage.LogType{
		"":        storage.LogFound,
		"Found":   storage.LogFound,
		" store ": storage.LogStored,
		"stored":  storage.LogStored,
	}
	for in, want := range cases {
		got, err := ParseLogType(in)
		if err != nil {
			t.Fatalf("ParseLogType(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseLogType(%q)=%q, want %q", in, got, want)
		}
	}
	if _, err := ParseLogType("lost"); !errors.Is(err, ErrInvalidLogType) {
		t.Fatalf("ParseLogType(lost) err=%v, want ErrInvalidLogType", err)
	}
}

func TestParseLevelUpMode(t *testing.T) {
	if m, err := ParseLevelUpMode(""); err != nil || m != LevelUpLoop {
		t.Fatalf("ParseLevelUpMode(\"\")=%q,%v", m, err)
	}
	if m, err := ParseLevelUpMode("SINGLE"); err != nil || m != LevelUpSingle {
		t.Fatalf("ParseLevelUpMode(SINGLE)=%q,%v", m, err)
	}
	if _, err := ParseLevelUpMode("twice"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
