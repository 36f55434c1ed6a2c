package engine

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kynaruniverse/Unearth/internal/storage"
)

// GrantXP adds amount to the player's XP and applies level-ups.
func (s *Service) GrantXP(ctx context.Context, amount int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grantXP(amount, "manual")
	s.persistProgress(ctx)
}

// RecordActivity updates the day streak for today and grants the daily rewards.
func (s *Service) RecordActivity(ctx context.Context, today time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recordActivity(DayOf(today, s.loc)) {
		s.persistProgress(ctx)
	}
}

func (s *Service) grantXP(amount int, reason string) {
	if amount <= 0 {
		return
	}
	p := s.progress
	p.XP += amount
	s.log.Debug("xp granted", zap.Int("amount", amount), zap.String("reason", reason), zap.Int("xp", p.XP))

	for p.Level < MaxLevel() && p.XP >= XPRequiredForLevel(p.Level+1) {
		p.Level++
		s.log.Info("level up", zap.Int("level", p.Level))
		s.emit(Notice{
			Kind:    NoticeLevelUp,
			Level:   p.Level,
			Message: fmt.Sprintf("Level up! You are now level %d: %s", p.Level, LevelTitle(p.Level)),
		})
		if s.levelUpMode == LevelUpSingle {
			break
		}
	}
}

// recordActivity reports whether state changed.
func (s *Service) recordActivity(today string) bool {
	p := s.progress
	if p.LastActiveDate == today {
		return false
	}

	if p.LastActiveDate != "" && nextDay(p.LastActiveDate) == today {
		p.Streak++
		if p.Streak > p.LongestStreak {
			p.LongestStreak = p.Streak
		}
		xp := StreakXP(p.Streak)
		s.emit(Notice{
			Kind:    NoticeStreak,
			XP:      xp,
			Message: fmt.Sprintf("%d-day streak! +%d XP", p.Streak, xp),
		})
		s.grantXP(xp, "streak")
	} else {
		p.Streak = 1
		if p.LongestStreak < 1 {
			p.LongestStreak = 1
		}
	}

	p.LastActiveDate = today
	s.grantXP(XPDailyFirstActivity, "daily")
	return true
}

// Reset clears progression and, when includeItems is set, every tracked item.
func (s *Service) Reset(ctx context.Context, includeItems bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = storage.NewProgress()
	s.progressLoadErr = nil
	if includeItems {
		s.items = []storage.Item{}
		s.itemsLoadErr = nil
	}
	s.log.Info("state reset", zap.Bool("items", includeItems))
	s.persistAll(ctx)
}
