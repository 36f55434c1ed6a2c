package engine

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kynaruniverse/Unearth/internal/storage"
)

// CheckDailyChallenge starts a fresh challenge when the stored one is not for today.
func (s *Service) CheckDailyChallenge(ctx context.Context, today time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.checkDailyChallenge(DayOf(today, s.loc)) {
		s.persistProgress(ctx)
	}
}

// IncrementDailyChallenge counts one qualifying action toward today's challenge.
func (s *Service) IncrementDailyChallenge(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.incrementDailyChallenge()
	s.persistProgress(ctx)
}

func (s *Service) checkDailyChallenge(today string) bool {
	c := &s.progress.DailyChallenge
	if c.Date == today {
		return false
	}
	*c = storage.DailyChallenge{Target: s.challengeTarget, Date: today}
	return true
}

func (s *Service) incrementDailyChallenge() {
	c := &s.progress.DailyChallenge
	if c.Target <= 0 {
		c.Target = s.challengeTarget
	}
	c.Current++
	if c.Current < c.Target || c.Completed {
		return
	}

	c.Completed = true
	s.progress.ChallengesCompleted++
	s.log.Info("daily challenge completed", zap.String("date", c.Date), zap.Int("total", s.progress.ChallengesCompleted))
	s.emit(Notice{
		Kind:    NoticeChallengeCompleted,
		XP:      XPChallengeComplete,
		Message: fmt.Sprintf("Daily challenge complete! +%d XP", XPChallengeComplete),
	})
	s.grantXP(XPChallengeComplete, "challenge")
}
