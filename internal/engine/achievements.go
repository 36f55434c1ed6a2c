package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kynaruniverse/Unearth/internal/storage"
)

// Achievement represents a badge the player can unlock.
type Achievement struct {
	ID          string
	Name        string
	Description string
	Icon        string
	XP          int
}

// AchievementStatus pairs a definition with its current state.
// Qualifies is the live predicate; Unlocked is the stored membership.
type AchievementStatus struct {
	Achievement
	Unlocked  bool
	Qualifies bool
}

// AchievementChecker evaluates achievement predicates over a snapshot of state.
type AchievementChecker struct {
	progress *storage.Progress

	itemCount     int
	logCount      int
	totalLost     int
	bestStreak    int
	topLocationN  int
	level         int
	challengesWon int
}

func NewAchievementChecker(progress *storage.Progress, items []storage.Item) *AchievementChecker {
	c := &AchievementChecker{
		progress:      progress,
		itemCount:     len(items),
		bestStreak:    max(progress.Streak, progress.LongestStreak),
		level:         progress.Level,
		challengesWon: progress.ChallengesCompleted,
	}
	for _, it := range items {
		c.logCount += len(it.Logs)
		c.totalLost += it.LostCount
		if top := TopLocations(it, 1); len(top) > 0 && top[0].Count > c.topLocationN {
			c.topLocationN = top[0].Count
		}
	}
	return c
}

// GetAchievements returns every achievement with its status.
func (c *AchievementChecker) GetAchievements() []AchievementStatus {
	return []AchievementStatus{
		// Items
		c.itemAchievement("first_item", "First Item", "Track your first item", "🎒", 10, 1),
		c.itemAchievement("collector", "Collector", "Track 5 items", "🗃️", 25, 5),

		// Logs
		c.logAchievement("first_find", "First Find", "Log your first location", "📍", 10, 1),
		c.logAchievement("tracker", "Tracker", "Log 25 locations", "🧭", 50, 25),
		c.logAchievement("archivist", "Archivist", "Log 100 locations", "📚", 100, 100),

		// Losses
		c.lostAchievement("first_loss", "First Loss", "Report an item lost", "🎯", 10, 1),
		c.lostAchievement("detective", "Detective", "Report 10 losses", "🔍", 25, 10),
		c.lostAchievement("chaos_master", "Chaos Master", "Report 50 losses", "😅", 50, 50),
		c.lostAchievement("pattern_finder", "Pattern Finder", "Report 100 losses", "🧠", 100, 100),

		// Streaks
		c.streakAchievement("on_a_roll", "On a Roll", "Reach a 3-day streak", "🔥", 15, 3),
		c.streakAchievement("week_warrior", "Week Warrior", "Reach a 7-day streak", "📅", 50, 7),
		c.streakAchievement("unstoppable", "Unstoppable", "Reach a 30-day streak", "🏆", 200, 30),

		// Habits
		c.locationAchievement("creature_of_habit", "Creature of Habit", "Find one item in the same place 5 times", "🏠", 30, 5),

		// Levels
		c.levelAchievement("seasoned_seeker", "Seasoned Seeker", "Reach level 5", "⭐", 50, 5),
		c.levelAchievement("unearther", "Unearther", "Reach level 10", "🌟", 100, 10),

		// Challenges
		c.challengeAchievement("challenger", "Challenger", "Complete 5 daily challenges", "🎖️", 50, 5),
	}
}

// CountEarned returns how many achievements have been unlocked.
func (c *AchievementChecker) CountEarned() int {
	count := 0
	for _, a := range c.GetAchievements() {
		if a.Unlocked {
			count++
		}
	}
	return count
}

// CountTotal returns total number of achievements.
func (c *AchievementChecker) CountTotal() int {
	return len(c.GetAchievements())
}

func (c *AchievementChecker) status(id, name, desc, icon string, xp int, met bool) AchievementStatus {
	return AchievementStatus{
		Achievement: Achievement{ID: id, Name: name, Description: desc, Icon: icon, XP: xp},
		Unlocked:    c.progress.HasAchievement(id),
		Qualifies:   met,
	}
}

func (c *AchievementChecker) itemAchievement(id, name, desc, icon string, xp, count int) AchievementStatus {
	return c.status(id, name, desc, icon, xp, c.itemCount >= count)
}

func (c *AchievementChecker) logAchievement(id, name, desc, icon string, xp, count int) AchievementStatus {
	return c.status(id, name, desc, icon, xp, c.logCount >= count)
}

func (c *AchievementChecker) lostAchievement(id, name, desc, icon string, xp, count int) AchievementStatus {
	return c.status(id, name, desc, icon, xp, c.totalLost >= count)
}

func (c *AchievementChecker) streakAchievement(id, name, desc, icon string, xp, days int) AchievementStatus {
	return c.status(id, name, desc, icon, xp, c.bestStreak >= days)
}

func (c *AchievementChecker) locationAchievement(id, name, desc, icon string, xp, count int) AchievementStatus {
	return c.status(id, name, desc, icon, xp, c.topLocationN >= count)
}

func (c *AchievementChecker) levelAchievement(id, name, desc, icon string, xp, level int) AchievementStatus {
	return c.status(id, name, desc, icon, xp, c.level >= level)
}

func (c *AchievementChecker) challengeAchievement(id, name, desc, icon string, xp, count int) AchievementStatus {
	return c.status(id, name, desc, icon, xp, c.challengesWon >= count)
}

// Achievements returns every achievement with its status for the current state.
func (s *Service) Achievements() []AchievementStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return NewAchievementChecker(s.progress, s.items).GetAchievements()
}

// CheckAchievements unlocks every achievement whose predicate now holds and
// returns the newly unlocked ones.
func (s *Service) CheckAchievements(ctx context.Context) []Achievement {
	s.mu.Lock()
	defer s.mu.Unlock()
	unlocked := s.checkAchievements()
	if len(unlocked) > 0 {
		s.persistProgress(ctx)
	}
	return unlocked
}

// checkAchievements repeats until nothing new unlocks, since achievement XP
// can itself satisfy a level achievement.
func (s *Service) checkAchievements() []Achievement {
	var unlocked []Achievement
	for {
		n := 0
		for _, st := range NewAchievementChecker(s.progress, s.items).GetAchievements() {
			if st.Unlocked || !st.Qualifies || s.progress.HasAchievement(st.ID) {
				continue
			}
			a := st.Achievement
			s.progress.Achievements = append(s.progress.Achievements, a.ID)
			s.log.Info("achievement unlocked", zap.String("id", a.ID))
			s.emit(Notice{
				Kind:        NoticeAchievement,
				XP:          a.XP,
				Achievement: &a,
				Message:     fmt.Sprintf("%s Achievement unlocked: %s (+%d XP)", a.Icon, a.Name, a.XP),
			})
			s.grantXP(a.XP, "achievement")
			unlocked = append(unlocked, a)
			n++
		}
		if n == 0 {
			return unlocked
		}
	}
}
