package ui

import "github.com/kynaruniverse/Unearth/internal/engine"

// NoticeText styles an engine notice for display.
func NoticeText(n engine.Notice) string {
	switch n.Kind {
	case engine.NoticeLevelUp:
		return BadgeLevelUp + " " + Gold.Render(IconSparkle+" "+n.Message)
	case engine.NoticeAchievement:
		return Gold.Render(n.Message)
	case engine.NoticeChallengeCompleted:
		return Good.Render(IconTarget + " " + n.Message)
	case engine.NoticeStreak:
		return Warn.Render(IconFire + " " + n.Message)
	case engine.NoticePersistenceFailed:
		return Bad.Render(IconWarn + " " + n.Message)
	default:
		return Muted.Render(n.Message)
	}
}
