package engine

type NoticeKind string

const (
	NoticeLevelUp            NoticeKind = "level_up"
	NoticeAchievement        NoticeKind = "achievement"
	NoticeChallengeCompleted NoticeKind = "challenge_completed"
	NoticeStreak             NoticeKind = "streak"
	NoticePersistenceFailed  NoticeKind = "persistence_failed"
)

// Notice is a user-facing event produced by a state transition.
type Notice struct {
	Kind        NoticeKind
	Message     string
	Level       int          // NoticeLevelUp
	XP          int          // XP granted with the event, if any
	Achievement *Achievement // NoticeAchievement
	Err         error        // NoticePersistenceFailed
}
