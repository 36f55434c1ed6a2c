package storage

import "time"

type LogType string

const (
	LogFound  LogType = "found"
	LogStored LogType = "stored"
)

func (t LogType) IsValid() bool {
	switch t {
	case LogFound, LogStored:
		return true
	default:
		return false
	}
}

type Item struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	LostCount int       `json:"lostCount"`
	Logs      []Log     `json:"logs"`
}

type Log struct {
	Timestamp time.Time `json:"timestamp"`
	Location  string    `json:"location"`
	Type      LogType   `json:"type,omitempty"`
}

type DailyChallenge struct {
	Target    int    `json:"target"`
	Current   int    `json:"current"`
	Completed bool   `json:"completed"`
	Date      string `json:"date"`
}

// Progress is the single progression record of an installation.
// Dates are device-local calendar days formatted as YYYY-MM-DD.
type Progress struct {
	XP                  int            `json:"xp"`
	Level               int            `json:"level"`
	Streak              int            `json:"streak"`
	LongestStreak       int            `json:"longestStreak"`
	LastActiveDate      string         `json:"lastActiveDate"`
	Achievements        []string       `json:"achievements"`
	DailyChallenge      DailyChallenge `json:"dailyChallenge"`
	ChallengesCompleted int            `json:"challengesCompleted"`
}

// NewProgress returns the first-run progression state.
func NewProgress() *Progress {
	return &Progress{Level: 1, Achievements: []string{}}
}

// HasAchievement reports set membership of id.
func (p *Progress) HasAchievement(id string) bool {
	for _, a := range p.Achievements {
		if a == id {
			return true
		}
	}
	return false
}
