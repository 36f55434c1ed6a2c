package engine

import "sort"

const (
	XPAddItem            = 5
	XPLogFound           = 10
	XPLogStored          = 5
	XPReportLost         = 2
	XPDailyFirstActivity = 10
	XPChallengeComplete  = 50

	// StreakXPPerDay and StreakXPCap shape the streak-maintenance reward.
	StreakXPPerDay = 5
	StreakXPCap    = 50

	DefaultChallengeTarget = 3
)

type Level struct {
	Number int
	Title  string
	MinXP  int // total XP needed to be at this level
}

// Levels is ordered by Number and MinXP.
var Levels = []Level{
	{Number: 1, Title: "Forgetful Novice", MinXP: 0},
	{Number: 2, Title: "Casual Searcher", MinXP: 100},
	{Number: 3, Title: "Item Tracker", MinXP: 250},
	{Number: 4, Title: "Pattern Spotter", MinXP: 500},
	{Number: 5, Title: "Memory Keeper", MinXP: 850},
	{Number: 6, Title: "Location Sage", MinXP: 1300},
	{Number: 7, Title: "Master Finder", MinXP: 1900},
	{Number: 8, Title: "Legendary Seeker", MinXP: 2650},
	{Number: 9, Title: "Omniscient", MinXP: 3550},
	{Number: 10, Title: "Unearther", MinXP: 4600},
}

// MaxLevel is the highest level in the table.
func MaxLevel() int { return Levels[len(Levels)-1].Number }

// XPRequiredForLevel returns the total XP threshold required to be at the given level.
// Levels below 1 require 0 XP; levels past the table return the top threshold.
func XPRequiredForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	if level > MaxLevel() {
		level = MaxLevel()
	}
	return Levels[level-1].MinXP
}

// LevelForXP returns the highest level whose threshold is at or below totalXP.
func LevelForXP(totalXP int) int {
	i := sort.Search(len(Levels), func(i int) bool { return Levels[i].MinXP > totalXP })
	if i == 0 {
		return 1
	}
	return Levels[i-1].Number
}

// LevelTitle returns the display title for level.
func LevelTitle(level int) string {
	if level < 1 {
		level = 1
	}
	if level > MaxLevel() {
		level = MaxLevel()
	}
	return Levels[level-1].Title
}

// StreakXP is the reward for keeping a streak alive at the given length.
func StreakXP(streak int) int {
	xp := StreakXPPerDay * streak
	if xp > StreakXPCap {
		xp = StreakXPCap
	}
	if xp < 0 {
		return 0
	}
	return xp
}
