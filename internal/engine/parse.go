package engine

import (
	"fmt"
	"strings"

	"github.com/kynaruniverse/Unearth/internal/storage"
)

// ParseLogType parses user input to a log type.
// Supported: found, stored (aliases: find, f, store, put, s). Empty input means found.
func ParseLogType(input string) (storage.LogType, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	switch s {
	case "", "found", "find", "f":
		return storage.LogFound, nil
	case "stored", "store", "put", "s":
		return storage.LogStored, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidLogType, input)
	}
}

type LevelUpMode string

const (
	// LevelUpLoop awards every level threshold crossed by a single grant.
	LevelUpLoop LevelUpMode = "loop"
	// LevelUpSingle advances at most one level per grant.
	LevelUpSingle LevelUpMode = "single"
)

func ParseLevelUpMode(input string) (LevelUpMode, error) {
	switch m := LevelUpMode(strings.TrimSpace(strings.ToLower(input))); m {
	case "":
		return LevelUpLoop, nil
	case LevelUpLoop, LevelUpSingle:
		return m, nil
	default:
		return "", fmt.Errorf("invalid level-up mode: %q", input)
	}
}
