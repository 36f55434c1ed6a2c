package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kynaruniverse/Unearth/internal/storage"
)

// ExportVersion tags export documents; it tracks the storage key suffix.
const ExportVersion = "3.0"

type ExportDocument struct {
	Version    string           `json:"version"`
	ExportedAt time.Time        `json:"exportedAt"`
	Items      []storage.Item   `json:"items"`
	Progress   *ProgressSummary `json:"progress,omitempty"`
}

type ProgressSummary struct {
	XP                  int                    `json:"xp"`
	Level               int                    `json:"level"`
	LevelTitle          string                 `json:"levelTitle"`
	Streak              int                    `json:"streak"`
	LongestStreak       int                    `json:"longestStreak"`
	LastActiveDate      string                 `json:"lastActiveDate,omitempty"`
	Achievements        []string               `json:"achievements"`
	DailyChallenge      storage.DailyChallenge `json:"dailyChallenge"`
	ChallengesCompleted int                    `json:"challengesCompleted"`
}

type ImportOptions struct {
	// Progress restores progression from the document when it carries one.
	Progress bool
}

type ImportResult struct {
	Items            int
	Logs             int
	ProgressRestored bool
}

// Export snapshots all items and a progress summary.
func (s *Service) Export() *ExportDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.progress
	return &ExportDocument{
		Version:    ExportVersion,
		ExportedAt: s.now(),
		Items:      cloneItems(s.items),
		Progress: &ProgressSummary{
			XP:                  p.XP,
			Level:               p.Level,
			LevelTitle:          LevelTitle(p.Level),
			Streak:              p.Streak,
			LongestStreak:       p.LongestStreak,
			LastActiveDate:      p.LastActiveDate,
			Achievements:        append([]string{}, p.Achievements...),
			DailyChallenge:      p.DailyChallenge,
			ChallengesCompleted: p.ChallengesCompleted,
		},
	}
}

func WriteExport(w io.Writer, doc *ExportDocument) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

func ReadExport(r io.Reader) (*ExportDocument, error) {
	var doc ExportDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	return &doc, nil
}

// Import replaces all items with the document's items. The document is
// validated in full before anything changes.
func (s *Service) Import(ctx context.Context, doc *ExportDocument, opts ImportOptions) (ImportResult, error) {
	items, err := validateImport(doc)
	if err != nil {
		return ImportResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res := ImportResult{Items: len(items)}
	for _, it := range items {
		res.Logs += len(it.Logs)
	}
	s.items = items
	s.itemsLoadErr = nil

	if opts.Progress && doc.Progress != nil {
		ps := doc.Progress
		p := storage.NewProgress()
		p.XP = max(ps.XP, 0)
		p.Level = LevelForXP(p.XP)
		p.Streak = max(ps.Streak, 0)
		p.LongestStreak = max(ps.LongestStreak, p.Streak)
		p.LastActiveDate = ps.LastActiveDate
		p.DailyChallenge = ps.DailyChallenge
		p.ChallengesCompleted = max(ps.ChallengesCompleted, 0)
		for _, id := range ps.Achievements {
			if !p.HasAchievement(id) {
				p.Achievements = append(p.Achievements, id)
			}
		}
		s.progress = p
		s.progressLoadErr = nil
		res.ProgressRestored = true
	}

	s.log.Info("import applied", zap.Int("items", res.Items), zap.Int("logs", res.Logs), zap.Bool("progress", res.ProgressRestored))
	s.persistAll(ctx)
	return res, nil
}

func validateImport(doc *ExportDocument) ([]storage.Item, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidImport)
	}
	if doc.Version != "" {
		want, _, _ := strings.Cut(ExportVersion, ".")
		if major, _, _ := strings.Cut(doc.Version, "."); major != want {
			return nil, fmt.Errorf("%w: unsupported version %q", ErrInvalidImport, doc.Version)
		}
	}

	seenNames := map[string]string{}
	seenIDs := map[string]bool{}
	out := make([]storage.Item, 0, len(doc.Items))
	for _, in := range doc.Items {
		it := cloneItem(in)
		name, err := normalizeName(it.Name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
		}
		it.Name = name
		folded := foldName(name)
		if prev, ok := seenNames[folded]; ok {
			return nil, fmt.Errorf("%w: %v", ErrInvalidImport, DuplicateNameError{Name: name, Existing: prev})
		}
		seenNames[folded] = name

		if it.ID == "" || seenIDs[it.ID] {
			it.ID = uuid.NewString()
		}
		seenIDs[it.ID] = true
		if it.LostCount < 0 {
			it.LostCount = 0
		}

		for j := range it.Logs {
			l := &it.Logs[j]
			l.Location = strings.TrimSpace(l.Location)
			if l.Location == "" {
				return nil, fmt.Errorf("%w: item %q: %v", ErrInvalidImport, name, ErrEmptyLocation)
			}
			if l.Type == "" {
				l.Type = storage.LogFound
			}
			if !l.Type.IsValid() {
				return nil, fmt.Errorf("%w: item %q: %v %q", ErrInvalidImport, name, ErrInvalidLogType, l.Type)
			}
		}
		out = append(out, it)
	}
	return out, nil
}
