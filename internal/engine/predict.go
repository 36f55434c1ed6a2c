package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/kynaruniverse/Unearth/internal/storage"
)

// NoPatternAdvice is returned by ContextualAdvice when an item has no history.
const NoPatternAdvice = "No pattern yet. Log where you find it a few times."

type LocationCount struct {
	Location string
	Count    int
}

// LocationFrequency counts each distinct location across the item's logs.
// Matching is exact and case-sensitive.
func LocationFrequency(item storage.Item) map[string]int {
	freq := make(map[string]int, len(item.Logs))
	for _, l := range item.Logs {
		freq[l.Location]++
	}
	return freq
}

// rankLocations counts locations in log order and sorts by count descending.
// Equal counts keep first-seen order.
func rankLocations(logs []storage.Log, keep func(storage.Log) bool) []LocationCount {
	idx := map[string]int{}
	var out []LocationCount
	for _, l := range logs {
		if keep != nil && !keep(l) {
			continue
		}
		i, ok := idx[l.Location]
		if !ok {
			i = len(out)
			idx[l.Location] = i
			out = append(out, LocationCount{Location: l.Location})
		}
		out[i].Count++
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// TopLocations returns at most limit locations, most frequent first.
func TopLocations(item storage.Item, limit int) []LocationCount {
	if limit <= 0 {
		return nil
	}
	ranked := rankLocations(item.Logs, nil)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// ContextualAdvice suggests where to look today. It prefers found-events that
// happened on today's weekday, then the item's overall top location.
// Log timestamps are read in today's location.
func ContextualAdvice(item storage.Item, today time.Time) string {
	wd := today.Weekday()
	loc := today.Location()
	sameDay := rankLocations(item.Logs, func(l storage.Log) bool {
		return l.Type == storage.LogFound && l.Timestamp.In(loc).Weekday() == wd
	})
	if len(sameDay) > 0 {
		return fmt.Sprintf("On %ss, %s usually turns up at %s.", wd, item.Name, sameDay[0].Location)
	}
	if top := TopLocations(item, 1); len(top) > 0 {
		return fmt.Sprintf("%s is most often at %s.", item.Name, top[0].Location)
	}
	return NoPatternAdvice
}

// GlobalTopLocation returns the most frequent location across all items.
// Ties go to the location seen first, walking items in order.
func GlobalTopLocation(items []storage.Item) (string, bool) {
	var all []storage.Log
	for _, it := range items {
		all = append(all, it.Logs...)
	}
	ranked := rankLocations(all, nil)
	if len(ranked) == 0 {
		return "", false
	}
	return ranked[0].Location, true
}

// LastKnownLocation prefers the newest stored-event, then the newest event of any type.
func LastKnownLocation(item storage.Item) (string, bool) {
	var stored, latest *storage.Log
	for i := range item.Logs {
		l := &item.Logs[i]
		if latest == nil || !l.Timestamp.Before(latest.Timestamp) {
			latest = l
		}
		if l.Type == storage.LogStored && (stored == nil || !l.Timestamp.Before(stored.Timestamp)) {
			stored = l
		}
	}
	switch {
	case stored != nil:
		return stored.Location, true
	case latest != nil:
		return latest.Location, true
	default:
		return "", false
	}
}

// recentLogs returns up to n logs newest first; equal timestamps keep later entries first.
func recentLogs(logs []storage.Log, n int) []storage.Log {
	out := make([]storage.Log, len(logs))
	for i := range logs {
		out[len(logs)-1-i] = logs[i]
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
