package engine

import "github.com/kynaruniverse/Unearth/internal/storage"

type Stats struct {
	ItemCount     int
	LogCount      int
	TotalLost     int
	MostLostItem  string // empty when nothing was ever lost
	MostLostCount int
	TopLocation   string // empty when there are no logs
}

// ComputeStats aggregates totals across items. Ties for most-lost go to the earlier item.
func ComputeStats(items []storage.Item) Stats {
	st := Stats{ItemCount: len(items)}
	for _, it := range items {
		st.LogCount += len(it.Logs)
		st.TotalLost += it.LostCount
		if it.LostCount > st.MostLostCount {
			st.MostLostCount = it.LostCount
			st.MostLostItem = it.Name
		}
	}
	st.TopLocation, _ = GlobalTopLocation(items)
	return st
}

func (s *Service) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ComputeStats(s.items)
}
