package engine

import "time"

const dayLayout = "2006-01-02"

// DayOf formats t as a calendar day in loc.
func DayOf(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(dayLayout)
}

// nextDay returns the calendar day after day, or "" if day does not parse.
// Arithmetic happens in UTC so DST transitions cannot skip or repeat a day.
func nextDay(day string) string {
	t, err := time.ParseInLocation(dayLayout, day, time.UTC)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, 1).Format(dayLayout)
}
