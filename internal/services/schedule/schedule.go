package schedule

import (
	"sort"
	"time"
)

// DefaultWeeks is the proposal window used when a poll is created without dates.
const DefaultWeeks = 3

// cutoffHour is the latest slot of the week. It is applied to every weekday when
// deciding whether today's occurrence is already over.
const cutoffHour = 17

type slot struct {
	weekday time.Weekday
	hour    int
}

var weeklySlots = []slot{
	{time.Friday, 17},
	{time.Saturday, 9},
	{time.Saturday, 15},
	{time.Sunday, 9},
	{time.Sunday, 15},
}

// GenerateCandidateDates proposes five session slots per week for the next weeks,
// sorted chronologically. Slots are built in now's location.
func GenerateCandidateDates(now time.Time, weeks int) []time.Time {
	if weeks <= 0 {
		return []time.Time{}
	}

	daysUntil := make(map[time.Weekday]int, 3)
	for _, s := range weeklySlots {
		if _, ok := daysUntil[s.weekday]; ok {
			continue
		}
		d := (int(s.weekday) - int(now.Weekday()) + 7) % 7
		if d == 0 && now.Hour() >= cutoffHour {
			d = 7
		}
		daysUntil[s.weekday] = d
	}

	dates := make([]time.Time, 0, weeks*len(weeklySlots))
	for week := 0; week < weeks; week++ {
		for _, s := range weeklySlots {
			day := now.AddDate(0, 0, daysUntil[s.weekday]+week*7)
			dates = append(dates, time.Date(day.Year(), day.Month(), day.Day(), s.hour, 0, 0, 0, now.Location()))
		}
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	return dates
}

// DateKey is the canonical map key of a candidate date.
func DateKey(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ParseDateKey is the inverse of DateKey.
func ParseDateKey(key string) (time.Time, error) {
	return time.Parse(time.RFC3339, key)
}
