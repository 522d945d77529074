package report

import (
	"slices"
	"strings"
	"time"

	"github.com/teemow/taskreport/internal/tasks"
)

// Upcoming is a task whose due date parsed and is not in the past.
type Upcoming struct {
	Title string
	Due   time.Time
}

// Summary holds everything the report prints.
type Summary struct {
	// Now is the reference instant, in UTC.
	Now time.Time

	// Total is the number of records received.
	Total int

	// WithDue counts records carrying any due value, parseable or not.
	WithDue int

	// Upcoming is sorted by due date, earliest first. Ties keep input order.
	Upcoming []Upcoming

	// Deadline describes the time left for Upcoming[0]. Zero when Upcoming is empty.
	Deadline Deadline
}

// Next returns the nearest upcoming task.
func (s Summary) Next() (Upcoming, bool) {
	if len(s.Upcoming) == 0 {
		return Upcoming{}, false
	}
	return s.Upcoming[0], true
}

// Analyze computes the report for list relative to now.
func Analyze(list []tasks.Task, now time.Time) Summary {
	now = now.UTC()
	s := Summary{
		Now:   now,
		Total: len(list),
	}

	for _, t := range list {
		if t.HasDue {
			s.WithDue++
		}
	}

	if s.Total == 0 {
		return s
	}

	for _, t := range list {
		if !t.HasDue {
			continue
		}
		due, ok := ParseDue(t.Due)
		if !ok {
			continue
		}
		if !due.Before(now) {
			s.Upcoming = append(s.Upcoming, Upcoming{Title: t.Title, Due: due})
		}
	}

	slices.SortStableFunc(s.Upcoming, func(a, b Upcoming) int {
		return a.Due.Compare(b.Due)
	})

	if next, ok := s.Next(); ok {
		s.Deadline = NewDeadline(EndOfDay(next.Due).Sub(now))
	}

	return s
}

// dueLayouts are tried in order once a trailing Z has been rewritten as +00:00.
// Fractional seconds are accepted after the seconds field by every layout.
// Week dates (2025-W11-2) are not supported.
var dueLayouts = buildDueLayouts()

func buildDueLayouts() []string {
	dates := []string{"2006-01-02", "20060102"}
	clocks := []string{"15:04:05", "15:04", "15", "150405", "1504"}
	offsets := []string{"-07:00", "-0700", "-07", ""}

	var layouts []string
	for _, date := range dates {
		for _, sep := range []string{"T", " "} {
			for _, clock := range clocks {
				for _, offset := range offsets {
					layouts = append(layouts, date+sep+clock+offset)
				}
			}
		}
		layouts = append(layouts, date)
	}
	return layouts
}

// ParseDue parses an ISO-8601 due value. Any offset is dropped and the wall
// clock reading is returned as UTC, so "2025-03-01T10:00:00+02:00" yields
// 10:00 UTC. "Z" and "+00:00" are equivalent.
func ParseDue(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	s = strings.ReplaceAll(s, "Z", "+00:00")

	for _, layout := range dueLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		return time.Date(t.Year(), t.Month(), t.Day(),
			t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC), true
	}
	return time.Time{}, false
}

// EndOfDay moves t to 23:59:59 of the same date, keeping the sub-second part.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, t.Nanosecond(), t.Location())
}
