package report

import (
	"time"
)

// DeadlineKind selects the countdown message.
type DeadlineKind int

const (
	// DeadlineNone means there is no upcoming task.
	DeadlineNone DeadlineKind = iota
	// DeadlineMinutes: "Vence en M minutos!"
	DeadlineMinutes
	// DeadlineHoursMinutes: "Vence en Hh Mmin!"
	DeadlineHoursMinutes
	// DeadlineHours: "Vence en H horas!"
	DeadlineHours
	// DeadlineTomorrow: "Vence mañana"
	DeadlineTomorrow
	// DeadlineDays: "En D días"
	DeadlineDays
)

func (k DeadlineKind) String() string {
	switch k {
	case DeadlineMinutes:
		return "minutes"
	case DeadlineHoursMinutes:
		return "hours_minutes"
	case DeadlineHours:
		return "hours"
	case DeadlineTomorrow:
		return "tomorrow"
	case DeadlineDays:
		return "days"
	default:
		return "none"
	}
}

const day = 24 * time.Hour

// Deadline is the time left until the end of the next task's due date.
type Deadline struct {
	Kind DeadlineKind

	// Days is the whole-day part of the remaining time.
	Days int
	// Hours and Minutes are the parts within the last partial day and hour.
	Hours   int
	Minutes int
	// TotalHours is the remaining time in whole hours.
	TotalHours int
}

// NewDeadline splits d into its components and picks the message kind.
//
// The branches are checked in a fixed order: under one hour, under a day, then
// a day component of 0 or 1, then whole days. A day component of 0 can never
// reach the third branch; the check is kept as is so boundary output does not move.
func NewDeadline(d time.Duration) Deadline {
	days := d / day
	rem := d % day
	if rem < 0 {
		days--
		rem += day
	}

	dl := Deadline{
		Days:       int(days),
		Hours:      int(rem / time.Hour),
		Minutes:    int(rem % time.Hour / time.Minute),
		TotalHours: int(floorDiv(d, time.Hour)),
	}

	switch {
	case dl.TotalHours < 1:
		dl.Kind = DeadlineMinutes
	case dl.TotalHours < 24:
		switch {
		case dl.Hours == 0 && dl.Minutes > 0:
			dl.Kind = DeadlineMinutes
		case dl.Minutes > 0:
			dl.Kind = DeadlineHoursMinutes
		default:
			dl.Kind = DeadlineHours
		}
	case dl.Days == 0 || dl.Days == 1:
		dl.Kind = DeadlineTomorrow
	default:
		dl.Kind = DeadlineDays
	}

	return dl
}

func floorDiv(d, unit time.Duration) time.Duration {
	q := d / unit
	if d%unit < 0 {
		q--
	}
	return q
}
