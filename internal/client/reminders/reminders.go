// Package reminders validates reminder settings and works out when a
// reminder fires next. Delivery is left to a Scheduler.
package reminders

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/bibliotube/internal/common"
	"github.com/dmitrijs2005/bibliotube/internal/models"
)

const clockLayout = "15:04"

// ParseClock parses "HH:mm" into hour and minute.
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse(clockLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: time %q is not HH:mm", common.ErrValidation, s)
	}
	return t.Hour(), t.Minute(), nil
}

// Normalize validates r and clears the fields its frequency does not use:
// weekly keeps only DayOfWeek (0 = Sunday), custom keeps only IntervalDays,
// once and daily keep neither.
func Normalize(r models.Reminder) (models.Reminder, error) {
	h, m, err := ParseClock(r.Time)
	if err != nil {
		return r, err
	}
	r.Time = fmt.Sprintf("%02d:%02d", h, m)

	switch r.Frequency {
	case models.FrequencyOnce, models.FrequencyDaily:
		r.DayOfWeek, r.IntervalDays = nil, nil
	case models.FrequencyWeekly:
		if r.DayOfWeek == nil || *r.DayOfWeek < 0 || *r.DayOfWeek > 6 {
			return r, fmt.Errorf("%w: weekly reminder needs a day of week 0..6", common.ErrValidation)
		}
		r.IntervalDays = nil
	case models.FrequencyCustom:
		if r.IntervalDays == nil || *r.IntervalDays <= 0 {
			return r, fmt.Errorf("%w: custom reminder needs a positive interval", common.ErrValidation)
		}
		r.DayOfWeek = nil
	default:
		return r, fmt.Errorf("%w: unknown frequency %q", common.ErrValidation, r.Frequency)
	}
	return r, nil
}

// NextTrigger returns the first time after now that r fires, in now's
// location.
func NextTrigger(r models.Reminder, now time.Time) (time.Time, error) {
	r, err := Normalize(r)
	if err != nil {
		return time.Time{}, err
	}
	h, m, _ := ParseClock(r.Time)
	at := time.Date(now.Year(), now.Month(), now.Day(), h, m, 0, 0, now.Location())

	switch r.Frequency {
	case models.FrequencyWeekly:
		diff := (*r.DayOfWeek - int(now.Weekday()) + 7) % 7
		at = at.AddDate(0, 0, diff)
		if !at.After(now) {
			at = at.AddDate(0, 0, 7)
		}
	case models.FrequencyCustom:
		at = now.AddDate(0, 0, *r.IntervalDays)
	default:
		if !at.After(now) {
			at = at.AddDate(0, 0, 1)
		}
	}
	return at, nil
}
