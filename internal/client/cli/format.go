package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/bibliotube/internal/models"
	"github.com/dmitrijs2005/bibliotube/internal/videometa"
)

// formatDate renders a saved date relative to now: "Today at 15:04",
// "Yesterday at 15:04" or "Jan 2, 2006".
func formatDate(millis int64, now time.Time) string {
	t := time.UnixMilli(millis).In(now.Location())
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	switch {
	case !t.Before(today) && t.Before(today.AddDate(0, 0, 1)):
		return "Today at " + t.Format("15:04")
	case !t.Before(today.AddDate(0, 0, -1)) && t.Before(today):
		return "Yesterday at " + t.Format("15:04")
	}
	return t.Format("Jan 2, 2006")
}

// stars draws importance as five filled or empty stars.
func stars(level int) string {
	if level < models.MinImportance {
		level = 0
	}
	if level > models.MaxImportance {
		level = models.MaxImportance
	}
	return strings.Repeat("★", level) + strings.Repeat("☆", models.MaxImportance-level)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func videoLine(i int, v models.Video, now time.Time) string {
	return fmt.Sprintf("%3d. %s %s  %s  %s  [%s]",
		i, videometa.PlatformIcon(v.Platform), v.Title, stars(v.Importance), formatDate(v.SavedDate, now), shortID(v.ID))
}

var weekdays = [...]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

func reminderLine(i int, r models.Reminder) string {
	return fmt.Sprintf("%3d. %s  [%s]", i, describeReminder(r), shortID(r.ID))
}

// describeReminder renders e.g. "08:30 every Monday (on)".
func describeReminder(r models.Reminder) string {
	var when string
	switch r.Frequency {
	case models.FrequencyDaily:
		when = "every day"
	case models.FrequencyWeekly:
		if r.DayOfWeek != nil && *r.DayOfWeek >= 0 && *r.DayOfWeek < len(weekdays) {
			when = "every " + weekdays[*r.DayOfWeek]
		}
	case models.FrequencyCustom:
		if r.IntervalDays != nil {
			when = fmt.Sprintf("every %d days", *r.IntervalDays)
		}
	default:
		when = "once"
	}
	state := "on"
	if !r.IsActive {
		state = "off"
	}
	return fmt.Sprintf("%s %s (%s)", r.Time, when, state)
}
