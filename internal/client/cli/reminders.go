package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/bibliotube/internal/common"
	"github.com/dmitrijs2005/bibliotube/internal/models"
)

// Reminders lists the reminders of a video (default: the current one).
func (a *App) Reminders(ctx context.Context, args []string) error {
	v, err := a.videoByRef(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	rs, err := a.library.ListReminders(ctx, v.ID)
	if err != nil {
		return err
	}
	a.currentVideo = v
	a.lastReminders = rs
	if len(rs) == 0 {
		a.printf("No reminders for %q. Add one with 'remind'.\n", v.Title)
		return nil
	}
	for i, r := range rs {
		a.println(reminderLine(i+1, r))
	}
	return nil
}

// AddReminder asks for frequency, time and the frequency-specific field.
func (a *App) AddReminder(ctx context.Context, args []string) error {
	v, err := a.videoByRef(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}

	freq, err := getSimpleText(a.reader, "Frequency: once, daily, weekly or custom (empty for once)", a.out)
	if err != nil {
		return err
	}
	r := models.Reminder{VideoID: v.ID, Frequency: models.Frequency(strings.ToLower(freq))}
	if r.Frequency == "" {
		r.Frequency = models.FrequencyOnce
	}
	if !r.Frequency.Valid() {
		return fmt.Errorf("%w: unknown frequency %q", common.ErrValidation, freq)
	}

	if r.Time, err = getSimpleText(a.reader, "Time (HH:MM)", a.out); err != nil {
		return err
	}

	switch r.Frequency {
	case models.FrequencyWeekly:
		day, err := getSimpleText(a.reader, "Day of week (Sunday..Saturday or 0-6)", a.out)
		if err != nil {
			return err
		}
		d, err := parseWeekday(day)
		if err != nil {
			return err
		}
		r.DayOfWeek = &d
	case models.FrequencyCustom:
		n, err := GetInt(a.reader, "Repeat every N days", 2, a.out)
		if err != nil {
			return err
		}
		r.IntervalDays = &n
	}

	r, err = a.library.CreateReminder(ctx, r)
	if err != nil {
		return err
	}
	a.currentVideo = v
	a.lastReminders = nil
	a.println("Reminder set:", describeReminder(r))
	return nil
}

// ToggleReminder switches a reminder on or off.
func (a *App) ToggleReminder(ctx context.Context, args []string) error {
	r, err := a.reminderByRef(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	if err := a.library.SetReminderActive(ctx, r.ID, !r.IsActive); err != nil {
		return err
	}
	a.lastReminders = nil
	if r.IsActive {
		a.println("Reminder off.")
	} else {
		a.println("Reminder on.")
	}
	return nil
}

func (a *App) DeleteReminder(ctx context.Context, args []string) error {
	r, err := a.reminderByRef(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	if err := a.library.DeleteReminder(ctx, r.ID); err != nil {
		return err
	}
	a.lastReminders = nil
	a.println("Reminder deleted.")
	return nil
}

func (a *App) reminderByRef(ctx context.Context, ref string) (models.Reminder, error) {
	if a.lastReminders == nil && a.currentVideo.ID != "" {
		rs, err := a.library.ListReminders(ctx, a.currentVideo.ID)
		if err != nil {
			return models.Reminder{}, err
		}
		a.lastReminders = rs
	}
	return pick(a.lastReminders, ref, func(r models.Reminder) string { return r.ID }, nil)
}

// parseWeekday accepts a day name (or its first three letters) or 0-6 with
// 0 for Sunday.
func parseWeekday(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	if len(s) >= 3 {
		for i, d := range weekdays {
			if strings.HasPrefix(strings.ToLower(d), s) {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: unknown day %q", common.ErrValidation, s)
}
