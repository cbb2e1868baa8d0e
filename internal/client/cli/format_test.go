package cli

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/bibliotube/internal/common"
	"github.com/dmitrijs2005/bibliotube/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDate(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"today", time.Date(2025, 3, 10, 8, 5, 0, 0, time.UTC), "Today at 08:05"},
		{"midnight", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), "Today at 00:00"},
		{"yesterday", time.Date(2025, 3, 9, 23, 59, 0, 0, time.UTC), "Yesterday at 23:59"},
		{"older", time.Date(2025, 3, 8, 23, 59, 0, 0, time.UTC), "Mar 8, 2025"},
		{"future", time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC), "Mar 11, 2025"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatDate(tt.at.UnixMilli(), now))
		})
	}
}

func TestStars(t *testing.T) {
	assert.Equal(t, "★★★☆☆", stars(3))
	assert.Equal(t, "☆☆☆☆☆", stars(0))
	assert.Equal(t, "★★★★★", stars(9))
}

func TestDescribeReminder(t *testing.T) {
	assert.Equal(t, "09:00 once (on)", describeReminder(models.Reminder{Time: "09:00", Frequency: models.FrequencyOnce, IsActive: true}))
	assert.Equal(t, "09:00 every day (off)", describeReminder(models.Reminder{Time: "09:00", Frequency: models.FrequencyDaily}))
	assert.Equal(t, "07:15 every Sunday (on)", describeReminder(models.Reminder{Time: "07:15", Frequency: models.FrequencyWeekly, DayOfWeek: models.IntPtr(0), IsActive: true}))
	assert.Equal(t, "07:15 every 10 days (on)", describeReminder(models.Reminder{Time: "07:15", Frequency: models.FrequencyCustom, IntervalDays: models.IntPtr(10), IsActive: true}))
}

func TestParseWeekday(t *testing.T) {
	for in, want := range map[string]int{"0": 0, "6": 6, "Sunday": 0, "sat": 6, " WED ": 3} {
		got, err := parseWeekday(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := parseWeekday("su")
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestPick(t *testing.T) {
	folders := []models.Folder{
		{ID: "aaa-1", Name: "Music"},
		{ID: "aab-2", Name: "Cooking"},
	}
	id := func(f models.Folder) string { return f.ID }
	name := func(f models.Folder) string { return f.Name }

	got, err := pick(folders, "2", id, name)
	require.NoError(t, err)
	assert.Equal(t, "aab-2", got.ID)

	got, err = pick(folders, "aaa", id, name)
	require.NoError(t, err)
	assert.Equal(t, "Music", got.Name)

	got, err = pick(folders, "cooking", id, name)
	require.NoError(t, err)
	assert.Equal(t, "aab-2", got.ID)

	_, err = pick(folders, "aa", id, name)
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = pick(folders, "zzz", id, name)
	require.ErrorIs(t, err, common.ErrNotFound)

	_, err = pick(folders, "", id, nil)
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestParseVideoFilter(t *testing.T) {
	f, ref, err := parseVideoFilter([]string{"-p", "YouTube, tiktok", "-min", "2", "-sort", "oldest", "Watch", "later"})
	require.NoError(t, err)
	assert.Equal(t, []models.Platform{models.PlatformYouTube, models.PlatformTikTok}, f.Platforms)
	assert.Equal(t, 2, f.MinImportance)
	assert.Equal(t, models.SortOldest, f.SortBy)
	assert.Equal(t, "Watch later", ref)

	f, ref, err = parseVideoFilter(nil)
	require.NoError(t, err)
	assert.False(t, f.Active())
	assert.Empty(t, ref)

	_, _, err = parseVideoFilter([]string{"-sort", "random"})
	require.ErrorIs(t, err, common.ErrValidation)

	_, _, err = parseVideoFilter([]string{"-bogus"})
	require.ErrorIs(t, err, common.ErrValidation)
}
