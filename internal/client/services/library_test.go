package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/bibliotube/internal/client/reminders"
	"github.com/dmitrijs2005/bibliotube/internal/client/syncer"
	"github.com/dmitrijs2005/bibliotube/internal/common"
	"github.com/dmitrijs2005/bibliotube/internal/logging"
	"github.com/dmitrijs2005/bibliotube/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSyncer struct {
	mu    sync.Mutex
	users []string
	err   error
}

func (f *fakeSyncer) SyncBidirectional(_ context.Context, userID string) (syncer.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users = append(f.users, userID)
	return syncer.Report{VideosInserted: 1}, f.err
}

type libFixture struct {
	lib   *LibraryService
	sched *reminders.LogScheduler
	sync  *fakeSyncer
	clock time.Time
}

func newLibrary(t *testing.T, uid string) *libFixture {
	t.Helper()
	fx := &libFixture{
		sched: reminders.NewLogScheduler(logging.NewNopLogger()),
		sync:  &fakeSyncer{},
		clock: time.UnixMilli(1_700_000_000_000),
	}
	fx.lib = NewLibraryService(setupDB(t), staticIdentity(uid), fx.sched, fx.sync, logging.NewNopLogger())
	fx.lib.now = func() time.Time {
		fx.clock = fx.clock.Add(time.Second)
		return fx.clock
	}
	n := 0
	fx.lib.newID = func() string {
		n++
		return fmt.Sprintf("id-%02d", n)
	}
	return fx
}

func TestFolders_CRUD(t *testing.T) {
	fx := newLibrary(t, "u1")
	ctx := context.Background()

	_, err := fx.lib.CreateFolder(ctx, "   ", "")
	require.ErrorIs(t, err, common.ErrValidation)

	music, err := fx.lib.CreateFolder(ctx, " Music ", "")
	require.NoError(t, err)
	assert.Equal(t, "Music", music.Name)
	assert.Equal(t, models.DefaultFolderColor, music.Color)
	assert.Equal(t, "u1", music.UserID)

	cooking, err := fx.lib.CreateFolder(ctx, "Cooking", "#ff0000")
	require.NoError(t, err)

	list, err := fx.lib.ListFolders(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, cooking.ID, list[0].ID, "newest first")

	upd, err := fx.lib.UpdateFolder(ctx, music.ID, "Songs", "")
	require.NoError(t, err)
	assert.Equal(t, "Songs", upd.Name)
	assert.Equal(t, models.DefaultFolderColor, upd.Color)

	_, err = fx.lib.UpdateFolder(ctx, "missing", "x", "")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestLibrary_RequiresUser(t *testing.T) {
	fx := newLibrary(t, "")
	ctx := context.Background()

	_, err := fx.lib.CreateFolder(ctx, "Music", "")
	require.ErrorIs(t, err, common.ErrNoUser)
	_, err = fx.lib.ListFolders(ctx)
	require.ErrorIs(t, err, common.ErrNoUser)
	_, err = fx.lib.Sync(ctx)
	require.ErrorIs(t, err, common.ErrNoUser)
}

func TestLibrary_OtherUsersFoldersAreHidden(t *testing.T) {
	fx := newLibrary(t, "u1")
	ctx := context.Background()
	f, err := fx.lib.CreateFolder(ctx, "Mine", "")
	require.NoError(t, err)

	other := NewLibraryService(fx.lib.db, staticIdentity("u2"), nil, nil, logging.NewNopLogger())
	_, err = other.GetFolder(ctx, f.ID)
	require.ErrorIs(t, err, common.ErrNotFound)
	_, err = other.CreateVideo(ctx, VideoInput{FolderID: f.ID, URL: "https://youtu.be/abc"})
	require.ErrorIs(t, err, common.ErrNotFound)
	require.ErrorIs(t, other.DeleteFolder(ctx, f.ID), common.ErrNotFound)
}

func TestCreateVideo_Derivation(t *testing.T) {
	fx := newLibrary(t, "u1")
	ctx := context.Background()
	f, err := fx.lib.CreateFolder(ctx, "Music", "")
	require.NoError(t, err)

	v, err := fx.lib.CreateVideo(ctx, VideoInput{FolderID: f.ID, URL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ"})
	require.NoError(t, err)
	assert.Equal(t, models.PlatformYouTube, v.Platform)
	assert.Equal(t, models.DefaultImportance, v.Importance)
	assert.Contains(t, v.Title, "dQw4w9Wg")
	require.NotNil(t, v.Thumbnail)
	assert.Equal(t, "https://img.youtube.com/vi/dQw4w9WgXcQ/maxresdefault.jpg", *v.Thumbnail)

	got, err := fx.lib.GetVideo(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, v, got)

	v2, err := fx.lib.CreateVideo(ctx, VideoInput{FolderID: f.ID, URL: "https://example.com/clip", Importance: 5})
	require.NoError(t, err)
	assert.Equal(t, models.PlatformOther, v2.Platform)
	assert.Equal(t, "Untitled", v2.Title)
	assert.Nil(t, v2.Thumbnail)
	assert.Equal(t, 5, v2.Importance)
}

func TestCreateVideo_Validation(t *testing.T) {
	fx := newLibrary(t, "u1")
	ctx := context.Background()
	f, err := fx.lib.CreateFolder(ctx, "Music", "")
	require.NoError(t, err)

	_, err = fx.lib.CreateVideo(ctx, VideoInput{FolderID: f.ID, URL: " "})
	require.ErrorIs(t, err, common.ErrValidation)
	_, err = fx.lib.CreateVideo(ctx, VideoInput{URL: "https://youtu.be/x"})
	require.ErrorIs(t, err, common.ErrValidation)
	_, err = fx.lib.CreateVideo(ctx, VideoInput{FolderID: f.ID, URL: "https://youtu.be/x", Importance: 6})
	require.ErrorIs(t, err, common.ErrValidation)
	_, err = fx.lib.CreateVideo(ctx, VideoInput{FolderID: "nope", URL: "https://youtu.be/x"})
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestListVideosFiltered(t *testing.T) {
	fx := newLibrary(t, "u1")
	ctx := context.Background()
	f, err := fx.lib.CreateFolder(ctx, "Mixed", "")
	require.NoError(t, err)

	for _, in := range []VideoInput{
		{URL: "https://youtu.be/a", Importance: 1},
		{URL: "https://vimeo.com/123", Importance: 4},
		{URL: "https://youtu.be/b", Importance: 5},
		{URL: "https://www.tiktok.com/@x/video/1", Importance: 3},
	} {
		in.FolderID = f.ID
		_, err := fx.lib.CreateVideo(ctx, in)
		require.NoError(t, err)
	}

	all, err := fx.lib.ListVideos(ctx, f.ID)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "https://www.tiktok.com/@x/video/1", all[0].URL, "newest first")

	got, err := fx.lib.ListVideosFiltered(ctx, f.ID, models.VideoFilter{MinImportance: 4, MaxImportance: 5, SortBy: models.SortImportance})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 5, got[0].Importance)
	assert.Equal(t, 4, got[1].Importance)

	got, err = fx.lib.ListVideosFiltered(ctx, f.ID, models.VideoFilter{Platforms: []models.Platform{models.PlatformYouTube}, SortBy: models.SortOldest})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "https://youtu.be/a", got[0].URL)

	_, err = fx.lib.ListVideosFiltered(ctx, f.ID, models.VideoFilter{MinImportance: 5, MaxImportance: 2})
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestUpdateVideo(t *testing.T) {
	fx := newLibrary(t, "u1")
	ctx := context.Background()
	f, err := fx.lib.CreateFolder(ctx, "Music", "")
	require.NoError(t, err)
	v, err := fx.lib.CreateVideo(ctx, VideoInput{FolderID: f.ID, URL: "https://youtu.be/abc"})
	require.NoError(t, err)

	upd, err := fx.lib.UpdateVideo(ctx, v.ID, VideoUpdate{Title: "Live set", Description: "encore", Importance: 4})
	require.NoError(t, err)
	assert.Equal(t, "Live set", upd.Title)
	assert.Nil(t, upd.Thumbnail)
	assert.Equal(t, v.URL, upd.URL)
	assert.Equal(t, v.SavedDate, upd.SavedDate)

	got, err := fx.lib.GetVideo(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, upd, got)

	_, err = fx.lib.UpdateVideo(ctx, v.ID, VideoUpdate{Title: ""})
	require.ErrorIs(t, err, common.ErrValidation)
	_, err = fx.lib.UpdateVideo(ctx, v.ID, VideoUpdate{Title: "x", Importance: -1})
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestReminders_NormalisedAndScheduled(t *testing.T) {
	fx := newLibrary(t, "u1")
	ctx := context.Background()
	f, err := fx.lib.CreateFolder(ctx, "Music", "")
	require.NoError(t, err)
	v, err := fx.lib.CreateVideo(ctx, VideoInput{FolderID: f.ID, URL: "https://youtu.be/abc"})
	require.NoError(t, err)

	weekly, err := fx.lib.CreateReminder(ctx, models.Reminder{
		VideoID: v.ID, Time: "08:15", Frequency: models.FrequencyWeekly,
		DayOfWeek: models.IntPtr(1), IntervalDays: models.IntPtr(9),
	})
	require.NoError(t, err)
	assert.Nil(t, weekly.IntervalDays)
	require.NotNil(t, weekly.DayOfWeek)
	assert.True(t, weekly.IsActive)

	custom, err := fx.lib.CreateReminder(ctx, models.Reminder{
		VideoID: v.ID, Time: "21:00", Frequency: models.FrequencyCustom,
		DayOfWeek: models.IntPtr(3), IntervalDays: models.IntPtr(2),
	})
	require.NoError(t, err)
	assert.Nil(t, custom.DayOfWeek)
	assert.Equal(t, 2, *custom.IntervalDays)

	_, ok := fx.sched.Planned(weekly.ID)
	assert.True(t, ok)

	list, err := fx.lib.ListReminders(ctx, v.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, fx.lib.SetReminderActive(ctx, weekly.ID, false))
	_, ok = fx.sched.Planned(weekly.ID)
	assert.False(t, ok)
	list, err = fx.lib.ListReminders(ctx, v.ID)
	require.NoError(t, err)
	for _, r := range list {
		if r.ID == weekly.ID {
			assert.False(t, r.IsActive)
		}
	}

	require.NoError(t, fx.lib.DeleteReminder(ctx, custom.ID))
	_, ok = fx.sched.Planned(custom.ID)
	assert.False(t, ok)

	_, err = fx.lib.CreateReminder(ctx, models.Reminder{VideoID: v.ID, Time: "08:00", Frequency: models.FrequencyWeekly})
	require.ErrorIs(t, err, common.ErrValidation)
	_, err = fx.lib.CreateReminder(ctx, models.Reminder{VideoID: "nope", Time: "08:00"})
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestDeleteFolder_Cascades(t *testing.T) {
	fx := newLibrary(t, "u1")
	ctx := context.Background()
	f, err := fx.lib.CreateFolder(ctx, "Music", "")
	require.NoError(t, err)
	keep, err := fx.lib.CreateFolder(ctx, "Keep", "")
	require.NoError(t, err)
	v, err := fx.lib.CreateVideo(ctx, VideoInput{FolderID: f.ID, URL: "https://youtu.be/abc"})
	require.NoError(t, err)
	kv, err := fx.lib.CreateVideo(ctx, VideoInput{FolderID: keep.ID, URL: "https://youtu.be/keep"})
	require.NoError(t, err)
	r, err := fx.lib.CreateReminder(ctx, models.Reminder{VideoID: v.ID, Time: "09:00", Frequency: models.FrequencyDaily})
	require.NoError(t, err)

	require.NoError(t, fx.lib.DeleteFolder(ctx, f.ID))

	_, err = fx.lib.GetFolder(ctx, f.ID)
	require.ErrorIs(t, err, common.ErrNotFound)
	_, err = fx.lib.GetVideo(ctx, v.ID)
	require.ErrorIs(t, err, common.ErrNotFound)
	_, err = fx.lib.reminderRepo(fx.lib.db).Get(ctx, r.ID)
	require.ErrorIs(t, err, common.ErrNotFound)
	_, ok := fx.sched.Planned(r.ID)
	assert.False(t, ok)

	_, err = fx.lib.GetVideo(ctx, kv.ID)
	require.NoError(t, err)
}

func TestDeleteVideo_Cascades(t *testing.T) {
	fx := newLibrary(t, "u1")
	ctx := context.Background()
	f, err := fx.lib.CreateFolder(ctx, "Music", "")
	require.NoError(t, err)
	v, err := fx.lib.CreateVideo(ctx, VideoInput{FolderID: f.ID, URL: "https://youtu.be/abc"})
	require.NoError(t, err)
	_, err = fx.lib.CreateReminder(ctx, models.Reminder{VideoID: v.ID, Time: "09:00", Frequency: models.FrequencyOnce})
	require.NoError(t, err)

	require.NoError(t, fx.lib.DeleteVideo(ctx, v.ID))
	_, err = fx.lib.GetVideo(ctx, v.ID)
	require.ErrorIs(t, err, common.ErrNotFound)
	rems, err := fx.lib.reminderRepo(fx.lib.db).ListByVideo(ctx, v.ID)
	require.NoError(t, err)
	assert.Empty(t, rems)

	require.ErrorIs(t, fx.lib.DeleteVideo(ctx, v.ID), common.ErrNotFound)
}

func TestSync(t *testing.T) {
	fx := newLibrary(t, "u1")

	rep, err := fx.lib.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, rep.VideosInserted)
	assert.Equal(t, []string{"u1"}, fx.sync.users)

	noSync := NewLibraryService(fx.lib.db, staticIdentity("u1"), nil, nil, logging.NewNopLogger())
	_, err = noSync.Sync(context.Background())
	require.Error(t, err)

	fx.sync.err = errors.New("offline")
	_, err = fx.lib.Sync(context.Background())
	require.Error(t, err)
}
