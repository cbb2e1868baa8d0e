package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVideo_ContentEquals(t *testing.T) {
	thumb := "https://img.youtube.com/vi/x/maxresdefault.jpg"
	base := Video{ID: "v1", Title: "a", Description: "d", Importance: 3, Thumbnail: &thumb}

	same := base
	same.URL = "different url is not content"
	assert.True(t, base.ContentEquals(same))

	other := base
	other.Importance = 5
	assert.False(t, base.ContentEquals(other))

	noThumb := base
	noThumb.Thumbnail = nil
	assert.False(t, base.ContentEquals(noThumb))
	assert.True(t, noThumb.ContentEquals(Video{Title: "a", Description: "d", Importance: 3}))
}

func TestVideo_WithContentOf(t *testing.T) {
	local := Video{ID: "v1", FolderID: "f1", URL: "u", SavedDate: 10, Title: "old", Importance: 1}
	remote := Video{ID: "v1", FolderID: "f9", URL: "u2", SavedDate: 99, Title: "new", Importance: 4, Description: "desc"}

	got := local.WithContentOf(remote)
	assert.Equal(t, "new", got.Title)
	assert.Equal(t, "desc", got.Description)
	assert.Equal(t, 4, got.Importance)
	assert.Equal(t, "f1", got.FolderID)
	assert.Equal(t, "u", got.URL)
	assert.Equal(t, int64(10), got.SavedDate)
}

func TestVideoFilter_Match(t *testing.T) {
	v := Video{Platform: PlatformYouTube, Importance: 4}

	assert.True(t, VideoFilter{}.Match(v))
	assert.True(t, VideoFilter{Platforms: []Platform{PlatformTikTok, PlatformYouTube}}.Match(v))
	assert.False(t, VideoFilter{Platforms: []Platform{PlatformTikTok}}.Match(v))
	assert.True(t, VideoFilter{MinImportance: 4, MaxImportance: 5}.Match(v))
	assert.False(t, VideoFilter{MinImportance: 5}.Match(v))
	assert.False(t, VideoFilter{MaxImportance: 3}.Match(v))
}

func TestVideoFilter_Active(t *testing.T) {
	assert.False(t, VideoFilter{}.Active())
	assert.False(t, VideoFilter{MinImportance: 1, MaxImportance: 5, SortBy: SortNewest}.Active())
	assert.True(t, VideoFilter{MinImportance: 2}.Active())
	assert.True(t, VideoFilter{SortBy: SortImportance}.Active())
	assert.True(t, VideoFilter{Platforms: []Platform{PlatformVimeo}}.Active())
}

func TestFrequency_Valid(t *testing.T) {
	assert.True(t, FrequencyWeekly.Valid())
	assert.False(t, Frequency("hourly").Valid())
}

func TestSession_Expired(t *testing.T) {
	now := time.Now()
	assert.True(t, Session{ExpiresAt: now.Add(-time.Second)}.Expired(now))
	assert.True(t, Session{ExpiresAt: now}.Expired(now))
	assert.False(t, Session{ExpiresAt: now.Add(time.Minute)}.Expired(now))
}

func TestStringPtr(t *testing.T) {
	assert.Nil(t, StringPtr("  "))
	assert.Equal(t, "x", *StringPtr("x"))
}
