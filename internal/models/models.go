// Package models defines the library records shared by the local store, the
// remote store and the sync engine.
package models

import (
	"strings"
	"time"
)

const (
	// DefaultFolderColor is used when a folder is created without a color.
	DefaultFolderColor = "#6366f1"

	DefaultImportance = 3
	MinImportance     = 1
	MaxImportance     = 5
)

// Folder groups videos. CreatedDate is milliseconds since the Unix epoch.
type Folder struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	CreatedDate int64  `json:"createdDate"`
}

// Video is a saved link. Thumbnail is nil when none is known.
type Video struct {
	ID          string   `json:"id"`
	FolderID    string   `json:"folderId"`
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Platform    Platform `json:"platform"`
	Thumbnail   *string  `json:"thumbnail,omitempty"`
	Description string   `json:"description"`
	SavedDate   int64    `json:"savedDate"`
	Importance  int      `json:"importance"`
}

// ContentEquals compares the fields that sync is allowed to overwrite on an
// existing video.
func (v Video) ContentEquals(o Video) bool {
	return v.Title == o.Title &&
		v.Description == o.Description &&
		v.Importance == o.Importance &&
		stringPtrEqual(v.Thumbnail, o.Thumbnail)
}

// WithContentOf returns v with title, description, thumbnail and importance
// taken from o. Identity and provenance fields stay as they are.
func (v Video) WithContentOf(o Video) Video {
	v.Title = o.Title
	v.Description = o.Description
	v.Thumbnail = o.Thumbnail
	v.Importance = o.Importance
	return v
}

// Reminder is a scheduled notification for a video. Time is "HH:mm".
type Reminder struct {
	ID           string    `json:"id"`
	VideoID      string    `json:"videoId"`
	Time         string    `json:"time"`
	Frequency    Frequency `json:"frequency"`
	DayOfWeek    *int      `json:"dayOfWeek,omitempty"`
	IntervalDays *int      `json:"intervalDays,omitempty"`
	IsActive     bool      `json:"isActive"`
}

// User is an account row in the remote store.
type User struct {
	ID        string
	Email     string
	Username  string
	Salt      []byte
	Verifier  []byte
	CreatedAt time.Time
}

// RefreshToken is a long-lived token used to renew access tokens.
type RefreshToken struct {
	UserID    string
	Token     string
	ExpiresAt time.Time
}

// Session is the persisted authentication record.
type Session struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	UserID       string    `json:"userId"`
	Email        string    `json:"email"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// Expired reports whether the access token is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// NowMillis returns t in milliseconds since the epoch.
func NowMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// StringPtr returns nil for blank strings.
func StringPtr(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}

func stringPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
