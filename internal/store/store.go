// Package store declares the repository contract implemented by both the
// local SQLite store and the remote PostgreSQL store. The sync engine only
// sees these interfaces, so either side can be swapped for the in-memory
// implementation in tests.
package store

import (
	"context"

	"github.com/dmitrijs2005/bibliotube/internal/models"
)

// FolderRepository persists folders. Get returns common.ErrNotFound for a
// missing id.
type FolderRepository interface {
	Get(ctx context.Context, id string) (models.Folder, error)
	ListByUser(ctx context.Context, userID string) ([]models.Folder, error)
	Insert(ctx context.Context, f models.Folder) error
	// InsertIfAbsent inserts f unless a folder with the same id exists and
	// reports whether a row was written.
	InsertIfAbsent(ctx context.Context, f models.Folder) (bool, error)
	// Update overwrites name and color.
	Update(ctx context.Context, f models.Folder) error
	Delete(ctx context.Context, id string) error
}

// VideoRepository persists videos.
type VideoRepository interface {
	Get(ctx context.Context, id string) (models.Video, error)
	ListByFolder(ctx context.Context, folderID string) ([]models.Video, error)
	Insert(ctx context.Context, v models.Video) error
	InsertIfAbsent(ctx context.Context, v models.Video) (bool, error)
	// UpdateContent overwrites title, description, thumbnail and importance.
	UpdateContent(ctx context.Context, v models.Video) error
	Delete(ctx context.Context, id string) error
	DeleteByFolder(ctx context.Context, folderID string) error
}

// ReminderRepository persists reminders.
type ReminderRepository interface {
	Get(ctx context.Context, id string) (models.Reminder, error)
	ListByVideo(ctx context.Context, videoID string) ([]models.Reminder, error)
	Insert(ctx context.Context, r models.Reminder) error
	InsertIfAbsent(ctx context.Context, r models.Reminder) (bool, error)
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
	DeleteByVideo(ctx context.Context, videoID string) error
}

// Store bundles the three repositories of one side of the sync.
type Store struct {
	Folders   FolderRepository
	Videos    VideoRepository
	Reminders ReminderRepository
}
