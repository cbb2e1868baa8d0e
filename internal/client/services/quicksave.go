package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/bibliotube/internal/logging"
	"github.com/dmitrijs2005/bibliotube/internal/models"
	"github.com/dmitrijs2005/bibliotube/internal/videometa"
)

// QuickSaveDraft is the pre-filled form shown for a captured link.
type QuickSaveDraft struct {
	URL        string
	Title      string
	Platform   models.Platform
	Thumbnail  *string
	Importance int
	Folders    []models.Folder
	// FolderID is preselected to the newest folder when there is one.
	FolderID string
}

// QuickSaveService saves a captured link with minimal input.
type QuickSaveService struct {
	lib *LibraryService
	log logging.Logger
}

func NewQuickSaveService(lib *LibraryService, log logging.Logger) *QuickSaveService {
	return &QuickSaveService{lib: lib, log: log.With("module", "quicksave")}
}

// Prepare builds a draft from the URL alone. No network lookups are made.
func (q *QuickSaveService) Prepare(ctx context.Context, url string) (QuickSaveDraft, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return QuickSaveDraft{}, validationf("video URL is required")
	}
	folders, err := q.lib.ListFolders(ctx)
	if err != nil {
		return QuickSaveDraft{}, err
	}

	platform := videometa.ExtractPlatform(url)
	d := QuickSaveDraft{
		URL:        url,
		Platform:   platform,
		Importance: models.DefaultImportance,
		Folders:    folders,
	}
	if t, ok := videometa.TitleFromURL(url, platform); ok {
		d.Title = t
	}
	if t, ok := videometa.ThumbnailURL(url); ok {
		d.Thumbnail = &t
	}
	if len(folders) > 0 {
		d.FolderID = folders[0].ID
	}
	return d, nil
}

// Save stores the draft and then syncs in the foreground; a failed sync
// does not fail the save.
func (q *QuickSaveService) Save(ctx context.Context, d QuickSaveDraft) (models.Video, error) {
	if strings.TrimSpace(d.FolderID) == "" {
		return models.Video{}, validationf("select a folder")
	}
	in := VideoInput{
		FolderID:   d.FolderID,
		URL:        d.URL,
		Title:      d.Title,
		Importance: d.Importance,
	}
	if d.Thumbnail != nil {
		in.Thumbnail = *d.Thumbnail
	}
	v, err := q.lib.CreateVideo(ctx, in)
	if err != nil {
		return models.Video{}, err
	}
	q.log.Info(ctx, "quick save", "video_id", v.ID)
	q.lib.syncBestEffort(ctx)
	return v, nil
}
