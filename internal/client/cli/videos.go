package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/bibliotube/internal/client/services"
	"github.com/dmitrijs2005/bibliotube/internal/common"
	"github.com/dmitrijs2005/bibliotube/internal/models"
	"github.com/dmitrijs2005/bibliotube/internal/videometa"
)

// parseVideoFilter reads the listing flags; the first positional argument,
// if any, names the folder.
func parseVideoFilter(args []string) (models.VideoFilter, string, error) {
	var (
		f         models.VideoFilter
		platforms string
		sortBy    string
	)
	fs := flag.NewFlagSet("videos", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&platforms, "p", "", "comma-separated platforms")
	fs.IntVar(&f.MinImportance, "min", 0, "minimum importance")
	fs.IntVar(&f.MaxImportance, "max", 0, "maximum importance")
	fs.StringVar(&sortBy, "sort", string(models.SortNewest), "newest, oldest or importance")
	if err := fs.Parse(args); err != nil {
		return f, "", fmt.Errorf("%w: %s", common.ErrValidation, err)
	}

	for _, p := range strings.Split(platforms, ",") {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			f.Platforms = append(f.Platforms, models.Platform(p))
		}
	}
	switch s := models.SortOrder(sortBy); s {
	case models.SortNewest, models.SortOldest, models.SortImportance:
		f.SortBy = s
	default:
		return f, "", fmt.Errorf("%w: unknown sort %q", common.ErrValidation, sortBy)
	}
	return f, strings.Join(fs.Args(), " "), nil
}

// Videos lists a folder. The folder becomes the current one.
func (a *App) Videos(ctx context.Context, args []string) error {
	filter, ref, err := parseVideoFilter(args)
	if err != nil {
		return err
	}
	if ref == "" && a.currentFolder.ID == "" {
		return errors.New("choose a folder: videos <folder>")
	}
	folder, err := a.folderByRef(ctx, ref)
	if err != nil {
		return err
	}

	var list []models.Video
	if filter.Active() {
		list, err = a.library.ListVideosFiltered(ctx, folder.ID, filter)
	} else {
		list, err = a.library.ListVideos(ctx, folder.ID)
	}
	if err != nil {
		return err
	}

	a.currentFolder = folder
	a.lastVideos = list
	a.printf("%s (%d)\n", folder.Name, len(list))
	if len(list) == 0 {
		a.println("  No videos. Add one with 'add <url>' or 'paste'.")
		return nil
	}
	now := a.now()
	for i, v := range list {
		a.println(videoLine(i+1, v, now))
	}
	return nil
}

// AddVideo saves a video into the current folder through the full form.
func (a *App) AddVideo(ctx context.Context, args []string) error {
	if a.currentFolder.ID == "" {
		return errors.New("choose a folder first: videos <folder>")
	}
	url := strings.Join(args, " ")
	if url == "" {
		var err error
		if url, err = getSimpleText(a.reader, "Video URL", a.out); err != nil {
			return err
		}
	}

	platform := videometa.ExtractPlatform(url)
	suggested, _ := videometa.TitleFromURL(url, platform)
	title, err := getSimpleText(a.reader, fmt.Sprintf("Title (empty for %q)", placeholder(suggested)), a.out)
	if err != nil {
		return err
	}
	description, err := GetMultiline(a.reader, "Description", a.out)
	if err != nil {
		return err
	}
	importance, err := GetInt(a.reader, "Importance 1-5", models.DefaultImportance, a.out)
	if err != nil {
		return err
	}

	v, err := a.library.CreateVideo(ctx, services.VideoInput{
		FolderID:    a.currentFolder.ID,
		URL:         url,
		Title:       title,
		Description: description,
		Importance:  importance,
	})
	if err != nil {
		return err
	}
	a.lastVideos = nil
	a.printf("Saved %s %s\n", videometa.PlatformIcon(v.Platform), v.Title)
	return nil
}

// ShowVideo prints one video with its reminders and makes it current.
func (a *App) ShowVideo(ctx context.Context, args []string) error {
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

	a.printf("%s %s\n", videometa.PlatformIcon(v.Platform), v.Title)
	a.printf("  %s\n", v.URL)
	a.printf("  Platform:   %s\n", videometa.PlatformName(v.Platform))
	a.printf("  Importance: %s %s\n", stars(v.Importance), videometa.ImportanceLabel(v.Importance))
	a.printf("  Saved:      %s\n", formatDate(v.SavedDate, a.now()))
	if v.Thumbnail != nil {
		a.printf("  Thumbnail:  %s\n", *v.Thumbnail)
	}
	if v.Description != "" {
		a.printf("\n%s\n", v.Description)
	}
	if len(rs) > 0 {
		a.println("\nReminders:")
		for i, r := range rs {
			a.println(reminderLine(i+1, r))
		}
	}
	return nil
}

func (a *App) EditVideo(ctx context.Context, args []string) error {
	v, err := a.videoByRef(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}

	title, err := getSimpleText(a.reader, fmt.Sprintf("Title (empty to keep %q)", v.Title), a.out)
	if err != nil {
		return err
	}
	if title == "" {
		title = v.Title
	}
	description, err := GetMultiline(a.reader, "Description (empty to keep)", a.out)
	if err != nil {
		return err
	}
	if description == "" {
		description = v.Description
	}
	importance, err := GetInt(a.reader, "Importance 1-5", v.Importance, a.out)
	if err != nil {
		return err
	}

	v, err = a.library.UpdateVideo(ctx, v.ID, services.VideoUpdate{
		Title:       title,
		Description: description,
		Thumbnail:   v.Thumbnail,
		Importance:  importance,
	})
	if err != nil {
		return err
	}
	a.currentVideo = v
	a.lastVideos = nil
	a.println("Updated", v.Title)
	return nil
}

func (a *App) DeleteVideo(ctx context.Context, args []string) error {
	v, err := a.videoByRef(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	ok, err := GetYesNo(a.reader, fmt.Sprintf("Delete %q?", v.Title), a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.library.DeleteVideo(ctx, v.ID); err != nil {
		return err
	}
	if a.currentVideo.ID == v.ID {
		a.currentVideo = models.Video{}
		a.lastReminders = nil
	}
	a.lastVideos = nil
	a.println("Deleted", v.Title)
	return nil
}

// videoByRef resolves ref against the last listing of the current folder.
// An empty ref means the current video.
func (a *App) videoByRef(ctx context.Context, ref string) (models.Video, error) {
	if strings.TrimSpace(ref) == "" && a.currentVideo.ID != "" {
		return a.currentVideo, nil
	}
	if a.lastVideos == nil && a.currentFolder.ID != "" {
		list, err := a.library.ListVideos(ctx, a.currentFolder.ID)
		if err != nil {
			return models.Video{}, err
		}
		a.lastVideos = list
	}
	return pick(a.lastVideos, ref, func(v models.Video) string { return v.ID }, nil)
}
