package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/bibliotube/internal/client/reminders"
	"github.com/dmitrijs2005/bibliotube/internal/client/repositories/folders"
	reminderrepo "github.com/dmitrijs2005/bibliotube/internal/client/repositories/reminders"
	"github.com/dmitrijs2005/bibliotube/internal/client/repositories/videos"
	"github.com/dmitrijs2005/bibliotube/internal/client/syncer"
	"github.com/dmitrijs2005/bibliotube/internal/common"
	"github.com/dmitrijs2005/bibliotube/internal/dbx"
	"github.com/dmitrijs2005/bibliotube/internal/logging"
	"github.com/dmitrijs2005/bibliotube/internal/models"
	"github.com/dmitrijs2005/bibliotube/internal/store"
	"github.com/dmitrijs2005/bibliotube/internal/videometa"
	"github.com/google/uuid"
)

// Identity resolves the signed-in user. *AuthService implements it.
type Identity interface {
	UserID() (string, error)
}

// Syncer runs a full sync pass for a user. *syncer.Engine implements it.
type Syncer interface {
	SyncBidirectional(ctx context.Context, userID string) (syncer.Report, error)
}

// VideoInput is what the user supplies when saving a video. Empty fields are
// derived from the URL.
type VideoInput struct {
	FolderID    string
	URL         string
	Title       string
	Description string
	Thumbnail   string
	Importance  int
}

// VideoUpdate carries the editable content of a video.
type VideoUpdate struct {
	Title       string
	Description string
	Thumbnail   *string
	Importance  int
}

// LibraryService applies user mutations to the local store. Every call is
// scoped to the signed-in user; records of other users read as not found.
type LibraryService struct {
	db        *sql.DB
	identity  Identity
	scheduler reminders.Scheduler
	syncer    Syncer
	log       logging.Logger
	now       func() time.Time
	newID     func() string
}

// NewLibraryService builds the service. scheduler and syncer may be nil.
func NewLibraryService(db *sql.DB, identity Identity, scheduler reminders.Scheduler, engine Syncer, log logging.Logger) *LibraryService {
	return &LibraryService{
		db:        db,
		identity:  identity,
		scheduler: scheduler,
		syncer:    engine,
		log:       log.With("module", "library"),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (s *LibraryService) folderRepo(db dbx.DBTX) store.FolderRepository {
	return folders.NewSQLiteRepository(db)
}

func (s *LibraryService) videoRepo(db dbx.DBTX) videos.Repository {
	return videos.NewSQLiteRepository(db)
}

func (s *LibraryService) reminderRepo(db dbx.DBTX) store.ReminderRepository {
	return reminderrepo.NewSQLiteRepository(db)
}

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrValidation, fmt.Sprintf(format, args...))
}

// ownedFolder loads a folder and hides it when it belongs to someone else.
func (s *LibraryService) ownedFolder(ctx context.Context, userID, folderID string) (models.Folder, error) {
	f, err := s.folderRepo(s.db).Get(ctx, folderID)
	if err != nil {
		return models.Folder{}, err
	}
	if f.UserID != userID {
		return models.Folder{}, fmt.Errorf("folder %s: %w", folderID, common.ErrNotFound)
	}
	return f, nil
}

func (s *LibraryService) ownedVideo(ctx context.Context, userID, videoID string) (models.Video, error) {
	v, err := s.videoRepo(s.db).Get(ctx, videoID)
	if err != nil {
		return models.Video{}, err
	}
	if _, err := s.ownedFolder(ctx, userID, v.FolderID); err != nil {
		return models.Video{}, fmt.Errorf("video %s: %w", videoID, common.ErrNotFound)
	}
	return v, nil
}

func (s *LibraryService) ownedReminder(ctx context.Context, userID, reminderID string) (models.Reminder, models.Video, error) {
	r, err := s.reminderRepo(s.db).Get(ctx, reminderID)
	if err != nil {
		return models.Reminder{}, models.Video{}, err
	}
	v, err := s.ownedVideo(ctx, userID, r.VideoID)
	if err != nil {
		return models.Reminder{}, models.Video{}, fmt.Errorf("reminder %s: %w", reminderID, common.ErrNotFound)
	}
	return r, v, nil
}

// ---- folders ----

func (s *LibraryService) CreateFolder(ctx context.Context, name, color string) (models.Folder, error) {
	uid, err := s.identity.UserID()
	if err != nil {
		return models.Folder{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Folder{}, validationf("folder name is required")
	}
	color = strings.TrimSpace(color)
	if color == "" {
		color = models.DefaultFolderColor
	}

	f := models.Folder{
		ID:          s.newID(),
		UserID:      uid,
		Name:        name,
		Color:       color,
		CreatedDate: models.NowMillis(s.now()),
	}
	if err := s.folderRepo(s.db).Insert(ctx, f); err != nil {
		return models.Folder{}, fmt.Errorf("error creating folder: %w", err)
	}
	return f, nil
}

// ListFolders returns the user's folders, newest first.
func (s *LibraryService) ListFolders(ctx context.Context) ([]models.Folder, error) {
	uid, err := s.identity.UserID()
	if err != nil {
		return nil, err
	}
	return s.folderRepo(s.db).ListByUser(ctx, uid)
}

func (s *LibraryService) GetFolder(ctx context.Context, id string) (models.Folder, error) {
	uid, err := s.identity.UserID()
	if err != nil {
		return models.Folder{}, err
	}
	return s.ownedFolder(ctx, uid, id)
}

// UpdateFolder renames and recolors a folder. An empty color keeps the
// current one.
func (s *LibraryService) UpdateFolder(ctx context.Context, id, name, color string) (models.Folder, error) {
	uid, err := s.identity.UserID()
	if err != nil {
		return models.Folder{}, err
	}
	f, err := s.ownedFolder(ctx, uid, id)
	if err != nil {
		return models.Folder{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Folder{}, validationf("folder name is required")
	}
	f.Name = name
	if c := strings.TrimSpace(color); c != "" {
		f.Color = c
	}
	if err := s.folderRepo(s.db).Update(ctx, f); err != nil {
		return models.Folder{}, fmt.Errorf("error updating folder: %w", err)
	}
	return f, nil
}

// DeleteFolder removes a folder with its videos and their reminders in one
// transaction.
func (s *LibraryService) DeleteFolder(ctx context.Context, id string) error {
	uid, err := s.identity.UserID()
	if err != nil {
		return err
	}
	if _, err := s.ownedFolder(ctx, uid, id); err != nil {
		return err
	}

	var dropped []string
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		vids, err := s.videoRepo(tx).ListByFolder(ctx, id)
		if err != nil {
			return err
		}
		rr := s.reminderRepo(tx)
		for _, v := range vids {
			rems, err := rr.ListByVideo(ctx, v.ID)
			if err != nil {
				return err
			}
			for _, r := range rems {
				dropped = append(dropped, r.ID)
			}
			if err := rr.DeleteByVideo(ctx, v.ID); err != nil {
				return err
			}
		}
		if err := s.videoRepo(tx).DeleteByFolder(ctx, id); err != nil {
			return err
		}
		return s.folderRepo(tx).Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("error deleting folder: %w", err)
	}
	s.cancelAll(ctx, dropped)
	return nil
}

// ---- videos ----

func (s *LibraryService) CreateVideo(ctx context.Context, in VideoInput) (models.Video, error) {
	uid, err := s.identity.UserID()
	if err != nil {
		return models.Video{}, err
	}
	url := strings.TrimSpace(in.URL)
	if url == "" {
		return models.Video{}, validationf("video URL is required")
	}
	if strings.TrimSpace(in.FolderID) == "" {
		return models.Video{}, validationf("select a folder")
	}
	importance, err := checkImportance(in.Importance)
	if err != nil {
		return models.Video{}, err
	}
	if _, err := s.ownedFolder(ctx, uid, in.FolderID); err != nil {
		return models.Video{}, err
	}

	platform := videometa.ExtractPlatform(url)
	title := strings.TrimSpace(in.Title)
	if title == "" {
		if t, ok := videometa.TitleFromURL(url, platform); ok {
			title = t
		} else {
			title = videometa.UntitledTitle
		}
	}
	thumb := models.StringPtr(in.Thumbnail)
	if thumb == nil {
		if t, ok := videometa.ThumbnailURL(url); ok {
			thumb = &t
		}
	}

	v := models.Video{
		ID:          s.newID(),
		FolderID:    in.FolderID,
		Title:       title,
		URL:         url,
		Platform:    platform,
		Thumbnail:   thumb,
		Description: strings.TrimSpace(in.Description),
		SavedDate:   models.NowMillis(s.now()),
		Importance:  importance,
	}
	if err := s.videoRepo(s.db).Insert(ctx, v); err != nil {
		return models.Video{}, fmt.Errorf("error saving video: %w", err)
	}
	s.log.Info(ctx, "video saved", "video_id", v.ID, "platform", string(v.Platform))
	return v, nil
}

func checkImportance(v int) (int, error) {
	if v == 0 {
		return models.DefaultImportance, nil
	}
	if v < models.MinImportance || v > models.MaxImportance {
		return 0, validationf("importance must be between %d and %d", models.MinImportance, models.MaxImportance)
	}
	return v, nil
}

func (s *LibraryService) GetVideo(ctx context.Context, id string) (models.Video, error) {
	uid, err := s.identity.UserID()
	if err != nil {
		return models.Video{}, err
	}
	return s.ownedVideo(ctx, uid, id)
}

// ListVideos returns a folder's videos, newest first.
func (s *LibraryService) ListVideos(ctx context.Context, folderID string) ([]models.Video, error) {
	return s.ListVideosFiltered(ctx, folderID, models.VideoFilter{})
}

func (s *LibraryService) ListVideosFiltered(ctx context.Context, folderID string, f models.VideoFilter) ([]models.Video, error) {
	uid, err := s.identity.UserID()
	if err != nil {
		return nil, err
	}
	if f.MinImportance != 0 && f.MaxImportance != 0 && f.MinImportance > f.MaxImportance {
		return nil, validationf("minimum importance is above maximum")
	}
	if _, err := s.ownedFolder(ctx, uid, folderID); err != nil {
		return nil, err
	}
	return s.videoRepo(s.db).ListFiltered(ctx, folderID, f)
}

func (s *LibraryService) UpdateVideo(ctx context.Context, id string, upd VideoUpdate) (models.Video, error) {
	uid, err := s.identity.UserID()
	if err != nil {
		return models.Video{}, err
	}
	v, err := s.ownedVideo(ctx, uid, id)
	if err != nil {
		return models.Video{}, err
	}
	title := strings.TrimSpace(upd.Title)
	if title == "" {
		return models.Video{}, validationf("video title is required")
	}
	importance, err := checkImportance(upd.Importance)
	if err != nil {
		return models.Video{}, err
	}

	v.Title = title
	v.Description = strings.TrimSpace(upd.Description)
	v.Thumbnail = upd.Thumbnail
	v.Importance = importance
	if err := s.videoRepo(s.db).UpdateContent(ctx, v); err != nil {
		return models.Video{}, fmt.Errorf("error updating video: %w", err)
	}
	return v, nil
}

// DeleteVideo removes a video and its reminders in one transaction.
func (s *LibraryService) DeleteVideo(ctx context.Context, id string) error {
	uid, err := s.identity.UserID()
	if err != nil {
		return err
	}
	if _, err := s.ownedVideo(ctx, uid, id); err != nil {
		return err
	}

	var dropped []string
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		rr := s.reminderRepo(tx)
		rems, err := rr.ListByVideo(ctx, id)
		if err != nil {
			return err
		}
		for _, r := range rems {
			dropped = append(dropped, r.ID)
		}
		if err := rr.DeleteByVideo(ctx, id); err != nil {
			return err
		}
		return s.videoRepo(tx).Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("error deleting video: %w", err)
	}
	s.cancelAll(ctx, dropped)
	return nil
}

// ---- reminders ----

// CreateReminder validates and stores an active reminder and hands it to
// the scheduler. Scheduling failures are logged only.
func (s *LibraryService) CreateReminder(ctx context.Context, in models.Reminder) (models.Reminder, error) {
	uid, err := s.identity.UserID()
	if err != nil {
		return models.Reminder{}, err
	}
	v, err := s.ownedVideo(ctx, uid, in.VideoID)
	if err != nil {
		return models.Reminder{}, err
	}
	if in.Frequency == "" {
		in.Frequency = models.FrequencyOnce
	}
	r, err := reminders.Normalize(in)
	if err != nil {
		return models.Reminder{}, err
	}
	r.ID = s.newID()
	r.IsActive = true

	if err := s.reminderRepo(s.db).Insert(ctx, r); err != nil {
		return models.Reminder{}, fmt.Errorf("error creating reminder: %w", err)
	}
	s.schedule(ctx, r, v.Title)
	return r, nil
}

func (s *LibraryService) ListReminders(ctx context.Context, videoID string) ([]models.Reminder, error) {
	uid, err := s.identity.UserID()
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedVideo(ctx, uid, videoID); err != nil {
		return nil, err
	}
	return s.reminderRepo(s.db).ListByVideo(ctx, videoID)
}

func (s *LibraryService) SetReminderActive(ctx context.Context, id string, active bool) error {
	uid, err := s.identity.UserID()
	if err != nil {
		return err
	}
	r, v, err := s.ownedReminder(ctx, uid, id)
	if err != nil {
		return err
	}
	if err := s.reminderRepo(s.db).SetActive(ctx, id, active); err != nil {
		return fmt.Errorf("error updating reminder: %w", err)
	}
	if active {
		s.schedule(ctx, r, v.Title)
	} else {
		s.cancelAll(ctx, []string{id})
	}
	return nil
}

func (s *LibraryService) DeleteReminder(ctx context.Context, id string) error {
	uid, err := s.identity.UserID()
	if err != nil {
		return err
	}
	if _, _, err := s.ownedReminder(ctx, uid, id); err != nil {
		return err
	}
	if err := s.reminderRepo(s.db).Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting reminder: %w", err)
	}
	s.cancelAll(ctx, []string{id})
	return nil
}

func (s *LibraryService) schedule(ctx context.Context, r models.Reminder, title string) {
	if s.scheduler == nil {
		return
	}
	if _, err := s.scheduler.Schedule(ctx, r, title); err != nil {
		s.log.Warn(ctx, "reminder scheduling failed", "reminder_id", r.ID, "err", err)
	}
}

func (s *LibraryService) cancelAll(ctx context.Context, ids []string) {
	if s.scheduler == nil {
		return
	}
	for _, id := range ids {
		if err := s.scheduler.Cancel(ctx, id); err != nil {
			s.log.Warn(ctx, "reminder cancel failed", "reminder_id", id, "err", err)
		}
	}
}

// ---- sync ----

// Sync runs a bidirectional pass for the signed-in user.
func (s *LibraryService) Sync(ctx context.Context) (syncer.Report, error) {
	uid, err := s.identity.UserID()
	if err != nil {
		return syncer.Report{}, err
	}
	if s.syncer == nil {
		return syncer.Report{}, errors.New("sync is not configured")
	}
	return s.syncer.SyncBidirectional(ctx, uid)
}

// syncBestEffort runs Sync and only logs the outcome.
func (s *LibraryService) syncBestEffort(ctx context.Context) {
	if s.syncer == nil {
		return
	}
	rep, err := s.Sync(ctx)
	if err != nil {
		s.log.Warn(ctx, "background sync failed", "err", err)
		return
	}
	s.log.Debug(ctx, "background sync done", "report", rep.String())
}
