// Package videos persists saved videos in the local database.
package videos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/bibliotube/internal/common"
	"github.com/dmitrijs2005/bibliotube/internal/dbx"
	"github.com/dmitrijs2005/bibliotube/internal/models"
	"github.com/dmitrijs2005/bibliotube/internal/store"
)

// Repository is the local video store: the shared contract plus filtered
// listing for the library screens.
type Repository interface {
	store.VideoRepository
	ListFiltered(ctx context.Context, folderID string, f models.VideoFilter) ([]models.Video, error)
}

var _ Repository = (*SQLiteRepository)(nil)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const selectVideo = `SELECT id, folderId, title, url, platform, thumbnail, description, savedDate, importance FROM videos`

type scanner interface {
	Scan(dest ...any) error
}

func scanVideo(s scanner) (models.Video, error) {
	var (
		v     models.Video
		thumb sql.NullString
	)
	if err := s.Scan(&v.ID, &v.FolderID, &v.Title, &v.URL, &v.Platform, &thumb, &v.Description, &v.SavedDate, &v.Importance); err != nil {
		return models.Video{}, err
	}
	if thumb.Valid {
		v.Thumbnail = &thumb.String
	}
	return v, nil
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (models.Video, error) {
	v, err := scanVideo(r.db.QueryRowContext(ctx, selectVideo+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Video{}, common.ErrNotFound
	}
	if err != nil {
		return models.Video{}, fmt.Errorf("get video %s: %w", id, err)
	}
	return v, nil
}

func (r *SQLiteRepository) query(ctx context.Context, q string, args ...any) ([]models.Video, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	var out []models.Video
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}
	return out, nil
}

// ListByFolder returns the folder's videos, most recently saved first.
func (r *SQLiteRepository) ListByFolder(ctx context.Context, folderID string) ([]models.Video, error) {
	return r.query(ctx, selectVideo+` WHERE folderId = ? ORDER BY savedDate DESC, id`, folderID)
}

// ListFiltered applies the platform and importance constraints of f in SQL
// and orders by f.SortBy.
func (r *SQLiteRepository) ListFiltered(ctx context.Context, folderID string, f models.VideoFilter) ([]models.Video, error) {
	var (
		sb   strings.Builder
		args = []any{folderID}
	)
	sb.WriteString(selectVideo)
	sb.WriteString(` WHERE folderId = ?`)

	if len(f.Platforms) > 0 {
		sb.WriteString(` AND platform IN (`)
		for i, p := range f.Platforms {
			if i > 0 {
				sb.WriteString(`, `)
			}
			sb.WriteString(`?`)
			args = append(args, string(p))
		}
		sb.WriteString(`)`)
	}
	if f.MinImportance > 0 {
		sb.WriteString(` AND importance >= ?`)
		args = append(args, f.MinImportance)
	}
	if f.MaxImportance > 0 {
		sb.WriteString(` AND importance <= ?`)
		args = append(args, f.MaxImportance)
	}

	switch f.SortBy {
	case models.SortOldest:
		sb.WriteString(` ORDER BY savedDate ASC, id`)
	case models.SortImportance:
		sb.WriteString(` ORDER BY importance DESC, savedDate DESC, id`)
	default:
		sb.WriteString(` ORDER BY savedDate DESC, id`)
	}

	return r.query(ctx, sb.String(), args...)
}

func (r *SQLiteRepository) Insert(ctx context.Context, v models.Video) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO videos (id, folderId, title, url, platform, thumbnail, description, savedDate, importance)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.FolderID, v.Title, v.URL, string(v.Platform), nullable(v.Thumbnail), v.Description, v.SavedDate, v.Importance)
	if err != nil {
		return fmt.Errorf("insert video %s: %w", v.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) InsertIfAbsent(ctx context.Context, v models.Video) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO videos (id, folderId, title, url, platform, thumbnail, description, savedDate, importance)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		v.ID, v.FolderID, v.Title, v.URL, string(v.Platform), nullable(v.Thumbnail), v.Description, v.SavedDate, v.Importance)
	if err != nil {
		return false, fmt.Errorf("insert video %s: %w", v.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) UpdateContent(ctx context.Context, v models.Video) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE videos SET title = ?, description = ?, thumbnail = ?, importance = ? WHERE id = ?`,
		v.Title, v.Description, nullable(v.Thumbnail), v.Importance, v.ID)
	if err != nil {
		return fmt.Errorf("update video %s: %w", v.ID, err)
	}
	return dbx.RowsAffectedOne(res, common.ErrNotFound)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM videos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete video %s: %w", id, err)
	}
	return dbx.RowsAffectedOne(res, common.ErrNotFound)
}

func (r *SQLiteRepository) DeleteByFolder(ctx context.Context, folderID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM videos WHERE folderId = ?`, folderID); err != nil {
		return fmt.Errorf("delete videos of folder %s: %w", folderID, err)
	}
	return nil
}
