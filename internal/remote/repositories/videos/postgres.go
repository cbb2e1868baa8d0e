// Package videos stores saved videos in the cloud database.
package videos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/bibliotube/internal/common"
	"github.com/dmitrijs2005/bibliotube/internal/dbx"
	"github.com/dmitrijs2005/bibliotube/internal/models"
	"github.com/dmitrijs2005/bibliotube/internal/store"
)

var _ store.VideoRepository = (*PostgresRepository)(nil)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectVideo = `SELECT id, folder_id, title, url, platform, thumbnail, description, saved_at, importance FROM videos`

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

func thumbArg(v models.Video) sql.NullString {
	if v.Thumbnail == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v.Thumbnail, Valid: true}
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (models.Video, error) {
	v, err := scanVideo(r.db.QueryRowContext(ctx, selectVideo+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Video{}, common.ErrNotFound
		}
		return models.Video{}, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}

func (r *PostgresRepository) ListByFolder(ctx context.Context, folderID string) ([]models.Video, error) {
	rows, err := r.db.QueryContext(ctx, selectVideo+` WHERE folder_id = $1 ORDER BY saved_at DESC, id`, folderID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.Video
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, v models.Video) error {
	query := `INSERT INTO videos (id, folder_id, title, url, platform, thumbnail, description, saved_at, importance)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query,
		v.ID, v.FolderID, v.Title, v.URL, string(v.Platform), thumbArg(v), v.Description, v.SavedDate, v.Importance)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) InsertIfAbsent(ctx context.Context, v models.Video) (bool, error) {
	query := `INSERT INTO videos (id, folder_id, title, url, platform, thumbnail, description, saved_at, importance)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING`
	res, err := r.db.ExecContext(ctx, query,
		v.ID, v.FolderID, v.Title, v.URL, string(v.Platform), thumbArg(v), v.Description, v.SavedDate, v.Importance)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *PostgresRepository) UpdateContent(ctx context.Context, v models.Video) error {
	query := `UPDATE videos SET title = $1, description = $2, thumbnail = $3, importance = $4 WHERE id = $5`
	res, err := r.db.ExecContext(ctx, query, v.Title, v.Description, thumbArg(v), v.Importance, v.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.RowsAffectedOne(res, common.ErrNotFound)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.RowsAffectedOne(res, common.ErrNotFound)
}

func (r *PostgresRepository) DeleteByFolder(ctx context.Context, folderID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM videos WHERE folder_id = $1`, folderID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
