// Package reminders stores video reminders in the cloud database.
package reminders

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

var _ store.ReminderRepository = (*PostgresRepository)(nil)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectReminder = `SELECT id, video_id, time, frequency, day_of_week, interval_days, is_active FROM reminders`

type scanner interface {
	Scan(dest ...any) error
}

func scanReminder(s scanner) (models.Reminder, error) {
	var (
		rem      models.Reminder
		dow, ivl sql.NullInt32
	)
	if err := s.Scan(&rem.ID, &rem.VideoID, &rem.Time, &rem.Frequency, &dow, &ivl, &rem.IsActive); err != nil {
		return models.Reminder{}, err
	}
	if dow.Valid {
		rem.DayOfWeek = models.IntPtr(int(dow.Int32))
	}
	if ivl.Valid {
		rem.IntervalDays = models.IntPtr(int(ivl.Int32))
	}
	return rem, nil
}

func nullInt(p *int) sql.NullInt32 {
	if p == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(*p), Valid: true}
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (models.Reminder, error) {
	rem, err := scanReminder(r.db.QueryRowContext(ctx, selectReminder+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Reminder{}, common.ErrNotFound
		}
		return models.Reminder{}, fmt.Errorf("db error: %w", err)
	}
	return rem, nil
}

func (r *PostgresRepository) ListByVideo(ctx context.Context, videoID string) ([]models.Reminder, error) {
	rows, err := r.db.QueryContext(ctx, selectReminder+` WHERE video_id = $1 ORDER BY time, id`, videoID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.Reminder
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		out = append(out, rem)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, rem models.Reminder) error {
	query := `INSERT INTO reminders (id, video_id, time, frequency, day_of_week, interval_days, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		rem.ID, rem.VideoID, rem.Time, string(rem.Frequency), nullInt(rem.DayOfWeek), nullInt(rem.IntervalDays), rem.IsActive)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) InsertIfAbsent(ctx context.Context, rem models.Reminder) (bool, error) {
	query := `INSERT INTO reminders (id, video_id, time, frequency, day_of_week, interval_days, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING`
	res, err := r.db.ExecContext(ctx, query,
		rem.ID, rem.VideoID, rem.Time, string(rem.Frequency), nullInt(rem.DayOfWeek), nullInt(rem.IntervalDays), rem.IsActive)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *PostgresRepository) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE reminders SET is_active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.RowsAffectedOne(res, common.ErrNotFound)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.RowsAffectedOne(res, common.ErrNotFound)
}

func (r *PostgresRepository) DeleteByVideo(ctx context.Context, videoID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM reminders WHERE video_id = $1`, videoID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
