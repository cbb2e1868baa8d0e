// Package reminders persists video reminders in the local database.
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

var _ store.ReminderRepository = (*SQLiteRepository)(nil)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const selectReminder = `SELECT id, videoId, time, frequency, dayOfWeek, intervalDays, isActive FROM reminders`

type scanner interface {
	Scan(dest ...any) error
}

func scanReminder(s scanner) (models.Reminder, error) {
	var (
		rem      models.Reminder
		dow, ivl sql.NullInt64
		active   int
	)
	if err := s.Scan(&rem.ID, &rem.VideoID, &rem.Time, &rem.Frequency, &dow, &ivl, &active); err != nil {
		return models.Reminder{}, err
	}
	if dow.Valid {
		rem.DayOfWeek = models.IntPtr(int(dow.Int64))
	}
	if ivl.Valid {
		rem.IntervalDays = models.IntPtr(int(ivl.Int64))
	}
	rem.IsActive = active != 0
	return rem, nil
}

func nullInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (models.Reminder, error) {
	rem, err := scanReminder(r.db.QueryRowContext(ctx, selectReminder+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Reminder{}, common.ErrNotFound
	}
	if err != nil {
		return models.Reminder{}, fmt.Errorf("get reminder %s: %w", id, err)
	}
	return rem, nil
}

func (r *SQLiteRepository) ListByVideo(ctx context.Context, videoID string) ([]models.Reminder, error) {
	rows, err := r.db.QueryContext(ctx, selectReminder+` WHERE videoId = ? ORDER BY time, id`, videoID)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	defer rows.Close()

	var out []models.Reminder
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		out = append(out, rem)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reminders: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) Insert(ctx context.Context, rem models.Reminder) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reminders (id, videoId, time, frequency, dayOfWeek, intervalDays, isActive)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rem.ID, rem.VideoID, rem.Time, string(rem.Frequency), nullInt(rem.DayOfWeek), nullInt(rem.IntervalDays), boolInt(rem.IsActive))
	if err != nil {
		return fmt.Errorf("insert reminder %s: %w", rem.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) InsertIfAbsent(ctx context.Context, rem models.Reminder) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO reminders (id, videoId, time, frequency, dayOfWeek, intervalDays, isActive)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		rem.ID, rem.VideoID, rem.Time, string(rem.Frequency), nullInt(rem.DayOfWeek), nullInt(rem.IntervalDays), boolInt(rem.IsActive))
	if err != nil {
		return false, fmt.Errorf("insert reminder %s: %w", rem.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE reminders SET isActive = ? WHERE id = ?`, boolInt(active), id)
	if err != nil {
		return fmt.Errorf("update reminder %s: %w", id, err)
	}
	return dbx.RowsAffectedOne(res, common.ErrNotFound)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete reminder %s: %w", id, err)
	}
	return dbx.RowsAffectedOne(res, common.ErrNotFound)
}

func (r *SQLiteRepository) DeleteByVideo(ctx context.Context, videoID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM reminders WHERE videoId = ?`, videoID); err != nil {
		return fmt.Errorf("delete reminders of video %s: %w", videoID, err)
	}
	return nil
}
