// Package folders persists folders in the local database.
package folders

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

var _ store.FolderRepository = (*SQLiteRepository)(nil)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const selectFolder = `SELECT id, userId, name, color, createdDate FROM folders`

func (r *SQLiteRepository) Get(ctx context.Context, id string) (models.Folder, error) {
	var f models.Folder
	err := r.db.QueryRowContext(ctx, selectFolder+` WHERE id = ?`, id).
		Scan(&f.ID, &f.UserID, &f.Name, &f.Color, &f.CreatedDate)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Folder{}, common.ErrNotFound
	}
	if err != nil {
		return models.Folder{}, fmt.Errorf("get folder %s: %w", id, err)
	}
	return f, nil
}

// ListByUser returns the user's folders, newest first.
func (r *SQLiteRepository) ListByUser(ctx context.Context, userID string) ([]models.Folder, error) {
	rows, err := r.db.QueryContext(ctx, selectFolder+` WHERE userId = ? ORDER BY createdDate DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	var out []models.Folder
	for rows.Next() {
		var f models.Folder
		if err := rows.Scan(&f.ID, &f.UserID, &f.Name, &f.Color, &f.CreatedDate); err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) Insert(ctx context.Context, f models.Folder) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO folders (id, userId, name, color, createdDate) VALUES (?, ?, ?, ?, ?)`,
		f.ID, f.UserID, f.Name, f.Color, f.CreatedDate)
	if err != nil {
		return fmt.Errorf("insert folder %s: %w", f.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) InsertIfAbsent(ctx context.Context, f models.Folder) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO folders (id, userId, name, color, createdDate) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		f.ID, f.UserID, f.Name, f.Color, f.CreatedDate)
	if err != nil {
		return false, fmt.Errorf("insert folder %s: %w", f.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, f models.Folder) error {
	res, err := r.db.ExecContext(ctx, `UPDATE folders SET name = ?, color = ? WHERE id = ?`, f.Name, f.Color, f.ID)
	if err != nil {
		return fmt.Errorf("update folder %s: %w", f.ID, err)
	}
	return dbx.RowsAffectedOne(res, common.ErrNotFound)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM folders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete folder %s: %w", id, err)
	}
	return dbx.RowsAffectedOne(res, common.ErrNotFound)
}
