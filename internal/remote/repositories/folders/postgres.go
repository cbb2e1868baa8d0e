// Package folders stores folders in the cloud database.
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

var _ store.FolderRepository = (*PostgresRepository)(nil)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (models.Folder, error) {
	query := `SELECT id, user_id, name, color, created_at FROM folders WHERE id = $1`

	var f models.Folder
	err := r.db.QueryRowContext(ctx, query, id).Scan(&f.ID, &f.UserID, &f.Name, &f.Color, &f.CreatedDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Folder{}, common.ErrNotFound
		}
		return models.Folder{}, fmt.Errorf("db error: %w", err)
	}
	return f, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]models.Folder, error) {
	query := `SELECT id, user_id, name, color, created_at FROM folders WHERE user_id = $1 ORDER BY created_at DESC, id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.Folder
	for rows.Next() {
		var f models.Folder
		if err := rows.Scan(&f.ID, &f.UserID, &f.Name, &f.Color, &f.CreatedDate); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, f models.Folder) error {
	query := `INSERT INTO folders (id, user_id, name, color, created_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.ExecContext(ctx, query, f.ID, f.UserID, f.Name, f.Color, f.CreatedDate); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) InsertIfAbsent(ctx context.Context, f models.Folder) (bool, error) {
	query := `INSERT INTO folders (id, user_id, name, color, created_at) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING`
	res, err := r.db.ExecContext(ctx, query, f.ID, f.UserID, f.Name, f.Color, f.CreatedDate)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *PostgresRepository) Update(ctx context.Context, f models.Folder) error {
	res, err := r.db.ExecContext(ctx, `UPDATE folders SET name = $1, color = $2 WHERE id = $3`, f.Name, f.Color, f.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.RowsAffectedOne(res, common.ErrNotFound)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM folders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.RowsAffectedOne(res, common.ErrNotFound)
}
