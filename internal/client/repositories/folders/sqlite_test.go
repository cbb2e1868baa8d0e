package folders

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/bibliotube/internal/client/storage"
	"github.com/dmitrijs2005/bibliotube/internal/common"
	"github.com/dmitrijs2005/bibliotube/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := storage.Open(context.Background(), storage.DSN(filepath.Join(t.TempDir(), "folders.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestInsertGetList(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, models.Folder{ID: "f1", UserID: "u1", Name: "Music", Color: "#ff0000", CreatedDate: 100}))
	require.NoError(t, r.Insert(ctx, models.Folder{ID: "f2", UserID: "u1", Name: "Cooking", Color: "#00ff00", CreatedDate: 200}))
	require.NoError(t, r.Insert(ctx, models.Folder{ID: "f3", UserID: "u2", Name: "Other", Color: "#000000", CreatedDate: 300}))

	f, err := r.Get(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, models.Folder{ID: "f1", UserID: "u1", Name: "Music", Color: "#ff0000", CreatedDate: 100}, f)

	list, err := r.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "f2", list[0].ID)
	assert.Equal(t, "f1", list[1].ID)

	require.Error(t, r.Insert(ctx, models.Folder{ID: "f1", UserID: "u1", Name: "dup"}))
}

func TestGet_NotFound(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	_, err := r.Get(context.Background(), "nope")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestInsertIfAbsent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	ok, err := r.InsertIfAbsent(ctx, models.Folder{ID: "f1", UserID: "u1", Name: "Local", Color: "#111111", CreatedDate: 1})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.InsertIfAbsent(ctx, models.Folder{ID: "f1", UserID: "u1", Name: "Remote", Color: "#222222", CreatedDate: 2})
	require.NoError(t, err)
	assert.False(t, ok)

	f, err := r.Get(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, "Local", f.Name)
}

func TestUpdateDelete(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, models.Folder{ID: "f1", UserID: "u1", Name: "A", Color: "#111111", CreatedDate: 1}))
	require.NoError(t, r.Update(ctx, models.Folder{ID: "f1", Name: "B", Color: "#222222"}))

	f, err := r.Get(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, "B", f.Name)
	assert.Equal(t, "#222222", f.Color)
	assert.Equal(t, "u1", f.UserID)

	require.ErrorIs(t, r.Update(ctx, models.Folder{ID: "missing", Name: "x"}), common.ErrNotFound)

	require.NoError(t, r.Delete(ctx, "f1"))
	require.ErrorIs(t, r.Delete(ctx, "f1"), common.ErrNotFound)
}
