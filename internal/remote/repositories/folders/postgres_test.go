package folders

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/bibliotube/internal/common"
	"github.com/dmitrijs2005/bibliotube/internal/models"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

var cols = []string{"id", "user_id", "name", "color", "created_at"}

func TestGet(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	q := `(?s)^SELECT\s+id,\s*user_id,\s*name,\s*color,\s*created_at\s+FROM\s+folders\s+WHERE\s+id\s*=\s*\$1$`

	mock.ExpectQuery(q).WithArgs("f1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("f1", "u1", "Music", "#ff0000", int64(1700000000000)))
	f, err := repo.Get(context.Background(), "f1")
	require.NoError(t, err)
	require.Equal(t, models.Folder{ID: "f1", UserID: "u1", Name: "Music", Color: "#ff0000", CreatedDate: 1700000000000}, f)

	mock.ExpectQuery(q).WithArgs("nope").WillReturnError(sql.ErrNoRows)
	_, err = repo.Get(context.Background(), "nope")
	require.ErrorIs(t, err, common.ErrNotFound)

	mock.ExpectQuery(q).WithArgs("f1").WillReturnError(errors.New("conn reset"))
	_, err = repo.Get(context.Background(), "f1")
	require.ErrorContains(t, err, "db error: conn reset")
}

func TestListByUser(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	q := `(?s)^SELECT\s+.*\s+FROM\s+folders\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s+DESC,\s*id$`

	mock.ExpectQuery(q).WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("f2", "u1", "B", "#000000", int64(2)).
			AddRow("f1", "u1", "A", "#000000", int64(1)))

	list, err := repo.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "f2", list[0].ID)
}

func TestInsertIfAbsent(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	q := `(?s)^INSERT\s+INTO\s+folders\s*\(id,\s*user_id,\s*name,\s*color,\s*created_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*ON\s+CONFLICT\s*\(id\)\s*DO\s+NOTHING$`
	f := models.Folder{ID: "f1", UserID: "u1", Name: "A", Color: "#6366f1", CreatedDate: 5}

	mock.ExpectExec(q).WithArgs("f1", "u1", "A", "#6366f1", int64(5)).WillReturnResult(sqlmock.NewResult(0, 1))
	ok, err := repo.InsertIfAbsent(context.Background(), f)
	require.NoError(t, err)
	require.True(t, ok)

	mock.ExpectExec(q).WillReturnResult(sqlmock.NewResult(0, 0))
	ok, err = repo.InsertIfAbsent(context.Background(), f)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestInsertUpdateDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	ctx := context.Background()

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+folders\s*\(.*\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)$`).
		WithArgs("f1", "u1", "A", "#111111", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Insert(ctx, models.Folder{ID: "f1", UserID: "u1", Name: "A", Color: "#111111", CreatedDate: 1}))

	upd := `(?s)^UPDATE\s+folders\s+SET\s+name\s*=\s*\$1,\s*color\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$3$`
	mock.ExpectExec(upd).WithArgs("B", "#222222", "f1").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Update(ctx, models.Folder{ID: "f1", Name: "B", Color: "#222222"}))

	mock.ExpectExec(upd).WithArgs("B", "#222222", "ghost").WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, repo.Update(ctx, models.Folder{ID: "ghost", Name: "B", Color: "#222222"}), common.ErrNotFound)

	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+folders\s+WHERE\s+id\s*=\s*\$1$`).WithArgs("f1").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(ctx, "f1"))

	require.NoError(t, mock.ExpectationsWereMet())
}
