package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filevault/internal/model"
	"filevault/internal/repository"
)

var fileCols = []string{"id", "owner_id", "name", "extension", "mime_type", "size", "upload_date", "storage_path"}

func sampleFile(now time.Time) *model.File {
	return &model.File{
		ID:          "f-1",
		OwnerID:     "u-1",
		Name:        "scan.pdf",
		Extension:   ".pdf",
		MimeType:    "application/pdf",
		Size:        123,
		UploadDate:  now,
		StoragePath: "files/u-1/1-abc-scan.pdf",
	}
}

func fileRow(f *model.File) *sqlmock.Rows {
	return sqlmock.NewRows(fileCols).
		AddRow(f.ID, f.OwnerID, f.Name, f.Extension, f.MimeType, f.Size, f.UploadDate, f.StoragePath)
}

func TestFilePostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewFilePostgres(db)
	f := sampleFile(time.Now().UTC())

	mock.ExpectQuery("INSERT INTO files").
		WithArgs(f.ID, f.OwnerID, f.Name, f.Extension, f.MimeType, f.Size, f.UploadDate, f.StoragePath).
		WillReturnRows(fileRow(f))

	got, err := repo.Create(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, f, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFilePostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewFilePostgres(db)
	ctx := context.Background()
	f := sampleFile(time.Now())

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM files WHERE id = ").
			WithArgs(f.ID).
			WillReturnRows(fileRow(f))

		got, err := repo.FindByID(ctx, f.ID)
		require.NoError(t, err)
		assert.Equal(t, f.StoragePath, got.StoragePath)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM files WHERE id = ").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		got, err := repo.FindByID(ctx, "missing")
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, got)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFilePostgres_ListByOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewFilePostgres(db)
	f := sampleFile(time.Now())

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM files WHERE owner_id = ").
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))
	mock.ExpectQuery("SELECT (.+) FROM files WHERE owner_id = (.+) ORDER BY upload_date DESC").
		WithArgs("u-1", 10, 10).
		WillReturnRows(fileRow(f))

	res, err := repo.ListByOwner(context.Background(), "u-1", repository.PageQuery{Limit: 10, Offset: 10})
	require.NoError(t, err)
	assert.Equal(t, 11, res.Total)
	assert.Len(t, res.Items, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFilePostgres_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewFilePostgres(db)
	ctx := context.Background()
	f := sampleFile(time.Now())

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("UPDATE files SET (.+) WHERE id = (.+) AND owner_id = ").
			WithArgs(f.Name, f.Extension, f.MimeType, f.Size, f.UploadDate, f.StoragePath, f.ID, f.OwnerID).
			WillReturnRows(fileRow(f))

		got, err := repo.Update(ctx, f)
		require.NoError(t, err)
		assert.Equal(t, f.ID, got.ID)
	})

	t.Run("no matching row", func(t *testing.T) {
		mock.ExpectQuery("UPDATE files SET").
			WillReturnRows(sqlmock.NewRows(fileCols))

		_, err := repo.Update(ctx, f)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFilePostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewFilePostgres(db)

	mock.ExpectExec("DELETE FROM files WHERE id = ").
		WithArgs("f-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Delete(context.Background(), "f-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFilePostgres_ExistsByStoragePath(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewFilePostgres(db)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("files/u-1/a").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.ExistsByStoragePath(context.Background(), "files/u-1/a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
