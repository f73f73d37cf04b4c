package postgres

import (
	"context"
	"database/sql"

	"filevault/internal/model"
	"filevault/internal/repository"
)

// FilePostgres is a PostgreSQL implementation of repository.FileRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type FilePostgres struct {
	db *sql.DB
}

// NewFilePostgres creates a new FilePostgres repository.
func NewFilePostgres(db *sql.DB) *FilePostgres {
	return &FilePostgres{db: db}
}

var _ repository.FileRepository = (*FilePostgres)(nil)

const fileColumns = `id, owner_id, name, extension, mime_type, size, upload_date, storage_path`

type scanner interface {
	Scan(dest ...any) error
}

// Create inserts a new file row and returns the stored record.
func (r *FilePostgres) Create(ctx context.Context, f *model.File) (*model.File, error) {
	const q = `
		INSERT INTO files (id, owner_id, name, extension, mime_type, size, upload_date, storage_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + fileColumns
	row := r.db.QueryRowContext(ctx, q,
		f.ID,
		f.OwnerID,
		f.Name,
		f.Extension,
		f.MimeType,
		f.Size,
		f.UploadDate,
		f.StoragePath,
	)
	return scanFile(row)
}

// FindByID fetches a single file record by its ID.
func (r *FilePostgres) FindByID(ctx context.Context, id string) (*model.File, error) {
	const q = `SELECT ` + fileColumns + ` FROM files WHERE id = $1`
	return scanFile(r.db.QueryRowContext(ctx, q, id))
}

// ListByOwner returns the owner's records using LIMIT/OFFSET pagination and a total count.
func (r *FilePostgres) ListByOwner(ctx context.Context, ownerID string, pq repository.PageQuery) (*repository.PageResult[model.File], error) {
	const qCount = `SELECT COUNT(*) FROM files WHERE owner_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, ownerID).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + fileColumns + `
		FROM files
		WHERE owner_id = $1
		ORDER BY upload_date DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, qList, ownerID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.File, 0)
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.File]{
		Items: items,
		Total: total,
	}, nil
}

// Update overwrites the record's metadata in place.
func (r *FilePostgres) Update(ctx context.Context, f *model.File) (*model.File, error) {
	const q = `
		UPDATE files
		SET name = $1, extension = $2, mime_type = $3, size = $4, upload_date = $5, storage_path = $6
		WHERE id = $7 AND owner_id = $8
		RETURNING ` + fileColumns
	row := r.db.QueryRowContext(ctx, q,
		f.Name,
		f.Extension,
		f.MimeType,
		f.Size,
		f.UploadDate,
		f.StoragePath,
		f.ID,
		f.OwnerID,
	)
	return scanFile(row)
}

// Delete removes a file record by ID. It does not return an error if the row does not exist.
func (r *FilePostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM files WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// ExistsByStoragePath reports whether a record points at the blob key.
func (r *FilePostgres) ExistsByStoragePath(ctx context.Context, path string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM files WHERE storage_path = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, path).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func scanFile(s scanner) (*model.File, error) {
	var f model.File
	if err := s.Scan(
		&f.ID,
		&f.OwnerID,
		&f.Name,
		&f.Extension,
		&f.MimeType,
		&f.Size,
		&f.UploadDate,
		&f.StoragePath,
	); err != nil {
		return nil, err
	}
	return &f, nil
}
