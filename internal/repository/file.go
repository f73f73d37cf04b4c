package repository

import (
	"context"

	"filevault/internal/model"
)

// FileRepository defines data access for file records using SQL queries only.
// No business logic here; ownership checks belong to the service layer.
type FileRepository interface {
	// Create inserts a new file record and returns the stored row.
	Create(ctx context.Context, f *model.File) (*model.File, error)

	// FindByID returns a file record by its ID regardless of owner.
	FindByID(ctx context.Context, id string) (*model.File, error)

	// ListByOwner returns one page of the owner's records, newest first, and the owner's total count.
	ListByOwner(ctx context.Context, ownerID string, pq PageQuery) (*PageResult[model.File], error)

	// Update overwrites every metadata column of the record with f.ID owned by f.OwnerID.
	// Returns sql.ErrNoRows if no such record exists.
	Update(ctx context.Context, f *model.File) (*model.File, error)

	// Delete removes a record by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error

	// ExistsByStoragePath reports whether any record references the blob key.
	ExistsByStoragePath(ctx context.Context, path string) (bool, error)
}
