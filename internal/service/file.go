package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"filevault/internal/model"
	"filevault/internal/repository"
	"filevault/internal/storage"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100

	// BlobPrefix is the key prefix under which every uploaded blob lives.
	BlobPrefix = "files/"
)

// allowedTypes are the only content types accepted for upload.
var allowedTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"application/pdf": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// extensionTypes covers the allowed types regardless of the host's mime tables.
var extensionTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// FileUpload is one uploaded part as received from the client.
type FileUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// FileListResult is one page of the caller's files.
type FileListResult struct {
	Items      []model.File
	Total      int
	TotalPages int
	Page       int
	PageSize   int
}

// FileService defines the ownership-scoped use cases for stored files.
type FileService interface {
	// Upload stores the content, then its record. The blob is removed again if the record cannot be saved.
	Upload(ctx context.Context, ownerID string, in FileUpload) (*model.File, error)

	// List returns the owner's files newest first. page is 1-based.
	List(ctx context.Context, ownerID string, page, pageSize int) (*FileListResult, error)

	Get(ctx context.Context, ownerID, fileID string) (*model.File, error)

	// Download returns the record and a reader over its content. The caller closes the reader.
	Download(ctx context.Context, ownerID, fileID string) (*model.File, io.ReadCloser, error)

	// Update replaces the content and metadata of an existing file.
	Update(ctx context.Context, ownerID, fileID string, in FileUpload) (*model.File, error)

	Delete(ctx context.Context, ownerID, fileID string) error
}

type fileService struct {
	store  storage.Storage
	repo   repository.FileRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewFileService constructs a FileService. A nil logger uses slog.Default().
func NewFileService(store storage.Storage, repo repository.FileRepository, logger *slog.Logger) FileService {
	if logger == nil {
		logger = slog.Default()
	}
	return &fileService{store: store, repo: repo, logger: logger, now: time.Now}
}

func (s *fileService) Upload(ctx context.Context, ownerID string, in FileUpload) (*model.File, error) {
	mimeType, err := validateUpload(in)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	obj, err := s.put(ctx, ownerID, in, mimeType, now)
	if err != nil {
		return nil, err
	}

	stored, err := s.repo.Create(ctx, &model.File{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        in.Filename,
		Extension:   filepath.Ext(in.Filename),
		MimeType:    mimeType,
		Size:        obj.Size,
		UploadDate:  now,
		StoragePath: obj.Key,
	})
	if err != nil {
		if delErr := s.store.Delete(ctx, obj.Key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

func (s *fileService) List(ctx context.Context, ownerID string, page, pageSize int) (*FileListResult, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	res, err := s.repo.ListByOwner(ctx, ownerID, repository.PageQuery{
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	})
	if err != nil {
		return nil, err
	}
	return &FileListResult{
		Items:      res.Items,
		Total:      res.Total,
		TotalPages: (res.Total + pageSize - 1) / pageSize,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

func (s *fileService) Get(ctx context.Context, ownerID, fileID string) (*model.File, error) {
	if _, err := uuid.Parse(fileID); err != nil {
		return nil, ErrFileNotFound
	}
	f, err := s.repo.FindByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	if f.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return f, nil
}

func (s *fileService) Download(ctx context.Context, ownerID, fileID string) (*model.File, io.ReadCloser, error) {
	f, err := s.Get(ctx, ownerID, fileID)
	if err != nil {
		return nil, nil, err
	}
	rc, _, err := s.store.Get(ctx, f.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			s.logger.ErrorContext(ctx, "file content missing",
				slog.String("file_id", f.ID),
				slog.String("storage_path", f.StoragePath),
			)
			return nil, nil, ErrFileContentMissing
		}
		return nil, nil, fmt.Errorf("read storage: %w", err)
	}
	return f, rc, nil
}

func (s *fileService) Update(ctx context.Context, ownerID, fileID string, in FileUpload) (*model.File, error) {
	cur, err := s.Get(ctx, ownerID, fileID)
	if err != nil {
		return nil, err
	}
	mimeType, err := validateUpload(in)
	if err != nil {
		return nil, err
	}

	// New content goes under a new key; the record only switches over once it is durable.
	now := s.now().UTC()
	obj, err := s.put(ctx, ownerID, in, mimeType, now)
	if err != nil {
		return nil, err
	}

	next := *cur
	next.Name = in.Filename
	next.Extension = filepath.Ext(in.Filename)
	next.MimeType = mimeType
	next.Size = obj.Size
	next.UploadDate = now
	next.StoragePath = obj.Key

	updated, err := s.repo.Update(ctx, &next)
	if err != nil {
		if delErr := s.store.Delete(ctx, obj.Key); delErr != nil {
			s.logger.WarnContext(ctx, "rollback delete failed",
				slog.String("storage_path", obj.Key),
				slog.Any("error", delErr),
			)
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("db update failed: %w", err)
	}

	if err := s.store.Delete(ctx, cur.StoragePath); err != nil {
		s.logger.WarnContext(ctx, "old content not deleted",
			slog.String("file_id", cur.ID),
			slog.String("storage_path", cur.StoragePath),
			slog.Any("error", err),
		)
	}
	return updated, nil
}

func (s *fileService) Delete(ctx context.Context, ownerID, fileID string) error {
	f, err := s.Get(ctx, ownerID, fileID)
	if err != nil {
		return err
	}
	// A blob left behind here is reclaimed by the orphan sweeper.
	if err := s.store.Delete(ctx, f.StoragePath); err != nil {
		s.logger.WarnContext(ctx, "delete storage failed",
			slog.String("file_id", f.ID),
			slog.String("storage_path", f.StoragePath),
			slog.Any("error", err),
		)
	}
	return s.repo.Delete(ctx, f.ID)
}

func (s *fileService) put(ctx context.Context, ownerID string, in FileUpload, mimeType string, now time.Time) (storage.ObjectInfo, error) {
	key := blobKey(ownerID, in.Filename, now)
	obj, err := s.store.Put(ctx, key, in.Body, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: mimeType,
		Metadata: map[string]string{
			"original-filename": in.Filename,
		},
	})
	if err != nil {
		return storage.ObjectInfo{}, fmt.Errorf("upload to storage: %w", err)
	}
	if obj.Key == "" {
		obj.Key = key
	}
	return obj, nil
}

func validateUpload(in FileUpload) (string, error) {
	if in.Body == nil || strings.TrimSpace(in.Filename) == "" {
		return "", ErrFileRequired
	}
	mimeType := detectType(in.ContentType, in.Filename)
	if !allowedTypes[mimeType] {
		return "", ErrUnsupportedType
	}
	return mimeType, nil
}

// detectType prefers the declared part type and falls back to the extension.
func detectType(declared, filename string) string {
	if declared != "" {
		if mt, _, err := mime.ParseMediaType(declared); err == nil && mt != "application/octet-stream" {
			return mt
		}
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if mt, ok := extensionTypes[ext]; ok {
		return mt
	}
	if mt, _, err := mime.ParseMediaType(mime.TypeByExtension(ext)); err == nil {
		return mt
	}
	return ""
}

// blobKey builds files/<owner>/<unix ms>-<8 hex>-<base name>.
func blobKey(ownerID, filename string, now time.Time) string {
	return fmt.Sprintf("%s%s/%d-%s-%s", BlobPrefix, ownerID, now.UnixMilli(), uuid.NewString()[:8], sanitizeName(filename))
}

func sanitizeName(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), ".")
	if out == "" {
		return "file"
	}
	return out
}
