package service

import (
	"context"
	"log/slog"
	"time"

	"filevault/internal/repository"
	"filevault/internal/storage"
)

// OrphanSweeper deletes blobs that no file record references. Blobs younger
// than the grace period are skipped so uploads still waiting on their record
// insert are left alone.
type OrphanSweeper struct {
	store  storage.Storage
	files  repository.FileRepository
	grace  time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// NewOrphanSweeper constructs an OrphanSweeper. A nil logger uses slog.Default().
func NewOrphanSweeper(store storage.Storage, files repository.FileRepository, grace time.Duration, logger *slog.Logger) *OrphanSweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrphanSweeper{store: store, files: files, grace: grace, logger: logger, now: time.Now}
}

// Sweep runs one reconciliation pass and returns the number of blobs removed.
func (s *OrphanSweeper) Sweep(ctx context.Context) (int, error) {
	objects, err := s.store.List(ctx, BlobPrefix)
	if err != nil {
		return 0, err
	}
	cutoff := s.now().Add(-s.grace)
	removed := 0
	for _, obj := range objects {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if obj.LastModified.After(cutoff) {
			continue
		}
		referenced, err := s.files.ExistsByStoragePath(ctx, obj.Key)
		if err != nil {
			return removed, err
		}
		if referenced {
			continue
		}
		if err := s.store.Delete(ctx, obj.Key); err != nil {
			s.logger.WarnContext(ctx, "orphan delete failed",
				slog.String("storage_path", obj.Key),
				slog.Any("error", err),
			)
			continue
		}
		removed++
	}
	return removed, nil
}

// Run sweeps every interval until ctx is cancelled.
func (s *OrphanSweeper) Run(ctx context.Context, interval time.Duration) {
	runEvery(ctx, interval, func(ctx context.Context) {
		n, err := s.Sweep(ctx)
		if err != nil {
			if ctx.Err() == nil {
				s.logger.ErrorContext(ctx, "orphan sweep failed", slog.Any("error", err))
			}
			return
		}
		if n > 0 {
			s.logger.InfoContext(ctx, "orphan sweep", slog.Int("removed", n))
		}
	})
}

// PurgeRevocations drops expired revocation entries every interval until ctx is cancelled.
func PurgeRevocations(ctx context.Context, revoked repository.RevocationRepository, interval time.Duration, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	runEvery(ctx, interval, func(ctx context.Context) {
		n, err := revoked.Purge(ctx, time.Now())
		if err != nil {
			if ctx.Err() == nil {
				logger.ErrorContext(ctx, "revocation purge failed", slog.Any("error", err))
			}
			return
		}
		if n > 0 {
			logger.DebugContext(ctx, "revocation purge", slog.Int("removed", n))
		}
	})
}

func runEvery(ctx context.Context, interval time.Duration, fn func(context.Context)) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			fn(ctx)
		}
	}
}
