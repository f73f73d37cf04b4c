package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"filevault/internal/model"
	"filevault/internal/repository/memory"
	repoMocks "filevault/internal/repository/mocks"
	"filevault/internal/storage"
	storeMocks "filevault/internal/storage/mocks"
)

func TestOrphanSweeper_Sweep(t *testing.T) {
	ctx := context.Background()
	store := storage.NewLocalFs(afero.NewMemMapFs())
	files := newFakeFiles()

	put := func(key string) {
		_, err := store.Put(ctx, key, strings.NewReader("x"), storage.PutObjectOptions{})
		require.NoError(t, err)
	}
	put("files/u1/1-aaaaaaaa-kept.pdf")
	put("files/u1/2-bbbbbbbb-orphan.pdf")
	put("other/unrelated.bin")
	_, err := files.Create(ctx, &model.File{ID: "f1", OwnerID: "u1", StoragePath: "files/u1/1-aaaaaaaa-kept.pdf"})
	require.NoError(t, err)

	sw := NewOrphanSweeper(store, files, time.Hour, nil)

	// Everything is younger than the grace period.
	n, err := sw.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	sw.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	n, err = sw.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, _, err = store.Get(ctx, "files/u1/1-aaaaaaaa-kept.pdf")
	assert.NoError(t, err)
	_, _, err = store.Get(ctx, "files/u1/2-bbbbbbbb-orphan.pdf")
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)
	_, _, err = store.Get(ctx, "other/unrelated.bin")
	assert.NoError(t, err)
}

func TestOrphanSweeper_Errors(t *testing.T) {
	ctx := context.Background()
	old := time.Now().Add(-48 * time.Hour)

	t.Run("list failure", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mStore.On("List", ctx, BlobPrefix).Return(nil, errors.New("list fail"))

		_, err := NewOrphanSweeper(mStore, nil, time.Hour, nil).Sweep(ctx)
		assert.Error(t, err)
	})

	t.Run("lookup failure stops the pass", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockFileRepository)
		mStore.On("List", ctx, BlobPrefix).Return([]storage.ObjectInfo{{Key: "files/a", LastModified: old}}, nil)
		mRepo.On("ExistsByStoragePath", ctx, "files/a").Return(false, errors.New("db fail"))

		_, err := NewOrphanSweeper(mStore, mRepo, time.Hour, nil).Sweep(ctx)
		assert.Error(t, err)
		mStore.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("delete failure is skipped", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockFileRepository)
		mStore.On("List", ctx, BlobPrefix).Return([]storage.ObjectInfo{
			{Key: "files/a", LastModified: old},
			{Key: "files/b", LastModified: old},
		}, nil)
		mRepo.On("ExistsByStoragePath", ctx, mock.Anything).Return(false, nil)
		mStore.On("Delete", ctx, "files/a").Return(errors.New("busy"))
		mStore.On("Delete", ctx, "files/b").Return(nil)

		n, err := NewOrphanSweeper(mStore, mRepo, time.Hour, nil).Sweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}

func TestOrphanSweeper_RunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	mStore := new(storeMocks.MockStorage)
	mStore.On("List", mock.Anything, BlobPrefix).Return([]storage.ObjectInfo{}, nil)

	done := make(chan struct{})
	go func() {
		NewOrphanSweeper(mStore, nil, time.Hour, nil).Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
	mStore.AssertCalled(t, "List", mock.Anything, BlobPrefix)
}

func TestPurgeRevocations(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	revoked := memory.NewRevocations()
	require.NoError(t, revoked.Revoke(ctx, "expired", time.Now().Add(-time.Minute)))
	require.NoError(t, revoked.Revoke(ctx, "live", time.Now().Add(time.Hour)))

	done := make(chan struct{})
	go func() {
		PurgeRevocations(ctx, revoked, 5*time.Millisecond, nil)
		close(done)
	}()

	assert.Eventually(t, func() bool { return revoked.Len() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	live, err := revoked.IsRevoked(context.Background(), "live")
	require.NoError(t, err)
	assert.True(t, live)
}

func TestRunEvery_DisabledInterval(t *testing.T) {
	called := false
	runEvery(context.Background(), 0, func(context.Context) { called = true })
	assert.False(t, called)
}
