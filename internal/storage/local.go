package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

const partialSuffix = ".part"

// localStorage keeps blobs as plain files under a root directory.
// Writes go to a temporary sibling and are renamed into place, so readers
// never observe a half-written blob.
type localStorage struct {
	fs afero.Fs
}

// NewLocal creates a Storage rooted at dir, creating the directory if needed.
// Keys cannot escape dir.
func NewLocal(dir string) (Storage, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage dir is required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return NewLocalFs(afero.NewBasePathFs(afero.NewOsFs(), dir)), nil
}

// NewLocalFs wraps an existing afero filesystem; tests pass afero.NewMemMapFs().
func NewLocalFs(fsys afero.Fs) Storage {
	return &localStorage{fs: fsys}
}

func (l *localStorage) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	key, err := CleanKey(key)
	if err != nil {
		return ObjectInfo{}, err
	}
	if err := ctx.Err(); err != nil {
		return ObjectInfo{}, err
	}
	name := filepath.FromSlash(key)
	if err := l.fs.MkdirAll(filepath.Dir(name), 0o750); err != nil {
		return ObjectInfo{}, fmt.Errorf("create dir: %w", err)
	}

	tmp := name + "." + uuid.NewString()[:8] + partialSuffix
	f, err := l.fs.OpenFile(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o640)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("create blob: %w", err)
	}
	n, copyErr := io.Copy(f, r)
	closeErr := f.Close()
	if copyErr != nil || closeErr != nil {
		_ = l.fs.Remove(tmp)
		if copyErr != nil {
			return ObjectInfo{}, fmt.Errorf("write blob: %w", copyErr)
		}
		return ObjectInfo{}, fmt.Errorf("close blob: %w", closeErr)
	}
	if err := l.fs.Rename(tmp, name); err != nil {
		_ = l.fs.Remove(tmp)
		return ObjectInfo{}, fmt.Errorf("commit blob: %w", err)
	}

	st, err := l.fs.Stat(name)
	if err != nil {
		return ObjectInfo{}, err
	}
	return ObjectInfo{
		Key:          key,
		Size:         n,
		ContentType:  opt.ContentType,
		LastModified: st.ModTime(),
		Metadata:     opt.Metadata,
	}, nil
}

func (l *localStorage) Get(_ context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	key, err := CleanKey(key)
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	f, err := l.fs.Open(filepath.FromSlash(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ObjectInfo{}, ErrObjectNotFound
		}
		return nil, ObjectInfo{}, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ObjectInfo{}, err
	}
	if st.IsDir() {
		f.Close()
		return nil, ObjectInfo{}, ErrObjectNotFound
	}
	return f, ObjectInfo{Key: key, Size: st.Size(), LastModified: st.ModTime()}, nil
}

func (l *localStorage) Delete(_ context.Context, key string) error {
	key, err := CleanKey(key)
	if err != nil {
		return err
	}
	err = l.fs.Remove(filepath.FromSlash(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (l *localStorage) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	out := make([]ObjectInfo, 0)
	// Walk from the deepest directory named by the prefix, then filter by the full prefix.
	root := "."
	if prefix != "" {
		if i := strings.LastIndex(prefix, "/"); i > 0 {
			root = filepath.FromSlash(prefix[:i])
		}
	}
	err := afero.Walk(l.fs, root, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if info.IsDir() || strings.HasSuffix(p, partialSuffix) {
			return nil
		}
		key := path.Clean(filepath.ToSlash(p))
		if !strings.HasPrefix(key, prefix) {
			return nil
		}
		out = append(out, ObjectInfo{Key: key, Size: info.Size(), LastModified: info.ModTime()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
