package storage

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	st := NewLocalFs(afero.NewMemMapFs())

	info, err := st.Put(ctx, "files/u-1/1-abc-report.pdf", strings.NewReader("%PDF-1.7"), PutObjectOptions{
		Size:        8,
		ContentType: "application/pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, "files/u-1/1-abc-report.pdf", info.Key)
	assert.Equal(t, int64(8), info.Size)
	assert.Equal(t, "application/pdf", info.ContentType)

	rc, got, err := st.Get(ctx, "files/u-1/1-abc-report.pdf")
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "%PDF-1.7", string(body))
	assert.Equal(t, int64(8), got.Size)

	require.NoError(t, st.Delete(ctx, "files/u-1/1-abc-report.pdf"))
	_, _, err = st.Get(ctx, "files/u-1/1-abc-report.pdf")
	assert.ErrorIs(t, err, ErrObjectNotFound)

	// Deleting again is not an error.
	assert.NoError(t, st.Delete(ctx, "files/u-1/1-abc-report.pdf"))
}

func TestLocalStorage_GetMissing(t *testing.T) {
	st := NewLocalFs(afero.NewMemMapFs())

	_, _, err := st.Get(context.Background(), "files/nobody/none.png")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestLocalStorage_PutOverwrites(t *testing.T) {
	ctx := context.Background()
	st := NewLocalFs(afero.NewMemMapFs())

	_, err := st.Put(ctx, "files/a", bytes.NewReader([]byte("one")), PutObjectOptions{Size: 3})
	require.NoError(t, err)
	_, err = st.Put(ctx, "files/a", bytes.NewReader([]byte("second")), PutObjectOptions{Size: 6})
	require.NoError(t, err)

	rc, _, err := st.Get(ctx, "files/a")
	require.NoError(t, err)
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	assert.Equal(t, "second", string(body))
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	ctx := context.Background()
	st := NewLocalFs(afero.NewMemMapFs())

	for _, key := range []string{"", "/etc/passwd", "../secret", "files/../../x", "a\\b"} {
		_, err := st.Put(ctx, key, strings.NewReader("x"), PutObjectOptions{Size: 1})
		assert.ErrorIs(t, err, ErrInvalidKey, key)
	}
}

func TestLocalStorage_List(t *testing.T) {
	ctx := context.Background()
	st := NewLocalFs(afero.NewMemMapFs())

	for _, key := range []string{"files/u-1/a.png", "files/u-2/b.pdf", "other/c.txt"} {
		_, err := st.Put(ctx, key, strings.NewReader("x"), PutObjectOptions{Size: 1})
		require.NoError(t, err)
	}

	objs, err := st.List(ctx, "files/")
	require.NoError(t, err)

	keys := make([]string, 0, len(objs))
	for _, o := range objs {
		keys = append(keys, o.Key)
	}
	assert.ElementsMatch(t, []string{"files/u-1/a.png", "files/u-2/b.pdf"}, keys)

	objs, err = st.List(ctx, "missing/")
	require.NoError(t, err)
	assert.Empty(t, objs)
}

func TestCleanKey(t *testing.T) {
	got, err := CleanKey("files//u-1/./a.png")
	require.NoError(t, err)
	assert.Equal(t, "files/u-1/a.png", got)

	_, err = CleanKey("..")
	assert.ErrorIs(t, err, ErrInvalidKey)
}
