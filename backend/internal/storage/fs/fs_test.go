package fs

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/itchan-dev/bloghub/shared/domain"
	"github.com/itchan-dev/bloghub/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func upload(name, content string) *domain.Upload {
	return &domain.Upload{Filename: name, Size: int64(len(content)), Data: strings.NewReader(content)}
}

func TestNew(t *testing.T) {
	t.Run("creates nested directories", func(t *testing.T) {
		nestedPath := filepath.Join(t.TempDir(), "a", "b", "c")

		storage, err := New(nestedPath)

		require.NoError(t, err)
		_, err = os.Stat(nestedPath)
		assert.NoError(t, err)
		assert.Equal(t, nestedPath, storage.rootPath)
	})

	t.Run("cleans root path", func(t *testing.T) {
		tmpDir := t.TempDir()

		storage, err := New(filepath.Join(tmpDir, "media", "..", "media"))

		require.NoError(t, err)
		assert.Equal(t, filepath.Join(tmpDir, "media"), storage.rootPath)
	})
}

func TestSave(t *testing.T) {
	t.Run("saves content under generated name", func(t *testing.T) {
		storage, err := New(t.TempDir())
		require.NoError(t, err)

		name, err := storage.Save(upload("Photo.JPG", "jpeg bytes"))

		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(name, ".jpg"))
		assert.NotContains(t, name, "Photo")
		saved, err := os.ReadFile(filepath.Join(storage.rootPath, name))
		require.NoError(t, err)
		assert.Equal(t, "jpeg bytes", string(saved))
	})

	t.Run("generates unique names", func(t *testing.T) {
		storage, err := New(t.TempDir())
		require.NoError(t, err)

		first, err := storage.Save(upload("a.png", "x"))
		require.NoError(t, err)
		second, err := storage.Save(upload("a.png", "x"))
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})

	t.Run("client path is ignored", func(t *testing.T) {
		storage, err := New(t.TempDir())
		require.NoError(t, err)

		name, err := storage.Save(upload("../../etc/passwd.png", "x"))

		require.NoError(t, err)
		assert.NotContains(t, name, "/")
		_, err = os.Stat(filepath.Join(storage.rootPath, name))
		assert.NoError(t, err)
	})

	t.Run("nil upload", func(t *testing.T) {
		storage, err := New(t.TempDir())
		require.NoError(t, err)

		_, err = storage.Save(nil)
		assert.Error(t, err)
	})
}

func TestRead(t *testing.T) {
	storage, err := New(t.TempDir())
	require.NoError(t, err)
	name, err := storage.Save(upload("a.gif", "gif data"))
	require.NoError(t, err)

	t.Run("existing file", func(t *testing.T) {
		rc, err := storage.Read(name)
		require.NoError(t, err)
		defer rc.Close()

		var buf bytes.Buffer
		_, err = io.Copy(&buf, rc)
		require.NoError(t, err)
		assert.Equal(t, "gif data", buf.String())
	})

	t.Run("unknown file", func(t *testing.T) {
		_, err := storage.Read("missing.png")
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("path traversal", func(t *testing.T) {
		outside := filepath.Join(filepath.Dir(storage.rootPath), "secret.txt")
		require.NoError(t, os.WriteFile(outside, []byte("secret"), 0600))

		for _, bad := range []string{"../secret.txt", `..\secret.txt`, "..", ""} {
			_, err := storage.Read(bad)
			assert.True(t, errors.IsNotFound(err), bad)
		}
	})
}

func TestDelete(t *testing.T) {
	storage, err := New(t.TempDir())
	require.NoError(t, err)
	name, err := storage.Save(upload("a.png", "x"))
	require.NoError(t, err)

	require.NoError(t, storage.Delete(name))
	_, err = os.Stat(filepath.Join(storage.rootPath, name))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, storage.Delete(name), "deleting twice is fine")
	assert.True(t, errors.IsNotFound(storage.Delete("../x")))
}
