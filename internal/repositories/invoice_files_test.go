package repositories

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirFileStore(t *testing.T) {
	dir := t.TempDir()
	store := DirFileStore{Dir: dir}

	require.NoError(t, store.Write("12345.pdf", []byte("%PDF-1.4 test")))
	assert.True(t, store.Exists("12345.pdf"))
	assert.False(t, store.Exists("99999.pdf"))

	b, err := store.Read("12345.pdf")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 test", string(b))

	_, err = store.Read("99999.pdf")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestDirFileStoreRejectsTraversal(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "invoices")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "secret.pdf"), []byte("x"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub.pdf"), 0o755))

	store := DirFileStore{Dir: dir}
	assert.False(t, store.Exists("../secret.pdf"))
	assert.False(t, store.Exists("sub.pdf"), "directories are not invoice files")

	_, err := store.Read("../secret.pdf")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Error(t, store.Write("a/b.pdf", nil))
}
