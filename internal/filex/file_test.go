package filex

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

func TestEnsureDir_CreatesRelativeToCWD(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	got, err := EnsureDir("uploads")
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(filepath.Join(tmp, "uploads"))
	require.NoError(t, err)
	gotResolved, err := filepath.EvalSymlinks(got)
	require.NoError(t, err)
	require.Equal(t, want, gotResolved)

	fi, err := os.Stat(got)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm()&0o700)
	}
}

func TestEnsureDir_Idempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	first, err := EnsureDir(dir)
	require.NoError(t, err)
	second, err := EnsureDir(dir)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestEnsureDir_FailsIfFileWithSameNameExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uploads")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o660))

	_, err := EnsureDir(path)
	require.Error(t, err)
}

func TestWriteNew_WritesContent(t *testing.T) {
	dir := t.TempDir()

	path, n, err := WriteNew(dir, "a.png", strings.NewReader("image-bytes"))
	require.NoError(t, err)
	require.Equal(t, int64(len("image-bytes")), n)
	require.Equal(t, filepath.Join(dir, "a.png"), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "image-bytes", string(b))
}

func TestWriteNew_RefusesExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dup"), []byte("old"), 0o660))

	_, _, err := WriteNew(dir, "dup", strings.NewReader("new"))
	require.Error(t, err)

	b, err := os.ReadFile(filepath.Join(dir, "dup"))
	require.NoError(t, err)
	require.Equal(t, "old", string(b), "existing file must not be overwritten")
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("read boom") }

func TestWriteNew_RemovesPartialFileOnError(t *testing.T) {
	dir := t.TempDir()

	_, _, err := WriteNew(dir, "broken", failingReader{})
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "broken"))
	require.True(t, os.IsNotExist(statErr), "partial file should be removed")
}
