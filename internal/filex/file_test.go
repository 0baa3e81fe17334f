package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureSubDir_CreatesDirectory(t *testing.T) {
	tmp := t.TempDir()

	got, err := EnsureSubDir(tmp, "data")
	require.NoError(t, err)

	want := filepath.Join(tmp, "data")
	require.Equal(t, want, got)

	fi, err := os.Stat(want)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm()&0o700)
	}
}

func TestEnsureSubDir_Idempotent(t *testing.T) {
	tmp := t.TempDir()

	p1, err := EnsureSubDir(tmp, "data")
	require.NoError(t, err)
	p2, err := EnsureSubDir(tmp, "data")
	require.NoError(t, err)
	require.Equal(t, p1, p2)
}

func TestEnsureSubDir_ErrorWhenParentIsFile(t *testing.T) {
	tmp := t.TempDir()
	file := filepath.Join(tmp, "plain")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	_, err := EnsureSubDir(file, "data")
	require.Error(t, err)
}

func TestReadImages_KeepsOrder(t *testing.T) {
	tmp := t.TempDir()
	a := filepath.Join(tmp, "a.png")
	b := filepath.Join(tmp, "b.png")
	require.NoError(t, os.WriteFile(a, []byte("AAA"), 0o600))
	require.NoError(t, os.WriteFile(b, []byte("BB"), 0o600))

	images, err := ReadImages([]string{b, a})
	require.NoError(t, err)
	require.Equal(t, [][]byte{[]byte("BB"), []byte("AAA")}, images)
}

func TestReadImages_Errors(t *testing.T) {
	tmp := t.TempDir()

	_, err := ReadImages([]string{filepath.Join(tmp, "missing.png")})
	require.Error(t, err)

	big := filepath.Join(tmp, "big.png")
	require.NoError(t, os.WriteFile(big, make([]byte, MaxImageSize+1), 0o600))
	_, err = ReadImages([]string{big})
	require.ErrorIs(t, err, ErrImageTooLarge)
}
