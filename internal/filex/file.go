// Package filex holds small filesystem helpers used by the CLI.
package filex

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// MaxImageSize bounds a single flip image read from disk.
const MaxImageSize = 1 << 20

var ErrImageTooLarge = errors.New("image too large")

// EnsureSubDir creates base/name (0o700) when missing and returns its path.
// An empty base means the current working directory.
func EnsureSubDir(base, name string) (string, error) {
	if base == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		base = cwd
	}

	dir := filepath.Join(base, name)

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// ReadImages loads the given image files in order.
func ReadImages(paths []string) ([][]byte, error) {
	images := make([][]byte, 0, len(paths))
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if fi.Size() > MaxImageSize {
			return nil, fmt.Errorf("%s: %w", p, ErrImageTooLarge)
		}
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		images = append(images, b)
	}
	return images, nil
}
