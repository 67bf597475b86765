package merge

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ansel1/merry/v2"

	"mkvmux/models"
)

// expandHome replaces a leading "~" with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// requireFile returns ErrNotFound unless path is an existing regular file.
func requireFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return merry.Wrap(models.ErrNotFound, merry.WithMessagef("file %s does not exist", path))
	}
	if info.IsDir() {
		return merry.Wrap(models.ErrNotFound, merry.WithMessagef("%s is a directory, not a file", path))
	}
	return nil
}
