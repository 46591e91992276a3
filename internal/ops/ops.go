package ops

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hpungsan/runlog/internal/errors"
)

// MaxRecentLimit caps the number of entries a recent listing may request.
const MaxRecentLimit = 100

// resolveRoot returns root as an absolute path. An empty root means the
// process working directory.
func resolveRoot(root string) (string, error) {
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", errors.NewInternal(fmt.Errorf("failed to get working directory: %w", err))
		}
		return wd, nil
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", errors.NewInvalidRequest(fmt.Sprintf("invalid root: %v", err))
	}
	return abs, nil
}

// RepoName is the name recorded for a repository rooted at root.
func RepoName(root string) string {
	return filepath.Base(filepath.Clean(root))
}

// nowOr returns t, or the current time when t is zero.
func nowOr(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}

// windowCutoff is the oldest modification time still inside a window of
// days ending at now.
func windowCutoff(now time.Time, days int) time.Time {
	return now.Add(-time.Duration(days) * 24 * time.Hour)
}
