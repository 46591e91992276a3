package ops

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/hpungsan/runlog/internal/config"
	"github.com/hpungsan/runlog/internal/errors"
	"github.com/hpungsan/runlog/internal/logging"
)

// Found is a record file located by Discover.
type Found struct {
	Path    string    `json:"path"` // absolute
	ModTime time.Time `json:"mtime"`
}

// Discover returns the record files under the run directory of root whose
// modification time is at or after cutoff, newest first.
//
// A missing or unusable run directory yields an empty result. Files that
// disappear between listing and stat are skipped.
func Discover(ctx context.Context, cfg *config.Config, root string, cutoff time.Time) ([]Found, error) {
	logger := logging.From(ctx)

	root, err := resolveRoot(root)
	if err != nil {
		return nil, err
	}
	runDir := cfg.RunDirIn(root)

	info, err := os.Stat(runDir)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			logger.Debug("run directory absent", "dir", runDir)
		} else {
			logger.Warn("run directory unusable, treating as empty", "dir", runDir, "error", err)
		}
		return nil, nil
	}
	if !info.IsDir() {
		logger.Warn("run directory is not a directory", "dir", runDir)
		return nil, nil
	}

	matches, err := doublestar.Glob(os.DirFS(runDir), cfg.RecordPattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("invalid record_pattern %q: %v", cfg.RecordPattern, err))
	}
	slices.Sort(matches)

	found := make([]Found, 0, len(matches))
	for _, m := range matches {
		select {
		case <-ctx.Done():
			return nil, errors.NewCancelled("discover")
		default:
		}

		path := filepath.Join(runDir, filepath.FromSlash(m))
		info, err := os.Stat(path)
		if err != nil {
			if stderrors.Is(err, fs.ErrNotExist) {
				logger.Debug("record vanished before stat", "path", path)
			} else {
				logger.Warn("cannot stat record", "path", path, "error", err)
			}
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		if info.ModTime().Before(cutoff) {
			continue
		}
		found = append(found, Found{Path: path, ModTime: info.ModTime()})
	}

	slices.SortStableFunc(found, func(a, b Found) int {
		return b.ModTime.Compare(a.ModTime)
	})
	return found, nil
}
