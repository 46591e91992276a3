package ops

import (
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/runlog/internal/errors"
)

// writeFileAtomic replaces path with data. The content goes to a sibling
// temp file first, so a failed write leaves the previous file untouched.
// A symlink at path is followed and its target is replaced.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	path, err := resolveLinks(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to create directory: %w", err))
	}

	tempPath := path + "." + newTempID() + ".tmp"
	file, err := openFileNoFollow(tempPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, perm)
	if err != nil {
		return errors.NewInternal(fmt.Errorf("failed to create temp file: %w", err))
	}

	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	if _, err := file.Write(data); err != nil {
		return errors.NewInternal(err)
	}
	if err := file.Sync(); err != nil {
		return errors.NewInternal(err)
	}
	if err := file.Close(); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to close temp file: %w", err))
	}
	file = nil

	// A link swapped in after resolveLinks would be replaced, not followed.
	if info, err := os.Lstat(path); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return errors.NewInvalidRequest(fmt.Sprintf("refusing to replace symlink %s", path))
	}

	if err := os.Rename(tempPath, path); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to finalize %s: %w", filepath.Base(path), err))
	}

	success = true
	return nil
}

// maxLinkHops bounds symlink resolution in resolveLinks.
const maxLinkHops = 40

// resolveLinks follows symlinks at path until it names a non-link, which may
// not exist yet.
func resolveLinks(path string) (string, error) {
	for range maxLinkHops {
		info, err := os.Lstat(path)
		if err != nil || info.Mode()&os.ModeSymlink == 0 {
			return path, nil
		}
		dest, err := os.Readlink(path)
		if err != nil {
			return "", errors.NewInternal(fmt.Errorf("failed to read link %s: %w", path, err))
		}
		if !filepath.IsAbs(dest) {
			dest = filepath.Join(filepath.Dir(path), dest)
		}
		path = dest
	}
	return "", errors.NewInvalidRequest(fmt.Sprintf("too many levels of symlinks: %s", path))
}

func newTempID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
