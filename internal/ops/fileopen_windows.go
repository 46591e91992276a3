//go:build windows

package ops

import "os"

// openFileNoFollow opens a file for writing. O_NOFOLLOW has no Windows
// equivalent; writeFileAtomic still refuses to rename onto a symlink.
func openFileNoFollow(path string, flag int, perm os.FileMode) (*os.File, error) {
	return os.OpenFile(path, flag, perm)
}
