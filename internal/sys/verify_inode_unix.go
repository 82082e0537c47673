package sys

import (
	"fmt"

	"github.com/opencontainers/posix/fd"
	"github.com/opencontainers/posix/fs"
)

// VerifyInodeFunc is the callback passed to [VerifyInode] to check if the
// inode is the expected type (and on the correct filesystem type, in the case
// of filesystem-specific inodes).
type VerifyInodeFunc func(stat *fs.Stat, statfs *fs.StatFs) error

// VerifyInode verifies that the underlying inode for the given descriptor
// matches an expected inode type (possibly on a particular kind of
// filesystem). It returns the stat result so that callers can keep it.
func VerifyInode(f fd.AsFd, checkFunc VerifyInodeFunc) (fs.Stat, error) {
	stat, err := fs.Fstat(f)
	if err != nil {
		return fs.Stat{}, fmt.Errorf("fstat %v: %w", f.AsFd(), err)
	}
	statfs, err := fs.Fstatfs(f)
	if err != nil {
		return fs.Stat{}, fmt.Errorf("fstatfs %v: %w", f.AsFd(), err)
	}
	if err := checkFunc(&stat, &statfs); err != nil {
		return fs.Stat{}, err
	}
	return stat, nil
}
