//go:build linux && !posix_libc

package tty

import (
	"os"
	"strconv"

	"github.com/opencontainers/posix/errno"
	"github.com/opencontainers/posix/fd"
	"github.com/opencontainers/posix/fs"
	"github.com/opencontainers/posix/internal/imp"
	"github.com/opencontainers/posix/procfs"
)

// Ttyname returns the path of the terminal f refers to, reusing reuse's
// storage when it is large enough. The name is read from the validated
// /proc/<pid>/fd directory and then checked against f itself: a terminal
// whose path does not resolve to the same device and inode from this mount
// namespace fails with ENODEV.
func Ttyname(f fd.AsFd, reuse []byte) ([]byte, error) {
	n := raw(f)
	if _, err := imp.IoctlTiocgwinsz(n); err != nil {
		return nil, os.NewSyscallError("ttyname", err)
	}
	dir, err := procfs.SelfFd()
	if err != nil {
		return nil, err
	}
	name, err := fs.Readlinkat(dir, strconv.Itoa(int(n)), reuse)
	if err != nil {
		return nil, err
	}
	want, err := fs.Fstat(f)
	if err != nil {
		return nil, err
	}
	got, err := fs.Statat(fs.Cwd(), name, 0)
	if err != nil || got.Dev != want.Dev || got.Ino != want.Ino {
		return nil, os.NewSyscallError("ttyname", errno.ENODEV)
	}
	return name, nil
}
