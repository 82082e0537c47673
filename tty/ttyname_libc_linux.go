//go:build linux && cgo && posix_libc

package tty

import (
	"errors"
	"os"

	"github.com/opencontainers/posix/errno"
	"github.com/opencontainers/posix/fd"
	"github.com/opencontainers/posix/internal/imp"
)

// Ttyname returns the path of the terminal f refers to, reusing reuse's
// storage when it is large enough. It is ttyname_r, retried with a doubled
// buffer on ERANGE.
func Ttyname(f fd.AsFd, reuse []byte) ([]byte, error) {
	buf := reuse[:0]
	size := 256
	for {
		if cap(buf) < size {
			buf = make([]byte, size)
		} else {
			buf = buf[:size]
		}
		n, err := imp.Ttyname(raw(f), buf)
		if errors.Is(err, errno.ERANGE) {
			size *= 2
			continue
		}
		if err != nil {
			return nil, os.NewSyscallError("ttyname_r", err)
		}
		return buf[:n], nil
	}
}
