//go:build linux && !posix_libc

package imp

import (
	"golang.org/x/sys/unix"

	"github.com/opencontainers/posix/errno"
)

// The result decoders turn the (r1, errno) pair of a raw system call into a
// Go value and an error. A zero errno always means success: the kernel
// reports failure only through the -4095..-1 range, which unix.Syscall has
// already split out.

func ret(e unix.Errno) error {
	if e != 0 {
		return errno.FromSyscall(e)
	}
	return nil
}

func retInt(r uintptr, e unix.Errno) (int, error) {
	if e != 0 {
		return 0, errno.FromSyscall(e)
	}
	return int(r), nil
}

func retFd(r uintptr, e unix.Errno) (int32, error) {
	if e != 0 {
		return -1, errno.FromSyscall(e)
	}
	return int32(r), nil
}

func retUint32(r uintptr, e unix.Errno) (uint32, error) {
	if e != 0 {
		return 0, errno.FromSyscall(e)
	}
	return uint32(r), nil
}

// splitOffset splits a 64-bit file offset into the (pos_l, pos_h) pair taken
// by preadv/pwritev and friends. The kernel reassembles it as
// pos_h<<32<<32 | pos_l on 64-bit targets, so the same split works there.
func splitOffset(off uint64) (lo, hi uintptr) {
	return uintptr(off), uintptr(off >> 32)
}
