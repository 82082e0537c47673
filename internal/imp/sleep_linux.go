//go:build linux && !posix_libc

package imp

import (
	"golang.org/x/sys/unix"

	"github.com/opencontainers/posix/errno"
)

func sleepResult(e unix.Errno, rem Timespec) NanosleepRelativeResult {
	switch e {
	case 0:
		return NanosleepRelativeResult{}
	case unix.EINTR:
		return NanosleepRelativeResult{Interrupted: true, Remaining: rem}
	}
	return NanosleepRelativeResult{Err: errno.FromSyscall(e)}
}
