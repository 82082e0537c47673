//go:build linux && !posix_libc

package imp

import "golang.org/x/sys/unix"

const sysFstatat = unix.SYS_NEWFSTATAT
