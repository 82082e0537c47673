//go:build linux && !posix_libc

package imp

// newfstatat from the generic syscall table.
const sysFstatat = 79
