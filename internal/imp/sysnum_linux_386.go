//go:build linux && !posix_libc

package imp

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// i386 system call numbers for the wide and time64 entry points.
const (
	sysLlseek      = 140
	sysPread64     = 180
	sysPwrite64    = 181
	sysFtruncate64 = 194
	sysFstat64     = 197
	sysGetuid32    = 199
	sysGetgid32    = 200
	sysGeteuid32   = 201
	sysGetegid32   = 202
	sysFcntl64     = 221
	sysSendfile64  = 239
	sysFstatfs64   = 269
	sysFadvise64   = 272
	sysFstatat64   = 300
	sysFallocate   = 324

	sysNanosleep      = 162
	sysClockGettime   = 265
	sysClockGetres    = 266
	sysClockNanosleep = 267
	sysUtimensat      = 320
	sysTimerfdSettime = 325
	sysTimerfdGettime = 326

	sysClockGettime64   = 403
	sysClockGetres64    = 406
	sysClockNanosleep64 = 407
	sysTimerfdGettime64 = 410
	sysTimerfdSettime64 = 411
	sysUtimensat64      = 412
	sysPpoll64          = 414
)

// i386 passes 64-bit arguments as consecutive lo/hi words with no alignment.

func pread64(nr uintptr, fd int32, buf unsafe.Pointer, n uintptr, off uint64) (uintptr, unix.Errno) {
	r, _, e := unix.Syscall6(nr, uintptr(fd), uintptr(buf), n, uintptr(off), uintptr(off>>32), 0)
	return r, e
}

func ftruncate64(fd int32, length uint64) unix.Errno {
	_, _, e := unix.Syscall(sysFtruncate64, uintptr(fd), uintptr(length), uintptr(length>>32))
	return e
}

func fadvise64(fd int32, off, length uint64, advice int32) unix.Errno {
	_, _, e := unix.Syscall6(sysFadvise64, uintptr(fd), uintptr(off), uintptr(off>>32), uintptr(length), uintptr(length>>32), uintptr(advice))
	return e
}
