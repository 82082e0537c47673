//go:build linux && !posix_libc

package imp

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// EABI system call numbers for the wide and time64 entry points.
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
	sysFstatfs64   = 267
	sysFadvise64   = 270 // arm_fadvise64_64
	sysFstatat64   = 327
	sysFallocate   = 352

	sysNanosleep      = 162
	sysClockGettime   = 263
	sysClockGetres    = 264
	sysClockNanosleep = 265
	sysUtimensat      = 348
	sysTimerfdSettime = 353
	sysTimerfdGettime = 354

	sysClockGettime64   = 403
	sysClockGetres64    = 406
	sysClockNanosleep64 = 407
	sysTimerfdGettime64 = 410
	sysTimerfdSettime64 = 411
	sysUtimensat64      = 412
	sysPpoll64          = 414
)

// The EABI places 64-bit arguments in an even/odd register pair, so a pad
// word is inserted wherever the preceding arguments leave an odd register.

func pread64(nr uintptr, fd int32, buf unsafe.Pointer, n uintptr, off uint64) (uintptr, unix.Errno) {
	r, _, e := unix.Syscall6(nr, uintptr(fd), uintptr(buf), n, 0, uintptr(off), uintptr(off>>32))
	return r, e
}

func ftruncate64(fd int32, length uint64) unix.Errno {
	_, _, e := unix.Syscall6(sysFtruncate64, uintptr(fd), 0, uintptr(length), uintptr(length>>32), 0, 0)
	return e
}

// arm_fadvise64_64 moves advice ahead of the offsets so that no pad is needed.
func fadvise64(fd int32, off, length uint64, advice int32) unix.Errno {
	_, _, e := unix.Syscall6(sysFadvise64, uintptr(fd), uintptr(advice), uintptr(off), uintptr(off>>32), uintptr(length), uintptr(length>>32))
	return e
}
