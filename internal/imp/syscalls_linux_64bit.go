//go:build linux && !posix_libc && (amd64 || arm64)

package imp

import (
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/opencontainers/posix/errno"
	"github.com/opencontainers/posix/patharg"
)

// On 64-bit targets off_t, time_t and uid_t calls are already wide, so
// O_LARGEFILE is implied by the kernel.
const oLargefile = 0

func fcntl(fd int32, cmd int, arg uintptr) (uintptr, unix.Errno) {
	r, _, e := unix.Syscall(unix.SYS_FCNTL, uintptr(fd), uintptr(cmd), arg)
	return r, e
}

func utimensat(dirfd int32, path *byte, times *[2]Timespec, flags uint32) error {
	_, _, e := unix.Syscall6(unix.SYS_UTIMENSAT, uintptr(dirfd), uintptr(unsafe.Pointer(path)), uintptr(unsafe.Pointer(times)), uintptr(flags), 0, 0)
	return ret(e)
}

func Pread(fd int32, buf []byte, off uint64) (int, error) {
	r, _, e := unix.Syscall6(unix.SYS_PREAD64, uintptr(fd), uintptr(unsafe.Pointer(unsafe.SliceData(buf))), uintptr(len(buf)), uintptr(off), 0, 0)
	return retInt(r, e)
}

func Pwrite(fd int32, buf []byte, off uint64) (int, error) {
	r, _, e := unix.Syscall6(unix.SYS_PWRITE64, uintptr(fd), uintptr(unsafe.Pointer(unsafe.SliceData(buf))), uintptr(len(buf)), uintptr(off), 0, 0)
	return retInt(r, e)
}

func Seek(fd int32, off int64, whence int32) (uint64, error) {
	r, _, e := unix.Syscall(unix.SYS_LSEEK, uintptr(fd), uintptr(off), uintptr(whence))
	if e != 0 {
		return 0, errno.FromSyscall(e)
	}
	return uint64(r), nil
}

func Ftruncate(fd int32, length uint64) error {
	if int64(length) < 0 {
		return errno.EINVAL
	}
	_, _, e := unix.Syscall(unix.SYS_FTRUNCATE, uintptr(fd), uintptr(length), 0)
	return ret(e)
}

func Fallocate(fd int32, mode uint32, off, length uint64) error {
	_, _, e := unix.Syscall6(unix.SYS_FALLOCATE, uintptr(fd), uintptr(mode), uintptr(off), uintptr(length), 0, 0)
	return ret(e)
}

func Fadvise(fd int32, off, length uint64, advice int32) error {
	_, _, e := unix.Syscall6(unix.SYS_FADVISE64, uintptr(fd), uintptr(off), uintptr(length), uintptr(advice), 0, 0)
	return ret(e)
}

func Fstat(fd int32) (Stat, error) {
	var st unix.Stat_t
	_, _, e := unix.Syscall(unix.SYS_FSTAT, uintptr(fd), uintptr(unsafe.Pointer(&st)), 0)
	if e != 0 {
		return Stat{}, errno.FromSyscall(e)
	}
	return statFromKernel(&st), nil
}

func Statat(dirfd int32, path patharg.CStr, flags uint32) (Stat, error) {
	var st unix.Stat_t
	_, _, e := unix.Syscall6(sysFstatat, uintptr(dirfd), uintptr(unsafe.Pointer(path.Ptr())), uintptr(unsafe.Pointer(&st)), uintptr(flags), 0, 0)
	if e != 0 {
		return Stat{}, errno.FromSyscall(e)
	}
	return statFromKernel(&st), nil
}

func Fstatfs(fd int32) (StatFs, error) {
	var st StatFs
	_, _, e := unix.Syscall(unix.SYS_FSTATFS, uintptr(fd), uintptr(unsafe.Pointer(&st)), 0)
	return st, ret(e)
}

func Sendfile(outFd, inFd int32, off *uint64, count uintptr) (int, error) {
	r, _, e := unix.Syscall6(unix.SYS_SENDFILE, uintptr(outFd), uintptr(inFd), uintptr(unsafe.Pointer(off)), count, 0, 0)
	return retInt(r, e)
}

func Getuid() uint32 {
	r, _ := unix.RawSyscallNoError(unix.SYS_GETUID, 0, 0, 0)
	return uint32(r)
}

func Geteuid() uint32 {
	r, _ := unix.RawSyscallNoError(unix.SYS_GETEUID, 0, 0, 0)
	return uint32(r)
}

func Getgid() uint32 {
	r, _ := unix.RawSyscallNoError(unix.SYS_GETGID, 0, 0, 0)
	return uint32(r)
}

func Getegid() uint32 {
	r, _ := unix.RawSyscallNoError(unix.SYS_GETEGID, 0, 0, 0)
	return uint32(r)
}

func ClockGettime(id int32) (Timespec, error) {
	var ts Timespec
	_, _, e := unix.RawSyscall(unix.SYS_CLOCK_GETTIME, uintptr(id), uintptr(unsafe.Pointer(&ts)), 0)
	return ts, ret(e)
}

func ClockGetres(id int32) (Timespec, error) {
	var ts Timespec
	_, _, e := unix.RawSyscall(unix.SYS_CLOCK_GETRES, uintptr(id), uintptr(unsafe.Pointer(&ts)), 0)
	return ts, ret(e)
}

// ClockNanosleep sleeps on the given clock. The remaining time is only
// written for an interrupted relative sleep.
func ClockNanosleep(id int32, flags uint32, req *Timespec) NanosleepRelativeResult {
	var rem Timespec
	_, _, e := unix.Syscall6(unix.SYS_CLOCK_NANOSLEEP, uintptr(id), uintptr(flags), uintptr(unsafe.Pointer(req)), uintptr(unsafe.Pointer(&rem)), 0, 0)
	return sleepResult(e, rem)
}

func Nanosleep(req *Timespec) NanosleepRelativeResult {
	var rem Timespec
	_, _, e := unix.Syscall(unix.SYS_NANOSLEEP, uintptr(unsafe.Pointer(req)), uintptr(unsafe.Pointer(&rem)), 0)
	return sleepResult(e, rem)
}

func TimerfdSettime(fd int32, flags uint32, newValue *Itimerspec) (Itimerspec, error) {
	var old Itimerspec
	_, _, e := unix.Syscall6(unix.SYS_TIMERFD_SETTIME, uintptr(fd), uintptr(flags), uintptr(unsafe.Pointer(newValue)), uintptr(unsafe.Pointer(&old)), 0, 0)
	return old, ret(e)
}

func TimerfdGettime(fd int32) (Itimerspec, error) {
	var cur Itimerspec
	_, _, e := unix.RawSyscall(unix.SYS_TIMERFD_GETTIME, uintptr(fd), uintptr(unsafe.Pointer(&cur)), 0)
	return cur, ret(e)
}

func Poll(fds []PollFd, timeoutMs int32) (int, error) {
	ts := timeoutToTimespec(timeoutMs)
	r, _, e := unix.Syscall6(unix.SYS_PPOLL, uintptr(unsafe.Pointer(unsafe.SliceData(fds))), uintptr(len(fds)), uintptr(unsafe.Pointer(ts)), 0, 0, 0)
	return retInt(r, e)
}
