//go:build linux && !posix_libc && (386 || arm)

package imp

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/opencontainers/posix/errno"
	"github.com/opencontainers/posix/patharg"
)

const oLargefile = unix.O_LARGEFILE

// oldTimespec is the 32-bit struct timespec of the pre-time64 calls.
type oldTimespec struct {
	Sec  int32
	Nsec int32
}

type oldItimerspec struct {
	Interval oldTimespec
	Value    oldTimespec
}

var (
	// noTime64 is set once a *_time64 call has returned ENOSYS. Kernels
	// before 5.1 lack the whole family, so one failure decides for all of them.
	noTime64     atomic.Bool
	noTime64Once sync.Once
)

func time64Unavailable(call string) {
	noTime64.Store(true)
	noTime64Once.Do(func() {
		logrus.WithField("syscall", call).Debug("time64 system calls not available, falling back to 32-bit time_t")
	})
}

func narrowTimespec(ts *Timespec) (oldTimespec, error) {
	if ts.Sec != int64(int32(ts.Sec)) || ts.Nsec != int64(int32(ts.Nsec)) {
		return oldTimespec{}, errno.EINVAL
	}
	return oldTimespec{Sec: int32(ts.Sec), Nsec: int32(ts.Nsec)}, nil
}

func widenTimespec(ts oldTimespec) Timespec {
	return Timespec{Sec: int64(ts.Sec), Nsec: int64(ts.Nsec)}
}

func narrowItimerspec(its *Itimerspec) (oldItimerspec, error) {
	interval, err := narrowTimespec(&its.Interval)
	if err != nil {
		return oldItimerspec{}, err
	}
	value, err := narrowTimespec(&its.Value)
	if err != nil {
		return oldItimerspec{}, err
	}
	return oldItimerspec{Interval: interval, Value: value}, nil
}

func widenItimerspec(its oldItimerspec) Itimerspec {
	return Itimerspec{Interval: widenTimespec(its.Interval), Value: widenTimespec(its.Value)}
}

func fcntl(fd int32, cmd int, arg uintptr) (uintptr, unix.Errno) {
	r, _, e := unix.Syscall(sysFcntl64, uintptr(fd), uintptr(cmd), arg)
	return r, e
}

func utimensat(dirfd int32, path *byte, times *[2]Timespec, flags uint32) error {
	if !noTime64.Load() {
		_, _, e := unix.Syscall6(sysUtimensat64, uintptr(dirfd), uintptr(unsafe.Pointer(path)), uintptr(unsafe.Pointer(times)), uintptr(flags), 0, 0)
		if e != unix.ENOSYS {
			return ret(e)
		}
		time64Unavailable("utimensat_time64")
	}
	var old *[2]oldTimespec
	if times != nil {
		old = new([2]oldTimespec)
		for i := range times {
			t, err := narrowTimespec(&times[i])
			if err != nil {
				return err
			}
			old[i] = t
		}
	}
	_, _, e := unix.Syscall6(sysUtimensat, uintptr(dirfd), uintptr(unsafe.Pointer(path)), uintptr(unsafe.Pointer(old)), uintptr(flags), 0, 0)
	return ret(e)
}

func Pread(fd int32, buf []byte, off uint64) (int, error) {
	return retInt(pread64(sysPread64, fd, unsafe.Pointer(unsafe.SliceData(buf)), uintptr(len(buf)), off))
}

func Pwrite(fd int32, buf []byte, off uint64) (int, error) {
	return retInt(pread64(sysPwrite64, fd, unsafe.Pointer(unsafe.SliceData(buf)), uintptr(len(buf)), off))
}

// Seek uses _llseek, whose result is written through a pointer so that the
// full 64-bit offset survives.
func Seek(fd int32, off int64, whence int32) (uint64, error) {
	var result uint64
	_, _, e := unix.Syscall6(sysLlseek, uintptr(fd), uintptr(uint64(off)>>32), uintptr(off), uintptr(unsafe.Pointer(&result)), uintptr(whence), 0)
	if e != 0 {
		return 0, errno.FromSyscall(e)
	}
	return result, nil
}

func Ftruncate(fd int32, length uint64) error {
	if int64(length) < 0 {
		return errno.EINVAL
	}
	return ret(ftruncate64(fd, length))
}

func Fallocate(fd int32, mode uint32, off, length uint64) error {
	_, _, e := unix.Syscall6(sysFallocate, uintptr(fd), uintptr(mode), uintptr(off), uintptr(off>>32), uintptr(length), uintptr(length>>32))
	return ret(e)
}

func Fadvise(fd int32, off, length uint64, advice int32) error {
	return ret(fadvise64(fd, off, length, advice))
}

func Fstat(fd int32) (Stat, error) {
	var st unix.Stat_t
	_, _, e := unix.Syscall(sysFstat64, uintptr(fd), uintptr(unsafe.Pointer(&st)), 0)
	if e != 0 {
		return Stat{}, errno.FromSyscall(e)
	}
	return statFromKernel(&st), nil
}

func Statat(dirfd int32, path patharg.CStr, flags uint32) (Stat, error) {
	var st unix.Stat_t
	_, _, e := unix.Syscall6(sysFstatat64, uintptr(dirfd), uintptr(unsafe.Pointer(path.Ptr())), uintptr(unsafe.Pointer(&st)), uintptr(flags), 0, 0)
	if e != 0 {
		return Stat{}, errno.FromSyscall(e)
	}
	return statFromKernel(&st), nil
}

func Fstatfs(fd int32) (StatFs, error) {
	var st StatFs
	_, _, e := unix.Syscall(sysFstatfs64, uintptr(fd), unsafe.Sizeof(st), uintptr(unsafe.Pointer(&st)))
	return st, ret(e)
}

func Sendfile(outFd, inFd int32, off *uint64, count uintptr) (int, error) {
	r, _, e := unix.Syscall6(sysSendfile64, uintptr(outFd), uintptr(inFd), uintptr(unsafe.Pointer(off)), count, 0, 0)
	return retInt(r, e)
}

func Getuid() uint32 {
	r, _ := unix.RawSyscallNoError(sysGetuid32, 0, 0, 0)
	return uint32(r)
}

func Geteuid() uint32 {
	r, _ := unix.RawSyscallNoError(sysGeteuid32, 0, 0, 0)
	return uint32(r)
}

func Getgid() uint32 {
	r, _ := unix.RawSyscallNoError(sysGetgid32, 0, 0, 0)
	return uint32(r)
}

func Getegid() uint32 {
	r, _ := unix.RawSyscallNoError(sysGetegid32, 0, 0, 0)
	return uint32(r)
}

func clockGet(nr64, nr uintptr, name string, id int32) (Timespec, error) {
	if !noTime64.Load() {
		var ts Timespec
		_, _, e := unix.RawSyscall(nr64, uintptr(id), uintptr(unsafe.Pointer(&ts)), 0)
		if e != unix.ENOSYS {
			return ts, ret(e)
		}
		time64Unavailable(name)
	}
	var old oldTimespec
	_, _, e := unix.RawSyscall(nr, uintptr(id), uintptr(unsafe.Pointer(&old)), 0)
	if e != 0 {
		return Timespec{}, errno.FromSyscall(e)
	}
	return widenTimespec(old), nil
}

func ClockGettime(id int32) (Timespec, error) {
	return clockGet(sysClockGettime64, sysClockGettime, "clock_gettime64", id)
}

func ClockGetres(id int32) (Timespec, error) {
	return clockGet(sysClockGetres64, sysClockGetres, "clock_getres_time64", id)
}

func ClockNanosleep(id int32, flags uint32, req *Timespec) NanosleepRelativeResult {
	if !noTime64.Load() {
		var rem Timespec
		_, _, e := unix.Syscall6(sysClockNanosleep64, uintptr(id), uintptr(flags), uintptr(unsafe.Pointer(req)), uintptr(unsafe.Pointer(&rem)), 0, 0)
		if e != unix.ENOSYS {
			return sleepResult(e, rem)
		}
		time64Unavailable("clock_nanosleep_time64")
	}
	oldReq, err := narrowTimespec(req)
	if err != nil {
		return NanosleepRelativeResult{Err: err}
	}
	var oldRem oldTimespec
	_, _, e := unix.Syscall6(sysClockNanosleep, uintptr(id), uintptr(flags), uintptr(unsafe.Pointer(&oldReq)), uintptr(unsafe.Pointer(&oldRem)), 0, 0)
	return sleepResult(e, widenTimespec(oldRem))
}

// Nanosleep goes through clock_nanosleep on CLOCK_MONOTONIC, which is the
// clock nanosleep(2) measures against, so that the time64 variant is used
// when available.
func Nanosleep(req *Timespec) NanosleepRelativeResult {
	return ClockNanosleep(unix.CLOCK_MONOTONIC, 0, req)
}

func TimerfdSettime(fd int32, flags uint32, newValue *Itimerspec) (Itimerspec, error) {
	if !noTime64.Load() {
		var old Itimerspec
		_, _, e := unix.Syscall6(sysTimerfdSettime64, uintptr(fd), uintptr(flags), uintptr(unsafe.Pointer(newValue)), uintptr(unsafe.Pointer(&old)), 0, 0)
		if e != unix.ENOSYS {
			return old, ret(e)
		}
		time64Unavailable("timerfd_settime64")
	}
	narrow, err := narrowItimerspec(newValue)
	if err != nil {
		return Itimerspec{}, err
	}
	var old oldItimerspec
	_, _, e := unix.Syscall6(sysTimerfdSettime, uintptr(fd), uintptr(flags), uintptr(unsafe.Pointer(&narrow)), uintptr(unsafe.Pointer(&old)), 0, 0)
	if e != 0 {
		return Itimerspec{}, errno.FromSyscall(e)
	}
	return widenItimerspec(old), nil
}

func TimerfdGettime(fd int32) (Itimerspec, error) {
	if !noTime64.Load() {
		var cur Itimerspec
		_, _, e := unix.RawSyscall(sysTimerfdGettime64, uintptr(fd), uintptr(unsafe.Pointer(&cur)), 0)
		if e != unix.ENOSYS {
			return cur, ret(e)
		}
		time64Unavailable("timerfd_gettime64")
	}
	var cur oldItimerspec
	_, _, e := unix.RawSyscall(sysTimerfdGettime, uintptr(fd), uintptr(unsafe.Pointer(&cur)), 0)
	if e != 0 {
		return Itimerspec{}, errno.FromSyscall(e)
	}
	return widenItimerspec(cur), nil
}

func Poll(fds []PollFd, timeoutMs int32) (int, error) {
	ts := timeoutToTimespec(timeoutMs)
	if !noTime64.Load() {
		r, _, e := unix.Syscall6(sysPpoll64, uintptr(unsafe.Pointer(unsafe.SliceData(fds))), uintptr(len(fds)), uintptr(unsafe.Pointer(ts)), 0, 0, 0)
		if e != unix.ENOSYS {
			return retInt(r, e)
		}
		time64Unavailable("ppoll_time64")
	}
	var old *oldTimespec
	if ts != nil {
		// A millisecond int32 timeout always fits.
		o, _ := narrowTimespec(ts)
		old = &o
	}
	r, _, e := unix.Syscall6(unix.SYS_PPOLL, uintptr(unsafe.Pointer(unsafe.SliceData(fds))), uintptr(len(fds)), uintptr(unsafe.Pointer(old)), 0, 0, 0)
	return retInt(r, e)
}
