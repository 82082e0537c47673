package clock

import (
	"encoding/binary"
	"os"

	"golang.org/x/sys/unix"

	"github.com/opencontainers/posix/errno"
	"github.com/opencontainers/posix/fd"
	"github.com/opencontainers/posix/internal/imp"
)

// TimerfdFlags are the flags accepted by TimerfdCreate.
type TimerfdFlags uint32

const (
	TimerfdCloexec  TimerfdFlags = unix.TFD_CLOEXEC
	TimerfdNonblock TimerfdFlags = unix.TFD_NONBLOCK
)

// TimerfdTimerFlags are the flags accepted by TimerfdSettime.
type TimerfdTimerFlags uint32

const (
	TimerfdTimerAbstime     TimerfdTimerFlags = unix.TFD_TIMER_ABSTIME
	TimerfdTimerCancelOnSet TimerfdTimerFlags = unix.TFD_TIMER_CANCEL_ON_SET
)

// TimerfdCreate creates a timer that delivers expirations through a file
// descriptor.
func TimerfdCreate(id ClockID, flags TimerfdFlags) (*fd.OwnedFd, error) {
	n, err := imp.TimerfdCreate(int32(id), uint32(flags))
	if err != nil {
		return nil, os.NewSyscallError("timerfd_create", err)
	}
	return fd.FromRaw(int(n)), nil
}

// TimerfdSettime arms (or, with a zero Value, disarms) the timer and returns
// the previous setting. A nil newValue is EFAULT, as the kernel reports for a
// null pointer.
func TimerfdSettime(f fd.AsFd, flags TimerfdTimerFlags, newValue *Itimerspec) (Itimerspec, error) {
	if newValue == nil {
		return Itimerspec{}, os.NewSyscallError("timerfd_settime", errno.EFAULT)
	}
	if !validItimerspec(newValue) {
		return Itimerspec{}, os.NewSyscallError("timerfd_settime", errno.EINVAL)
	}
	old, err := imp.TimerfdSettime(int32(f.AsFd().Raw()), uint32(flags), newValue)
	return old, os.NewSyscallError("timerfd_settime", err)
}

// TimerfdGettime returns the interval and the time until the next expiration.
func TimerfdGettime(f fd.AsFd) (Itimerspec, error) {
	cur, err := imp.TimerfdGettime(int32(f.AsFd().Raw()))
	return cur, os.NewSyscallError("timerfd_gettime", err)
}

// TimerfdRead waits for the timer (unless it is non-blocking) and returns the
// number of expirations since the last read.
func TimerfdRead(f fd.AsFd) (uint64, error) {
	var buf [8]byte
	n, err := fd.Read(f, buf[:])
	if err != nil {
		return 0, err
	}
	if n != len(buf) {
		return 0, os.NewSyscallError("read", errno.EIO)
	}
	return binary.NativeEndian.Uint64(buf[:]), nil
}
