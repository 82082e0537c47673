// Package clock provides the clock, sleep and timerfd system calls.
//
// All times use [Timespec], which has 64-bit seconds on every target; on
// 32-bit targets the values are narrowed for kernels without the time64
// calls, and a value that does not fit fails with EINVAL.
package clock

import (
	"os"
	"strconv"
	"time"

	"golang.org/x/sys/unix"

	"github.com/opencontainers/posix/errno"
	"github.com/opencontainers/posix/internal/imp"
)

type (
	// Timespec is a seconds and nanoseconds pair. Nsec must be in [0, 1e9).
	Timespec = imp.Timespec
	// Itimerspec is a timer's interval and initial expiration.
	Itimerspec = imp.Itimerspec
	// NanosleepRelativeResult is the outcome of a relative sleep: success,
	// interruption with the time remaining, or an error.
	NanosleepRelativeResult = imp.NanosleepRelativeResult
)

const nsecPerSec = 1_000_000_000

// NewTimespec returns the Timespec for sec and nsec, or EINVAL if nsec is not
// in [0, 1e9).
func NewTimespec(sec, nsec int64) (Timespec, error) {
	ts := Timespec{Sec: sec, Nsec: nsec}
	if !Valid(ts) {
		return Timespec{}, errno.EINVAL
	}
	return ts, nil
}

// Valid reports whether ts has nanoseconds in range.
func Valid(ts Timespec) bool {
	return ts.Nsec >= 0 && ts.Nsec < nsecPerSec
}

// FromDuration converts a non-negative duration. Negative durations are
// EINVAL.
func FromDuration(d time.Duration) (Timespec, error) {
	if d < 0 {
		return Timespec{}, errno.EINVAL
	}
	return Timespec{Sec: int64(d / time.Second), Nsec: int64(d % time.Second)}, nil
}

// Duration converts ts to a time.Duration, saturating at the largest
// representable duration.
func Duration(ts Timespec) time.Duration {
	const maxSec = int64(1<<63-1) / nsecPerSec
	if ts.Sec >= maxSec {
		return time.Duration(1<<63 - 1)
	}
	return time.Duration(ts.Sec)*time.Second + time.Duration(ts.Nsec)
}

// Time converts ts, read from ClockRealtime, to a time.Time.
func Time(ts Timespec) time.Time {
	return time.Unix(ts.Sec, ts.Nsec)
}

func validItimerspec(its *Itimerspec) bool {
	return Valid(its.Interval) && Valid(its.Value)
}

// ClockID identifies a system clock.
type ClockID int32

const (
	ClockRealtime         ClockID = unix.CLOCK_REALTIME
	ClockMonotonic        ClockID = unix.CLOCK_MONOTONIC
	ClockProcessCPUTimeID ClockID = unix.CLOCK_PROCESS_CPUTIME_ID
	ClockThreadCPUTimeID  ClockID = unix.CLOCK_THREAD_CPUTIME_ID
	ClockMonotonicRaw     ClockID = unix.CLOCK_MONOTONIC_RAW
	ClockRealtimeCoarse   ClockID = unix.CLOCK_REALTIME_COARSE
	ClockMonotonicCoarse  ClockID = unix.CLOCK_MONOTONIC_COARSE
	ClockBoottime         ClockID = unix.CLOCK_BOOTTIME
	ClockRealtimeAlarm    ClockID = unix.CLOCK_REALTIME_ALARM
	ClockBoottimeAlarm    ClockID = unix.CLOCK_BOOTTIME_ALARM
	ClockTAI              ClockID = unix.CLOCK_TAI
)

func (c ClockID) String() string {
	switch c {
	case ClockRealtime:
		return "CLOCK_REALTIME"
	case ClockMonotonic:
		return "CLOCK_MONOTONIC"
	case ClockProcessCPUTimeID:
		return "CLOCK_PROCESS_CPUTIME_ID"
	case ClockThreadCPUTimeID:
		return "CLOCK_THREAD_CPUTIME_ID"
	case ClockMonotonicRaw:
		return "CLOCK_MONOTONIC_RAW"
	case ClockRealtimeCoarse:
		return "CLOCK_REALTIME_COARSE"
	case ClockMonotonicCoarse:
		return "CLOCK_MONOTONIC_COARSE"
	case ClockBoottime:
		return "CLOCK_BOOTTIME"
	case ClockRealtimeAlarm:
		return "CLOCK_REALTIME_ALARM"
	case ClockBoottimeAlarm:
		return "CLOCK_BOOTTIME_ALARM"
	case ClockTAI:
		return "CLOCK_TAI"
	}
	return "clock(" + strconv.Itoa(int(c)) + ")"
}

// ClockGettime reads clock id.
func ClockGettime(id ClockID) (Timespec, error) {
	ts, err := imp.ClockGettime(int32(id))
	return ts, os.NewSyscallError("clock_gettime", err)
}

// ClockGetres returns the resolution of clock id.
func ClockGetres(id ClockID) (Timespec, error) {
	ts, err := imp.ClockGetres(int32(id))
	return ts, os.NewSyscallError("clock_getres", err)
}

// Nanosleep sleeps for req on CLOCK_MONOTONIC. A signal ends the sleep early
// and is reported in the result rather than as an error.
func Nanosleep(req Timespec) NanosleepRelativeResult {
	if !Valid(req) {
		return NanosleepRelativeResult{Err: os.NewSyscallError("nanosleep", errno.EINVAL)}
	}
	res := imp.Nanosleep(&req)
	res.Err = os.NewSyscallError("nanosleep", res.Err)
	return res
}

// ClockNanosleepRelative sleeps for req measured on clock id.
func ClockNanosleepRelative(id ClockID, req Timespec) NanosleepRelativeResult {
	if !Valid(req) {
		return NanosleepRelativeResult{Err: os.NewSyscallError("clock_nanosleep", errno.EINVAL)}
	}
	res := imp.ClockNanosleep(int32(id), 0, &req)
	res.Err = os.NewSyscallError("clock_nanosleep", res.Err)
	return res
}

// ClockNanosleepAbsolute sleeps until clock id reaches deadline. An
// interrupted sleep returns EINTR; there is no remaining time to report since
// the deadline does not move.
func ClockNanosleepAbsolute(id ClockID, deadline Timespec) error {
	if !Valid(deadline) {
		return os.NewSyscallError("clock_nanosleep", errno.EINVAL)
	}
	res := imp.ClockNanosleep(int32(id), unix.TIMER_ABSTIME, &deadline)
	if res.Interrupted {
		return os.NewSyscallError("clock_nanosleep", errno.EINTR)
	}
	return os.NewSyscallError("clock_nanosleep", res.Err)
}
