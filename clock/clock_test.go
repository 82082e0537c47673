package clock

import (
	"os"
	"os/signal"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/opencontainers/posix/errno"
)

func TestTimespec(t *testing.T) {
	for _, tc := range []struct {
		sec, nsec int64
		ok        bool
	}{
		{0, 0, true},
		{1, 999_999_999, true},
		{-1, 0, true},
		{0, 1_000_000_000, false},
		{0, -1, false},
	} {
		_, err := NewTimespec(tc.sec, tc.nsec)
		if tc.ok {
			assert.NoError(t, err, "%d.%d", tc.sec, tc.nsec)
		} else {
			assert.ErrorIs(t, err, errno.EINVAL, "%d.%d", tc.sec, tc.nsec)
		}
	}
	ts, err := FromDuration(1500 * time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, Timespec{Sec: 1, Nsec: 500_000_000}, ts)
	assert.Equal(t, 1500*time.Millisecond, Duration(ts))
	_, err = FromDuration(-time.Second)
	assert.ErrorIs(t, err, errno.EINVAL)
	assert.Equal(t, time.Duration(1<<63-1), Duration(Timespec{Sec: 1 << 62}))
	assert.Equal(t, "CLOCK_MONOTONIC", ClockMonotonic.String())
	assert.Equal(t, "clock(99)", ClockID(99).String())
}

func TestClockGettime(t *testing.T) {
	before := time.Now()
	ts, err := ClockGettime(ClockRealtime)
	require.NoError(t, err)
	after := time.Now()
	got := Time(ts)
	assert.False(t, got.Before(before.Truncate(time.Second)), "%v before %v", got, before)
	assert.False(t, got.After(after.Add(time.Second)), "%v after %v", got, after)

	a, err := ClockGettime(ClockMonotonic)
	require.NoError(t, err)
	b, err := ClockGettime(ClockMonotonic)
	require.NoError(t, err)
	assert.True(t, Valid(a) && Valid(b))
	assert.True(t, b.Sec > a.Sec || (b.Sec == a.Sec && b.Nsec >= a.Nsec), "monotonic clock went backwards")

	res, err := ClockGetres(ClockMonotonic)
	require.NoError(t, err)
	assert.True(t, res.Sec > 0 || res.Nsec > 0)

	_, err = ClockGettime(ClockID(1 << 20))
	assert.ErrorIs(t, err, errno.EINVAL)
}

func TestNanosleep(t *testing.T) {
	start := time.Now()
	res := Nanosleep(Timespec{Nsec: 20_000_000})
	require.NoError(t, res.Err)
	assert.False(t, res.Interrupted)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	res = ClockNanosleepRelative(ClockMonotonic, Timespec{Nsec: 1_000_000})
	require.NoError(t, res.Err)

	res = Nanosleep(Timespec{Nsec: -1})
	assert.ErrorIs(t, res.Err, errno.EINVAL)
	assert.False(t, res.Interrupted)

	now, err := ClockGettime(ClockMonotonic)
	require.NoError(t, err)
	deadline := now
	deadline.Nsec += 10_000_000
	if deadline.Nsec >= 1_000_000_000 {
		deadline.Sec++
		deadline.Nsec -= 1_000_000_000
	}
	require.NoError(t, ClockNanosleepAbsolute(ClockMonotonic, deadline))
	after, err := ClockGettime(ClockMonotonic)
	require.NoError(t, err)
	assert.True(t, after.Sec > deadline.Sec || (after.Sec == deadline.Sec && after.Nsec >= deadline.Nsec))
}

func TestNanosleepInterrupted(t *testing.T) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, unix.SIGUSR1)
	defer signal.Stop(sigs)

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	tid := unix.Gettid()
	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = unix.Tgkill(unix.Getpid(), tid, unix.SIGUSR1)
	}()

	res := ClockNanosleepRelative(ClockMonotonic, Timespec{Sec: 10})
	require.NoError(t, res.Err)
	require.True(t, res.Interrupted, "sleep was not interrupted")
	assert.Less(t, res.Remaining.Sec, int64(10))
	assert.True(t, Valid(res.Remaining))
	<-sigs
}

// Setting a relative timer and reading it back returns the same interval and
// a remaining value that can only have shrunk.
func TestTimerfd(t *testing.T) {
	tfd, err := TimerfdCreate(ClockMonotonic, TimerfdCloexec)
	require.NoError(t, err)
	defer tfd.Close()

	set := Itimerspec{
		Interval: Timespec{Sec: 3, Nsec: 4},
		Value:    Timespec{Sec: 5, Nsec: 6},
	}
	old, err := TimerfdSettime(tfd, 0, &set)
	require.NoError(t, err)
	assert.Equal(t, Itimerspec{}, old, "a new timer is disarmed")

	cur, err := TimerfdGettime(tfd)
	require.NoError(t, err)
	assert.Equal(t, set.Interval, cur.Interval)
	assert.True(t, cur.Value.Sec < set.Value.Sec ||
		(cur.Value.Sec == set.Value.Sec && cur.Value.Nsec <= set.Value.Nsec),
		"value %+v exceeds %+v", cur.Value, set.Value)

	// Disarming returns the previous setting.
	old, err = TimerfdSettime(tfd, 0, &Itimerspec{})
	require.NoError(t, err)
	assert.Equal(t, set.Interval, old.Interval)
	cur, err = TimerfdGettime(tfd)
	require.NoError(t, err)
	assert.Equal(t, Itimerspec{}, cur)

	_, err = TimerfdSettime(tfd, 0, &Itimerspec{Value: Timespec{Nsec: 1_000_000_000}})
	assert.ErrorIs(t, err, errno.EINVAL)
	_, err = TimerfdSettime(tfd, 0, nil)
	assert.ErrorIs(t, err, errno.EFAULT)
}

func TestTimerfdExpire(t *testing.T) {
	tfd, err := TimerfdCreate(ClockMonotonic, TimerfdCloexec|TimerfdNonblock)
	require.NoError(t, err)
	defer tfd.Close()

	_, err = TimerfdRead(tfd)
	assert.ErrorIs(t, err, errno.EAGAIN)

	_, err = TimerfdSettime(tfd, 0, &Itimerspec{Value: Timespec{Nsec: 1_000_000}})
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)
	n, err := TimerfdRead(tfd)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)
}
