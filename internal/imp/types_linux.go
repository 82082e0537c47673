package imp

import (
	"golang.org/x/sys/unix"
)

// FIONREAD and FIONBIO from <asm-generic/ioctls.h>. golang.org/x/sys/unix
// exports the first only under its other name, TIOCINQ, and not the second.
const (
	ioctlFionread = unix.TIOCINQ
	ioctlFionbio  = 0x5421
)

// Timespec has the layout of the kernel's __kernel_timespec: 64-bit seconds
// and nanoseconds on every architecture. It is what the *_time64 system calls
// take on 32-bit targets and what the plain calls take on 64-bit ones.
type Timespec struct {
	Sec  int64
	Nsec int64
}

// Itimerspec has the layout of __kernel_itimerspec.
type Itimerspec struct {
	Interval Timespec
	Value    Timespec
}

// NanosleepRelativeResult is the outcome of a relative sleep. A sleep cut short
// by a signal is not an error; it reports how much of the request is left.
type NanosleepRelativeResult struct {
	// Err is nil on success and on interruption.
	Err error
	// Interrupted is set if the sleep was interrupted by a signal, in which
	// case Remaining holds the unslept time.
	Interrupted bool
	Remaining   Timespec
}

// Stat is the decoded form of struct stat / struct stat64. All fields are
// widened so that 32-bit and 64-bit targets present the same type.
type Stat struct {
	Dev     uint64
	Ino     uint64
	Nlink   uint64
	Mode    uint32
	Uid     uint32
	Gid     uint32
	Rdev    uint64
	Size    int64
	Blksize int64
	Blocks  int64
	Atime   Timespec
	Mtime   Timespec
	Ctime   Timespec
}

// StatFs is struct statfs64; golang.org/x/sys already uses the wide variant on
// 32-bit targets.
type StatFs = unix.Statfs_t

// StatxData is struct statx, which has the same layout on every architecture.
type StatxData = unix.Statx_t

// Termios is struct termios as used by TCGETS.
type Termios = unix.Termios

// Winsize is struct winsize as used by TIOCGWINSZ.
type Winsize = unix.Winsize

// PollFd has the layout of struct pollfd.
type PollFd struct {
	Fd      int32
	Events  int16
	Revents int16
}

// EpollEvent is an epoll event with a full 64-bit user data word. It is
// converted to the architecture's struct epoll_event (packed on amd64) at the
// system call boundary.
type EpollEvent struct {
	Events uint32
	Data   uint64
}

// Utsname holds the fields of struct utsname as strings.
type Utsname struct {
	Sysname    string
	Nodename   string
	Release    string
	Version    string
	Machine    string
	Domainname string
}
