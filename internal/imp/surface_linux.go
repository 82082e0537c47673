package imp

import (
	"unsafe"

	"github.com/opencontainers/posix/patharg"
)

// Both backends must provide exactly these signatures. A backend that drifts
// fails to compile here rather than in whichever package happens to call the
// function first.
var _ string = Backend

var _ func(int32) error = Close
var _ func(int32, []byte) (int, error) = Read
var _ func(int32, []byte) (int, error) = Write
var _ func(int32, []byte, uint64) (int, error) = Pread
var _ func(int32, []byte, uint64) (int, error) = Pwrite
var _ func(int32, [][]byte) (int, error) = Readv
var _ func(int32, [][]byte) (int, error) = Writev
var _ func(int32, [][]byte, uint64) (int, error) = Preadv
var _ func(int32, [][]byte, uint64) (int, error) = Pwritev
var _ func(int32, [][]byte, uint64, uint32) (int, error) = Preadv2
var _ func(int32, [][]byte, uint64, uint32) (int, error) = Pwritev2
var _ func(int32) (int32, error) = Dup
var _ func(int32, int32) error = Dup2
var _ func(int32, int32, uint32) error = Dup3
var _ func(int32) (uint64, error) = IoctlFionread
var _ func(int32, bool) error = IoctlFionbio
var _ func(int32) (Winsize, error) = IoctlTiocgwinsz
var _ func(int32, *Winsize) error = IoctlTiocswinsz
var _ func(int32) (Termios, error) = IoctlTcgets
var _ func(int32) error = IoctlTiocexcl
var _ func(int32) error = IoctlTiocnxcl
var _ func(int32, bool) error = IoctlTiocsctty
var _ func(int32) bool = Isatty
var _ func(uint32) ([2]int32, error) = Pipe2
var _ func(uint32, uint32) (int32, error) = Eventfd
var _ func([]PollFd, int32) (int, error) = Poll
var _ func(int32, patharg.CStr, uint32, uint32) (int32, error) = Openat

var _ func(int32) (Stat, error) = Fstat
var _ func(int32, patharg.CStr, uint32) (Stat, error) = Statat
var _ func(int32, patharg.CStr, uint32, uint32) (StatxData, error) = Statx
var _ func(int32) (StatFs, error) = Fstatfs
var _ func(int32, patharg.CStr, []byte) (int, error) = Readlinkat
var _ func(int32, patharg.CStr, uint32) error = Mkdirat
var _ func(int32, patharg.CStr, uint32, uint64) error = Mknodat
var _ func(int32, patharg.CStr, uint32) error = Unlinkat
var _ func(int32, patharg.CStr, int32, patharg.CStr) error = Renameat
var _ func(int32, patharg.CStr, int32, patharg.CStr, uint32) error = Renameat2
var _ func(int32, patharg.CStr, int32, patharg.CStr, uint32) error = Linkat
var _ func(patharg.CStr, int32, patharg.CStr) error = Symlinkat
var _ func(int32, patharg.CStr, uint32) error = Fchmodat
var _ func(int32, uint32) error = Fchmod
var _ func(int32, patharg.CStr, uint32) error = Faccessat
var _ func(int32, patharg.CStr, *[2]Timespec, uint32) error = Utimensat
var _ func(int32, int64, int32) (uint64, error) = Seek
var _ func(int32, uint64) error = Ftruncate
var _ func(int32, uint32, uint64, uint64) error = Fallocate
var _ func(int32, uint64, uint64, int32) error = Fadvise
var _ func(int32) error = Fsync
var _ func(int32) error = Fdatasync
var _ func(int32, int32) error = Flock
var _ func(int32, []byte) (int, error) = Getdents64
var _ func(int32, *uint64, int32, *uint64, uint64, uint32) (uint64, error) = CopyFileRange
var _ func(patharg.CStr, uint32) (int32, error) = MemfdCreate
var _ func(int32, int32, *uint64, uintptr) (int, error) = Sendfile
var _ func([]byte) (int, error) = Getcwd
var _ func(patharg.CStr) error = Chdir
var _ func(int32) error = Fchdir
var _ func(int32) (uint32, error) = FcntlGetfd
var _ func(int32, uint32) error = FcntlSetfd
var _ func(int32) (uint32, error) = FcntlGetfl
var _ func(int32, uint32) error = FcntlSetfl
var _ func(int32, int32) (int32, error) = FcntlDupfdCloexec
var _ func(int32) (int, error) = FcntlGetPipeSize
var _ func(int32, int) error = FcntlSetPipeSize
var _ func(int32) (uint32, error) = FcntlGetSeals
var _ func(int32, uint32) error = FcntlAddSeals

var _ func(unsafe.Pointer, uintptr, uint32, uint32, int32, uint64) (unsafe.Pointer, error) = Mmap
var _ func(unsafe.Pointer, uintptr) error = Munmap
var _ func(unsafe.Pointer, uintptr, uint32) error = Mprotect
var _ func(unsafe.Pointer, uintptr) error = Mlock
var _ func(unsafe.Pointer, uintptr, uint32) error = Mlock2
var _ func(unsafe.Pointer, uintptr) error = Munlock
var _ func(unsafe.Pointer, uintptr, int32) error = Madvise

var _ func(int32, int32, int32) (int32, error) = Socket
var _ func(int32, int32, int32) ([2]int32, error) = Socketpair
var _ func(int32, SocketAddr) error = Bind
var _ func(int32, SocketAddr) error = Connect
var _ func(int32, int32) error = Listen
var _ func(int32, uint32) (int32, error) = Accept4
var _ func(int32, uint32) (int32, SocketAddr, error) = AcceptFrom
var _ func(int32, int32) error = Shutdown
var _ func(int32, []byte, uint32) (int, error) = Send
var _ func(int32, []byte, uint32, SocketAddr) (int, error) = SendTo
var _ func(int32, []byte, uint32) (int, error) = Recv
var _ func(int32, []byte, uint32) (int, SocketAddr, error) = RecvFrom
var _ func(int32) (SocketAddr, error) = Getsockname
var _ func(int32) (SocketAddr, error) = Getpeername
var _ func(int32, int32, int32) (int32, error) = GetsockoptInt
var _ func(int32, int32, int32, int32) error = SetsockoptInt

var _ func(int32) (Timespec, error) = ClockGettime
var _ func(int32) (Timespec, error) = ClockGetres
var _ func(int32, uint32, *Timespec) NanosleepRelativeResult = ClockNanosleep
var _ func(*Timespec) NanosleepRelativeResult = Nanosleep
var _ func(int32, uint32) (int32, error) = TimerfdCreate
var _ func(int32, uint32, *Itimerspec) (Itimerspec, error) = TimerfdSettime
var _ func(int32) (Itimerspec, error) = TimerfdGettime

var _ func() int32 = Getpid
var _ func() int32 = Getppid
var _ func() int32 = Gettid
var _ func() uint32 = Getuid
var _ func() uint32 = Geteuid
var _ func() uint32 = Getgid
var _ func() uint32 = Getegid
var _ func() Utsname = Uname
var _ func() = SchedYield
var _ func(int32, int32) (int32, error) = Getpriority
var _ func(int32, int32, int32) error = Setpriority

var _ func(uint32) (int32, error) = EpollCreate1
var _ func(int32, int32, int32, *EpollEvent) error = EpollCtl
var _ func(int32, []EpollEvent, int32) (int, error) = EpollWait
