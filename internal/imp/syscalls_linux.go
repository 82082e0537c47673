//go:build linux && !posix_libc

// This file is the raw backend: every operation is encoded directly into
// system call registers with no C library involved. Calls whose argument
// encoding depends on the pointer width live in syscalls_linux_64bit.go and
// syscalls_linux_32bit.go.
//
// Pointer arguments are converted with uintptr(unsafe.Pointer(...)) inside the
// unix.Syscall argument list itself, which is what keeps the pointee alive and
// in place for the duration of the call.

package imp

import (
	"math"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/opencontainers/posix/errno"
	"github.com/opencontainers/posix/patharg"
)

// Backend names the implementation compiled into this binary.
const Backend = "linux_raw"

func iovecs(bufs [][]byte) []unix.Iovec {
	iov := make([]unix.Iovec, len(bufs))
	for i, b := range bufs {
		if len(b) > 0 {
			iov[i].Base = &b[0]
		}
		iov[i].SetLen(len(b))
	}
	return iov
}

func cstrOrNil(p patharg.CStr) *byte {
	if p == nil {
		return nil
	}
	return p.Ptr()
}

// Close closes fd. Linux releases the descriptor even when close reports
// EINTR, so the error is returned but must not be used to retry.
func Close(fd int32) error {
	_, _, e := unix.Syscall(unix.SYS_CLOSE, uintptr(fd), 0, 0)
	return ret(e)
}

func Read(fd int32, buf []byte) (int, error) {
	r, _, e := unix.Syscall(unix.SYS_READ, uintptr(fd), uintptr(unsafe.Pointer(unsafe.SliceData(buf))), uintptr(len(buf)))
	return retInt(r, e)
}

func Write(fd int32, buf []byte) (int, error) {
	r, _, e := unix.Syscall(unix.SYS_WRITE, uintptr(fd), uintptr(unsafe.Pointer(unsafe.SliceData(buf))), uintptr(len(buf)))
	return retInt(r, e)
}

func Readv(fd int32, bufs [][]byte) (int, error) {
	iov := iovecs(bufs)
	r, _, e := unix.Syscall(unix.SYS_READV, uintptr(fd), uintptr(unsafe.Pointer(unsafe.SliceData(iov))), uintptr(len(iov)))
	return retInt(r, e)
}

func Writev(fd int32, bufs [][]byte) (int, error) {
	iov := iovecs(bufs)
	r, _, e := unix.Syscall(unix.SYS_WRITEV, uintptr(fd), uintptr(unsafe.Pointer(unsafe.SliceData(iov))), uintptr(len(iov)))
	return retInt(r, e)
}

func Preadv(fd int32, bufs [][]byte, off uint64) (int, error) {
	iov := iovecs(bufs)
	lo, hi := splitOffset(off)
	r, _, e := unix.Syscall6(unix.SYS_PREADV, uintptr(fd), uintptr(unsafe.Pointer(unsafe.SliceData(iov))), uintptr(len(iov)), lo, hi, 0)
	return retInt(r, e)
}

func Pwritev(fd int32, bufs [][]byte, off uint64) (int, error) {
	iov := iovecs(bufs)
	lo, hi := splitOffset(off)
	r, _, e := unix.Syscall6(unix.SYS_PWRITEV, uintptr(fd), uintptr(unsafe.Pointer(unsafe.SliceData(iov))), uintptr(len(iov)), lo, hi, 0)
	return retInt(r, e)
}

func Preadv2(fd int32, bufs [][]byte, off uint64, flags uint32) (int, error) {
	iov := iovecs(bufs)
	lo, hi := splitOffset(off)
	r, _, e := unix.Syscall6(unix.SYS_PREADV2, uintptr(fd), uintptr(unsafe.Pointer(unsafe.SliceData(iov))), uintptr(len(iov)), lo, hi, uintptr(flags))
	return retInt(r, e)
}

func Pwritev2(fd int32, bufs [][]byte, off uint64, flags uint32) (int, error) {
	iov := iovecs(bufs)
	lo, hi := splitOffset(off)
	r, _, e := unix.Syscall6(unix.SYS_PWRITEV2, uintptr(fd), uintptr(unsafe.Pointer(unsafe.SliceData(iov))), uintptr(len(iov)), lo, hi, uintptr(flags))
	return retInt(r, e)
}

func Dup(fd int32) (int32, error) {
	r, _, e := unix.RawSyscall(unix.SYS_DUP, uintptr(fd), 0, 0)
	return retFd(r, e)
}

// Dup2 is implemented with dup3, which is the only form some architectures
// provide. dup3 rejects oldfd == newfd, where dup2 checks oldfd is valid and
// does nothing; that case is handled with F_GETFD.
func Dup2(fd, newfd int32) error {
	if fd == newfd {
		_, err := FcntlGetfd(fd)
		return err
	}
	return Dup3(fd, newfd, 0)
}

func Dup3(fd, newfd int32, flags uint32) error {
	_, _, e := unix.RawSyscall(unix.SYS_DUP3, uintptr(fd), uintptr(newfd), uintptr(flags))
	return ret(e)
}

func ioctlPtr(fd int32, req uint, arg unsafe.Pointer) error {
	_, _, e := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(req), uintptr(arg))
	return ret(e)
}

func IoctlFionread(fd int32) (uint64, error) {
	var n int32
	if err := ioctlPtr(fd, ioctlFionread, unsafe.Pointer(&n)); err != nil {
		return 0, err
	}
	return uint64(n), nil
}

func IoctlFionbio(fd int32, nonblocking bool) error {
	var v int32
	if nonblocking {
		v = 1
	}
	return ioctlPtr(fd, ioctlFionbio, unsafe.Pointer(&v))
}

func IoctlTiocgwinsz(fd int32) (Winsize, error) {
	var ws Winsize
	err := ioctlPtr(fd, unix.TIOCGWINSZ, unsafe.Pointer(&ws))
	return ws, err
}

func IoctlTiocswinsz(fd int32, ws *Winsize) error {
	return ioctlPtr(fd, unix.TIOCSWINSZ, unsafe.Pointer(ws))
}

func IoctlTcgets(fd int32) (Termios, error) {
	var t Termios
	err := ioctlPtr(fd, unix.TCGETS, unsafe.Pointer(&t))
	return t, err
}

func IoctlTiocexcl(fd int32) error {
	_, _, e := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), unix.TIOCEXCL, 0)
	return ret(e)
}

func IoctlTiocnxcl(fd int32) error {
	_, _, e := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), unix.TIOCNXCL, 0)
	return ret(e)
}

func IoctlTiocsctty(fd int32, steal bool) error {
	var arg uintptr
	if steal {
		arg = 1
	}
	_, _, e := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), unix.TIOCSCTTY, arg)
	return ret(e)
}

// Isatty reports whether fd is a terminal. Linux answers TIOCGWINSZ with
// ENOTTY (or EINVAL on old kernels) for anything else, and the descriptor is
// assumed valid, so any error means "not a terminal".
func Isatty(fd int32) bool {
	_, err := IoctlTiocgwinsz(fd)
	return err == nil
}

func Pipe2(flags uint32) ([2]int32, error) {
	var p [2]int32
	_, _, e := unix.RawSyscall(unix.SYS_PIPE2, uintptr(unsafe.Pointer(&p)), uintptr(flags), 0)
	return p, ret(e)
}

func Eventfd(initval uint32, flags uint32) (int32, error) {
	r, _, e := unix.RawSyscall(unix.SYS_EVENTFD2, uintptr(initval), uintptr(flags), 0)
	return retFd(r, e)
}

func Openat(dirfd int32, path patharg.CStr, oflags, mode uint32) (int32, error) {
	r, _, e := unix.Syscall6(unix.SYS_OPENAT, uintptr(dirfd), uintptr(unsafe.Pointer(path.Ptr())), uintptr(oflags|oLargefile), uintptr(mode), 0, 0)
	return retFd(r, e)
}

func Statx(dirfd int32, path patharg.CStr, flags, mask uint32) (StatxData, error) {
	var stx StatxData
	_, _, e := unix.Syscall6(unix.SYS_STATX, uintptr(dirfd), uintptr(unsafe.Pointer(path.Ptr())), uintptr(flags), uintptr(mask), uintptr(unsafe.Pointer(&stx)), 0)
	return stx, ret(e)
}

func Readlinkat(dirfd int32, path patharg.CStr, buf []byte) (int, error) {
	r, _, e := unix.Syscall6(unix.SYS_READLINKAT, uintptr(dirfd), uintptr(unsafe.Pointer(path.Ptr())), uintptr(unsafe.Pointer(unsafe.SliceData(buf))), uintptr(len(buf)), 0, 0)
	return retInt(r, e)
}

func Mkdirat(dirfd int32, path patharg.CStr, mode uint32) error {
	_, _, e := unix.Syscall(unix.SYS_MKDIRAT, uintptr(dirfd), uintptr(unsafe.Pointer(path.Ptr())), uintptr(mode))
	return ret(e)
}

func Mknodat(dirfd int32, path patharg.CStr, mode uint32, dev uint64) error {
	// The kernel takes a 32-bit encoded dev_t here on every architecture.
	if dev>>32 != 0 {
		return errno.EINVAL
	}
	_, _, e := unix.Syscall6(unix.SYS_MKNODAT, uintptr(dirfd), uintptr(unsafe.Pointer(path.Ptr())), uintptr(mode), uintptr(uint32(dev)), 0, 0)
	return ret(e)
}

func Unlinkat(dirfd int32, path patharg.CStr, flags uint32) error {
	_, _, e := unix.Syscall(unix.SYS_UNLINKAT, uintptr(dirfd), uintptr(unsafe.Pointer(path.Ptr())), uintptr(flags))
	return ret(e)
}

func Renameat(olddirfd int32, oldpath patharg.CStr, newdirfd int32, newpath patharg.CStr) error {
	_, _, e := unix.Syscall6(unix.SYS_RENAMEAT, uintptr(olddirfd), uintptr(unsafe.Pointer(oldpath.Ptr())), uintptr(newdirfd), uintptr(unsafe.Pointer(newpath.Ptr())), 0, 0)
	return ret(e)
}

func Renameat2(olddirfd int32, oldpath patharg.CStr, newdirfd int32, newpath patharg.CStr, flags uint32) error {
	_, _, e := unix.Syscall6(unix.SYS_RENAMEAT2, uintptr(olddirfd), uintptr(unsafe.Pointer(oldpath.Ptr())), uintptr(newdirfd), uintptr(unsafe.Pointer(newpath.Ptr())), uintptr(flags), 0)
	return ret(e)
}

func Linkat(olddirfd int32, oldpath patharg.CStr, newdirfd int32, newpath patharg.CStr, flags uint32) error {
	_, _, e := unix.Syscall6(unix.SYS_LINKAT, uintptr(olddirfd), uintptr(unsafe.Pointer(oldpath.Ptr())), uintptr(newdirfd), uintptr(unsafe.Pointer(newpath.Ptr())), uintptr(flags), 0)
	return ret(e)
}

func Symlinkat(target patharg.CStr, newdirfd int32, newpath patharg.CStr) error {
	_, _, e := unix.Syscall(unix.SYS_SYMLINKAT, uintptr(unsafe.Pointer(target.Ptr())), uintptr(newdirfd), uintptr(unsafe.Pointer(newpath.Ptr())))
	return ret(e)
}

// Fchmodat is fchmodat(2) with the flags argument fixed to 0; the kernel
// call has no flags parameter at all.
func Fchmodat(dirfd int32, path patharg.CStr, mode uint32) error {
	_, _, e := unix.Syscall(unix.SYS_FCHMODAT, uintptr(dirfd), uintptr(unsafe.Pointer(path.Ptr())), uintptr(mode))
	return ret(e)
}

func Fchmod(fd int32, mode uint32) error {
	_, _, e := unix.Syscall(unix.SYS_FCHMOD, uintptr(fd), uintptr(mode), 0)
	return ret(e)
}

// Faccessat is the faccessat(2) system call, which has no flags argument.
// Flag handling (AT_EACCESS) is done by the caller.
func Faccessat(dirfd int32, path patharg.CStr, mode uint32) error {
	_, _, e := unix.Syscall(unix.SYS_FACCESSAT, uintptr(dirfd), uintptr(unsafe.Pointer(path.Ptr())), uintptr(mode))
	return ret(e)
}

func Fsync(fd int32) error {
	_, _, e := unix.Syscall(unix.SYS_FSYNC, uintptr(fd), 0, 0)
	return ret(e)
}

func Fdatasync(fd int32) error {
	_, _, e := unix.Syscall(unix.SYS_FDATASYNC, uintptr(fd), 0, 0)
	return ret(e)
}

func Flock(fd int32, op int32) error {
	_, _, e := unix.Syscall(unix.SYS_FLOCK, uintptr(fd), uintptr(op), 0)
	return ret(e)
}

func Getdents64(fd int32, buf []byte) (int, error) {
	r, _, e := unix.Syscall(unix.SYS_GETDENTS64, uintptr(fd), uintptr(unsafe.Pointer(unsafe.SliceData(buf))), uintptr(len(buf)))
	return retInt(r, e)
}

func CopyFileRange(fdIn int32, offIn *uint64, fdOut int32, offOut *uint64, length uint64, flags uint32) (uint64, error) {
	if uint64(uintptr(length)) != length {
		return 0, errno.EINVAL
	}
	r, _, e := unix.Syscall6(unix.SYS_COPY_FILE_RANGE, uintptr(fdIn), uintptr(unsafe.Pointer(offIn)), uintptr(fdOut), uintptr(unsafe.Pointer(offOut)), uintptr(length), uintptr(flags))
	if e != 0 {
		return 0, errno.FromSyscall(e)
	}
	return uint64(r), nil
}

func MemfdCreate(name patharg.CStr, flags uint32) (int32, error) {
	r, _, e := unix.Syscall(unix.SYS_MEMFD_CREATE, uintptr(unsafe.Pointer(name.Ptr())), uintptr(flags), 0)
	return retFd(r, e)
}

func Getcwd(buf []byte) (int, error) {
	r, _, e := unix.Syscall(unix.SYS_GETCWD, uintptr(unsafe.Pointer(unsafe.SliceData(buf))), uintptr(len(buf)), 0)
	return retInt(r, e)
}

func Chdir(path patharg.CStr) error {
	_, _, e := unix.Syscall(unix.SYS_CHDIR, uintptr(unsafe.Pointer(path.Ptr())), 0, 0)
	return ret(e)
}

func Fchdir(fd int32) error {
	_, _, e := unix.Syscall(unix.SYS_FCHDIR, uintptr(fd), 0, 0)
	return ret(e)
}

func FcntlGetfd(fd int32) (uint32, error) {
	return retUint32(fcntl(fd, unix.F_GETFD, 0))
}

func FcntlSetfd(fd int32, flags uint32) error {
	_, e := fcntl(fd, unix.F_SETFD, uintptr(flags))
	return ret(e)
}

func FcntlGetfl(fd int32) (uint32, error) {
	return retUint32(fcntl(fd, unix.F_GETFL, 0))
}

func FcntlSetfl(fd int32, flags uint32) error {
	_, e := fcntl(fd, unix.F_SETFL, uintptr(flags))
	return ret(e)
}

func FcntlDupfdCloexec(fd int32, min int32) (int32, error) {
	return retFd(fcntl(fd, unix.F_DUPFD_CLOEXEC, uintptr(min)))
}

func FcntlGetPipeSize(fd int32) (int, error) {
	return retInt(fcntl(fd, unix.F_GETPIPE_SZ, 0))
}

func FcntlSetPipeSize(fd int32, size int) error {
	_, e := fcntl(fd, unix.F_SETPIPE_SZ, uintptr(size))
	return ret(e)
}

func FcntlGetSeals(fd int32) (uint32, error) {
	return retUint32(fcntl(fd, unix.F_GET_SEALS, 0))
}

func FcntlAddSeals(fd int32, seals uint32) error {
	_, e := fcntl(fd, unix.F_ADD_SEALS, uintptr(seals))
	return ret(e)
}

// Utimensat sets file timestamps. A nil path operates on dirfd itself, which
// is how futimens is expressed at the system call level.
func Utimensat(dirfd int32, path patharg.CStr, times *[2]Timespec, flags uint32) error {
	return utimensat(dirfd, cstrOrNil(path), times, flags)
}

// Mmap goes through unix.MmapPtr, which handles the mmap2 page offset on
// 32-bit targets and never round-trips the mapping address through uintptr.
func Mmap(addr unsafe.Pointer, length uintptr, prot, flags uint32, fd int32, off uint64) (unsafe.Pointer, error) {
	if off > math.MaxInt64 {
		return nil, errno.EINVAL
	}
	p, err := unix.MmapPtr(int(fd), int64(off), addr, length, int(prot), int(flags))
	if err != nil {
		if e, ok := errno.Of(err); ok {
			return nil, e
		}
		return nil, errno.EIO
	}
	return p, nil
}

func Munmap(addr unsafe.Pointer, length uintptr) error {
	_, _, e := unix.Syscall(unix.SYS_MUNMAP, uintptr(addr), length, 0)
	return ret(e)
}

func Mprotect(addr unsafe.Pointer, length uintptr, prot uint32) error {
	_, _, e := unix.Syscall(unix.SYS_MPROTECT, uintptr(addr), length, uintptr(prot))
	return ret(e)
}

func Mlock(addr unsafe.Pointer, length uintptr) error {
	_, _, e := unix.Syscall(unix.SYS_MLOCK, uintptr(addr), length, 0)
	return ret(e)
}

func Mlock2(addr unsafe.Pointer, length uintptr, flags uint32) error {
	_, _, e := unix.Syscall(unix.SYS_MLOCK2, uintptr(addr), length, uintptr(flags))
	return ret(e)
}

func Munlock(addr unsafe.Pointer, length uintptr) error {
	_, _, e := unix.Syscall(unix.SYS_MUNLOCK, uintptr(addr), length, 0)
	return ret(e)
}

func Madvise(addr unsafe.Pointer, length uintptr, advice int32) error {
	_, _, e := unix.Syscall(unix.SYS_MADVISE, uintptr(addr), length, uintptr(advice))
	return ret(e)
}

func Socket(domain, typ, proto int32) (int32, error) {
	r, _, e := unix.RawSyscall(unix.SYS_SOCKET, uintptr(domain), uintptr(typ), uintptr(proto))
	return retFd(r, e)
}

func Socketpair(domain, typ, proto int32) ([2]int32, error) {
	var fds [2]int32
	_, _, e := unix.RawSyscall6(unix.SYS_SOCKETPAIR, uintptr(domain), uintptr(typ), uintptr(proto), uintptr(unsafe.Pointer(&fds)), 0, 0)
	return fds, ret(e)
}

func Bind(fd int32, addr SocketAddr) error {
	var rsa unix.RawSockaddrAny
	n := addr.encode(&rsa)
	_, _, e := unix.Syscall(unix.SYS_BIND, uintptr(fd), uintptr(unsafe.Pointer(&rsa)), uintptr(n))
	return ret(e)
}

func Connect(fd int32, addr SocketAddr) error {
	var rsa unix.RawSockaddrAny
	n := addr.encode(&rsa)
	_, _, e := unix.Syscall(unix.SYS_CONNECT, uintptr(fd), uintptr(unsafe.Pointer(&rsa)), uintptr(n))
	return ret(e)
}

func Listen(fd int32, backlog int32) error {
	_, _, e := unix.Syscall(unix.SYS_LISTEN, uintptr(fd), uintptr(backlog), 0)
	return ret(e)
}

func Accept4(fd int32, flags uint32) (int32, error) {
	r, _, e := unix.Syscall6(unix.SYS_ACCEPT4, uintptr(fd), 0, 0, uintptr(flags), 0, 0)
	return retFd(r, e)
}

func AcceptFrom(fd int32, flags uint32) (int32, SocketAddr, error) {
	var rsa unix.RawSockaddrAny
	addrlen := uint32(unsafe.Sizeof(rsa))
	r, _, e := unix.Syscall6(unix.SYS_ACCEPT4, uintptr(fd), uintptr(unsafe.Pointer(&rsa)), uintptr(unsafe.Pointer(&addrlen)), uintptr(flags), 0, 0)
	nfd, err := retFd(r, e)
	if err != nil {
		return -1, nil, err
	}
	addr, err := DecodeSockaddr(&rsa, addrlen)
	if err != nil {
		_ = Close(nfd)
		return -1, nil, err
	}
	return nfd, addr, nil
}

func Shutdown(fd int32, how int32) error {
	_, _, e := unix.Syscall(unix.SYS_SHUTDOWN, uintptr(fd), uintptr(how), 0)
	return ret(e)
}

func Send(fd int32, buf []byte, flags uint32) (int, error) {
	r, _, e := unix.Syscall6(unix.SYS_SENDTO, uintptr(fd), uintptr(unsafe.Pointer(unsafe.SliceData(buf))), uintptr(len(buf)), uintptr(flags), 0, 0)
	return retInt(r, e)
}

func SendTo(fd int32, buf []byte, flags uint32, addr SocketAddr) (int, error) {
	var rsa unix.RawSockaddrAny
	n := addr.encode(&rsa)
	r, _, e := unix.Syscall6(unix.SYS_SENDTO, uintptr(fd), uintptr(unsafe.Pointer(unsafe.SliceData(buf))), uintptr(len(buf)), uintptr(flags), uintptr(unsafe.Pointer(&rsa)), uintptr(n))
	return retInt(r, e)
}

func Recv(fd int32, buf []byte, flags uint32) (int, error) {
	r, _, e := unix.Syscall6(unix.SYS_RECVFROM, uintptr(fd), uintptr(unsafe.Pointer(unsafe.SliceData(buf))), uintptr(len(buf)), uintptr(flags), 0, 0)
	return retInt(r, e)
}

func RecvFrom(fd int32, buf []byte, flags uint32) (int, SocketAddr, error) {
	var rsa unix.RawSockaddrAny
	addrlen := uint32(unsafe.Sizeof(rsa))
	r, _, e := unix.Syscall6(unix.SYS_RECVFROM, uintptr(fd), uintptr(unsafe.Pointer(unsafe.SliceData(buf))), uintptr(len(buf)), uintptr(flags), uintptr(unsafe.Pointer(&rsa)), uintptr(unsafe.Pointer(&addrlen)))
	n, err := retInt(r, e)
	if err != nil {
		return 0, nil, err
	}
	addr, err := DecodeSockaddr(&rsa, addrlen)
	return n, addr, err
}

func Getsockname(fd int32) (SocketAddr, error) {
	var rsa unix.RawSockaddrAny
	addrlen := uint32(unsafe.Sizeof(rsa))
	_, _, e := unix.RawSyscall(unix.SYS_GETSOCKNAME, uintptr(fd), uintptr(unsafe.Pointer(&rsa)), uintptr(unsafe.Pointer(&addrlen)))
	if err := ret(e); err != nil {
		return nil, err
	}
	return DecodeSockaddr(&rsa, addrlen)
}

func Getpeername(fd int32) (SocketAddr, error) {
	var rsa unix.RawSockaddrAny
	addrlen := uint32(unsafe.Sizeof(rsa))
	_, _, e := unix.RawSyscall(unix.SYS_GETPEERNAME, uintptr(fd), uintptr(unsafe.Pointer(&rsa)), uintptr(unsafe.Pointer(&addrlen)))
	if err := ret(e); err != nil {
		return nil, err
	}
	return DecodeSockaddr(&rsa, addrlen)
}

func GetsockoptInt(fd int32, level, opt int32) (int32, error) {
	var v int32
	vlen := uint32(unsafe.Sizeof(v))
	_, _, e := unix.Syscall6(unix.SYS_GETSOCKOPT, uintptr(fd), uintptr(level), uintptr(opt), uintptr(unsafe.Pointer(&v)), uintptr(unsafe.Pointer(&vlen)), 0)
	return v, ret(e)
}

func SetsockoptInt(fd int32, level, opt, value int32) error {
	_, _, e := unix.Syscall6(unix.SYS_SETSOCKOPT, uintptr(fd), uintptr(level), uintptr(opt), uintptr(unsafe.Pointer(&value)), unsafe.Sizeof(value), 0)
	return ret(e)
}

func TimerfdCreate(clockid int32, flags uint32) (int32, error) {
	r, _, e := unix.RawSyscall(unix.SYS_TIMERFD_CREATE, uintptr(clockid), uintptr(flags), 0)
	return retFd(r, e)
}

func Getpid() int32 {
	r, _ := unix.RawSyscallNoError(unix.SYS_GETPID, 0, 0, 0)
	return int32(r)
}

func Getppid() int32 {
	r, _ := unix.RawSyscallNoError(unix.SYS_GETPPID, 0, 0, 0)
	return int32(r)
}

func Gettid() int32 {
	r, _ := unix.RawSyscallNoError(unix.SYS_GETTID, 0, 0, 0)
	return int32(r)
}

func Uname() Utsname {
	var u unix.Utsname
	// uname(2) can only fail with EFAULT, which a Go pointer rules out.
	if _, _, e := unix.RawSyscall(unix.SYS_UNAME, uintptr(unsafe.Pointer(&u)), 0, 0); e != 0 {
		panic("uname: " + e.Error())
	}
	return utsnameToUname(&u)
}

func SchedYield() {
	unix.RawSyscallNoError(unix.SYS_SCHED_YIELD, 0, 0, 0)
}

// Getpriority returns the nice value. The raw system call returns 20-nice so
// that the result is never negative; that is undone here.
func Getpriority(which, who int32) (int32, error) {
	r, _, e := unix.RawSyscall(unix.SYS_GETPRIORITY, uintptr(which), uintptr(who), 0)
	if e != 0 {
		return 0, errno.FromSyscall(e)
	}
	return 20 - int32(r), nil
}

func Setpriority(which, who, prio int32) error {
	_, _, e := unix.RawSyscall(unix.SYS_SETPRIORITY, uintptr(which), uintptr(who), uintptr(prio))
	return ret(e)
}

func EpollCreate1(flags uint32) (int32, error) {
	r, _, e := unix.RawSyscall(unix.SYS_EPOLL_CREATE1, uintptr(flags), 0, 0)
	return retFd(r, e)
}

func EpollCtl(epfd int32, op int32, fd int32, event *EpollEvent) error {
	var kev *unix.EpollEvent
	if event != nil {
		kev = new(unix.EpollEvent)
		encodeEpollEvent(kev, event)
	}
	_, _, e := unix.RawSyscall6(unix.SYS_EPOLL_CTL, uintptr(epfd), uintptr(op), uintptr(fd), uintptr(unsafe.Pointer(kev)), 0, 0)
	return ret(e)
}

func EpollWait(epfd int32, events []EpollEvent, timeoutMs int32) (int, error) {
	kev := make([]unix.EpollEvent, len(events))
	r, _, e := unix.Syscall6(unix.SYS_EPOLL_PWAIT, uintptr(epfd), uintptr(unsafe.Pointer(unsafe.SliceData(kev))), uintptr(len(kev)), uintptr(timeoutMs), 0, 0)
	n, err := retInt(r, e)
	if err != nil {
		return 0, err
	}
	for i := 0; i < n; i++ {
		decodeEpollEvent(&events[i], &kev[i])
	}
	return n, nil
}
