//go:build linux && cgo && posix_libc

// This file is the libc backend, selected with -tags posix_libc. Every
// operation goes through the C library entry point of the same name, so the
// library's own fallbacks (large-file and 64-bit time_t handling on 32-bit
// targets) apply. Results are decoded into the same Go types the raw backend
// produces.

package imp

/*
#define _GNU_SOURCE
#define _FILE_OFFSET_BITS 64
#define _TIME_BITS 64
#include <errno.h>
#include <fcntl.h>
#include <poll.h>
#include <sched.h>
#include <stdint.h>
#include <stdio.h>
#include <string.h>
#include <unistd.h>
#include <sys/epoll.h>
#include <sys/eventfd.h>
#include <sys/file.h>
#include <sys/ioctl.h>
#include <sys/mman.h>
#include <sys/resource.h>
#include <sys/sendfile.h>
#include <sys/socket.h>
#include <sys/stat.h>
#include <sys/statfs.h>
#include <sys/syscall.h>
#include <sys/timerfd.h>
#include <sys/uio.h>
#include <sys/utsname.h>
#include <time.h>

// Calls that not every C library wraps go through syscall(3).
static long posix_statx(int dirfd, const char *path, int flags, unsigned int mask, void *buf) {
	return syscall(SYS_statx, dirfd, path, flags, mask, buf);
}

static long posix_getdents64(int fd, void *buf, size_t len) {
	return syscall(SYS_getdents64, fd, buf, len);
}

static long posix_gettid(void) {
	return syscall(SYS_gettid);
}

static long posix_renameat2(int olddirfd, const char *oldpath, int newdirfd, const char *newpath, unsigned int flags) {
	return syscall(SYS_renameat2, olddirfd, oldpath, newdirfd, newpath, flags);
}

static ssize_t posix_copy_file_range(int in, uint64_t *off_in, int out, uint64_t *off_out, size_t len, unsigned int flags) {
	return copy_file_range(in, (off_t *)off_in, out, (off_t *)off_out, len, flags);
}

static ssize_t posix_sendfile(int out, int in, uint64_t *off, size_t count) {
	return sendfile(out, in, (off_t *)off, count);
}

static int posix_ioctl_ptr(int fd, unsigned long req, void *arg) {
	return ioctl(fd, req, arg);
}

static int posix_ioctl_int(int fd, unsigned long req, unsigned long arg) {
	return ioctl(fd, req, arg);
}

static int posix_fcntl(int fd, int cmd, long arg) {
	return fcntl(fd, cmd, arg);
}

static int posix_openat(int dirfd, const char *path, int flags, unsigned int mode) {
	return openat(dirfd, path, flags, (mode_t)mode);
}

// glibc declares the address arguments below as transparent unions, which
// cgo cannot pass; these take a plain struct sockaddr pointer instead.
static int posix_bind(int fd, const struct sockaddr *addr, socklen_t len) {
	return bind(fd, addr, len);
}

static int posix_connect(int fd, const struct sockaddr *addr, socklen_t len) {
	return connect(fd, addr, len);
}

static int posix_accept4(int fd, struct sockaddr *addr, socklen_t *len, int flags) {
	return accept4(fd, addr, len, flags);
}

static int posix_getsockname(int fd, struct sockaddr *addr, socklen_t *len) {
	return getsockname(fd, addr, len);
}

static int posix_getpeername(int fd, struct sockaddr *addr, socklen_t *len) {
	return getpeername(fd, addr, len);
}

static ssize_t posix_sendto(int fd, const void *buf, size_t n, int flags, const struct sockaddr *addr, socklen_t len) {
	return sendto(fd, buf, n, flags, addr, len);
}

static ssize_t posix_recvfrom(int fd, void *buf, size_t n, int flags, struct sockaddr *addr, socklen_t *len) {
	return recvfrom(fd, buf, n, flags, addr, len);
}
*/
import "C"

import (
	"errors"
	"runtime"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/opencontainers/posix/errno"
	"github.com/opencontainers/posix/patharg"
)

// Backend names the implementation compiled into this binary.
const Backend = "libc"

// cerr converts the errno value cgo reports alongside a failed call.
func cerr(err error) error {
	var e syscall.Errno
	if errors.As(err, &e) && e != 0 {
		return errno.FromSyscall(e)
	}
	return errno.EIO
}

func cint(r C.int, err error) error {
	if r < 0 {
		return cerr(err)
	}
	return nil
}

func cfd(r C.int, err error) (int32, error) {
	if r < 0 {
		return -1, cerr(err)
	}
	return int32(r), nil
}

func csize(r C.ssize_t, err error) (int, error) {
	if r < 0 {
		return 0, cerr(err)
	}
	return int(r), nil
}

func clong(r C.long, err error) (int, error) {
	if r < 0 {
		return 0, cerr(err)
	}
	return int(r), nil
}

func cpath(p patharg.CStr) *C.char {
	if p == nil {
		return nil
	}
	return (*C.char)(unsafe.Pointer(p.Ptr()))
}

func cbuf(b []byte) unsafe.Pointer {
	return unsafe.Pointer(unsafe.SliceData(b))
}

// pinnedIovecs builds an iovec array for the C library. The buffers it points
// at are Go memory, so they are pinned until the returned Pinner is released.
func pinnedIovecs(bufs [][]byte) ([]unix.Iovec, *runtime.Pinner) {
	var pin runtime.Pinner
	iov := make([]unix.Iovec, len(bufs))
	for i, b := range bufs {
		if len(b) > 0 {
			pin.Pin(&b[0])
			iov[i].Base = &b[0]
		}
		iov[i].SetLen(len(b))
	}
	return iov, &pin
}

func ciov(iov []unix.Iovec) *C.struct_iovec {
	return (*C.struct_iovec)(unsafe.Pointer(unsafe.SliceData(iov)))
}

func toCTimespec(ts *Timespec) C.struct_timespec {
	return C.struct_timespec{tv_sec: C.time_t(ts.Sec), tv_nsec: C.long(ts.Nsec)}
}

func fromCTimespec(ts *C.struct_timespec) Timespec {
	return Timespec{Sec: int64(ts.tv_sec), Nsec: int64(ts.tv_nsec)}
}

func Close(fd int32) error {
	r, cErr := C.close(C.int(fd))
	return cint(r, cErr)
}

func Read(fd int32, buf []byte) (int, error) {
	r, cErr := C.read(C.int(fd), cbuf(buf), C.size_t(len(buf)))
	return csize(r, cErr)
}

func Write(fd int32, buf []byte) (int, error) {
	r, cErr := C.write(C.int(fd), cbuf(buf), C.size_t(len(buf)))
	return csize(r, cErr)
}

func Pread(fd int32, buf []byte, off uint64) (int, error) {
	r, cErr := C.pread(C.int(fd), cbuf(buf), C.size_t(len(buf)), C.off_t(off))
	return csize(r, cErr)
}

func Pwrite(fd int32, buf []byte, off uint64) (int, error) {
	r, cErr := C.pwrite(C.int(fd), cbuf(buf), C.size_t(len(buf)), C.off_t(off))
	return csize(r, cErr)
}

func Readv(fd int32, bufs [][]byte) (int, error) {
	iov, pin := pinnedIovecs(bufs)
	defer pin.Unpin()
	r, cErr := C.readv(C.int(fd), ciov(iov), C.int(len(iov)))
	return csize(r, cErr)
}

func Writev(fd int32, bufs [][]byte) (int, error) {
	iov, pin := pinnedIovecs(bufs)
	defer pin.Unpin()
	r, cErr := C.writev(C.int(fd), ciov(iov), C.int(len(iov)))
	return csize(r, cErr)
}

func Preadv(fd int32, bufs [][]byte, off uint64) (int, error) {
	iov, pin := pinnedIovecs(bufs)
	defer pin.Unpin()
	r, cErr := C.preadv(C.int(fd), ciov(iov), C.int(len(iov)), C.off_t(off))
	return csize(r, cErr)
}

func Pwritev(fd int32, bufs [][]byte, off uint64) (int, error) {
	iov, pin := pinnedIovecs(bufs)
	defer pin.Unpin()
	r, cErr := C.pwritev(C.int(fd), ciov(iov), C.int(len(iov)), C.off_t(off))
	return csize(r, cErr)
}

func Preadv2(fd int32, bufs [][]byte, off uint64, flags uint32) (int, error) {
	iov, pin := pinnedIovecs(bufs)
	defer pin.Unpin()
	r, cErr := C.preadv2(C.int(fd), ciov(iov), C.int(len(iov)), C.off_t(off), C.int(flags))
	return csize(r, cErr)
}

func Pwritev2(fd int32, bufs [][]byte, off uint64, flags uint32) (int, error) {
	iov, pin := pinnedIovecs(bufs)
	defer pin.Unpin()
	r, cErr := C.pwritev2(C.int(fd), ciov(iov), C.int(len(iov)), C.off_t(off), C.int(flags))
	return csize(r, cErr)
}

func Dup(fd int32) (int32, error) {
	r, cErr := C.dup(C.int(fd))
	return cfd(r, cErr)
}

func Dup2(fd, newfd int32) error {
	r, cErr := C.dup2(C.int(fd), C.int(newfd))
	_, err := cfd(r, cErr)
	return err
}

func Dup3(fd, newfd int32, flags uint32) error {
	r, cErr := C.dup3(C.int(fd), C.int(newfd), C.int(flags))
	_, err := cfd(r, cErr)
	return err
}

func ioctlPtr(fd int32, req uint, arg unsafe.Pointer) error {
	r, cErr := C.posix_ioctl_ptr(C.int(fd), C.ulong(req), arg)
	return cint(r, cErr)
}

func IoctlFionread(fd int32) (uint64, error) {
	var n C.int
	if err := ioctlPtr(fd, ioctlFionread, unsafe.Pointer(&n)); err != nil {
		return 0, err
	}
	return uint64(n), nil
}

func IoctlFionbio(fd int32, nonblocking bool) error {
	var v C.int
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

// IoctlTcgets uses the TCGETS ioctl directly rather than tcgetattr, which
// would convert to the C library's own struct termios layout.
func IoctlTcgets(fd int32) (Termios, error) {
	var t Termios
	err := ioctlPtr(fd, unix.TCGETS, unsafe.Pointer(&t))
	return t, err
}

func IoctlTiocexcl(fd int32) error {
	r, cErr := C.posix_ioctl_int(C.int(fd), unix.TIOCEXCL, 0)
	return cint(r, cErr)
}

func IoctlTiocnxcl(fd int32) error {
	r, cErr := C.posix_ioctl_int(C.int(fd), unix.TIOCNXCL, 0)
	return cint(r, cErr)
}

func IoctlTiocsctty(fd int32, steal bool) error {
	var arg C.ulong
	if steal {
		arg = 1
	}
	r, cErr := C.posix_ioctl_int(C.int(fd), unix.TIOCSCTTY, arg)
	return cint(r, cErr)
}

func Isatty(fd int32) bool {
	_, err := IoctlTiocgwinsz(fd)
	return err == nil
}

// Ttyname is ttyname_r, which reports failure through its return value
// rather than errno.
func Ttyname(fd int32, buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, errno.ERANGE
	}
	p := (*C.char)(cbuf(buf))
	if r := C.ttyname_r(C.int(fd), p, C.size_t(len(buf))); r != 0 {
		return 0, errno.FromSyscall(syscall.Errno(r))
	}
	return int(C.strlen(p)), nil
}

func Pipe2(flags uint32) ([2]int32, error) {
	var p [2]C.int
	r, cErr := C.pipe2(&p[0], C.int(flags))
	if err := cint(r, cErr); err != nil {
		return [2]int32{}, err
	}
	return [2]int32{int32(p[0]), int32(p[1])}, nil
}

func Eventfd(initval uint32, flags uint32) (int32, error) {
	r, cErr := C.eventfd(C.uint(initval), C.int(flags))
	return cfd(r, cErr)
}

func Openat(dirfd int32, path patharg.CStr, oflags, mode uint32) (int32, error) {
	r, cErr := C.posix_openat(C.int(dirfd), cpath(path), C.int(oflags), C.uint(mode))
	return cfd(r, cErr)
}

func Statx(dirfd int32, path patharg.CStr, flags, mask uint32) (StatxData, error) {
	var stx StatxData
	r, cErr := C.posix_statx(C.int(dirfd), cpath(path), C.int(flags), C.uint(mask), unsafe.Pointer(&stx))
	_, err := clong(r, cErr)
	return stx, err
}

func Readlinkat(dirfd int32, path patharg.CStr, buf []byte) (int, error) {
	r, cErr := C.readlinkat(C.int(dirfd), cpath(path), (*C.char)(cbuf(buf)), C.size_t(len(buf)))
	return csize(r, cErr)
}

func Mkdirat(dirfd int32, path patharg.CStr, mode uint32) error {
	r, cErr := C.mkdirat(C.int(dirfd), cpath(path), C.mode_t(mode))
	return cint(r, cErr)
}

func Mknodat(dirfd int32, path patharg.CStr, mode uint32, dev uint64) error {
	r, cErr := C.mknodat(C.int(dirfd), cpath(path), C.mode_t(mode), C.dev_t(dev))
	return cint(r, cErr)
}

func Unlinkat(dirfd int32, path patharg.CStr, flags uint32) error {
	r, cErr := C.unlinkat(C.int(dirfd), cpath(path), C.int(flags))
	return cint(r, cErr)
}

func Renameat(olddirfd int32, oldpath patharg.CStr, newdirfd int32, newpath patharg.CStr) error {
	r, cErr := C.renameat(C.int(olddirfd), cpath(oldpath), C.int(newdirfd), cpath(newpath))
	return cint(r, cErr)
}

func Renameat2(olddirfd int32, oldpath patharg.CStr, newdirfd int32, newpath patharg.CStr, flags uint32) error {
	r, cErr := C.posix_renameat2(C.int(olddirfd), cpath(oldpath), C.int(newdirfd), cpath(newpath), C.uint(flags))
	_, err := clong(r, cErr)
	return err
}

func Linkat(olddirfd int32, oldpath patharg.CStr, newdirfd int32, newpath patharg.CStr, flags uint32) error {
	r, cErr := C.linkat(C.int(olddirfd), cpath(oldpath), C.int(newdirfd), cpath(newpath), C.int(flags))
	return cint(r, cErr)
}

func Symlinkat(target patharg.CStr, newdirfd int32, newpath patharg.CStr) error {
	r, cErr := C.symlinkat(cpath(target), C.int(newdirfd), cpath(newpath))
	return cint(r, cErr)
}

func Fchmodat(dirfd int32, path patharg.CStr, mode uint32) error {
	r, cErr := C.fchmodat(C.int(dirfd), cpath(path), C.mode_t(mode), 0)
	return cint(r, cErr)
}

func Fchmod(fd int32, mode uint32) error {
	r, cErr := C.fchmod(C.int(fd), C.mode_t(mode))
	return cint(r, cErr)
}

// Faccessat always passes flags 0; the C library would otherwise emulate
// AT_EACCESS in user space, which the caller handles instead.
func Faccessat(dirfd int32, path patharg.CStr, mode uint32) error {
	r, cErr := C.faccessat(C.int(dirfd), cpath(path), C.int(mode), 0)
	return cint(r, cErr)
}

func Fsync(fd int32) error {
	r, cErr := C.fsync(C.int(fd))
	return cint(r, cErr)
}

func Fdatasync(fd int32) error {
	r, cErr := C.fdatasync(C.int(fd))
	return cint(r, cErr)
}

func Flock(fd int32, op int32) error {
	r, cErr := C.flock(C.int(fd), C.int(op))
	return cint(r, cErr)
}

func Getdents64(fd int32, buf []byte) (int, error) {
	r, cErr := C.posix_getdents64(C.int(fd), cbuf(buf), C.size_t(len(buf)))
	return clong(r, cErr)
}

func CopyFileRange(fdIn int32, offIn *uint64, fdOut int32, offOut *uint64, length uint64, flags uint32) (uint64, error) {
	if uint64(C.size_t(length)) != length {
		return 0, errno.EINVAL
	}
	r, cErr := C.posix_copy_file_range(C.int(fdIn), (*C.uint64_t)(unsafe.Pointer(offIn)), C.int(fdOut), (*C.uint64_t)(unsafe.Pointer(offOut)), C.size_t(length), C.uint(flags))
	n, err := csize(r, cErr)
	return uint64(n), err
}

func MemfdCreate(name patharg.CStr, flags uint32) (int32, error) {
	r, cErr := C.memfd_create(cpath(name), C.uint(flags))
	return cfd(r, cErr)
}

func Sendfile(outFd, inFd int32, off *uint64, count uintptr) (int, error) {
	r, cErr := C.posix_sendfile(C.int(outFd), C.int(inFd), (*C.uint64_t)(unsafe.Pointer(off)), C.size_t(count))
	return csize(r, cErr)
}

// Getcwd returns the length including the terminating NUL, as the system
// call does.
func Getcwd(buf []byte) (int, error) {
	r, err := C.getcwd((*C.char)(cbuf(buf)), C.size_t(len(buf)))
	if r == nil {
		return 0, cerr(err)
	}
	return int(C.strlen(r)) + 1, nil
}

func Chdir(path patharg.CStr) error {
	r, cErr := C.chdir(cpath(path))
	return cint(r, cErr)
}

func Fchdir(fd int32) error {
	r, cErr := C.fchdir(C.int(fd))
	return cint(r, cErr)
}

func fcntl(fd int32, cmd int, arg uintptr) (int, error) {
	r, err := C.posix_fcntl(C.int(fd), C.int(cmd), C.long(arg))
	if r < 0 {
		return 0, cerr(err)
	}
	return int(r), nil
}

func FcntlGetfd(fd int32) (uint32, error) {
	r, err := fcntl(fd, unix.F_GETFD, 0)
	return uint32(r), err
}

func FcntlSetfd(fd int32, flags uint32) error {
	_, err := fcntl(fd, unix.F_SETFD, uintptr(flags))
	return err
}

func FcntlGetfl(fd int32) (uint32, error) {
	r, err := fcntl(fd, unix.F_GETFL, 0)
	return uint32(r), err
}

func FcntlSetfl(fd int32, flags uint32) error {
	_, err := fcntl(fd, unix.F_SETFL, uintptr(flags))
	return err
}

func FcntlDupfdCloexec(fd int32, min int32) (int32, error) {
	r, err := fcntl(fd, unix.F_DUPFD_CLOEXEC, uintptr(min))
	if err != nil {
		return -1, err
	}
	return int32(r), nil
}

func FcntlGetPipeSize(fd int32) (int, error) {
	return fcntl(fd, unix.F_GETPIPE_SZ, 0)
}

func FcntlSetPipeSize(fd int32, size int) error {
	_, err := fcntl(fd, unix.F_SETPIPE_SZ, uintptr(size))
	return err
}

func FcntlGetSeals(fd int32) (uint32, error) {
	r, err := fcntl(fd, unix.F_GET_SEALS, 0)
	return uint32(r), err
}

func FcntlAddSeals(fd int32, seals uint32) error {
	_, err := fcntl(fd, unix.F_ADD_SEALS, uintptr(seals))
	return err
}

// Utimensat with a nil path is futimens.
func Utimensat(dirfd int32, path patharg.CStr, times *[2]Timespec, flags uint32) error {
	var ctimes *C.struct_timespec
	var buf [2]C.struct_timespec
	if times != nil {
		buf[0] = toCTimespec(&times[0])
		buf[1] = toCTimespec(&times[1])
		ctimes = &buf[0]
	}
	if path == nil {
		r, cErr := C.futimens(C.int(dirfd), ctimes)
		return cint(r, cErr)
	}
	r, cErr := C.utimensat(C.int(dirfd), cpath(path), ctimes, C.int(flags))
	return cint(r, cErr)
}

func Seek(fd int32, off int64, whence int32) (uint64, error) {
	r, err := C.lseek(C.int(fd), C.off_t(off), C.int(whence))
	if r < 0 {
		return 0, cerr(err)
	}
	return uint64(r), nil
}

func Ftruncate(fd int32, length uint64) error {
	if int64(length) < 0 {
		return errno.EINVAL
	}
	r, cErr := C.ftruncate(C.int(fd), C.off_t(length))
	return cint(r, cErr)
}

func Fallocate(fd int32, mode uint32, off, length uint64) error {
	r, cErr := C.fallocate(C.int(fd), C.int(mode), C.off_t(off), C.off_t(length))
	return cint(r, cErr)
}

// Fadvise returns the error number directly rather than through errno.
func Fadvise(fd int32, off, length uint64, advice int32) error {
	if r := C.posix_fadvise(C.int(fd), C.off_t(off), C.off_t(length), C.int(advice)); r != 0 {
		return errno.FromSyscall(syscall.Errno(r))
	}
	return nil
}

func statFromC(st *C.struct_stat) Stat {
	return Stat{
		Dev:     uint64(st.st_dev),
		Ino:     uint64(st.st_ino),
		Nlink:   uint64(st.st_nlink),
		Mode:    uint32(st.st_mode),
		Uid:     uint32(st.st_uid),
		Gid:     uint32(st.st_gid),
		Rdev:    uint64(st.st_rdev),
		Size:    int64(st.st_size),
		Blksize: int64(st.st_blksize),
		Blocks:  int64(st.st_blocks),
		Atime:   fromCTimespec(&st.st_atim),
		Mtime:   fromCTimespec(&st.st_mtim),
		Ctime:   fromCTimespec(&st.st_ctim),
	}
}

func Fstat(fd int32) (Stat, error) {
	var st C.struct_stat
	r, cErr := C.fstat(C.int(fd), &st)
	if err := cint(r, cErr); err != nil {
		return Stat{}, err
	}
	return statFromC(&st), nil
}

func Statat(dirfd int32, path patharg.CStr, flags uint32) (Stat, error) {
	var st C.struct_stat
	r, cErr := C.fstatat(C.int(dirfd), cpath(path), &st, C.int(flags))
	if err := cint(r, cErr); err != nil {
		return Stat{}, err
	}
	return statFromC(&st), nil
}

// Fstatfs relies on the C library's struct statfs having the kernel's
// statfs64 layout when _FILE_OFFSET_BITS is 64, which is what StatFs is.
func Fstatfs(fd int32) (StatFs, error) {
	var st StatFs
	r, cErr := C.fstatfs(C.int(fd), (*C.struct_statfs)(unsafe.Pointer(&st)))
	err := cint(r, cErr)
	return st, err
}

func Mmap(addr unsafe.Pointer, length uintptr, prot, flags uint32, fd int32, off uint64) (unsafe.Pointer, error) {
	r, err := C.mmap(addr, C.size_t(length), C.int(prot), C.int(flags), C.int(fd), C.off_t(off))
	if uintptr(r) == ^uintptr(0) {
		return nil, cerr(err)
	}
	return r, nil
}

func Munmap(addr unsafe.Pointer, length uintptr) error {
	r, cErr := C.munmap(addr, C.size_t(length))
	return cint(r, cErr)
}

func Mprotect(addr unsafe.Pointer, length uintptr, prot uint32) error {
	r, cErr := C.mprotect(addr, C.size_t(length), C.int(prot))
	return cint(r, cErr)
}

func Mlock(addr unsafe.Pointer, length uintptr) error {
	r, cErr := C.mlock(addr, C.size_t(length))
	return cint(r, cErr)
}

func Mlock2(addr unsafe.Pointer, length uintptr, flags uint32) error {
	r, cErr := C.mlock2(addr, C.size_t(length), C.uint(flags))
	return cint(r, cErr)
}

func Munlock(addr unsafe.Pointer, length uintptr) error {
	r, cErr := C.munlock(addr, C.size_t(length))
	return cint(r, cErr)
}

func Madvise(addr unsafe.Pointer, length uintptr, advice int32) error {
	r, cErr := C.madvise(addr, C.size_t(length), C.int(advice))
	return cint(r, cErr)
}

func csockaddr(rsa *unix.RawSockaddrAny) *C.struct_sockaddr {
	return (*C.struct_sockaddr)(unsafe.Pointer(rsa))
}

func Socket(domain, typ, proto int32) (int32, error) {
	r, cErr := C.socket(C.int(domain), C.int(typ), C.int(proto))
	return cfd(r, cErr)
}

func Socketpair(domain, typ, proto int32) ([2]int32, error) {
	var fds [2]C.int
	r, cErr := C.socketpair(C.int(domain), C.int(typ), C.int(proto), &fds[0])
	if err := cint(r, cErr); err != nil {
		return [2]int32{}, err
	}
	return [2]int32{int32(fds[0]), int32(fds[1])}, nil
}

func Bind(fd int32, addr SocketAddr) error {
	var rsa unix.RawSockaddrAny
	n := addr.encode(&rsa)
	r, cErr := C.posix_bind(C.int(fd), csockaddr(&rsa), C.socklen_t(n))
	return cint(r, cErr)
}

func Connect(fd int32, addr SocketAddr) error {
	var rsa unix.RawSockaddrAny
	n := addr.encode(&rsa)
	r, cErr := C.posix_connect(C.int(fd), csockaddr(&rsa), C.socklen_t(n))
	return cint(r, cErr)
}

func Listen(fd int32, backlog int32) error {
	r, cErr := C.listen(C.int(fd), C.int(backlog))
	return cint(r, cErr)
}

func Accept4(fd int32, flags uint32) (int32, error) {
	r, cErr := C.posix_accept4(C.int(fd), nil, nil, C.int(flags))
	return cfd(r, cErr)
}

func AcceptFrom(fd int32, flags uint32) (int32, SocketAddr, error) {
	var rsa unix.RawSockaddrAny
	addrlen := C.socklen_t(unsafe.Sizeof(rsa))
	r, cErr := C.posix_accept4(C.int(fd), csockaddr(&rsa), &addrlen, C.int(flags))
	nfd, err := cfd(r, cErr)
	if err != nil {
		return -1, nil, err
	}
	addr, err := DecodeSockaddr(&rsa, uint32(addrlen))
	if err != nil {
		_ = Close(nfd)
		return -1, nil, err
	}
	return nfd, addr, nil
}

func Shutdown(fd int32, how int32) error {
	r, cErr := C.shutdown(C.int(fd), C.int(how))
	return cint(r, cErr)
}

func Send(fd int32, buf []byte, flags uint32) (int, error) {
	r, cErr := C.send(C.int(fd), cbuf(buf), C.size_t(len(buf)), C.int(flags))
	return csize(r, cErr)
}

func SendTo(fd int32, buf []byte, flags uint32, addr SocketAddr) (int, error) {
	var rsa unix.RawSockaddrAny
	n := addr.encode(&rsa)
	r, cErr := C.posix_sendto(C.int(fd), cbuf(buf), C.size_t(len(buf)), C.int(flags), csockaddr(&rsa), C.socklen_t(n))
	return csize(r, cErr)
}

func Recv(fd int32, buf []byte, flags uint32) (int, error) {
	r, cErr := C.recv(C.int(fd), cbuf(buf), C.size_t(len(buf)), C.int(flags))
	return csize(r, cErr)
}

func RecvFrom(fd int32, buf []byte, flags uint32) (int, SocketAddr, error) {
	var rsa unix.RawSockaddrAny
	addrlen := C.socklen_t(unsafe.Sizeof(rsa))
	r, cErr := C.posix_recvfrom(C.int(fd), cbuf(buf), C.size_t(len(buf)), C.int(flags), csockaddr(&rsa), &addrlen)
	n, err := csize(r, cErr)
	if err != nil {
		return 0, nil, err
	}
	addr, err := DecodeSockaddr(&rsa, uint32(addrlen))
	return n, addr, err
}

func Getsockname(fd int32) (SocketAddr, error) {
	var rsa unix.RawSockaddrAny
	addrlen := C.socklen_t(unsafe.Sizeof(rsa))
	r, cErr := C.posix_getsockname(C.int(fd), csockaddr(&rsa), &addrlen)
	if err := cint(r, cErr); err != nil {
		return nil, err
	}
	return DecodeSockaddr(&rsa, uint32(addrlen))
}

func Getpeername(fd int32) (SocketAddr, error) {
	var rsa unix.RawSockaddrAny
	addrlen := C.socklen_t(unsafe.Sizeof(rsa))
	r, cErr := C.posix_getpeername(C.int(fd), csockaddr(&rsa), &addrlen)
	if err := cint(r, cErr); err != nil {
		return nil, err
	}
	return DecodeSockaddr(&rsa, uint32(addrlen))
}

func GetsockoptInt(fd int32, level, opt int32) (int32, error) {
	var v C.int
	vlen := C.socklen_t(unsafe.Sizeof(v))
	r, cErr := C.getsockopt(C.int(fd), C.int(level), C.int(opt), unsafe.Pointer(&v), &vlen)
	err := cint(r, cErr)
	return int32(v), err
}

func SetsockoptInt(fd int32, level, opt, value int32) error {
	v := C.int(value)
	r, cErr := C.setsockopt(C.int(fd), C.int(level), C.int(opt), unsafe.Pointer(&v), C.socklen_t(unsafe.Sizeof(v)))
	return cint(r, cErr)
}

func Getpid() int32  { return int32(C.getpid()) }
func Getppid() int32 { return int32(C.getppid()) }
func Gettid() int32  { return int32(C.posix_gettid()) }

func Getuid() uint32  { return uint32(C.getuid()) }
func Geteuid() uint32 { return uint32(C.geteuid()) }
func Getgid() uint32  { return uint32(C.getgid()) }
func Getegid() uint32 { return uint32(C.getegid()) }

func Uname() Utsname {
	var u unix.Utsname
	if r, err := C.uname((*C.struct_utsname)(unsafe.Pointer(&u))); r < 0 {
		panic("uname: " + cerr(err).Error())
	}
	return utsnameToUname(&u)
}

func SchedYield() {
	C.sched_yield()
}

// Getpriority can legitimately return -1, so failure is detected through
// errno alone.
func Getpriority(which, who int32) (int32, error) {
	r, err := C.getpriority(C.int(which), C.id_t(who))
	if err != nil {
		return 0, cerr(err)
	}
	return int32(r), nil
}

func Setpriority(which, who, prio int32) error {
	r, cErr := C.setpriority(C.int(which), C.id_t(who), C.int(prio))
	return cint(r, cErr)
}

func ClockGettime(id int32) (Timespec, error) {
	var ts C.struct_timespec
	r, cErr := C.clock_gettime(C.clockid_t(id), &ts)
	if err := cint(r, cErr); err != nil {
		return Timespec{}, err
	}
	return fromCTimespec(&ts), nil
}

func ClockGetres(id int32) (Timespec, error) {
	var ts C.struct_timespec
	r, cErr := C.clock_getres(C.clockid_t(id), &ts)
	if err := cint(r, cErr); err != nil {
		return Timespec{}, err
	}
	return fromCTimespec(&ts), nil
}

func sleepResultC(e syscall.Errno, rem *C.struct_timespec) NanosleepRelativeResult {
	switch e {
	case 0:
		return NanosleepRelativeResult{}
	case unix.EINTR:
		return NanosleepRelativeResult{Interrupted: true, Remaining: fromCTimespec(rem)}
	}
	return NanosleepRelativeResult{Err: errno.FromSyscall(e)}
}

// ClockNanosleep reports its error as the return value, not through errno.
func ClockNanosleep(id int32, flags uint32, req *Timespec) NanosleepRelativeResult {
	creq := toCTimespec(req)
	var rem C.struct_timespec
	r := C.clock_nanosleep(C.clockid_t(id), C.int(flags), &creq, &rem)
	return sleepResultC(syscall.Errno(r), &rem)
}

func Nanosleep(req *Timespec) NanosleepRelativeResult {
	creq := toCTimespec(req)
	var rem C.struct_timespec
	if r, err := C.nanosleep(&creq, &rem); r < 0 {
		var e syscall.Errno
		if !errors.As(err, &e) {
			e = unix.EIO
		}
		return sleepResultC(e, &rem)
	}
	return NanosleepRelativeResult{}
}

func TimerfdCreate(clockid int32, flags uint32) (int32, error) {
	r, cErr := C.timerfd_create(C.int(clockid), C.int(flags))
	return cfd(r, cErr)
}

func TimerfdSettime(fd int32, flags uint32, newValue *Itimerspec) (Itimerspec, error) {
	cnew := C.struct_itimerspec{
		it_interval: toCTimespec(&newValue.Interval),
		it_value:    toCTimespec(&newValue.Value),
	}
	var old C.struct_itimerspec
	r, cErr := C.timerfd_settime(C.int(fd), C.int(flags), &cnew, &old)
	if err := cint(r, cErr); err != nil {
		return Itimerspec{}, err
	}
	return Itimerspec{Interval: fromCTimespec(&old.it_interval), Value: fromCTimespec(&old.it_value)}, nil
}

func TimerfdGettime(fd int32) (Itimerspec, error) {
	var cur C.struct_itimerspec
	r, cErr := C.timerfd_gettime(C.int(fd), &cur)
	if err := cint(r, cErr); err != nil {
		return Itimerspec{}, err
	}
	return Itimerspec{Interval: fromCTimespec(&cur.it_interval), Value: fromCTimespec(&cur.it_value)}, nil
}

func Poll(fds []PollFd, timeoutMs int32) (int, error) {
	r, err := C.poll((*C.struct_pollfd)(unsafe.Pointer(unsafe.SliceData(fds))), C.nfds_t(len(fds)), C.int(timeoutMs))
	if r < 0 {
		return 0, cerr(err)
	}
	return int(r), nil
}

func EpollCreate1(flags uint32) (int32, error) {
	r, cErr := C.epoll_create1(C.int(flags))
	return cfd(r, cErr)
}

func EpollCtl(epfd int32, op int32, fd int32, event *EpollEvent) error {
	var kev *unix.EpollEvent
	if event != nil {
		kev = new(unix.EpollEvent)
		encodeEpollEvent(kev, event)
	}
	r, cErr := C.epoll_ctl(C.int(epfd), C.int(op), C.int(fd), (*C.struct_epoll_event)(unsafe.Pointer(kev)))
	return cint(r, cErr)
}

func EpollWait(epfd int32, events []EpollEvent, timeoutMs int32) (int, error) {
	kev := make([]unix.EpollEvent, len(events))
	r, err := C.epoll_wait(C.int(epfd), (*C.struct_epoll_event)(unsafe.Pointer(unsafe.SliceData(kev))), C.int(len(kev)), C.int(timeoutMs))
	if r < 0 {
		return 0, cerr(err)
	}
	n := int(r)
	for i := 0; i < n; i++ {
		decodeEpollEvent(&events[i], &kev[i])
	}
	return n, nil
}
