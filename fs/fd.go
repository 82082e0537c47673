package fs

import (
	"os"

	"github.com/opencontainers/posix/fd"
	"github.com/opencontainers/posix/internal/imp"
	"github.com/opencontainers/posix/patharg"
)

// Fstat returns information about the file f refers to.
func Fstat(f fd.AsFd) (Stat, error) {
	st, err := imp.Fstat(rawFd(f))
	return st, os.NewSyscallError("fstat", err)
}

// Fstatfs returns information about the file system containing f.
func Fstatfs(f fd.AsFd) (StatFs, error) {
	st, err := imp.Fstatfs(rawFd(f))
	return st, os.NewSyscallError("fstatfs", err)
}

// Fchmod changes the permission bits of f.
func Fchmod(f fd.AsFd, mode Mode) error {
	return os.NewSyscallError("fchmod", imp.Fchmod(rawFd(f), uint32(mode)))
}

// Futimens sets the access and modification times of f.
func Futimens(f fd.AsFd, times *Timestamps) error {
	return os.NewSyscallError("futimens", imp.Utimensat(rawFd(f), nil, timesArg(times), 0))
}

// Fchdir changes the working directory to the directory f refers to.
func Fchdir(f fd.AsFd) error {
	return os.NewSyscallError("fchdir", imp.Fchdir(rawFd(f)))
}

// Seek moves the file position and returns the new position.
func Seek(f fd.AsFd, off int64, whence Whence) (uint64, error) {
	pos, err := imp.Seek(rawFd(f), off, int32(whence))
	return pos, os.NewSyscallError("lseek", err)
}

// Tell returns the current file position.
func Tell(f fd.AsFd) (uint64, error) {
	return Seek(f, 0, SeekCur)
}

// Ftruncate sets the size of f. Lengths that do not fit in off_t give EINVAL.
func Ftruncate(f fd.AsFd, length uint64) error {
	return os.NewSyscallError("ftruncate", imp.Ftruncate(rawFd(f), length))
}

func Fallocate(f fd.AsFd, mode FallocateFlags, off, length uint64) error {
	return os.NewSyscallError("fallocate", imp.Fallocate(rawFd(f), uint32(mode), off, length))
}

func Fadvise(f fd.AsFd, off, length uint64, advice Advice) error {
	return os.NewSyscallError("fadvise64", imp.Fadvise(rawFd(f), off, length, int32(advice)))
}

func Fsync(f fd.AsFd) error {
	return os.NewSyscallError("fsync", imp.Fsync(rawFd(f)))
}

func Fdatasync(f fd.AsFd) error {
	return os.NewSyscallError("fdatasync", imp.Fdatasync(rawFd(f)))
}

// Flock applies or removes an advisory lock on the open file description.
func Flock(f fd.AsFd, op FlockOperation) error {
	return os.NewSyscallError("flock", imp.Flock(rawFd(f), int32(op)))
}

// FcntlGetfl returns the file status flags and access mode of f.
func FcntlGetfl(f fd.AsFd) (OFlags, error) {
	fl, err := imp.FcntlGetfl(rawFd(f))
	return OFlags(fl), os.NewSyscallError("fcntl", err)
}

// FcntlSetfl sets the file status flags of f. The kernel ignores the access
// mode and creation flags.
func FcntlSetfl(f fd.AsFd, flags OFlags) error {
	return os.NewSyscallError("fcntl", imp.FcntlSetfl(rawFd(f), uint32(flags)))
}

// FcntlDupfdCloexec duplicates f onto the lowest free number that is at
// least min, with FD_CLOEXEC set.
func FcntlDupfdCloexec(f fd.AsFd, min int) (*fd.OwnedFd, error) {
	n, err := imp.FcntlDupfdCloexec(rawFd(f), int32(min))
	if err != nil {
		return nil, os.NewSyscallError("fcntl", err)
	}
	return fd.FromRaw(int(n)), nil
}

func FcntlGetSeals(f fd.AsFd) (SealFlags, error) {
	s, err := imp.FcntlGetSeals(rawFd(f))
	return SealFlags(s), os.NewSyscallError("fcntl", err)
}

func FcntlAddSeals(f fd.AsFd, seals SealFlags) error {
	return os.NewSyscallError("fcntl", imp.FcntlAddSeals(rawFd(f), uint32(seals)))
}

// FcntlGetPipeSize returns the capacity of the pipe f.
func FcntlGetPipeSize(f fd.AsFd) (int, error) {
	n, err := imp.FcntlGetPipeSize(rawFd(f))
	return n, os.NewSyscallError("fcntl", err)
}

// FcntlSetPipeSize changes the capacity of the pipe f. The kernel rounds the
// size up.
func FcntlSetPipeSize(f fd.AsFd, size int) error {
	return os.NewSyscallError("fcntl", imp.FcntlSetPipeSize(rawFd(f), size))
}

// CopyFileRange copies up to length bytes between two files inside the
// kernel. A nil offset uses and advances the file position; a non-nil one is
// used and updated instead.
func CopyFileRange(in fd.AsFd, offIn *uint64, out fd.AsFd, offOut *uint64, length uint64) (uint64, error) {
	n, err := imp.CopyFileRange(rawFd(in), offIn, rawFd(out), offOut, length, 0)
	return n, os.NewSyscallError("copy_file_range", err)
}

// Sendfile copies up to count bytes from in to out. With a nil off the file
// position of in is used and advanced.
func Sendfile(out, in fd.AsFd, off *uint64, count uint) (int, error) {
	n, err := imp.Sendfile(rawFd(out), rawFd(in), off, uintptr(count))
	return n, os.NewSyscallError("sendfile", err)
}

// MemfdCreate creates an anonymous memory-backed file. name only shows up in
// /proc and need not be unique.
func MemfdCreate[P patharg.Arg](name P, flags MemfdFlags) (*fd.OwnedFd, error) {
	n, err := patharg.WithCStr(name, func(c patharg.CStr) (int32, error) {
		return imp.MemfdCreate(c, uint32(flags))
	})
	if err != nil {
		return nil, os.NewSyscallError("memfd_create", err)
	}
	return fd.FromRaw(int(n)), nil
}
