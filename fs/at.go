// Package fs provides file system operations: the *at family of path
// functions, stat and statx, and the file-descriptor operations that only
// make sense on files (seeking, truncation, allocation, locking, sealing,
// directory reading).
//
// Path arguments may be any [patharg.Arg]. Errors from path operations are
// [*os.PathError] values and errors from descriptor operations are
// [*os.SyscallError] values; both wrap an [errno.Errno].
package fs

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/opencontainers/posix/errno"
	"github.com/opencontainers/posix/fd"
	"github.com/opencontainers/posix/internal/imp"
	"github.com/opencontainers/posix/patharg"
)

type (
	// Stat is the decoded result of the stat family.
	Stat = imp.Stat
	// StatFs is struct statfs.
	StatFs = imp.StatFs
	// StatxData is struct statx.
	StatxData = imp.StatxData
	// Timespec is a 64-bit seconds and nanoseconds pair.
	Timespec = imp.Timespec
)

// Timestamps holds the access and modification times for Utimensat. Either
// Nsec may be UtimeNow or UtimeOmit.
type Timestamps struct {
	LastAccess       Timespec
	LastModification Timespec
}

// Cwd returns the AT_FDCWD pseudo-descriptor, which makes the *at functions
// resolve relative paths against the current working directory.
func Cwd() fd.BorrowedFd {
	return fd.Borrow(unix.AT_FDCWD)
}

func rawFd(f fd.AsFd) int32 {
	return int32(f.AsFd().Raw())
}

func pathErr[P patharg.Arg](op string, path P, err error) error {
	if err == nil {
		return nil
	}
	return &os.PathError{Op: op, Path: patharg.String(path), Err: err}
}

// Open opens path relative to the current working directory.
func Open[P patharg.Arg](path P, flags OFlags, mode Mode) (*fd.OwnedFd, error) {
	return Openat(Cwd(), path, flags, mode)
}

// Openat opens path relative to dirfd. The kernel hands out the lowest free
// descriptor number, but other threads may allocate descriptors at any time,
// so callers should not depend on which number they get.
func Openat[P patharg.Arg](dirfd fd.AsFd, path P, flags OFlags, mode Mode) (*fd.OwnedFd, error) {
	d := rawFd(dirfd)
	n, err := patharg.WithCStr(path, func(c patharg.CStr) (int32, error) {
		return imp.Openat(d, c, uint32(flags), uint32(mode))
	})
	if err != nil {
		return nil, pathErr("openat", path, err)
	}
	return fd.FromRaw(int(n)), nil
}

// Statat returns information about path relative to dirfd. With
// AtSymlinkNofollow a final symlink is reported rather than followed.
func Statat[P patharg.Arg](dirfd fd.AsFd, path P, flags AtFlags) (Stat, error) {
	d := rawFd(dirfd)
	st, err := patharg.WithCStr(path, func(c patharg.CStr) (Stat, error) {
		return imp.Statat(d, c, uint32(flags))
	})
	return st, pathErr("statat", path, err)
}

// StatPath is Statat relative to the current working directory.
func StatPath[P patharg.Arg](path P) (Stat, error) {
	return Statat(Cwd(), path, 0)
}

// Lstat is StatPath without following a final symlink.
func Lstat[P patharg.Arg](path P) (Stat, error) {
	return Statat(Cwd(), path, AtSymlinkNofollow)
}

// Statx returns the fields of mask for path relative to dirfd. The kernel
// may fill in more or fewer fields than requested; check Mask in the result.
func Statx[P patharg.Arg](dirfd fd.AsFd, path P, flags AtFlags, mask StatxFlags) (StatxData, error) {
	d := rawFd(dirfd)
	stx, err := patharg.WithCStr(path, func(c patharg.CStr) (StatxData, error) {
		return imp.Statx(d, c, uint32(flags), uint32(mask))
	})
	return stx, pathErr("statx", path, err)
}

// Statfs returns information about the file system containing path.
func Statfs[P patharg.Arg](path P) (StatFs, error) {
	f, err := Open(path, OPath|OCloexec, 0)
	if err != nil {
		return StatFs{}, err
	}
	defer f.Close()
	st, err := imp.Fstatfs(rawFd(f))
	return st, pathErr("statfs", path, err)
}

// Readlinkat returns the target of the symlink at path. If reuse has spare
// capacity it is used for the result. The buffer starts at 256 bytes and
// doubles until the target fits.
func Readlinkat[P patharg.Arg](dirfd fd.AsFd, path P, reuse []byte) ([]byte, error) {
	d := rawFd(dirfd)
	out, err := patharg.WithCStr(path, func(c patharg.CStr) ([]byte, error) {
		buf := reuse[:0]
		size := 256
		for {
			if cap(buf) < size {
				buf = make([]byte, size)
			} else {
				buf = buf[:size]
			}
			n, err := imp.Readlinkat(d, c, buf)
			if err != nil {
				return nil, err
			}
			if n < len(buf) {
				return buf[:n], nil
			}
			size *= 2
		}
	})
	return out, pathErr("readlinkat", path, err)
}

// Readlink is Readlinkat relative to the current working directory.
func Readlink[P patharg.Arg](path P) (string, error) {
	b, err := Readlinkat(Cwd(), path, nil)
	return string(b), err
}

func Mkdirat[P patharg.Arg](dirfd fd.AsFd, path P, mode Mode) error {
	d := rawFd(dirfd)
	_, err := patharg.WithCStr(path, func(c patharg.CStr) (struct{}, error) {
		return struct{}{}, imp.Mkdirat(d, c, uint32(mode))
	})
	return pathErr("mkdirat", path, err)
}

// Mknodat creates a file system node of the given type. dev is only used for
// device nodes and must fit the kernel's 32-bit encoding (see unix.Mkdev).
func Mknodat[P patharg.Arg](dirfd fd.AsFd, path P, typ FileType, mode Mode, dev uint64) error {
	d := rawFd(dirfd)
	_, err := patharg.WithCStr(path, func(c patharg.CStr) (struct{}, error) {
		return struct{}{}, imp.Mknodat(d, c, uint32(typ)|uint32(mode), dev)
	})
	return pathErr("mknodat", path, err)
}

// Unlinkat removes a file, or with AtRemovedir an empty directory.
func Unlinkat[P patharg.Arg](dirfd fd.AsFd, path P, flags AtFlags) error {
	d := rawFd(dirfd)
	_, err := patharg.WithCStr(path, func(c patharg.CStr) (struct{}, error) {
		return struct{}{}, imp.Unlinkat(d, c, uint32(flags))
	})
	return pathErr("unlinkat", path, err)
}

func Renameat[P, Q patharg.Arg](oldDirfd fd.AsFd, oldPath P, newDirfd fd.AsFd, newPath Q) error {
	od, nd := rawFd(oldDirfd), rawFd(newDirfd)
	_, err := patharg.With2CStr(oldPath, newPath, func(o, n patharg.CStr) (struct{}, error) {
		return struct{}{}, imp.Renameat(od, o, nd, n)
	})
	return pathErr("renameat", oldPath, err)
}

func Renameat2[P, Q patharg.Arg](oldDirfd fd.AsFd, oldPath P, newDirfd fd.AsFd, newPath Q, flags RenameFlags) error {
	od, nd := rawFd(oldDirfd), rawFd(newDirfd)
	_, err := patharg.With2CStr(oldPath, newPath, func(o, n patharg.CStr) (struct{}, error) {
		return struct{}{}, imp.Renameat2(od, o, nd, n, uint32(flags))
	})
	return pathErr("renameat2", oldPath, err)
}

// Linkat creates a hard link. With AtSymlinkFollow a symlink at oldPath is
// dereferenced; AtEmptyPath links the file dirfd itself refers to.
func Linkat[P, Q patharg.Arg](oldDirfd fd.AsFd, oldPath P, newDirfd fd.AsFd, newPath Q, flags AtFlags) error {
	od, nd := rawFd(oldDirfd), rawFd(newDirfd)
	_, err := patharg.With2CStr(oldPath, newPath, func(o, n patharg.CStr) (struct{}, error) {
		return struct{}{}, imp.Linkat(od, o, nd, n, uint32(flags))
	})
	return pathErr("linkat", newPath, err)
}

// Symlinkat creates newPath as a symlink pointing to target. target is
// stored as is and is not resolved.
func Symlinkat[P, Q patharg.Arg](target P, newDirfd fd.AsFd, newPath Q) error {
	nd := rawFd(newDirfd)
	_, err := patharg.With2CStr(target, newPath, func(t, n patharg.CStr) (struct{}, error) {
		return struct{}{}, imp.Symlinkat(t, nd, n)
	})
	return pathErr("symlinkat", newPath, err)
}

// Accessat checks whether the calling process can access path.
//
// Only two flag settings are supported. With no flags the check uses the real
// user and group ids, as access(2) does. AtEaccess, which asks for the
// effective ids, works only while the real and effective ids are equal (so the
// answer is the same); otherwise Accessat fails with ENOSYS rather than
// emulating the check in user space. Any other flag gives EINVAL.
func Accessat[P patharg.Arg](dirfd fd.AsFd, path P, access Access, flags AtFlags) error {
	switch flags {
	case 0:
	case AtEaccess:
		if imp.Getuid() != imp.Geteuid() || imp.Getgid() != imp.Getegid() {
			return pathErr("faccessat", path, errno.ENOSYS)
		}
	default:
		return pathErr("faccessat", path, errno.EINVAL)
	}
	d := rawFd(dirfd)
	_, err := patharg.WithCStr(path, func(c patharg.CStr) (struct{}, error) {
		return struct{}{}, imp.Faccessat(d, c, uint32(access))
	})
	return pathErr("faccessat", path, err)
}

// Chmodat changes the permission bits of path. Symlinks are always followed;
// the kernel has no way to change the mode of a link itself.
func Chmodat[P patharg.Arg](dirfd fd.AsFd, path P, mode Mode) error {
	d := rawFd(dirfd)
	_, err := patharg.WithCStr(path, func(c patharg.CStr) (struct{}, error) {
		return struct{}{}, imp.Fchmodat(d, c, uint32(mode))
	})
	return pathErr("fchmodat", path, err)
}

// Utimensat sets the access and modification times of path.
func Utimensat[P patharg.Arg](dirfd fd.AsFd, path P, times *Timestamps, flags AtFlags) error {
	d := rawFd(dirfd)
	_, err := patharg.WithCStr(path, func(c patharg.CStr) (struct{}, error) {
		return struct{}{}, imp.Utimensat(d, c, timesArg(times), uint32(flags))
	})
	return pathErr("utimensat", path, err)
}

func timesArg(times *Timestamps) *[2]Timespec {
	if times == nil {
		return nil
	}
	return &[2]Timespec{times.LastAccess, times.LastModification}
}

// Chdir changes the working directory.
func Chdir[P patharg.Arg](path P) error {
	_, err := patharg.WithCStr(path, func(c patharg.CStr) (struct{}, error) {
		return struct{}{}, imp.Chdir(c)
	})
	return pathErr("chdir", path, err)
}

// Getcwd returns the working directory, without a trailing NUL. If reuse has
// enough capacity it holds the result.
func Getcwd(reuse []byte) ([]byte, error) {
	buf := reuse[:cap(reuse)]
	if len(buf) < 256 {
		buf = make([]byte, 256)
	}
	for {
		n, err := imp.Getcwd(buf)
		if err == nil {
			// The kernel counts the terminator.
			return buf[:n-1], nil
		}
		if e, _ := errno.Of(err); e != errno.ERANGE {
			return nil, os.NewSyscallError("getcwd", err)
		}
		buf = make([]byte, 2*len(buf))
	}
}
