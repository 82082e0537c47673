// Package procfs opens /proc, /proc/<pid> and /proc/<pid>/fd while checking
// that each one really is the procfs directory it claims to be, so that a
// bind mount or a symlink planted over /proc cannot redirect later lookups.
//
// The validated handles are opened once per process and cached. Any failed
// check is reported as ENOTSUP; the reason is only logged, at debug level.
package procfs

import (
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/opencontainers/posix/errno"
	"github.com/opencontainers/posix/fd"
	"github.com/opencontainers/posix/fs"
	"github.com/opencontainers/posix/internal/sys"
	"github.com/opencontainers/posix/patharg"
	"github.com/opencontainers/posix/process"
)

const procRootIno = 1

type kind int

const (
	kindProc kind = iota
	kindPid
	kindFd
)

func (k kind) String() string {
	switch k {
	case kindProc:
		return "/proc"
	case kindPid:
		return "/proc/<pid>"
	}
	return "/proc/<pid>/fd"
}

// handle is a validated directory and the stat taken while validating it.
type handle struct {
	f    *fd.OwnedFd
	stat fs.Stat
}

var (
	procCell   atomic.Pointer[handle]
	selfCell   atomic.Pointer[handle]
	selfFdCell atomic.Pointer[handle]
)

const dirFlags = fs.ONofollow | fs.OPath | fs.ODirectory | fs.OCloexec | fs.ONoctty | fs.ONoatime

// errNotSupported is what every trust failure turns into.
var errNotSupported = &os.PathError{Op: "open", Path: "/proc", Err: errno.ENOTSUP}

// cached returns the handle in cell, computing it with open if the cell is
// empty. Concurrent callers may all run open; the first to store its result
// wins and the others close theirs.
func cached(cell *atomic.Pointer[handle], what kind, open func() (*handle, error)) (*handle, error) {
	if h := cell.Load(); h != nil {
		return h, nil
	}
	h, err := open()
	if err != nil {
		logrus.WithError(err).WithField("entry", what.String()).Debug("procfs: refusing untrusted entry")
		return nil, errNotSupported
	}
	if !cell.CompareAndSwap(nil, h) {
		_ = h.f.Close()
		return cell.Load(), nil
	}
	return h, nil
}

// Root returns a validated O_PATH handle to /proc and its stat.
func Root() (fd.BorrowedFd, fs.Stat, error) {
	h, err := proc()
	if err != nil {
		return fd.BorrowedFd{}, fs.Stat{}, err
	}
	return h.f.AsFd(), h.stat, nil
}

// Self returns a validated O_PATH handle to /proc/<pid> for the calling
// process, and its stat. The directory is found by pid; the "self" symlink
// is never followed.
func Self() (fd.BorrowedFd, fs.Stat, error) {
	h, err := procSelf()
	if err != nil {
		return fd.BorrowedFd{}, fs.Stat{}, err
	}
	return h.f.AsFd(), h.stat, nil
}

// SelfFd returns a validated O_PATH handle to /proc/<pid>/fd.
func SelfFd() (fd.BorrowedFd, error) {
	h, err := procSelfFd()
	if err != nil {
		return fd.BorrowedFd{}, err
	}
	return h.f.AsFd(), nil
}

func proc() (*handle, error) {
	return cached(&procCell, kindProc, func() (*handle, error) {
		f, err := fs.Open("/proc", dirFlags, 0)
		if err != nil {
			return nil, err
		}
		st, err := checkEntry(kindProc, f, nil, 0, 0)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		return &handle{f: f, stat: st}, nil
	})
}

func procSelf() (*handle, error) {
	return cached(&selfCell, kindPid, func() (*handle, error) {
		root, err := proc()
		if err != nil {
			return nil, err
		}
		uid, gid, pid := process.Getuid(), process.Getgid(), process.Getpid()
		f, err := fs.Openat(root.f, patharg.DecInt(int32(pid)), dirFlags, 0)
		if err != nil {
			return nil, err
		}
		st, err := checkEntry(kindPid, f, &root.stat, uint32(uid), uint32(gid))
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		return &handle{f: f, stat: st}, nil
	})
}

func procSelfFd() (*handle, error) {
	return cached(&selfFdCell, kindFd, func() (*handle, error) {
		root, err := proc()
		if err != nil {
			return nil, err
		}
		self, err := procSelf()
		if err != nil {
			return nil, err
		}
		f, err := fs.Openat(self.f, "fd", dirFlags, 0)
		if err != nil {
			return nil, err
		}
		st, err := checkEntry(kindFd, f, &root.stat, self.stat.Uid, self.stat.Gid)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		return &handle{f: f, stat: st}, nil
	})
}

// checkEntry runs every check that applies to an entry of the given kind.
// procStat is the stat of the validated /proc, nil when checking /proc
// itself.
func checkEntry(k kind, entry fd.AsFd, procStat *fs.Stat, uid, gid uint32) (fs.Stat, error) {
	return sys.VerifyInode(entry, func(st *fs.Stat, sfs *fs.StatFs) error {
		if sfs.Type != fs.ProcSuperMagic {
			return fmt.Errorf("f_type %#x is not procfs", sfs.Type)
		}
		// Every entry is opened with O_DIRECTORY.
		if fs.FileTypeFromMode(st.Mode) != fs.TypeDirectory {
			panic(fmt.Sprintf("procfs: %v opened with O_DIRECTORY is a %v", k, fs.FileTypeFromMode(st.Mode)))
		}
		if k == kindProc {
			if err := checkRoot(entry, st); err != nil {
				return err
			}
		} else if err := checkSubdir(entry, st, procStat); err != nil {
			return err
		}
		if st.Uid != uid || st.Gid != gid {
			return fmt.Errorf("owned by %d:%d, expected %d:%d", st.Uid, st.Gid, uid, gid)
		}
		// Fewer permissions than usual are fine, more are not.
		allowed := uint32(0o555)
		if k == kindFd {
			allowed = 0o500
		}
		if extra := st.Mode & 0o777 &^ allowed; extra != 0 {
			return fmt.Errorf("mode %#o has unexpected bits %#o", st.Mode&0o777, extra)
		}
		// An fd directory holds no subdirectories; /proc and /proc/<pid> are
		// never empty.
		if k == kindFd {
			if st.Nlink != 2 {
				return fmt.Errorf("nlink %d, expected 2", st.Nlink)
			}
		} else if st.Nlink <= 2 {
			return fmt.Errorf("nlink %d, expected more than 2", st.Nlink)
		}
		return nil
	})
}

func checkRoot(entry fd.AsFd, st *fs.Stat) error {
	if st.Ino != procRootIno {
		return fmt.Errorf("inode %d is not the procfs root", st.Ino)
	}
	// procfs has no backing device.
	if major := unix.Major(st.Dev); major != 0 {
		return fmt.Errorf("device major %d, expected 0", major)
	}
	if !isMountpoint(entry) {
		return errors.New("not a mount point")
	}
	return nil
}

func checkSubdir(entry fd.AsFd, st, procStat *fs.Stat) error {
	if st.Ino == procRootIno {
		return errors.New("linked back to the procfs root")
	}
	if st.Dev != procStat.Dev {
		return fmt.Errorf("device %#x differs from /proc device %#x", st.Dev, procStat.Dev)
	}
	if isMountpoint(entry) {
		return errors.New("is a mount point")
	}
	return nil
}

// isMountpoint asks the kernel to rename the parent of entry onto entry. The
// rename always fails: with EXDEV if ".." is on another mount, otherwise with
// EBUSY.
func isMountpoint(entry fd.AsFd) bool {
	err := fs.Renameat(entry, "../.", entry, ".")
	e, _ := errno.Of(err)
	switch e {
	case errno.EXDEV:
		return true
	case errno.EBUSY:
		return false
	}
	panic(fmt.Sprintf("procfs: unexpected result from mount point check: %v", err))
}
