// Package fd provides owned and borrowed file descriptor handles and the
// operations that apply to any kind of descriptor: reading, writing,
// duplication, pipes, polling and a few ioctls.
//
// Every operation takes an [AsFd], so an [*OwnedFd], a [BorrowedFd] or any
// type that can lend out its descriptor can be passed. Errors are
// [*os.SyscallError] values wrapping an [errno.Errno].
package fd

import (
	"os"
	"strconv"
	"sync/atomic"

	"golang.org/x/sys/unix"

	"github.com/opencontainers/posix/internal/imp"
)

// AsFd is implemented by anything that can lend out an open descriptor for
// the duration of a call.
type AsFd interface {
	AsFd() BorrowedFd
}

// BorrowedFd is a descriptor number that somebody else owns. It never closes
// anything, and must not be used after the owner has closed it.
type BorrowedFd struct {
	fd int32
}

// Borrow wraps a raw descriptor number. The caller must keep the descriptor
// open for as long as the BorrowedFd is in use.
func Borrow(raw int) BorrowedFd {
	return BorrowedFd{fd: int32(raw)}
}

// BorrowFile borrows the descriptor of an *os.File. The file must stay open,
// and reachable, while the BorrowedFd is in use.
func BorrowFile(f *os.File) BorrowedFd {
	return Borrow(int(f.Fd()))
}

// Stdin, Stdout and Stderr borrow the standard descriptors.
func Stdin() BorrowedFd  { return BorrowedFd{fd: 0} }
func Stdout() BorrowedFd { return BorrowedFd{fd: 1} }
func Stderr() BorrowedFd { return BorrowedFd{fd: 2} }

func (b BorrowedFd) AsFd() BorrowedFd { return b }

// Raw returns the descriptor number.
func (b BorrowedFd) Raw() int { return int(b.fd) }

func (b BorrowedFd) String() string { return "fd " + strconv.Itoa(int(b.fd)) }

// OwnedFd owns an open descriptor and closes it exactly once.
type OwnedFd struct {
	fd atomic.Int32
}

// FromRaw takes ownership of raw. The caller must not close raw itself.
func FromRaw(raw int) *OwnedFd {
	o := new(OwnedFd)
	o.fd.Store(int32(raw))
	return o
}

// AsFd borrows the descriptor. After Close it returns a BorrowedFd holding -1,
// on which every operation fails with EBADF.
func (o *OwnedFd) AsFd() BorrowedFd {
	return BorrowedFd{fd: o.fd.Load()}
}

// Raw returns the descriptor number without giving up ownership.
func (o *OwnedFd) Raw() int {
	return int(o.fd.Load())
}

// IntoRaw gives up ownership and returns the descriptor number. The OwnedFd
// behaves as closed afterwards, but the descriptor is left open.
func (o *OwnedFd) IntoRaw() int {
	return int(o.fd.Swap(-1))
}

// File converts o into an *os.File, which takes over ownership.
func (o *OwnedFd) File(name string) *os.File {
	return os.NewFile(uintptr(o.IntoRaw()), name)
}

// Close closes the descriptor. A second Close returns os.ErrClosed instead of
// closing whatever descriptor has since been given the same number.
//
// Linux releases the descriptor even when close reports an error, so an error
// from Close must not be followed by a retry.
func (o *OwnedFd) Close() error {
	fd := o.fd.Swap(-1)
	if fd < 0 {
		return os.ErrClosed
	}
	return os.NewSyscallError("close", imp.Close(fd))
}

func (o *OwnedFd) String() string {
	return "fd " + strconv.Itoa(o.Raw())
}

func raw(f AsFd) int32 {
	return f.AsFd().fd
}

func owned(fd int32, err error) (*OwnedFd, error) {
	if err != nil {
		return nil, err
	}
	return FromRaw(int(fd)), nil
}

// FdFlags are the descriptor flags read and written by F_GETFD and F_SETFD.
type FdFlags uint32

const FdCloexec FdFlags = unix.FD_CLOEXEC

// FcntlGetfd returns the descriptor flags of f.
func FcntlGetfd(f AsFd) (FdFlags, error) {
	v, err := imp.FcntlGetfd(raw(f))
	return FdFlags(v), os.NewSyscallError("fcntl", err)
}

// FcntlSetfd sets the descriptor flags of f.
func FcntlSetfd(f AsFd, flags FdFlags) error {
	return os.NewSyscallError("fcntl", imp.FcntlSetfd(raw(f), uint32(flags)))
}
