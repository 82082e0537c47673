package fd

import (
	"math"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/opencontainers/posix/errno"
	"github.com/opencontainers/posix/internal/imp"
)

// Read reads up to len(buf) bytes from f. A return of 0 with a nil error
// means end of file (or an empty buf).
func Read(f AsFd, buf []byte) (int, error) {
	n, err := imp.Read(raw(f), buf)
	return n, os.NewSyscallError("read", err)
}

// Write writes buf to f and returns the number of bytes written, which may be
// less than len(buf).
func Write(f AsFd, buf []byte) (int, error) {
	n, err := imp.Write(raw(f), buf)
	return n, os.NewSyscallError("write", err)
}

// Pread reads from f at offset off without moving the file position.
func Pread(f AsFd, buf []byte, off uint64) (int, error) {
	n, err := imp.Pread(raw(f), buf, off)
	return n, os.NewSyscallError("pread", err)
}

// Pwrite writes to f at offset off without moving the file position.
func Pwrite(f AsFd, buf []byte, off uint64) (int, error) {
	n, err := imp.Pwrite(raw(f), buf, off)
	return n, os.NewSyscallError("pwrite", err)
}

func Readv(f AsFd, bufs [][]byte) (int, error) {
	n, err := imp.Readv(raw(f), bufs)
	return n, os.NewSyscallError("readv", err)
}

func Writev(f AsFd, bufs [][]byte) (int, error) {
	n, err := imp.Writev(raw(f), bufs)
	return n, os.NewSyscallError("writev", err)
}

func Preadv(f AsFd, bufs [][]byte, off uint64) (int, error) {
	n, err := imp.Preadv(raw(f), bufs, off)
	return n, os.NewSyscallError("preadv", err)
}

func Pwritev(f AsFd, bufs [][]byte, off uint64) (int, error) {
	n, err := imp.Pwritev(raw(f), bufs, off)
	return n, os.NewSyscallError("pwritev", err)
}

// ReadWriteFlags are the RWF_* flags of preadv2 and pwritev2.
type ReadWriteFlags uint32

const (
	RWFDsync  ReadWriteFlags = unix.RWF_DSYNC
	RWFHipri  ReadWriteFlags = unix.RWF_HIPRI
	RWFSync   ReadWriteFlags = unix.RWF_SYNC
	RWFNowait ReadWriteFlags = unix.RWF_NOWAIT
	RWFAppend ReadWriteFlags = unix.RWF_APPEND
)

func Preadv2(f AsFd, bufs [][]byte, off uint64, flags ReadWriteFlags) (int, error) {
	n, err := imp.Preadv2(raw(f), bufs, off, uint32(flags))
	return n, os.NewSyscallError("preadv2", err)
}

func Pwritev2(f AsFd, bufs [][]byte, off uint64, flags ReadWriteFlags) (int, error) {
	n, err := imp.Pwritev2(raw(f), bufs, off, uint32(flags))
	return n, os.NewSyscallError("pwritev2", err)
}

// DupFlags are the flags accepted by Dup3.
type DupFlags uint32

const DupCloexec DupFlags = unix.O_CLOEXEC

// Dup returns a new descriptor referring to the same open file description
// as f. The new descriptor does not have FD_CLOEXEC set.
func Dup(f AsFd) (*OwnedFd, error) {
	fd, err := imp.Dup(raw(f))
	return owned(fd, os.NewSyscallError("dup", err))
}

// Dup2 makes target refer to the same open file description as f, closing
// whatever target referred to before. target keeps its number.
func Dup2(f AsFd, target *OwnedFd) error {
	return os.NewSyscallError("dup2", imp.Dup2(raw(f), target.fd.Load()))
}

// Dup3 is Dup2 with flags. Unlike Dup2 it fails with EINVAL when f and
// target are the same descriptor.
func Dup3(f AsFd, target *OwnedFd, flags DupFlags) error {
	return os.NewSyscallError("dup3", imp.Dup3(raw(f), target.fd.Load(), uint32(flags)))
}

// PipeFlags are the flags accepted by PipeWith.
type PipeFlags uint32

const (
	PipeCloexec  PipeFlags = unix.O_CLOEXEC
	PipeDirect   PipeFlags = unix.O_DIRECT
	PipeNonblock PipeFlags = unix.O_NONBLOCK
)

// Pipe creates a pipe with O_CLOEXEC set on both ends.
func Pipe() (r, w *OwnedFd, err error) {
	return PipeWith(PipeCloexec)
}

// PipeWith creates a pipe with the given flags.
func PipeWith(flags PipeFlags) (r, w *OwnedFd, err error) {
	p, err := imp.Pipe2(uint32(flags))
	if err != nil {
		return nil, nil, os.NewSyscallError("pipe2", err)
	}
	return FromRaw(int(p[0])), FromRaw(int(p[1])), nil
}

// EventfdFlags are the flags accepted by Eventfd.
type EventfdFlags uint32

const (
	EventfdCloexec   EventfdFlags = unix.EFD_CLOEXEC
	EventfdNonblock  EventfdFlags = unix.EFD_NONBLOCK
	EventfdSemaphore EventfdFlags = unix.EFD_SEMAPHORE
)

// Eventfd creates an eventfd object with the given initial counter value.
func Eventfd(initval uint32, flags EventfdFlags) (*OwnedFd, error) {
	fd, err := imp.Eventfd(initval, uint32(flags))
	return owned(fd, os.NewSyscallError("eventfd2", err))
}

// IoctlFionread returns the number of bytes immediately available for
// reading. The kernel reports an int, so very large counts may have wrapped.
func IoctlFionread(f AsFd) (uint64, error) {
	n, err := imp.IoctlFionread(raw(f))
	return n, os.NewSyscallError("ioctl", err)
}

// IoctlFionbio sets or clears non-blocking mode on f.
func IoctlFionbio(f AsFd, nonblocking bool) error {
	return os.NewSyscallError("ioctl", imp.IoctlFionbio(raw(f), nonblocking))
}

// Isatty reports whether f refers to a terminal. It is true exactly when the
// TIOCGWINSZ ioctl succeeds.
func Isatty(f AsFd) bool {
	return imp.Isatty(raw(f))
}

// IsReadWrite reports whether f can currently be read from and written to.
//
// The answer starts from the file access mode. For sockets it is refined by
// peeking for data (a peer that has shut down its write side makes the
// socket unreadable) and by a zero-length send (a peer that has gone away
// makes it unwritable). O_PATH descriptors are neither.
func IsReadWrite(f AsFd) (read, write bool, err error) {
	fd := raw(f)
	fl, err := imp.FcntlGetfl(fd)
	if err != nil {
		return false, false, os.NewSyscallError("fcntl", err)
	}
	if fl&unix.O_PATH != 0 {
		return false, false, nil
	}
	switch fl & unix.O_ACCMODE {
	case unix.O_RDONLY:
		read = true
	case unix.O_WRONLY:
		write = true
	case unix.O_RDWR:
		read, write = true, true
	}
	if !read && !write {
		return false, false, nil
	}

	notSocket := false
	if read {
		var b [1]byte
		n, err := imp.Recv(fd, b[:], unix.MSG_PEEK|unix.MSG_DONTWAIT)
		switch e, _ := errno.Of(err); {
		case err == nil:
			if n == 0 {
				read = false
			}
		case e == errno.EAGAIN:
		case e == errno.ENOTSOCK:
			notSocket = true
		default:
			return false, false, os.NewSyscallError("recv", err)
		}
	}
	if write && !notSocket {
		_, err := imp.Send(fd, nil, unix.MSG_DONTWAIT|unix.MSG_NOSIGNAL)
		switch e, _ := errno.Of(err); {
		case err == nil, e == errno.EAGAIN, e == errno.ENOTSOCK:
		case e == errno.EPIPE:
			write = false
		default:
			return false, false, os.NewSyscallError("send", err)
		}
	}
	return read, write, nil
}

// PollFlags are the event bits of a PollFd.
type PollFlags int16

const (
	PollIn  PollFlags = unix.POLLIN
	PollPri PollFlags = unix.POLLPRI
	PollOut PollFlags = unix.POLLOUT
	// The band bits come from <asm-generic/poll.h>; golang.org/x/sys/unix
	// does not export them on linux.
	PollRdNorm PollFlags = 0x40
	PollRdBand PollFlags = 0x80
	PollWrNorm PollFlags = 0x100
	PollWrBand PollFlags = 0x200
	PollErr    PollFlags = unix.POLLERR
	PollHup    PollFlags = unix.POLLHUP
	PollNval   PollFlags = unix.POLLNVAL
	PollRdHup  PollFlags = unix.POLLRDHUP
)

// PollFd is one entry of a Poll request. Its layout is that of struct pollfd.
type PollFd struct {
	fd      int32
	events  PollFlags
	revents PollFlags
}

// NewPollFd builds a PollFd waiting for events on f. f must stay open until
// Poll returns.
func NewPollFd(f AsFd, events PollFlags) PollFd {
	return PollFd{fd: raw(f), events: events}
}

// Revents returns the events reported by the last Poll.
func (p *PollFd) Revents() PollFlags { return p.revents }

// SetFd changes the descriptor p refers to.
func (p *PollFd) SetFd(f AsFd) { p.fd = raw(f) }

// ClearRevents resets the reported events.
func (p *PollFd) ClearRevents() { p.revents = 0 }

// Poll waits for events on fds, for at most timeoutMs milliseconds (forever
// if negative). It returns the number of entries with non-zero revents.
func Poll(fds []PollFd, timeoutMs int) (int, error) {
	switch {
	case timeoutMs > math.MaxInt32:
		timeoutMs = math.MaxInt32
	case timeoutMs < 0:
		timeoutMs = -1
	}
	kfds := unsafe.Slice((*imp.PollFd)(unsafe.Pointer(unsafe.SliceData(fds))), len(fds))
	n, err := imp.Poll(kfds, int32(timeoutMs))
	return n, os.NewSyscallError("poll", err)
}
