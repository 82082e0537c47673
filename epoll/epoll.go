// Package epoll wraps the epoll interface.
//
// Each registered descriptor carries a 64-bit user data word that is handed
// back with its events; what it means is up to the caller.
package epoll

import (
	"math"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/opencontainers/posix/errno"
	"github.com/opencontainers/posix/fd"
	"github.com/opencontainers/posix/internal/imp"
)

// CreateFlags are the flags accepted by Create.
type CreateFlags uint32

const CreateCloexec CreateFlags = unix.EPOLL_CLOEXEC

// EventFlags are the EPOLL* event bits.
type EventFlags uint32

const (
	In        EventFlags = unix.EPOLLIN
	Out       EventFlags = unix.EPOLLOUT
	Pri       EventFlags = unix.EPOLLPRI
	Err       EventFlags = unix.EPOLLERR
	Hup       EventFlags = unix.EPOLLHUP
	RdHup     EventFlags = unix.EPOLLRDHUP
	RdNorm    EventFlags = unix.EPOLLRDNORM
	RdBand    EventFlags = unix.EPOLLRDBAND
	WrNorm    EventFlags = unix.EPOLLWRNORM
	WrBand    EventFlags = unix.EPOLLWRBAND
	Msg       EventFlags = unix.EPOLLMSG
	Exclusive EventFlags = unix.EPOLLEXCLUSIVE
	Wakeup    EventFlags = unix.EPOLLWAKEUP
	Oneshot   EventFlags = unix.EPOLLONESHOT
	ET        EventFlags = unix.EPOLLET
)

// Event is one readiness report returned by Wait. It has the layout of
// imp.EpollEvent.
type Event struct {
	Flags EventFlags
	Data  uint64
}

// Create creates an epoll instance.
func Create(flags CreateFlags) (*fd.OwnedFd, error) {
	n, err := imp.EpollCreate1(uint32(flags))
	if err != nil {
		return nil, os.NewSyscallError("epoll_create1", err)
	}
	return fd.FromRaw(int(n)), nil
}

func ctl(ep fd.AsFd, op int32, target fd.AsFd, ev *imp.EpollEvent) error {
	return os.NewSyscallError("epoll_ctl", imp.EpollCtl(int32(ep.AsFd().Raw()), op, int32(target.AsFd().Raw()), ev))
}

// Add registers target with the epoll instance. Registering the same
// descriptor twice fails with EEXIST.
func Add(ep, target fd.AsFd, data uint64, flags EventFlags) error {
	return ctl(ep, unix.EPOLL_CTL_ADD, target, &imp.EpollEvent{Events: uint32(flags), Data: data})
}

// Modify changes the events and data of a registered descriptor.
func Modify(ep, target fd.AsFd, data uint64, flags EventFlags) error {
	return ctl(ep, unix.EPOLL_CTL_MOD, target, &imp.EpollEvent{Events: uint32(flags), Data: data})
}

// Delete removes target from the epoll instance.
func Delete(ep, target fd.AsFd) error {
	return ctl(ep, unix.EPOLL_CTL_DEL, target, nil)
}

// Wait fills events with ready descriptors and returns how many it stored. A
// negative timeout waits forever and zero returns immediately.
func Wait(ep fd.AsFd, events []Event, timeoutMs int) (int, error) {
	if len(events) == 0 {
		return 0, os.NewSyscallError("epoll_wait", errno.EINVAL)
	}
	switch {
	case timeoutMs > math.MaxInt32:
		timeoutMs = math.MaxInt32
	case timeoutMs < 0:
		timeoutMs = -1
	}
	raw := unsafe.Slice((*imp.EpollEvent)(unsafe.Pointer(&events[0])), len(events))
	n, err := imp.EpollWait(int32(ep.AsFd().Raw()), raw, int32(timeoutMs))
	return n, os.NewSyscallError("epoll_wait", err)
}
