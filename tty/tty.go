// Package tty provides the terminal ioctls.
package tty

import (
	"os"

	"github.com/opencontainers/posix/fd"
	"github.com/opencontainers/posix/internal/imp"
)

type (
	// Termios is struct termios.
	Termios = imp.Termios
	// Winsize is struct winsize.
	Winsize = imp.Winsize
)

func raw(f fd.AsFd) int32 { return int32(f.AsFd().Raw()) }

// Tcgets returns the terminal attributes of f. A descriptor that is not a
// terminal fails with ENOTTY.
func Tcgets(f fd.AsFd) (Termios, error) {
	t, err := imp.IoctlTcgets(raw(f))
	return t, os.NewSyscallError("ioctl(TCGETS)", err)
}

// Tiocgwinsz returns the window size of the terminal f.
func Tiocgwinsz(f fd.AsFd) (Winsize, error) {
	ws, err := imp.IoctlTiocgwinsz(raw(f))
	return ws, os.NewSyscallError("ioctl(TIOCGWINSZ)", err)
}

// Tiocswinsz sets the window size of the terminal f; the foreground process
// group gets SIGWINCH.
func Tiocswinsz(f fd.AsFd, ws Winsize) error {
	return os.NewSyscallError("ioctl(TIOCSWINSZ)", imp.IoctlTiocswinsz(raw(f), &ws))
}

// Tiocexcl puts the terminal into exclusive mode: further opens fail with
// EBUSY unless the caller has CAP_SYS_ADMIN.
func Tiocexcl(f fd.AsFd) error {
	return os.NewSyscallError("ioctl(TIOCEXCL)", imp.IoctlTiocexcl(raw(f)))
}

// Tiocnxcl leaves exclusive mode.
func Tiocnxcl(f fd.AsFd) error {
	return os.NewSyscallError("ioctl(TIOCNXCL)", imp.IoctlTiocnxcl(raw(f)))
}

// Tiocsctty makes f the controlling terminal of the calling session, which
// the caller must lead. With force set, a root caller steals the terminal
// from another session.
func Tiocsctty(f fd.AsFd, force bool) error {
	return os.NewSyscallError("ioctl(TIOCSCTTY)", imp.IoctlTiocsctty(raw(f), force))
}
