package tty

import (
	"os"
	"testing"

	"github.com/containerd/console"
	"golang.org/x/sys/unix"

	"github.com/opencontainers/posix/errno"
	"github.com/opencontainers/posix/fd"
)

func newPty(t *testing.T) (console.Console, *os.File) {
	t.Helper()
	pty, slavePath, err := console.NewPty()
	if err != nil {
		t.Skipf("no pty available: %v", err)
	}
	t.Cleanup(func() { _ = pty.Close() })
	slave, err := os.OpenFile(slavePath, os.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = slave.Close() })
	return pty, slave
}

func TestWinsize(t *testing.T) {
	pty, slave := newPty(t)
	if err := pty.Resize(console.WinSize{Height: 24, Width: 80}); err != nil {
		t.Fatal(err)
	}
	ws, err := Tiocgwinsz(fd.BorrowFile(slave))
	if err != nil {
		t.Fatal(err)
	}
	if ws.Row != 24 || ws.Col != 80 {
		t.Errorf("got %dx%d, expected 24x80", ws.Row, ws.Col)
	}

	if err := Tiocswinsz(fd.BorrowFile(slave), Winsize{Row: 50, Col: 132}); err != nil {
		t.Fatal(err)
	}
	size, err := pty.Size()
	if err != nil {
		t.Fatal(err)
	}
	if size.Height != 50 || size.Width != 132 {
		t.Errorf("console sees %dx%d, expected 50x132", size.Height, size.Width)
	}
}

func TestTcgets(t *testing.T) {
	_, slave := newPty(t)
	tios, err := Tcgets(fd.BorrowFile(slave))
	if err != nil {
		t.Fatal(err)
	}
	want, err := unix.IoctlGetTermios(int(slave.Fd()), unix.TCGETS)
	if err != nil {
		t.Fatal(err)
	}
	if tios.Lflag != want.Lflag || tios.Iflag != want.Iflag {
		t.Errorf("termios mismatch: %+v vs %+v", tios, *want)
	}

	r, w, err := fd.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	defer w.Close()
	if _, err := Tcgets(r); !errorsIs(err, errno.ENOTTY) {
		t.Errorf("pipe: expected ENOTTY, got %v", err)
	}
	if _, err := Tiocgwinsz(r); !errorsIs(err, errno.ENOTTY) {
		t.Errorf("pipe: expected ENOTTY, got %v", err)
	}
}

func TestExclusive(t *testing.T) {
	_, slave := newPty(t)
	f := fd.BorrowFile(slave)
	if err := Tiocexcl(f); err != nil {
		t.Fatal(err)
	}
	defer Tiocnxcl(f) //nolint:errcheck

	excl, err := os.OpenFile(slave.Name(), os.O_RDWR|unix.O_NOCTTY, 0)
	if err == nil {
		// CAP_SYS_ADMIN bypasses exclusive mode.
		t.Log("reopen succeeded despite TIOCEXCL")
		excl.Close()
	} else if !errorsIs(err, errno.EBUSY) {
		t.Errorf("expected EBUSY, got %v", err)
	}
	if err := Tiocnxcl(f); err != nil {
		t.Fatal(err)
	}
	again, err := os.OpenFile(slave.Name(), os.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		t.Fatalf("reopen after TIOCNXCL: %v", err)
	}
	again.Close()
}

func TestTiocsctty(t *testing.T) {
	_, slave := newPty(t)
	// The test process is not a session leader without a terminal, so the
	// kernel refuses; the point is that the request reaches it.
	err := Tiocsctty(fd.BorrowFile(slave), false)
	if err == nil {
		t.Skip("test process unexpectedly acquired a controlling terminal")
	}
	if !errorsIs(err, errno.EPERM) {
		t.Errorf("expected EPERM, got %v", err)
	}
}

func TestTtyname(t *testing.T) {
	_, slave := newPty(t)
	name, err := Ttyname(fd.BorrowFile(slave), nil)
	if err != nil {
		t.Fatal(err)
	}
	if string(name) != slave.Name() {
		t.Errorf("got %q, expected %q", name, slave.Name())
	}

	reuse := make([]byte, 0, 4096)
	again, err := Ttyname(fd.BorrowFile(slave), reuse)
	if err != nil {
		t.Fatal(err)
	}
	if string(again) != slave.Name() {
		t.Errorf("with reuse: got %q, expected %q", again, slave.Name())
	}
	if &again[:1][0] != &reuse[:1][0] {
		t.Error("reuse buffer was not used")
	}

	r, w, err := fd.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	defer w.Close()
	if _, err := Ttyname(r, nil); !errorsIs(err, errno.ENOTTY) {
		t.Errorf("pipe: expected ENOTTY, got %v", err)
	}
}

func errorsIs(err error, target errno.Errno) bool {
	e, ok := errno.Of(err)
	return ok && e == target
}
