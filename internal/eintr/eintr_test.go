package eintr

import (
	"errors"
	"os"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/opencontainers/posix/errno"
)

func TestRetry(t *testing.T) {
	calls := 0
	err := Retry(func() error {
		calls++
		if calls < 3 {
			return errno.EINTR
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestRetryWrapped(t *testing.T) {
	calls := 0
	err := Retry(func() error {
		calls++
		if calls == 1 {
			// Both our own and the standard library's representation count.
			return os.NewSyscallError("read", unix.EINTR)
		}
		return errno.EBADF
	})
	if !errors.Is(err, errno.EBADF) {
		t.Errorf("expected EBADF, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestRetry2(t *testing.T) {
	calls := 0
	val, err := Retry2(func() (int, error) {
		calls++
		if calls < 2 {
			return -1, errno.EINTR
		}
		return 42, nil
	})
	if err != nil || val != 42 {
		t.Errorf("got (%d, %v), expected (42, nil)", val, err)
	}
}
