package patharg

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/opencontainers/posix/errno"
)

type namedPath string

type namedBytes []byte

// collect returns a copy of the terminated bytes that fn saw.
func collect[P Arg](t *testing.T, p P) []byte {
	t.Helper()
	out, err := WithCStr(p, func(c CStr) ([]byte, error) {
		return append([]byte(nil), c...), nil
	})
	if err != nil {
		t.Fatalf("WithCStr(%q): %v", String(p), err)
	}
	return out
}

func TestRepresentationsAgree(t *testing.T) {
	const path = "/var/lib/containers/storage/overlay"
	want := append([]byte(path), 0)

	owned, err := IntoCStr(path)
	if err != nil {
		t.Fatal(err)
	}

	for _, test := range []struct {
		name string
		got  []byte
	}{
		{"string", collect(t, path)},
		{"bytes", collect(t, []byte(path))},
		{"named-string", collect(t, namedPath(path))},
		{"named-bytes", collect(t, namedBytes(path))},
		{"cstr", collect(t, owned)},
		{"filepath", collect(t, filepath.Join("/var/lib", "containers", "storage", "overlay"))},
	} {
		t.Run(test.name, func(t *testing.T) {
			if !bytes.Equal(test.got, want) {
				t.Errorf("got %q, expected %q", test.got, want)
			}
		})
	}
}

func TestInteriorNUL(t *testing.T) {
	for _, p := range []string{"\x00", "foo\x00", "foo\x00bar", "\x00/proc"} {
		called := false
		_, err := WithCStr(p, func(CStr) (struct{}, error) {
			called = true
			return struct{}{}, nil
		})
		if !errors.Is(err, errno.EINVAL) {
			t.Errorf("WithCStr(%q): expected EINVAL, got %v", p, err)
		}
		if called {
			t.Errorf("WithCStr(%q): callback ran for an invalid path", p)
		}
		if _, err := IntoCStr([]byte(p)); !errors.Is(err, errno.EINVAL) {
			t.Errorf("IntoCStr(%q): expected EINVAL, got %v", p, err)
		}
	}
}

func TestBufferBoundary(t *testing.T) {
	// SmallPathBufferSize-1 fits the pooled buffer; one more byte does not.
	for _, n := range []int{0, 1, SmallPathBufferSize - 2, SmallPathBufferSize - 1, SmallPathBufferSize, SmallPathBufferSize + 1, 4 * SmallPathBufferSize} {
		p := strings.Repeat("a", n)
		got := collect(t, p)
		if len(got) != n+1 || got[n] != 0 || string(got[:n]) != p {
			t.Errorf("length %d: got %d bytes", n, len(got))
		}
	}
	at := collect(t, strings.Repeat("b", SmallPathBufferSize-1))
	over := collect(t, strings.Repeat("b", SmallPathBufferSize))
	if !bytes.Equal(at[:len(at)-1], over[:len(at)-1]) || over[len(over)-1] != 0 {
		t.Error("fast and slow paths disagree")
	}
}

func TestPooledBufferReuse(t *testing.T) {
	// A longer path followed by a shorter one must not leak stale bytes.
	collect(t, "/a/very/long/path/that/fills/the/buffer")
	got := collect(t, "/x")
	if !bytes.Equal(got, []byte("/x\x00")) {
		t.Errorf("got %q", got)
	}
}

func TestNewCStr(t *testing.T) {
	for _, test := range []struct {
		in []byte
		ok bool
	}{
		{[]byte("foo\x00"), true},
		{[]byte("\x00"), true},
		{[]byte("foo"), false},
		{[]byte(""), false},
		{[]byte("f\x00oo\x00"), false},
	} {
		c, err := NewCStr(test.in)
		if (err == nil) != test.ok {
			t.Errorf("NewCStr(%q): err = %v", test.in, err)
			continue
		}
		if test.ok && c.Len() != len(test.in)-1 {
			t.Errorf("NewCStr(%q).Len() = %d", test.in, c.Len())
		}
	}
}

func TestDecInt(t *testing.T) {
	for _, test := range []struct {
		got  CStr
		want string
	}{
		{DecInt(0), "0"},
		{DecInt(1), "1"},
		{DecInt(4194304), "4194304"},
		{DecInt(int32(-1)), "-1"},
		{DecInt(uint64(18446744073709551615)), "18446744073709551615"},
	} {
		if test.got.String() != test.want || test.got[len(test.got)-1] != 0 {
			t.Errorf("DecInt: got %q, expected %q", test.got, test.want)
		}
	}
}

func TestWith2CStr(t *testing.T) {
	got, err := With2CStr("old", []byte("new"), func(a, b CStr) (string, error) {
		return a.String() + "->" + b.String(), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if got != "old->new" {
		t.Errorf("got %q", got)
	}
	if _, err := With2CStr("old", "n\x00ew", func(a, b CStr) (string, error) {
		t.Fatal("callback ran for an invalid path")
		return "", nil
	}); !errors.Is(err, errno.EINVAL) {
		t.Errorf("expected EINVAL, got %v", err)
	}
}

func TestLossy(t *testing.T) {
	if got := Lossy([]byte("ok")); got != "ok" {
		t.Errorf("got %q", got)
	}
	if got := Lossy([]byte{'a', 0xff, 'b'}); got != "a�b" {
		t.Errorf("got %q", got)
	}
}
