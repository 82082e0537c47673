// Package patharg converts path arguments into the NUL-terminated byte strings
// the kernel expects.
//
// Every path-taking operation in this module is generic over [Arg], so callers
// can pass a string, a []byte, any named type with one of those underlying
// types, or a [CStr] that is already terminated. The conversion is scoped to a
// callback (see [WithCStr]) so the terminated view never outlives the call it
// was made for.
package patharg

import (
	"bytes"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/opencontainers/posix/errno"
)

// SmallPathBufferSize is the size of the reusable buffers used for short
// paths. A path of SmallPathBufferSize-1 bytes or fewer (leaving room for the
// terminator) does not allocate; longer paths are copied into a fresh buffer.
// Either way the kernel sees the same bytes.
//
// If you are opening many files under a long directory path, open the
// directory and use the *at variants instead; the kernel also does less work
// that way.
const SmallPathBufferSize = 256

// Arg is the set of types accepted as path arguments.
type Arg interface {
	~string | ~[]byte
}

// CStr is a byte string that ends with its only NUL byte. The zero value is
// not valid; use [NewCStr], [IntoCStr], [Literal] or [DecInt] to build one.
type CStr []byte

var smallBufPool = sync.Pool{
	New: func() any {
		return new([SmallPathBufferSize]byte)
	},
}

// NewCStr validates that b is terminated by a NUL and contains no other NUL
// bytes, and returns it as a CStr without copying.
func NewCStr(b []byte) (CStr, error) {
	if len(b) == 0 || b[len(b)-1] != 0 || bytes.IndexByte(b[:len(b)-1], 0) >= 0 {
		return nil, errno.EINVAL
	}
	return CStr(b), nil
}

// Literal returns s as a CStr. It panics if s contains a NUL byte, so it
// should only be used with constant strings.
func Literal(s string) CStr {
	c, err := IntoCStr(s)
	if err != nil {
		panic("patharg: literal " + strconv.Quote(s) + " contains a NUL byte")
	}
	return c
}

// DecInt formats n in decimal as a CStr. It is used to build /proc/<pid>
// style path components without going through a general formatter.
func DecInt[I ~int | ~int32 | ~int64 | ~uint32 | ~uint64](n I) CStr {
	var buf [24]byte
	var b []byte
	if n < 0 {
		b = strconv.AppendInt(buf[:0], int64(n), 10)
	} else {
		b = strconv.AppendUint(buf[:0], uint64(n), 10)
	}
	return CStr(append(b, 0))
}

// Ptr returns a pointer to the first byte of c, suitable for passing to the
// kernel. The pointer is only valid while c is reachable.
func (c CStr) Ptr() *byte {
	return &c[0]
}

// Bytes returns c without its terminator.
func (c CStr) Bytes() []byte {
	return c[:len(c)-1]
}

// String returns c without its terminator.
func (c CStr) String() string {
	return string(c.Bytes())
}

// Len returns the length of c not counting the terminator.
func (c CStr) Len() int {
	return len(c) - 1
}

// asCStr returns p unchanged if it is already a CStr.
func asCStr[P Arg](p P) (CStr, bool) {
	c, ok := any(p).(CStr)
	return c, ok && len(c) > 0 && c[len(c)-1] == 0
}

// IntoCStr returns an owned, NUL-terminated copy of p. A CStr argument is
// returned as-is.
func IntoCStr[P Arg](p P) (CStr, error) {
	if c, ok := asCStr(p); ok {
		return c, nil
	}
	if hasNUL(p) {
		return nil, errno.EINVAL
	}
	b := make([]byte, len(p)+1)
	copy(b, p)
	return CStr(b), nil
}

// WithCStr runs fn with p converted to a NUL-terminated string. The CStr
// passed to fn must not be retained after fn returns. If p contains an
// interior NUL byte, fn is not called and the error is EINVAL.
func WithCStr[P Arg, T any](p P, fn func(CStr) (T, error)) (T, error) {
	if c, ok := asCStr(p); ok {
		return fn(c)
	}
	if hasNUL(p) {
		var zero T
		return zero, errno.EINVAL
	}
	// Test with >= so that there is room for the trailing NUL.
	if len(p) >= SmallPathBufferSize {
		return withCStrSlow(p, fn)
	}
	buf := smallBufPool.Get().(*[SmallPathBufferSize]byte)
	n := copy(buf[:], p)
	buf[n] = 0
	defer smallBufPool.Put(buf)
	return fn(CStr(buf[:n+1]))
}

// withCStrSlow handles paths of any length. The kernel limits paths to
// PATH_MAX, but that is left for the kernel to enforce.
func withCStrSlow[P Arg, T any](p P, fn func(CStr) (T, error)) (T, error) {
	b := make([]byte, len(p)+1)
	copy(b, p)
	return fn(CStr(b))
}

// With2CStr is WithCStr for operations that take two paths.
func With2CStr[P, Q Arg, T any](p P, q Q, fn func(CStr, CStr) (T, error)) (T, error) {
	return WithCStr(p, func(pc CStr) (T, error) {
		return WithCStr(q, func(qc CStr) (T, error) {
			return fn(pc, qc)
		})
	})
}

// String returns p as a Go string, for use in error messages.
func String[P Arg](p P) string {
	if c, ok := asCStr(p); ok {
		return c.String()
	}
	return string(p)
}

// Lossy returns p as a valid UTF-8 string, replacing invalid sequences with
// U+FFFD.
func Lossy[P Arg](p P) string {
	s := String(p)
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "�")
}

func hasNUL[P Arg](p P) bool {
	for i := 0; i < len(p); i++ {
		if p[i] == 0 {
			return true
		}
	}
	return false
}
