package imp

import (
	"net/netip"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/opencontainers/posix/errno"
	"github.com/opencontainers/posix/patharg"
)

func cstr(t *testing.T, s string) patharg.CStr {
	t.Helper()
	c, err := patharg.IntoCStr(s)
	require.NoError(t, err)
	return c
}

// These run against whichever backend the build selected; -tags posix_libc
// covers the C library one.

func TestOpenatMode(t *testing.T) {
	dir, err := Openat(unix.AT_FDCWD, cstr(t, t.TempDir()), unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
	require.NoError(t, err)
	defer Close(dir)

	f, err := Openat(dir, patharg.Literal("new"), unix.O_CREAT|unix.O_EXCL|unix.O_RDWR|unix.O_CLOEXEC, 0o600)
	require.NoError(t, err)
	defer Close(f)
	st, err := Fstat(f)
	require.NoError(t, err)
	assert.EqualValues(t, unix.S_IFREG|0o600, st.Mode)

	_, err = Openat(dir, patharg.Literal("new"), unix.O_CREAT|unix.O_EXCL|unix.O_RDWR|unix.O_CLOEXEC, 0o600)
	assert.Equal(t, errno.EEXIST, err)
	_, err = Openat(dir, cstr(t, filepath.Join("missing", "x")), unix.O_RDONLY|unix.O_CLOEXEC, 0)
	assert.Equal(t, errno.ENOENT, err)
}

func TestStreamSocket(t *testing.T) {
	l, err := Socket(unix.AF_INET, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	require.NoError(t, err)
	defer Close(l)
	lo, err := NewSocketAddrV4(netip.MustParseAddrPort("127.0.0.1:0"))
	require.NoError(t, err)
	require.NoError(t, Bind(l, lo))
	require.NoError(t, Listen(l, 1))

	bound, err := Getsockname(l)
	require.NoError(t, err)
	v4, ok := bound.(SocketAddrV4)
	require.True(t, ok, "%T", bound)
	assert.NotZero(t, v4.Port)

	c, err := Socket(unix.AF_INET, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	require.NoError(t, err)
	defer Close(c)
	require.NoError(t, Connect(c, v4))

	s, peer, err := AcceptFrom(l, unix.SOCK_CLOEXEC)
	require.NoError(t, err)
	defer Close(s)
	local, err := Getsockname(c)
	require.NoError(t, err)
	assert.Equal(t, local, peer)
	remote, err := Getpeername(c)
	require.NoError(t, err)
	assert.Equal(t, v4, remote)

	_, err = Write(c, []byte("hello"))
	require.NoError(t, err)
	buf := make([]byte, 16)
	n, err := Recv(s, buf, unix.MSG_WAITALL)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf[:n]))
}

func TestDatagramSocket(t *testing.T) {
	a, err := Socket(unix.AF_INET6, unix.SOCK_DGRAM|unix.SOCK_CLOEXEC, 0)
	if err == errno.EAFNOSUPPORT {
		t.Skip("no IPv6")
	}
	require.NoError(t, err)
	defer Close(a)
	lo, err := NewSocketAddrV6(netip.MustParseAddrPort("[::1]:0"))
	require.NoError(t, err)
	if err := Bind(a, lo); err == errno.EADDRNOTAVAIL {
		t.Skip("no IPv6 loopback")
	} else {
		require.NoError(t, err)
	}
	dst, err := Getsockname(a)
	require.NoError(t, err)

	b, err := Socket(unix.AF_INET6, unix.SOCK_DGRAM|unix.SOCK_CLOEXEC, 0)
	require.NoError(t, err)
	defer Close(b)
	require.NoError(t, Bind(b, lo))
	n, err := SendTo(b, []byte("ping"), 0, dst)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	buf := make([]byte, 16)
	n, from, err := RecvFrom(a, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "ping", string(buf[:n]))
	src, err := Getsockname(b)
	require.NoError(t, err)
	assert.Equal(t, src, from)
}

func TestFionIoctls(t *testing.T) {
	p, err := Pipe2(unix.O_CLOEXEC)
	require.NoError(t, err)
	defer Close(p[0])
	defer Close(p[1])

	_, err = Write(p[1], []byte("abc"))
	require.NoError(t, err)
	n, err := IoctlFionread(p[0])
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	require.NoError(t, IoctlFionbio(p[0], true))
	fl, err := FcntlGetfl(p[0])
	require.NoError(t, err)
	assert.NotZero(t, fl&unix.O_NONBLOCK)
	require.NoError(t, IoctlFionbio(p[0], false))
	fl, err = FcntlGetfl(p[0])
	require.NoError(t, err)
	assert.Zero(t, fl&unix.O_NONBLOCK)
}
