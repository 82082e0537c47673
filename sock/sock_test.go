package sock

import (
	"errors"
	"net/netip"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/nettest"
	"golang.org/x/sys/unix"

	"github.com/opencontainers/posix/errno"
	"github.com/opencontainers/posix/fd"
)

// roundTrip binds a listener to bindAddr, connects to it, exchanges a
// message in both directions and checks the reported addresses.
func roundTrip(t *testing.T, family AddressFamily, bindAddr SocketAddr) {
	t.Helper()
	ln, err := Socket(family, SockStream, ProtoDefault)
	require.NoError(t, err)
	defer ln.Close()
	if family != AFUnix {
		require.NoError(t, Setsockopt(ln, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1))
	}
	require.NoError(t, Bind(ln, bindAddr))
	require.NoError(t, Listen(ln, 1))

	local, err := Getsockname(ln)
	require.NoError(t, err)
	assert.Equal(t, bindAddr.Family(), local.Family())

	c, err := Socket(family, SockStream, ProtoDefault)
	require.NoError(t, err)
	defer c.Close()
	require.NoError(t, Connect(c, local))

	srv, peer, err := AcceptFrom(ln, SockCloexec)
	require.NoError(t, err)
	defer srv.Close()
	require.NotNil(t, peer)
	assert.Equal(t, bindAddr.Family(), peer.Family())

	cname, err := Getsockname(c)
	require.NoError(t, err)
	if family != AFUnix {
		assert.Equal(t, cname, peer, "accepted peer address should be the client's local address")
	}
	speer, err := Getpeername(c)
	require.NoError(t, err)
	assert.Equal(t, local, speer)

	n, err := Send(c, []byte("ping"), SendNosignal)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	buf := make([]byte, 16)
	n, err = Recv(srv, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "ping", string(buf[:n]))

	_, err = Send(srv, []byte("pong"), 0)
	require.NoError(t, err)
	n, from, err := RecvFrom(c, buf[:4], RecvWaitall)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(buf[:n]))
	if from != nil {
		assert.Equal(t, family, AddressFamily(from.Family()))
	}

	require.NoError(t, Shutdown(c, ShutdownWrite))
	n, err = Recv(srv, buf, 0)
	require.NoError(t, err)
	assert.Zero(t, n, "expected EOF after shutdown")
}

func TestRoundTripV4(t *testing.T) {
	addr, err := NewSocketAddrV4(netip.MustParseAddrPort("127.0.0.1:0"))
	require.NoError(t, err)
	roundTrip(t, AFInet, addr)
}

func TestRoundTripV6(t *testing.T) {
	if !nettest.SupportsIPv6() {
		t.Skip("IPv6 not supported")
	}
	addr, err := NewSocketAddrV6(netip.MustParseAddrPort("[::1]:0"))
	require.NoError(t, err)
	roundTrip(t, AFInet6, addr)
}

func TestRoundTripUnix(t *testing.T) {
	path, err := nettest.LocalPath()
	require.NoError(t, err)
	defer os.Remove(path)
	addr, err := NewSocketAddrUnix(path)
	require.NoError(t, err)
	roundTrip(t, AFUnix, addr)

	s, err := Socket(AFUnix, SockStream, ProtoDefault)
	require.NoError(t, err)
	defer s.Close()
	// An unbound socket reports the unnamed address.
	name, err := Getsockname(s)
	require.NoError(t, err)
	u, ok := name.(SocketAddrUnix)
	require.True(t, ok, "got %T", name)
	assert.True(t, u.IsUnnamed())
}

func TestAbstractUnix(t *testing.T) {
	addr, err := NewSocketAddrAbstractUnix([]byte("posix-test\x00abstract"))
	require.NoError(t, err)
	s, err := Socket(AFUnix, SockDgram, ProtoDefault)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, Bind(s, addr))
	name, err := Getsockname(s)
	require.NoError(t, err)
	assert.Equal(t, addr, name)
	assert.True(t, name.(SocketAddrUnix).IsAbstract())
	assert.Equal(t, "@posix-test\x00abstract", name.String())
}

// The kernel's error code comes back unchanged, including codes outside the
// everyday set.
func TestSocketErrnoPassthrough(t *testing.T) {
	_, kerr := unix.Socket(unix.AF_INET, unix.SOCK_SEQPACKET, 0)
	require.Error(t, kerr)
	_, err := Socket(AFInet, SockSeqpacket, ProtoDefault)
	require.Error(t, err)
	e, ok := errno.Of(err)
	require.True(t, ok)
	assert.Equal(t, errno.FromSyscall(kerr.(unix.Errno)), e)
	assert.Equal(t, errno.ESOCKTNOSUPPORT, e)
}

func TestSocketAddrErrors(t *testing.T) {
	_, err := NewSocketAddrUnix(strings.Repeat("x", 108))
	assert.ErrorIs(t, err, errno.ENAMETOOLONG)
	_, err = NewSocketAddrUnix(strings.Repeat("x", 107))
	assert.NoError(t, err)
	_, err = NewSocketAddrUnix("bad\x00path")
	assert.ErrorIs(t, err, errno.EINVAL)
	_, err = NewSocketAddrAbstractUnix(make([]byte, 108))
	assert.ErrorIs(t, err, errno.ENAMETOOLONG)
	_, err = NewSocketAddrV4(netip.MustParseAddrPort("[::1]:80"))
	assert.ErrorIs(t, err, errno.EAFNOSUPPORT)

	v4, err := NewSocketAddrV4(netip.MustParseAddrPort("[::ffff:10.1.2.3]:80"))
	require.NoError(t, err)
	assert.Equal(t, "10.1.2.3:80", v4.String())

	v6, err := NewSocketAddrV6(netip.MustParseAddrPort("[fe80::1%7]:443"))
	require.NoError(t, err)
	assert.Equal(t, uint32(7), v6.ScopeID)
	assert.Equal(t, netip.MustParseAddrPort("[fe80::1%7]:443"), v6.AddrPort())
	_, err = NewSocketAddrV6(netip.MustParseAddrPort("[fe80::1%eth0]:443"))
	assert.ErrorIs(t, err, errno.EINVAL)

	a, err := NewSocketAddr(netip.MustParseAddrPort("192.0.2.1:53"))
	require.NoError(t, err)
	assert.IsType(t, SocketAddrV4{}, a)
	a, err = NewSocketAddr(netip.MustParseAddrPort("[2001:db8::1]:53"))
	require.NoError(t, err)
	assert.IsType(t, SocketAddrV6{}, a)
}

func TestDatagram(t *testing.T) {
	any4, err := NewSocketAddrV4(netip.MustParseAddrPort("127.0.0.1:0"))
	require.NoError(t, err)
	a, err := Socket(AFInet, SockDgram, ProtoUDP)
	require.NoError(t, err)
	defer a.Close()
	b, err := Socket(AFInet, SockDgram, ProtoUDP)
	require.NoError(t, err)
	defer b.Close()
	require.NoError(t, Bind(a, any4))
	require.NoError(t, Bind(b, any4))
	aAddr, err := Getsockname(a)
	require.NoError(t, err)
	bAddr, err := Getsockname(b)
	require.NoError(t, err)

	_, err = SendTo(a, []byte("datagram"), 0, bAddr)
	require.NoError(t, err)
	buf := make([]byte, 32)
	n, from, err := RecvFrom(b, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "datagram", string(buf[:n]))
	assert.Equal(t, aAddr, from)

	_, err = Getpeername(a)
	assert.ErrorIs(t, err, errno.ENOTCONN)
}

func TestSocketpairAndOptions(t *testing.T) {
	a, b, err := Socketpair(AFUnix, SockSeqpacket, SockCloexec, ProtoDefault)
	require.NoError(t, err)
	defer a.Close()
	defer b.Close()

	typ, err := GetsockoptSoType(a)
	require.NoError(t, err)
	assert.Equal(t, SockSeqpacket, typ)

	flags, err := fd.FcntlGetfd(a)
	require.NoError(t, err)
	assert.NotZero(t, flags&fd.FdCloexec)

	require.NoError(t, Setsockopt(a, unix.SOL_SOCKET, unix.SO_SNDBUF, 65536))
	v, err := GetsockoptInt(a, unix.SOL_SOCKET, unix.SO_SNDBUF)
	require.NoError(t, err)
	// The kernel doubles the requested value.
	assert.GreaterOrEqual(t, v, 65536)

	_, err = Recv(b, make([]byte, 1), RecvDontwait)
	assert.ErrorIs(t, err, errno.EAGAIN)
	var se *os.SyscallError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "recv", se.Syscall)
}

func TestNilAddress(t *testing.T) {
	s, err := Socket(AFInet, SockDgram, ProtoUDP)
	require.NoError(t, err)
	defer s.Close()
	assert.ErrorIs(t, Bind(s, nil), errno.EINVAL)
	assert.ErrorIs(t, Connect(s, nil), errno.EINVAL)
	_, err = SendTo(s, []byte("x"), 0, nil)
	assert.ErrorIs(t, err, errno.EDESTADDRREQ, "no address on an unconnected socket")

	a, b, err := Socketpair(AFUnix, SockDgram, SockCloexec, ProtoDefault)
	require.NoError(t, err)
	defer a.Close()
	defer b.Close()
	n, err := SendTo(a, []byte("hi"), 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	buf := make([]byte, 4)
	n, err = Recv(b, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "hi", string(buf[:n]))
}

func TestNonblockAccept(t *testing.T) {
	ln, err := SocketWith(AFInet, SockStream, SockCloexec|SockNonblock, ProtoDefault)
	require.NoError(t, err)
	defer ln.Close()
	addr, _ := NewSocketAddrV4(netip.MustParseAddrPort("127.0.0.1:0"))
	require.NoError(t, Bind(ln, addr))
	require.NoError(t, Listen(ln, 1))
	_, err = Accept(ln)
	assert.ErrorIs(t, err, errno.EWOULDBLOCK)
	_, err = AcceptWith(ln, SockNonblock)
	assert.ErrorIs(t, err, errno.EAGAIN)
}
