// Package sock wraps the BSD socket calls for the IPv4, IPv6 and Unix-domain
// address families.
//
// Addresses are passed as [SocketAddr] values and encoded into the kernel's
// sockaddr layouts at the call boundary; addresses the kernel reports back
// are decoded into the same types.
package sock

import (
	"net/netip"
	"os"

	"golang.org/x/sys/unix"

	"github.com/opencontainers/posix/errno"
	"github.com/opencontainers/posix/fd"
	"github.com/opencontainers/posix/internal/imp"
	"github.com/opencontainers/posix/patharg"
)

type (
	// SocketAddr is one of SocketAddrV4, SocketAddrV6 or SocketAddrUnix.
	SocketAddr     = imp.SocketAddr
	SocketAddrV4   = imp.SocketAddrV4
	SocketAddrV6   = imp.SocketAddrV6
	SocketAddrUnix = imp.SocketAddrUnix
)

// NewSocketAddrV4 converts ap; IPv4-mapped IPv6 addresses are unmapped and
// other IPv6 addresses fail with EAFNOSUPPORT.
func NewSocketAddrV4(ap netip.AddrPort) (SocketAddrV4, error) {
	return imp.NewSocketAddrV4(ap)
}

// NewSocketAddrV6 converts ap. A numeric zone becomes the scope id.
func NewSocketAddrV6(ap netip.AddrPort) (SocketAddrV6, error) {
	return imp.NewSocketAddrV6(ap)
}

// NewSocketAddr converts ap to whichever of SocketAddrV4 and SocketAddrV6
// matches its address family.
func NewSocketAddr(ap netip.AddrPort) (SocketAddr, error) {
	if ap.Addr().Is4() {
		v4, err := imp.NewSocketAddrV4(ap)
		if err != nil {
			return nil, err
		}
		return v4, nil
	}
	v6, err := imp.NewSocketAddrV6(ap)
	if err != nil {
		return nil, err
	}
	return v6, nil
}

// NewSocketAddrUnix builds a path-based Unix-domain address. Paths that do
// not fit in sun_path fail with ENAMETOOLONG.
func NewSocketAddrUnix[P patharg.Arg](path P) (SocketAddrUnix, error) {
	return imp.NewSocketAddrUnix(path)
}

// NewSocketAddrAbstractUnix builds an address in the abstract namespace.
func NewSocketAddrAbstractUnix(name []byte) (SocketAddrUnix, error) {
	return imp.NewSocketAddrAbstractUnix(name)
}

// AddressFamily is an AF_* constant.
type AddressFamily int32

const (
	AFUnix  AddressFamily = unix.AF_UNIX
	AFInet  AddressFamily = unix.AF_INET
	AFInet6 AddressFamily = unix.AF_INET6
)

// SocketType is a SOCK_* type.
type SocketType int32

const (
	SockStream    SocketType = unix.SOCK_STREAM
	SockDgram     SocketType = unix.SOCK_DGRAM
	SockSeqpacket SocketType = unix.SOCK_SEQPACKET
	SockRaw       SocketType = unix.SOCK_RAW
)

// Protocol is the protocol argument of socket(2); 0 picks the default.
type Protocol int32

const (
	ProtoDefault Protocol = 0
	ProtoTCP     Protocol = unix.IPPROTO_TCP
	ProtoUDP     Protocol = unix.IPPROTO_UDP
)

// SocketFlags are or-ed into the type argument of socket and socketpair, or
// passed to accept4.
type SocketFlags uint32

const (
	SockNonblock SocketFlags = unix.SOCK_NONBLOCK
	SockCloexec  SocketFlags = unix.SOCK_CLOEXEC
)

// SendFlags are the MSG_* flags of send and sendto.
type SendFlags uint32

const (
	SendConfirm   SendFlags = unix.MSG_CONFIRM
	SendDontroute SendFlags = unix.MSG_DONTROUTE
	SendDontwait  SendFlags = unix.MSG_DONTWAIT
	SendEOR       SendFlags = unix.MSG_EOR
	SendMore      SendFlags = unix.MSG_MORE
	SendNosignal  SendFlags = unix.MSG_NOSIGNAL
	SendOOB       SendFlags = unix.MSG_OOB
)

// RecvFlags are the MSG_* flags of recv and recvfrom.
type RecvFlags uint32

const (
	RecvCmsgCloexec RecvFlags = unix.MSG_CMSG_CLOEXEC
	RecvDontwait    RecvFlags = unix.MSG_DONTWAIT
	RecvErrqueue    RecvFlags = unix.MSG_ERRQUEUE
	RecvOOB         RecvFlags = unix.MSG_OOB
	RecvPeek        RecvFlags = unix.MSG_PEEK
	RecvTrunc       RecvFlags = unix.MSG_TRUNC
	RecvWaitall     RecvFlags = unix.MSG_WAITALL
)

// How is the how argument of Shutdown.
type How int32

const (
	ShutdownRead      How = unix.SHUT_RD
	ShutdownWrite     How = unix.SHUT_WR
	ShutdownReadWrite How = unix.SHUT_RDWR
)

func raw(f fd.AsFd) int32 {
	return int32(f.AsFd().Raw())
}

func owned(n int32, err error) (*fd.OwnedFd, error) {
	if err != nil {
		return nil, err
	}
	return fd.FromRaw(int(n)), nil
}

// Socket creates a socket with SOCK_CLOEXEC set.
func Socket(family AddressFamily, typ SocketType, proto Protocol) (*fd.OwnedFd, error) {
	return SocketWith(family, typ, SockCloexec, proto)
}

// SocketWith creates a socket with the given flags.
func SocketWith(family AddressFamily, typ SocketType, flags SocketFlags, proto Protocol) (*fd.OwnedFd, error) {
	n, err := imp.Socket(int32(family), int32(typ)|int32(flags), int32(proto))
	return owned(n, os.NewSyscallError("socket", err))
}

// Socketpair creates a pair of connected sockets.
func Socketpair(family AddressFamily, typ SocketType, flags SocketFlags, proto Protocol) (*fd.OwnedFd, *fd.OwnedFd, error) {
	p, err := imp.Socketpair(int32(family), int32(typ)|int32(flags), int32(proto))
	if err != nil {
		return nil, nil, os.NewSyscallError("socketpair", err)
	}
	return fd.FromRaw(int(p[0])), fd.FromRaw(int(p[1])), nil
}

// Bind assigns addr to s. A nil addr is EINVAL, as an empty address is to
// the kernel.
func Bind(s fd.AsFd, addr SocketAddr) error {
	if addr == nil {
		return os.NewSyscallError("bind", errno.EINVAL)
	}
	return os.NewSyscallError("bind", imp.Bind(raw(s), addr))
}

// Connect connects s to addr. A nil addr is EINVAL.
func Connect(s fd.AsFd, addr SocketAddr) error {
	if addr == nil {
		return os.NewSyscallError("connect", errno.EINVAL)
	}
	return os.NewSyscallError("connect", imp.Connect(raw(s), addr))
}

func Listen(s fd.AsFd, backlog int) error {
	return os.NewSyscallError("listen", imp.Listen(raw(s), int32(backlog)))
}

// Accept accepts a connection. The new descriptor has SOCK_CLOEXEC set.
func Accept(s fd.AsFd) (*fd.OwnedFd, error) {
	return AcceptWith(s, SockCloexec)
}

// AcceptWith is accept4 with flags.
func AcceptWith(s fd.AsFd, flags SocketFlags) (*fd.OwnedFd, error) {
	n, err := imp.Accept4(raw(s), uint32(flags))
	return owned(n, os.NewSyscallError("accept4", err))
}

// AcceptFrom accepts a connection and also returns the peer address, which is
// nil for an unnamed peer on some families.
func AcceptFrom(s fd.AsFd, flags SocketFlags) (*fd.OwnedFd, SocketAddr, error) {
	n, addr, err := imp.AcceptFrom(raw(s), uint32(flags))
	if err != nil {
		return nil, nil, os.NewSyscallError("accept4", err)
	}
	return fd.FromRaw(int(n)), addr, nil
}

func Shutdown(s fd.AsFd, how How) error {
	return os.NewSyscallError("shutdown", imp.Shutdown(raw(s), int32(how)))
}

func Send(s fd.AsFd, buf []byte, flags SendFlags) (int, error) {
	n, err := imp.Send(raw(s), buf, uint32(flags))
	return n, os.NewSyscallError("send", err)
}

// SendTo sends buf to addr. With a nil addr no address is passed, which is
// only valid on a connected socket.
func SendTo(s fd.AsFd, buf []byte, flags SendFlags, addr SocketAddr) (int, error) {
	if addr == nil {
		n, err := imp.Send(raw(s), buf, uint32(flags))
		return n, os.NewSyscallError("sendto", err)
	}
	n, err := imp.SendTo(raw(s), buf, uint32(flags), addr)
	return n, os.NewSyscallError("sendto", err)
}

func Recv(s fd.AsFd, buf []byte, flags RecvFlags) (int, error) {
	n, err := imp.Recv(raw(s), buf, uint32(flags))
	return n, os.NewSyscallError("recv", err)
}

// RecvFrom receives a message and the address it came from. The address is
// nil when the sender has none (a connected stream socket, for one).
func RecvFrom(s fd.AsFd, buf []byte, flags RecvFlags) (int, SocketAddr, error) {
	n, addr, err := imp.RecvFrom(raw(s), buf, uint32(flags))
	return n, addr, os.NewSyscallError("recvfrom", err)
}

func Getsockname(s fd.AsFd) (SocketAddr, error) {
	addr, err := imp.Getsockname(raw(s))
	return addr, os.NewSyscallError("getsockname", err)
}

func Getpeername(s fd.AsFd) (SocketAddr, error) {
	addr, err := imp.Getpeername(raw(s))
	return addr, os.NewSyscallError("getpeername", err)
}

// GetsockoptSoType returns the SO_TYPE of s.
func GetsockoptSoType(s fd.AsFd) (SocketType, error) {
	v, err := imp.GetsockoptInt(raw(s), unix.SOL_SOCKET, unix.SO_TYPE)
	return SocketType(v), os.NewSyscallError("getsockopt", err)
}

// GetsockoptInt reads an integer-valued socket option.
func GetsockoptInt(s fd.AsFd, level, opt int) (int, error) {
	v, err := imp.GetsockoptInt(raw(s), int32(level), int32(opt))
	return int(v), os.NewSyscallError("getsockopt", err)
}

// Setsockopt sets an integer-valued socket option, such as
// (unix.SOL_SOCKET, unix.SO_REUSEADDR).
func Setsockopt(s fd.AsFd, level, opt, value int) error {
	return os.NewSyscallError("setsockopt", imp.SetsockoptInt(raw(s), int32(level), int32(opt), int32(value)))
}
