package imp

import (
	"net/netip"
	"strconv"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/opencontainers/posix/errno"
	"github.com/opencontainers/posix/patharg"
)

// SocketAddr is a socket address in one of the families this package can
// encode. The set of implementations is closed.
type SocketAddr interface {
	// Family returns the AF_* constant of the address.
	Family() uint16
	String() string

	// encode writes the kernel representation into rsa and returns the
	// length to pass as addrlen.
	encode(rsa *unix.RawSockaddrAny) uint32
}

// SocketAddrV4 is struct sockaddr_in.
type SocketAddrV4 struct {
	Addr [4]byte
	Port uint16
}

// SocketAddrV6 is struct sockaddr_in6. Flowinfo is passed through to the
// kernel unchanged.
type SocketAddrV6 struct {
	Addr     [16]byte
	Port     uint16
	Flowinfo uint32
	ScopeID  uint32
}

// SocketAddrUnix is struct sockaddr_un. An empty, non-abstract address is the
// unnamed address the kernel reports for unbound sockets.
type SocketAddrUnix struct {
	path     string
	abstract bool
}

var (
	_ SocketAddr = SocketAddrV4{}
	_ SocketAddr = SocketAddrV6{}
	_ SocketAddr = SocketAddrUnix{}
)

// sunPathOffset is offsetof(struct sockaddr_un, sun_path).
const sunPathOffset = uint32(unsafe.Offsetof(unix.RawSockaddrUnix{}.Path))

// NewSocketAddrV4 converts ap to a SocketAddrV4. IPv4-mapped IPv6 addresses
// are unmapped; any other IPv6 address is rejected with EAFNOSUPPORT.
func NewSocketAddrV4(ap netip.AddrPort) (SocketAddrV4, error) {
	addr := ap.Addr().Unmap()
	if !addr.Is4() {
		return SocketAddrV4{}, errno.EAFNOSUPPORT
	}
	return SocketAddrV4{Addr: addr.As4(), Port: ap.Port()}, nil
}

// NewSocketAddrV6 converts ap to a SocketAddrV6. IPv4 addresses are mapped
// into ::ffff:0:0/96. A numeric zone becomes the scope id; a named zone is
// rejected with EINVAL, since resolving interface names is not a system call.
func NewSocketAddrV6(ap netip.AddrPort) (SocketAddrV6, error) {
	addr := ap.Addr()
	if !addr.IsValid() {
		return SocketAddrV6{}, errno.EINVAL
	}
	var scope uint32
	if zone := addr.Zone(); zone != "" {
		n, err := strconv.ParseUint(zone, 10, 32)
		if err != nil {
			return SocketAddrV6{}, errno.EINVAL
		}
		scope = uint32(n)
	}
	return SocketAddrV6{Addr: addr.As16(), Port: ap.Port(), ScopeID: scope}, nil
}

// NewSocketAddrUnix builds a filesystem-path Unix-domain address. A path with
// a NUL byte is EINVAL, and one that does not fit in sun_path together with
// its terminator is ENAMETOOLONG.
func NewSocketAddrUnix[P patharg.Arg](path P) (SocketAddrUnix, error) {
	c, err := patharg.IntoCStr(path)
	if err != nil {
		return SocketAddrUnix{}, err
	}
	if len(c) > len(unix.RawSockaddrUnix{}.Path) {
		return SocketAddrUnix{}, errno.ENAMETOOLONG
	}
	return SocketAddrUnix{path: c.String()}, nil
}

// NewSocketAddrAbstractUnix builds an address in the Linux abstract namespace.
// The name may contain any bytes, including NUL.
func NewSocketAddrAbstractUnix(name []byte) (SocketAddrUnix, error) {
	if len(name)+1 > len(unix.RawSockaddrUnix{}.Path) {
		return SocketAddrUnix{}, errno.ENAMETOOLONG
	}
	return SocketAddrUnix{path: string(name), abstract: true}, nil
}

func (SocketAddrV4) Family() uint16   { return unix.AF_INET }
func (SocketAddrV6) Family() uint16   { return unix.AF_INET6 }
func (SocketAddrUnix) Family() uint16 { return unix.AF_UNIX }

// AddrPort returns the address as a netip.AddrPort.
func (a SocketAddrV4) AddrPort() netip.AddrPort {
	return netip.AddrPortFrom(netip.AddrFrom4(a.Addr), a.Port)
}

// AddrPort returns the address as a netip.AddrPort. A non-zero scope id is
// rendered as a numeric zone.
func (a SocketAddrV6) AddrPort() netip.AddrPort {
	addr := netip.AddrFrom16(a.Addr)
	if a.ScopeID != 0 {
		addr = addr.WithZone(strconv.FormatUint(uint64(a.ScopeID), 10))
	}
	return netip.AddrPortFrom(addr, a.Port)
}

// Path returns the filesystem path (or abstract name) of the address.
func (a SocketAddrUnix) Path() string { return a.path }

// IsAbstract reports whether the address is in the abstract namespace.
func (a SocketAddrUnix) IsAbstract() bool { return a.abstract }

// IsUnnamed reports whether this is the address of an unbound socket.
func (a SocketAddrUnix) IsUnnamed() bool { return !a.abstract && a.path == "" }

func (a SocketAddrV4) String() string { return a.AddrPort().String() }
func (a SocketAddrV6) String() string { return a.AddrPort().String() }

func (a SocketAddrUnix) String() string {
	if a.abstract {
		return "@" + a.path
	}
	return a.path
}

func putPort(dst *uint16, port uint16) {
	p := (*[2]byte)(unsafe.Pointer(dst))
	p[0] = byte(port >> 8)
	p[1] = byte(port)
}

func getPort(src *uint16) uint16 {
	p := (*[2]byte)(unsafe.Pointer(src))
	return uint16(p[0])<<8 | uint16(p[1])
}

func (a SocketAddrV4) encode(rsa *unix.RawSockaddrAny) uint32 {
	*rsa = unix.RawSockaddrAny{}
	sa := (*unix.RawSockaddrInet4)(unsafe.Pointer(rsa))
	sa.Family = unix.AF_INET
	putPort(&sa.Port, a.Port)
	sa.Addr = a.Addr
	return unix.SizeofSockaddrInet4
}

func (a SocketAddrV6) encode(rsa *unix.RawSockaddrAny) uint32 {
	*rsa = unix.RawSockaddrAny{}
	sa := (*unix.RawSockaddrInet6)(unsafe.Pointer(rsa))
	sa.Family = unix.AF_INET6
	putPort(&sa.Port, a.Port)
	sa.Flowinfo = a.Flowinfo
	sa.Addr = a.Addr
	sa.Scope_id = a.ScopeID
	return unix.SizeofSockaddrInet6
}

func (a SocketAddrUnix) encode(rsa *unix.RawSockaddrAny) uint32 {
	*rsa = unix.RawSockaddrAny{}
	sa := (*unix.RawSockaddrUnix)(unsafe.Pointer(rsa))
	sa.Family = unix.AF_UNIX
	if a.abstract {
		// sun_path[0] is already NUL; the name follows, unterminated.
		for i := 0; i < len(a.path); i++ {
			sa.Path[1+i] = int8(a.path[i])
		}
		return sunPathOffset + 1 + uint32(len(a.path))
	}
	if a.path == "" {
		return sunPathOffset
	}
	for i := 0; i < len(a.path); i++ {
		sa.Path[i] = int8(a.path[i])
	}
	return sunPathOffset + uint32(len(a.path)) + 1
}

// EncodeSockaddr writes addr into rsa and returns the addrlen to pass along
// with it.
func EncodeSockaddr(addr SocketAddr, rsa *unix.RawSockaddrAny) uint32 {
	return addr.encode(rsa)
}

// DecodeSockaddr decodes the first addrlen bytes of rsa, as filled in by the
// kernel. An addrlen of zero decodes to a nil address. Bytes past addrlen are
// never inspected, and an addrlen larger than the buffer is clamped to it (the
// kernel reports the full length even when it truncated the address).
func DecodeSockaddr(rsa *unix.RawSockaddrAny, addrlen uint32) (SocketAddr, error) {
	if addrlen == 0 {
		return nil, nil
	}
	if limit := uint32(unsafe.Sizeof(*rsa)); addrlen > limit {
		addrlen = limit
	}
	if addrlen < uint32(unsafe.Sizeof(rsa.Addr.Family)) {
		return nil, errno.EINVAL
	}
	switch rsa.Addr.Family {
	case unix.AF_INET:
		if addrlen < unix.SizeofSockaddrInet4 {
			return nil, errno.EINVAL
		}
		sa := (*unix.RawSockaddrInet4)(unsafe.Pointer(rsa))
		return SocketAddrV4{Addr: sa.Addr, Port: getPort(&sa.Port)}, nil
	case unix.AF_INET6:
		if addrlen < unix.SizeofSockaddrInet6 {
			return nil, errno.EINVAL
		}
		sa := (*unix.RawSockaddrInet6)(unsafe.Pointer(rsa))
		return SocketAddrV6{
			Addr:     sa.Addr,
			Port:     getPort(&sa.Port),
			Flowinfo: sa.Flowinfo,
			ScopeID:  sa.Scope_id,
		}, nil
	case unix.AF_UNIX:
		sa := (*unix.RawSockaddrUnix)(unsafe.Pointer(rsa))
		n := int(addrlen - sunPathOffset)
		if n > len(sa.Path) {
			n = len(sa.Path)
		}
		if n == 0 {
			return SocketAddrUnix{}, nil
		}
		raw := make([]byte, n)
		for i := range raw {
			raw[i] = byte(sa.Path[i])
		}
		if raw[0] == 0 {
			return SocketAddrUnix{path: string(raw[1:]), abstract: true}, nil
		}
		for i, b := range raw {
			if b == 0 {
				raw = raw[:i]
				break
			}
		}
		return SocketAddrUnix{path: string(raw)}, nil
	}
	return nil, errno.EAFNOSUPPORT
}
