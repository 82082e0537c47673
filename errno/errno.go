// Package errno provides the single error type returned by every operation in
// this module. Each value mirrors a Linux errno; callers compare against the
// named constants (usually via [errors.Is]) rather than raw integers.
package errno

import (
	"errors"
	"strconv"
	"syscall"

	"golang.org/x/sys/unix"
)

// Errno is a kernel error code. The zero value is not a valid Errno.
type Errno uint16

// The set of kernel error codes, 1 through 133 less the two numbers Linux
// leaves unassigned. Values are taken from the running architecture's ABI, so
// they can be compared with [unix.Errno] directly.
const (
	EPERM           = Errno(unix.EPERM)
	ENOENT          = Errno(unix.ENOENT)
	ESRCH           = Errno(unix.ESRCH)
	EINTR           = Errno(unix.EINTR)
	EIO             = Errno(unix.EIO)
	ENXIO           = Errno(unix.ENXIO)
	E2BIG           = Errno(unix.E2BIG)
	ENOEXEC         = Errno(unix.ENOEXEC)
	EBADF           = Errno(unix.EBADF)
	ECHILD          = Errno(unix.ECHILD)
	EAGAIN          = Errno(unix.EAGAIN)
	ENOMEM          = Errno(unix.ENOMEM)
	EACCES          = Errno(unix.EACCES)
	EFAULT          = Errno(unix.EFAULT)
	ENOTBLK         = Errno(unix.ENOTBLK)
	EBUSY           = Errno(unix.EBUSY)
	EEXIST          = Errno(unix.EEXIST)
	EXDEV           = Errno(unix.EXDEV)
	ENODEV          = Errno(unix.ENODEV)
	ENOTDIR         = Errno(unix.ENOTDIR)
	EISDIR          = Errno(unix.EISDIR)
	EINVAL          = Errno(unix.EINVAL)
	ENFILE          = Errno(unix.ENFILE)
	EMFILE          = Errno(unix.EMFILE)
	ENOTTY          = Errno(unix.ENOTTY)
	ETXTBSY         = Errno(unix.ETXTBSY)
	EFBIG           = Errno(unix.EFBIG)
	ENOSPC          = Errno(unix.ENOSPC)
	ESPIPE          = Errno(unix.ESPIPE)
	EROFS           = Errno(unix.EROFS)
	EMLINK          = Errno(unix.EMLINK)
	EPIPE           = Errno(unix.EPIPE)
	EDOM            = Errno(unix.EDOM)
	ERANGE          = Errno(unix.ERANGE)
	EDEADLK         = Errno(unix.EDEADLK)
	ENAMETOOLONG    = Errno(unix.ENAMETOOLONG)
	ENOLCK          = Errno(unix.ENOLCK)
	ENOSYS          = Errno(unix.ENOSYS)
	ENOTEMPTY       = Errno(unix.ENOTEMPTY)
	ELOOP           = Errno(unix.ELOOP)
	ENOMSG          = Errno(unix.ENOMSG)
	EIDRM           = Errno(unix.EIDRM)
	ECHRNG          = Errno(unix.ECHRNG)
	EL2NSYNC        = Errno(unix.EL2NSYNC)
	EL3HLT          = Errno(unix.EL3HLT)
	EL3RST          = Errno(unix.EL3RST)
	ELNRNG          = Errno(unix.ELNRNG)
	EUNATCH         = Errno(unix.EUNATCH)
	ENOCSI          = Errno(unix.ENOCSI)
	EL2HLT          = Errno(unix.EL2HLT)
	EBADE           = Errno(unix.EBADE)
	EBADR           = Errno(unix.EBADR)
	EXFULL          = Errno(unix.EXFULL)
	ENOANO          = Errno(unix.ENOANO)
	EBADRQC         = Errno(unix.EBADRQC)
	EBADSLT         = Errno(unix.EBADSLT)
	EBFONT          = Errno(unix.EBFONT)
	ENOSTR          = Errno(unix.ENOSTR)
	ENODATA         = Errno(unix.ENODATA)
	ETIME           = Errno(unix.ETIME)
	ENOSR           = Errno(unix.ENOSR)
	ENONET          = Errno(unix.ENONET)
	ENOPKG          = Errno(unix.ENOPKG)
	EREMOTE         = Errno(unix.EREMOTE)
	ENOLINK         = Errno(unix.ENOLINK)
	EADV            = Errno(unix.EADV)
	ESRMNT          = Errno(unix.ESRMNT)
	ECOMM           = Errno(unix.ECOMM)
	EPROTO          = Errno(unix.EPROTO)
	EMULTIHOP       = Errno(unix.EMULTIHOP)
	EDOTDOT         = Errno(unix.EDOTDOT)
	EBADMSG         = Errno(unix.EBADMSG)
	EOVERFLOW       = Errno(unix.EOVERFLOW)
	ENOTUNIQ        = Errno(unix.ENOTUNIQ)
	EBADFD          = Errno(unix.EBADFD)
	EREMCHG         = Errno(unix.EREMCHG)
	ELIBACC         = Errno(unix.ELIBACC)
	ELIBBAD         = Errno(unix.ELIBBAD)
	ELIBSCN         = Errno(unix.ELIBSCN)
	ELIBMAX         = Errno(unix.ELIBMAX)
	ELIBEXEC        = Errno(unix.ELIBEXEC)
	EILSEQ          = Errno(unix.EILSEQ)
	ERESTART        = Errno(unix.ERESTART)
	ESTRPIPE        = Errno(unix.ESTRPIPE)
	EUSERS          = Errno(unix.EUSERS)
	ENOTSOCK        = Errno(unix.ENOTSOCK)
	EDESTADDRREQ    = Errno(unix.EDESTADDRREQ)
	EMSGSIZE        = Errno(unix.EMSGSIZE)
	EPROTOTYPE      = Errno(unix.EPROTOTYPE)
	ENOPROTOOPT     = Errno(unix.ENOPROTOOPT)
	EPROTONOSUPPORT = Errno(unix.EPROTONOSUPPORT)
	ESOCKTNOSUPPORT = Errno(unix.ESOCKTNOSUPPORT)
	EOPNOTSUPP      = Errno(unix.EOPNOTSUPP)
	EPFNOSUPPORT    = Errno(unix.EPFNOSUPPORT)
	EAFNOSUPPORT    = Errno(unix.EAFNOSUPPORT)
	EADDRINUSE      = Errno(unix.EADDRINUSE)
	EADDRNOTAVAIL   = Errno(unix.EADDRNOTAVAIL)
	ENETDOWN        = Errno(unix.ENETDOWN)
	ENETUNREACH     = Errno(unix.ENETUNREACH)
	ENETRESET       = Errno(unix.ENETRESET)
	ECONNABORTED    = Errno(unix.ECONNABORTED)
	ECONNRESET      = Errno(unix.ECONNRESET)
	ENOBUFS         = Errno(unix.ENOBUFS)
	EISCONN         = Errno(unix.EISCONN)
	ENOTCONN        = Errno(unix.ENOTCONN)
	ESHUTDOWN       = Errno(unix.ESHUTDOWN)
	ETOOMANYREFS    = Errno(unix.ETOOMANYREFS)
	ETIMEDOUT       = Errno(unix.ETIMEDOUT)
	ECONNREFUSED    = Errno(unix.ECONNREFUSED)
	EHOSTDOWN       = Errno(unix.EHOSTDOWN)
	EHOSTUNREACH    = Errno(unix.EHOSTUNREACH)
	EALREADY        = Errno(unix.EALREADY)
	EINPROGRESS     = Errno(unix.EINPROGRESS)
	ESTALE          = Errno(unix.ESTALE)
	EUCLEAN         = Errno(unix.EUCLEAN)
	ENOTNAM         = Errno(unix.ENOTNAM)
	ENAVAIL         = Errno(unix.ENAVAIL)
	EISNAM          = Errno(unix.EISNAM)
	EREMOTEIO       = Errno(unix.EREMOTEIO)
	EDQUOT          = Errno(unix.EDQUOT)
	ENOMEDIUM       = Errno(unix.ENOMEDIUM)
	EMEDIUMTYPE     = Errno(unix.EMEDIUMTYPE)
	ECANCELED       = Errno(unix.ECANCELED)
	ENOKEY          = Errno(unix.ENOKEY)
	EKEYEXPIRED     = Errno(unix.EKEYEXPIRED)
	EKEYREVOKED     = Errno(unix.EKEYREVOKED)
	EKEYREJECTED    = Errno(unix.EKEYREJECTED)
	EOWNERDEAD      = Errno(unix.EOWNERDEAD)
	ENOTRECOVERABLE = Errno(unix.ENOTRECOVERABLE)
	ERFKILL         = Errno(unix.ERFKILL)
	EHWPOISON       = Errno(unix.EHWPOISON)

	// EWOULDBLOCK is the same code as EAGAIN on Linux.
	EWOULDBLOCK = EAGAIN
	// ENOTSUP is the same code as EOPNOTSUPP on Linux.
	ENOTSUP = EOPNOTSUPP
	// EDEADLOCK is the same code as EDEADLK on every architecture this
	// module supports.
	EDEADLOCK = EDEADLK
)

var known = map[Errno]struct{}{}

func init() {
	for _, e := range []Errno{
		EPERM, ENOENT, ESRCH, EINTR, EIO, ENXIO, E2BIG, ENOEXEC, EBADF, ECHILD,
		EAGAIN, ENOMEM, EACCES, EFAULT, ENOTBLK, EBUSY, EEXIST, EXDEV, ENODEV,
		ENOTDIR, EISDIR, EINVAL, ENFILE, EMFILE, ENOTTY, ETXTBSY, EFBIG, ENOSPC,
		ESPIPE, EROFS, EMLINK, EPIPE, EDOM, ERANGE, EDEADLK, ENAMETOOLONG, ENOLCK,
		ENOSYS, ENOTEMPTY, ELOOP, ENOMSG, EIDRM, ECHRNG, EL2NSYNC, EL3HLT, EL3RST,
		ELNRNG, EUNATCH, ENOCSI, EL2HLT, EBADE, EBADR, EXFULL, ENOANO, EBADRQC,
		EBADSLT, EBFONT, ENOSTR, ENODATA, ETIME, ENOSR, ENONET, ENOPKG, EREMOTE,
		ENOLINK, EADV, ESRMNT, ECOMM, EPROTO, EMULTIHOP, EDOTDOT, EBADMSG,
		EOVERFLOW, ENOTUNIQ, EBADFD, EREMCHG, ELIBACC, ELIBBAD, ELIBSCN, ELIBMAX,
		ELIBEXEC, EILSEQ, ERESTART, ESTRPIPE, EUSERS, ENOTSOCK, EDESTADDRREQ,
		EMSGSIZE, EPROTOTYPE, ENOPROTOOPT, EPROTONOSUPPORT, ESOCKTNOSUPPORT,
		EOPNOTSUPP, EPFNOSUPPORT, EAFNOSUPPORT, EADDRINUSE, EADDRNOTAVAIL,
		ENETDOWN, ENETUNREACH, ENETRESET, ECONNABORTED, ECONNRESET, ENOBUFS,
		EISCONN, ENOTCONN, ESHUTDOWN, ETOOMANYREFS, ETIMEDOUT, ECONNREFUSED,
		EHOSTDOWN, EHOSTUNREACH, EALREADY, EINPROGRESS, ESTALE, EUCLEAN, ENOTNAM,
		ENAVAIL, EISNAM, EREMOTEIO, EDQUOT, ENOMEDIUM, EMEDIUMTYPE, ECANCELED,
		ENOKEY, EKEYEXPIRED, EKEYREVOKED, EKEYREJECTED, EOWNERDEAD,
		ENOTRECOVERABLE, ERFKILL, EHWPOISON,
	} {
		known[e] = struct{}{}
	}
}

// maxErrno is the kernel's MAX_ERRNO: a raw syscall result in [-4095, -1] is
// an error code.
const maxErrno = 4095

// FromRaw converts a raw errno value into an Errno. It reports false, and
// returns zero, if raw is not one of the codes listed above.
func FromRaw(raw int) (Errno, bool) {
	if raw <= 0 || raw > maxErrno {
		return 0, false
	}
	e := Errno(raw)
	if _, ok := known[e]; !ok {
		return 0, false
	}
	return e, true
}

// FromSyscall converts a [syscall.Errno] (equivalently [unix.Errno]) into an
// Errno. The kernel's code is passed through unchanged, even when it is not
// one of the named constants; only a value that cannot be an errno at all
// (zero, or above MAX_ERRNO) is reported as EIO.
func FromSyscall(e syscall.Errno) Errno {
	if e == 0 || e > maxErrno {
		return EIO
	}
	return Errno(e)
}

// Of returns the Errno carried by err, unwrapping [os.PathError],
// [os.SyscallError] and any other wrapper that supports [errors.As]. Bare
// [syscall.Errno] values are converted too.
func Of(err error) (Errno, bool) {
	if err == nil {
		return 0, false
	}
	var e Errno
	if errors.As(err, &e) {
		return e, true
	}
	var se syscall.Errno
	if errors.As(err, &se) && se != 0 && se <= maxErrno {
		return Errno(se), true
	}
	return 0, false
}

// Raw returns the numeric errno value.
func (e Errno) Raw() int {
	return int(e)
}

// Name returns the symbolic name of the error, such as "EINVAL".
func (e Errno) Name() string {
	if name := unix.ErrnoName(unix.Errno(e)); name != "" {
		return name
	}
	return "errno " + strconv.Itoa(int(e))
}

// Error returns the kernel's description of the error.
func (e Errno) Error() string {
	return unix.Errno(e).Error()
}

// Is makes [errors.Is] treat an Errno as equal to a [syscall.Errno] of the
// same value, and to the [io/fs] sentinel errors that the corresponding
// syscall.Errno matches (fs.ErrNotExist for ENOENT, and so on).
func (e Errno) Is(target error) bool {
	switch t := target.(type) {
	case Errno:
		return e == t
	case syscall.Errno:
		return syscall.Errno(e) == t
	}
	return syscall.Errno(e).Is(target)
}

// Temporary reports whether the operation might succeed if retried.
func (e Errno) Temporary() bool {
	return e == EINTR || e == EMFILE || e == ENFILE || e.Timeout()
}

// Timeout reports whether the error represents a timeout.
func (e Errno) Timeout() bool {
	return e == EAGAIN || e == ETIMEDOUT
}
