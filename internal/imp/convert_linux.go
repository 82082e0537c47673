package imp

import (
	"golang.org/x/sys/unix"
)

// statFromKernel widens the architecture's struct stat into Stat. On 32-bit
// targets unix.Stat_t already has the stat64 layout.
func statFromKernel(st *unix.Stat_t) Stat {
	return Stat{
		Dev:     uint64(st.Dev),
		Ino:     uint64(st.Ino),
		Nlink:   uint64(st.Nlink),
		Mode:    st.Mode,
		Uid:     st.Uid,
		Gid:     st.Gid,
		Rdev:    uint64(st.Rdev),
		Size:    int64(st.Size),
		Blksize: int64(st.Blksize),
		Blocks:  int64(st.Blocks),
		Atime:   Timespec{Sec: int64(st.Atim.Sec), Nsec: int64(st.Atim.Nsec)},
		Mtime:   Timespec{Sec: int64(st.Mtim.Sec), Nsec: int64(st.Mtim.Nsec)},
		Ctime:   Timespec{Sec: int64(st.Ctim.Sec), Nsec: int64(st.Ctim.Nsec)},
	}
}

func utsnameToUname(u *unix.Utsname) Utsname {
	return Utsname{
		Sysname:    unix.ByteSliceToString(u.Sysname[:]),
		Nodename:   unix.ByteSliceToString(u.Nodename[:]),
		Release:    unix.ByteSliceToString(u.Release[:]),
		Version:    unix.ByteSliceToString(u.Version[:]),
		Machine:    unix.ByteSliceToString(u.Machine[:]),
		Domainname: unix.ByteSliceToString(u.Domainname[:]),
	}
}

// The kernel's epoll_data is a 64-bit union; golang.org/x/sys exposes it as
// the Fd and Pad words (low and high halves on little-endian targets), with
// whatever padding the architecture needs before them.

func encodeEpollEvent(dst *unix.EpollEvent, src *EpollEvent) {
	dst.Events = src.Events
	dst.Fd = int32(uint32(src.Data))
	dst.Pad = int32(uint32(src.Data >> 32))
}

func decodeEpollEvent(dst *EpollEvent, src *unix.EpollEvent) {
	dst.Events = src.Events
	dst.Data = uint64(uint32(src.Fd)) | uint64(uint32(src.Pad))<<32
}

// timeoutToTimespec converts a poll-style millisecond timeout; a negative
// value (wait forever) becomes a nil pointer.
func timeoutToTimespec(ms int32) *Timespec {
	if ms < 0 {
		return nil
	}
	return &Timespec{Sec: int64(ms / 1000), Nsec: int64(ms%1000) * 1e6}
}
