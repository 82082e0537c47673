// Package mm wraps the memory-mapping system calls.
//
// These functions take and return unsafe.Pointer. Nothing here can check that
// an address range is valid or that the caller owns it; each function's
// Safety section lists what the caller must guarantee.
package mm

import (
	"os"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/opencontainers/posix/fd"
	"github.com/opencontainers/posix/internal/imp"
)

// ProtFlags are the PROT_* memory protection bits.
type ProtFlags uint32

const (
	ProtNone  ProtFlags = unix.PROT_NONE
	ProtRead  ProtFlags = unix.PROT_READ
	ProtWrite ProtFlags = unix.PROT_WRITE
	ProtExec  ProtFlags = unix.PROT_EXEC
)

// MapFlags are the MAP_* flags. Exactly one of MapShared, MapSharedValidate
// and MapPrivate must be set.
type MapFlags uint32

const (
	MapShared         MapFlags = unix.MAP_SHARED
	MapSharedValidate MapFlags = unix.MAP_SHARED_VALIDATE
	MapPrivate        MapFlags = unix.MAP_PRIVATE
	MapFixed          MapFlags = unix.MAP_FIXED
	MapFixedNoreplace MapFlags = unix.MAP_FIXED_NOREPLACE
	MapGrowsdown      MapFlags = unix.MAP_GROWSDOWN
	MapHugetlb        MapFlags = unix.MAP_HUGETLB
	MapLocked         MapFlags = unix.MAP_LOCKED
	MapNoreserve      MapFlags = unix.MAP_NORESERVE
	MapPopulate       MapFlags = unix.MAP_POPULATE
	MapStack          MapFlags = unix.MAP_STACK
	MapSync           MapFlags = unix.MAP_SYNC
)

// MlockFlags are the flags accepted by MlockWith.
type MlockFlags uint32

// MLOCK_ONFAULT from <linux/mman.h>; golang.org/x/sys/unix does not export it.
const MlockOnfault MlockFlags = 0x1

// Advice is the advice argument of Madvise.
type Advice int32

const (
	AdviceNormal     Advice = unix.MADV_NORMAL
	AdviceRandom     Advice = unix.MADV_RANDOM
	AdviceSequential Advice = unix.MADV_SEQUENTIAL
	AdviceWillNeed   Advice = unix.MADV_WILLNEED
	AdviceDontNeed   Advice = unix.MADV_DONTNEED
	AdviceFree       Advice = unix.MADV_FREE
	AdviceRemove     Advice = unix.MADV_REMOVE
	AdviceDontFork   Advice = unix.MADV_DONTFORK
	AdviceDoFork     Advice = unix.MADV_DOFORK
	AdviceMergeable  Advice = unix.MADV_MERGEABLE
	AdviceHugepage   Advice = unix.MADV_HUGEPAGE
	AdviceNoHugepage Advice = unix.MADV_NOHUGEPAGE
	AdviceDontDump   Advice = unix.MADV_DONTDUMP
	AdviceDoDump     Advice = unix.MADV_DODUMP
	AdviceWipeOnFork Advice = unix.MADV_WIPEONFORK
	AdviceKeepOnFork Advice = unix.MADV_KEEPONFORK
)

// Mmap maps length bytes of f starting at offset into memory.
//
// Safety: if addr is non-nil and flags include MapFixed, any existing mapping
// at [addr, addr+length) is silently replaced, including memory the Go
// runtime owns. The returned region must be released with Munmap and must not
// be accessed afterwards. On 32-bit targets offset must be a multiple of the
// page size.
func Mmap(addr unsafe.Pointer, length uintptr, prot ProtFlags, flags MapFlags, f fd.AsFd, offset uint64) (unsafe.Pointer, error) {
	p, err := imp.Mmap(addr, length, uint32(prot), uint32(flags), int32(f.AsFd().Raw()), offset)
	return p, os.NewSyscallError("mmap", err)
}

// MmapAnonymous creates an anonymous mapping not backed by any file.
//
// Safety: as for Mmap.
func MmapAnonymous(addr unsafe.Pointer, length uintptr, prot ProtFlags, flags MapFlags) (unsafe.Pointer, error) {
	p, err := imp.Mmap(addr, length, uint32(prot), uint32(flags)|unix.MAP_ANONYMOUS, -1, 0)
	return p, os.NewSyscallError("mmap", err)
}

// Munmap removes the mappings covering [addr, addr+length).
//
// Safety: the range must not contain memory that anything else (the Go heap
// in particular) still uses, and no pointer into it may be dereferenced
// afterwards.
func Munmap(addr unsafe.Pointer, length uintptr) error {
	return os.NewSyscallError("munmap", imp.Munmap(addr, length))
}

// Mprotect changes the protection of the pages in [addr, addr+length).
//
// Safety: removing access from memory that is still in use causes a fault on
// the next access.
func Mprotect(addr unsafe.Pointer, length uintptr, prot ProtFlags) error {
	return os.NewSyscallError("mprotect", imp.Mprotect(addr, length, uint32(prot)))
}

// Mlock locks the pages in [addr, addr+length) into RAM.
//
// Safety: addr must point into memory mapped by the caller.
func Mlock(addr unsafe.Pointer, length uintptr) error {
	return os.NewSyscallError("mlock", imp.Mlock(addr, length))
}

// MlockWith is mlock2. With no flags it behaves like Mlock.
//
// Safety: as for Mlock.
func MlockWith(addr unsafe.Pointer, length uintptr, flags MlockFlags) error {
	return os.NewSyscallError("mlock2", imp.Mlock2(addr, length, uint32(flags)))
}

// Munlock unlocks pages locked by Mlock or MlockWith.
//
// Safety: as for Mlock.
func Munlock(addr unsafe.Pointer, length uintptr) error {
	return os.NewSyscallError("munlock", imp.Munlock(addr, length))
}

// Madvise gives the kernel advice about the use of [addr, addr+length).
//
// Safety: several kinds of advice (AdviceDontNeed, AdviceFree, AdviceRemove)
// discard the contents of the range.
func Madvise(addr unsafe.Pointer, length uintptr, advice Advice) error {
	return os.NewSyscallError("madvise", imp.Madvise(addr, length, int32(advice)))
}
