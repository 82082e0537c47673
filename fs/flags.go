package fs

import (
	"golang.org/x/sys/unix"
)

// OFlags are the O_* flags of open and openat, also returned by F_GETFL.
type OFlags uint32

const (
	ORdonly    OFlags = unix.O_RDONLY
	OWronly    OFlags = unix.O_WRONLY
	ORdwr      OFlags = unix.O_RDWR
	OAccmode   OFlags = unix.O_ACCMODE
	OCreate    OFlags = unix.O_CREAT
	OExcl      OFlags = unix.O_EXCL
	ONoctty    OFlags = unix.O_NOCTTY
	OTrunc     OFlags = unix.O_TRUNC
	OAppend    OFlags = unix.O_APPEND
	ONonblock  OFlags = unix.O_NONBLOCK
	ODsync     OFlags = unix.O_DSYNC
	OSync      OFlags = unix.O_SYNC
	ORsync     OFlags = unix.O_RSYNC
	ODirect    OFlags = unix.O_DIRECT
	ODirectory OFlags = unix.O_DIRECTORY
	ONofollow  OFlags = unix.O_NOFOLLOW
	ONoatime   OFlags = unix.O_NOATIME
	OCloexec   OFlags = unix.O_CLOEXEC
	OPath      OFlags = unix.O_PATH
	OTmpfile   OFlags = unix.O_TMPFILE
)

// Mode holds permission bits, and for Mknodat the file type as well.
type Mode uint32

const (
	ModeRWXU Mode = unix.S_IRWXU
	ModeRUSR Mode = unix.S_IRUSR
	ModeWUSR Mode = unix.S_IWUSR
	ModeXUSR Mode = unix.S_IXUSR
	ModeRWXG Mode = unix.S_IRWXG
	ModeRGRP Mode = unix.S_IRGRP
	ModeWGRP Mode = unix.S_IWGRP
	ModeXGRP Mode = unix.S_IXGRP
	ModeRWXO Mode = unix.S_IRWXO
	ModeROTH Mode = unix.S_IROTH
	ModeWOTH Mode = unix.S_IWOTH
	ModeXOTH Mode = unix.S_IXOTH
	ModeSUID Mode = unix.S_ISUID
	ModeSGID Mode = unix.S_ISGID
	ModeSVTX Mode = unix.S_ISVTX
)

// FileType is the S_IFMT part of a mode.
type FileType uint32

const (
	TypeRegular         FileType = unix.S_IFREG
	TypeDirectory       FileType = unix.S_IFDIR
	TypeSymlink         FileType = unix.S_IFLNK
	TypeFifo            FileType = unix.S_IFIFO
	TypeSocket          FileType = unix.S_IFSOCK
	TypeCharacterDevice FileType = unix.S_IFCHR
	TypeBlockDevice     FileType = unix.S_IFBLK
	TypeUnknown         FileType = unix.S_IFMT
)

// FileTypeFromMode extracts the file type from a st_mode value.
func FileTypeFromMode(mode uint32) FileType {
	switch t := FileType(mode & unix.S_IFMT); t {
	case TypeRegular, TypeDirectory, TypeSymlink, TypeFifo, TypeSocket, TypeCharacterDevice, TypeBlockDevice:
		return t
	}
	return TypeUnknown
}

// fileTypeFromDirent maps a d_type value.
func fileTypeFromDirent(t uint8) FileType {
	switch t {
	case unix.DT_REG:
		return TypeRegular
	case unix.DT_DIR:
		return TypeDirectory
	case unix.DT_LNK:
		return TypeSymlink
	case unix.DT_FIFO:
		return TypeFifo
	case unix.DT_SOCK:
		return TypeSocket
	case unix.DT_CHR:
		return TypeCharacterDevice
	case unix.DT_BLK:
		return TypeBlockDevice
	}
	return TypeUnknown
}

func (t FileType) String() string {
	switch t {
	case TypeRegular:
		return "regular file"
	case TypeDirectory:
		return "directory"
	case TypeSymlink:
		return "symlink"
	case TypeFifo:
		return "fifo"
	case TypeSocket:
		return "socket"
	case TypeCharacterDevice:
		return "character device"
	case TypeBlockDevice:
		return "block device"
	}
	return "unknown"
}

// AtFlags are the AT_* flags of the *at functions.
type AtFlags uint32

const (
	AtSymlinkNofollow AtFlags = unix.AT_SYMLINK_NOFOLLOW
	AtSymlinkFollow   AtFlags = unix.AT_SYMLINK_FOLLOW
	AtRemovedir       AtFlags = unix.AT_REMOVEDIR
	AtEaccess         AtFlags = unix.AT_EACCESS
	AtEmptyPath       AtFlags = unix.AT_EMPTY_PATH
	AtNoAutomount     AtFlags = unix.AT_NO_AUTOMOUNT
	AtStatxSyncAsStat AtFlags = unix.AT_STATX_SYNC_AS_STAT
	AtStatxForceSync  AtFlags = unix.AT_STATX_FORCE_SYNC
	AtStatxDontSync   AtFlags = unix.AT_STATX_DONT_SYNC
)

// Access is the mode argument of Accessat.
type Access uint32

const (
	AccessExists Access = unix.F_OK
	AccessRead   Access = unix.R_OK
	AccessWrite  Access = unix.W_OK
	AccessExec   Access = unix.X_OK
)

// RenameFlags are the flags of Renameat2.
type RenameFlags uint32

const (
	RenameNoreplace RenameFlags = unix.RENAME_NOREPLACE
	RenameExchange  RenameFlags = unix.RENAME_EXCHANGE
	RenameWhiteout  RenameFlags = unix.RENAME_WHITEOUT
)

// StatxFlags is the mask of fields requested from (and returned by) Statx.
type StatxFlags uint32

const (
	StatxType       StatxFlags = unix.STATX_TYPE
	StatxMode       StatxFlags = unix.STATX_MODE
	StatxNlink      StatxFlags = unix.STATX_NLINK
	StatxUID        StatxFlags = unix.STATX_UID
	StatxGID        StatxFlags = unix.STATX_GID
	StatxAtime      StatxFlags = unix.STATX_ATIME
	StatxMtime      StatxFlags = unix.STATX_MTIME
	StatxCtime      StatxFlags = unix.STATX_CTIME
	StatxIno        StatxFlags = unix.STATX_INO
	StatxSize       StatxFlags = unix.STATX_SIZE
	StatxBlocks     StatxFlags = unix.STATX_BLOCKS
	StatxBasicStats StatxFlags = unix.STATX_BASIC_STATS
	StatxBtime      StatxFlags = unix.STATX_BTIME
	StatxMntID      StatxFlags = unix.STATX_MNT_ID
	StatxAll        StatxFlags = unix.STATX_ALL
)

// FallocateFlags are the mode bits of Fallocate.
type FallocateFlags uint32

const (
	FallocKeepSize      FallocateFlags = unix.FALLOC_FL_KEEP_SIZE
	FallocPunchHole     FallocateFlags = unix.FALLOC_FL_PUNCH_HOLE
	FallocCollapseRange FallocateFlags = unix.FALLOC_FL_COLLAPSE_RANGE
	FallocZeroRange     FallocateFlags = unix.FALLOC_FL_ZERO_RANGE
	FallocInsertRange   FallocateFlags = unix.FALLOC_FL_INSERT_RANGE
	FallocUnshareRange  FallocateFlags = unix.FALLOC_FL_UNSHARE_RANGE
)

// Advice is the advice argument of Fadvise.
type Advice int32

const (
	AdviceNormal     Advice = unix.FADV_NORMAL
	AdviceSequential Advice = unix.FADV_SEQUENTIAL
	AdviceRandom     Advice = unix.FADV_RANDOM
	AdviceNoReuse    Advice = unix.FADV_NOREUSE
	AdviceWillNeed   Advice = unix.FADV_WILLNEED
	AdviceDontNeed   Advice = unix.FADV_DONTNEED
)

// FlockOperation is the operation argument of Flock.
type FlockOperation int32

const (
	LockShared               FlockOperation = unix.LOCK_SH
	LockExclusive            FlockOperation = unix.LOCK_EX
	Unlock                   FlockOperation = unix.LOCK_UN
	NonBlockingLockShared    FlockOperation = unix.LOCK_SH | unix.LOCK_NB
	NonBlockingLockExclusive FlockOperation = unix.LOCK_EX | unix.LOCK_NB
	NonBlockingUnlock        FlockOperation = unix.LOCK_UN | unix.LOCK_NB
)

// Whence selects the reference point of Seek.
type Whence int32

const (
	SeekSet  Whence = unix.SEEK_SET
	SeekCur  Whence = unix.SEEK_CUR
	SeekEnd  Whence = unix.SEEK_END
	SeekData Whence = unix.SEEK_DATA
	SeekHole Whence = unix.SEEK_HOLE
)

// MemfdFlags are the flags of MemfdCreate.
type MemfdFlags uint32

const (
	MemfdCloexec      MemfdFlags = unix.MFD_CLOEXEC
	MemfdAllowSealing MemfdFlags = unix.MFD_ALLOW_SEALING
	MemfdHugetlb      MemfdFlags = unix.MFD_HUGETLB
)

// SealFlags are the F_SEAL_* bits.
type SealFlags uint32

const (
	SealSeal   SealFlags = unix.F_SEAL_SEAL
	SealShrink SealFlags = unix.F_SEAL_SHRINK
	SealGrow   SealFlags = unix.F_SEAL_GROW
	SealWrite  SealFlags = unix.F_SEAL_WRITE
)

// UtimeNow and UtimeOmit are special Nsec values for Utimensat: set the
// timestamp to the current time, or leave it unchanged.
const (
	UtimeNow  = unix.UTIME_NOW
	UtimeOmit = unix.UTIME_OMIT
)

// Statfs magic numbers that callers commonly compare Fstatfs results with.
const (
	ProcSuperMagic = unix.PROC_SUPER_MAGIC
	TmpfsMagic     = unix.TMPFS_MAGIC
	Ext4SuperMagic = unix.EXT4_SUPER_MAGIC
	OverlayfsMagic = unix.OVERLAYFS_SUPER_MAGIC
)
