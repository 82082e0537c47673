package fs

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/opencontainers/posix/errno"
	"github.com/opencontainers/posix/fd"
	"github.com/opencontainers/posix/internal/imp"
)

// DirEntry is one entry read from a directory.
type DirEntry struct {
	Ino  uint64
	Type FileType
	Name string
}

// Dir reads entries from an open directory with getdents64. It borrows the
// descriptor; closing it is up to the caller.
type Dir struct {
	f   fd.AsFd
	buf []byte
	pos int
	end int
}

// offsets in struct linux_dirent64
const (
	direntIno    = 0
	direntReclen = 16
	direntType   = 18
	direntName   = 19
)

// NewDir returns a reader for the directory f, which must have been opened
// for reading (not with O_PATH).
func NewDir(f fd.AsFd) *Dir {
	return &Dir{f: f, buf: make([]byte, 8192)}
}

// Read returns the next entry, including "." and "..". At the end of the
// directory it returns io.EOF.
func (d *Dir) Read() (DirEntry, error) {
	for {
		if d.pos >= d.end {
			n, err := imp.Getdents64(rawFd(d.f), d.buf)
			if err != nil {
				return DirEntry{}, os.NewSyscallError("getdents64", err)
			}
			if n == 0 {
				return DirEntry{}, io.EOF
			}
			d.pos, d.end = 0, n
		}
		rec := d.buf[d.pos:d.end]
		if len(rec) < direntName {
			return DirEntry{}, os.NewSyscallError("getdents64", errno.EIO)
		}
		reclen := int(binary.NativeEndian.Uint16(rec[direntReclen:]))
		if reclen < direntName || reclen > len(rec) {
			return DirEntry{}, os.NewSyscallError("getdents64", errno.EIO)
		}
		d.pos += reclen
		name := rec[direntName:reclen]
		for i, b := range name {
			if b == 0 {
				name = name[:i]
				break
			}
		}
		ino := binary.NativeEndian.Uint64(rec[direntIno:])
		if ino == 0 {
			// Deleted entry.
			continue
		}
		return DirEntry{Ino: ino, Type: fileTypeFromDirent(rec[direntType]), Name: string(name)}, nil
	}
}

// ReadAll returns the remaining entries, skipping "." and "..".
func (d *Dir) ReadAll() ([]DirEntry, error) {
	var out []DirEntry
	for {
		e, err := d.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		if e.Name == "." || e.Name == ".." {
			continue
		}
		out = append(out, e)
	}
}

// Rewind restarts reading from the beginning of the directory.
func (d *Dir) Rewind() error {
	d.pos, d.end = 0, 0
	_, err := Seek(d.f, 0, SeekSet)
	return err
}
