package procfs

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/opencontainers/posix/fd"
	"github.com/opencontainers/posix/fs"
	"github.com/opencontainers/posix/internal/eintr"
)

// CloseExecFrom sets FD_CLOEXEC on every open descriptor numbered minFd or
// higher. The descriptors are listed through the validated /proc/<pid>/fd.
func CloseExecFrom(minFd int) error {
	fdDir, err := SelfFd()
	if err != nil {
		return err
	}
	// The cached handle is O_PATH; getdents needs a readable one.
	dir, err := fs.Openat(fdDir, ".", fs.ORdonly|fs.ODirectory|fs.OCloexec|fs.ONofollow, 0)
	if err != nil {
		return err
	}
	defer dir.Close()

	entries, err := fs.NewDir(dir).ReadAll()
	if err != nil {
		return err
	}
	for _, ent := range entries {
		n, err := strconv.Atoi(ent.Name)
		// Ignore non-numeric file names.
		if err != nil {
			continue
		}
		if n < minFd || n == dir.Raw() {
			continue
		}
		// Errors are ignored: descriptors listed here may have been closed
		// since.
		_ = fd.FcntlSetfd(fd.Borrow(n), fd.FdCloexec)
	}
	return nil
}

// SelfStartTime returns the start time of the calling process in clock ticks
// after boot, field 22 of /proc/<pid>/stat.
func SelfStartTime() (uint64, error) {
	self, _, err := Self()
	if err != nil {
		return 0, err
	}
	f, err := fs.Openat(self, "stat", fs.ORdonly|fs.OCloexec|fs.ONofollow, 0)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	data, err := readAll(f)
	if err != nil {
		return 0, err
	}
	return parseStartTime(data)
}

func readAll(f fd.AsFd) ([]byte, error) {
	buf := make([]byte, 0, 512)
	for {
		if len(buf) == cap(buf) {
			buf = append(buf, 0)[:len(buf)]
		}
		n, err := eintr.Retry2(func() (int, error) {
			return fd.Read(f, buf[len(buf):cap(buf)])
		})
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return buf, nil
		}
		buf = buf[:len(buf)+n]
	}
}

func parseStartTime(stat []byte) (uint64, error) {
	// The comm field (2) is in parentheses and may itself contain spaces and
	// parentheses, so count fields from after the last ')'.
	//
	// 89653 (gunicorn: maste) S 89630 89653 89653 0 -1 4194560 29689 28896 0 3 146 32 76 19 20 0 1 0 2971844 ...
	i := bytes.LastIndexByte(stat, ')')
	if i < 0 {
		return 0, fmt.Errorf("parse /proc/<pid>/stat: %w", io.ErrUnexpectedEOF)
	}
	parts := bytes.Fields(stat[i+1:])
	const field = 22 - 3 // the fields after comm start at 3
	if len(parts) <= field {
		return 0, fmt.Errorf("parse /proc/<pid>/stat: only %d fields", len(parts)+2)
	}
	v, err := strconv.ParseUint(string(parts[field]), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse /proc/<pid>/stat start time: %w", err)
	}
	return v, nil
}
