package fs

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/mrunalp/fileutils"
	"github.com/syndtr/gocapability/capability"

	"github.com/opencontainers/posix/errno"
	"github.com/opencontainers/posix/fd"
)

func openDir(t *testing.T, path string) *fd.OwnedFd {
	t.Helper()
	d, err := Open(path, ORdonly|ODirectory|OCloexec, 0)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func hasCapability(t *testing.T, c capability.Cap) bool {
	t.Helper()
	caps, err := capability.NewPid2(0)
	if err != nil {
		t.Fatal(err)
	}
	if err := caps.Load(); err != nil {
		t.Fatal(err)
	}
	return caps.Get(capability.EFFECTIVE, c)
}

// Resolving through a directory handle and through the absolute path must
// reach the same inode.
func TestAtMatchesAbsolute(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "a", "b"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "a", "b", "file"), "data")
	dirfd := openDir(t, dir)

	for _, rel := range []string{"a", "a/b", "a/b/file", "a/b/../b/file", "."} {
		viaAt, err := Statat(dirfd, rel, 0)
		if err != nil {
			t.Fatalf("statat %q: %v", rel, err)
		}
		viaAbs, err := StatPath(filepath.Join(dir, rel))
		if err != nil {
			t.Fatalf("stat %q: %v", rel, err)
		}
		if viaAt.Dev != viaAbs.Dev || viaAt.Ino != viaAbs.Ino {
			t.Errorf("%q: statat (%d,%d) != stat (%d,%d)", rel, viaAt.Dev, viaAt.Ino, viaAbs.Dev, viaAbs.Ino)
		}
	}

	f, err := Openat(dirfd, []byte("a/b/file"), ORdonly|OCloexec, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	st, err := Fstat(f)
	if err != nil {
		t.Fatal(err)
	}
	abs, _ := StatPath(filepath.Join(dir, "a/b/file"))
	if st.Ino != abs.Ino || st.Size != 4 || FileTypeFromMode(st.Mode) != TypeRegular {
		t.Errorf("fstat: %+v", st)
	}
}

func TestInteriorNUL(t *testing.T) {
	_, err := Open("foo\x00bar", ORdonly|OCloexec, 0)
	if !errors.Is(err, errno.EINVAL) {
		t.Errorf("expected EINVAL, got %v", err)
	}
	var pe *os.PathError
	if !errors.As(err, &pe) || pe.Op != "openat" {
		t.Errorf("expected *os.PathError from openat, got %#v", err)
	}
}

func TestOpenatCreate(t *testing.T) {
	dirfd := openDir(t, t.TempDir())
	f, err := Openat(dirfd, "new", OWronly|OCreate|OExcl|OCloexec, 0o600)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fd.Write(f, []byte("hello")); err != nil {
		t.Fatal(err)
	}
	f.Close()
	if _, err := Openat(dirfd, "new", OWronly|OCreate|OExcl|OCloexec, 0o600); !errors.Is(err, errno.EEXIST) {
		t.Errorf("expected EEXIST, got %v", err)
	}
	if _, err := Openat(dirfd, "missing", ORdonly|OCloexec, 0); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
	st, err := Statat(dirfd, "new", 0)
	if err != nil {
		t.Fatal(err)
	}
	if st.Mode&0o077 != 0 {
		t.Errorf("mode %o", st.Mode&0o777)
	}
}

func TestStatx(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "f"), "12345")
	stx, err := Statx(Cwd(), filepath.Join(dir, "f"), 0, StatxBasicStats)
	if errors.Is(err, errno.ENOSYS) {
		t.Skip("statx not supported")
	}
	if err != nil {
		t.Fatal(err)
	}
	st, _ := StatPath(filepath.Join(dir, "f"))
	if stx.Size != 5 || stx.Ino != st.Ino {
		t.Errorf("statx: size %d ino %d, stat ino %d", stx.Size, stx.Ino, st.Ino)
	}
}

func TestReadlinkat(t *testing.T) {
	dir := t.TempDir()
	dirfd := openDir(t, dir)
	long := strings.Repeat("x/", 600) + "end"
	for _, target := range []string{"short", long, strings.Repeat("y", 255), strings.Repeat("z", 256)} {
		const name = "link"
		if err := Symlinkat(target, dirfd, name); err != nil {
			t.Fatal(err)
		}
		got, err := Readlinkat(dirfd, name, make([]byte, 0, 16))
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != target {
			t.Errorf("readlinkat: got %d bytes, expected %d", len(got), len(target))
		}
		if err := Unlinkat(dirfd, name, 0); err != nil {
			t.Fatal(err)
		}
	}
	writeFile(t, filepath.Join(dir, "plain"), "")
	if _, err := Readlinkat(dirfd, "plain", nil); !errors.Is(err, errno.EINVAL) {
		t.Errorf("readlink on regular file: expected EINVAL, got %v", err)
	}
}

func TestAccessat(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "f"), "")
	dirfd := openDir(t, dir)

	if err := Accessat(dirfd, "f", AccessRead|AccessWrite, 0); err != nil {
		t.Errorf("access: %v", err)
	}
	if err := Accessat(dirfd, "missing", AccessExists, 0); !errors.Is(err, errno.ENOENT) {
		t.Errorf("expected ENOENT, got %v", err)
	}
	if err := Accessat(dirfd, "f", AccessRead, AtSymlinkNofollow); !errors.Is(err, errno.EINVAL) {
		t.Errorf("unsupported flag: expected EINVAL, got %v", err)
	}
	err := Accessat(dirfd, "f", AccessRead, AtEaccess)
	if os.Getuid() == os.Geteuid() && os.Getgid() == os.Getegid() {
		if err != nil {
			t.Errorf("AT_EACCESS with equal ids: %v", err)
		}
	} else if !errors.Is(err, errno.ENOSYS) {
		t.Errorf("AT_EACCESS with differing ids: expected ENOSYS, got %v", err)
	}
}

func TestAccessDenied(t *testing.T) {
	if hasCapability(t, capability.CAP_DAC_OVERRIDE) {
		t.Skip("permission checks are bypassed with CAP_DAC_OVERRIDE")
	}
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "f"), "")
	dirfd := openDir(t, dir)
	if err := Chmodat(dirfd, "f", 0); err != nil {
		t.Fatal(err)
	}
	if err := Accessat(dirfd, "f", AccessRead, 0); !errors.Is(err, errno.EACCES) {
		t.Errorf("expected EACCES, got %v", err)
	}
	if _, err := Openat(dirfd, "f", ORdonly|OCloexec, 0); !errors.Is(err, os.ErrPermission) {
		t.Errorf("expected ErrPermission, got %v", err)
	}
}

func TestChmodat(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "f"), "")
	dirfd := openDir(t, dir)
	if err := Chmodat(dirfd, "f", 0o640); err != nil {
		t.Fatal(err)
	}
	st, _ := Statat(dirfd, "f", 0)
	if st.Mode&0o7777 != 0o640 {
		t.Errorf("mode %o", st.Mode&0o7777)
	}
	f, _ := Openat(dirfd, "f", ORdonly|OCloexec, 0)
	defer f.Close()
	if err := Fchmod(f, 0o604); err != nil {
		t.Fatal(err)
	}
	st, _ = Fstat(f)
	if st.Mode&0o7777 != 0o604 {
		t.Errorf("mode %o", st.Mode&0o7777)
	}
}

func TestUtimensat(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "f"), "")
	dirfd := openDir(t, dir)
	ts := Timestamps{
		LastAccess:       Timespec{Sec: 1000000000, Nsec: 123},
		LastModification: Timespec{Sec: 1500000000, Nsec: 456},
	}
	if err := Utimensat(dirfd, "f", &ts, 0); err != nil {
		t.Fatal(err)
	}
	st, _ := Statat(dirfd, "f", 0)
	if st.Atime != ts.LastAccess || st.Mtime != ts.LastModification {
		t.Errorf("atime %+v mtime %+v", st.Atime, st.Mtime)
	}

	f, _ := Openat(dirfd, "f", ORdonly|OCloexec, 0)
	defer f.Close()
	omit := Timestamps{
		LastAccess:       Timespec{Nsec: UtimeOmit},
		LastModification: Timespec{Sec: 1600000000},
	}
	if err := Futimens(f, &omit); err != nil {
		t.Fatal(err)
	}
	st, _ = Fstat(f)
	if st.Atime != ts.LastAccess || st.Mtime.Sec != 1600000000 {
		t.Errorf("atime %+v mtime %+v", st.Atime, st.Mtime)
	}
}

func TestNamespaceOps(t *testing.T) {
	dir := t.TempDir()
	dirfd := openDir(t, dir)

	if err := Mkdirat(dirfd, "d", 0o755); err != nil {
		t.Fatal(err)
	}
	if err := Mkdirat(dirfd, "d", 0o755); !errors.Is(err, os.ErrExist) {
		t.Errorf("expected ErrExist, got %v", err)
	}
	writeFile(t, filepath.Join(dir, "f"), "x")
	if err := Linkat(dirfd, "f", dirfd, "d/hard", 0); err != nil {
		t.Fatal(err)
	}
	st, _ := Statat(dirfd, "f", 0)
	if st.Nlink != 2 {
		t.Errorf("nlink %d", st.Nlink)
	}
	if err := Symlinkat("../f", dirfd, "d/soft"); err != nil {
		t.Fatal(err)
	}
	lst, err := Statat(dirfd, "d/soft", AtSymlinkNofollow)
	if err != nil {
		t.Fatal(err)
	}
	if FileTypeFromMode(lst.Mode) != TypeSymlink {
		t.Errorf("lstat type %v", FileTypeFromMode(lst.Mode))
	}
	if followed, _ := Statat(dirfd, "d/soft", 0); followed.Ino != st.Ino {
		t.Error("symlink does not resolve to the file")
	}
	if err := Renameat(dirfd, "f", dirfd, "g"); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "f"), "y")
	err = Renameat2(dirfd, "f", dirfd, "g", RenameNoreplace)
	switch {
	case errors.Is(err, errno.EINVAL), errors.Is(err, errno.ENOSYS):
		t.Log("renameat2 RENAME_NOREPLACE not supported here")
	case !errors.Is(err, errno.EEXIST):
		t.Errorf("expected EEXIST, got %v", err)
	}
	if err := Mknodat(dirfd, "fifo", TypeFifo, 0o600, 0); err != nil {
		t.Fatal(err)
	}
	if st, _ := Lstat(filepath.Join(dir, "fifo")); FileTypeFromMode(st.Mode) != TypeFifo {
		t.Errorf("mknod type %v", FileTypeFromMode(st.Mode))
	}
	if err := Unlinkat(dirfd, "d", AtRemovedir); !errors.Is(err, errno.ENOTEMPTY) && !errors.Is(err, errno.EEXIST) {
		t.Errorf("expected ENOTEMPTY, got %v", err)
	}
	for _, name := range []string{"d/hard", "d/soft"} {
		if err := Unlinkat(dirfd, name, 0); err != nil {
			t.Fatal(err)
		}
	}
	if err := Unlinkat(dirfd, "d", AtRemovedir); err != nil {
		t.Fatal(err)
	}
}

func TestDir(t *testing.T) {
	dir := t.TempDir()
	names := []string{"one", "two", "three"}
	for _, n := range names {
		writeFile(t, filepath.Join(dir, n), "")
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	dirfd := openDir(t, dir)
	d := NewDir(dirfd)
	entries, err := d.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, e := range entries {
		got = append(got, e.Name)
		if e.Name == "sub" && e.Type != TypeDirectory && e.Type != TypeUnknown {
			t.Errorf("sub: type %v", e.Type)
		}
	}
	sort.Strings(got)
	if want := []string{"one", "sub", "three", "two"}; strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("got %v, expected %v", got, want)
	}
	if err := d.Rewind(); err != nil {
		t.Fatal(err)
	}
	again, err := d.ReadAll()
	if err != nil || len(again) != len(entries) {
		t.Errorf("after rewind: %d entries, %v", len(again), err)
	}
}

func TestSeekTruncate(t *testing.T) {
	dir := t.TempDir()
	f, err := Open(filepath.Join(dir, "f"), ORdwr|OCreate|OCloexec, 0o600)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := fd.Write(f, []byte("0123456789")); err != nil {
		t.Fatal(err)
	}
	if pos, err := Tell(f); err != nil || pos != 10 {
		t.Errorf("tell: %d, %v", pos, err)
	}
	if pos, err := Seek(f, -4, SeekEnd); err != nil || pos != 6 {
		t.Errorf("seek end: %d, %v", pos, err)
	}
	if _, err := Seek(f, -100, SeekCur); !errors.Is(err, errno.EINVAL) {
		t.Errorf("seek before start: expected EINVAL, got %v", err)
	}
	if err := Ftruncate(f, 4); err != nil {
		t.Fatal(err)
	}
	if st, _ := Fstat(f); st.Size != 4 {
		t.Errorf("size %d", st.Size)
	}
	if err := Ftruncate(f, 1<<63); !errors.Is(err, errno.EINVAL) {
		t.Errorf("huge truncate: expected EINVAL, got %v", err)
	}
	// Offsets beyond 4GiB must survive the trip on 32-bit targets too.
	const big = 5 << 30
	if err := Ftruncate(f, big); err != nil {
		t.Skipf("sparse 5GiB file not supported: %v", err)
	}
	if pos, err := Seek(f, 0, SeekEnd); err != nil || pos != big {
		t.Errorf("seek end after truncate: %d, %v", pos, err)
	}
	if _, err := fd.Pwrite(f, []byte("!"), big+1); err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, 1)
	if _, err := fd.Pread(f, buf, big+1); err != nil || buf[0] != '!' {
		t.Errorf("pread past 4GiB: %q, %v", buf, err)
	}
}

func TestFallocateFadvise(t *testing.T) {
	f, err := Open(filepath.Join(t.TempDir(), "f"), ORdwr|OCreate|OCloexec, 0o600)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	err = Fallocate(f, 0, 0, 8192)
	if errors.Is(err, errno.EOPNOTSUPP) {
		t.Skip("fallocate not supported by this file system")
	}
	if err != nil {
		t.Fatal(err)
	}
	if st, _ := Fstat(f); st.Size != 8192 {
		t.Errorf("size %d", st.Size)
	}
	if err := Fadvise(f, 0, 8192, AdviceSequential); err != nil {
		t.Errorf("fadvise: %v", err)
	}
	if err := Fadvise(f, 0, 0, Advice(1000)); !errors.Is(err, errno.EINVAL) {
		t.Errorf("bad advice: expected EINVAL, got %v", err)
	}
	if err := Fsync(f); err != nil {
		t.Error(err)
	}
	if err := Fdatasync(f); err != nil {
		t.Error(err)
	}
}

func TestFlock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lock")
	a, err := Open(path, ORdwr|OCreate|OCloexec, 0o600)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	b, err := Open(path, ORdwr|OCloexec, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	if err := Flock(a, LockExclusive); err != nil {
		t.Fatal(err)
	}
	if err := Flock(b, NonBlockingLockShared); !errors.Is(err, errno.EWOULDBLOCK) {
		t.Errorf("expected EWOULDBLOCK, got %v", err)
	}
	if err := Flock(a, Unlock); err != nil {
		t.Fatal(err)
	}
	if err := Flock(b, NonBlockingLockShared); err != nil {
		t.Errorf("after unlock: %v", err)
	}
}

func TestFcntl(t *testing.T) {
	f, err := Open(filepath.Join(t.TempDir(), "f"), OWronly|OCreate|OAppend|OCloexec, 0o600)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	fl, err := FcntlGetfl(f)
	if err != nil {
		t.Fatal(err)
	}
	if fl&OAccmode != OWronly || fl&OAppend == 0 {
		t.Errorf("flags %#x", fl)
	}
	if err := FcntlSetfl(f, fl|ONonblock); err != nil {
		t.Fatal(err)
	}
	if fl, _ := FcntlGetfl(f); fl&ONonblock == 0 {
		t.Error("O_NONBLOCK not set")
	}
	d, err := FcntlDupfdCloexec(f, 100)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()
	if d.Raw() < 100 {
		t.Errorf("dup got %d", d.Raw())
	}
	if fdfl, _ := fd.FcntlGetfd(d); fdfl&fd.FdCloexec == 0 {
		t.Error("FD_CLOEXEC not set")
	}

	r, w, err := fd.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	defer w.Close()
	if err := FcntlSetPipeSize(w, 1<<16); err != nil {
		t.Fatal(err)
	}
	if n, err := FcntlGetPipeSize(r); err != nil || n < 1<<16 {
		t.Errorf("pipe size %d, %v", n, err)
	}
}

func TestMemfdSeals(t *testing.T) {
	m, err := MemfdCreate("posix-test", MemfdCloexec|MemfdAllowSealing)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()
	if _, err := fd.Write(m, []byte("sealed")); err != nil {
		t.Fatal(err)
	}
	if err := FcntlAddSeals(m, SealShrink|SealGrow|SealWrite); err != nil {
		t.Fatal(err)
	}
	seals, err := FcntlGetSeals(m)
	if err != nil {
		t.Fatal(err)
	}
	if seals&(SealShrink|SealGrow|SealWrite) != SealShrink|SealGrow|SealWrite {
		t.Errorf("seals %#x", seals)
	}
	if _, err := fd.Write(m, []byte("more")); !errors.Is(err, errno.EPERM) {
		t.Errorf("write to sealed memfd: expected EPERM, got %v", err)
	}
	if _, err := MemfdCreate("bad\x00name", 0); !errors.Is(err, errno.EINVAL) {
		t.Errorf("expected EINVAL, got %v", err)
	}
}

func TestCopyFileRangeAndSendfile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	content := bytes.Repeat([]byte("posix"), 4096)
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatal(err)
	}
	// Reference copy made in user space.
	ref := filepath.Join(dir, "ref")
	if err := fileutils.CopyFile(src, ref); err != nil {
		t.Fatal(err)
	}
	want, err := os.ReadFile(ref)
	if err != nil {
		t.Fatal(err)
	}

	in, err := Open(src, ORdonly|OCloexec, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer in.Close()

	out, err := Open(filepath.Join(dir, "cfr"), OWronly|OCreate|OCloexec, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	var offIn uint64
	total := uint64(0)
	for total < uint64(len(content)) {
		n, err := CopyFileRange(in, &offIn, out, nil, uint64(len(content))-total)
		if errors.Is(err, errno.ENOSYS) || errors.Is(err, errno.EXDEV) {
			out.Close()
			t.Skipf("copy_file_range unavailable: %v", err)
		}
		if err != nil {
			t.Fatal(err)
		}
		if n == 0 {
			break
		}
		total += n
	}
	out.Close()
	if offIn != total {
		t.Errorf("offset %d, copied %d", offIn, total)
	}
	if pos, _ := Tell(in); pos != 0 {
		t.Errorf("explicit offset moved the file position to %d", pos)
	}
	got, _ := os.ReadFile(filepath.Join(dir, "cfr"))
	if !bytes.Equal(got, want) {
		t.Error("copy_file_range result differs from reference copy")
	}

	sf, err := Open(filepath.Join(dir, "sendfile"), OWronly|OCreate|OCloexec, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	defer sf.Close()
	var off uint64
	for off < uint64(len(content)) {
		n, err := Sendfile(sf, in, &off, uint(len(content)))
		if err != nil {
			t.Fatal(err)
		}
		if n == 0 {
			break
		}
	}
	got, _ = os.ReadFile(filepath.Join(dir, "sendfile"))
	if !bytes.Equal(got, want) {
		t.Error("sendfile result differs from reference copy")
	}
}

func TestStatfs(t *testing.T) {
	st, err := Statfs("/proc")
	if err != nil {
		t.Fatal(err)
	}
	if st.Type != ProcSuperMagic {
		t.Errorf("/proc f_type %#x", st.Type)
	}
	d := openDir(t, "/proc")
	fst, err := Fstatfs(d)
	if err != nil || fst.Type != st.Type {
		t.Errorf("fstatfs: %#x, %v", fst.Type, err)
	}
}

func TestCwd(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	got, err := Getcwd(nil)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != wd {
		t.Errorf("getcwd %q, os.Getwd %q", got, wd)
	}

	dir := t.TempDir()
	d := openDir(t, dir)
	t.Cleanup(func() { _ = Chdir(wd) })
	if err := Fchdir(d); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "here"), "")
	if _, err := Statat(Cwd(), "here", 0); err != nil {
		t.Errorf("relative stat after fchdir: %v", err)
	}
	if err := Chdir(wd); err != nil {
		t.Fatal(err)
	}
	if err := Chdir(filepath.Join(dir, "missing")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}
