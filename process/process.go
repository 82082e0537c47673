// Package process queries process and thread identity, the kernel's uname,
// and scheduling priority.
package process

import (
	"os"
	"runtime"
	"strconv"

	"golang.org/x/sys/unix"

	"github.com/opencontainers/posix/internal/imp"
)

// Pid is a process or thread id.
type Pid int32

// IsInit reports whether p is the init process of its pid namespace.
func (p Pid) IsInit() bool { return p == 1 }

func (p Pid) String() string { return strconv.Itoa(int(p)) }

// Uid is a user id.
type Uid uint32

// IsRoot reports whether u is uid 0.
func (u Uid) IsRoot() bool { return u == 0 }

// Gid is a group id.
type Gid uint32

// IsRoot reports whether g is gid 0.
func (g Gid) IsRoot() bool { return g == 0 }

// Uname is the result of uname(2).
type Uname = imp.Utsname

func Getpid() Pid { return Pid(imp.Getpid()) }

// Getppid returns the parent's pid. It is 0 when the parent is outside the
// caller's pid namespace.
func Getppid() Pid { return Pid(imp.Getppid()) }

// Gettid returns the id of the calling thread. The Go runtime moves
// goroutines between threads, so the result is only stable while the
// goroutine is locked with runtime.LockOSThread.
func Gettid() Pid { return Pid(imp.Gettid()) }

func Getuid() Uid  { return Uid(imp.Getuid()) }
func Geteuid() Uid { return Uid(imp.Geteuid()) }
func Getgid() Gid  { return Gid(imp.Getgid()) }
func Getegid() Gid { return Gid(imp.Getegid()) }

// GetUname returns the kernel's identification strings.
func GetUname() Uname { return imp.Uname() }

// SchedYield gives up the CPU. It cannot fail.
func SchedYield() { imp.SchedYield() }

// Nice values are clamped by the kernel to this range.
const (
	NiceMin = -20
	NiceMax = 19
)

// GetpriorityProcess returns the nice value of process pid (0 for the
// caller).
func GetpriorityProcess(pid Pid) (int, error) {
	return getpriority(unix.PRIO_PROCESS, int32(pid))
}

// GetpriorityPgrp returns the lowest nice value in process group pgid.
func GetpriorityPgrp(pgid Pid) (int, error) {
	return getpriority(unix.PRIO_PGRP, int32(pgid))
}

// GetpriorityUser returns the lowest nice value among uid's processes.
func GetpriorityUser(uid Uid) (int, error) {
	return getpriority(unix.PRIO_USER, int32(uid))
}

func SetpriorityProcess(pid Pid, prio int) error {
	return setpriority(unix.PRIO_PROCESS, int32(pid), prio)
}

func SetpriorityPgrp(pgid Pid, prio int) error {
	return setpriority(unix.PRIO_PGRP, int32(pgid), prio)
}

func SetpriorityUser(uid Uid, prio int) error {
	return setpriority(unix.PRIO_USER, int32(uid), prio)
}

// Nice adds inc to the nice value of the calling process and returns the new
// value. Lowering the value below the current one needs CAP_SYS_NICE or a
// suitable RLIMIT_NICE.
//
// On Linux the nice value belongs to the thread, so callers that care which
// thread is affected should hold runtime.LockOSThread.
func Nice(inc int) (int, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	cur, err := getpriority(unix.PRIO_PROCESS, 0)
	if err != nil {
		return 0, err
	}
	next := min(max(cur+inc, NiceMin), NiceMax)
	if err := setpriority(unix.PRIO_PROCESS, 0, next); err != nil {
		return 0, err
	}
	return next, nil
}

func getpriority(which, who int32) (int, error) {
	p, err := imp.Getpriority(which, who)
	return int(p), os.NewSyscallError("getpriority", err)
}

func setpriority(which, who int32, prio int) error {
	return os.NewSyscallError("setpriority", imp.Setpriority(which, who, int32(prio)))
}
