package main

import (
	"fmt"

	"github.com/moby/sys/user"
	"github.com/moby/sys/userns"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/opencontainers/posix/process"
)

var idCommand = cli.Command{
	Name:  "id",
	Usage: "print the identity of the posixctl process",
	Description: `Print the process, thread and credential ids of posixctl itself, with the
names found in /etc/passwd and /etc/group. Inside a user namespace the
uid mapping is printed as well.`,
	Action: func(context *cli.Context) error {
		if err := checkArgs(context, 0, exactArgs); err != nil {
			return err
		}
		fmt.Printf("pid=%v ppid=%v tid=%v\n", process.Getpid(), process.Getppid(), process.Gettid())
		fmt.Printf("uid=%s euid=%s\n", uidName(process.Getuid()), uidName(process.Geteuid()))
		fmt.Printf("gid=%s egid=%s\n", gidName(process.Getgid()), gidName(process.Getegid()))
		if prio, err := process.GetpriorityProcess(0); err == nil {
			fmt.Printf("nice=%d\n", prio)
		}
		uts := process.GetUname()
		fmt.Printf("kernel=%s %s %s\n", uts.Sysname, uts.Release, uts.Machine)
		if userns.RunningInUserNS() {
			idmap, err := user.CurrentProcessUIDMap()
			if err != nil {
				logrus.WithError(err).Warn("unable to read uid map")
				return nil
			}
			for _, m := range idmap {
				fmt.Printf("uid_map=%d:%d:%d\n", m.ID, m.ParentID, m.Count)
			}
		}
		return nil
	},
}

func uidName(uid process.Uid) string {
	u, err := user.LookupUid(int(uid))
	if err != nil {
		logrus.Debugf("lookup uid %d: %v", uid, err)
		return fmt.Sprint(uint32(uid))
	}
	return fmt.Sprintf("%d(%s)", uid, u.Name)
}

func gidName(gid process.Gid) string {
	g, err := user.LookupGid(int(gid))
	if err != nil {
		logrus.Debugf("lookup gid %d: %v", gid, err)
		return fmt.Sprint(uint32(gid))
	}
	return fmt.Sprintf("%d(%s)", gid, g.Name)
}
