package main

import (
	"fmt"

	"github.com/moby/sys/mountinfo"
	"github.com/moby/sys/userns"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/opencontainers/posix/procfs"
)

var procfsCommand = cli.Command{
	Name:  "procfs",
	Usage: "check that /proc can be trusted",
	Description: `Open /proc, /proc/self and /proc/self/fd the same way the library does and
report the result of each check. A failure means /proc is not a real procfs
mount or has something mounted over it.`,
	Flags: []cli.Flag{
		cli.IntFlag{
			Name:  "close-exec-from",
			Value: -1,
			Usage: "mark every descriptor at or above this number close-on-exec",
		},
	},
	Action: func(context *cli.Context) error {
		if err := checkArgs(context, 0, exactArgs); err != nil {
			return err
		}
		mounted, err := mountinfo.Mounted("/proc")
		if err != nil {
			logrus.WithError(err).Warn("unable to check /proc mount")
		}
		logrus.WithFields(logrus.Fields{
			"mounted": mounted,
			"userns":  userns.RunningInUserNS(),
		}).Debug("procfs environment")

		root, st, err := procfs.Root()
		if err != nil {
			return err
		}
		fmt.Printf("/proc: %v dev=%#x ino=%d\n", root, st.Dev, st.Ino)
		self, st, err := procfs.Self()
		if err != nil {
			return err
		}
		fmt.Printf("/proc/self: %v ino=%d uid=%d\n", self, st.Ino, st.Uid)
		selfFd, err := procfs.SelfFd()
		if err != nil {
			return err
		}
		fmt.Printf("/proc/self/fd: %v\n", selfFd)
		start, err := procfs.SelfStartTime()
		if err != nil {
			return err
		}
		fmt.Printf("start time: %d ticks\n", start)

		if from := context.Int("close-exec-from"); from >= 0 {
			return procfs.CloseExecFrom(from)
		}
		return nil
	},
}
