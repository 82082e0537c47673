package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/docker/go-units"
	"github.com/urfave/cli"

	"github.com/opencontainers/posix/clock"
	"github.com/opencontainers/posix/fs"
)

var statCommand = cli.Command{
	Name:      "stat",
	Usage:     "display file status as returned by statx (or stat)",
	ArgsUsage: `<path> [path...]`,
	Flags: []cli.Flag{
		cli.BoolFlag{
			Name:  "no-dereference, L",
			Usage: "do not follow symbolic links",
		},
	},
	Action: func(context *cli.Context) error {
		if err := checkArgs(context, 1, minArgs); err != nil {
			return err
		}
		var flags fs.AtFlags
		if context.Bool("no-dereference") {
			flags |= fs.AtSymlinkNofollow
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 8, 1, ' ', 0)
		defer w.Flush()
		for _, path := range context.Args() {
			st, err := fs.Statat(fs.Cwd(), path, flags)
			if err != nil {
				return err
			}
			typ := fs.FileTypeFromMode(st.Mode)
			fmt.Fprintf(w, "File:\t%s\n", path)
			if typ == fs.TypeSymlink {
				if target, err := fs.Readlink(path); err == nil {
					fmt.Fprintf(w, "Target:\t%s\n", target)
				}
			}
			fmt.Fprintf(w, "Type:\t%v\n", typ)
			fmt.Fprintf(w, "Size:\t%d (%s)\n", st.Size, units.BytesSize(float64(st.Size)))
			fmt.Fprintf(w, "Blocks:\t%d\tIO Block:\t%d\n", st.Blocks, st.Blksize)
			fmt.Fprintf(w, "Device:\t%#x\tInode:\t%d\tLinks:\t%d\n", st.Dev, st.Ino, st.Nlink)
			fmt.Fprintf(w, "Access:\t%#o\tUid:\t%d\tGid:\t%d\n", st.Mode&0o7777, st.Uid, st.Gid)
			fmt.Fprintf(w, "Modify:\t%s\n", clock.Time(st.Mtime).Format(time.RFC3339Nano))
			fmt.Fprintf(w, "Change:\t%s\n", clock.Time(st.Ctime).Format(time.RFC3339Nano))
			if stx, err := fs.Statx(fs.Cwd(), path, flags, fs.StatxBtime|fs.StatxMntID); err == nil {
				if stx.Mask&uint32(fs.StatxBtime) != 0 {
					birth := clock.Time(clock.Timespec{Sec: stx.Btime.Sec, Nsec: int64(stx.Btime.Nsec)})
					fmt.Fprintf(w, "Birth:\t%s\n", birth.Format(time.RFC3339Nano))
				}
				if stx.Mask&uint32(fs.StatxMntID) != 0 {
					fmt.Fprintf(w, "Mount ID:\t%d\n", stx.Mnt_id)
				}
			}
			fmt.Fprintln(w)
		}
		return nil
	},
}

var statfsCommand = cli.Command{
	Name:      "statfs",
	Usage:     "display file system usage for the file system containing a path",
	ArgsUsage: `<path>`,
	Action: func(context *cli.Context) error {
		if err := checkArgs(context, 1, exactArgs); err != nil {
			return err
		}
		path := context.Args().First()
		sfs, err := fs.Statfs(path)
		if err != nil {
			return err
		}
		bsize := float64(sfs.Bsize)
		w := tabwriter.NewWriter(os.Stdout, 0, 8, 1, ' ', 0)
		defer w.Flush()
		fmt.Fprintf(w, "Path:\t%s\n", path)
		fmt.Fprintf(w, "Type:\t%#x (%s)\n", sfs.Type, fsName(int64(sfs.Type)))
		fmt.Fprintf(w, "Block size:\t%d\n", sfs.Bsize)
		fmt.Fprintf(w, "Total:\t%s\n", units.BytesSize(float64(sfs.Blocks)*bsize))
		fmt.Fprintf(w, "Free:\t%s\n", units.BytesSize(float64(sfs.Bfree)*bsize))
		fmt.Fprintf(w, "Available:\t%s\n", units.BytesSize(float64(sfs.Bavail)*bsize))
		fmt.Fprintf(w, "Inodes:\t%d\tFree:\t%d\n", sfs.Files, sfs.Ffree)
		return nil
	},
}

func fsName(magic int64) string {
	switch magic {
	case fs.ProcSuperMagic:
		return "proc"
	case fs.TmpfsMagic:
		return "tmpfs"
	case fs.Ext4SuperMagic:
		return "ext2/ext3/ext4"
	case fs.OverlayfsMagic:
		return "overlay"
	}
	return "unknown"
}
