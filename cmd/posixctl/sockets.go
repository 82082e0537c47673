package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/coreos/go-systemd/v22/activation"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/opencontainers/posix/fd"
	"github.com/opencontainers/posix/sock"
)

var socketsCommand = cli.Command{
	Name:  "sockets",
	Usage: "list sockets passed in by socket activation",
	Description: `List the descriptors handed over through LISTEN_FDS, together with their
socket type and local address.`,
	Action: func(context *cli.Context) error {
		if err := checkArgs(context, 0, exactArgs); err != nil {
			return err
		}
		files := activation.Files(true)
		if len(files) == 0 {
			logrus.Info("no sockets were passed")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 8, 1, ' ', 0)
		defer w.Flush()
		fmt.Fprint(w, "FD\tNAME\tTYPE\tADDRESS\n")
		for _, f := range files {
			s := fd.BorrowFile(f)
			typ, err := sock.GetsockoptSoType(s)
			if err != nil {
				logrus.WithError(err).Warnf("%s is not a socket", f.Name())
				continue
			}
			addr, err := sock.Getsockname(s)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%v\n", s.Raw(), f.Name(), sockTypeName(typ), addr)
		}
		return nil
	},
}

func sockTypeName(t sock.SocketType) string {
	switch t {
	case sock.SockStream:
		return "stream"
	case sock.SockDgram:
		return "dgram"
	case sock.SockSeqpacket:
		return "seqpacket"
	case sock.SockRaw:
		return "raw"
	}
	return fmt.Sprintf("type(%d)", int32(t))
}
