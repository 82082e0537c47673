package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/containerd/console"
	"github.com/urfave/cli"

	"github.com/opencontainers/posix/fd"
	"github.com/opencontainers/posix/tty"
)

var winsizeCommand = cli.Command{
	Name:      "winsize",
	Usage:     "get or set the window size of a terminal",
	ArgsUsage: `[<rows> <cols>]`,
	Flags: []cli.Flag{
		cli.IntFlag{
			Name:  "fd",
			Value: 0,
			Usage: "terminal descriptor to operate on",
		},
	},
	Action: func(context *cli.Context) error {
		if err := checkArgs(context, 2, maxArgs); err != nil {
			return err
		}
		if context.NArg() == 0 && !context.IsSet("fd") {
			ws, err := currentSize()
			if err != nil {
				return err
			}
			fmt.Printf("%d %d\n", ws.Height, ws.Width)
			return nil
		}
		f := fd.Borrow(context.Int("fd"))
		if _, err := tty.Tcgets(f); err != nil {
			return err
		}
		if context.NArg() == 0 {
			ws, err := tty.Tiocgwinsz(f)
			if err != nil {
				return err
			}
			fmt.Printf("%d %d\n", ws.Row, ws.Col)
			return nil
		}
		if context.NArg() != 2 {
			return errors.New("both rows and cols are required")
		}
		rows, err := strconv.ParseUint(context.Args().Get(0), 10, 16)
		if err != nil {
			return fmt.Errorf("invalid rows: %w", err)
		}
		cols, err := strconv.ParseUint(context.Args().Get(1), 10, 16)
		if err != nil {
			return fmt.Errorf("invalid cols: %w", err)
		}
		ws, err := tty.Tiocgwinsz(f)
		if err != nil {
			return err
		}
		ws.Row, ws.Col = uint16(rows), uint16(cols)
		return tty.Tiocswinsz(f, ws)
	},
}

// currentSize reports the size of whichever standard stream is a terminal.
func currentSize() (console.WinSize, error) {
	var c console.Console
	for _, s := range []fd.BorrowedFd{fd.Stderr(), fd.Stdout(), fd.Stdin()} {
		if _, err := tty.Tcgets(s); err == nil {
			c = console.Current()
			break
		}
	}
	if c == nil {
		return console.WinSize{}, console.ErrNotAConsole
	}
	return c.Size()
}
