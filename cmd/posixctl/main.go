package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/opencontainers/posix/internal/imp"
)

// version is set with -ldflags "-X main.version=...".
var version = "unknown"

const usage = `inspect a Linux host through the posix system call library

posixctl exposes a few of the library's operations as commands, which is
mostly useful to check how a host (or a container) looks to the library:
whether /proc passes its trust checks, what a file stats as, which sockets
were inherited from systemd.

    # posixctl stat /etc/hostname
    # posixctl --debug procfs`

func main() {
	app := cli.NewApp()
	app.Name = "posixctl"
	app.Usage = usage
	app.Version = strings.Join([]string{
		version,
		"backend: " + imp.Backend,
		"go: " + runtime.Version(),
	}, "\n")

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:   "debug",
			Usage:  "enable debug logging",
			EnvVar: "POSIXCTL_DEBUG",
		},
		cli.StringFlag{
			Name:   "log-format",
			Value:  "text",
			Usage:  "set the log format ('text' (default), or 'json')",
			EnvVar: "POSIXCTL_LOG_FORMAT",
		},
	}
	app.Commands = []cli.Command{
		statCommand,
		statfsCommand,
		idCommand,
		procfsCommand,
		winsizeCommand,
		socketsCommand,
		timerCommand,
	}
	app.Before = configLogrus

	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}

func configLogrus(context *cli.Context) error {
	if context.GlobalBool("debug") {
		logrus.SetLevel(logrus.DebugLevel)
		logrus.SetReportCaller(true)
		// Shorten function and file names reported by the logger by trimming
		// the module prefix. This is only done for the text formatter.
		_, file, _, _ := runtime.Caller(0)
		prefix := filepath.Dir(filepath.Dir(filepath.Dir(file))) + "/"
		logrus.SetFormatter(&logrus.TextFormatter{
			CallerPrettyfier: func(f *runtime.Frame) (string, string) {
				function := strings.TrimPrefix(f.Function, "github.com/opencontainers/posix/") + "()"
				fileLine := strings.TrimPrefix(f.File, prefix) + ":" + strconv.Itoa(f.Line)
				return function, fileLine
			},
		})
	}

	switch f := context.GlobalString("log-format"); f {
	case "", "text":
	case "json":
		logrus.SetFormatter(new(logrus.JSONFormatter))
	default:
		return errors.New("invalid log-format: " + f)
	}
	return nil
}

func fatal(err error) {
	logrus.Error(err)
	os.Exit(1)
}

const (
	exactArgs = iota
	minArgs
	maxArgs
)

func checkArgs(context *cli.Context, expected, checkType int) error {
	var err error
	cmdName := context.Command.Name
	switch checkType {
	case exactArgs:
		if context.NArg() != expected {
			err = fmt.Errorf("%s: %q requires exactly %d argument(s)", os.Args[0], cmdName, expected)
		}
	case minArgs:
		if context.NArg() < expected {
			err = fmt.Errorf("%s: %q requires a minimum of %d argument(s)", os.Args[0], cmdName, expected)
		}
	case maxArgs:
		if context.NArg() > expected {
			err = fmt.Errorf("%s: %q requires a maximum of %d argument(s)", os.Args[0], cmdName, expected)
		}
	}

	if err != nil {
		fmt.Printf("Incorrect Usage.\n\n")
		_ = cli.ShowCommandHelp(context, cmdName)
		return err
	}
	return nil
}
