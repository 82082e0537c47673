package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/opencontainers/posix/clock"
	"github.com/opencontainers/posix/internal/eintr"
)

var timerCommand = cli.Command{
	Name:  "timer",
	Usage: "arm a timerfd and report expirations",
	Flags: []cli.Flag{
		cli.DurationFlag{
			Name:  "interval",
			Value: time.Second,
			Usage: "timer period",
		},
		cli.IntFlag{
			Name:  "count",
			Value: 3,
			Usage: "number of reads before exiting",
		},
		cli.BoolFlag{
			Name:  "realtime",
			Usage: "use CLOCK_REALTIME instead of CLOCK_MONOTONIC",
		},
	},
	Action: func(context *cli.Context) error {
		if err := checkArgs(context, 0, exactArgs); err != nil {
			return err
		}
		interval := context.Duration("interval")
		if interval <= 0 {
			return errors.New("interval must be positive")
		}
		id := clock.ClockMonotonic
		if context.Bool("realtime") {
			id = clock.ClockRealtime
		}
		ts, err := clock.FromDuration(interval)
		if err != nil {
			return err
		}
		tfd, err := clock.TimerfdCreate(id, clock.TimerfdCloexec)
		if err != nil {
			return err
		}
		defer tfd.Close()
		if _, err := clock.TimerfdSettime(tfd, 0, &clock.Itimerspec{Interval: ts, Value: ts}); err != nil {
			return err
		}
		logrus.WithField("clock", id).Debugf("armed timer every %s", interval)
		start, err := clock.ClockGettime(id)
		if err != nil {
			return err
		}
		for i := 0; i < context.Int("count"); i++ {
			n, err := eintr.Retry2(func() (uint64, error) {
				return clock.TimerfdRead(tfd)
			})
			if err != nil {
				return err
			}
			now, err := clock.ClockGettime(id)
			if err != nil {
				return err
			}
			elapsed := clock.Duration(now) - clock.Duration(start)
			fmt.Printf("%s: %d expiration(s)\n", elapsed.Round(time.Millisecond), n)
		}
		return nil
	},
}
