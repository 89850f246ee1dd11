package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/spf13/pflag"

	"github.com/chrisuehlinger/viewprt/scene"
	"github.com/chrisuehlinger/viewprt/scheduler"
	"github.com/chrisuehlinger/viewprt/ui"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the exit code.
func run(args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("viewprt", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	headless := fs.Bool("headless", false, "play the scene's scroll steps without a window and print the fired callbacks")
	verbosity := fs.Int("v", 0, "log verbosity: 1 logs viewport lifecycle, 2 every transition")
	interval := fs.Duration("interval", scheduler.DefaultInterval, "time between observer checks in the window")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: viewprt [--headless] [--v=N] scene.toml")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	logger := newLogger(stderr, *verbosity)
	s, err := scene.Load(fs.Arg(0))
	if err != nil {
		logger.Error(err, "load scene")
		return 1
	}

	if *headless {
		return runHeadless(s, stdout, logger)
	}

	window, err := ui.NewSceneUI(s, *interval, logger)
	if err != nil {
		logger.Error(err, "open scene")
		return 1
	}
	window.Run()
	return 0
}

func runHeadless(s *scene.Scene, stdout io.Writer, logger logr.Logger) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	records, err := scene.NewRunner(s, scene.WithLogger(logger)).Run(ctx)
	for _, rec := range records {
		fmt.Fprintln(stdout, rec)
	}
	if err != nil {
		logger.Error(err, "run scene")
		return 1
	}
	return 0
}

func newLogger(w io.Writer, verbosity int) logr.Logger {
	return funcr.New(func(prefix, args string) {
		ts := time.Now().Format("15:04:05.000")
		if prefix != "" {
			fmt.Fprintf(w, "%s %s: %s\n", ts, prefix, args)
			return
		}
		fmt.Fprintf(w, "%s %s\n", ts, args)
	}, funcr.Options{Verbosity: verbosity})
}
