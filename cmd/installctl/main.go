package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"installations-bknd/internal/config"
	"installations-bknd/internal/logger"

	"go.uber.org/zap"
)

const usage = `usage: installctl <command> [flags]

commands:
  parse    parse a pasted coordinate list and report skipped lines
  preview  validate a coordinate list and render it as a closed polygon
  submit   validate and submit an installation to the API
  watch    keep the installations of a bounding box in sync with the API
`

// app carries what every command needs.
type app struct {
	cfg    *config.Config
	logr   *zap.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func main() {
	cfg := config.Load()
	logr := logger.NewCLI(cfg)
	defer logr.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{cfg: cfg, logr: logr.Logger, stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	if err := a.run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "installctl:", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.stderr, usage)
		return flag.ErrHelp
	}

	switch args[0] {
	case "parse":
		return a.parse(args[1:])
	case "preview":
		return a.preview(args[1:])
	case "submit":
		return a.submit(ctx, args[1:])
	case "watch":
		return a.watch(ctx, args[1:])
	case "help", "-h", "--help":
		fmt.Fprint(a.stdout, usage)
		return nil
	}
	fmt.Fprint(a.stderr, usage)
	return fmt.Errorf("unknown command %q", args[0])
}

func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}
