package cmd

import (
	"log"

	"github.com/urfave/cli"

	"github.com/wakepi/wakepi/internal/config"
	"github.com/wakepi/wakepi/internal/history"
	"github.com/wakepi/wakepi/internal/run"
	"github.com/wakepi/wakepi/pkg/logger"
)

var runFlags = []cli.Flag{
	cli.BoolFlag{
		Name:  "dry-run, d",
		Usage: "compute and log the wake time without arming or shutting down",
	},
	cli.BoolFlag{
		Name:  "no-shutdown, k",
		Usage: "arm the alarm but keep the host up",
	},
}

func runCmd(ctx *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	l := openLogger(cfg)
	defer l.Close()

	deps := run.Dependencies{}
	if store, err := history.Open(cfg.HistoryPath); err != nil {
		l.Warning("history store unavailable: %v", err)
	} else {
		deps.History = store
		defer store.Close()
	}

	return run.New(cfg, l, deps).Run(run.Options{
		DryRun:     ctx.Bool("dry-run"),
		NoShutdown: ctx.Bool("no-shutdown"),
	})
}

// openLogger opens the configured log file, falling back to stderr when the
// file cannot be opened (e.g. insufficient permissions on the default path).
func openLogger(cfg config.Config) logger.Logger {
	fl, err := logger.NewFileLogger(cfg.LogPath, 0)
	if err != nil {
		l := logger.NewStandardLogger(log.Default())
		l.Warning("cannot open %s, logging to stderr: %v", cfg.LogPath, err)
		return l
	}
	return fl
}
