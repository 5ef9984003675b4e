package cmd

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/wakepi/wakepi/internal/config"
	"github.com/wakepi/wakepi/internal/history"
	"github.com/wakepi/wakepi/internal/pisugar"
)

var historyFlags = []cli.Flag{
	cli.IntFlag{
		Name:  "limit, n",
		Usage: "maximum number of events to print",
		Value: 20,
	},
}

func historyCmd(ctx *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	store, err := history.Open(cfg.HistoryPath)
	if err != nil {
		return err
	}
	defer store.Close()

	events, err := store.Recent(ctx.Int("limit"))
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Println("no wake events recorded")
		return nil
	}
	for _, e := range events {
		fmt.Printf("%s  wake %s  %-8s  %s\n",
			e.At.Format("2006-01-02 15:04:05"),
			pisugar.FormatTimestamp(e.WakeAt),
			e.Action,
			e.Response,
		)
	}
	return nil
}
