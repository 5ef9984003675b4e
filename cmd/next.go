package cmd

import (
	"fmt"
	"time"

	"github.com/urfave/cli"

	"github.com/wakepi/wakepi/internal/config"
	"github.com/wakepi/wakepi/internal/pisugar"
	"github.com/wakepi/wakepi/internal/wakeup"
)

func next(ctx *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	now := time.Now()
	c1, c2 := wakeup.Candidates(now, cfg.FirstWake, cfg.SecondWake, cfg.Rollover)
	chosen := wakeup.Next(now, cfg.FirstWake, cfg.SecondWake, cfg.Rollover)
	fmt.Printf("candidate %s: %s\n", cfg.FirstWake, pisugar.FormatTimestamp(c1))
	fmt.Printf("candidate %s: %s\n", cfg.SecondWake, pisugar.FormatTimestamp(c2))
	fmt.Printf("next wakeup:    %s\n", pisugar.FormatTimestamp(chosen))
	return nil
}
