package cmd

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/wakepi/wakepi/internal/config"
	"github.com/wakepi/wakepi/internal/pisugar"
)

func battery(ctx *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	pct, err := pisugar.New(cfg.PiSugarAddr, cfg.DialTimeout, cfg.ReadTimeout).Battery()
	if err != nil {
		return err
	}
	fmt.Printf("battery: %d%%\n", pct)
	return nil
}
