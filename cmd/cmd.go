// Package cmd wires the wakepi command line interface.
package cmd

import (
	"fmt"

	"github.com/urfave/cli"
)

// BuildArgs carries the build metadata stamped in by the linker.
type BuildArgs struct {
	Version   string
	BuildType string
	Date      string
	Commit    string
}

var buildArgs BuildArgs

// Execute runs the wakepi CLI with the given arguments.
func Execute(args []string, bArgs BuildArgs) error {
	buildArgs = bArgs
	app := cli.App{
		Name:        "wakepi",
		HelpName:    "wakepi",
		Usage:       "RTC wakeup scheduler for PiSugar-powered hosts.",
		Version:     fmt.Sprintf("%s-%s", bArgs.Version, bArgs.BuildType),
		UsageText:   "wakepi <command> [arguments...]",
		Description: DESCRIPTION,
		Commands: []cli.Command{
			{
				Name:        "run",
				Usage:       "arm the next wakeup and shut the host down",
				Description: RunDescription,
				Action:      runCmd,
				Flags:       runFlags,
			},
			{
				Name:        "next",
				Aliases:     []string{"n"},
				Usage:       "print the wake time a run would choose now",
				Description: NextDescription,
				Action:      next,
			},
			{
				Name:        "battery",
				Aliases:     []string{"b"},
				Usage:       "print the PiSugar battery percentage",
				Description: BatteryDescription,
				Action:      battery,
			},
			{
				Name:        "history",
				Aliases:     []string{"l"},
				Usage:       "print recent wake events",
				Description: HistoryDescription,
				Action:      historyCmd,
				Flags:       historyFlags,
			},
			{
				Name:    "version",
				Aliases: []string{"v"},
				Usage:   "prints the installed version of wakepi",
				Action:  getVersion,
			},
		},
		Action: runCmd,
		Flags:  runFlags,
	}
	return app.Run(args)
}
