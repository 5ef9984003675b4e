package cmd

import (
	"fmt"
	"runtime"

	"github.com/urfave/cli"
)

func getVersion(ctx *cli.Context) error {
	fmt.Printf(
		"%s %s (%s_%s)\nBuild: %s=%s\n",
		ctx.App.Name,
		ctx.App.Version,
		runtime.GOOS,
		runtime.GOARCH,
		buildArgs.Date, buildArgs.Commit,
	)
	return nil
}
