// Command sbvhtool is a thin CLI front-end over pkg/bvh: it loads a
// triangle mesh, runs the plain BVH or SBVH builder over it, and prints the
// resulting tree's statistics. It owns the only CLI/flag/wire-format
// surface in the repository — pkg/bvh itself takes no environment
// variables and has no persistence format (spec.md §6).
package main

import (
	"os"

	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "sbvhtool"
	app.Usage = "build a (S)BVH over a triangle mesh and report its statistics"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		buildCommand,
		benchCommand,
	}

	if err := app.Run(os.Args); err != nil {
		logger.Errorf("%s", err)
		os.Exit(1)
	}
}
