package main

import (
	"context"
	"os"

	"github.com/rubiojr/sitesearch/cmd"
	"github.com/rubiojr/sitesearch/pkg/config"
	"github.com/rubiojr/sitesearch/pkg/log"
	"github.com/urfave/cli/v3"
)

var mainLog = log.ForService("sitesearch")

func main() {
	app := &cli.Command{
		Name:  "sitesearch",
		Usage: "Client-side site search over a published page index",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
				Value: false,
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Configuration file path",
				Value: getDefaultConfigPathOrExit(),
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if err := config.LoadDotEnv(); err != nil {
				return ctx, err
			}
			log.SetGlobalDebug(c.Bool("debug"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmd.InitCommand(),
			cmd.CheckCommand(),
			cmd.SearchCommand(),
			cmd.ShellCommand(),
			cmd.WebCommand(),
			cmd.VersionCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		mainLog.Errorf("%v", err)
		os.Exit(1)
	}
}

func getDefaultConfigPathOrExit() string {
	path, err := config.GetDefaultConfigPath()
	if err != nil {
		mainLog.Errorf("Failed to get default config path: %v", err)
		os.Exit(1)
	}
	return path
}
