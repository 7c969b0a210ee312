package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rubiojr/sitesearch/pkg/config"
	"github.com/rubiojr/sitesearch/pkg/report"
	"github.com/urfave/cli/v3"
)

// CheckCommand creates the check command
func CheckCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Load the page index and report its status",
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(c.String("config"))
			if err != nil {
				return err
			}
			return checkIndex(ctx, cfg, os.Stdout)
		},
	}
}

// checkIndex loads the index once and reports the outcome through the
// configured error strategy
func checkIndex(ctx context.Context, cfg *config.Config, out io.Writer) error {
	fmt.Fprintln(out, report.StatusLoading)

	idx, err := loadIndex(ctx, cfg)
	if err != nil {
		reportFailure(cfg, out, err)
		return fmt.Errorf("checking index %s: %w", cfg.IndexURL, err)
	}

	fmt.Fprintln(out, formatStatus(len(idx)))
	return nil
}

// reportFailure delivers a load failure the way the configured strategy
// asks. On the terminal a redirect prints the error page address.
func reportFailure(cfg *config.Config, out io.Writer, err error) {
	strategy, serr := cfg.Strategy()
	if serr != nil {
		strategy = report.StrategyRedirect
	}

	reporter, rerr := report.New(strategy, report.Options{
		ErrorPage: cfg.ErrorPage,
		Navigate: func(target string) {
			fmt.Fprintln(out, formatFailure(report.Classify(err)))
			fmt.Fprintf(out, "Error page: %s\n", target)
		},
		SetStatus: func(line string) {
			fmt.Fprintln(out, line)
		},
	})
	if rerr != nil {
		fmt.Fprintln(out, formatFailure(report.Classify(err)))
		return
	}
	reporter.Report(err)
}
