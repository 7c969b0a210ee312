package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rubiojr/sitesearch/pkg/api"
	"github.com/rubiojr/sitesearch/pkg/config"
	"github.com/rubiojr/sitesearch/pkg/search"
	"github.com/urfave/cli/v3"
)

// SearchCommand creates the search command
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search the page index",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "query",
				Aliases:  []string{"q"},
				Usage:    "Search query",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "page",
				Usage: "Result page to show",
				Value: 1,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print results as JSON",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(c.String("config"))
			if err != nil {
				return err
			}
			return searchIndex(ctx, cfg, c.String("query"), c.Int("page"), c.Bool("json"), os.Stdout)
		},
	}
}

// searchIndex loads the index and prints one page of results for query
func searchIndex(ctx context.Context, cfg *config.Config, query string, page int, asJSON bool, out io.Writer) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return fmt.Errorf("query must not be blank")
	}

	idx, err := loadIndex(ctx, cfg)
	if err != nil {
		reportFailure(cfg, out, err)
		return fmt.Errorf("loading index: %w", err)
	}

	results := search.Search(idx, query)
	pg := search.Paginate(results, page, cfg.SearchPagination())

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(api.NewSearchResponse(query, pg))
	}

	fmt.Fprint(out, formatPage(query, pg))
	return nil
}
