package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rubiojr/sitesearch/pkg/index"
	"github.com/rubiojr/sitesearch/pkg/search"
	"github.com/urfave/cli/v3"
)

const shellHelp = `Type a query to search. Commands:
  :n, :next      next page
  :p, :prev      previous page
  :page N        jump to page N
  :home          clear the search
  :back          go back to the previous search
  :help          show this help
  :q, :quit      exit`

// ShellCommand creates the interactive shell command
func ShellCommand() *cli.Command {
	return &cli.Command{
		Name:  "shell",
		Usage: "Search the page index interactively",
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(c.String("config"))
			if err != nil {
				return err
			}

			idx, err := loadIndex(ctx, cfg)
			if err != nil {
				reportFailure(cfg, os.Stdout, err)
				return fmt.Errorf("loading index: %w", err)
			}

			store := index.NewStore()
			store.Replace(idx)
			return runShell(ctx, os.Stdin, os.Stdout, store, cfg.SearchPagination())
		},
	}
}

// runShell reads commands from in until EOF, :quit or ctx is done
func runShell(ctx context.Context, in io.Reader, out io.Writer, store *index.Store, p search.Pagination) error {
	history := search.NewHistory()
	session := search.NewSession(store, p, history)

	fmt.Fprintln(out, formatStatus(store.Count()))
	fmt.Fprintln(out, "Type :help for commands.")

	scanner := bufio.NewScanner(in)
	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if !strings.HasPrefix(line, ":") {
			page, _ := session.DoSearch(line)
			fmt.Fprint(out, formatPage(session.Query(), page))
			continue
		}

		fields := strings.Fields(line)
		var (
			page search.Page
			err  error
		)
		switch fields[0] {
		case ":q", ":quit", ":exit":
			return nil
		case ":help", ":h":
			fmt.Fprintln(out, shellHelp)
			continue
		case ":n", ":next":
			page, err = session.NextPage()
		case ":p", ":prev":
			page, err = session.PrevPage()
		case ":page":
			if len(fields) != 2 {
				fmt.Fprintln(out, "usage: :page N")
				continue
			}
			n, perr := strconv.Atoi(fields[1])
			if perr != nil {
				fmt.Fprintf(out, "invalid page %q\n", fields[1])
				continue
			}
			page, err = session.ShowPage(n)
		case ":home":
			session.GoHome()
			fmt.Fprintln(out, formatStatus(store.Count()))
			continue
		case ":back":
			entry, ok := history.Back()
			if !ok {
				fmt.Fprintln(out, "nothing to go back to")
				continue
			}
			var shown bool
			page, shown = session.Restore(entry)
			if !shown {
				fmt.Fprintln(out, formatStatus(store.Count()))
				continue
			}
		default:
			fmt.Fprintf(out, "unknown command %s, type :help\n", fields[0])
			continue
		}

		if errors.Is(err, search.ErrNoSearch) {
			fmt.Fprintln(out, "no active search")
			continue
		}
		fmt.Fprint(out, formatPage(session.Query(), page))
	}
}
