package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rubiojr/sitesearch/pkg/report"
	"github.com/rubiojr/sitesearch/pkg/search"
)

// Define styles using lipgloss
var (
	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Margin(0, 0, 1, 0)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33"))

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("28"))

	currentPageStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("235")).
				Background(lipgloss.Color("86")).
				Padding(0, 1)

	pageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Padding(0, 1)

	disabledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("32"))

	failureStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	noResultsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Margin(1, 0)
)

// formatPage renders one page of results for the terminal
func formatPage(query string, page search.Page) string {
	var b strings.Builder

	b.WriteString(metaStyle.Render(search.MetaLine(query, page.TotalResults)))
	b.WriteString("\n")

	if page.TotalResults == 0 {
		b.WriteString(noResultsStyle.Render("No pages matched your search."))
		b.WriteString("\n")
		return b.String()
	}

	for i, r := range page.Results {
		fmt.Fprintf(&b, "%3d. %s\n", page.Start+i+1, titleStyle.Render(r.Record.DisplayTitle()))
		fmt.Fprintf(&b, "     %s\n", urlStyle.Render(r.Record.URL()))
	}

	if page.ShowControls {
		b.WriteString("\n")
		b.WriteString(formatControls(page.Controls))
		b.WriteString("\n")
	}

	return b.String()
}

// formatControls renders the page-button plan as a single line
func formatControls(controls []search.Control) string {
	parts := make([]string, 0, len(controls))
	for _, c := range controls {
		switch c.Kind {
		case search.ControlPrev:
			parts = append(parts, controlStyle(c).Render("< Prev"))
		case search.ControlNext:
			parts = append(parts, controlStyle(c).Render("Next >"))
		case search.ControlEllipsis:
			parts = append(parts, disabledStyle.Render("..."))
		default:
			parts = append(parts, controlStyle(c).Render(strconv.Itoa(c.Page)))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func controlStyle(c search.Control) lipgloss.Style {
	switch {
	case c.Disabled:
		return disabledStyle
	case c.Current:
		return currentPageStyle
	}
	return pageStyle
}

// formatStatus renders the index status line
func formatStatus(count int) string {
	return statusStyle.Render(report.LoadedStatus(count))
}

// formatFailure renders a load failure
func formatFailure(f report.Failure) string {
	return failureStyle.Render(string(f.Code)) + " " + f.Description
}
