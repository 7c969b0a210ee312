package components

import (
	"context"

	"github.com/a-h/templ"

	"github.com/rubiojr/sitesearch/cmd/web/components/types"
)

// Home is the landing view with the search box and index status.
func Home(data types.PageData) templ.Component {
	return layout(data, component(func(ctx context.Context, hw *htmlWriter) {
		hw.raw(`<section id="home-view" class="home-view">
  <h1 class="home-title">Search this site</h1>
`)
		hw.child(ctx, searchBox(data))
		hw.child(ctx, indexStatus(data))
		hw.raw("</section>")
	}))
}

// Results is the result list for data.Query with pagination.
func Results(data types.PageData) templ.Component {
	return layout(data, component(func(ctx context.Context, hw *htmlWriter) {
		hw.raw(`<section id="results-view" class="results-view">
`)
		hw.child(ctx, searchBox(data))
		hw.child(ctx, indexStatus(data))
		hw.raw(`<p id="results-meta" class="results-meta">`)
		hw.text(data.Meta)
		hw.raw("</p>\n")

		if len(data.Results) == 0 {
			hw.raw(`<p id="no-results" class="no-results">No pages matched your search.</p>
`)
		} else {
			hw.raw(`<div id="results-list" class="results-list">
`)
			for _, r := range data.Results {
				hw.child(ctx, resultCard(r))
			}
			hw.raw("</div>\n")
		}

		if data.ShowControls {
			hw.child(ctx, pagination(data.Controls))
		}
		hw.raw("</section>")
	}))
}

func resultCard(r types.WebResult) templ.Component {
	return component(func(ctx context.Context, hw *htmlWriter) {
		hw.raw(`<div class="result-card" style="animation-delay: `)
		hw.number(r.Delay)
		hw.raw(`ms">
  <div class="result-url">`)
		hw.text(r.URL)
		hw.raw(`</div>
  <a class="result-title" href="`)
		hw.url(r.URL)
		hw.raw(`" target="_blank" rel="noopener noreferrer">`)
		hw.text(r.Title)
		hw.raw("</a>\n</div>\n")
	})
}

func pagination(controls []types.WebControl) templ.Component {
	return component(func(ctx context.Context, hw *htmlWriter) {
		hw.raw(`<nav id="pagination" class="pagination">
`)
		for _, c := range controls {
			switch {
			case c.Ellipsis:
				hw.raw(`<span class="pagination-ellipsis">`)
				hw.text(c.Label)
				hw.raw("</span>\n")
			case c.Href != "":
				hw.raw(`<a class="page-btn`)
				if c.Current {
					hw.raw(" active")
				}
				hw.raw(`" href="`)
				hw.url(c.Href)
				hw.raw(`">`)
				hw.text(c.Label)
				hw.raw("</a>\n")
			default:
				hw.raw(`<span class="page-btn`)
				if c.Current {
					hw.raw(" active")
				}
				if c.Disabled {
					hw.raw(" disabled")
				}
				hw.raw(`">`)
				hw.text(c.Label)
				hw.raw("</span>\n")
			}
		}
		hw.raw("</nav>\n")
	})
}

// Error shows a load failure code and description.
func Error(data types.PageData) templ.Component {
	return layout(data, component(func(ctx context.Context, hw *htmlWriter) {
		hw.raw(`<section class="error-view">
  <h1 class="error-code">`)
		hw.text(data.ErrorCode)
		hw.raw(`</h1>
  <p class="error-desc">`)
		hw.text(data.ErrorDesc)
		hw.raw(`</p>
  <a class="error-home" href="/">Back to search</a>
</section>`)
	}))
}
