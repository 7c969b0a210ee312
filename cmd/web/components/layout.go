// Package components renders the HTML views of the web interface.
package components

import (
	"context"

	"github.com/a-h/templ"

	"github.com/rubiojr/sitesearch/cmd/web/components/types"
)

// layout wraps body in the document shell shared by every view.
func layout(data types.PageData, body templ.Component) templ.Component {
	return component(func(ctx context.Context, hw *htmlWriter) {
		hw.raw(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>`)
		hw.text(data.Title)
		hw.raw(`</title>
  <link rel="stylesheet" href="/static/style.css">
</head>
<body>
<header class="site-header">
  <a class="header-logo" href="/">sitesearch</a>
</header>
<main>
`)
		hw.child(ctx, body)
		hw.raw(`
</main>
<footer class="site-footer">sitesearch `)
		hw.text(data.Version)
		hw.raw(`</footer>
<script src="/static/search.js"></script>
</body>
</html>
`)
	})
}

func searchBox(data types.PageData) templ.Component {
	return component(func(ctx context.Context, hw *htmlWriter) {
		hw.raw(`<form class="search-form" action="/" method="get">
  <input class="search-input" type="search" name="q" value="`)
		hw.text(data.Query)
		hw.raw(`" placeholder="Search pages" autocomplete="off">
  <button class="search-btn" type="submit">Search</button>
</form>
`)
	})
}

func indexStatus(data types.PageData) templ.Component {
	return component(func(ctx context.Context, hw *htmlWriter) {
		hw.raw(`<p id="index-status" class="index-status`)
		if data.Failed {
			hw.raw(` failed`)
		}
		hw.raw(`">`)
		hw.text(data.Status)
		hw.raw("</p>\n")
	})
}
