package search

import "fmt"

// DefaultPageSize is the number of results per page when none is configured.
const DefaultPageSize = 20

// maxPlainButtons is the largest page count for which every page gets a button.
const maxPlainButtons = 10

// Pagination controls how results are split into pages.
type Pagination struct {
	Enabled  bool
	PageSize int
}

// DefaultPagination returns pagination enabled at DefaultPageSize.
func DefaultPagination() Pagination {
	return Pagination{Enabled: true, PageSize: DefaultPageSize}
}

func (p Pagination) pageSize(total int) int {
	if !p.Enabled {
		return total
	}
	if p.PageSize <= 0 {
		return DefaultPageSize
	}
	return p.PageSize
}

// ControlKind is the type of an element in the page-button plan.
type ControlKind string

const (
	ControlPrev     ControlKind = "prev"
	ControlNext     ControlKind = "next"
	ControlPage     ControlKind = "page"
	ControlEllipsis ControlKind = "ellipsis"
)

// Control is one element of the page-button plan.
type Control struct {
	Kind ControlKind `json:"kind"`
	// Page is the page the control navigates to. Zero for ellipses and for
	// disabled prev/next controls.
	Page     int  `json:"page,omitempty"`
	Current  bool `json:"current,omitempty"`
	Disabled bool `json:"disabled,omitempty"`
}

// Page is one slice of a result list plus everything needed to render it.
type Page struct {
	// Number is the 1-based page being shown, after clamping.
	Number       int       `json:"page"`
	TotalPages   int       `json:"total_pages"`
	TotalResults int       `json:"total_count"`
	PageSize     int       `json:"page_size"`
	Start        int       `json:"start"`
	End          int       `json:"end"`
	Results      []Result  `json:"results"`
	Controls     []Control `json:"controls,omitempty"`
	ShowControls bool      `json:"show_controls"`
}

// Paginate returns page number page of results.
//
// The page is clamped to [1, TotalPages]. With pagination disabled the whole
// list is a single page and no controls are produced. Results is a subslice
// of results, not a copy.
func Paginate(results []Result, page int, p Pagination) Page {
	total := len(results)
	size := p.pageSize(total)

	totalPages := 0
	if total > 0 && size > 0 {
		totalPages = (total + size - 1) / size
	}

	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := min(start+size, total)

	pg := Page{
		Number:       page,
		TotalPages:   totalPages,
		TotalResults: total,
		PageSize:     size,
		Start:        start,
		End:          end,
		Results:      results[start:end],
		ShowControls: p.Enabled && totalPages > 1,
	}
	if pg.ShowControls {
		pg.Controls = PlanButtons(totalPages, page)
	}
	return pg
}

// PlanButtons lays out the pagination bar for current out of totalPages.
//
// Up to ten pages every page gets a button. Beyond that the bar shows the
// first page, the last page and two pages either side of current, with an
// ellipsis wherever numbers are skipped. Prev and Next always bracket the
// bar and are disabled on the first and last page respectively.
func PlanButtons(totalPages, current int) []Control {
	if totalPages < 1 {
		return nil
	}
	current = max(1, min(current, totalPages))

	controls := []Control{prevControl(current)}

	if totalPages <= maxPlainButtons {
		for n := 1; n <= totalPages; n++ {
			controls = append(controls, pageControl(n, current))
		}
		return append(controls, nextControl(current, totalPages))
	}

	var pages []int
	add := func(n int) {
		if n < 1 || n > totalPages {
			return
		}
		if len(pages) > 0 && pages[len(pages)-1] >= n {
			return
		}
		pages = append(pages, n)
	}
	add(1)
	for n := current - 2; n <= current+2; n++ {
		add(n)
	}
	add(totalPages)

	for i, n := range pages {
		if i > 0 && n-pages[i-1] > 1 {
			controls = append(controls, Control{Kind: ControlEllipsis})
		}
		controls = append(controls, pageControl(n, current))
	}
	return append(controls, nextControl(current, totalPages))
}

func pageControl(n, current int) Control {
	return Control{Kind: ControlPage, Page: n, Current: n == current}
}

func prevControl(current int) Control {
	if current <= 1 {
		return Control{Kind: ControlPrev, Disabled: true}
	}
	return Control{Kind: ControlPrev, Page: current - 1}
}

func nextControl(current, totalPages int) Control {
	if current >= totalPages {
		return Control{Kind: ControlNext, Disabled: true}
	}
	return Control{Kind: ControlNext, Page: current + 1}
}

// MetaLine is the summary shown above a result list.
func MetaLine(query string, total int) string {
	if total == 0 {
		return fmt.Sprintf("%q: 0 results", query)
	}
	if total == 1 {
		return fmt.Sprintf("%q: 1 result", query)
	}
	return fmt.Sprintf("%q: about %d results", query, total)
}
