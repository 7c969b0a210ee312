package types

// PageData represents data passed to the view components
type PageData struct {
	Title   string
	Query   string
	Status  string // Index status line ("N pages loaded", "No data", failure)
	Failed  bool   // Status reports a load failure
	Meta    string // Result summary line
	Results []WebResult
	Page    int
	// TotalPages is 0 when there are no results.
	TotalPages   int
	TotalCount   int
	Controls     []WebControl
	ShowControls bool
	ErrorCode    string // Error view only
	ErrorDesc    string // Error view only
	Version      string // Application version (for footer display)
}

// WebResult represents a search result for web display
type WebResult struct {
	URL   string
	Title string
	Delay int // Animation delay in milliseconds
}

// WebControl represents one pagination element
type WebControl struct {
	Label    string
	Href     string // Empty for ellipses and disabled controls
	Current  bool
	Disabled bool
	Ellipsis bool
}
