package cmd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rubiojr/sitesearch/pkg/realtime"
	"github.com/rubiojr/sitesearch/pkg/report"
)

func setupTestWebServer(t *testing.T, indexURL string, strategy report.Strategy) *WebServer {
	t.Helper()
	webServer, err := newWebServer(testConfig(indexURL, strategy))
	if err != nil {
		t.Fatalf("Failed to create web server: %v", err)
	}
	return webServer
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestWebHome(t *testing.T) {
	webServer := setupTestWebServer(t, writeIndex(t, 45), report.StrategyRedirect)
	if err := webServer.reload(context.Background()); err != nil {
		t.Fatalf("reload failed: %v", err)
	}

	w := get(t, webServer.routes(), "/")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "48 pages loaded") {
		t.Errorf("Expected loaded status in home view, got: %s", body)
	}
	if strings.Contains(body, "results-view") {
		t.Errorf("Home view should not render results")
	}
}

func TestWebResults(t *testing.T) {
	webServer := setupTestWebServer(t, writeIndex(t, 45), report.StrategyRedirect)
	if err := webServer.reload(context.Background()); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	h := webServer.routes()

	tests := []struct {
		name     string
		target   string
		contains []string
		excludes []string
	}{
		{
			name:   "title matches first",
			target: "/?q=cats",
			contains: []string{
				`&#34;cats&#34;: about 3 results`,
				"Cats and Dogs",
				"https://example.com/untitled-cats",
			},
			excludes: []string{`id="pagination"`},
		},
		{
			name:     "no results",
			target:   "/?q=nothing",
			contains: []string{`&#34;nothing&#34;: 0 results`, "No pages matched your search."},
		},
		{
			name:   "first page of many",
			target: "/?q=golang",
			contains: []string{
				"about 45 results",
				`id="pagination"`,
				`href="/?page=2&amp;q=golang"`,
				"https://example.com/golang/19",
			},
			excludes: []string{"https://example.com/golang/20<"},
		},
		{
			name:     "deep link to page",
			target:   "/?q=golang&page=3",
			contains: []string{"https://example.com/golang/44", "page-btn active"},
			excludes: []string{"https://example.com/golang/39<"},
		},
		{
			name:     "page beyond range is clamped",
			target:   "/?q=golang&page=99",
			contains: []string{"https://example.com/golang/44"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, h, tt.target)
			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}
			body := w.Body.String()
			for _, s := range tt.contains {
				if !strings.Contains(body, s) {
					t.Errorf("Expected body to contain %q", s)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(body, s) {
					t.Errorf("Expected body not to contain %q", s)
				}
			}
		})
	}
}

func TestWebNotFound(t *testing.T) {
	webServer := setupTestWebServer(t, writeIndex(t, 1), report.StrategyRedirect)
	w := get(t, webServer.routes(), "/nope")
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestWebLoadFailureRedirect(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.csv")
	webServer := setupTestWebServer(t, missing, report.StrategyRedirect)
	if err := webServer.reload(context.Background()); err == nil {
		t.Fatal("Expected reload to fail")
	}

	w := get(t, webServer.routes(), "/?q=cats")
	if w.Code != http.StatusFound {
		t.Fatalf("Expected status 302, got %d", w.Code)
	}
	loc, err := url.Parse(w.Header().Get("Location"))
	if err != nil {
		t.Fatalf("Invalid Location header: %v", err)
	}
	if loc.Path != "/error" {
		t.Errorf("Expected redirect to /error, got %s", loc.Path)
	}
	if code := loc.Query().Get("code"); code != string(report.CodeConnection) {
		t.Errorf("Expected code %s, got %s", report.CodeConnection, code)
	}

	// Follow the redirect
	w = get(t, webServer.routes(), loc.String())
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200 from error view, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), string(report.CodeConnection)) {
		t.Errorf("Expected error view to show the code")
	}
	if !strings.Contains(w.Body.String(), "Could not connect to the server.") {
		t.Errorf("Expected error view to show the description")
	}
}

func TestWebLoadFailureInline(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.csv")
	webServer := setupTestWebServer(t, missing, report.StrategyInline)
	if err := webServer.reload(context.Background()); err == nil {
		t.Fatal("Expected reload to fail")
	}

	w := get(t, webServer.routes(), "/?q=cats")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Failed to load index (ConnectionError)") {
		t.Errorf("Expected inline failure status, got: %s", body)
	}
	if !strings.Contains(body, "index-status failed") {
		t.Errorf("Expected status to be marked failed")
	}
	if !strings.Contains(body, "0 results") {
		t.Errorf("Expected empty results against an empty index")
	}
}

func TestWebErrorDefaults(t *testing.T) {
	webServer := setupTestWebServer(t, writeIndex(t, 1), report.StrategyRedirect)
	w := get(t, webServer.routes(), "/error")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Something went wrong.") {
		t.Errorf("Expected default description")
	}
}

func TestWebStatic(t *testing.T) {
	webServer := setupTestWebServer(t, writeIndex(t, 1), report.StrategyRedirect)
	h := webServer.routes()

	tests := []struct {
		path        string
		status      int
		contentType string
	}{
		{"/static/style.css", http.StatusOK, "text/css"},
		{"/static/search.js", http.StatusOK, "application/javascript"},
		{"/static/missing.txt", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := get(t, h, tt.path)
			if w.Code != tt.status {
				t.Fatalf("Expected status %d, got %d", tt.status, w.Code)
			}
			if tt.contentType != "" && w.Header().Get("Content-Type") != tt.contentType {
				t.Errorf("Expected Content-Type %s, got %s", tt.contentType, w.Header().Get("Content-Type"))
			}
		})
	}
}

func TestWebAPIRoutesMounted(t *testing.T) {
	webServer := setupTestWebServer(t, writeIndex(t, 45), report.StrategyRedirect)
	if err := webServer.reload(context.Background()); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	h := webServer.routes()

	for _, path := range []string{"/api/search?q=cats", "/api/status", "/health"} {
		w := get(t, h, path)
		if w.Code != http.StatusOK {
			t.Errorf("%s: expected status 200, got %d", path, w.Code)
		}
		if w.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Errorf("%s: expected CORS header", path)
		}
	}
}

func TestReloadKeepsPreviousIndexOnFailure(t *testing.T) {
	path := writeIndex(t, 5)
	webServer := setupTestWebServer(t, path, report.StrategyRedirect)
	ctx := context.Background()
	if err := webServer.reload(ctx); err != nil {
		t.Fatalf("reload failed: %v", err)
	}

	_, events := webServer.hub.Register()

	if err := os.WriteFile(path, []byte("href,name\nx,y\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := webServer.reload(ctx); err == nil {
		t.Fatal("Expected reload of a broken index to fail")
	}

	if got := webServer.apiServer.Store().Count(); got != 8 {
		t.Errorf("Expected previous 8 records to be kept, got %d", got)
	}
	if webServer.apiServer.LoadError() != nil {
		t.Errorf("A failed reload after a successful load must not block searches")
	}

	select {
	case ev := <-events:
		if ev.Type != realtime.TypeReloadFailed || ev.ErrorCode != string(report.CodeParse) || ev.Count != 8 {
			t.Errorf("Unexpected event: %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("Expected a reload_failed event")
	}
}

func TestReloadClearsLoadError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.csv")
	webServer := setupTestWebServer(t, path, report.StrategyRedirect)
	ctx := context.Background()

	if err := webServer.reload(ctx); err == nil {
		t.Fatal("Expected reload to fail before the file exists")
	}
	if webServer.apiServer.LoadError() == nil {
		t.Fatal("Expected load error to be recorded")
	}

	_, failures := webServer.hub.Register()
	if err := webServer.reload(ctx); err == nil {
		t.Fatal("Expected second reload to fail")
	}
	select {
	case ev := <-failures:
		if ev.Type != realtime.TypeLoadFailed || ev.ErrorCode != string(report.CodeConnection) {
			t.Errorf("Unexpected event: %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("Expected a load_failed event while nothing is served")
	}

	_, events := webServer.hub.Register()
	if err := os.WriteFile(path, []byte(indexCSV(2)), 0644); err != nil {
		t.Fatal(err)
	}
	if err := webServer.reload(ctx); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if webServer.apiServer.LoadError() != nil {
		t.Errorf("Expected load error to be cleared")
	}

	select {
	case ev := <-events:
		if ev.Type != realtime.TypeReload || ev.Count != 5 {
			t.Errorf("Unexpected event: %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("Expected a reload event")
	}
}

func TestWatchIndexReloadsOnWrite(t *testing.T) {
	path := writeIndex(t, 1)
	webServer := setupTestWebServer(t, path, report.StrategyRedirect)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := webServer.reload(ctx); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	_, events := webServer.hub.Register()
	if err := webServer.watchIndex(ctx, path); err != nil {
		t.Fatalf("watchIndex failed: %v", err)
	}

	if err := os.WriteFile(path, []byte(indexCSV(10)), 0644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev := <-events:
			if ev.Type == realtime.TypeReload && ev.Count == 13 {
				return
			}
		case <-deadline:
			t.Fatalf("Timed out waiting for reload, store has %d records", webServer.apiServer.Store().Count())
		}
	}
}

func TestWatchIndexMissingFile(t *testing.T) {
	webServer := setupTestWebServer(t, writeIndex(t, 1), report.StrategyRedirect)
	missing := filepath.Join(t.TempDir(), "missing.csv")
	if err := webServer.watchIndex(context.Background(), missing); err == nil {
		t.Error("Expected error watching a missing file")
	}
}
