package cmd

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rubiojr/sitesearch/cmd/web/components"
	"github.com/rubiojr/sitesearch/cmd/web/components/types"
	"github.com/rubiojr/sitesearch/pkg/api"
	"github.com/rubiojr/sitesearch/pkg/config"
	"github.com/rubiojr/sitesearch/pkg/index"
	"github.com/rubiojr/sitesearch/pkg/loader"
	"github.com/rubiojr/sitesearch/pkg/log"
	"github.com/rubiojr/sitesearch/pkg/realtime"
	"github.com/rubiojr/sitesearch/pkg/report"
	"github.com/rubiojr/sitesearch/pkg/search"
	"github.com/rubiojr/sitesearch/pkg/version"
	"github.com/urfave/cli/v3"
)

//go:embed web/static/*
var staticFS embed.FS

// WebCommand creates the web command with both API and UI
func WebCommand() *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Start web server with both API endpoints and HTML interface",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "port",
				Usage: "Port to listen on",
				Value: "8080",
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind to",
				Value: "localhost",
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Reload the index when the local index file changes",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return startWebServer(ctx, c.String("config"), c.String("host"), c.String("port"), c.Bool("watch"))
		},
	}
}

// WebServer holds the server configuration and dependencies
type WebServer struct {
	config    *config.Config
	loader    *loader.Loader
	apiServer *api.Server
	hub       *realtime.Hub
	log       *log.Logger
}

// newWebServer wires the index store, API server and realtime hub for cfg
func newWebServer(cfg *config.Config) (*WebServer, error) {
	l, err := newLoader(cfg)
	if err != nil {
		return nil, err
	}
	strategy, err := cfg.Strategy()
	if err != nil {
		return nil, err
	}

	hub := realtime.NewHub(0)
	apiServer := api.NewServer(index.NewStore(), cfg.SearchPagination())
	apiServer.SetErrorStrategy(strategy, cfg.ErrorPage)
	apiServer.SetHub(hub)

	return &WebServer{
		config:    cfg,
		loader:    l,
		apiServer: apiServer,
		hub:       hub,
		log:       log.ForService("web"),
	}, nil
}

// routes builds the HTTP handler for the API and UI
func (s *WebServer) routes() http.Handler {
	mux := http.NewServeMux()

	// API routes
	s.apiServer.RegisterRoutes(mux)

	// Web UI routes
	mux.HandleFunc("/", s.handleHome)
	mux.HandleFunc("GET /error", s.handleError)

	// Static assets
	mux.HandleFunc("GET /static/", s.handleStatic)

	// Add CORS middleware
	return api.CorsMiddleware(mux)
}

// startWebServer starts the web server with both API and UI
func startWebServer(ctx context.Context, configPath, host, port string, watch bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	webServer, err := newWebServer(cfg)
	if err != nil {
		return fmt.Errorf("creating web server: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	webServer.log.Infof("%s", report.StatusLoading)
	if err := webServer.reload(ctx); err != nil {
		// Keep serving: the UI reports the failure per the error strategy.
		report.Inline{Logger: webServer.log}.Report(err)
	}

	if watch {
		path, ok := localIndexPath(cfg.IndexURL)
		if !ok {
			webServer.log.Warnf("--watch ignored: %s is not a local file", cfg.IndexURL)
		} else if err := webServer.watchIndex(ctx, path); err != nil {
			webServer.log.Warnf("failed to watch %s: %v", path, err)
		}
	}

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", host, port),
		Handler: webServer.routes(),
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		webServer.log.Infof("Starting web server on http://%s:%s", host, port)
		webServer.log.Infof("Available endpoints:")
		webServer.log.Infof("  Web UI:")
		webServer.log.Infof("    GET /?q=QUERY&page=N - Search page")
		webServer.log.Infof("    GET /error - Error view")
		webServer.log.Infof("  API:")
		webServer.log.Infof("    GET /api/search - Search the page index")
		webServer.log.Infof("    GET /api/status - Index status")
		webServer.log.Infof("    GET /ws - Search session websocket")
		webServer.log.Infof("    GET /health - Health check")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-sigCh:
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("server failed to start: %w", err)
	}

	webServer.log.Infof("Shutting down web server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	return server.Shutdown(shutdownCtx)
}

// reload fetches the index and swaps it in. A failed reload keeps serving the
// previous index; the failure only blocks searches when nothing was ever
// loaded.
func (s *WebServer) reload(ctx context.Context) error {
	store := s.apiServer.Store()

	idx, err := s.loader.Load(ctx, s.config.IndexURL)
	if err != nil {
		f := report.Classify(err)
		if store.LoadedAt().IsZero() {
			s.apiServer.SetLoadError(err)
			s.hub.Broadcast(realtime.LoadFailedEvent(string(f.Code), f.Description))
		} else {
			s.hub.Broadcast(realtime.ReloadFailedEvent(store.Count(), string(f.Code), f.Description))
		}
		return err
	}

	store.Replace(idx)
	s.apiServer.SetLoadError(nil)
	s.log.Infof("%s", report.LoadedStatus(store.Count()))
	s.hub.Broadcast(realtime.ReloadEvent(store.Count(), store.LoadedAt()))
	return nil
}

// watchIndex reloads the index whenever the file at path changes
func (s *WebServer) watchIndex(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating index file watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return fmt.Errorf("watching %s: %w", path, err)
	}
	s.log.Infof("Watching index file for changes: %s", path)

	go func() {
		defer func() {
			if err := watcher.Close(); err != nil {
				s.log.Warnf("failed to close index file watcher: %v", err)
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				// React to write, create, rename, and remove events (editors often use atomic writes)
				if !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove)) {
					continue
				}
				s.log.Infof("Index file changed: %s (event: %s), reloading...", event.Name, event.Op.String())

				if event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
					// Small delay to ensure the new file is fully written
					time.Sleep(200 * time.Millisecond)

					if _, err := os.Stat(path); os.IsNotExist(err) {
						s.log.Warnf("Index file was removed and not replaced, keeping current index")
						continue
					}

					// Re-add the index file in case it was replaced
					if err := watcher.Add(path); err != nil {
						s.log.Warnf("failed to re-add index file to watcher: %v", err)
					}
				} else {
					time.Sleep(100 * time.Millisecond)
				}

				if err := s.reload(ctx); err != nil {
					s.log.Errorf("Failed to reload index: %v", err)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.log.Warnf("Index file watcher error: %v", err)
			}
		}
	}()

	return nil
}

// Web UI Handlers

// basePageData fills the fields shared by every view
func (s *WebServer) basePageData() types.PageData {
	return types.PageData{
		Title:   "sitesearch",
		Status:  report.LoadedStatus(s.apiServer.Store().Count()),
		Version: version.APIVersion(),
	}
}

// handleHome serves the home view, or the results view when q is set
func (s *WebServer) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	params := search.ParseParams(r.URL.Query())
	data := s.basePageData()
	data.Query = params.Query

	if err := s.apiServer.LoadError(); err != nil {
		f := report.Classify(err)
		strategy, errorPage := s.apiServer.ErrorStrategy()
		if strategy == report.StrategyRedirect {
			http.Redirect(w, r, report.ErrorURL(errorPage, f), http.StatusFound)
			return
		}
		data.Status = report.FailedStatus(f)
		data.Failed = true
	}

	if params.Query == "" {
		if err := components.Home(data).Render(r.Context(), w); err != nil {
			http.Error(w, fmt.Sprintf("Template error: %v", err), http.StatusInternalServerError)
		}
		return
	}

	// One session per request; the URL carries the navigation state.
	session := search.NewSession(s.apiServer.Store(), s.apiServer.Pagination(), nil)
	page, _ := session.DoSearch(params.Query)
	if params.Page != 1 {
		page, _ = session.ShowPage(params.Page)
	}

	data.Title = params.Query + " - sitesearch"
	data.Meta = search.MetaLine(params.Query, page.TotalResults)
	data.Results = components.WebResults(page.Results)
	data.Page = page.Number
	data.TotalPages = page.TotalPages
	data.TotalCount = page.TotalResults
	data.ShowControls = page.ShowControls
	data.Controls = components.WebControls(params.Query, page.Controls)

	if err := components.Results(data).Render(r.Context(), w); err != nil {
		http.Error(w, fmt.Sprintf("Template error: %v", err), http.StatusInternalServerError)
	}
}

// handleError serves the error view for ?code=..&desc=..
func (s *WebServer) handleError(w http.ResponseWriter, r *http.Request) {
	data := s.basePageData()
	data.Title = "Error - sitesearch"
	data.ErrorCode = r.URL.Query().Get("code")
	data.ErrorDesc = r.URL.Query().Get("desc")
	if data.ErrorCode == "" {
		data.ErrorCode = "Error"
	}
	if data.ErrorDesc == "" {
		data.ErrorDesc = "Something went wrong."
	}

	if err := components.Error(data).Render(r.Context(), w); err != nil {
		http.Error(w, fmt.Sprintf("Template error: %v", err), http.StatusInternalServerError)
	}
}

// handleStatic serves static assets from embedded files
func (s *WebServer) handleStatic(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	// Remove /static/ prefix and add web/static/ prefix for embedded filesystem
	filePath := "web/static/" + strings.TrimPrefix(path, "/static/")

	content, err := staticFS.ReadFile(filePath)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	// Set appropriate content type
	if strings.HasSuffix(path, ".css") {
		w.Header().Set("Content-Type", "text/css")
	} else if strings.HasSuffix(path, ".js") {
		w.Header().Set("Content-Type", "application/javascript")
	}

	// Set cache headers for static assets
	w.Header().Set("Cache-Control", "public, max-age=3600")

	if _, err := w.Write(content); err != nil {
		s.log.Warnf("Error writing static content: %v", err)
	}
}
