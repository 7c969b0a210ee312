package loader

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/text/encoding/japanese"

	"github.com/rubiojr/sitesearch/pkg/index"
)

const sampleCSV = "url,title\nhttps://example.com/a,Cats and Dogs\nhttps://example.com/cats,Other\n"

func serve(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func loadErrorKind(t *testing.T, err error) LoadErrorKind {
	t.Helper()
	var lerr *LoadError
	if !errors.As(err, &lerr) {
		t.Fatalf("expected *LoadError, got %T: %v", err, err)
	}
	return lerr.Kind
}

func TestLoadCSV(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Write([]byte(sampleCSV))
	})

	idx, err := New(Options{}).Load(context.Background(), srv.URL+"/index.csv")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(idx) != 2 {
		t.Fatalf("expected 2 records, got %d", len(idx))
	}
	if idx[0].Title() != "Cats and Dogs" {
		t.Errorf("unexpected first title %q", idx[0].Title())
	}
}

func TestLoadJSON(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"url":"https://example.com/a","title":"A","lang":"en"}]`))
	})

	idx, err := New(Options{Format: index.FormatJSON}).Load(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(idx) != 1 || idx[0]["lang"] != "en" {
		t.Errorf("unexpected index %v", idx)
	}
}

func TestLoadHTTPStatus(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := New(Options{}).Load(context.Background(), srv.URL)
	if kind := loadErrorKind(t, err); kind != KindHTTPStatus {
		t.Fatalf("expected KindHTTPStatus, got %v", kind)
	}
	var lerr *LoadError
	errors.As(err, &lerr)
	if lerr.Status != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", lerr.Status)
	}
}

func TestLoadConnectionFailed(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(Options{}).Load(context.Background(), url)
	if kind := loadErrorKind(t, err); kind != KindConnectionFailed {
		t.Fatalf("expected KindConnectionFailed, got %v", kind)
	}
}

func TestLoadCrossOrigin(t *testing.T) {
	tests := []struct {
		name    string
		allow   string
		wantErr bool
	}{
		{name: "no header", allow: "", wantErr: true},
		{name: "other origin", allow: "https://evil.example", wantErr: true},
		{name: "wildcard", allow: "*", wantErr: false},
		{name: "matching origin", allow: "https://docs.example.com", wantErr: false},
		{name: "trailing slash", allow: "https://docs.example.com/", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
				if got := r.Header.Get("Origin"); got != "https://docs.example.com" {
					t.Errorf("unexpected Origin header %q", got)
				}
				if tt.allow != "" {
					w.Header().Set("Access-Control-Allow-Origin", tt.allow)
				}
				w.Write([]byte(sampleCSV))
			})

			_, err := New(Options{CORSOrigin: "https://docs.example.com"}).Load(context.Background(), srv.URL)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if kind := loadErrorKind(t, err); kind != KindCrossOrigin {
				t.Fatalf("expected KindCrossOrigin, got %v", kind)
			}
		})
	}
}

type failingTransport struct {
	err error
}

func (f failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, f.err
}

func TestLoadTransportErrorClassification(t *testing.T) {
	tests := []struct {
		msg  string
		want LoadErrorKind
	}{
		{msg: "request blocked by CORS policy", want: KindCrossOrigin},
		{msg: "Cross-Origin Request Blocked", want: KindCrossOrigin},
		{msg: "dial tcp: connection refused", want: KindConnectionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			client := &http.Client{Transport: failingTransport{err: errors.New(tt.msg)}}
			_, err := New(Options{Client: client}).Load(context.Background(), "https://example.com/index.csv")
			if kind := loadErrorKind(t, err); kind != tt.want {
				t.Errorf("expected %v, got %v", tt.want, kind)
			}
		})
	}
}

func TestLoadConnectionFailedWithMarkerInURL(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	for _, path := range []string{"/index.csv", "/blocked/index.csv", "/cors-mirror/index.csv", "/cross-origin.csv"} {
		t.Run(path, func(t *testing.T) {
			_, err := New(Options{}).Load(context.Background(), base+path)
			if kind := loadErrorKind(t, err); kind != KindConnectionFailed {
				t.Errorf("expected KindConnectionFailed, got %v (%v)", kind, err)
			}
		})
	}
}

func TestLoadTransportErrorInsideURLError(t *testing.T) {
	// http.Client wraps transport errors in *url.Error; only the cause counts.
	client := &http.Client{Transport: failingTransport{err: errors.New("request blocked by CORS policy")}}
	_, err := New(Options{Client: client}).Load(context.Background(), "https://example.com/index.csv")
	if kind := loadErrorKind(t, err); kind != KindCrossOrigin {
		t.Errorf("expected KindCrossOrigin, got %v", kind)
	}

	client = &http.Client{Transport: failingTransport{err: errors.New("dial tcp: connection refused")}}
	_, err = New(Options{Client: client}).Load(context.Background(), "https://cors.example.com/blocked/index.csv")
	if kind := loadErrorKind(t, err); kind != KindConnectionFailed {
		t.Errorf("expected KindConnectionFailed, got %v", kind)
	}
}

func gzipped(t *testing.T, data string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(data)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func zstded(t *testing.T, data string) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatal(err)
	}
	defer enc.Close()
	return enc.EncodeAll([]byte(data), nil)
}

func TestLoadCompressed(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/gzip":
			w.Header().Set("Content-Encoding", "gzip")
			w.Write(gzipped(t, sampleCSV))
		case "/index.csv.zst":
			w.Write(zstded(t, sampleCSV))
		case "/garbage":
			w.Header().Set("Content-Encoding", "gzip")
			w.Write([]byte("not gzip at all"))
		}
	})

	l := New(Options{})
	for _, p := range []string{"/gzip", "/index.csv.zst"} {
		idx, err := l.Load(context.Background(), srv.URL+p)
		if err != nil {
			t.Fatalf("%s: Load failed: %v", p, err)
		}
		if len(idx) != 2 {
			t.Errorf("%s: expected 2 records, got %d", p, len(idx))
		}
	}

	_, err := l.Load(context.Background(), srv.URL+"/garbage")
	if kind := loadErrorKind(t, err); kind != KindBodyReadFailed {
		t.Errorf("expected KindBodyReadFailed, got %v", kind)
	}
}

func TestLoadCharsets(t *testing.T) {
	sjis, err := japanese.ShiftJIS.NewEncoder().String("url,title\nhttps://example.com/jp,日本語のページ\n")
	if err != nil {
		t.Fatal(err)
	}

	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sjis":
			w.Header().Set("Content-Type", "text/csv; charset=Shift_JIS")
			w.Write([]byte(sjis))
		case "/invalid":
			w.Header().Set("Content-Type", "text/csv; charset=utf-8")
			w.Write([]byte("url,title\nhttps://example.com,caf\xe9\n"))
		case "/bogus":
			w.Header().Set("Content-Type", "text/csv; charset=klingon")
			w.Write([]byte(sampleCSV))
		}
	})

	l := New(Options{})

	idx, err := l.Load(context.Background(), srv.URL+"/sjis")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if idx[0].Title() != "日本語のページ" {
		t.Errorf("unexpected title %q", idx[0].Title())
	}

	_, err = l.Load(context.Background(), srv.URL+"/invalid")
	var perr *index.ParseError
	if !errors.As(err, &perr) || perr.Kind != index.KindEncoding {
		t.Errorf("expected encoding parse error, got %v", err)
	}

	_, err = l.Load(context.Background(), srv.URL+"/bogus")
	if kind := loadErrorKind(t, err); kind != KindBodyReadFailed {
		t.Errorf("expected KindBodyReadFailed, got %v", kind)
	}
}

func TestLoadParseErrorPassesThrough(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("name,value\na,b\n"))
	})

	_, err := New(Options{}).Load(context.Background(), srv.URL)
	var perr *index.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *index.ParseError, got %T: %v", err, err)
	}
	if perr.Kind != index.KindMissingColumns {
		t.Errorf("expected KindMissingColumns, got %v", perr.Kind)
	}
	var lerr *LoadError
	if errors.As(err, &lerr) {
		t.Error("parse failures must not be wrapped in LoadError")
	}
}

func TestLoadBodyTooLarge(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleCSV))
	})

	_, err := New(Options{MaxBodySize: 10}).Load(context.Background(), srv.URL)
	if kind := loadErrorKind(t, err); kind != KindBodyReadFailed {
		t.Errorf("expected KindBodyReadFailed, got %v", kind)
	}
}

func TestLoadDecompressedBodyTooLarge(t *testing.T) {
	big := "url,title\nhttps://example.com/a," + strings.Repeat("a", 64<<10) + "\n"
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/gzip":
			w.Header().Set("Content-Encoding", "gzip")
			w.Write(gzipped(t, big))
		case "/index.csv.zst":
			w.Write(zstded(t, big))
		}
	})

	l := New(Options{MaxBodySize: 4 << 10})
	for _, p := range []string{"/gzip", "/index.csv.zst"} {
		t.Run(p, func(t *testing.T) {
			_, err := l.Load(context.Background(), srv.URL+p)
			if kind := loadErrorKind(t, err); kind != KindBodyReadFailed {
				t.Errorf("expected KindBodyReadFailed, got %v", kind)
			}
		})
	}

	dir := t.TempDir()
	compressed := filepath.Join(dir, "index.csv.gz")
	if err := os.WriteFile(compressed, gzipped(t, big), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := l.Load(context.Background(), compressed)
	if kind := loadErrorKind(t, err); kind != KindBodyReadFailed {
		t.Errorf("local file: expected KindBodyReadFailed, got %v", kind)
	}

	// The same bodies load when the limit allows them.
	if _, err := New(Options{MaxBodySize: 1 << 20}).Load(context.Background(), srv.URL+"/gzip"); err != nil {
		t.Errorf("expected load within limit to succeed: %v", err)
	}
}

func TestLoadLocalFile(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "index.csv")
	if err := os.WriteFile(plain, []byte(sampleCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	compressed := filepath.Join(dir, "index.csv.gz")
	if err := os.WriteFile(compressed, gzipped(t, sampleCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	l := New(Options{})
	for _, src := range []string{plain, "file://" + plain, compressed} {
		idx, err := l.Load(context.Background(), src)
		if err != nil {
			t.Fatalf("%s: Load failed: %v", src, err)
		}
		if len(idx) != 2 {
			t.Errorf("%s: expected 2 records, got %d", src, len(idx))
		}
	}

	_, err := l.Load(context.Background(), filepath.Join(dir, "missing.csv"))
	if kind := loadErrorKind(t, err); kind != KindConnectionFailed {
		t.Errorf("expected KindConnectionFailed, got %v", kind)
	}
}

func TestCompressionFor(t *testing.T) {
	tests := []struct {
		header, name, want string
	}{
		{"", "index.csv", ""},
		{"gzip", "index.csv", "gzip"},
		{"identity", "index.csv.gz", "gzip"},
		{"", "/data/INDEX.CSV.ZST", "zstd"},
		{"br", "index.csv", "br"},
	}
	for _, tt := range tests {
		if got := compressionFor(tt.header, tt.name); got != tt.want {
			t.Errorf("compressionFor(%q, %q) = %q, want %q", tt.header, tt.name, got, tt.want)
		}
	}
}
