package loader

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/text/encoding/htmlindex"
)

// compressionFor picks the decompressor from the Content-Encoding header,
// falling back to the file extension for servers that publish index.csv.gz as
// an opaque blob.
func compressionFor(contentEncoding, name string) string {
	enc := strings.ToLower(strings.TrimSpace(contentEncoding))
	if enc != "" && enc != "identity" {
		return enc
	}
	switch strings.ToLower(path.Ext(name)) {
	case ".gz":
		return "gzip"
	case ".zst":
		return "zstd"
	}
	return ""
}

// decompress inflates raw. The result may not exceed limit bytes.
func decompress(raw []byte, encoding string, limit int64) ([]byte, error) {
	var r io.Reader
	switch encoding {
	case "":
		return raw, nil
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("opening gzip stream: %w", err)
		}
		defer zr.Close()
		r = zr
	case "zstd":
		dec, err := zstd.NewReader(bytes.NewReader(raw), zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("creating zstd decoder: %w", err)
		}
		defer dec.Close()
		r = dec
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", encoding)
	}

	out, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s stream: %w", encoding, err)
	}
	if int64(len(out)) > limit {
		return nil, fmt.Errorf("decompressed body exceeds %d bytes", limit)
	}
	return out, nil
}

// toUTF8 transcodes data declared in a non-UTF-8 charset and replaces any
// remaining invalid sequences with U+FFFD, the same way a browser's text()
// does. The parser then rejects the replacement characters.
func toUTF8(data []byte, contentType string) ([]byte, error) {
	if contentType != "" {
		_, params, err := mime.ParseMediaType(contentType)
		if err == nil {
			if cs := strings.ToLower(strings.TrimSpace(params["charset"])); cs != "" && cs != "utf-8" && cs != "utf8" {
				enc, err := htmlindex.Get(cs)
				if err != nil {
					return nil, fmt.Errorf("unsupported charset %q: %w", cs, err)
				}
				out, err := enc.NewDecoder().Bytes(data)
				if err != nil {
					return nil, fmt.Errorf("decoding %s body: %w", cs, err)
				}
				data = out
			}
		}
	}
	return bytes.ToValidUTF8(data, []byte("\uFFFD")), nil
}
