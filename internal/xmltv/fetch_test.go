// SPDX-License-Identifier: MIT
package xmltv

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mediaforge/rakugen/internal/rakuten"
)

func TestFetchPlainPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleGuide))
	}))
	defer srv.Close()

	doc, err := Fetch(context.Background(), srv.Client(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(doc.Channels) != 1 {
		t.Errorf("channels = %d, want 1", len(doc.Channels))
	}
}

func TestFetchGzipByMagicBytes(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(sampleGuide)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// No Content-Encoding header: only the magic bytes give it away,
		// like a plain file server hosting guide.xml.gz.
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(buf.Bytes())
	}))
	defer srv.Close()

	doc, err := Fetch(context.Background(), srv.Client(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(doc.Programs) != 1 {
		t.Errorf("programmes = %d, want 1", len(doc.Programs))
	}
}

func TestFetchFailures(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantFetch  bool
		wantDecode bool
	}{
		{
			name: "non-2xx",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "gone", http.StatusNotFound)
			},
			wantFetch: true,
		},
		{
			name: "payload not xml",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("{}"))
			},
			wantDecode: true,
		},
		{
			name: "gzip header with corrupt body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/gzip")
				_, _ = w.Write([]byte{0x1f, 0x8b, 0xff, 0xff})
			},
			wantFetch: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			_, err := Fetch(context.Background(), srv.Client(), srv.URL)
			if err == nil {
				t.Fatal("expected error")
			}
			var fe *rakuten.FetchError
			var de *rakuten.DecodeError
			if tc.wantFetch && !errors.As(err, &fe) {
				t.Errorf("expected FetchError, got %T: %v", err, err)
			}
			if tc.wantDecode && !errors.As(err, &de) {
				t.Errorf("expected DecodeError, got %T: %v", err, err)
			}
		})
	}
}
