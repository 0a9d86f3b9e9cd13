// SPDX-License-Identifier: MIT

package xmltv

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mediaforge/rakugen/internal/rakuten"
)

const fetchTimeout = 30 * time.Second

// Fetch retrieves and parses a guide document. The payload may be
// gzip-compressed on the wire, flagged either by Content-Encoding/Content-Type
// or only by its magic bytes; both are handled transparently. Non-2xx
// responses and malformed payloads are fetch/decode failures, not
// empty-but-valid data.
func Fetch(ctx context.Context, client *http.Client, url string) (*TV, error) {
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &rakuten.FetchError{Source: "guide", Err: err}
	}

	res, err := client.Do(req)
	if err != nil {
		return nil, &rakuten.FetchError{Source: "guide", Err: err}
	}
	defer res.Body.Close() //nolint:errcheck

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &rakuten.FetchError{Source: "guide", Status: res.StatusCode, Err: fmt.Errorf("unexpected status %s", res.Status)}
	}

	body, err := maybeGunzip(res)
	if err != nil {
		return nil, &rakuten.FetchError{Source: "guide", Err: err}
	}

	tv, err := Parse(body)
	if err != nil {
		return nil, &rakuten.DecodeError{Source: "guide", Err: err}
	}
	return tv, nil
}

func maybeGunzip(res *http.Response) (io.Reader, error) {
	br := bufio.NewReader(res.Body)

	gzipped := strings.Contains(res.Header.Get("Content-Encoding"), "gzip") ||
		strings.Contains(res.Header.Get("Content-Type"), "gzip")
	if !gzipped {
		// Sniff the gzip magic for servers that do not declare it.
		if magic, err := br.Peek(2); err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
			gzipped = true
		}
	}
	if !gzipped {
		return br, nil
	}

	zr, err := gzip.NewReader(br)
	if err != nil {
		return nil, fmt.Errorf("gunzip guide payload: %w", err)
	}
	return zr, nil
}
