// SPDX-License-Identifier: MIT

// Package rakuten is the source adapter for the Rakuten TV gizmo API. It
// fetches raw catalog, category and streaming documents; it carries no
// normalization logic of its own.
package rakuten

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://gizmo.rakuten.tv/v3"
	origin         = "https://rakuten.tv"
	referer        = "https://rakuten.tv/"
	userAgent      = "Mozilla/5.0 (X11; Linux x86_64; rv:98.0) Gecko/20100101 Firefox/98.0"

	defaultTimeout = 10 * time.Second

	// One catalog page is enough: the API caps live channel listings well
	// below this for every market.
	perPage = 100
)

// Client talks to the gizmo API. The market is an explicit parameter on every
// call so that multi-market runs can share one client, including concurrently.
type Client struct {
	base    string
	http    *http.Client
	limiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL (used by tests).
func WithBaseURL(base string) Option {
	return func(c *Client) { c.base = strings.TrimRight(base, "/") }
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithRateLimit bounds the request rate against the upstream API. Zero or
// negative rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// New returns a client with the production base URL and a 10s timeout.
func New(opts ...Option) *Client {
	c := &Client{
		base: defaultBaseURL,
		http: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LiveChannels fetches the live channel catalog for one market.
func (c *Client) LiveChannels(ctx context.Context, market string) (*ChannelsDocument, error) {
	q := c.marketQuery(market)
	q.Set("page", "1")
	q.Set("per_page", strconv.Itoa(perPage))

	var doc ChannelsDocument
	if err := c.get(ctx, "live_channels", "/live_channels", q, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// LiveChannelCategories fetches the category document for one market.
func (c *Client) LiveChannelCategories(ctx context.Context, market string) (*CategoriesDocument, error) {
	var doc CategoriesDocument
	if err := c.get(ctx, "live_channel_categories", "/live_channel_categories", c.marketQuery(market), &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// LiveStreaming resolves the playable streams for one channel. Failure here
// is normal steady-state (not every channel has a stream at every moment), so
// callers typically log at debug level and move on.
func (c *Client) LiveStreaming(ctx context.Context, market, channelID string, languages []string) (*StreamingsDocument, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &FetchError{Source: "streamings", Err: err}
		}
	}

	audio := "MIS"
	if len(languages) > 0 && languages[0] != "" {
		audio = languages[0]
	}

	q := c.marketQuery(market)
	q.Set("device_stream_audio_quality", "2.0")
	q.Set("device_stream_hdr_type", "NONE")
	q.Set("device_stream_video_quality", "FHD")
	q.Set("disable_dash_legacy_packages", "false")

	body := map[string]any{
		"audio_language":       audio,
		"audio_quality":        "2.0",
		"classification_id":    ClassificationID(market),
		"content_id":           channelID,
		"content_type":         "live_channels",
		"device_serial":        "not implemented",
		"player":               "web:HLS-NONE:NONE",
		"strict_video_quality": false,
		"subtitle_language":    "MIS",
		"video_type":           "stream",
	}

	var doc StreamingsDocument
	if err := c.post(ctx, "streamings", "/avod/streamings", q, body, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// StreamURL extracts the playable URL from a streamings document, truncated
// just past the ".m3u8" segment so players do not trip over signed query
// parameters. Empty means no stream is resolvable right now.
func StreamURL(doc *StreamingsDocument) string {
	if doc == nil || len(doc.Data.StreamInfos) == 0 {
		return ""
	}
	raw := doc.Data.StreamInfos[0].URL
	if raw == "" {
		return ""
	}
	if head, _, found := strings.Cut(raw, ".m3u8"); found {
		return head + ".m3u8"
	}
	return raw
}

func (c *Client) marketQuery(market string) url.Values {
	q := url.Values{}
	q.Set("classification_id", strconv.Itoa(ClassificationID(market)))
	q.Set("device_identifier", "web")
	q.Set("locale", market)
	q.Set("market_code", market)
	return q
}

func (c *Client) get(ctx context.Context, source, path string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path+"?"+q.Encode(), nil)
	if err != nil {
		return &FetchError{Source: source, Err: err}
	}
	return c.do(req, source, out)
}

func (c *Client) post(ctx context.Context, source, path string, q url.Values, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &FetchError{Source: source, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path+"?"+q.Encode(), bytes.NewReader(payload))
	if err != nil {
		return &FetchError{Source: source, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, source, out)
}

func (c *Client) do(req *http.Request, source string, out any) error {
	req.Header.Set("Origin", origin)
	req.Header.Set("Referer", referer)
	req.Header.Set("User-Agent", userAgent)

	res, err := c.http.Do(req)
	if err != nil {
		return &FetchError{Source: source, Err: err}
	}
	defer res.Body.Close() //nolint:errcheck

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &FetchError{Source: source, Status: res.StatusCode, Err: fmt.Errorf("unexpected status %s", res.Status)}
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return &DecodeError{Source: source, Err: err}
	}
	return nil
}
