package webring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/time/rate"

	"github.com/MrSnakeDoc/webring/internal/utils"
	"github.com/MrSnakeDoc/webring/internal/version"
	"github.com/MrSnakeDoc/webring/internal/widget"
)

const (
	indexFile = "index.json"

	// maxBodyBytes bounds a single index or category document.
	maxBodyBytes = 4 << 20

	maxRedirects = 10
)

var (
	// ErrUnexpectedStatus is returned when the data source answers with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrMalformed is returned when a document parses but lacks required fields.
	ErrMalformed = errors.New("malformed webring document")
)

// Client reads webring index and category files over HTTP(S) or from disk
// (file:// data sources). It implements widget.Source.
type Client struct {
	http      *http.Client
	limiter   *rate.Limiter
	userAgent string
	policy    *SourcePolicy
}

type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRateLimit caps outbound requests. rps <= 0 disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithSourcePolicy restricts the data sources the client reads, redirects
// included when the client owns its http.Client.
func WithSourcePolicy(p *SourcePolicy) Option {
	return func(c *Client) { c.policy = p }
}

// NewClient creates a client. Without options it uses a plain http.Client
// with no timeout of its own; callers bound requests through the context.
func NewClient(opts ...Option) *Client {
	own := &http.Client{}
	c := &Client{
		http:      own,
		userAgent: "webring-widget/" + version.Version,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.policy != nil && c.http == own {
		own.CheckRedirect = c.checkRedirect
	}
	return c
}

func (c *Client) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("stopped after %d redirects", maxRedirects)
	}
	if !c.policy.allowsURL(req.URL) {
		return fmt.Errorf("%w: redirect to %s", ErrSourceNotAllowed, req.URL.Redacted())
	}
	return nil
}

func (c *Client) checkSource(base string) error {
	if !c.policy.Allows(base) {
		return fmt.Errorf("%w: %s", ErrSourceNotAllowed, base)
	}
	return nil
}

// Index fetches <base>index.json.
func (c *Client) Index(ctx context.Context, base string) (widget.RemoteIndex, error) {
	if err := c.checkSource(base); err != nil {
		return widget.RemoteIndex{}, err
	}
	var idx widget.RemoteIndex
	if err := c.getJSON(ctx, base+indexFile, &idx); err != nil {
		return widget.RemoteIndex{}, fmt.Errorf("failed to load index: %w", err)
	}
	return idx, nil
}

// Category fetches <base><category>.json.
func (c *Client) Category(ctx context.Context, base, category string) (widget.CategoryFile, error) {
	if err := c.checkSource(base); err != nil {
		return widget.CategoryFile{}, err
	}
	var file widget.CategoryFile
	if err := c.getJSON(ctx, base+category+".json", &file); err != nil {
		return widget.CategoryFile{}, fmt.Errorf("failed to load category %s: %w", category, err)
	}
	if file.Links == nil {
		return widget.CategoryFile{}, fmt.Errorf("category %s: %w: missing links", category, ErrMalformed)
	}
	return file, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	if strings.HasPrefix(rawURL, "file://") {
		return readJSONFile(rawURL, out)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", rawURL, err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, rawURL, resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", rawURL, err)
	}
	return nil
}

func readJSONFile(rawURL string, out any) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid file url %s: %w", rawURL, err)
	}

	data, err := os.ReadFile(filepath.FromSlash(u.Path))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", u.Path, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", u.Path, err)
	}
	return nil
}
