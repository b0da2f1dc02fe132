package scanner

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"vvnews/internal/domain"
)

// browserUA mirrors what the sources see from a desktop browser; several of
// them serve stripped-down markup to unknown agents.
const browserUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// maxBodyBytes bounds how much of a page is read into memory.
const maxBodyBytes = 4 << 20

// Client is the shared HTTP layer for all adapters and the time resolver.
type Client struct {
	http      *http.Client
	userAgent string
}

// NewClient wraps an HTTP client; a nil argument gets a 15s-timeout default.
func NewClient(hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{http: hc, userAgent: browserUA}
}

// HTTPClient exposes the underlying client for libraries that manage their
// own requests (gofeed).
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

// Get performs a GET with the browser User-Agent and returns the body for
// 200 responses. Non-200 responses map to ErrSourceUnavailable.
func (c *Client) Get(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %s", domain.ErrSourceUnavailable, pageURL, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// HTML fetches a page as text.
func (c *Client) HTML(ctx context.Context, pageURL string) (string, error) {
	body, err := c.Get(ctx, pageURL)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Document fetches a page and parses it into a queryable DOM.
func (c *Client) Document(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %s", domain.ErrSourceUnavailable, pageURL, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: parse document: %v", domain.ErrParseMismatch, err)
	}
	return doc, nil
}
