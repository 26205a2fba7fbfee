// File path: internal/registry/client.go
package registry

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mkarlsen/trialstream/internal/common"
	"github.com/mkarlsen/trialstream/internal/config"
)

// Client fetches pages from the registry API. It mimics a browser session:
// a cookie jar, browser-like headers on every request, and a warm-up visit
// to the site root before the first API call. The upstream WAF rejects
// clients without these characteristics.
type Client struct {
	cfg        *config.Config
	httpClient *http.Client
	transport  *http.Transport
	policy     Policy
	warmed     bool
}

// NewClient constructs a client from the provided configuration.
func NewClient(cfg *config.Config) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	transport := &http.Transport{
		MaxIdleConns:        4,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     90 * time.Second,
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout:   cfg.RequestTimeout,
			Transport: transport,
			Jar:       jar,
		},
		transport: transport,
		policy: Policy{
			MaxAttempts: cfg.MaxAttempts,
			Backoff:     cfg.RetryBackoff,
			MaxBackoff:  time.Minute,
			Retryable:   IsTransient,
		},
	}, nil
}

// WarmUp visits the site root to pick up session cookies before the first
// paginated call. Best effort: a failed warm-up is logged and the extraction
// proceeds without it.
func (c *Client) WarmUp(ctx context.Context) {
	if c.warmed || strings.TrimSpace(c.cfg.WarmUpURL) == "" {
		return
	}
	c.warmed = true
	logger := common.Logger()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.WarmUpURL, nil)
	if err != nil {
		logger.Warn("registry: warm-up request build failed", "error", err)
		return
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn("registry: warm-up failed", "error", err)
		return
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	logger.Debug("registry: warm-up complete", "status", resp.StatusCode)
}

// FetchPage requests one page of studies. pageToken is empty for the first
// page. The call is paced by the configured request pause and retried with
// backoff on transient failures; a non-retryable failure or retry
// exhaustion is returned to the caller as-is.
func (c *Client) FetchPage(ctx context.Context, pageToken string, pageSize int) (*Page, error) {
	if pageSize <= 0 {
		pageSize = c.cfg.PageSize
	}
	if err := c.pause(ctx); err != nil {
		return nil, err
	}
	var page *Page
	err := c.policy.Do(ctx, func() error {
		fetched, err := c.doFetch(ctx, pageToken, pageSize)
		if err != nil {
			return err
		}
		page = fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

func (c *Client) doFetch(ctx context.Context, pageToken string, pageSize int) (*Page, error) {
	logger := common.Logger()
	endpoint := strings.TrimRight(c.cfg.APIBaseURL, "/") + "/studies"
	params := url.Values{}
	params.Set("pageSize", strconv.Itoa(pageSize))
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}
	full := endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	logger.Debug("registry: fetching page", "url", endpoint, "page_size", pageSize, "has_token", pageToken != "")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp, full)
	}
	var page Page
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, &ParseError{URL: full, Err: err}
	}
	return &page, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", c.cfg.WarmUpURL)
	req.Header.Set("Origin", strings.TrimRight(c.cfg.WarmUpURL, "/"))
}

func (c *Client) statusError(resp *http.Response, fullURL string) error {
	logger := common.Logger()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 500))
	preview := string(body)

	// 403 means the WAF rejected the client fingerprint; retrying only digs
	// the hole deeper, so surface it as fatal with diagnostics.
	if resp.StatusCode == http.StatusForbidden {
		contentType := strings.ToLower(resp.Header.Get("Content-Type"))
		isHTML := strings.Contains(contentType, "text/html") || strings.HasPrefix(strings.TrimSpace(preview), "<")
		logger.Error("registry: request blocked (403)",
			"url", fullURL,
			"content_type", contentType,
			"html_challenge", isHTML,
			"preview", preview)
		return &FetchError{URL: fullURL, Status: resp.StatusCode, Transient: false, Message: "blocked by upstream WAF"}
	}
	if transientStatus(resp.StatusCode) {
		logger.Warn("registry: retryable response", "url", fullURL, "status", resp.StatusCode)
		return &FetchError{URL: fullURL, Status: resp.StatusCode, Transient: true, Message: http.StatusText(resp.StatusCode)}
	}
	logger.Error("registry: request failed", "url", fullURL, "status", resp.StatusCode, "preview", preview)
	return &FetchError{URL: fullURL, Status: resp.StatusCode, Transient: false, Message: http.StatusText(resp.StatusCode)}
}

func (c *Client) pause(ctx context.Context) error {
	if c.cfg.RequestPause <= 0 {
		return nil
	}
	timer := time.NewTimer(c.cfg.RequestPause)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Close releases idle connections held by the client.
func (c *Client) Close() {
	if c != nil && c.transport != nil {
		c.transport.CloseIdleConnections()
	}
}
