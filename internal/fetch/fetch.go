// Package fetch is the shared HTTP layer for page downloads and
// accessibility probes. Network failure is an expected outcome here, not
// an error condition: probes return false, page fetches return an error
// the caller downgrades to "inaccessible".
package fetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"
)

const (
	userAgent   = "Mozilla/5.0 (compatible; EventRadarBot/1.0)"
	maxBodySize = 2 << 20 // 2 MiB is plenty for any event page
)

// Client wraps an http.Client with the headers and limits page analysis
// needs.
type Client struct {
	http *http.Client
}

// New builds a Client with a pooled transport and a hard per-request
// timeout.
func New(timeout time.Duration) *Client {
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &Client{http: &http.Client{Timeout: timeout, Transport: tr}}
}

// ValidURL reports whether s is an absolute http(s) URL.
func ValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Page fetches pageURL and returns its body as a string, with one retry
// on transient failure. The final URL after redirects is returned so the
// caller can persist the canonical location.
func (c *Client) Page(ctx context.Context, pageURL string) (body, finalURL string, err error) {
	if !ValidURL(pageURL) {
		return "", "", fmt.Errorf("invalid url %q", pageURL)
	}
	err = Retry(ctx, 2, 500*time.Millisecond, 2*time.Second, func() error {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if reqErr != nil {
			return reqErr
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "text/html,application/xhtml+xml,*/*;q=0.8")

		resp, doErr := c.http.Do(req)
		if doErr != nil {
			return doErr
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("fetch %s: HTTP %d", pageURL, resp.StatusCode)
		}
		data, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
		if readErr != nil {
			return readErr
		}
		body = string(data)
		finalURL = resp.Request.URL.String()
		return nil
	})
	if err != nil {
		return "", "", err
	}
	return body, finalURL, nil
}

// Accessible probes pageURL with HEAD, falling back to GET when the host
// rejects HEAD. 2xx and 3xx count as accessible; everything else,
// including transport errors and timeouts, does not.
func (c *Client) Accessible(ctx context.Context, pageURL string) bool {
	if !ValidURL(pageURL) {
		return false
	}
	status, err := c.probe(ctx, http.MethodHead, pageURL)
	if err == nil && status == http.StatusMethodNotAllowed {
		status, err = c.probe(ctx, http.MethodGet, pageURL)
	}
	if err != nil {
		// One retry for transient failures.
		status, err = c.probe(ctx, http.MethodGet, pageURL)
		if err != nil {
			return false
		}
	}
	return status >= 200 && status < 400
}

func (c *Client) probe(ctx context.Context, method, pageURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, pageURL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
	return resp.StatusCode, nil
}

// Retry runs fn up to attempts times with exponential backoff.
func Retry(ctx context.Context, attempts int, initial, max time.Duration, fn func() error) error {
	if attempts <= 1 {
		return fn()
	}
	d := initial
	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-time.After(d):
			case <-ctx.Done():
				return ctx.Err()
			}
			if d < max {
				d *= 2
				if d > max {
					d = max
				}
			}
		}
		if err = fn(); err == nil {
			return nil
		}
	}
	return err
}
