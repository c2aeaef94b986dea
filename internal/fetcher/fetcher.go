// Package fetcher retrieves web pages, either raw for the landing proxy or
// reduced to readable text for journal entries.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html"
)

const (
	// MaxBodySize bounds how much of a response body is read.
	MaxBodySize = 5 * 1024 * 1024
	// MaxTextSize bounds the extracted text.
	MaxTextSize = 10 * 1024

	defaultUserAgent = "journal/1.0"
)

// ErrNoText is returned when a page has no readable text.
var ErrNoText = errors.New("no text content found")

// Page is a fetched response.
type Page struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Client fetches pages over HTTP.
type Client struct {
	http *http.Client
}

// New creates a Client with the given request timeout.
func New(timeout time.Duration) *Client {
	return &Client{http: &http.Client{Timeout: timeout}}
}

// Get fetches rawURL and returns the response whatever its status. An empty
// userAgent uses the default one.
func (c *Client) Get(ctx context.Context, rawURL, userAgent string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &Page{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// Text fetches rawURL and extracts its readable text.
func (c *Client) Text(ctx context.Context, rawURL string) (string, error) {
	u, err := Normalize(rawURL)
	if err != nil {
		return "", err
	}

	page, err := c.Get(ctx, u, "")
	if err != nil {
		return "", err
	}
	if page.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d: %s", page.StatusCode, http.StatusText(page.StatusCode))
	}

	text := extractText(string(page.Body))
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

// Normalize validates rawURL, defaulting the scheme to https.
func Normalize(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid URL: missing host")
	}
	return u.String(), nil
}

// IsURL checks if a string looks like a URL
func IsURL(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "https://") ||
		strings.HasPrefix(s, "www.")
}

var skipTags = map[string]bool{
	"script": true, "style": true, "nav": true,
	"header": true, "footer": true, "aside": true,
	"noscript": true, "iframe": true,
}

// extractText parses HTML and returns its visible text with whitespace
// collapsed, truncated to MaxTextSize.
func extractText(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return ""
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skipTags[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				sb.WriteString(text)
				sb.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	result := strings.Join(strings.Fields(sb.String()), " ")
	if len(result) > MaxTextSize {
		n := MaxTextSize
		for n > 0 && !utf8.RuneStart(result[n]) {
			n--
		}
		result = result[:n] + "..."
	}
	return result
}
