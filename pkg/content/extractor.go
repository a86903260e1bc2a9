// Package content pulls a short text excerpt from an article linked in a post, used as extra
// context for reply generation.
package content

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	log "github.com/go-pkgz/lgr"
	"github.com/markusmobius/go-trafilatura"

	"github.com/umputun/engager/pkg/config"
)

// linkRe matches http(s) links in post text
var linkRe = regexp.MustCompile(`https?://[^\s"'<>]+`)

// internalHosts are hosts of the feed itself, links to them are not articles
var internalHosts = []string{"x.com", "twitter.com", "t.co", "pic.twitter.com"}

// Extractor fetches linked articles and extracts their text with trafilatura
type Extractor struct {
	client    *http.Client
	userAgent string
	maxChars  int
}

// NewExtractor makes an extractor from extraction config
func NewExtractor(cfg config.ExtractionConfig) *Extractor {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Extractor{
		client:    &http.Client{Timeout: timeout},
		userAgent: cfg.UserAgent,
		maxChars:  cfg.MaxChars,
	}
}

// Extract retrieves and extracts text content from the given URL
func (e *Extractor) Extract(ctx context.Context, urlStr string) (string, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return "", fmt.Errorf("parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return "", fmt.Errorf("invalid URL: %s", urlStr)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	setBrowserHeaders(req, e.userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch URL %s: %w", urlStr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code %d for URL %s", resp.StatusCode, urlStr)
	}

	result, err := trafilatura.Extract(resp.Body, trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
		ExcludeTables:   true,
		Deduplicate:     true,
		OriginalURL:     parsedURL,
	})
	if err != nil {
		return "", fmt.Errorf("extract content from %s: %w", urlStr, err)
	}
	if result == nil || strings.TrimSpace(result.ContentText) == "" {
		return "", fmt.Errorf("no text content extracted from %s", urlStr)
	}
	return strings.TrimSpace(result.ContentText), nil
}

// Excerpt extracts the first external article linked in post text and truncates it to max chars.
// Returns empty string without error if the post has no such link.
func (e *Extractor) Excerpt(ctx context.Context, postText string) (string, error) {
	link := FirstLink(postText)
	if link == "" {
		return "", nil
	}
	text, err := e.Extract(ctx, link)
	if err != nil {
		return "", err
	}
	log.Printf("[DEBUG] extracted %d chars from %s", len(text), link)
	return truncate(collapseSpaces(text), e.maxChars), nil
}

// FirstLink returns the first http(s) link in text not pointing to the feed itself
func FirstLink(text string) string {
	for _, m := range linkRe.FindAllString(text, -1) {
		m = strings.TrimRight(m, ".,;:!?)…")
		u, err := url.Parse(m)
		if err != nil || u.Host == "" {
			continue
		}
		if isInternal(u.Hostname()) {
			continue
		}
		return m
	}
	return ""
}

func isInternal(host string) bool {
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	for _, h := range internalHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate cuts s to at most maxChars runes on a word boundary, zero means no limit
func truncate(s string, maxChars int) string {
	if maxChars <= 0 || utf8.RuneCountInString(s) <= maxChars {
		return s
	}
	runes := []rune(s)[:maxChars]
	res := string(runes)
	if idx := strings.LastIndex(res, " "); idx > maxChars/2 {
		res = res[:idx]
	}
	return strings.TrimSpace(res) + "..."
}
