// Package enrich fetches supplementary descriptive text for an entry from
// its external store listing pages. The result feeds document composition
// only; nothing in the retrieval path calls this package directly.
package enrich

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/bayanapps/dalil/internal/domain"
)

// Fetcher is the content enrichment boundary. Implementations return
// best-effort text: a partial result from some sources is a success, an
// empty string with a nil error means nothing usable was found.
type Fetcher interface {
	Fetch(ctx context.Context, e *domain.Entry) (string, error)
}

// HTTPEnricher crawls an entry's store listing URLs and extracts visible
// text. Each source gets its own timeout; one source failing never fails
// the whole fetch.
type HTTPEnricher struct {
	client        *http.Client
	sourceTimeout time.Duration
	maxBodyBytes  int64
	logger        *zap.Logger
}

// NewHTTPEnricher creates an enricher. maxBodyKB bounds how much of each
// listing page is read.
func NewHTTPEnricher(sourceTimeout time.Duration, maxBodyKB int, logger *zap.Logger) *HTTPEnricher {
	return &HTTPEnricher{
		client:        &http.Client{Timeout: sourceTimeout},
		sourceTimeout: sourceTimeout,
		maxBodyBytes:  int64(maxBodyKB) * 1024,
		logger:        logger,
	}
}

// Fetch crawls every listing URL and concatenates their extracted text.
func (h *HTTPEnricher) Fetch(ctx context.Context, e *domain.Entry) (string, error) {
	var parts []string
	var failures int

	for _, l := range e.Listings {
		if l.URL == "" {
			continue
		}
		text, err := h.fetchOne(ctx, l.URL)
		if err != nil {
			failures++
			h.logger.Warn("Enrichment source failed",
				zap.String("entry_id", e.ID),
				zap.String("store", l.Store),
				zap.Error(err),
			)
			continue
		}
		if text != "" {
			parts = append(parts, text)
		}
	}

	if len(parts) == 0 && failures > 0 {
		return "", fmt.Errorf("all %d enrichment sources failed: %w", failures, domain.ErrEnrichmentFailed)
	}
	return strings.Join(parts, "\n"), nil
}

func (h *HTTPEnricher) fetchOne(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, h.sourceTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	body := io.LimitReader(resp.Body, h.maxBodyBytes)
	return ExtractText(body)
}

// ExtractText pulls the visible text out of an HTML document: script, style
// and head content are skipped, runs of whitespace collapse to one space.
func ExtractText(r io.Reader) (string, error) {
	z := html.NewTokenizer(r)
	var b strings.Builder
	skipDepth := 0

	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return strings.TrimSpace(b.String()), nil
			}
			// Truncated input from the body limit still yields the text
			// collected so far.
			if b.Len() > 0 {
				return strings.TrimSpace(b.String()), nil
			}
			return "", fmt.Errorf("parse html: %w", z.Err())
		case html.StartTagToken:
			name, _ := z.TagName()
			if skippedTag(string(name)) {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if skippedTag(string(name)) && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			text := strings.TrimSpace(string(z.Text()))
			if text == "" {
				continue
			}
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strings.Join(strings.Fields(text), " "))
		}
	}
}

func skippedTag(name string) bool {
	switch name {
	case "script", "style", "noscript", "head", "title":
		return true
	}
	return false
}
