package service

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// maxTitleBody caps how much of a destination page is read for its title.
const maxTitleBody = 256 << 10

// TitleFetcher returns a display title for a destination URL.
type TitleFetcher interface {
	// Fetch never fails: on any problem it falls back to the URL itself.
	Fetch(ctx context.Context, rawURL string) string
}

// HTTPTitleFetcher fetches the destination page and extracts its <title>.
// One attempt, bounded by the client timeout, no retry.
type HTTPTitleFetcher struct {
	client *http.Client
	logger *zap.Logger
}

func NewTitleFetcher(timeout time.Duration, logger *zap.Logger) *HTTPTitleFetcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPTitleFetcher{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

func (f *HTTPTitleFetcher) Fetch(ctx context.Context, rawURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return rawURL
	}

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Debug("title fetch failed", zap.String("url", rawURL), zap.Error(err))
		return rawURL
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return rawURL
	}

	title := extractTitle(io.LimitReader(resp.Body, maxTitleBody))
	if title == "" {
		return rawURL
	}
	return title
}

func extractTitle(r io.Reader) string {
	tokenizer := html.NewTokenizer(r)
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			token := tokenizer.Token()
			if token.Data != "title" {
				continue
			}
			if tokenizer.Next() == html.TextToken {
				return strings.TrimSpace(tokenizer.Token().Data)
			}
			return ""
		}
	}
}
