package tool

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PageFetcher downloads a web page and extracts its readable text, for
// feeding documentation pages into a RAG pipeline.
type PageFetcher struct {
	client *http.Client
}

// NewPageFetcher creates a fetcher with the given HTTP client. A nil client
// uses http.DefaultClient.
func NewPageFetcher(client *http.Client) *PageFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &PageFetcher{client: client}
}

// Fetch downloads url and returns its visible text with scripts, styles and
// navigation chrome stripped.
func (f *PageFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s returned status: %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", url, err)
	}

	return ExtractText(doc), nil
}

// ExtractText returns the visible text of a parsed page.
func ExtractText(doc *goquery.Document) string {
	doc.Find("script, style, nav, header, footer, noscript").Remove()

	root := doc.Find("main")
	if root.Length() == 0 {
		root = doc.Find("body")
	}

	var lines []string
	for _, line := range strings.Split(root.Text(), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return strings.Join(lines, "\n")
}
