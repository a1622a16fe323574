package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// TavilySearch is a tool that uses the Tavily API to search the web.
type TavilySearch struct {
	APIKey      string
	BaseURL     string
	MaxResults  int
	SearchDepth string

	client *http.Client
}

type TavilyOption func(*TavilySearch)

// WithTavilyBaseURL sets the base URL for the Tavily API.
func WithTavilyBaseURL(baseURL string) TavilyOption {
	return func(t *TavilySearch) {
		t.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithTavilyMaxResults sets the number of results to return (1-20).
func WithTavilyMaxResults(n int) TavilyOption {
	return func(t *TavilySearch) {
		if n < 1 {
			n = 1
		}
		if n > 20 {
			n = 20
		}
		t.MaxResults = n
	}
}

// WithTavilySearchDepth sets the search depth, "basic" or "advanced".
func WithTavilySearchDepth(depth string) TavilyOption {
	return func(t *TavilySearch) {
		if depth == "basic" || depth == "advanced" {
			t.SearchDepth = depth
		}
	}
}

// WithTavilyHTTPClient replaces the HTTP client.
func WithTavilyHTTPClient(client *http.Client) TavilyOption {
	return func(t *TavilySearch) {
		if client != nil {
			t.client = client
		}
	}
}

// NewTavilySearch creates a new TavilySearch tool.
// If apiKey is empty, it tries to read from TAVILY_API_KEY environment variable.
func NewTavilySearch(apiKey string, opts ...TavilyOption) (*TavilySearch, error) {
	if apiKey == "" {
		apiKey = os.Getenv("TAVILY_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("TAVILY_API_KEY not set")
	}

	t := &TavilySearch{
		APIKey:      apiKey,
		BaseURL:     "https://api.tavily.com",
		MaxResults:  5,
		SearchDepth: "basic",
		client:      &http.Client{},
	}

	for _, opt := range opts {
		opt(t)
	}

	return t, nil
}

// Name returns the name of the tool.
func (t *TavilySearch) Name() string {
	return "Tavily_Search"
}

// Description returns the description of the tool.
func (t *TavilySearch) Description() string {
	return "A search engine optimized for LLM agents. " +
		"Useful for finding current information and documentation pages. " +
		"Input should be a search query."
}

// TavilyResult is one search hit.
type TavilyResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

type tavilyResponse struct {
	Results []TavilyResult `json:"results"`
	Answer  string         `json:"answer"`
}

// Search runs a query and returns the raw results.
func (t *TavilySearch) Search(ctx context.Context, query string) ([]TavilyResult, error) {
	reqBody := map[string]any{
		"query":        query,
		"api_key":      t.APIKey,
		"search_depth": t.SearchDepth,
		"max_results":  t.MaxResults,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", t.BaseURL+"/search", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily api returned status: %d", resp.StatusCode)
	}

	var result tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return result.Results, nil
}

// Call executes the search and formats results as text, one hit per block.
func (t *TavilySearch) Call(ctx context.Context, input string) (string, error) {
	results, err := t.Search(ctx, input)
	if err != nil {
		return "", err
	}

	if len(results) == 0 {
		return "No results found.", nil
	}

	var sb strings.Builder
	for i, r := range results {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "Title: %s\nURL: %s\n%s", r.Title, r.URL, r.Content)
	}
	return sb.String(), nil
}
