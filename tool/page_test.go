package tool

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<html>
<head><title>Docs</title><style>body { color: red; }</style></head>
<body>
<nav>Home | About</nav>
<main>
<h1>Getting Started</h1>
<p>Install the package first.</p>
<script>console.log("hi")</script>
</main>
<footer>Copyright</footer>
</body>
</html>`

func TestPageFetcher_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(samplePage))
	}))
	defer server.Close()

	text, err := NewPageFetcher(nil).Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Contains(t, text, "Getting Started")
	assert.Contains(t, text, "Install the package first.")
	assert.NotContains(t, text, "console.log")
	assert.NotContains(t, text, "color: red")
	assert.NotContains(t, text, "Copyright")
}

func TestPageFetcher_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewPageFetcher(nil).Fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestExtractText_NoMainFallsBackToBody(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<html><body><p>only body text</p></body></html>`))
	require.NoError(t, err)

	assert.Equal(t, "only body text", ExtractText(doc))
}
