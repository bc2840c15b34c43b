package services

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestParseJobDocument_OpenGraphTags(t *testing.T) {
	html := `<html><head>
		<meta property="og:title" content="Senior Go Engineer">
		<meta property="og:site_name" content="Acme Corp">
		<meta property="og:description" content="Build   distributed systems.">
	</head><body></body></html>`

	details := parseJobDocument(parseHTML(t, html), "https://example.com/job/1")

	assert.Equal(t, "Senior Go Engineer", details.Title)
	assert.Equal(t, "Acme Corp", details.Company)
	assert.Equal(t, "Build distributed systems.", details.Description)
	assert.Equal(t, "https://example.com/job/1", details.URL)
}

func TestParseJobDocument_VisibleMarkupFallback(t *testing.T) {
	html := `<html><head><title>Jobs at Acme</title></head><body>
		<h1>Backend Developer</h1>
		<div class="company-name">Acme Corp</div>
		<div class="job-description">Write Go services.
			Work with   Postgres.</div>
	</body></html>`

	details := parseJobDocument(parseHTML(t, html), "https://example.com/job/2")

	assert.Equal(t, "Backend Developer", details.Title)
	assert.Equal(t, "Acme Corp", details.Company)
	assert.Equal(t, "Write Go services.\nWork with Postgres.", details.Description)
}

func TestParseJobDocument_TitleTagFallback(t *testing.T) {
	html := `<html><head><title>Platform Engineer - Acme</title></head>
		<body><main>Some description text.</main></body></html>`

	details := parseJobDocument(parseHTML(t, html), "https://example.com/job/3")

	assert.Equal(t, "Platform Engineer - Acme", details.Title)
	assert.Equal(t, "Some description text.", details.Description)
}

func TestParseJobDocument_EmptyPage(t *testing.T) {
	details := parseJobDocument(parseHTML(t, "<html><body></body></html>"), "https://example.com/x")

	assert.Empty(t, details.Title)
	assert.Empty(t, details.Description)
}
