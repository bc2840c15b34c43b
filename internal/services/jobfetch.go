package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"resume-optimizer/internal/models"
)

// JobFetcherService resolves a job posting URL into its title, company and
// description. It parses generic HTML/OpenGraph markup; it does not speak any
// job board's private protocol.
type JobFetcherService interface {
	FetchJob(ctx context.Context, url string) (*models.JobDetails, error)
}

type httpJobFetcher struct {
	client *http.Client
}

func NewJobFetcherService() JobFetcherService {
	return &httpJobFetcher{
		client: &http.Client{Timeout: 20 * time.Second},
	}
}

func (f *httpJobFetcher) FetchJob(ctx context.Context, url string) (*models.JobDetails, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid job URL: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; resume-optimizer/1.0)")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch job posting: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		return nil, ErrJobNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("job posting fetch returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse job posting page: %w", err)
	}

	details := parseJobDocument(doc, url)
	if details.Title == "" && details.Description == "" {
		return nil, ErrJobNotFound
	}

	return details, nil
}

// parseJobDocument pulls title/company/description out of common page markup:
// OpenGraph tags first, visible headings and main content as fallback.
func parseJobDocument(doc *goquery.Document, url string) *models.JobDetails {
	details := &models.JobDetails{URL: url}

	details.Title = firstNonEmpty(
		metaContent(doc, `meta[property="og:title"]`),
		strings.TrimSpace(doc.Find("h1").First().Text()),
		strings.TrimSpace(doc.Find("title").First().Text()),
	)

	details.Company = firstNonEmpty(
		metaContent(doc, `meta[property="og:site_name"]`),
		strings.TrimSpace(doc.Find(`[class*="company"]`).First().Text()),
	)

	description := firstNonEmpty(
		strings.TrimSpace(doc.Find(`[class*="description"]`).First().Text()),
		strings.TrimSpace(doc.Find("main").First().Text()),
		strings.TrimSpace(doc.Find("article").First().Text()),
		metaContent(doc, `meta[property="og:description"]`),
		metaContent(doc, `meta[name="description"]`),
	)
	details.Description = CleanText(description)

	return details
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
