package firecrawl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driven"
	"github.com/quarry-labs/quarry-cli/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.ContentSource = (*Source)(nil)

const (
	defaultBaseURL      = "https://api.firecrawl.dev"
	defaultTimeout      = 60 * time.Second
	defaultCrawlTimeout = 5 * time.Minute
	defaultCrawlLimit   = 50
	defaultPollInterval = 2 * time.Second
)

// requestedFormats is sent with every scrape so the preferred text
// representations are all available for selection.
var requestedFormats = []string{"markdown", "html", "rawHtml"}

// Config holds Firecrawl source settings.
type Config struct {
	// APIKey authenticates against the Firecrawl API. Required.
	APIKey string

	// BaseURL overrides the API endpoint (e.g. for testing).
	BaseURL string

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// CrawlTimeout bounds a whole crawl job including polling.
	CrawlTimeout time.Duration

	// CrawlLimit caps the number of pages discovered by a crawl.
	CrawlLimit int

	// PollInterval throttles crawl status polling.
	PollInterval time.Duration
}

// Source fetches web content through the Firecrawl API.
type Source struct {
	cfg    Config
	client *http.Client
	poller *rate.Limiter
}

// New creates a new Firecrawl content source.
func New(cfg Config) (*Source, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: firecrawl api key missing", domain.ErrConfiguration)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.CrawlTimeout <= 0 {
		cfg.CrawlTimeout = defaultCrawlTimeout
	}
	if cfg.CrawlLimit <= 0 {
		cfg.CrawlLimit = defaultCrawlLimit
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}

	return &Source{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		poller: rate.NewLimiter(rate.Every(cfg.PollInterval), 1),
	}, nil
}

// Fetch retrieves content from url in the given mode.
func (s *Source) Fetch(ctx context.Context, url string, mode domain.FetchMode) ([]domain.Document, error) {
	switch mode {
	case domain.FetchSinglePage:
		return s.scrape(ctx, url)
	case domain.FetchFullSite:
		return s.crawl(ctx, url)
	default:
		return nil, fmt.Errorf("%w: fetch mode %q", domain.ErrInvalidInput, mode)
	}
}

// Close releases resources.
func (s *Source) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

// page is one scraped page as returned by the API.
type page struct {
	Markdown string         `json:"markdown"`
	HTML     string         `json:"html"`
	RawHTML  string         `json:"rawHtml"`
	Metadata map[string]any `json:"metadata"`
}

// scrapeResponse is the synchronous scrape envelope.
type scrapeResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Data    page   `json:"data"`
}

// crawlStartResponse is returned when a crawl job is accepted.
type crawlStartResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	ID      string `json:"id"`
}

// crawlStatusResponse is one page of crawl job status.
type crawlStatusResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
	Next   string `json:"next"`
	Data   []page `json:"data"`
}

// scrape fetches a single page synchronously.
func (s *Source) scrape(ctx context.Context, url string) ([]domain.Document, error) {
	body := map[string]any{
		"url":     url,
		"formats": requestedFormats,
	}

	var resp scrapeResponse
	if err := s.post(ctx, "/v1/scrape", body, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("%w: scrape %s: %s", domain.ErrContentUnavailable, url, resp.Error)
	}

	doc, ok := toDocument(resp.Data, url)
	if !ok {
		logger.Debug("Page %s has no usable content", url)
		return nil, nil
	}
	return []domain.Document{doc}, nil
}

// crawl starts an asynchronous crawl job and polls it to completion.
func (s *Source) crawl(ctx context.Context, url string) ([]domain.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.CrawlTimeout)
	defer cancel()

	body := map[string]any{
		"url":   url,
		"limit": s.cfg.CrawlLimit,
		"scrapeOptions": map[string]any{
			"formats": requestedFormats,
		},
	}

	var start crawlStartResponse
	if err := s.post(ctx, "/v1/crawl", body, &start); err != nil {
		return nil, err
	}
	if !start.Success || start.ID == "" {
		return nil, fmt.Errorf("%w: crawl %s: %s", domain.ErrContentUnavailable, url, start.Error)
	}
	logger.Debug("Crawl job %s started for %s", start.ID, url)

	statusURL := s.cfg.BaseURL + "/v1/crawl/" + start.ID
	var pages []page
	for {
		if err := s.poller.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: crawl %s: %v", domain.ErrContentUnavailable, url, err)
		}

		var status crawlStatusResponse
		if err := s.get(ctx, statusURL, &status); err != nil {
			return nil, err
		}

		switch status.Status {
		case "completed":
			pages = append(pages, status.Data...)
			// A completed job may paginate its results.
			for status.Next != "" {
				next := status.Next
				status = crawlStatusResponse{}
				if err := s.get(ctx, next, &status); err != nil {
					return nil, err
				}
				pages = append(pages, status.Data...)
			}
			return s.collect(pages, url), nil

		case "failed", "cancelled":
			return nil, fmt.Errorf("%w: crawl %s: job %s", domain.ErrContentUnavailable, url, status.Status)

		default:
			logger.Debug("Crawl job %s: %s (%d pages so far)", start.ID, status.Status, len(status.Data))
		}
	}
}

// collect converts crawled pages to documents, skipping pages without
// usable content.
func (s *Source) collect(pages []page, fallbackURL string) []domain.Document {
	var docs []domain.Document
	for _, p := range pages {
		if doc, ok := toDocument(p, fallbackURL); ok {
			docs = append(docs, doc)
		}
	}
	return docs
}

// toDocument converts one page to a document. Text representation
// preference: markdown, then stripped HTML, then stripped raw HTML;
// the first non-empty wins. Pages with no usable text are skipped.
func toDocument(p page, fallbackURL string) (domain.Document, bool) {
	text := strings.TrimSpace(p.Markdown)
	title := metaString(p.Metadata, "title")

	if text == "" && p.HTML != "" {
		if title == "" {
			title = extractTitle(p.HTML)
		}
		text = stripHTML(p.HTML)
	}
	if text == "" && p.RawHTML != "" {
		if title == "" {
			title = extractTitle(p.RawHTML)
		}
		text = stripHTML(p.RawHTML)
	}
	if text == "" {
		return domain.Document{}, false
	}

	uri := metaString(p.Metadata, "sourceURL")
	if uri == "" {
		uri = fallbackURL
	}

	return domain.Document{
		URI:      uri,
		Title:    title,
		Text:     text,
		Metadata: p.Metadata,
	}, true
}

// metaString reads a string value from page metadata.
func metaString(meta map[string]any, key string) string {
	if meta == nil {
		return ""
	}
	s, _ := meta[key].(string)
	return strings.TrimSpace(s)
}

// post sends a JSON request and decodes the JSON response.
func (s *Source) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return s.do(req, out)
}

// get sends a GET request and decodes the JSON response.
func (s *Source) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	return s.do(req, out)
}

func (s *Source) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrContentUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", domain.ErrContentUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s returned %d: %s",
			domain.ErrContentUnavailable, req.URL.Path, resp.StatusCode, firstLine(data))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", domain.ErrContentUnavailable, err)
	}
	return nil
}

// firstLine bounds an error body for log output.
func firstLine(data []byte) string {
	s := strings.TrimSpace(string(data))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
