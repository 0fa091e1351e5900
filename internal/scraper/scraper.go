// ABOUTME: Scraper fetches a news page and returns its visible text content
// ABOUTME: HTML is reduced to plain text with pre-compiled tag-stripping regexes
package scraper

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/harper/newschat/internal/util"
)

// Scraper fetches a URL and returns the text content of the page body.
// Failures are per-URL and non-fatal to an ingestion batch.
type Scraper interface {
	Scrape(ctx context.Context, url string) (string, error)
}

// maxBodyBytes bounds how much of a page is read; news front pages are
// well under this.
const maxBodyBytes = 8 << 20

// HTTPScraper implements Scraper over plain HTTP GET
type HTTPScraper struct {
	client     *http.Client
	userAgent  string
	maxRetries int
	retryDelay time.Duration
}

// NewHTTPScraper creates a scraper with sane timeouts and retry behavior
func NewHTTPScraper(maxRetries int, retryDelay time.Duration) *HTTPScraper {
	return &HTTPScraper{
		client:     &http.Client{Timeout: 30 * time.Second},
		userAgent:  "newschat/1.0 (+https://github.com/harper/newschat)",
		maxRetries: maxRetries,
		retryDelay: retryDelay,
	}
}

// Scrape fetches the URL and returns its visible text
func (s *HTTPScraper) Scrape(ctx context.Context, url string) (string, error) {
	var content string

	err := util.Do(ctx, s.maxRetries, s.retryDelay, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("User-Agent", s.userAgent)
		req.Header.Set("Accept", "text/html")

		resp, err := s.client.Do(req)
		if err != nil {
			return fmt.Errorf("fetching %s: %w", url, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("fetching %s: status %s", url, resp.Status)
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return fmt.Errorf("reading %s: %w", url, err)
		}

		content = StripHTML(string(body))
		return nil
	})
	if err != nil {
		return "", err
	}
	return content, nil
}

// Pre-compiled regular expressions for HTML text extraction
var (
	scriptTag     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag      = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptTag   = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	headTag       = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	svgTag        = regexp.MustCompile(`(?is)<svg[^>]*>.*?</svg>`)
	htmlComments  = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockElements = regexp.MustCompile(`(?i)</(p|div|br|hr|h[1-6]|li|tr|blockquote|pre|table|section|article)>`)
	brTags        = regexp.MustCompile(`(?i)<br\s*/?>`)
	allTags       = regexp.MustCompile(`<[^>]+>`)
	multiSpaces   = regexp.MustCompile(`[ \t]+`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
)

// StripHTML converts an HTML document to the plain text a reader would see.
// Invisible elements (scripts, styles, head, comments) are removed and block
// element boundaries become newlines.
func StripHTML(raw string) string {
	text := htmlComments.ReplaceAllString(raw, "")
	text = headTag.ReplaceAllString(text, "")
	text = scriptTag.ReplaceAllString(text, "")
	text = styleTag.ReplaceAllString(text, "")
	text = noscriptTag.ReplaceAllString(text, "")
	text = svgTag.ReplaceAllString(text, "")

	text = brTags.ReplaceAllString(text, "\n")
	text = blockElements.ReplaceAllString(text, "\n")
	text = allTags.ReplaceAllString(text, " ")

	text = html.UnescapeString(text)

	text = multiSpaces.ReplaceAllString(text, " ")
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	text = strings.Join(lines, "\n")
	text = multiNewlines.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}
