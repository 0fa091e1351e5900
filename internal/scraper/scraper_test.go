// ABOUTME: Tests for HTML text extraction and HTTP fetching with retries
// ABOUTME: StripHTML cases come from realistic news page markup
package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain paragraphs",
			in:   "<p>First story.</p><p>Second story.</p>",
			want: "First story.\nSecond story.",
		},
		{
			name: "script and style removed",
			in:   "<script>var x = 1;</script><style>.a{color:red}</style><p>Visible</p>",
			want: "Visible",
		},
		{
			name: "head removed",
			in:   "<html><head><title>Site</title><meta charset=\"utf-8\"></head><body><p>Body text</p></body></html>",
			want: "Body text",
		},
		{
			name: "comments removed",
			in:   "<!-- tracking pixel --><p>Story</p><!-- footer -->",
			want: "Story",
		},
		{
			name: "entities decoded",
			in:   "<p>Q&amp;A: &ldquo;yes&rdquo; &mdash; ok</p>",
			want: "Q&A: “yes” — ok",
		},
		{
			name: "br becomes newline",
			in:   "line one<br>line two<br/>line three",
			want: "line one\nline two\nline three",
		},
		{
			name: "inline tags become spaces",
			in:   "<p>The <a href=\"/x\">latest</a> <b>headlines</b></p>",
			want: "The latest headlines",
		},
		{
			name: "excess whitespace collapsed",
			in:   "<p>a</p>\n\n\n\n\n<p>b</p>    <p>c   d</p>",
			want: "a\n\nb\nc d",
		},
		{
			name: "multiline script",
			in:   "<script type=\"text/javascript\">\nif (a < b) {\n  doThing();\n}\n</script><p>after</p>",
			want: "after",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripHTML(tt.in); got != tt.want {
				t.Errorf("StripHTML() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestScrape_ReturnsPageText(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("<html><head><title>x</title></head><body><h1>Breaking</h1><p>Big news today.</p></body></html>"))
	}))
	defer srv.Close()

	s := NewHTTPScraper(0, time.Millisecond)
	text, err := s.Scrape(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Scrape() error = %v", err)
	}
	if !strings.Contains(text, "Breaking") || !strings.Contains(text, "Big news today.") {
		t.Errorf("text = %q, want page content", text)
	}
	if strings.Contains(text, "title") {
		t.Errorf("text = %q, head content leaked through", text)
	}
	if gotUA == "" {
		t.Error("request must carry a User-Agent")
	}
}

func TestScrape_RetriesOnServerError(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("<p>finally up</p>"))
	}))
	defer srv.Close()

	s := NewHTTPScraper(3, time.Millisecond)
	text, err := s.Scrape(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Scrape() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if text != "finally up" {
		t.Errorf("text = %q, want %q", text, "finally up")
	}
}

func TestScrape_GivesUpAfterRetries(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	s := NewHTTPScraper(1, time.Millisecond)
	_, err := s.Scrape(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("Scrape() expected an error for a persistent 404")
	}
	if calls != 2 {
		t.Errorf("calls = %d, want maxRetries+1 = 2", calls)
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error = %v, want the status surfaced", err)
	}
}
