// ABOUTME: Astra DB Data API client implementing the VectorStore interface
// ABOUTME: Minimal JSON-over-HTTP client: createCollection, insertOne, vector find
package astra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harper/newschat/internal/models"
)

const apiPath = "/api/json/v1"

// Config configures the Astra Data API client
type Config struct {
	Endpoint   string
	Token      string
	Namespace  string
	Collection string
	Dimension  int
	Metric     string
	Timeout    time.Duration
}

// Client is a minimal REST client for the Astra DB Data API
type Client struct {
	endpoint   string
	token      string
	namespace  string
	collection string
	dimension  int
	metric     string
	http       *http.Client
}

// New creates an Astra Data API client
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	metric := cfg.Metric
	if metric == "" {
		metric = "dot_product"
	}
	return &Client{
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		token:      cfg.Token,
		namespace:  cfg.Namespace,
		collection: cfg.Collection,
		dimension:  cfg.Dimension,
		metric:     metric,
		http:       &http.Client{Timeout: timeout},
	}
}

// apiError is one entry in the Data API errors array
type apiError struct {
	Message   string `json:"message"`
	ErrorCode string `json:"errorCode"`
}

// apiResponse is the common Data API response envelope
type apiResponse struct {
	Status json.RawMessage `json:"status"`
	Data   struct {
		Documents []storedDocument `json:"documents"`
	} `json:"data"`
	Errors []apiError `json:"errors"`
}

// storedDocument is the persisted chunk shape
type storedDocument struct {
	ID         string    `json:"_id,omitempty"`
	Vector     []float64 `json:"$vector,omitempty"`
	Text       string    `json:"text"`
	Similarity float64   `json:"$similarity,omitempty"`
}

// EnsureCollection creates the vector collection if missing. An
// "already exists" response from the API is treated as success.
func (c *Client) EnsureCollection(ctx context.Context) error {
	cmd := map[string]any{
		"createCollection": map[string]any{
			"name": c.collection,
			"options": map[string]any{
				"vector": map[string]any{
					"dimension": c.dimension,
					"metric":    c.metric,
				},
			},
		},
	}

	resp, err := c.post(ctx, c.namespaceURL(), cmd)
	if err != nil {
		return fmt.Errorf("creating collection %q: %w", c.collection, err)
	}
	if apiErr := firstError(resp); apiErr != nil {
		if isAlreadyExists(*apiErr) {
			return nil
		}
		return fmt.Errorf("creating collection %q: %s (%s)", c.collection, apiErr.Message, apiErr.ErrorCode)
	}
	return nil
}

// Insert writes one chunk as a new document with a generated _id
func (c *Client) Insert(ctx context.Context, chunk models.DocumentChunk) error {
	cmd := map[string]any{
		"insertOne": map[string]any{
			"document": storedDocument{
				ID:     uuid.New().String(),
				Vector: chunk.Vector,
				Text:   chunk.Text,
			},
		},
	}

	resp, err := c.post(ctx, c.collectionURL(), cmd)
	if err != nil {
		return fmt.Errorf("inserting chunk: %w", err)
	}
	if apiErr := firstError(resp); apiErr != nil {
		return fmt.Errorf("inserting chunk: %s (%s)", apiErr.Message, apiErr.ErrorCode)
	}
	return nil
}

// Search runs a vector similarity find, ranked best match first
func (c *Client) Search(ctx context.Context, vector []float64, topK int) ([]models.SearchResult, error) {
	cmd := map[string]any{
		"find": map[string]any{
			"sort":       map[string]any{"$vector": vector},
			"projection": map[string]any{"text": 1},
			"options": map[string]any{
				"limit":             topK,
				"includeSimilarity": true,
			},
		},
	}

	resp, err := c.post(ctx, c.collectionURL(), cmd)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	if apiErr := firstError(resp); apiErr != nil {
		return nil, fmt.Errorf("vector search: %s (%s)", apiErr.Message, apiErr.ErrorCode)
	}

	results := make([]models.SearchResult, 0, len(resp.Data.Documents))
	for _, doc := range resp.Data.Documents {
		results = append(results, models.SearchResult{
			Text:  doc.Text,
			Score: doc.Similarity,
		})
	}
	return results, nil
}

func (c *Client) namespaceURL() string {
	return fmt.Sprintf("%s%s/%s", c.endpoint, apiPath, c.namespace)
}

func (c *Client) collectionURL() string {
	return fmt.Sprintf("%s%s/%s/%s", c.endpoint, apiPath, c.namespace, c.collection)
}

func (c *Client) post(ctx context.Context, url string, cmd any) (*apiResponse, error) {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return nil, fmt.Errorf("marshaling command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Token", c.token)

	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if httpResp.StatusCode >= 300 {
		return nil, fmt.Errorf("data API returned %s: %s", httpResp.Status, truncateBody(body))
	}

	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &resp, nil
}

func firstError(resp *apiResponse) *apiError {
	if len(resp.Errors) == 0 {
		return nil
	}
	return &resp.Errors[0]
}

func isAlreadyExists(e apiError) bool {
	return strings.Contains(strings.ToUpper(e.ErrorCode), "EXIST") ||
		strings.Contains(strings.ToLower(e.Message), "already exist")
}

func truncateBody(b []byte) string {
	const max = 200
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
