package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"
)

const (
	// DefaultTavilyEndpoint is the Tavily Search API URL.
	DefaultTavilyEndpoint = "https://api.tavily.com/search"

	// DefaultMaxResults matches Tavily's own default.
	DefaultMaxResults = 5

	defaultTimeout = 30 * time.Second

	// maxPayload bounds how much of a response body is read.
	maxPayload = 4 << 20
)

// Tavily queries the Tavily Search API.
type Tavily struct {
	apiKey        string
	endpoint      string
	maxResults    int
	includeAnswer bool
	searchDepth   string
	client        *http.Client
	logger        *slog.Logger
}

var _ Searcher = (*Tavily)(nil)

// TavilyOption configures a Tavily client.
type TavilyOption func(*Tavily) error

// WithEndpoint overrides the API URL.
func WithEndpoint(endpoint string) TavilyOption {
	return func(t *Tavily) error {
		if endpoint == "" {
			return fmt.Errorf("tavily: endpoint cannot be empty")
		}
		t.endpoint = endpoint
		return nil
	}
}

// WithMaxResults sets how many results Tavily returns.
// Default is 5.
func WithMaxResults(n int) TavilyOption {
	return func(t *Tavily) error {
		if n < 1 || n > 20 {
			return fmt.Errorf("tavily: max results %d outside [1, 20]", n)
		}
		t.maxResults = n
		return nil
	}
}

// WithIncludeAnswer asks Tavily to synthesize a direct answer.
// Default is true.
func WithIncludeAnswer(include bool) TavilyOption {
	return func(t *Tavily) error {
		t.includeAnswer = include
		return nil
	}
}

// WithSearchDepth selects "basic" or "advanced" search.
// Default is "basic".
func WithSearchDepth(depth string) TavilyOption {
	return func(t *Tavily) error {
		if depth != "basic" && depth != "advanced" {
			return fmt.Errorf("tavily: unknown search depth %q", depth)
		}
		t.searchDepth = depth
		return nil
	}
}

// WithHTTPClient sets the HTTP client. The client's timeout bounds each search.
// Default is a client with a 30 second timeout.
func WithHTTPClient(client *http.Client) TavilyOption {
	return func(t *Tavily) error {
		if client == nil {
			return fmt.Errorf("tavily: http client cannot be nil")
		}
		t.client = client
		return nil
	}
}

// WithTavilyLogger sets a custom logger.
// Default is slog.Default().
func WithTavilyLogger(logger *slog.Logger) TavilyOption {
	return func(t *Tavily) error {
		if logger == nil {
			logger = slog.Default()
		}
		t.logger = logger
		return nil
	}
}

// NewTavily creates a Tavily client authenticated with apiKey.
func NewTavily(apiKey string, opts ...TavilyOption) (*Tavily, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	t := &Tavily{
		apiKey:        apiKey,
		endpoint:      DefaultTavilyEndpoint,
		maxResults:    DefaultMaxResults,
		includeAnswer: true,
		searchDepth:   "basic",
		client:        &http.Client{Timeout: defaultTimeout},
		logger:        slog.Default().With("component", "tavily"),
	}

	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, err
		}
	}

	return t, nil
}

type tavilyRequest struct {
	Query         string `json:"query"`
	MaxResults    int    `json:"max_results"`
	IncludeAnswer bool   `json:"include_answer"`
	SearchDepth   string `json:"search_depth"`
}

// Search posts the query and resolves the response payload.
func (t *Tavily) Search(ctx context.Context, query string) (Result, error) {
	body, err := json.Marshal(tavilyRequest{
		Query:         query,
		MaxResults:    t.maxResults,
		IncludeAnswer: t.includeAnswer,
		SearchDepth:   t.searchDepth,
	})
	if err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.apiKey)

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		t.logger.Error("tavily request failed", "err", err)
		return Result{}, fmt.Errorf("tavily: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxPayload))
	if err != nil {
		return Result{}, fmt.Errorf("tavily: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		t.logger.Error("tavily returned error status", "status", resp.StatusCode)
		return Result{}, fmt.Errorf("%w: %d %s", ErrUpstreamStatus, resp.StatusCode, snippet(payload))
	}

	result := Parse(payload)
	t.logger.Debug("tavily search complete", "kind", result.Kind, "elapsed", time.Since(start))
	return result, nil
}

// snippet shortens an error body for inclusion in an error message.
func snippet(b []byte) string {
	const max = 200
	s := string(bytes.TrimSpace(b))
	if len(s) > max {
		n := max
		for n > 0 && !utf8.RuneStart(s[n]) {
			n--
		}
		return s[:n] + "..."
	}
	return s
}
