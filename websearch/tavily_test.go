package websearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTavily_Validation(t *testing.T) {
	_, err := NewTavily("")
	assert.ErrorIs(t, err, ErrAPIKeyRequired)

	_, err = NewTavily("key", WithMaxResults(0))
	assert.Error(t, err)

	_, err = NewTavily("key", WithSearchDepth("deep"))
	assert.Error(t, err)

	_, err = NewTavily("key", WithHTTPClient(nil))
	assert.Error(t, err)
}

func TestTavily_Search(t *testing.T) {
	var got tavilyRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer tvly-test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"query":"Who is Ada Lovelace?","answer":"Ada Lovelace was a 19th-century mathematician.","results":[{"content":"long text"}]}`))
	}))
	defer server.Close()

	tavily, err := NewTavily("tvly-test", WithEndpoint(server.URL), WithMaxResults(3))
	require.NoError(t, err)

	result, err := tavily.Search(context.Background(), "Who is Ada Lovelace?")
	require.NoError(t, err)

	assert.Equal(t, "Who is Ada Lovelace?", got.Query)
	assert.Equal(t, 3, got.MaxResults)
	assert.True(t, got.IncludeAnswer)
	assert.Equal(t, "basic", got.SearchDepth)

	assert.Equal(t, DirectAnswer, result.Kind)
	assert.Equal(t, "Ada Lovelace was a 19th-century mathematician.", result.Answer)
	assert.Contains(t, result.Context, "long text")
}

func TestTavily_ResultListFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"answer":null,"results":[{"title":"Ada","content":"First programmer."}]}`))
	}))
	defer server.Close()

	tavily, err := NewTavily("k", WithEndpoint(server.URL), WithIncludeAnswer(false))
	require.NoError(t, err)

	result, err := tavily.Search(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, ResultList, result.Kind)
	assert.Equal(t, "First programmer.", result.Answer)
}

func TestTavily_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":{"error":"Unauthorized: missing or invalid API key."}}`))
	}))
	defer server.Close()

	tavily, err := NewTavily("bad", WithEndpoint(server.URL))
	require.NoError(t, err)

	_, err = tavily.Search(context.Background(), "q")
	require.ErrorIs(t, err, ErrUpstreamStatus)
	assert.Contains(t, err.Error(), "401")
}

func TestTavily_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	tavily, err := NewTavily("k",
		WithEndpoint(server.URL),
		WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}),
	)
	require.NoError(t, err)

	_, err = tavily.Search(context.Background(), "q")
	assert.Error(t, err)
}

func TestSnippet(t *testing.T) {
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'a'
	}
	assert.Len(t, snippet(long), 203)
	assert.Equal(t, "short", snippet([]byte("  short \n")))
}

func TestSnippet_RuneBoundary(t *testing.T) {
	// 199 ASCII bytes put the two-byte "é" across the cut at byte 200.
	body := strings.Repeat("a", 199) + strings.Repeat("é", 10)

	got := snippet([]byte(body))
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("a", 199)+"...", got)

	// a cut that already lands on a rune start keeps all 200 bytes
	body = strings.Repeat("a", 200) + "日本語"
	assert.Equal(t, strings.Repeat("a", 200)+"...", snippet([]byte(body)))
}
