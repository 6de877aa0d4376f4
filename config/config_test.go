package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/intellicourse/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, BackendBadger, cfg.Index.Backend)
	assert.Equal(t, 4, cfg.Index.TopK)
	assert.Equal(t, ProviderDuckDuckGo, cfg.WebSearch.Provider)
	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, ai.DefaultCompletionModel, cfg.AI.CompletionModel)
	assert.Zero(t, cfg.AI.Temperature)
}

func TestParse(t *testing.T) {
	data := []byte(`
log_level: debug
ai:
  completion_model: gpt-4o-mini
  completion_host: https://api.openai.com
  temperature: 0.1
index:
  backend: pinecone
  top_k: 6
  pinecone:
    host: courses-abc.svc.pinecone.io
websearch:
  provider: tavily
  max_results: 3
  timeout: 5s
server:
  addr: 127.0.0.1:9000
`)
	cfg, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "gpt-4o-mini", cfg.AI.CompletionModel)
	assert.Equal(t, 0.1, cfg.AI.Temperature)
	assert.Equal(t, BackendPinecone, cfg.Index.Backend)
	assert.Equal(t, 6, cfg.Index.TopK)
	assert.Equal(t, "courses-abc.svc.pinecone.io", cfg.Index.Pinecone.Host)
	assert.Equal(t, ProviderTavily, cfg.WebSearch.Provider)
	assert.Equal(t, 5*time.Second, cfg.WebSearch.Timeout)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)

	// untouched fields keep their defaults
	assert.Equal(t, ai.DefaultEmbeddingModel, cfg.AI.EmbeddingModel)
	assert.Equal(t, "courses", cfg.Index.Pinecone.Namespace)
	assert.Equal(t, 1000, cfg.Index.ChunkSize)

	aiConfig := cfg.AIConfig()
	require.NoError(t, aiConfig.Validate())
	assert.Equal(t, "https://api.openai.com/v1", aiConfig.CompletionHost)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown key", "colour: blue\n"},
		{"bad log level", "log_level: loud\n"},
		{"bad backend", "index:\n  backend: sqlite\n"},
		{"bad top k", "index:\n  top_k: 0\n"},
		{"bad chunking", "index:\n  chunk_size: 100\n  chunk_overlap: 100\n"},
		{"bad provider", "websearch:\n  provider: bing\n"},
		{"bad temperature", "ai:\n  temperature: 3\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}

	_, err := Parse([]byte("websearch:\n  provider: bing\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := filepath.Join(t.TempDir(), "intellicourse.yaml")
	require.NoError(t, os.WriteFile(path, []byte("index:\n  path: /var/lib/intellicourse\n"), 0o600))

	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/intellicourse", cfg.Index.Path)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
