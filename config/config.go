// Package config loads the intellicourse YAML configuration file.
//
// Every field has a default, so an empty or absent file yields a working
// configuration that talks to Groq for completions, a local Ollama server
// for embeddings, a badger index under ./intellicourse.db and DuckDuckGo for
// web search. Command-line flags are applied on top of the loaded file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/poiesic/intellicourse/ai"
	"gopkg.in/yaml.v3"
)

// Index backends.
const (
	BackendBadger   = "badger"
	BackendPinecone = "pinecone"
)

// Web-search providers.
const (
	ProviderTavily     = "tavily"
	ProviderDuckDuckGo = "duckduckgo"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// File is the on-disk configuration.
type File struct {
	LogLevel  string    `yaml:"log_level"`
	AI        AI        `yaml:"ai"`
	Index     Index     `yaml:"index"`
	WebSearch WebSearch `yaml:"websearch"`
	Server    Server    `yaml:"server"`
}

// AI configures the completion and embedding services.
type AI struct {
	CompletionHost  string  `yaml:"completion_host"`
	CompletionModel string  `yaml:"completion_model"`
	APIKey          string  `yaml:"api_key"`
	EmbeddingHost   string  `yaml:"embedding_host"`
	EmbeddingModel  string  `yaml:"embedding_model"`
	EmbeddingAPIKey string  `yaml:"embedding_api_key"`
	Temperature     float64 `yaml:"temperature"`
	MaxTokens       int     `yaml:"max_tokens"`
}

// Index configures passage retrieval.
type Index struct {
	Backend       string   `yaml:"backend"`
	Path          string   `yaml:"path"`
	TopK          int      `yaml:"top_k"`
	MinSimilarity float32  `yaml:"min_similarity"`
	Sources       []string `yaml:"sources"`
	ChunkSize     int      `yaml:"chunk_size"`
	ChunkOverlap  int      `yaml:"chunk_overlap"`
	Pinecone      Pinecone `yaml:"pinecone"`
}

// Pinecone locates a hosted index.
type Pinecone struct {
	Host      string `yaml:"host"`
	APIKey    string `yaml:"api_key"`
	Namespace string `yaml:"namespace"`
}

// WebSearch configures the web-search provider.
type WebSearch struct {
	Provider    string        `yaml:"provider"`
	APIKey      string        `yaml:"api_key"`
	MaxResults  int           `yaml:"max_results"`
	SearchDepth string        `yaml:"search_depth"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Server configures the HTTP boundary.
type Server struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// Default returns the configuration used when no file is given.
func Default() *File {
	return &File{
		LogLevel: "info",
		AI: AI{
			CompletionHost:  ai.DefaultCompletionHost,
			CompletionModel: ai.DefaultCompletionModel,
			EmbeddingHost:   ai.DefaultEmbeddingHost,
			EmbeddingModel:  ai.DefaultEmbeddingModel,
		},
		Index: Index{
			Backend:       BackendBadger,
			Path:          "./intellicourse.db",
			TopK:          4,
			MinSimilarity: -1,
			ChunkSize:     1000,
			ChunkOverlap:  200,
			Pinecone:      Pinecone{Namespace: "courses"},
		},
		WebSearch: WebSearch{
			Provider:    ProviderDuckDuckGo,
			MaxResults:  5,
			SearchDepth: "basic",
			Timeout:     30 * time.Second,
		},
		Server: Server{
			Addr:         ":8000",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 2 * time.Minute,
		},
	}
}

// Load reads the file at path over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (*File, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerations and ranges.
func (f *File) Validate() error {
	switch strings.ToLower(f.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log_level %q must be one of debug, info, warn, error", ErrInvalidConfig, f.LogLevel)
	}

	switch f.Index.Backend {
	case BackendBadger:
		if f.Index.Path == "" {
			return fmt.Errorf("%w: index.path is required for the badger backend", ErrInvalidConfig)
		}
	case BackendPinecone:
	default:
		return fmt.Errorf("%w: index.backend %q must be badger or pinecone", ErrInvalidConfig, f.Index.Backend)
	}
	if f.Index.TopK < 1 {
		return fmt.Errorf("%w: index.top_k must be positive", ErrInvalidConfig)
	}
	if f.Index.ChunkSize < 1 || f.Index.ChunkOverlap < 0 || f.Index.ChunkOverlap >= f.Index.ChunkSize {
		return fmt.Errorf("%w: index.chunk_overlap must be smaller than a positive index.chunk_size", ErrInvalidConfig)
	}

	switch f.WebSearch.Provider {
	case ProviderTavily, ProviderDuckDuckGo:
	default:
		return fmt.Errorf("%w: websearch.provider %q must be tavily or duckduckgo", ErrInvalidConfig, f.WebSearch.Provider)
	}
	if f.WebSearch.MaxResults < 1 {
		return fmt.Errorf("%w: websearch.max_results must be positive", ErrInvalidConfig)
	}

	if err := f.AIConfig().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// AIConfig converts the ai section into an ai.Config.
func (f *File) AIConfig() *ai.Config {
	return ai.NewConfig(
		ai.WithCompletionHost(f.AI.CompletionHost),
		ai.WithCompletionModel(f.AI.CompletionModel),
		ai.WithAPIKey(f.AI.APIKey),
		ai.WithEmbeddingHost(f.AI.EmbeddingHost),
		ai.WithEmbeddingModel(f.AI.EmbeddingModel),
		ai.WithEmbeddingAPIKey(f.AI.EmbeddingAPIKey),
		ai.WithTemperature(f.AI.Temperature),
		ai.WithMaxTokens(f.AI.MaxTokens),
	)
}
