// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package intellicourse answers student questions from the course catalog
// or the open web.
package intellicourse

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/poiesic/intellicourse/ai"
	"github.com/poiesic/intellicourse/ai/openai"
	"github.com/poiesic/intellicourse/config"
	"github.com/poiesic/intellicourse/core"
	"github.com/poiesic/intellicourse/ingestion"
	"github.com/poiesic/intellicourse/orchestrator"
	"github.com/poiesic/intellicourse/reembed"
	"github.com/poiesic/intellicourse/retrieval"
	"github.com/poiesic/intellicourse/storage"
	"github.com/poiesic/intellicourse/storage/badger"
	"github.com/poiesic/intellicourse/websearch"
	"github.com/tmc/langchaingo/vectorstores"
)

// Assistant owns every long-lived resource behind the orchestrator: the
// local index, the AI provider, the retriever and the web searcher.
// It is safe for concurrent use.
type Assistant struct {
	cfg            *config.File
	backend        *badger.Backend
	passageRepo    storage.PassageRepository
	checkpointRepo storage.CheckpointRepository
	provider       ai.AIProvider
	store          vectorstores.VectorStore
	retriever      retrieval.Retriever
	searcher       websearch.Searcher
	orchestrator   *orchestrator.Orchestrator
	logger         *slog.Logger
}

// Option configures an Assistant.
type Option func(*assistantOptions)

type assistantOptions struct {
	provider ai.AIProvider
	searcher websearch.Searcher
	monitor  orchestrator.Monitor
	logger   *slog.Logger
	inMemory bool
}

// WithProvider replaces the OpenAI-compatible provider built from config.
func WithProvider(provider ai.AIProvider) Option {
	return func(o *assistantOptions) {
		o.provider = provider
	}
}

// WithSearcher replaces the web searcher built from config.
func WithSearcher(searcher websearch.Searcher) Option {
	return func(o *assistantOptions) {
		o.searcher = searcher
	}
}

// WithMonitor observes every invocation.
func WithMonitor(monitor orchestrator.Monitor) Option {
	return func(o *assistantOptions) {
		o.monitor = monitor
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *assistantOptions) {
		o.logger = logger
	}
}

// WithInMemoryIndex keeps the local index in memory instead of at
// cfg.Index.Path.
func WithInMemoryIndex() Option {
	return func(o *assistantOptions) {
		o.inMemory = true
	}
}

// New builds an assistant from cfg. A nil cfg uses config.Default().
func New(cfg *config.File, opts ...Option) (*Assistant, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &assistantOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	a := &Assistant{cfg: cfg, logger: options.logger}
	if err := a.open(options); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *Assistant) open(options *assistantOptions) error {
	var err error

	// The local index always backs ingestion checkpoints, even when
	// passages are served from Pinecone.
	inMemory := options.inMemory || a.cfg.Index.Path == ""
	a.backend, err = badger.OpenBackend(a.cfg.Index.Path, inMemory)
	if err != nil {
		return err
	}
	a.passageRepo = badger.NewPassageRepository(a.backend)
	a.checkpointRepo = badger.NewCheckpointRepository(a.backend)

	a.provider = options.provider
	if a.provider == nil {
		if a.provider, err = openai.NewProvider(a.cfg.AIConfig()); err != nil {
			return err
		}
	}

	if a.retriever, err = a.newRetriever(); err != nil {
		return err
	}

	a.searcher = options.searcher
	if a.searcher == nil {
		if a.searcher, err = a.newSearcher(); err != nil {
			return err
		}
	}

	a.orchestrator, err = orchestrator.New(a.provider.Completer(), a.retriever, a.searcher,
		orchestrator.WithTopK(a.cfg.Index.TopK),
		orchestrator.WithMonitor(options.monitor),
		orchestrator.WithLogger(a.logger.With("component", "orchestrator")),
	)
	return err
}

func (a *Assistant) newRetriever() (retrieval.Retriever, error) {
	switch a.cfg.Index.Backend {
	case config.BackendPinecone:
		store, err := retrieval.NewPineconeStore(retrieval.PineconeConfig{
			Host:      a.cfg.Index.Pinecone.Host,
			APIKey:    a.cfg.Index.Pinecone.APIKey,
			Namespace: a.cfg.Index.Pinecone.Namespace,
		}, a.provider.Embedder())
		if err != nil {
			return nil, err
		}
		a.store = store
		return retrieval.NewVectorStoreRetriever(store)
	default:
		return retrieval.NewIndexRetriever(a.passageRepo, a.provider.Embedder(),
			retrieval.WithMinSimilarity(a.cfg.Index.MinSimilarity),
			retrieval.WithLogger(a.logger.With("component", "retriever")))
	}
}

func (a *Assistant) newSearcher() (websearch.Searcher, error) {
	ws := a.cfg.WebSearch
	switch ws.Provider {
	case config.ProviderTavily:
		return websearch.NewTavily(ws.APIKey,
			websearch.WithMaxResults(ws.MaxResults),
			websearch.WithSearchDepth(ws.SearchDepth),
			websearch.WithHTTPClient(&http.Client{Timeout: ws.Timeout}),
			websearch.WithTavilyLogger(a.logger.With("component", "tavily")),
		)
	default:
		return websearch.NewDuckDuckGo(ws.MaxResults)
	}
}

// Invoke answers question. Blank questions are rejected with
// core.ErrEmptyQuestion before any capability is called.
func (a *Assistant) Invoke(ctx context.Context, question string) (*core.State, error) {
	if err := core.ValidateQuestion(question); err != nil {
		return nil, err
	}
	return a.orchestrator.Invoke(ctx, question)
}

// Ask answers question and returns only the answer text.
func (a *Assistant) Ask(ctx context.Context, question string) (string, error) {
	state, err := a.Invoke(ctx, question)
	if err != nil {
		return "", err
	}
	return state.Answer(), nil
}

// PassageRepository returns the local passage index.
func (a *Assistant) PassageRepository() storage.PassageRepository {
	return a.passageRepo
}

// CheckpointRepository returns the ingestion checkpoints.
func (a *Assistant) CheckpointRepository() storage.CheckpointRepository {
	return a.checkpointRepo
}

// NewIngestionPipeline creates a pipeline writing to the local index, and
// mirroring into Pinecone when that is the configured backend.
func (a *Assistant) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	defaults := []ingestion.Option{
		ingestion.WithChunking(a.cfg.Index.ChunkSize, a.cfg.Index.ChunkOverlap),
		ingestion.WithLogger(a.logger.With("component", "ingestion")),
	}
	if a.store != nil {
		defaults = append(defaults, ingestion.WithVectorStore(a.store))
	}
	return ingestion.NewPipeline(a.passageRepo, a.checkpointRepo, a.provider, append(defaults, opts...)...)
}

// NewReembedder creates a reembedder over the local index.
func (a *Assistant) NewReembedder(cfg *reembed.Config, progress io.Writer) (*reembed.Reembedder, error) {
	return reembed.NewReembedder(a.passageRepo, a.provider.Embedder(), cfg, progress)
}

// Close releases the provider and the local index.
func (a *Assistant) Close() error {
	var errs []error
	if a.provider != nil {
		if err := a.provider.Close(); err != nil {
			a.logger.Error("error closing AI provider", "err", err)
			errs = append(errs, err)
		}
	}
	if a.passageRepo != nil {
		if err := a.passageRepo.Close(); err != nil {
			a.logger.Error("error closing passage repository", "err", err)
			errs = append(errs, err)
		}
	}
	if a.backend != nil {
		if err := a.backend.Close(); err != nil {
			a.logger.Error("error closing backend storage", "err", err)
			errs = append(errs, fmt.Errorf("close backend: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Retriever returns the configured passage retriever.
func (a *Assistant) Retriever() retrieval.Retriever {
	return a.retriever
}
