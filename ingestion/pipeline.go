package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"runtime"
	"strings"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/intellicourse/ai"
	"github.com/poiesic/intellicourse/core"
	"github.com/poiesic/intellicourse/retrieval"
	"github.com/poiesic/intellicourse/storage"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/textsplitter"
	"github.com/tmc/langchaingo/vectorstores"
)

// Default chunking parameters, in characters.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
	DefaultBatchSize    = 32
)

// Pipeline orchestrates the ingestion of source documents into passages.
type Pipeline struct {
	passageRepository    storage.PassageRepository
	checkpointRepository storage.CheckpointRepository
	embedder             ai.Embedder
	embeddingPool        *ants.Pool
	embeddingProc        *embeddingProcessor
	chunkSize            int
	chunkOverlap         int
	batchSize            int
	store                vectorstores.VectorStore
	logger               *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		// Release old pool
		if p.embeddingPool != nil {
			p.embeddingPool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.embeddingPool = pool
		return nil
	}
}

// WithChunking sets the chunk size and overlap in characters.
// Default is 1000 with an overlap of 200.
func WithChunking(size, overlap int) Option {
	return func(p *Pipeline) error {
		if size < 1 || overlap < 0 || overlap >= size {
			return fmt.Errorf("%w: size %d, overlap %d", ErrInvalidChunking, size, overlap)
		}
		p.chunkSize = size
		p.chunkOverlap = overlap
		return nil
	}
}

// WithBatchSize sets how many chunks are embedded per request.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		p.batchSize = size
		return nil
	}
}

// WithVectorStore mirrors every ingested passage into store, for
// deployments that answer from a hosted index. When store implements
// retrieval.SourceDeleter, a source's previous passages are removed first.
func WithVectorStore(store vectorstores.VectorStore) Option {
	return func(p *Pipeline) error {
		p.store = store
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	passageRepository storage.PassageRepository,
	checkpointRepository storage.CheckpointRepository,
	provider ai.AIProvider,
	opts ...Option,
) (*Pipeline, error) {
	if passageRepository == nil {
		return nil, ErrPassageRepositoryRequired
	}
	if checkpointRepository == nil {
		return nil, ErrCheckpointRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	// Default pool size
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	embeddingPool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	// Create pipeline with defaults
	p := &Pipeline{
		passageRepository:    passageRepository,
		checkpointRepository: checkpointRepository,
		embedder:             provider.Embedder(),
		embeddingPool:        embeddingPool,
		chunkSize:            DefaultChunkSize,
		chunkOverlap:         DefaultChunkOverlap,
		batchSize:            DefaultBatchSize,
		logger:               slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	// Create the processor after options are applied (so it gets final config)
	p.embeddingProc, err = newEmbeddingProcessor(p.embedder, p.embeddingPool, p.batchSize, p.logger)
	if err != nil {
		p.Release()
		return nil, err
	}

	return p, nil
}

// Report describes the outcome of ingesting one source.
type Report struct {
	Source   string
	Passages int  // Passages now indexed for the source
	Removed  int  // Passages replaced from a previous ingestion
	Skipped  bool // Content unchanged since the last checkpoint
}

// IngestFile reads and ingests the document at path.
func (p *Pipeline) IngestFile(ctx context.Context, path string, force bool) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{Source: path}, err
	}
	return p.IngestDocument(ctx, path, data, force)
}

// IngestFiles ingests each path in order. A failing source does not stop
// the remaining ones; all failures are returned joined.
func (p *Pipeline) IngestFiles(ctx context.Context, paths []string, force bool) ([]Report, error) {
	reports := make([]Report, 0, len(paths))
	var errs []error
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		report, err := p.IngestFile(ctx, path, force)
		if err != nil {
			p.logger.Error("error ingesting source", "source", path, "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		reports = append(reports, report)
	}
	return reports, errors.Join(errs...)
}

// IngestDocument indexes data under source, replacing whatever was indexed
// for source before. The replacement and its checkpoint commit atomically.
func (p *Pipeline) IngestDocument(ctx context.Context, source string, data []byte, force bool) (Report, error) {
	report := Report{Source: source}
	if source == "" {
		return report, core.ErrEmptySource
	}

	digest := core.IDFromContent(string(data))
	if !force {
		checkpoint, err := p.checkpointRepository.LoadCheckpoint(ctx, source)
		if err != nil {
			return report, err
		}
		if checkpoint != nil && checkpoint.Digest == digest {
			p.logger.Info("source unchanged, skipping", "source", source)
			report.Skipped = true
			report.Passages = checkpoint.Passages
			return report, nil
		}
	}

	docs, err := load(ctx, source, data)
	if err != nil {
		return report, err
	}

	passages, err := p.chunk(source, docs)
	if err != nil {
		return report, err
	}
	if len(passages) == 0 {
		return report, fmt.Errorf("%w: %s", ErrNoContent, source)
	}

	if err := p.embeddingProc.process(ctx, passages); err != nil {
		return report, fmt.Errorf("embed %s: %w", source, err)
	}

	err = p.passageRepository.WithTransaction(ctx, func(ctx context.Context) error {
		removed, err := p.passageRepository.DeletePassagesBySource(ctx, source)
		if err != nil {
			return err
		}
		report.Removed = removed

		if _, err := p.passageRepository.AddPassages(ctx, passages...); err != nil {
			return err
		}

		return p.checkpointRepository.SaveCheckpoint(ctx, &core.Checkpoint{
			Source:   source,
			Digest:   digest,
			Passages: len(passages),
		})
	})
	if err != nil {
		return report, err
	}
	report.Passages = len(passages)

	if p.store != nil {
		if err := p.mirror(ctx, source, passages); err != nil {
			return report, fmt.Errorf("mirror %s: %w", source, err)
		}
	}

	p.logger.Info("ingested source", "source", source, "passages", report.Passages, "removed", report.Removed)
	return report, nil
}

// chunk splits documents into passages numbered in source order.
func (p *Pipeline) chunk(source string, docs []schema.Document) ([]*core.Passage, error) {
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(p.chunkSize),
		textsplitter.WithChunkOverlap(p.chunkOverlap),
	)
	chunks, err := textsplitter.SplitDocuments(splitter, docs)
	if err != nil {
		return nil, fmt.Errorf("split %s: %w", source, err)
	}

	passages := make([]*core.Passage, 0, len(chunks))
	for _, chunk := range chunks {
		if strings.TrimSpace(chunk.PageContent) == "" {
			continue
		}
		metadata := maps.Clone(chunk.Metadata)
		if metadata == nil {
			metadata = map[string]any{}
		}
		metadata[retrieval.MetadataSource] = source
		metadata[retrieval.MetadataChunk] = len(passages)
		chunk.Metadata = metadata

		passages = append(passages, retrieval.PassageFromDocument(chunk))
	}
	return passages, nil
}

// mirror replaces whatever the vector store holds for source with passages.
// Stores that cannot delete only receive the additions.
func (p *Pipeline) mirror(ctx context.Context, source string, passages []*core.Passage) error {
	if deleter, ok := p.store.(retrieval.SourceDeleter); ok {
		if err := deleter.DeleteSource(ctx, source); err != nil {
			return err
		}
	} else {
		p.logger.Warn("vector store cannot delete, mirror may hold stale passages", "source", source)
	}

	docs := make([]schema.Document, len(passages))
	for i, passage := range passages {
		docs[i] = retrieval.DocumentFromPassage(passage)
	}
	_, err := p.store.AddDocuments(ctx, docs)
	return err
}

// Release releases resources including the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.embeddingPool != nil {
		p.embeddingPool.Release()
	}
}
