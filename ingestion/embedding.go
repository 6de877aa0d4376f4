package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/intellicourse/ai"
	"github.com/poiesic/intellicourse/core"
)

// embeddingProcessor generates embeddings for passages in batches on a
// shared worker pool.
type embeddingProcessor struct {
	embedder  ai.Embedder
	pool      *ants.Pool
	batchSize int
	logger    *slog.Logger
}

// newEmbeddingProcessor creates a new embedding processor.
func newEmbeddingProcessor(embedder ai.Embedder, pool *ants.Pool, batchSize int, logger *slog.Logger) (*embeddingProcessor, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder required")
	}
	if pool == nil {
		return nil, fmt.Errorf("worker pool required")
	}
	if batchSize < 1 {
		batchSize = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &embeddingProcessor{
		embedder:  embedder,
		pool:      pool,
		batchSize: batchSize,
		logger:    logger.With("processor", "embeddings"),
	}, nil
}

// process fills in the normalized Vector of every passage. It blocks until
// all batches finish and returns the joined batch errors.
func (ep *embeddingProcessor) process(ctx context.Context, passages []*core.Passage) error {
	ep.logger.Debug("processing passages for embeddings", "passages", len(passages))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	fail := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	for start := 0; start < len(passages); start += ep.batchSize {
		end := min(start+ep.batchSize, len(passages))
		batch := passages[start:end]

		wg.Add(1)
		err := ep.pool.Submit(func() {
			defer wg.Done()
			if err := ep.embedBatch(ctx, batch); err != nil {
				fail(err)
			}
		})
		if err != nil {
			wg.Done()
			fail(fmt.Errorf("submit batch: %w", err))
		}
	}
	wg.Wait()

	return errors.Join(errs...)
}

func (ep *embeddingProcessor) embedBatch(ctx context.Context, batch []*core.Passage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	texts := make([]string, len(batch))
	for i, passage := range batch {
		texts[i] = passage.Text
	}

	vectors, err := ep.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		ep.logger.Error("error generating embeddings", "err", err)
		return err
	}
	if len(vectors) != len(batch) {
		return fmt.Errorf("embedding result mismatch. expected %d, received %d", len(batch), len(vectors))
	}

	for i := range vectors {
		batch[i].Vector = ai.NormalizeVector(vectors[i])
	}
	return nil
}
