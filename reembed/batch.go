package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/intellicourse/ai"
	"github.com/poiesic/intellicourse/core"
	"github.com/poiesic/intellicourse/storage"
)

// BatchProcessor re-embeds batches of passages and writes them back.
type BatchProcessor struct {
	repo           storage.PassageRepository
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of attempts per embedding call
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(repo storage.PassageRepository, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		repo:           repo,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process embeds the text of every passage and updates the stored vectors.
// Vectors are normalized so similarity search can use a dot product.
func (bp *BatchProcessor) Process(ctx context.Context, passages []*core.Passage) error {
	if len(passages) == 0 {
		return nil
	}

	texts := make([]string, len(passages))
	for i, passage := range passages {
		texts[i] = passage.Text
	}

	var vectors [][]float32
	err := RetryWithBackoff(ctx, func(ctx context.Context) error {
		var err error
		vectors, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(vectors) != len(passages) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(passages), len(vectors))
	}

	for i := range passages {
		passages[i].Vector = ai.NormalizeVector(vectors[i])
	}

	if _, err := bp.repo.UpdatePassages(ctx, passages...); err != nil {
		return fmt.Errorf("failed to update passages: %w", err)
	}
	return nil
}
