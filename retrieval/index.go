package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/poiesic/intellicourse/ai"
	"github.com/poiesic/intellicourse/core"
	"github.com/poiesic/intellicourse/storage"
)

const (
	// candidateFactor widens the similarity scan so verbatim matches just
	// outside the top k can still be promoted.
	candidateFactor = 3

	// verbatimBoost is added to passages containing every query keyword.
	verbatimBoost = 0.3
)

// IndexRetriever searches passages stored in the local index.
type IndexRetriever struct {
	repository    storage.PassageRepository
	embedder      ai.Embedder
	minSimilarity float32
	logger        *slog.Logger
}

var _ Retriever = (*IndexRetriever)(nil)

// Option configures an IndexRetriever.
type Option func(*IndexRetriever) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *IndexRetriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithMinSimilarity drops passages scoring below min before ranking.
// Default is -1, which keeps every embedded passage.
func WithMinSimilarity(min float32) Option {
	return func(r *IndexRetriever) error {
		if min < -1 || min > 1 {
			return fmt.Errorf("min similarity %v outside [-1, 1]", min)
		}
		r.minSimilarity = min
		return nil
	}
}

// NewIndexRetriever creates a retriever over repository, embedding queries with embedder.
func NewIndexRetriever(repository storage.PassageRepository, embedder ai.Embedder, opts ...Option) (*IndexRetriever, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	r := &IndexRetriever{
		repository:    repository,
		embedder:      embedder,
		minSimilarity: -1,
		logger:        slog.Default().With("component", "index-retriever"),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Search embeds the query and returns the k best passages. Similarity is
// the dot product of unit vectors; passages containing every query keyword
// get a fixed boost.
func (r *IndexRetriever) Search(ctx context.Context, query string, k int) ([]core.ScoredPassage, error) {
	if k <= 0 {
		return nil, ErrInvalidK
	}

	embedding, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		r.logger.Error("error generating embedding for query", "err", err)
		return nil, fmt.Errorf("embed query: %w", err)
	}

	matches, err := r.repository.FindSimilar(ctx, ai.NormalizeVector(embedding), r.minSimilarity, k*candidateFactor)
	if err != nil {
		r.logger.Error("error querying for similar passages", "err", err)
		return nil, fmt.Errorf("find similar: %w", err)
	}

	boosted := 0
	for i := range matches {
		if containsAllQueryWords(matches[i].Passage.Text, query) {
			matches[i].Score += verbatimBoost
			boosted++
		}
	}

	slices.SortStableFunc(matches, func(a, b core.ScoredPassage) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})
	if len(matches) > k {
		matches = matches[:k]
	}

	r.logger.Debug("retrieved passages", "returned", len(matches), "verbatim", boosted, "k", k)
	return matches, nil
}
