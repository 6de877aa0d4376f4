package storage

import (
	"context"

	"github.com/poiesic/intellicourse/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close releases resources held by the repository.
	Close() error
}

// PassageRepository provides operations for managing document passages.
type PassageRepository interface {
	Repository

	// AddPassages stores one or more passages, replacing any with the same ID.
	// Passages with ID=0 get a content-based ID (core.PassageID).
	// Sets InsertedAt if not already set and UpdatedAt always.
	// Returns core.ErrInvalidPassage if any passage fails validation.
	AddPassages(ctx context.Context, passages ...*core.Passage) ([]*core.Passage, error)

	// UpdatePassages updates existing passages.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any passage doesn't exist.
	UpdatePassages(ctx context.Context, passages ...*core.Passage) ([]*core.Passage, error)

	// DeletePassages removes passages by their IDs.
	// Returns ErrNotFound if any passage doesn't exist.
	DeletePassages(ctx context.Context, ids ...core.ID) error

	// DeletePassagesBySource removes every passage ingested from source
	// and returns how many were removed.
	DeletePassagesBySource(ctx context.Context, source string) (int, error)

	// GetPassage retrieves a single passage by ID.
	// Returns ErrNotFound if the passage doesn't exist.
	GetPassage(ctx context.Context, id core.ID) (*core.Passage, error)

	// GetPassages retrieves multiple passages by their IDs.
	// Returns only the passages that exist (no error for missing passages).
	GetPassages(ctx context.Context, ids ...core.ID) ([]*core.Passage, error)

	// ListPassages returns up to limit passages with ID greater than afterID,
	// in ascending ID order. Pass 0 to start from the beginning.
	ListPassages(ctx context.Context, afterID core.ID, limit int) ([]*core.Passage, error)

	// CountPassages returns the number of stored passages.
	CountPassages(ctx context.Context) (int, error)

	// FindSimilar finds passages similar to the given vector.
	// Returns passages with similarity >= minSimilarity, up to limit results.
	// Results are ordered by similarity score (highest first).
	// Vectors are expected to be normalized, so similarity is a dot product.
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]core.ScoredPassage, error)
}

// CheckpointRepository persists ingestion checkpoints keyed by source.
type CheckpointRepository interface {
	// SaveCheckpoint persists the checkpoint for checkpoint.Source.
	// Sets UpdatedAt automatically.
	SaveCheckpoint(ctx context.Context, checkpoint *core.Checkpoint) error

	// LoadCheckpoint retrieves the checkpoint for a source.
	// Returns nil, nil if no checkpoint exists.
	LoadCheckpoint(ctx context.Context, source string) (*core.Checkpoint, error)

	// DeleteCheckpoint removes the checkpoint for a source if present.
	DeleteCheckpoint(ctx context.Context, source string) error
}
