package ingestion

import "errors"

var (
	// ErrPassageRepositoryRequired is returned when a passage repository is not provided.
	ErrPassageRepositoryRequired = errors.New("passage repository required")

	// ErrCheckpointRepositoryRequired is returned when a checkpoint repository is not provided.
	ErrCheckpointRepositoryRequired = errors.New("checkpoint repository required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrUnsupportedFormat is returned for documents that are neither PDF nor text.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrNoContent is returned when a document yields no text to index.
	ErrNoContent = errors.New("document has no text")

	// ErrInvalidChunking is returned for non-positive chunk sizes or overlaps
	// that are not smaller than the chunk size.
	ErrInvalidChunking = errors.New("invalid chunking parameters")
)
