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

package reembed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/poiesic/intellicourse/ai"
	"github.com/poiesic/intellicourse/core"
	"github.com/poiesic/intellicourse/storage"
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of passages to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of passages)
	ReportInterval int

	// MaxRetries is the maximum number of attempts per embedding call
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      DefaultBatchSize,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Stats summarizes a completed run.
type Stats struct {
	Passages int
	Elapsed  time.Duration
}

// Reembedder rewrites the vector of every stored passage.
type Reembedder struct {
	repo      storage.PassageRepository
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	iterator  *PassageIterator
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(repo storage.PassageRepository, embedder ai.Embedder, config *Config, progress io.Writer) (*Reembedder, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.MaxRetries <= 0 {
		return nil, ErrInvalidMaxAttempts
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Reembedder{
		repo:      repo,
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(repo, embedder, config.MaxRetries, config.RetryDelay),
		iterator:  NewPassageIterator(repo, config.BatchSize),
	}, nil
}

// Run re-embeds every passage in the repository with the configured embedder.
// Progress is reported to the configured writer.
func (r *Reembedder) Run(ctx context.Context) (Stats, error) {
	total, err := r.repo.CountPassages(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to count passages: %w", err)
	}
	if total == 0 {
		fmt.Fprintf(r.progress, "No passages found in index (0 passages)\n")
		return Stats{}, nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d passages (batch size: %d)\n",
		total, r.iterator.batchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	err = r.iterator.ForEach(ctx, func(batch []*core.Passage) error {
		if err := r.processor.Process(ctx, batch); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}
		tracker.Add(len(batch))
		return nil
	})
	if err != nil {
		return Stats{Passages: tracker.Current(), Elapsed: tracker.Elapsed()}, err
	}

	tracker.Finish()

	stats := Stats{Passages: total, Elapsed: tracker.Elapsed()}
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d passages in %v (%s)\n",
		stats.Passages, stats.Elapsed.Round(time.Millisecond), rate(stats.Passages, stats.Elapsed))
	return stats, nil
}
