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

	"github.com/poiesic/intellicourse/core"
	"github.com/poiesic/intellicourse/storage"
)

const (
	// DefaultBatchSize is the default number of passages to fetch in each batch
	DefaultBatchSize = 100
)

// PassageIterator pages through every stored passage in ascending ID order.
type PassageIterator struct {
	repo      storage.PassageRepository
	batchSize int
}

// NewPassageIterator creates a new passage iterator.
// batchSize: number of passages to fetch in each batch (must be > 0)
func NewPassageIterator(repo storage.PassageRepository, batchSize int) *PassageIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &PassageIterator{
		repo:      repo,
		batchSize: batchSize,
	}
}

// ForEach calls fn with successive batches of passages.
// Iteration stops on first error from fn or when all passages are processed.
// Each page is read after the previous batch was handled, so fn may rewrite
// the passages it receives. Context cancellation is checked between batches.
func (it *PassageIterator) ForEach(ctx context.Context, fn func([]*core.Passage) error) error {
	var cursor core.ID
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		batch, err := it.repo.ListPassages(ctx, cursor, it.batchSize)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}
		cursor = batch[len(batch)-1].Id

		if err := fn(batch); err != nil {
			return err
		}

		if len(batch) < it.batchSize {
			return nil
		}
	}
}
