package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/intellicourse/core"
	"github.com/poiesic/intellicourse/storage"
)

// PassageRepository implements storage.PassageRepository for BadgerDB.
type PassageRepository struct {
	backend *Backend
}

var _ storage.PassageRepository = (*PassageRepository)(nil)

// newPassageRepository is the internal constructor returning the concrete type.
func newPassageRepository(backend *Backend) *PassageRepository {
	return &PassageRepository{backend: backend}
}

// NewPassageRepository creates a passage repository on an open backend.
func NewPassageRepository(backend *Backend) storage.PassageRepository {
	return newPassageRepository(backend)
}

// Close is a no-op; the backend owns the database handle.
func (r *PassageRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *PassageRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// FindSimilar delegates to the backend.
func (r *PassageRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]core.ScoredPassage, error) {
	return r.backend.FindSimilar(ctx, vector, minSimilarity, limit)
}

// AddPassages stores passages, replacing any existing passage with the same ID.
func (r *PassageRepository) AddPassages(ctx context.Context, passages ...*core.Passage) ([]*core.Passage, error) {
	for _, passage := range passages {
		if err := core.ValidatePassage(passage); err != nil {
			return nil, err
		}
	}

	err := r.backend.update(ctx, func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, passage := range passages {
			if passage.Id == 0 {
				passage.Id = core.PassageID(passage.Source, passage.Chunk, passage.Text)
			}

			// Drop the stale source index entry if the passage moved sources
			old, err := r.readPassage(tx, makePassageKey(passage.Id))
			if err != nil {
				return err
			}
			if old != nil && old.Source != passage.Source {
				if err := tx.Delete(makeSourceKey(old.Source, old.Id)); err != nil {
					return err
				}
			}

			if old != nil {
				passage.InsertedAt = old.InsertedAt
			} else if passage.InsertedAt.IsZero() {
				passage.InsertedAt = now
			}
			passage.UpdatedAt = now

			if err := r.writePassage(tx, passage); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return passages, nil
}

// UpdatePassages updates existing passages.
func (r *PassageRepository) UpdatePassages(ctx context.Context, passages ...*core.Passage) ([]*core.Passage, error) {
	err := r.backend.update(ctx, func(tx *badger.Txn) error {
		for _, passage := range passages {
			old, err := r.readPassage(tx, makePassageKey(passage.Id))
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			if old.Source != passage.Source {
				if err := tx.Delete(makeSourceKey(old.Source, old.Id)); err != nil {
					return err
				}
			}

			passage.InsertedAt = old.InsertedAt
			passage.UpdatedAt = time.Now().UTC()

			if err := r.writePassage(tx, passage); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return passages, nil
}

// DeletePassages removes passages by their IDs.
func (r *PassageRepository) DeletePassages(ctx context.Context, ids ...core.ID) error {
	return r.backend.update(ctx, func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makePassageKey(id)

			passage, err := r.readPassage(tx, key)
			if err != nil {
				return err
			}
			if passage == nil {
				return storage.ErrNotFound
			}

			if err := tx.Delete(makeSourceKey(passage.Source, id)); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeletePassagesBySource removes every passage indexed under source.
func (r *PassageRepository) DeletePassagesBySource(ctx context.Context, source string) (int, error) {
	var ids []core.ID
	err := r.backend.view(ctx, func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = makePartialSourceKey(source)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			ids = append(ids, sourceKeyID(iter.Item().KeyCopy(nil)))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if len(ids) == 0 {
		return 0, nil
	}

	if err := r.DeletePassages(ctx, ids...); err != nil {
		return 0, err
	}
	return len(ids), nil
}

// GetPassage retrieves a single passage by ID.
func (r *PassageRepository) GetPassage(ctx context.Context, id core.ID) (*core.Passage, error) {
	var result *core.Passage
	err := r.backend.view(ctx, func(tx *badger.Txn) error {
		var err error
		result, err = r.readPassage(tx, makePassageKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	})
	return result, err
}

// GetPassages retrieves multiple passages by their IDs.
func (r *PassageRepository) GetPassages(ctx context.Context, ids ...core.ID) ([]*core.Passage, error) {
	var result []*core.Passage
	err := r.backend.view(ctx, func(tx *badger.Txn) error {
		for _, id := range ids {
			passage, err := r.readPassage(tx, makePassageKey(id))
			if err != nil {
				return err
			}
			if passage != nil {
				result = append(result, passage)
			}
		}
		return nil
	})
	return result, err
}

// ListPassages returns up to limit passages with IDs above afterID in ID order.
func (r *PassageRepository) ListPassages(ctx context.Context, afterID core.ID, limit int) ([]*core.Passage, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	var results []*core.Passage
	err := r.backend.view(ctx, func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(passagePrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(makePassageKey(afterID)); iter.Valid() && len(results) < limit; iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := iter.Item()
			if passageIDFromKey(item.Key()) == afterID {
				continue
			}

			var passage *core.Passage
			if err := item.Value(func(val []byte) error {
				var err error
				passage, err = storage.UnmarshalPassage(val)
				return err
			}); err != nil {
				return err
			}
			results = append(results, passage)
		}
		return nil
	})

	return results, err
}

// CountPassages returns the number of stored passages.
func (r *PassageRepository) CountPassages(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.view(ctx, func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(passagePrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// readPassage loads a passage by key. Returns nil, nil if absent.
func (r *PassageRepository) readPassage(tx *badger.Txn, key []byte) (*core.Passage, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var passage *core.Passage
	err = item.Value(func(val []byte) error {
		var err error
		passage, err = storage.UnmarshalPassage(val)
		return err
	})
	return passage, err
}

// writePassage stores the passage and its source index entry.
func (r *PassageRepository) writePassage(tx *badger.Txn, passage *core.Passage) error {
	if err := tx.Set(makePassageKey(passage.Id), storage.MarshalPassage(passage)); err != nil {
		return err
	}
	return tx.Set(makeSourceKey(passage.Source, passage.Id), nil)
}
