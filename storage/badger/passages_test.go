package badger

import (
	"context"
	"testing"

	"github.com/poiesic/intellicourse/core"
	"github.com/poiesic/intellicourse/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassageBasics(t *testing.T) {
	passages, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	passage := &core.Passage{
		Source: "data/cs.pdf",
		Page:   3,
		Chunk:  7,
		Text:   "CS 301 Algorithms. Prerequisites: CS 201 and MATH 210.",
		Vector: []float32{0.6, 0.8},
	}

	added, err := passages.AddPassages(ctx, passage)
	require.NoError(t, err)
	require.Len(t, added, 1)

	assert.Equal(t, core.PassageID("data/cs.pdf", 7, passage.Text), added[0].Id)
	assert.False(t, added[0].InsertedAt.IsZero())
	assert.Equal(t, added[0].InsertedAt, added[0].UpdatedAt)

	retrieved, err := passages.GetPassage(ctx, added[0].Id)
	require.NoError(t, err)
	assert.Equal(t, passage.Text, retrieved.Text)
	assert.Equal(t, 3, retrieved.Page)
	assert.Equal(t, []float32{0.6, 0.8}, retrieved.Vector)
}

func TestAddPassages_Idempotent(t *testing.T) {
	passages, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := passages.AddPassages(ctx, &core.Passage{Source: "a.pdf", Chunk: 0, Text: "same text"})
		require.NoError(t, err)
	}

	n, err := passages.CountPassages(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestAddPassages_Validation(t *testing.T) {
	passages, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	_, err = passages.AddPassages(ctx,
		&core.Passage{Source: "a.pdf", Text: "ok"},
		&core.Passage{Source: "", Text: "missing source"},
	)
	assert.ErrorIs(t, err, core.ErrInvalidPassage)

	n, err := passages.CountPassages(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "a rejected batch must not be partially written")
}

func TestGetPassage_NotFound(t *testing.T) {
	passages, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	_, err = passages.GetPassage(context.Background(), core.ID(999))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpdatePassages(t *testing.T) {
	passages, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	added, err := passages.AddPassages(ctx, &core.Passage{Source: "a.pdf", Text: "text"})
	require.NoError(t, err)
	inserted := added[0].InsertedAt

	updated := *added[0]
	updated.Vector = []float32{1, 0}
	_, err = passages.UpdatePassages(ctx, &updated)
	require.NoError(t, err)

	got, err := passages.GetPassage(ctx, updated.Id)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0}, got.Vector)
	assert.True(t, inserted.Equal(got.InsertedAt))
	assert.False(t, got.UpdatedAt.Before(inserted))

	_, err = passages.UpdatePassages(ctx, &core.Passage{Id: core.ID(12345), Source: "x", Text: "y"})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDeletePassages(t *testing.T) {
	passages, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	added, err := passages.AddPassages(ctx,
		&core.Passage{Source: "a.pdf", Chunk: 0, Text: "one"},
		&core.Passage{Source: "a.pdf", Chunk: 1, Text: "two"},
	)
	require.NoError(t, err)

	require.NoError(t, passages.DeletePassages(ctx, added[0].Id))

	_, err = passages.GetPassage(ctx, added[0].Id)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	err = passages.DeletePassages(ctx, added[0].Id)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	n, err := passages.DeletePassagesBySource(ctx, "a.pdf")
	require.NoError(t, err)
	assert.Equal(t, 1, n, "source index must not reference deleted passages")
}

func TestDeletePassagesBySource(t *testing.T) {
	passages, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	_, err = passages.AddPassages(ctx,
		&core.Passage{Source: "cs.pdf", Chunk: 0, Text: "cs one"},
		&core.Passage{Source: "cs.pdf", Chunk: 1, Text: "cs two"},
		&core.Passage{Source: "cs.pdf.bak", Chunk: 0, Text: "backup"},
		&core.Passage{Source: "math.pdf", Chunk: 0, Text: "math"},
	)
	require.NoError(t, err)

	n, err := passages.DeletePassagesBySource(ctx, "cs.pdf")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	count, err := passages.CountPassages(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	n, err = passages.DeletePassagesBySource(ctx, "missing.pdf")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestListPassages_Paging(t *testing.T) {
	passages, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		_, err := passages.AddPassages(ctx, &core.Passage{Id: core.ID(i), Source: "a.pdf", Chunk: i, Text: "text"})
		require.NoError(t, err)
	}

	page1, err := passages.ListPassages(ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	assert.Equal(t, core.ID(1), page1[0].Id)
	assert.Equal(t, core.ID(2), page1[1].Id)

	page2, err := passages.ListPassages(ctx, page1[1].Id, 2)
	require.NoError(t, err)
	require.Len(t, page2, 2)
	assert.Equal(t, core.ID(3), page2[0].Id)

	page3, err := passages.ListPassages(ctx, page2[1].Id, 2)
	require.NoError(t, err)
	require.Len(t, page3, 1)
	assert.Equal(t, core.ID(5), page3[0].Id)

	_, err = passages.ListPassages(ctx, 0, 0)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}

func TestGetPassages_Multiple(t *testing.T) {
	passages, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	added, err := passages.AddPassages(ctx,
		&core.Passage{Source: "a.pdf", Chunk: 0, Text: "one"},
		&core.Passage{Source: "a.pdf", Chunk: 1, Text: "two"},
	)
	require.NoError(t, err)

	got, err := passages.GetPassages(ctx, added[0].Id, core.ID(424242), added[1].Id)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
