package badger

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/intellicourse/core"
	"github.com/poiesic/intellicourse/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_FileSystem(t *testing.T) {
	tmpDir := filepath.Join(t.TempDir(), "index")
	backend, err := OpenBackend(tmpDir, false)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	info, err := os.Stat(tmpDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestOpenBackend_NotADirectory(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(tmpFile, []byte("x"), 0644))

	_, err := OpenBackend(tmpFile, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not a directory")
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)

	require.NoError(t, backend.Close())
	assert.True(t, backend.IsClosed())

	_, err = backend.FindSimilar(context.Background(), []float32{1}, 0, 1)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestFindSimilar_NoRecords(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	results, err := backend.FindSimilar(context.Background(), []float32{0.1, 0.2, 0.3}, 0.5, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFindSimilar_InvalidQuery(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	_, err = backend.FindSimilar(context.Background(), []float32{1}, 0, 0)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)

	_, err = backend.FindSimilar(context.Background(), nil, 0, 4)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}

func TestFindSimilar_WithPassages(t *testing.T) {
	passages, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	_, err = passages.AddPassages(ctx,
		&core.Passage{Source: "cs.pdf", Chunk: 0, Text: "First passage", Vector: []float32{1.0, 0.0, 0.0}},
		&core.Passage{Source: "cs.pdf", Chunk: 1, Text: "Second passage", Vector: []float32{0.9, 0.1, 0.0}},
		&core.Passage{Source: "cs.pdf", Chunk: 2, Text: "Third passage", Vector: []float32{0.0, 0.0, 1.0}},
		&core.Passage{Source: "cs.pdf", Chunk: 3, Text: "Unembedded passage"},
	)
	require.NoError(t, err)

	results, err := backend.FindSimilar(ctx, []float32{1.0, 0.0, 0.0}, 0.8, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "First passage", results[0].Passage.Text)
	assert.Equal(t, "Second passage", results[1].Passage.Text)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
}

func TestFindSimilar_LimitResults(t *testing.T) {
	passages, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		_, err := passages.AddPassages(ctx, &core.Passage{
			Source: "catalog.pdf",
			Chunk:  i,
			Text:   "passage",
			Vector: []float32{1.0, float32(i) * 0.01},
		})
		require.NoError(t, err)
	}

	t.Run("limit to 4", func(t *testing.T) {
		results, err := backend.FindSimilar(ctx, []float32{1.0, 0.0}, 0.5, 4)
		require.NoError(t, err)
		assert.Len(t, results, 4)
	})

	t.Run("limit higher than results", func(t *testing.T) {
		results, err := backend.FindSimilar(ctx, []float32{1.0, 0.0}, 0.5, 100)
		require.NoError(t, err)
		assert.Len(t, results, 10)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := backend.FindSimilar(cctx, []float32{1.0, 0.0}, 0.5, 4)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestDotProduct(t *testing.T) {
	tests := []struct {
		name     string
		a        []float32
		b        []float32
		expected float32
	}{
		{"identical vectors", []float32{1.0, 0.0, 0.0}, []float32{1.0, 0.0, 0.0}, 1.0},
		{"orthogonal vectors", []float32{1.0, 0.0, 0.0}, []float32{0.0, 1.0, 0.0}, 0.0},
		{"opposite vectors", []float32{1.0, 0.0, 0.0}, []float32{-1.0, 0.0, 0.0}, -1.0},
		{"general case", []float32{0.6, 0.8}, []float32{0.8, 0.6}, 0.96},
		{"different lengths - use min", []float32{1.0, 2.0, 3.0}, []float32{1.0, 2.0}, 5.0},
		{"empty vectors", []float32{}, []float32{}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, dotProduct(tt.a, tt.b), 0.0001)
		})
	}
}

func TestWithTransaction(t *testing.T) {
	passages, checkpoints, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	t.Run("successful transaction commits every write", func(t *testing.T) {
		err := backend.WithTransaction(ctx, func(ctx context.Context) error {
			if _, err := passages.AddPassages(ctx, &core.Passage{Source: "a.pdf", Text: "alpha"}); err != nil {
				return err
			}
			return checkpoints.SaveCheckpoint(ctx, &core.Checkpoint{Source: "a.pdf", Passages: 1})
		})
		require.NoError(t, err)

		n, err := passages.CountPassages(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		cp, err := checkpoints.LoadCheckpoint(ctx, "a.pdf")
		require.NoError(t, err)
		require.NotNil(t, cp)
	})

	t.Run("failed transaction writes nothing", func(t *testing.T) {
		boom := errors.New("boom")
		err := backend.WithTransaction(ctx, func(ctx context.Context) error {
			if _, err := passages.AddPassages(ctx, &core.Passage{Source: "b.pdf", Text: "beta"}); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		n, err := passages.CountPassages(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}
