package core

import (
	"testing"
	"time"

	"github.com/mus-format/mus-go/varint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassageMUS(t *testing.T) {
	now := time.Date(2026, 3, 4, 5, 6, 7, 891234567, time.UTC)
	passage := Passage{
		Id:         PassageID("data/CS_Catalog.pdf", 3, "CS 301 requires CS 201."),
		Source:     "data/CS_Catalog.pdf",
		Page:       12,
		Chunk:      3,
		Text:       "CS 301 requires CS 201.",
		Vector:     []float32{0.25, -0.5, 1},
		InsertedAt: now,
		UpdatedAt:  now.Add(time.Minute),
	}

	bs := make([]byte, PassageMUS.Size(passage))
	assert.Equal(t, len(bs), PassageMUS.Marshal(passage, bs))

	got, n, err := PassageMUS.Unmarshal(bs)
	require.NoError(t, err)
	assert.Equal(t, len(bs), n)
	assert.Equal(t, passage.Vector, got.Vector)
	assert.Equal(t, now.Truncate(time.Microsecond), got.InsertedAt)
	assert.Equal(t, time.UTC, got.UpdatedAt.Location())

	t.Run("truncated buffer", func(t *testing.T) {
		_, _, err := PassageMUS.Unmarshal(bs[:len(bs)-2])
		assert.Error(t, err)
	})
}

func TestSliceFloat32MUS_CorruptLength(t *testing.T) {
	bs := make([]byte, varint.Int.Size(1000))
	varint.Int.Marshal(1000, bs)

	_, _, err := sliceFloat32MUS.Unmarshal(bs)
	assert.ErrorIs(t, err, ErrCorruptVector)
}

func TestCheckpointMUS(t *testing.T) {
	checkpoint := Checkpoint{
		Source:    "data/BA_Catalog.pdf",
		Digest:    IDFromContent("catalog bytes"),
		Passages:  42,
		UpdatedAt: time.Date(2026, 1, 2, 3, 4, 5, 6000, time.UTC),
	}

	bs := make([]byte, CheckpointMUS.Size(checkpoint))
	assert.Equal(t, len(bs), CheckpointMUS.Marshal(checkpoint, bs))

	got, n, err := CheckpointMUS.Unmarshal(bs)
	require.NoError(t, err)
	assert.Equal(t, len(bs), n)
	assert.Equal(t, checkpoint, got)
}
