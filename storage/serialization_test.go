package storage

import (
	"testing"
	"time"

	"github.com/poiesic/intellicourse/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"large ID", core.ID(18446744073709551615)}, // max uint64
		{"content-based ID", core.IDFromContent("test content")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestUnmarshalID_Invalid(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestMarshalUnmarshalPassage(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name    string
		passage *core.Passage
	}{
		{
			name: "passage without vector",
			passage: &core.Passage{
				Id:         core.PassageID("data/cs.pdf", 0, "CS 101"),
				Source:     "data/cs.pdf",
				Page:       1,
				Chunk:      0,
				Text:       "CS 101 Introduction to Programming",
				InsertedAt: now,
				UpdatedAt:  now,
			},
		},
		{
			name: "passage with vector and negative components",
			passage: &core.Passage{
				Id:         core.ID(42),
				Source:     "data/math.pdf",
				Page:       12,
				Chunk:      37,
				Text:       "MATH 301 requires MATH 201 and MATH 220.",
				Vector:     []float32{0.25, -0.5, 0, 1, -1e-7},
				InsertedAt: now,
				UpdatedAt:  now.Add(time.Hour),
			},
		},
		{
			name: "unicode text",
			passage: &core.Passage{
				Id:     core.ID(7),
				Source: "data/langues.pdf",
				Text:   "Français avancé: littérature et culture 📚",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalPassage(tt.passage)

			decoded, err := UnmarshalPassage(data)
			require.NoError(t, err)

			assert.Equal(t, tt.passage.Id, decoded.Id)
			assert.Equal(t, tt.passage.Source, decoded.Source)
			assert.Equal(t, tt.passage.Page, decoded.Page)
			assert.Equal(t, tt.passage.Chunk, decoded.Chunk)
			assert.Equal(t, tt.passage.Text, decoded.Text)
			assert.Equal(t, len(tt.passage.Vector), len(decoded.Vector))
			for i := range tt.passage.Vector {
				assert.Equal(t, tt.passage.Vector[i], decoded.Vector[i])
			}
			assert.True(t, tt.passage.InsertedAt.Equal(decoded.InsertedAt))
			assert.True(t, tt.passage.UpdatedAt.Equal(decoded.UpdatedAt))
		})
	}
}

func TestUnmarshalPassage_Truncated(t *testing.T) {
	data := MarshalPassage(&core.Passage{
		Id:     core.ID(1),
		Source: "a.pdf",
		Text:   "some passage text",
		Vector: []float32{0.1, 0.2},
	})

	_, err := UnmarshalPassage(data[:len(data)/2])
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestMarshalUnmarshalCheckpoint(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	checkpoint := &core.Checkpoint{
		Source:    "data/cs.pdf",
		Digest:    core.IDFromContent("file bytes"),
		Passages:  58,
		UpdatedAt: now,
	}

	decoded, err := UnmarshalCheckpoint(MarshalCheckpoint(checkpoint))
	require.NoError(t, err)
	assert.Equal(t, checkpoint.Source, decoded.Source)
	assert.Equal(t, checkpoint.Digest, decoded.Digest)
	assert.Equal(t, checkpoint.Passages, decoded.Passages)
	assert.True(t, checkpoint.UpdatedAt.Equal(decoded.UpdatedAt))
}
