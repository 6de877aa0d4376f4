package badger

import (
	"context"
	"testing"

	"github.com/poiesic/intellicourse/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckpointRoundTrip(t *testing.T) {
	_, checkpoints, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	missing, err := checkpoints.LoadCheckpoint(ctx, "data/cs.pdf")
	require.NoError(t, err)
	assert.Nil(t, missing)

	digest := core.IDFromContent("pdf bytes")
	require.NoError(t, checkpoints.SaveCheckpoint(ctx, &core.Checkpoint{
		Source:   "data/cs.pdf",
		Digest:   digest,
		Passages: 12,
	}))

	loaded, err := checkpoints.LoadCheckpoint(ctx, "data/cs.pdf")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, digest, loaded.Digest)
	assert.Equal(t, 12, loaded.Passages)
	assert.False(t, loaded.UpdatedAt.IsZero())

	require.NoError(t, checkpoints.DeleteCheckpoint(ctx, "data/cs.pdf"))
	loaded, err = checkpoints.LoadCheckpoint(ctx, "data/cs.pdf")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSaveCheckpoint_RequiresSource(t *testing.T) {
	_, checkpoints, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	err = checkpoints.SaveCheckpoint(context.Background(), &core.Checkpoint{})
	assert.ErrorIs(t, err, core.ErrEmptySource)
}
