package reembed

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/intellicourse/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassageIterator_ForEach(t *testing.T) {
	repo := seedPassages(t, 23)

	var sizes []int
	seen := make(map[core.ID]bool)
	var last core.ID
	err := NewPassageIterator(repo, 10).ForEach(context.Background(), func(batch []*core.Passage) error {
		sizes = append(sizes, len(batch))
		for _, p := range batch {
			assert.Greater(t, p.Id, last, "ids ascend")
			last = p.Id
			seen[p.Id] = true
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{10, 10, 3}, sizes)
	assert.Len(t, seen, 23)
}

func TestPassageIterator_ExactMultiple(t *testing.T) {
	repo := seedPassages(t, 20)

	calls := 0
	err := NewPassageIterator(repo, 10).ForEach(context.Background(), func(batch []*core.Passage) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestPassageIterator_Empty(t *testing.T) {
	repo := seedPassages(t, 0)

	called := false
	err := NewPassageIterator(repo, 0).ForEach(context.Background(), func([]*core.Passage) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.False(t, called)
}

func TestPassageIterator_StopsOnError(t *testing.T) {
	repo := seedPassages(t, 30)
	stop := errors.New("stop")

	calls := 0
	err := NewPassageIterator(repo, 10).ForEach(context.Background(), func([]*core.Passage) error {
		calls++
		return stop
	})
	assert.Equal(t, stop, err)
	assert.Equal(t, 1, calls)
}

func TestPassageIterator_Cancelled(t *testing.T) {
	repo := seedPassages(t, 30)
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := NewPassageIterator(repo, 10).ForEach(ctx, func([]*core.Passage) error {
		calls++
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
