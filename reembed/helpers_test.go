package reembed

import (
	"context"
	"fmt"
	"testing"

	"github.com/poiesic/intellicourse/core"
	"github.com/poiesic/intellicourse/storage"
	"github.com/poiesic/intellicourse/storage/badger"
	"github.com/stretchr/testify/require"
)

// seedPassages stores n passages without vectors.
func seedPassages(t *testing.T, n int) storage.PassageRepository {
	t.Helper()
	repo, _, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})

	passages := make([]*core.Passage, n)
	for i := range passages {
		passages[i] = &core.Passage{
			Source: "data/CS_Catalog.pdf",
			Page:   i/4 + 1,
			Chunk:  i,
			Text:   fmt.Sprintf("CS%03d course description number %d", 100+i, i),
		}
	}
	if n > 0 {
		_, err = repo.AddPassages(context.Background(), passages...)
		require.NoError(t, err)
	}
	return repo
}
