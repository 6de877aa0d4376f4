package intellicourse

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poiesic/intellicourse/ai/mock"
	"github.com/poiesic/intellicourse/config"
	"github.com/poiesic/intellicourse/core"
	"github.com/poiesic/intellicourse/websearch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSearcher struct {
	result websearch.Result
	err    error
	calls  int
}

func (s *stubSearcher) Search(_ context.Context, _ string) (websearch.Result, error) {
	s.calls++
	return s.result, s.err
}

// routedCompleter answers the classifier prompt with label and every other
// prompt with answer.
func routedCompleter(label, answer string) *mock.MockCompleter {
	c := mock.NewMockCompleter()
	c.CompleteFunc = func(_ context.Context, prompt string) (string, error) {
		if strings.HasSuffix(prompt, "Classification:") {
			return label, nil
		}
		return answer, nil
	}
	return c
}

func newTestAssistant(t *testing.T, completer *mock.MockCompleter, searcher websearch.Searcher) *Assistant {
	t.Helper()
	cfg := config.Default()
	cfg.Index.Path = filepath.Join(t.TempDir(), "index")
	provider := mock.NewMockProviderWithServices(completer, mock.NewMockEmbedder())
	a, err := New(cfg, WithProvider(provider), WithSearcher(searcher))
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestNew(t *testing.T) {
	t.Run("opens index at configured path", func(t *testing.T) {
		a := newTestAssistant(t, mock.NewMockCompleter(), &stubSearcher{})
		assert.NotNil(t, a.PassageRepository())
		assert.NotNil(t, a.CheckpointRepository())
		assert.NotNil(t, a.backend)
		assert.NotNil(t, a.logger)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		require.NoError(t, os.WriteFile(tmpFile, []byte("test"), 0644))

		cfg := config.Default()
		cfg.Index.Path = tmpFile
		a, err := New(cfg, WithProvider(mock.NewMockProvider()), WithSearcher(&stubSearcher{}))
		assert.Error(t, err)
		assert.Nil(t, a)
	})

	t.Run("rejects invalid config", func(t *testing.T) {
		cfg := config.Default()
		cfg.Index.TopK = 0
		_, err := New(cfg, WithInMemoryIndex())
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})

	t.Run("builds default provider and searcher", func(t *testing.T) {
		a, err := New(nil, WithInMemoryIndex())
		require.NoError(t, err)
		defer a.Close()
		assert.IsType(t, &websearch.DuckDuckGo{}, a.searcher)
	})

	t.Run("builds tavily searcher", func(t *testing.T) {
		cfg := config.Default()
		cfg.WebSearch.Provider = config.ProviderTavily
		cfg.WebSearch.APIKey = "tvly-test"
		a, err := New(cfg, WithInMemoryIndex(), WithProvider(mock.NewMockProvider()))
		require.NoError(t, err)
		defer a.Close()
		assert.IsType(t, &websearch.Tavily{}, a.searcher)
	})

	t.Run("tavily without key fails", func(t *testing.T) {
		cfg := config.Default()
		cfg.WebSearch.Provider = config.ProviderTavily
		_, err := New(cfg, WithInMemoryIndex(), WithProvider(mock.NewMockProvider()))
		assert.ErrorIs(t, err, websearch.ErrAPIKeyRequired)
	})
}

func TestAssistant_Close(t *testing.T) {
	cfg := config.Default()
	cfg.Index.Path = t.TempDir()
	provider := mock.NewMockProvider()
	a, err := New(cfg, WithProvider(provider), WithSearcher(&stubSearcher{}))
	require.NoError(t, err)

	assert.NoError(t, a.Close())
	assert.True(t, provider.(*mock.MockProvider).Closed())
}

func TestAssistant_Invoke(t *testing.T) {
	ctx := context.Background()

	t.Run("blank question is rejected", func(t *testing.T) {
		completer := routedCompleter(core.CourseInfoToken, "unused")
		a := newTestAssistant(t, completer, &stubSearcher{})

		_, err := a.Invoke(ctx, "   ")
		assert.ErrorIs(t, err, core.ErrEmptyQuestion)
		assert.Zero(t, completer.CallCount())
	})

	t.Run("course question answered from ingested catalog", func(t *testing.T) {
		completer := routedCompleter(core.CourseInfoToken, "CS 101 covers programming fundamentals.")
		searcher := &stubSearcher{}
		a := newTestAssistant(t, completer, searcher)

		pipeline, err := a.NewIngestionPipeline()
		require.NoError(t, err)
		defer pipeline.Release()
		_, err = pipeline.IngestDocument(ctx, "catalog.txt",
			[]byte("CS 101 Introduction to Programming. Prerequisites: none."), false)
		require.NoError(t, err)

		state, err := a.Invoke(ctx, "What does CS 101 cover?")
		require.NoError(t, err)
		assert.Equal(t, core.SourceCourseInfo, state.SourceTool)
		assert.Contains(t, state.RetrievedContext, "Introduction to Programming")
		assert.Equal(t, "CS 101 covers programming fundamentals.", state.Answer())
		assert.Zero(t, searcher.calls)
	})

	t.Run("web question is summarized", func(t *testing.T) {
		completer := routedCompleter(core.WebSearchToken, "It is sunny.")
		searcher := &stubSearcher{result: websearch.Text("Forecast: sunny, 24C")}
		a := newTestAssistant(t, completer, searcher)

		answer, err := a.Ask(ctx, "What's the weather today?")
		require.NoError(t, err)
		assert.Equal(t, "It is sunny.", answer)
		assert.Equal(t, 1, searcher.calls)
	})

	t.Run("search failure surfaces", func(t *testing.T) {
		completer := routedCompleter(core.WebSearchToken, "unused")
		a := newTestAssistant(t, completer, &stubSearcher{err: errors.New("boom")})

		state, err := a.Invoke(ctx, "Who won the match?")
		assert.Error(t, err)
		assert.Nil(t, state)
	})
}

func TestAssistant_NewReembedder(t *testing.T) {
	a := newTestAssistant(t, mock.NewMockCompleter(), &stubSearcher{})
	r, err := a.NewReembedder(nil, nil)
	require.NoError(t, err)
	stats, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Passages)
}
