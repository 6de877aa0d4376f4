// Package mock provides test doubles for the ai package interfaces.
//
// Mocks return deterministic results so tests can run without network
// access. Behavior can be replaced per test through the exported func fields.
//
// # Usage
//
//	completer := mock.NewMockCompleter()
//	completer.CompleteFunc = func(ctx context.Context, prompt string) (string, error) {
//	    return "web_search", nil
//	}
//
//	embedder := mock.NewMockEmbedder()
//	vector, _ := embedder.EmbedText(ctx, "test")
//
//	// Check call counts
//	count := completer.CallCount()
//
// # Default Behavior
//
//   - MockCompleter: returns the Response field (empty by default)
//   - MockEmbedder: returns unit-length vectors derived from the text hash
//   - MockProvider: aggregates a mock completer and a mock embedder
package mock
