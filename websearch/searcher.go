package websearch

import "context"

// Searcher runs a web search for query and resolves the provider payload.
// Implementations must be safe for concurrent use.
type Searcher interface {
	Search(ctx context.Context, query string) (Result, error)
}
