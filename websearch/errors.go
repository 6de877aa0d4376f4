package websearch

import "errors"

var (
	// ErrAPIKeyRequired is returned when a provider needs credentials that were not supplied.
	ErrAPIKeyRequired = errors.New("web search api key required")

	// ErrUpstreamStatus is returned when the provider answers with a non-2xx status.
	ErrUpstreamStatus = errors.New("web search provider returned error status")
)
