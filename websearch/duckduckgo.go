package websearch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tmc/langchaingo/tools/duckduckgo"
)

// userAgent is sent with DuckDuckGo requests, which reject empty agents.
const userAgent = "intellicourse/1.0 (+https://github.com/poiesic/intellicourse)"

// textTool is the subset of a langchaingo tool used here.
type textTool interface {
	Call(ctx context.Context, input string) (string, error)
}

// DuckDuckGo searches DuckDuckGo without credentials. Its output is plain
// text, so results are always RawText.
type DuckDuckGo struct {
	tool   textTool
	logger *slog.Logger
}

var _ Searcher = (*DuckDuckGo)(nil)

// NewDuckDuckGo creates a DuckDuckGo searcher returning up to maxResults hits.
func NewDuckDuckGo(maxResults int) (*DuckDuckGo, error) {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	tool, err := duckduckgo.New(maxResults, userAgent)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo: %w", err)
	}
	return newDuckDuckGo(tool), nil
}

func newDuckDuckGo(tool textTool) *DuckDuckGo {
	return &DuckDuckGo{
		tool:   tool,
		logger: slog.Default().With("component", "duckduckgo"),
	}
}

// Search runs the query. Tool errors, including "no results", propagate.
func (d *DuckDuckGo) Search(ctx context.Context, query string) (Result, error) {
	text, err := d.tool.Call(ctx, query)
	if err != nil {
		d.logger.Error("duckduckgo search failed", "err", err)
		return Result{}, fmt.Errorf("duckduckgo: %w", err)
	}
	return Text(text), nil
}
