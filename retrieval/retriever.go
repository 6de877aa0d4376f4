package retrieval

import (
	"context"
	"strings"

	"github.com/poiesic/intellicourse/core"
)

// DefaultK is the number of passages fetched per question.
const DefaultK = 4

// ContextSeparator joins passage texts into one answer context.
const ContextSeparator = "\n\n"

// Retriever returns the k passages most relevant to query, best first.
// Implementations must be safe for concurrent use.
type Retriever interface {
	Search(ctx context.Context, query string, k int) ([]core.ScoredPassage, error)
}

// JoinContext concatenates passage texts in rank order, separated by a blank line.
func JoinContext(passages []core.ScoredPassage) string {
	texts := make([]string, 0, len(passages))
	for _, p := range passages {
		if p.Passage == nil {
			continue
		}
		texts = append(texts, p.Passage.Text)
	}
	return strings.Join(texts, ContextSeparator)
}
