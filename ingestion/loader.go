package ingestion

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/schema"
)

// DefaultSources are the course catalogs shipped with the project.
var DefaultSources = []string{
	"data/BA_Catalog.pdf",
	"data/CS_Catalog.pdf",
	"data/Eng_Catalog.pdf",
	"data/Lit_Catalog.pdf",
	"data/Psy_Catalog.pdf",
}

// load parses data according to the extension of source. PDF documents
// yield one document per page; text documents yield a single document.
func load(ctx context.Context, source string, data []byte) ([]schema.Document, error) {
	switch strings.ToLower(filepath.Ext(source)) {
	case ".pdf":
		loader := documentloaders.NewPDF(bytes.NewReader(data), int64(len(data)))
		docs, err := loader.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("parse pdf %s: %w", source, err)
		}
		return docs, nil
	case ".txt", ".md", "":
		return documentloaders.NewText(bytes.NewReader(data)).Load(ctx)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, source)
	}
}
