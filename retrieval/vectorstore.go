package retrieval

import (
	"context"
	"fmt"
	"log/slog"

	gopinecone "github.com/pinecone-io/go-pinecone/pinecone"
	"github.com/poiesic/intellicourse/ai"
	"github.com/poiesic/intellicourse/core"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores"
	"github.com/tmc/langchaingo/vectorstores/pinecone"
	"google.golang.org/protobuf/types/known/structpb"
)

// Metadata keys written by the ingestion pipeline and read back here.
const (
	MetadataSource = "source"
	MetadataPage   = "page"
	MetadataChunk  = "chunk"
)

// PineconeConfig locates a Pinecone index.
type PineconeConfig struct {
	// Host is the index host, e.g. "courses-abc123.svc.us-east-1.pinecone.io".
	Host string
	// APIKey authenticates against the Pinecone project.
	APIKey string
	// Namespace partitions vectors inside the index. Empty uses the default.
	Namespace string
}

// VectorStoreRetriever searches a langchaingo vector store.
type VectorStoreRetriever struct {
	store  vectorstores.VectorStore
	logger *slog.Logger
}

var _ Retriever = (*VectorStoreRetriever)(nil)

// NewVectorStoreRetriever wraps an existing vector store.
func NewVectorStoreRetriever(store vectorstores.VectorStore) (*VectorStoreRetriever, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	return &VectorStoreRetriever{
		store:  store,
		logger: slog.Default().With("component", "vectorstore-retriever"),
	}, nil
}

// SourceDeleter is implemented by vector stores that can drop every
// document previously added for a source.
type SourceDeleter interface {
	DeleteSource(ctx context.Context, source string) error
}

// PineconeStore is a langchaingo Pinecone store that can also delete the
// vectors of one source, so re-ingestion replaces instead of appending.
type PineconeStore struct {
	pinecone.Store
	index *gopinecone.IndexConnection
}

var (
	_ vectorstores.VectorStore = (*PineconeStore)(nil)
	_ SourceDeleter            = (*PineconeStore)(nil)
)

// NewPineconeStore connects to a Pinecone index, embedding queries with embedder.
func NewPineconeStore(cfg PineconeConfig, embedder ai.Embedder) (*PineconeStore, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if cfg.Host == "" {
		return nil, fmt.Errorf("pinecone: host is required")
	}

	opts := []pinecone.Option{
		pinecone.WithHost(cfg.Host),
		pinecone.WithEmbedder(EmbedderAdapter{Embedder: embedder}),
		pinecone.WithAPIKey(cfg.APIKey),
	}
	if cfg.Namespace != "" {
		opts = append(opts, pinecone.WithNameSpace(cfg.Namespace))
	}

	store, err := pinecone.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("pinecone: %w", err)
	}

	client, err := gopinecone.NewClient(gopinecone.NewClientParams{ApiKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("pinecone: %w", err)
	}
	index, err := client.Index(gopinecone.NewIndexConnParams{Host: cfg.Host, Namespace: cfg.Namespace})
	if err != nil {
		return nil, fmt.Errorf("pinecone: %w", err)
	}

	return &PineconeStore{Store: store, index: index}, nil
}

// DeleteSource removes every vector whose source metadata equals source.
func (s *PineconeStore) DeleteSource(ctx context.Context, source string) error {
	filter, err := sourceFilter(source)
	if err != nil {
		return err
	}
	if err := s.index.DeleteVectorsByFilter(ctx, filter); err != nil {
		return fmt.Errorf("pinecone: delete %s: %w", source, err)
	}
	return nil
}

// sourceFilter matches the metadata written by DocumentFromPassage.
func sourceFilter(source string) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		MetadataSource: map[string]any{"$eq": source},
	})
}

// Search runs a similarity search for query and converts the documents to passages.
func (r *VectorStoreRetriever) Search(ctx context.Context, query string, k int) ([]core.ScoredPassage, error) {
	if k <= 0 {
		return nil, ErrInvalidK
	}

	docs, err := r.store.SimilaritySearch(ctx, query, k)
	if err != nil {
		r.logger.Error("vector store search failed", "err", err)
		return nil, fmt.Errorf("similarity search: %w", err)
	}

	results := make([]core.ScoredPassage, 0, len(docs))
	for _, doc := range docs {
		results = append(results, core.ScoredPassage{
			Passage: PassageFromDocument(doc),
			Score:   doc.Score,
		})
	}

	r.logger.Debug("retrieved documents", "returned", len(results), "k", k)
	return results, nil
}

// PassageFromDocument converts a langchaingo document into a passage.
func PassageFromDocument(doc schema.Document) *core.Passage {
	p := &core.Passage{Text: doc.PageContent}
	if source, ok := doc.Metadata[MetadataSource].(string); ok {
		p.Source = source
	}
	p.Page = metadataInt(doc.Metadata, MetadataPage)
	p.Chunk = metadataInt(doc.Metadata, MetadataChunk)
	p.Id = core.PassageID(p.Source, p.Chunk, p.Text)
	return p
}

// DocumentFromPassage converts a passage into a langchaingo document.
func DocumentFromPassage(p *core.Passage) schema.Document {
	return schema.Document{
		PageContent: p.Text,
		Metadata: map[string]any{
			MetadataSource: p.Source,
			MetadataPage:   p.Page,
			MetadataChunk:  p.Chunk,
		},
	}
}

// metadataInt reads a numeric metadata value. Stores round-trip numbers
// through JSON, so float64 is as likely as int.
func metadataInt(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case float32:
		return int(v)
	default:
		return 0
	}
}

// EmbedderAdapter exposes an ai.Embedder as a langchaingo embeddings.Embedder.
type EmbedderAdapter struct {
	Embedder ai.Embedder
}

var _ embeddings.Embedder = EmbedderAdapter{}

// EmbedDocuments embeds a batch of texts.
func (a EmbedderAdapter) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return a.Embedder.EmbedTexts(ctx, texts)
}

// EmbedQuery embeds a single query.
func (a EmbedderAdapter) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return a.Embedder.EmbedText(ctx, text)
}
