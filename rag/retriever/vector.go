// Package retriever provides retrievers over vector stores.
package retriever

import (
	"context"
	"fmt"

	"github.com/smallnest/reflective/rag"
)

// VectorRetriever retrieves documents by embedding the query and searching
// a vector store.
type VectorRetriever struct {
	store    rag.VectorStore
	embedder rag.Embedder
}

// NewVectorRetriever creates a retriever over store using embedder for
// queries.
func NewVectorRetriever(store rag.VectorStore, embedder rag.Embedder) *VectorRetriever {
	return &VectorRetriever{store: store, embedder: embedder}
}

// Retrieve embeds query and returns the k most similar documents.
func (r *VectorRetriever) Retrieve(ctx context.Context, query string, k int) ([]rag.DocumentSearchResult, error) {
	if r.embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if r.store == nil {
		return nil, fmt.Errorf("vector store is required")
	}

	embedding, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	return r.store.Search(ctx, embedding, k)
}
