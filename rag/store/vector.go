// Package store provides vector stores for the RAG pipeline.
package store

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/smallnest/reflective/rag"
)

// InMemoryVectorStore is a mutex-guarded in-memory vector store using
// cosine similarity.
type InMemoryVectorStore struct {
	mu       sync.RWMutex
	docs     []rag.Document
	embedder rag.Embedder
}

// NewInMemoryVectorStore creates an empty store. The embedder is used to
// embed documents added without an embedding; it may be nil when all
// documents arrive pre-embedded.
func NewInMemoryVectorStore(embedder rag.Embedder) *InMemoryVectorStore {
	return &InMemoryVectorStore{embedder: embedder}
}

// Add stores documents, embedding any that lack an embedding.
func (s *InMemoryVectorStore) Add(ctx context.Context, docs []rag.Document) error {
	prepared := make([]rag.Document, 0, len(docs))
	for _, doc := range docs {
		if len(doc.Embedding) == 0 {
			if s.embedder == nil {
				return fmt.Errorf("document %q has no embedding and no embedder is configured", doc.ID)
			}
			embedding, err := s.embedder.EmbedQuery(ctx, doc.Content)
			if err != nil {
				return fmt.Errorf("failed to embed document %q: %w", doc.ID, err)
			}
			doc.Embedding = embedding
		}
		prepared = append(prepared, doc)
	}

	s.mu.Lock()
	s.docs = append(s.docs, prepared...)
	s.mu.Unlock()
	return nil
}

// Search returns the k nearest documents by cosine similarity, best first.
func (s *InMemoryVectorStore) Search(ctx context.Context, queryEmbedding []float32, k int) ([]rag.DocumentSearchResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]rag.DocumentSearchResult, 0, len(s.docs))
	for _, doc := range s.docs {
		results = append(results, rag.DocumentSearchResult{
			Document: doc,
			Score:    cosineSimilarity(queryEmbedding, doc.Embedding),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Len returns the number of stored documents.
func (s *InMemoryVectorStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
