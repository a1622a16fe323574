package rag

import (
	"context"
	"time"
)

// Document represents a document with content and metadata
type Document struct {
	ID        string
	Content   string
	Metadata  map[string]any
	Embedding []float32
	CreatedAt time.Time
}

// DocumentSearchResult is a document with its similarity score
type DocumentSearchResult struct {
	Document Document
	Score    float64
}

// DocumentLoader loads documents from a source
type DocumentLoader interface {
	Load(ctx context.Context) ([]Document, error)
}

// TextSplitter splits documents into smaller chunks
type TextSplitter interface {
	SplitText(text string) []string
	SplitDocuments(docs []Document) []Document
}

// Embedder generates embeddings for text
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// VectorStore stores documents and serves similarity search
type VectorStore interface {
	Add(ctx context.Context, docs []Document) error
	Search(ctx context.Context, queryEmbedding []float32, k int) ([]DocumentSearchResult, error)
	Len() int
}

// Retriever retrieves relevant documents for a query
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]DocumentSearchResult, error)
}

// QueryResult is the outcome of one RAG query
type QueryResult struct {
	Query      string
	Answer     string
	Context    string
	Sources    []Document
	Confidence float64
}
