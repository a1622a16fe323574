// Package loader provides document loaders for the RAG pipeline.
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/smallnest/reflective/rag"
)

// TextLoader loads one document from a plain-text file.
type TextLoader struct {
	path string
}

// NewTextLoader creates a loader for the file at path.
func NewTextLoader(path string) *TextLoader {
	return &TextLoader{path: path}
}

// Load reads the file into a single document with the source path recorded
// in metadata.
func (l *TextLoader) Load(ctx context.Context) ([]rag.Document, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", l.path, err)
	}

	return []rag.Document{
		{
			ID:      filepath.Base(l.path),
			Content: string(data),
			Metadata: map[string]any{
				"source": l.path,
			},
		},
	}, nil
}

// StaticLoader serves a fixed set of in-memory documents, mainly for tests
// and demos.
type StaticLoader struct {
	docs []rag.Document
}

// NewStaticLoader creates a loader over docs.
func NewStaticLoader(docs []rag.Document) *StaticLoader {
	return &StaticLoader{docs: docs}
}

// Load returns a copy of the configured documents.
func (l *StaticLoader) Load(ctx context.Context) ([]rag.Document, error) {
	out := make([]rag.Document, len(l.docs))
	copy(out, l.docs)
	return out, nil
}
