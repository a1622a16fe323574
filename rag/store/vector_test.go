package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/reflective/rag"
)

func TestInMemoryVectorStore_SearchOrder(t *testing.T) {
	s := NewInMemoryVectorStore(nil)
	ctx := context.Background()

	err := s.Add(ctx, []rag.Document{
		{ID: "x", Content: "x axis", Embedding: []float32{1, 0}},
		{ID: "y", Content: "y axis", Embedding: []float32{0, 1}},
		{ID: "xy", Content: "diagonal", Embedding: []float32{1, 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, s.Len())

	results, err := s.Search(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "x", results[0].Document.ID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
	assert.Equal(t, "xy", results[1].Document.ID)
}

func TestInMemoryVectorStore_KBounds(t *testing.T) {
	s := NewInMemoryVectorStore(nil)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, []rag.Document{
		{ID: "a", Embedding: []float32{1}},
	}))

	results, err := s.Search(ctx, []float32{1}, 10)
	require.NoError(t, err)
	assert.Len(t, results, 1)

	_, err = s.Search(ctx, []float32{1}, 0)
	assert.Error(t, err)
}

func TestInMemoryVectorStore_NoEmbedderError(t *testing.T) {
	s := NewInMemoryVectorStore(nil)

	err := s.Add(context.Background(), []rag.Document{{ID: "a", Content: "text"}})
	assert.Error(t, err)
}

type constEmbedder struct {
	vec []float32
}

func (e constEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = e.vec
	}
	return out, nil
}

func (e constEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return e.vec, nil
}

func TestInMemoryVectorStore_EmbedsOnAdd(t *testing.T) {
	s := NewInMemoryVectorStore(constEmbedder{vec: []float32{0.5, 0.5}})
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, []rag.Document{{ID: "a", Content: "text"}}))

	results, err := s.Search(ctx, []float32{0.5, 0.5}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	// Mismatched or zero vectors score zero.
	assert.Equal(t, 0.0, cosineSimilarity([]float32{1}, []float32{1, 2}))
	assert.Equal(t, 0.0, cosineSimilarity([]float32{0, 0}, []float32{1, 0}))
}
