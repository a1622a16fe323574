package rag

import (
	"context"
	"fmt"
	"maps"

	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/textsplitter"
)

// LangChainEmbedder adapts langchaingo's embeddings.Embedder to the Embedder interface
type LangChainEmbedder struct {
	embedder embeddings.Embedder
}

// NewLangChainEmbedder creates a new adapter for langchaingo embedders
func NewLangChainEmbedder(embedder embeddings.Embedder) *LangChainEmbedder {
	return &LangChainEmbedder{embedder: embedder}
}

// EmbedDocuments embeds texts using the underlying langchaingo embedder
func (e *LangChainEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return e.embedder.EmbedDocuments(ctx, texts)
}

// EmbedQuery embeds a query using the underlying langchaingo embedder
func (e *LangChainEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return e.embedder.EmbedQuery(ctx, text)
}

// LangChainDocumentLoader adapts langchaingo's documentloaders.Loader to the DocumentLoader interface
type LangChainDocumentLoader struct {
	loader documentloaders.Loader
}

// NewLangChainDocumentLoader creates a new adapter for langchaingo document loaders
func NewLangChainDocumentLoader(loader documentloaders.Loader) *LangChainDocumentLoader {
	return &LangChainDocumentLoader{loader: loader}
}

// Load loads documents using the underlying langchaingo loader
func (l *LangChainDocumentLoader) Load(ctx context.Context) ([]Document, error) {
	schemaDocs, err := l.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	return convertSchemaDocuments(schemaDocs), nil
}

// convertSchemaDocuments converts langchaingo schema.Document to the Document type
func convertSchemaDocuments(schemaDocs []schema.Document) []Document {
	docs := make([]Document, len(schemaDocs))
	for i, schemaDoc := range schemaDocs {
		metadata := make(map[string]any)
		maps.Copy(metadata, schemaDoc.Metadata)

		docs[i] = Document{
			Content:  schemaDoc.PageContent,
			Metadata: metadata,
		}

		if source, ok := schemaDoc.Metadata["source"]; ok {
			docs[i].ID = fmt.Sprintf("%v", source)
		} else {
			docs[i].ID = fmt.Sprintf("doc_%d", i)
		}
	}
	return docs
}

// LangChainTextSplitter adapts langchaingo's textsplitter.TextSplitter to the TextSplitter interface
type LangChainTextSplitter struct {
	splitter textsplitter.TextSplitter
}

// NewLangChainTextSplitter creates a new adapter for langchaingo text splitters
func NewLangChainTextSplitter(splitter textsplitter.TextSplitter) *LangChainTextSplitter {
	return &LangChainTextSplitter{splitter: splitter}
}

// SplitText splits text using the underlying langchaingo splitter. Split
// errors yield the text unsplit.
func (s *LangChainTextSplitter) SplitText(text string) []string {
	chunks, err := s.splitter.SplitText(text)
	if err != nil {
		return []string{text}
	}
	return chunks
}

// SplitDocuments splits documents using the underlying langchaingo splitter
func (s *LangChainTextSplitter) SplitDocuments(docs []Document) []Document {
	var out []Document
	for _, doc := range docs {
		for i, chunk := range s.SplitText(doc.Content) {
			metadata := make(map[string]any)
			maps.Copy(metadata, doc.Metadata)
			metadata["chunk_index"] = i
			metadata["parent_id"] = doc.ID

			out = append(out, Document{
				ID:        fmt.Sprintf("%s_chunk_%d", doc.ID, i),
				Content:   chunk,
				Metadata:  metadata,
				CreatedAt: doc.CreatedAt,
			})
		}
	}
	return out
}
