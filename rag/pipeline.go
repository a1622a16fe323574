package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/smallnest/reflective/log"
)

// PipelineConfig configures a RAG pipeline
type PipelineConfig struct {
	// Retrieval configuration
	TopK           int     // Number of documents to retrieve
	ScoreThreshold float64 // Minimum relevance score

	// Generation configuration
	SystemPrompt string

	// Components
	Loader      DocumentLoader
	Splitter    TextSplitter
	Embedder    Embedder
	VectorStore VectorStore
	Retriever   Retriever
	LLM         llms.Model

	Logger log.Logger
}

// DefaultPipelineConfig returns a default RAG configuration
func DefaultPipelineConfig() *PipelineConfig {
	return &PipelineConfig{
		TopK:           4,
		ScoreThreshold: 0.0,
		SystemPrompt:   "You are a helpful assistant. Answer the question based on the provided context. If you cannot answer based on the context, say so.",
	}
}

// Pipeline is a retrieve-then-generate pipeline: documents are ingested into
// a vector store, and each query retrieves the most similar chunks as
// context for the model.
type Pipeline struct {
	config *PipelineConfig
	logger log.Logger
}

// NewPipeline creates a pipeline. Retriever and LLM are required for
// queries; Loader, Splitter, Embedder and VectorStore are required for
// ingestion.
func NewPipeline(config *PipelineConfig) (*Pipeline, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}

	defaults := DefaultPipelineConfig()
	if config.TopK <= 0 {
		config.TopK = defaults.TopK
	}
	if config.SystemPrompt == "" {
		config.SystemPrompt = defaults.SystemPrompt
	}

	logger := config.Logger
	if logger == nil {
		logger = log.GetDefaultLogger()
	}

	return &Pipeline{config: config, logger: logger}, nil
}

// Ingest loads documents from the configured loader, splits them and adds
// them to the vector store. It returns the number of chunks stored.
func (p *Pipeline) Ingest(ctx context.Context) (int, error) {
	if p.config.Loader == nil {
		return 0, fmt.Errorf("loader is required for ingestion")
	}

	docs, err := p.config.Loader.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load documents: %w", err)
	}

	return p.IngestDocuments(ctx, docs)
}

// IngestDocuments splits and stores the given documents.
func (p *Pipeline) IngestDocuments(ctx context.Context, docs []Document) (int, error) {
	if p.config.VectorStore == nil {
		return 0, fmt.Errorf("vector store is required for ingestion")
	}

	chunks := docs
	if p.config.Splitter != nil {
		chunks = p.config.Splitter.SplitDocuments(docs)
	}
	if len(chunks) == 0 {
		return 0, nil
	}

	if p.config.Embedder != nil {
		texts := make([]string, len(chunks))
		for i, chunk := range chunks {
			texts[i] = chunk.Content
		}
		embeddings, err := p.config.Embedder.EmbedDocuments(ctx, texts)
		if err != nil {
			return 0, fmt.Errorf("failed to embed documents: %w", err)
		}
		if len(embeddings) != len(chunks) {
			return 0, fmt.Errorf("embedder returned %d embeddings for %d chunks", len(embeddings), len(chunks))
		}
		for i := range chunks {
			chunks[i].Embedding = embeddings[i]
		}
	}

	if err := p.config.VectorStore.Add(ctx, chunks); err != nil {
		return 0, fmt.Errorf("failed to store documents: %w", err)
	}

	p.logger.Info("ingested %d chunks from %d documents", len(chunks), len(docs))
	return len(chunks), nil
}

// Query retrieves context for the question and generates an answer.
func (p *Pipeline) Query(ctx context.Context, query string) (*QueryResult, error) {
	return p.QueryWithHistory(ctx, query, "")
}

// QueryWithHistory is Query with a prior conversation transcript included
// in the prompt.
func (p *Pipeline) QueryWithHistory(ctx context.Context, query, history string) (*QueryResult, error) {
	if p.config.Retriever == nil {
		return nil, fmt.Errorf("retriever is required for queries")
	}
	if p.config.LLM == nil {
		return nil, fmt.Errorf("LLM is required for queries")
	}

	results, err := p.config.Retriever.Retrieve(ctx, query, p.config.TopK)
	if err != nil {
		return nil, fmt.Errorf("retrieval failed: %w", err)
	}

	filtered := results[:0]
	for _, r := range results {
		if r.Score >= p.config.ScoreThreshold {
			filtered = append(filtered, r)
		}
	}

	result := &QueryResult{Query: query}
	if len(filtered) == 0 {
		result.Answer = "No relevant information found."
		return result, nil
	}

	result.Context = buildContext(filtered)
	result.Confidence = averageScore(filtered)
	for _, r := range filtered {
		result.Sources = append(result.Sources, r.Document)
	}

	prompt := fmt.Sprintf("Context:\n%s\n\nQuestion: %s", result.Context, query)
	if history != "" {
		prompt = fmt.Sprintf("Conversation so far:\n%s\n\n%s", history, prompt)
	}

	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(p.config.SystemPrompt)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(prompt)},
		},
	}

	resp, err := p.config.LLM.GenerateContent(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("model returned no choices")
	}

	result.Answer = strings.TrimSpace(resp.Choices[0].Content)
	return result, nil
}

func buildContext(results []DocumentSearchResult) string {
	var sb strings.Builder
	for i, r := range results {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "[%d] %s", i+1, r.Document.Content)
	}
	return sb.String()
}

func averageScore(results []DocumentSearchResult) float64 {
	if len(results) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range results {
		sum += r.Score
	}
	return sum / float64(len(results))
}
