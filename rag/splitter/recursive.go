// Package splitter provides text splitters for chunking documents before
// embedding.
package splitter

import (
	"fmt"
	"maps"
	"strings"
	"unicode/utf8"

	"github.com/smallnest/reflective/rag"
)

// RecursiveCharacterTextSplitter recursively splits text while keeping related pieces together
type RecursiveCharacterTextSplitter struct {
	separators   []string
	chunkSize    int
	chunkOverlap int
}

// Option configures the RecursiveCharacterTextSplitter
type Option func(*RecursiveCharacterTextSplitter)

// WithChunkSize sets the chunk size for the splitter
func WithChunkSize(size int) Option {
	return func(s *RecursiveCharacterTextSplitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithChunkOverlap sets the chunk overlap for the splitter
func WithChunkOverlap(overlap int) Option {
	return func(s *RecursiveCharacterTextSplitter) {
		if overlap >= 0 {
			s.chunkOverlap = overlap
		}
	}
}

// WithSeparators sets custom separators for the splitter
func WithSeparators(separators []string) Option {
	return func(s *RecursiveCharacterTextSplitter) {
		if len(separators) > 0 {
			s.separators = separators
		}
	}
}

// NewRecursiveCharacterTextSplitter creates a new RecursiveCharacterTextSplitter
func NewRecursiveCharacterTextSplitter(opts ...Option) *RecursiveCharacterTextSplitter {
	s := &RecursiveCharacterTextSplitter{
		separators:   []string{"\n\n", "\n", " ", ""},
		chunkSize:    1000,
		chunkOverlap: 200,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.chunkOverlap >= s.chunkSize {
		s.chunkOverlap = s.chunkSize / 2
	}
	return s
}

// SplitText splits text into chunks of at most chunkSize characters,
// preferring to break on the earliest separator that keeps pieces whole.
func (s *RecursiveCharacterTextSplitter) SplitText(text string) []string {
	chunks := s.split(text, s.separators)

	out := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		if strings.TrimSpace(chunk) != "" {
			out = append(out, chunk)
		}
	}
	return out
}

func (s *RecursiveCharacterTextSplitter) split(text string, separators []string) []string {
	if len(text) <= s.chunkSize {
		return []string{text}
	}
	if len(separators) == 0 {
		return s.splitBySize(text)
	}

	sep := separators[0]
	if sep == "" {
		return s.splitBySize(text)
	}

	parts := strings.Split(text, sep)
	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
	}

	for _, part := range parts {
		if len(part) > s.chunkSize {
			flush()
			// This piece alone is too large; recurse with finer separators.
			chunks = append(chunks, s.split(part, separators[1:])...)
			continue
		}
		if current.Len() > 0 && current.Len()+len(sep)+len(part) > s.chunkSize {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString(sep)
		}
		current.WriteString(part)
	}
	flush()

	return s.applyOverlap(chunks)
}

func (s *RecursiveCharacterTextSplitter) splitBySize(text string) []string {
	var chunks []string
	step := s.chunkSize - s.chunkOverlap
	if step <= 0 {
		step = s.chunkSize
	}
	for start := 0; start < len(text); {
		end := start + s.chunkSize
		if end >= len(text) {
			chunks = append(chunks, text[start:])
			break
		}
		end = runeStart(text, end)
		if end <= start {
			// The chunk size is smaller than the rune at start; emit the
			// whole rune rather than splitting it.
			_, size := utf8.DecodeRuneInString(text[start:])
			end = start + size
		}
		chunks = append(chunks, text[start:end])

		next := runeStart(text, start+step)
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}

// runeStart rounds i down to the nearest rune boundary in s.
func runeStart(s string, i int) int {
	for i > 0 && i < len(s) && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

// applyOverlap prefixes each chunk with the tail of its predecessor so
// context is not lost at chunk boundaries.
func (s *RecursiveCharacterTextSplitter) applyOverlap(chunks []string) []string {
	if s.chunkOverlap == 0 || len(chunks) < 2 {
		return chunks
	}

	out := make([]string, len(chunks))
	out[0] = chunks[0]
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		overlap := prev
		if len(prev) > s.chunkOverlap {
			overlap = prev[runeStart(prev, len(prev)-s.chunkOverlap):]
		}
		out[i] = overlap + chunks[i]
	}
	return out
}

// SplitDocuments splits documents into chunk documents, preserving metadata
// and recording the parent document ID on each chunk.
func (s *RecursiveCharacterTextSplitter) SplitDocuments(docs []rag.Document) []rag.Document {
	var out []rag.Document
	for _, doc := range docs {
		textChunks := s.SplitText(doc.Content)
		for i, chunk := range textChunks {
			metadata := make(map[string]any)
			maps.Copy(metadata, doc.Metadata)
			metadata["chunk_index"] = i
			metadata["chunk_total"] = len(textChunks)
			metadata["parent_id"] = doc.ID

			out = append(out, rag.Document{
				ID:        fmt.Sprintf("%s_chunk_%d", doc.ID, i),
				Content:   chunk,
				Metadata:  metadata,
				CreatedAt: doc.CreatedAt,
			})
		}
	}
	return out
}
