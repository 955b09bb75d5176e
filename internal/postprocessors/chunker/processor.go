// Package chunker splits document text into overlapping bounded-size
// chunks, cutting on the largest semantic boundary available.
package chunker

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

// sentenceEnds are the boundaries tried when no paragraph break fits.
var sentenceEnds = []string{". ", "! ", "? ", "\n"}

// paragraphSep is the preferred cut boundary.
const paragraphSep = "\n\n"

// Processor splits document content into bounded overlapping chunks.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// New creates a chunker. It enforces chunkSize > overlap >= 0;
// violations are a configuration error, never retried.
func New(chunkSize, overlap int) (*Processor, error) {
	settings := domain.ChunkingSettings{ChunkSize: chunkSize, Overlap: overlap}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &Processor{chunkSize: chunkSize, overlap: overlap}, nil
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document content into chunks. Input chunks are
// ignored; this processor creates new chunks from document content.
// Each chunk receives its own copy of the document metadata.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, domain.ErrInvalidInput
	}
	if doc.Text == "" {
		return nil, nil
	}

	spans := split(doc.Text, p.chunkSize, p.overlap)
	chunks := make([]domain.Chunk, 0, len(spans))
	for i, sp := range spans {
		chunks = append(chunks, domain.Chunk{
			ID:          uuid.New().String(),
			DocumentURI: doc.URI,
			Text:        doc.Text[sp.start:sp.end],
			Position:    i,
			Metadata:    copyMetadata(doc.Metadata),
		})
	}
	return chunks, nil
}

// span is a half-open [start, end) byte range within the source text.
type span struct {
	start int
	end   int
}

// split computes the chunk spans for text. Every byte of text is
// covered by at least one span, and no span exceeds size bytes.
// Interior consecutive spans share overlap bytes; the tail span
// starts flush at the previous cut.
func split(text string, size, overlap int) []span {
	n := len(text)
	if n == 0 {
		return nil
	}
	if n <= size {
		return []span{{0, n}}
	}

	var spans []span
	pos := 0
	for {
		if n-pos <= size {
			spans = append(spans, span{pos, n})
			return spans
		}
		end := cutPoint(text, pos, pos+size)
		spans = append(spans, span{pos, end})
		next := end - overlap
		if next <= pos || n-next <= size {
			// Tail chunk, or a boundary cut shorter than the
			// overlap: start flush at the cut.
			next = end
		}
		pos = next
	}
}

// cutPoint picks where to end the chunk starting at start, given the
// hard limit. It prefers a paragraph break, then a sentence end, and
// falls back to a hard cut on a rune boundary. Boundary cuts are only
// taken in the second half of the window so chunks stay usefully sized.
func cutPoint(text string, start, limit int) int {
	window := text[start:limit]
	half := len(window) / 2

	if idx := strings.LastIndex(window, paragraphSep); idx >= 0 {
		cut := idx + len(paragraphSep)
		if cut > half {
			return start + cut
		}
	}

	best := -1
	for _, sep := range sentenceEnds {
		if idx := strings.LastIndex(window, sep); idx >= 0 {
			if cut := idx + len(sep); cut > best {
				best = cut
			}
		}
	}
	if best > half {
		return start + best
	}

	// Hard cut: back up to a rune boundary.
	cut := limit
	for cut > start && cut < len(text) && !utf8.RuneStart(text[cut]) {
		cut--
	}
	if cut <= start {
		cut = limit
	}
	return cut
}

// copyMetadata duplicates a metadata map so chunks never alias the
// parent document's map.
func copyMetadata(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
