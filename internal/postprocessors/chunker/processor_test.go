package chunker

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

func TestNew_RejectsBadConfig(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
	}{
		{"overlap equals size", 500, 500},
		{"overlap exceeds size", 100, 200},
		{"negative overlap", 500, -1},
		{"zero size", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.size, tt.overlap)
			if !errors.Is(err, domain.ErrConfiguration) {
				t.Errorf("expected configuration error, got %v", err)
			}
		})
	}
}

func TestProcess_ExactWindowing(t *testing.T) {
	p, err := New(500, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc := &domain.Document{
		URI:      "http://x",
		Text:     strings.Repeat("A", 1200),
		Metadata: map[string]any{"url": "http://x"},
	}

	chunks, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}

	wantLens := []int{500, 500, 300}
	for i, chunk := range chunks {
		if len(chunk.Text) != wantLens[i] {
			t.Errorf("chunk %d: expected length %d, got %d", i, wantLens[i], len(chunk.Text))
		}
		if chunk.Position != i {
			t.Errorf("chunk %d: expected position %d, got %d", i, i, chunk.Position)
		}
		if chunk.Metadata["url"] != "http://x" {
			t.Errorf("chunk %d: metadata url not inherited", i)
		}
		if chunk.DocumentURI != "http://x" {
			t.Errorf("chunk %d: document URI not set", i)
		}
	}
}

func TestProcess_MetadataNotAliased(t *testing.T) {
	p, _ := New(500, 100)
	doc := &domain.Document{
		Text:     strings.Repeat("B", 1200),
		Metadata: map[string]any{"url": "http://x"},
	}

	chunks, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	chunks[0].Metadata["url"] = "mutated"

	if doc.Metadata["url"] != "http://x" {
		t.Error("document metadata mutated through chunk")
	}
	if chunks[1].Metadata["url"] != "http://x" {
		t.Error("sibling chunk metadata mutated")
	}
}

func TestProcess_EmptyDocument(t *testing.T) {
	p, _ := New(500, 100)

	chunks, err := p.Process(context.Background(), &domain.Document{Text: ""}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chunks != nil {
		t.Errorf("expected no chunks, got %d", len(chunks))
	}
}

func TestProcess_NilDocument(t *testing.T) {
	p, _ := New(500, 100)

	_, err := p.Process(context.Background(), nil, nil)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected invalid input error, got %v", err)
	}
}

func TestSplit_Coverage(t *testing.T) {
	texts := []string{
		strings.Repeat("A", 1200),
		strings.Repeat("sentence one. sentence two. ", 100),
		strings.Repeat("para\n\nmore text here. ", 80),
		strings.Repeat("C", 501),
		"short",
	}

	for _, text := range texts {
		spans := split(text, 500, 100)
		if len(spans) == 0 {
			t.Fatal("expected at least one span")
		}
		if spans[0].start != 0 {
			t.Errorf("first span starts at %d, want 0", spans[0].start)
		}
		if spans[len(spans)-1].end != len(text) {
			t.Errorf("last span ends at %d, want %d", spans[len(spans)-1].end, len(text))
		}
		for i := 1; i < len(spans); i++ {
			if spans[i].start > spans[i-1].end {
				t.Errorf("gap between span %d and %d", i-1, i)
			}
		}
	}
}

func TestSplit_Bound(t *testing.T) {
	text := strings.Repeat("word word word. ", 200)
	for _, sp := range split(text, 500, 100) {
		if sp.end-sp.start > 500 {
			t.Errorf("span length %d exceeds chunk size", sp.end-sp.start)
		}
	}
}

func TestSplit_InteriorOverlap(t *testing.T) {
	// No separators, so cuts are hard and interior spans share
	// exactly the configured overlap.
	spans := split(strings.Repeat("A", 2100), 500, 100)

	for i := 1; i < len(spans)-1; i++ {
		got := spans[i-1].end - spans[i].start
		if got != 100 {
			t.Errorf("spans %d/%d share %d bytes, want 100", i-1, i, got)
		}
	}
}

func TestSplit_PrefersParagraphBoundary(t *testing.T) {
	// A paragraph break in the second half of the window wins over
	// the hard cut at 500.
	text := strings.Repeat("a", 400) + "\n\n" + strings.Repeat("b", 600)

	spans := split(text, 500, 100)

	if spans[0].end != 402 {
		t.Errorf("first cut at %d, want 402 (after paragraph break)", spans[0].end)
	}
}

func TestSplit_PrefersSentenceBoundary(t *testing.T) {
	// No paragraph break; the sentence end in the second half wins.
	text := strings.Repeat("a", 398) + ". " + strings.Repeat("b", 600)

	spans := split(text, 500, 100)

	if spans[0].end != 400 {
		t.Errorf("first cut at %d, want 400 (after sentence end)", spans[0].end)
	}
}

func TestSplit_SingleChunk(t *testing.T) {
	spans := split("tiny", 500, 100)
	if len(spans) != 1 || spans[0] != (span{0, 4}) {
		t.Errorf("unexpected spans: %v", spans)
	}
}

func TestSplit_Deterministic(t *testing.T) {
	text := strings.Repeat("some prose. with sentences\n\nand paragraphs. ", 60)

	first := split(text, 500, 100)
	second := split(text, 500, 100)

	if len(first) != len(second) {
		t.Fatalf("span counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("span %d differs: %v vs %v", i, first[i], second[i])
		}
	}
}
