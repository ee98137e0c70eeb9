package processor

import (
	"fmt"
	"iter"

	"github.com/tmc/langchaingo/textsplitter"
)

// WindowChunker cuts text into fixed windows of size runes, each starting
// overlap runes before the end of the previous one. The zero value yields
// no chunks; use NewWindowChunker.
type WindowChunker struct {
	size    int
	overlap int
}

func NewWindowChunker(size, overlap int) (*WindowChunker, error) {
	if err := checkWindow(size, overlap); err != nil {
		return nil, err
	}
	return &WindowChunker{size: size, overlap: overlap}, nil
}

// Chunks returns a lazy sequence; every range over it starts from the beginning.
func (c *WindowChunker) Chunks(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if checkWindow(c.size, c.overlap) != nil {
			return
		}
		runes := []rune(text)
		step := c.size - c.overlap
		for start := 0; start < len(runes); start += step {
			end := min(start+c.size, len(runes))
			if !yield(string(runes[start:end])) {
				return
			}
			if end == len(runes) {
				return
			}
		}
	}
}

// RecursiveChunker splits on paragraph, line and word boundaries before
// falling back to characters, so boundaries are approximate.
type RecursiveChunker struct {
	splitter textsplitter.RecursiveCharacter
}

func NewRecursiveChunker(size, overlap int) (*RecursiveChunker, error) {
	if err := checkWindow(size, overlap); err != nil {
		return nil, err
	}
	return &RecursiveChunker{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(size),
			textsplitter.WithChunkOverlap(overlap),
		),
	}, nil
}

func (c *RecursiveChunker) Chunks(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if text == "" {
			return
		}
		chunks, err := c.splitter.SplitText(text)
		if err != nil {
			// SplitText only fails on misconfiguration, which the constructor rejects.
			return
		}
		for _, chunk := range chunks {
			if !yield(chunk) {
				return
			}
		}
	}
}

func checkWindow(size, overlap int) error {
	if size < 1 {
		return fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return fmt.Errorf("chunk overlap must be in [0, %d), got %d", size, overlap)
	}
	return nil
}
