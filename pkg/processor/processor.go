package processor

import (
	"fmt"
	"slices"
	"strings"

	"github.com/xhad/srdx/internal/models"
	"github.com/xhad/srdx/internal/types"
)

const (
	StrategyWindow    = "window"
	StrategyRecursive = "recursive"
)

type ProcessorConfig struct {
	ChunkSize    int
	ChunkOverlap int
	Strategy     string
	Separator    string
}

type Processor struct {
	config  ProcessorConfig
	chunker types.Chunker
}

func NewWithConfig(config ProcessorConfig) (*Processor, error) {
	if config.ChunkSize == 0 {
		config.ChunkSize = 2000
	}
	if config.Strategy == "" {
		config.Strategy = StrategyWindow
	}
	if config.Separator == "" {
		config.Separator = "\n\n"
	}

	var (
		chunker types.Chunker
		err     error
	)
	switch config.Strategy {
	case StrategyWindow:
		chunker, err = NewWindowChunker(config.ChunkSize, config.ChunkOverlap)
	case StrategyRecursive:
		chunker, err = NewRecursiveChunker(config.ChunkSize, config.ChunkOverlap)
	default:
		return nil, fmt.Errorf("unknown chunk strategy %q", config.Strategy)
	}
	if err != nil {
		return nil, err
	}

	return &Processor{
		config:  config,
		chunker: chunker,
	}, nil
}

func (p *Processor) Chunker() types.Chunker {
	return p.chunker
}

func (p *Processor) Process(docs []models.Document) ([]models.ProcessedDocument, error) {
	var processed []models.ProcessedDocument

	for _, doc := range docs {
		processed = append(processed, models.ProcessedDocument{
			Document: doc,
			Chunks:   slices.Collect(p.chunker.Chunks(doc.Content)),
		})
	}

	return processed, nil
}

// Join concatenates every chunk of every document, in order.
func (p *Processor) Join(docs []models.ProcessedDocument) string {
	var chunks []string
	for _, doc := range docs {
		chunks = append(chunks, doc.Chunks...)
	}
	return strings.Join(chunks, p.config.Separator)
}

// CountChunks totals the chunks across processed documents.
func CountChunks(docs []models.ProcessedDocument) int {
	total := 0
	for _, doc := range docs {
		total += len(doc.Chunks)
	}
	return total
}
