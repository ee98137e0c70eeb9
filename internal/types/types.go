package types

import (
	"context"
	"iter"

	"github.com/xhad/srdx/internal/models"
)

// Core interfaces
type DocumentLoader interface {
	Load(ctx context.Context, source string) ([]models.Document, error)
}

type Chunker interface {
	Chunks(text string) iter.Seq[string]
}

type TextModel interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type VisionModel interface {
	Describe(ctx context.Context, instruction string, image models.ImagePayload) (string, error)
}

type ImageEncoder interface {
	Encode(path string) (models.ImagePayload, error)
}

type Archive interface {
	Record(ctx context.Context, run models.Run) error
}
