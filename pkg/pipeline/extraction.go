package pipeline

import (
	"context"
	"fmt"

	"github.com/xhad/srdx/internal/models"
	"github.com/xhad/srdx/internal/types"
	"github.com/xhad/srdx/pkg/extract"
	"github.com/xhad/srdx/pkg/processor"
	"github.com/xhad/srdx/pkg/prompt"
)

const (
	NameExtraction = "extract"
	NameVision     = "vision"
)

type ExtractionConfig struct {
	Loader    types.DocumentLoader
	Processor *processor.Processor
	Template  prompt.ExtractionTemplate
	Model     types.TextModel
	ModelName string
	// Archive is optional.
	Archive types.Archive

	OnLoaded       func(documents int)
	OnChunked      func(chunks int)
	OnPrompt       func(rendered string)
	OnArchiveError func(err error)
}

// Extraction loads a document, chunks it, asks the model for structured
// fields and parses the answer.
type Extraction struct {
	config ExtractionConfig
}

func NewExtraction(config ExtractionConfig) (*Extraction, error) {
	if config.Loader == nil || config.Processor == nil || config.Model == nil {
		return nil, fmt.Errorf("extraction pipeline needs a loader, a processor and a model")
	}
	return &Extraction{config: config}, nil
}

func (e *Extraction) Run(ctx context.Context, source string) (extract.Result, error) {
	docs, err := e.config.Loader.Load(ctx, source)
	if err != nil {
		return extract.Result{}, fmt.Errorf("failed to load document: %w", err)
	}
	if e.config.OnLoaded != nil {
		e.config.OnLoaded(len(docs))
	}

	processed, err := e.config.Processor.Process(docs)
	if err != nil {
		return extract.Result{}, fmt.Errorf("failed to split document: %w", err)
	}
	if e.config.OnChunked != nil {
		e.config.OnChunked(processor.CountChunks(processed))
	}

	rendered, err := e.config.Template.Render(e.config.Processor.Join(processed))
	if err != nil {
		return extract.Result{}, err
	}
	if e.config.OnPrompt != nil {
		e.config.OnPrompt(rendered)
	}

	raw, err := e.config.Model.Complete(ctx, rendered)
	if err != nil {
		return extract.Result{}, err
	}

	result := extract.Parse(raw)
	e.archive(ctx, source, result)

	return result, nil
}

func (e *Extraction) archive(ctx context.Context, source string, result extract.Result) {
	if e.config.Archive == nil {
		return
	}
	output, err := result.MarshalJSON()
	if err == nil {
		err = e.config.Archive.Record(ctx, models.Run{
			Pipeline: NameExtraction,
			Source:   source,
			Model:    e.config.ModelName,
			Output:   output,
			Failed:   !result.OK(),
		})
	}
	if err != nil && e.config.OnArchiveError != nil {
		e.config.OnArchiveError(err)
	}
}
