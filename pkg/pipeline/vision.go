package pipeline

import (
	"context"
	"fmt"

	"github.com/xhad/srdx/internal/models"
	"github.com/xhad/srdx/internal/types"
)

type VisionConfig struct {
	Encoder     types.ImageEncoder
	Model       types.VisionModel
	ModelName   string
	Instruction string
	Archive     types.Archive

	OnEncoded      func(image models.ImagePayload)
	OnArchiveError func(err error)
}

// Vision sends one image with a fixed instruction and returns the model's text.
type Vision struct {
	config VisionConfig
}

func NewVision(config VisionConfig) (*Vision, error) {
	if config.Encoder == nil || config.Model == nil {
		return nil, fmt.Errorf("vision pipeline needs an encoder and a model")
	}
	if config.Instruction == "" {
		return nil, fmt.Errorf("vision pipeline needs an instruction")
	}
	return &Vision{config: config}, nil
}

func (v *Vision) Run(ctx context.Context, path string) (string, error) {
	image, err := v.config.Encoder.Encode(path)
	if err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	if v.config.OnEncoded != nil {
		v.config.OnEncoded(image)
	}

	response, err := v.config.Model.Describe(ctx, v.config.Instruction, image)
	if err != nil {
		return "", err
	}

	if v.config.Archive != nil {
		err := v.config.Archive.Record(ctx, models.Run{
			Pipeline: NameVision,
			Source:   path,
			Model:    v.config.ModelName,
			Output:   []byte(response),
		})
		if err != nil && v.config.OnArchiveError != nil {
			v.config.OnArchiveError(err)
		}
	}

	return response, nil
}
