package prompt

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"
	"github.com/xhad/srdx/internal/models"
)

// DocumentTextVar is the template variable holding the concatenated chunks.
const DocumentTextVar = "document_text"

//go:embed templates/extraction.tmpl
var extractionTemplate string

// ExtractionTemplate renders the schema-extraction instruction around the document text.
type ExtractionTemplate struct {
	template prompts.PromptTemplate
}

func NewExtractionTemplate() ExtractionTemplate {
	return ExtractionTemplate{
		template: prompts.NewPromptTemplate(extractionTemplate, []string{DocumentTextVar}),
	}
}

// LoadExtractionTemplate reads a Go template from path. An empty path yields the built-in template.
func LoadExtractionTemplate(path string) (ExtractionTemplate, error) {
	if path == "" {
		return NewExtractionTemplate(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ExtractionTemplate{}, fmt.Errorf("failed to read prompt template: %w", err)
	}
	return ExtractionTemplate{
		template: prompts.NewPromptTemplate(string(data), []string{DocumentTextVar}),
	}, nil
}

func (t ExtractionTemplate) Render(documentText string) (string, error) {
	rendered, err := t.template.Format(map[string]any{
		DocumentTextVar: documentText,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return rendered, nil
}

// ImageEncoding selects how the image is embedded in a vision message.
type ImageEncoding int

const (
	// ImageAsDataURI embeds a data URI image_url part (OpenAI-compatible APIs).
	ImageAsDataURI ImageEncoding = iota
	// ImageAsBinary attaches the raw bytes (Ollama).
	ImageAsBinary
)

// VisionMessage combines the instruction and the image into one user message.
func VisionMessage(instruction string, image models.ImagePayload, encoding ImageEncoding) llms.MessageContent {
	var imagePart llms.ContentPart
	switch encoding {
	case ImageAsBinary:
		imagePart = llms.BinaryPart(image.MIMEType, image.Data)
	default:
		imagePart = llms.ImageURLPart(image.DataURI())
	}

	return llms.MessageContent{
		Role: llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{
			llms.TextPart(instruction),
			imagePart,
		},
	}
}
