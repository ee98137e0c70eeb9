package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/xhad/srdx/internal/errs"
	"github.com/xhad/srdx/internal/models"
	"github.com/xhad/srdx/pkg/prompt"
)

const (
	ProviderGroq   = "groq"
	ProviderOllama = "ollama"
)

// ChatConfig represents the configuration for a chat engine.
type ChatConfig struct {
	Provider    string
	Model       string
	BaseURL     string
	APIKey      string
	APIKeyEnv   string // reported when APIKey is missing
	Temperature float64
	MaxTokens   int
	HTTPClient  *http.Client
	// Stream receives response chunks as they arrive. Optional.
	Stream func(ctx context.Context, chunk []byte) error
}

// ChatEngine sends single synchronous requests to a hosted or local model.
type ChatEngine struct {
	config ChatConfig
	llm    llms.Model
}

// NewWithConfig creates a new ChatEngine with the given configuration.
func NewWithConfig(config ChatConfig) (*ChatEngine, error) {
	if config.Provider == "" {
		config.Provider = ProviderGroq
	}
	if config.Model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if config.Temperature < 0 || config.Temperature > 2 {
		return nil, fmt.Errorf("temperature must be between 0 and 2")
	}
	if config.MaxTokens < 0 {
		return nil, fmt.Errorf("max tokens cannot be negative")
	}
	if config.APIKeyEnv == "" {
		config.APIKeyEnv = DefaultCredentialVar
	}

	var (
		model llms.Model
		err   error
	)
	switch config.Provider {
	case ProviderGroq:
		if config.APIKey == "" {
			return nil, &errs.MissingCredentialError{Variable: config.APIKeyEnv}
		}
		if config.BaseURL == "" {
			config.BaseURL = "https://api.groq.com/openai/v1"
		}
		opts := []openai.Option{
			openai.WithToken(config.APIKey),
			openai.WithModel(config.Model),
			openai.WithBaseURL(config.BaseURL),
		}
		if config.HTTPClient != nil {
			opts = append(opts, openai.WithHTTPClient(config.HTTPClient))
		}
		model, err = openai.New(opts...)
	case ProviderOllama:
		if config.BaseURL == "" {
			config.BaseURL = "http://localhost:11434" // Default Ollama URL
		}
		opts := []ollama.Option{
			ollama.WithModel(config.Model),
			ollama.WithServerURL(config.BaseURL),
		}
		if config.HTTPClient != nil {
			opts = append(opts, ollama.WithHTTPClient(config.HTTPClient))
		}
		model, err = ollama.New(opts...)
	default:
		return nil, fmt.Errorf("unknown provider %q", config.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM: %w", err)
	}

	return &ChatEngine{
		config: config,
		llm:    model,
	}, nil
}

func (ce *ChatEngine) Model() string {
	return ce.config.Model
}

// Complete sends a fully rendered prompt and returns the raw response text.
func (ce *ChatEngine) Complete(ctx context.Context, text string) (string, error) {
	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, text),
	}
	return ce.generate(ctx, content)
}

// Describe sends the instruction and image as one multi-part message.
func (ce *ChatEngine) Describe(ctx context.Context, instruction string, image models.ImagePayload) (string, error) {
	encoding := prompt.ImageAsDataURI
	if ce.config.Provider == ProviderOllama {
		encoding = prompt.ImageAsBinary
	}
	content := []llms.MessageContent{
		prompt.VisionMessage(instruction, image, encoding),
	}
	return ce.generate(ctx, content)
}

func (ce *ChatEngine) generate(ctx context.Context, content []llms.MessageContent) (string, error) {
	response, err := ce.llm.GenerateContent(ctx, content, ce.callOptions()...)
	if err != nil {
		return "", ce.apiError(err)
	}
	if response == nil || len(response.Choices) == 0 || response.Choices[0] == nil {
		return "", ce.apiError(fmt.Errorf("no choices in response"))
	}

	return response.Choices[0].Content, nil
}

// callOptions treats zero temperature and max tokens as unset, leaving the
// provider defaults.
func (ce *ChatEngine) callOptions() []llms.CallOption {
	var opts []llms.CallOption
	if ce.config.Temperature > 0 {
		opts = append(opts, llms.WithTemperature(ce.config.Temperature))
	}
	if ce.config.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(ce.config.MaxTokens))
	}
	if ce.config.Stream != nil {
		opts = append(opts, llms.WithStreamingFunc(ce.config.Stream))
	}
	return opts
}

func (ce *ChatEngine) apiError(err error) error {
	return &errs.ApiCallError{
		Provider: ce.config.Provider,
		Model:    ce.config.Model,
		Err:      err,
	}
}
