package config

import (
	"fmt"
	"net/url"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	// Validate LLM config
	if c.LLM.Provider != ProviderGroq && c.LLM.Provider != ProviderOllama {
		errors = append(errors, ValidationError{
			Field:   "llm.provider",
			Message: fmt.Sprintf("unknown provider %q", c.LLM.Provider),
		})
	}

	if c.LLM.BaseURL == "" {
		errors = append(errors, ValidationError{
			Field:   "llm.base_url",
			Message: "base URL is required",
		})
	} else if u, err := url.Parse(c.LLM.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errors = append(errors, ValidationError{
			Field:   "llm.base_url",
			Message: "invalid base URL",
		})
	}

	if c.LLM.Model == "" {
		errors = append(errors, ValidationError{
			Field:   "llm.model",
			Message: "model is required",
		})
	}

	if c.LLM.MaxTokens < 0 || c.LLM.MaxTokens > 8192 {
		errors = append(errors, ValidationError{
			Field:   "llm.max_tokens",
			Message: "max_tokens must be between 0 and 8192",
		})
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errors = append(errors, ValidationError{
			Field:   "llm.temperature",
			Message: "temperature must be between 0 and 2",
		})
	}

	// Validate Document config
	if c.Document.ChunkSize < 1 {
		errors = append(errors, ValidationError{
			Field:   "document.chunk_size",
			Message: "chunk_size must be positive",
		})
	}

	if c.Document.ChunkOverlap < 0 || c.Document.ChunkOverlap >= c.Document.ChunkSize {
		errors = append(errors, ValidationError{
			Field:   "document.chunk_overlap",
			Message: "chunk_overlap must be non-negative and less than chunk_size",
		})
	}

	if c.Document.ChunkStrategy != StrategyWindow && c.Document.ChunkStrategy != StrategyRecursive {
		errors = append(errors, ValidationError{
			Field:   "document.chunk_strategy",
			Message: fmt.Sprintf("unknown chunk strategy %q", c.Document.ChunkStrategy),
		})
	}

	// Validate Image config
	if c.Image.MaxBytes < 1 {
		errors = append(errors, ValidationError{
			Field:   "image.max_bytes",
			Message: "max_bytes must be positive",
		})
	}

	// Validate Archive config
	if c.Archive.Enabled && c.Archive.URL == "" {
		errors = append(errors, ValidationError{
			Field:   "archive.url",
			Message: "archive is enabled but no database URL is set",
		})
	}
	if c.Archive.URL != "" {
		if _, err := url.Parse(c.Archive.URL); err != nil {
			errors = append(errors, ValidationError{
				Field:   "archive.url",
				Message: "invalid database URL",
			})
		}
	}

	return errors
}
