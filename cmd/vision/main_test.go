package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhad/srdx/pkg/config"
)

func TestFlagsApply(t *testing.T) {
	flags, err := parseFlags([]string{
		"--image", "erd.jpg",
		"--model", "llava",
		"--provider", "ollama",
		"--max-bytes", "1024",
		"--stream",
	})
	require.NoError(t, err)

	cfg := &config.Config{
		LLM: config.LLMConfig{
			Provider:    config.ProviderGroq,
			BaseURL:     config.DefaultGroqBaseURL,
			Model:       "llama3-8b-8192",
			VisionModel: "llama-3.2-11b-vision-preview",
		},
		Image: config.ImageConfig{Path: "dbschema.png", Prompt: config.DefaultImagePrompt, MaxBytes: 4 << 20},
		UI:    config.UIConfig{Color: true, Spinner: true},
	}
	flags.apply(cfg)

	assert.True(t, flags.Streaming)
	assert.Equal(t, "erd.jpg", cfg.Image.Path)
	assert.Equal(t, config.DefaultImagePrompt, cfg.Image.Prompt)
	assert.Equal(t, 1024, cfg.Image.MaxBytes)
	assert.Equal(t, "llava", cfg.LLM.VisionModel)
	assert.Equal(t, "llama3-8b-8192", cfg.LLM.Model)
	assert.Equal(t, config.ProviderOllama, cfg.LLM.Provider)
	assert.Equal(t, config.DefaultOllamaBaseURL, cfg.LLM.BaseURL)
	assert.False(t, cfg.Archive.Enabled)
	assert.True(t, cfg.UI.Color)
}
