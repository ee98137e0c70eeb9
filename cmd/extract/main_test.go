package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhad/srdx/internal/ui"
	"github.com/xhad/srdx/pkg/config"
)

func fileConfig() *config.Config {
	return &config.Config{
		LLM: config.LLMConfig{
			Provider: config.ProviderGroq,
			BaseURL:  "http://groq-proxy:8080/v1",
			Model:    "llama3-8b-8192",
		},
		Document: config.DocumentConfig{
			Path:          "srd.docx",
			ChunkSize:     2000,
			ChunkOverlap:  200,
			ChunkStrategy: config.StrategyWindow,
		},
		Archive: config.ArchiveConfig{TableName: "extraction_runs"},
		UI:      config.UIConfig{Color: true, Spinner: true},
	}
}

func TestFlagsApply(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, cfg *config.Config)
	}{
		{
			name: "no flags keeps file values",
			args: nil,
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, fileConfig(), cfg)
			},
		},
		{
			name: "provider resets base url",
			args: []string{"--provider", "ollama"},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, config.ProviderOllama, cfg.LLM.Provider)
				assert.Equal(t, config.DefaultOllamaBaseURL, cfg.LLM.BaseURL)
			},
		},
		{
			name: "explicit base url wins over provider default",
			args: []string{"--provider", "ollama", "--base-url", "http://gpu-box:11434"},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "http://gpu-box:11434", cfg.LLM.BaseURL)
			},
		},
		{
			name: "chunk size alone derives overlap",
			args: []string{"--chunk-size", "500"},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, 500, cfg.Document.ChunkSize)
				assert.Equal(t, 50, cfg.Document.ChunkOverlap)
			},
		},
		{
			name: "explicit zero overlap",
			args: []string{"--chunk-size", "500", "--chunk-overlap", "0"},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, 0, cfg.Document.ChunkOverlap)
			},
		},
		{
			name: "no color",
			args: []string{"--no-color"},
			check: func(t *testing.T, cfg *config.Config) {
				assert.False(t, cfg.UI.Color)
				assert.True(t, cfg.UI.Spinner)
			},
		},
		{
			name: "db url enables archive",
			args: []string{"--db-url", "postgres://localhost:5432/srdx"},
			check: func(t *testing.T, cfg *config.Config) {
				assert.True(t, cfg.Archive.Enabled)
				assert.Equal(t, "postgres://localhost:5432/srdx", cfg.Archive.URL)
			},
		},
		{
			name: "document model and strategy",
			args: []string{"--doc", "req.html", "--model", "llama3-70b-8192", "--chunk-strategy", "recursive", "--temperature", "0.3"},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "req.html", cfg.Document.Path)
				assert.Equal(t, "llama3-70b-8192", cfg.LLM.Model)
				assert.Equal(t, config.StrategyRecursive, cfg.Document.ChunkStrategy)
				assert.Equal(t, 0.3, cfg.LLM.Temperature)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags, err := parseFlags(tt.args)
			require.NoError(t, err)

			cfg := fileConfig()
			flags.apply(cfg)
			tt.check(t, cfg)
		})
	}
}

func TestParseFlagsRejectsUnknown(t *testing.T) {
	_, err := parseFlags([]string{"--docs-url", "x"})
	assert.Error(t, err)
}

func TestWarnIfOversized(t *testing.T) {
	tests := []struct {
		name   string
		model  string
		prompt string
		warned bool
	}{
		{"fits", "llama3-8b-8192", "Managers approve leave.", false},
		{"too large", "llama3-8b-8192", strings.Repeat("word ", 9000), true},
		{"unknown window", "llama-3.2-11b-vision-preview", strings.Repeat("word ", 9000), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			warnIfOversized(ui.New(&buf, ui.Options{}), tt.model, tt.prompt)

			if tt.warned {
				assert.Contains(t, buf.String(), "over the 8192 token context window of llama3-8b-8192")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}
