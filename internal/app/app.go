// Package app holds the setup shared by the command-line pipelines.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/xhad/srdx/internal/errs"
	"github.com/xhad/srdx/internal/types"
	"github.com/xhad/srdx/internal/ui"
	"github.com/xhad/srdx/pkg/config"
	"github.com/xhad/srdx/pkg/llm"
	"github.com/xhad/srdx/pkg/store"
)

// LoadConfig reads .env, then the config file, applies overrides and validates the result.
func LoadConfig(path string, override func(*config.Config)) (*config.Config, error) {
	// A missing .env is normal.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if override != nil {
		override(cfg)
	}

	if problems := cfg.Validate(); len(problems) > 0 {
		joined := make([]error, 0, len(problems))
		for _, p := range problems {
			joined = append(joined, p)
		}
		return nil, fmt.Errorf("invalid configuration: %w", errors.Join(joined...))
	}
	return cfg, nil
}

func NewConsole(cfg *config.Config) *ui.Console {
	return ui.New(os.Stderr, ui.Options{Color: cfg.UI.Color, Spinner: cfg.UI.Spinner})
}

// NewChatEngine builds an engine for model. For the hosted provider the
// credential is read here so a missing key fails before any request.
func NewChatEngine(cfg config.LLMConfig, model string, stream func(context.Context, []byte) error) (*llm.ChatEngine, error) {
	var apiKey string
	if cfg.Provider == config.ProviderGroq {
		key, err := llm.ReadCredential(cfg.APIKeyEnv)
		if err != nil {
			return nil, err
		}
		apiKey = key
	}

	return llm.NewWithConfig(llm.ChatConfig{
		Provider:    cfg.Provider,
		Model:       model,
		BaseURL:     cfg.BaseURL,
		APIKey:      apiKey,
		APIKeyEnv:   cfg.APIKeyEnv,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Stream:      stream,
	})
}

// OpenArchive connects the run archive when it is enabled. A failed
// connection is reported and the run continues without it.
func OpenArchive(ctx context.Context, cfg config.ArchiveConfig, console *ui.Console) (types.Archive, func()) {
	if !cfg.Enabled || cfg.URL == "" {
		return nil, func() {}
	}

	archive, err := store.NewWithConfig(ctx, store.ArchiveConfig{
		ConnString: cfg.URL,
		TableName:  cfg.TableName,
	})
	if err != nil {
		console.Warn("run archive disabled: %v", err)
		return nil, func() {}
	}
	return archive, archive.Close
}

// Exit prints err and terminates with its exit code.
func Exit(console *ui.Console, err error) {
	console.Error(err)
	os.Exit(errs.ExitCode(err))
}
