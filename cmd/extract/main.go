package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/xhad/srdx/internal/app"
	"github.com/xhad/srdx/internal/errs"
	"github.com/xhad/srdx/internal/ui"
	"github.com/xhad/srdx/pkg/config"
	"github.com/xhad/srdx/pkg/loader"
	"github.com/xhad/srdx/pkg/pipeline"
	"github.com/xhad/srdx/pkg/processor"
	"github.com/xhad/srdx/pkg/prompt"
)

type Flags struct {
	ConfigPath    string
	Document      string
	Provider      string
	BaseURL       string
	Model         string
	MaxTokens     int
	Temperature   float64
	ChunkSize     int
	ChunkOverlap  int
	ChunkStrategy string
	PromptFile    string
	DBUrl         string
	NoColor       bool

	// set holds the names of flags given on the command line.
	set map[string]bool
}

func main() {
	flags, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(errs.ExitOK)
		}
		os.Exit(errs.ExitFailure)
	}

	cfg, err := app.LoadConfig(flags.ConfigPath, flags.apply)
	if err != nil {
		log.Print(err)
		os.Exit(errs.ExitCode(err))
	}
	console := app.NewConsole(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, cfg, console); err != nil {
		cancel()
		app.Exit(console, err)
	}
}

func parseFlags(args []string) (Flags, error) {
	var f Flags
	fs := flag.NewFlagSet("extract", flag.ContinueOnError)

	fs.StringVar(&f.ConfigPath, "config", "", "Path to config file")
	fs.StringVar(&f.Document, "doc", "", "Document to extract from (.docx, .html, .txt or http(s) URL)")
	fs.StringVar(&f.Provider, "provider", "", "Model provider: groq or ollama")
	fs.StringVar(&f.BaseURL, "base-url", "", "Provider API base URL")
	fs.StringVar(&f.Model, "model", "", "Text model to use")
	fs.IntVar(&f.MaxTokens, "max-tokens", 0, "Maximum tokens for the model response (0 = provider default)")
	fs.Float64Var(&f.Temperature, "temperature", 0, "Sampling temperature (0 = provider default)")
	fs.IntVar(&f.ChunkSize, "chunk-size", 0, "Size of text chunks in characters")
	fs.IntVar(&f.ChunkOverlap, "chunk-overlap", 0, "Characters shared by consecutive chunks")
	fs.StringVar(&f.ChunkStrategy, "chunk-strategy", "", "Chunking strategy: window or recursive")
	fs.StringVar(&f.PromptFile, "prompt", "", "Custom extraction prompt template")
	fs.StringVar(&f.DBUrl, "db-url", "", "PostgreSQL connection string; enables the run archive")
	fs.BoolVar(&f.NoColor, "no-color", false, "Disable colored output")
	if err := fs.Parse(args); err != nil {
		return f, err
	}

	f.set = map[string]bool{}
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	return f, nil
}

// apply copies the flags the user actually set over the file configuration.
func (f Flags) apply(cfg *config.Config) {
	if f.set["doc"] {
		cfg.Document.Path = f.Document
	}
	if f.set["provider"] {
		cfg.LLM.Provider = f.Provider
		if !f.set["base-url"] {
			cfg.LLM.BaseURL = config.DefaultBaseURL(f.Provider)
		}
	}
	if f.set["base-url"] {
		cfg.LLM.BaseURL = f.BaseURL
	}
	if f.set["model"] {
		cfg.LLM.Model = f.Model
	}
	if f.set["max-tokens"] {
		cfg.LLM.MaxTokens = f.MaxTokens
	}
	if f.set["temperature"] {
		cfg.LLM.Temperature = f.Temperature
	}
	if f.set["chunk-size"] {
		cfg.Document.ChunkSize = f.ChunkSize
		if !f.set["chunk-overlap"] {
			cfg.Document.ChunkOverlap = f.ChunkSize / 10
		}
	}
	if f.set["chunk-overlap"] {
		cfg.Document.ChunkOverlap = f.ChunkOverlap
	}
	if f.set["chunk-strategy"] {
		cfg.Document.ChunkStrategy = f.ChunkStrategy
	}
	if f.set["prompt"] {
		cfg.Document.PromptFile = f.PromptFile
	}
	if f.set["db-url"] {
		cfg.Archive.URL = f.DBUrl
		cfg.Archive.Enabled = true
	}
	if f.set["no-color"] {
		cfg.UI.Color = !f.NoColor
	}
}

func run(ctx context.Context, cfg *config.Config, console *ui.Console) error {
	// Initialize components
	chatEngine, err := app.NewChatEngine(cfg.LLM, cfg.LLM.Model, nil)
	if err != nil {
		return err
	}

	proc, err := processor.NewWithConfig(processor.ProcessorConfig{
		ChunkSize:    cfg.Document.ChunkSize,
		ChunkOverlap: cfg.Document.ChunkOverlap,
		Strategy:     cfg.Document.ChunkStrategy,
		Separator:    cfg.Document.Separator,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize processor: %w", err)
	}

	template := prompt.NewExtractionTemplate()
	if cfg.Document.PromptFile != "" {
		if template, err = prompt.LoadExtractionTemplate(cfg.Document.PromptFile); err != nil {
			return err
		}
	}

	archive, closeArchive := app.OpenArchive(ctx, cfg.Archive, console)
	defer closeArchive()

	var stopSpinner func()
	extraction, err := pipeline.NewExtraction(pipeline.ExtractionConfig{
		Loader:    loader.New(),
		Processor: proc,
		Template:  template,
		Model:     chatEngine,
		ModelName: chatEngine.Model(),
		Archive:   archive,
		OnLoaded: func(n int) {
			console.Success("Loaded %d documents.", n)
		},
		OnChunked: func(n int) {
			console.Success("Split document into %d chunks.", n)
		},
		OnPrompt: func(rendered string) {
			warnIfOversized(console, chatEngine.Model(), rendered)
			stopSpinner = console.Spinner("Extracting schema with " + chatEngine.Model())
		},
		OnArchiveError: func(err error) {
			console.Warn("failed to archive run: %v", err)
		},
	})
	if err != nil {
		return err
	}

	result, err := extraction.Run(ctx, cfg.Document.Path)
	if stopSpinner != nil {
		stopSpinner()
	}
	if err != nil {
		return err
	}

	if !result.OK() {
		console.Warn("model response was not valid JSON: %v", result.Err)
	}

	out, err := result.Indent()
	if err != nil {
		return fmt.Errorf("failed to format result: %w", err)
	}
	fmt.Println(string(out))

	return nil
}

// warnIfOversized reports prompts that will not fit the model's context window.
func warnIfOversized(console *ui.Console, model, rendered string) {
	window, known := prompt.ContextWindow(model)
	if !known {
		return
	}
	tokens, err := prompt.CountTokens(rendered)
	if err != nil {
		return
	}
	if tokens > window {
		console.Warn("prompt is about %d tokens, over the %d token context window of %s", tokens, window, model)
	}
}
