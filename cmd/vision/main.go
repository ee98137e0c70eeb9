package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"

	"github.com/xhad/srdx/internal/app"
	"github.com/xhad/srdx/internal/errs"
	"github.com/xhad/srdx/internal/models"
	"github.com/xhad/srdx/internal/ui"
	"github.com/xhad/srdx/pkg/config"
	"github.com/xhad/srdx/pkg/image"
	"github.com/xhad/srdx/pkg/pipeline"
)

type Flags struct {
	ConfigPath  string
	Image       string
	Prompt      string
	Provider    string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	MaxBytes    int
	DBUrl       string
	Streaming   bool
	NoColor     bool

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

	if err := run(ctx, cfg, console, flags.Streaming); err != nil {
		cancel()
		app.Exit(console, err)
	}
}

func parseFlags(args []string) (Flags, error) {
	var f Flags
	fs := flag.NewFlagSet("vision", flag.ContinueOnError)

	fs.StringVar(&f.ConfigPath, "config", "", "Path to config file")
	fs.StringVar(&f.Image, "image", "", "Image to describe")
	fs.StringVar(&f.Prompt, "prompt", "", "Instruction sent with the image")
	fs.StringVar(&f.Provider, "provider", "", "Model provider: groq or ollama")
	fs.StringVar(&f.BaseURL, "base-url", "", "Provider API base URL")
	fs.StringVar(&f.Model, "model", "", "Vision model to use")
	fs.IntVar(&f.MaxTokens, "max-tokens", 0, "Maximum tokens for the model response (0 = provider default)")
	fs.Float64Var(&f.Temperature, "temperature", 0, "Sampling temperature (0 = provider default)")
	fs.IntVar(&f.MaxBytes, "max-bytes", 0, "Largest base64 image payload to send")
	fs.StringVar(&f.DBUrl, "db-url", "", "PostgreSQL connection string; enables the run archive")
	fs.BoolVar(&f.Streaming, "stream", false, "Print the response as it arrives")
	fs.BoolVar(&f.NoColor, "no-color", false, "Disable colored output")
	if err := fs.Parse(args); err != nil {
		return f, err
	}

	f.set = map[string]bool{}
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	return f, nil
}

func (f Flags) apply(cfg *config.Config) {
	if f.set["image"] {
		cfg.Image.Path = f.Image
	}
	if f.set["prompt"] {
		cfg.Image.Prompt = f.Prompt
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
		cfg.LLM.VisionModel = f.Model
	}
	if f.set["max-tokens"] {
		cfg.LLM.MaxTokens = f.MaxTokens
	}
	if f.set["temperature"] {
		cfg.LLM.Temperature = f.Temperature
	}
	if f.set["max-bytes"] {
		cfg.Image.MaxBytes = f.MaxBytes
	}
	if f.set["db-url"] {
		cfg.Archive.URL = f.DBUrl
		cfg.Archive.Enabled = true
	}
	if f.set["no-color"] {
		cfg.UI.Color = !f.NoColor
	}
}

func run(ctx context.Context, cfg *config.Config, console *ui.Console, streaming bool) error {
	var (
		stopSpinner = func() {}
		firstChunk  sync.Once
		stream      func(context.Context, []byte) error
	)
	if streaming {
		stream = func(_ context.Context, chunk []byte) error {
			// Clear spinner on first chunk
			firstChunk.Do(stopSpinner)
			_, err := os.Stdout.Write(chunk)
			return err
		}
	}

	chatEngine, err := app.NewChatEngine(cfg.LLM, cfg.LLM.VisionModel, stream)
	if err != nil {
		return err
	}

	encoder := image.NewWithConfig(image.EncoderConfig{
		MaxEncodedBytes: cfg.Image.MaxBytes,
		OnNonImage: func(path, mimeType string) {
			console.Warn("%s looks like %s, not an image; sending it anyway", path, mimeType)
		},
	})

	archive, closeArchive := app.OpenArchive(ctx, cfg.Archive, console)
	defer closeArchive()

	vision, err := pipeline.NewVision(pipeline.VisionConfig{
		Encoder:     encoder,
		Model:       chatEngine,
		ModelName:   chatEngine.Model(),
		Instruction: cfg.Image.Prompt,
		Archive:     archive,
		OnEncoded: func(img models.ImagePayload) {
			console.Success("Encoded %s as %s (%d bytes).", img.Path, img.MIMEType, len(img.Encoded))
			stopSpinner = console.Spinner("Describing image with " + chatEngine.Model())
		},
		OnArchiveError: func(err error) {
			console.Warn("failed to archive run: %v", err)
		},
	})
	if err != nil {
		return err
	}

	response, err := vision.Run(ctx, cfg.Image.Path)
	firstChunk.Do(stopSpinner)
	if err != nil {
		return err
	}

	if streaming {
		fmt.Println()
		return nil
	}
	fmt.Println(response)

	return nil
}
