package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	ProviderGroq   = "groq"
	ProviderOllama = "ollama"

	StrategyWindow    = "window"
	StrategyRecursive = "recursive"

	DefaultGroqBaseURL   = "https://api.groq.com/openai/v1"
	DefaultOllamaBaseURL = "http://localhost:11434"

	// DefaultImagePrompt is the instruction sent alongside the image.
	DefaultImagePrompt = "write code to create the schema to table using python in postgresql database for all the table with proper relation as given"
)

type LLMConfig struct {
	Provider    string  `yaml:"provider"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	VisionModel string  `yaml:"vision_model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	APIKeyEnv   string  `yaml:"api_key_env"`
}

type DocumentConfig struct {
	Path          string `yaml:"path"`
	ChunkSize     int    `yaml:"chunk_size"`
	ChunkOverlap  int    `yaml:"chunk_overlap"`
	ChunkStrategy string `yaml:"chunk_strategy"`
	Separator     string `yaml:"separator"`
	PromptFile    string `yaml:"prompt_file"`
}

type ImageConfig struct {
	Path     string `yaml:"path"`
	Prompt   string `yaml:"prompt"`
	MaxBytes int    `yaml:"max_bytes"`
}

// ArchiveConfig is off unless enabled in the file or by --db-url. Setting
// url in the file counts as enabling it. DATABASE_URL only supplies the
// connection string.
type ArchiveConfig struct {
	Enabled   bool   `yaml:"enabled"`
	URL       string `yaml:"url"`
	TableName string `yaml:"table_name"`
}

type UIConfig struct {
	Color   bool `yaml:"color"`
	Spinner bool `yaml:"spinner"`
}

type Config struct {
	LLM      LLMConfig      `yaml:"llm"`
	Document DocumentConfig `yaml:"document"`
	Image    ImageConfig    `yaml:"image"`
	Archive  ArchiveConfig  `yaml:"archive"`
	UI       UIConfig       `yaml:"ui"`
}

// unsetOverlap marks chunk_overlap as absent so an explicit 0 survives defaults.
const unsetOverlap = math.MinInt

func newConfig() Config {
	return Config{
		Document: DocumentConfig{ChunkOverlap: unsetOverlap},
		UI:       UIConfig{Color: true, Spinner: true},
	}
}

// DefaultBaseURL returns the API base URL used when none is configured.
func DefaultBaseURL(provider string) string {
	if provider == ProviderOllama {
		return DefaultOllamaBaseURL
	}
	return DefaultGroqBaseURL
}

func LoadConfig(path string) (*Config, error) {
	// If no path provided, try default locations
	if path == "" {
		locations := []string{
			"config.yaml",
			"config.yml",
			filepath.Join(os.Getenv("HOME"), ".config/srdx/config.yaml"),
			"/etc/srdx/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path == "" {
		return getDefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// yaml only overrides what the file sets.
	config := newConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	if config.Archive.URL != "" {
		config.Archive.Enabled = true
	}

	// Merge with environment variables
	mergeWithEnv(&config)

	// Apply defaults for unset values
	applyDefaults(&config)

	return &config, nil
}

func getDefaultConfig() (*Config, error) {
	config := newConfig()
	mergeWithEnv(&config)
	applyDefaults(&config)
	return &config, nil
}

func applyDefaults(config *Config) {
	if config.LLM.Provider == "" {
		config.LLM.Provider = ProviderGroq
	}
	if config.LLM.BaseURL == "" {
		config.LLM.BaseURL = DefaultBaseURL(config.LLM.Provider)
	}
	if config.LLM.Model == "" {
		config.LLM.Model = "llama3-8b-8192"
	}
	if config.LLM.VisionModel == "" {
		config.LLM.VisionModel = "llama-3.2-11b-vision-preview"
	}
	if config.LLM.APIKeyEnv == "" {
		config.LLM.APIKeyEnv = "GROQ_API_KEY"
	}

	if config.Document.Path == "" {
		config.Document.Path = "srd.docx"
	}
	if config.Document.ChunkSize == 0 {
		config.Document.ChunkSize = 2000
	}
	if config.Document.ChunkOverlap == unsetOverlap {
		config.Document.ChunkOverlap = config.Document.ChunkSize / 10
	}
	if config.Document.ChunkStrategy == "" {
		config.Document.ChunkStrategy = StrategyWindow
	}
	if config.Document.Separator == "" {
		config.Document.Separator = "\n\n"
	}

	if config.Image.Path == "" {
		config.Image.Path = "dbschema.png"
	}
	if config.Image.Prompt == "" {
		config.Image.Prompt = DefaultImagePrompt
	}
	if config.Image.MaxBytes == 0 {
		config.Image.MaxBytes = 4 << 20
	}

	if config.Archive.TableName == "" {
		config.Archive.TableName = "extraction_runs"
	}
}

func mergeWithEnv(config *Config) {
	if baseURL := os.Getenv("GROQ_BASE_URL"); baseURL != "" && config.LLM.Provider != ProviderOllama {
		config.LLM.BaseURL = baseURL
	}
	if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" && config.LLM.Provider == ProviderOllama {
		config.LLM.BaseURL = baseURL
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" && config.Archive.URL == "" {
		config.Archive.URL = dbURL
	}
}
