package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xhad/srdx/internal/errs"
	"github.com/xhad/srdx/internal/models"
)

type LoaderConfig struct {
	Timeout time.Duration
	Client  *http.Client
}

// Loader reads a document from a local path or an http(s) URL and returns
// its text with format markup stripped.
type Loader struct {
	config LoaderConfig
	client *http.Client
}

func NewWithConfig(config LoaderConfig) *Loader {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	client := config.Client
	if client == nil {
		client = &http.Client{Timeout: config.Timeout}
	}
	return &Loader{
		config: config,
		client: client,
	}
}

func New() *Loader {
	return NewWithConfig(LoaderConfig{})
}

func (l *Loader) Load(ctx context.Context, source string) ([]models.Document, error) {
	if isRemote(source) {
		doc, err := l.loadURL(ctx, source)
		if err != nil {
			return nil, err
		}
		return []models.Document{doc}, nil
	}

	info, err := os.Stat(source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &errs.NotFoundError{Path: source}
		}
		return nil, fmt.Errorf("failed to stat %s: %w", source, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", source)
	}

	var (
		content string
		title   string
	)
	switch strings.ToLower(filepath.Ext(source)) {
	case ".docx":
		content, err = readDocx(source)
	case ".html", ".htm":
		content, title, err = readHTMLFile(source)
	default:
		var data []byte
		data, err = os.ReadFile(source)
		content = string(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", source, err)
	}

	return []models.Document{{
		ID:      filepath.Base(source),
		Source:  source,
		Title:   title,
		Content: sanitizeUTF8(content),
		Metadata: map[string]interface{}{
			"source":  source,
			"size":    info.Size(),
			"modTime": info.ModTime(),
		},
	}}, nil
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func sanitizeUTF8(s string) string {
	if !utf8.ValidString(s) {
		v := make([]rune, 0, len(s))
		for i, r := range s {
			if r == utf8.RuneError {
				_, size := utf8.DecodeRuneInString(s[i:])
				if size == 1 {
					continue
				}
			}
			v = append(v, r)
		}
		return string(v)
	}
	return s
}
