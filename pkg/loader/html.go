package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/xhad/srdx/internal/errs"
	"github.com/xhad/srdx/internal/models"
)

func readHTMLFile(path string) (string, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", "", err
	}
	defer f.Close()

	return readHTML(f)
}

func (l *Loader) loadURL(ctx context.Context, urlStr string) (models.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return models.Document{}, fmt.Errorf("invalid document URL %s: %w", urlStr, err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return models.Document{}, fmt.Errorf("failed to fetch %s: %w", urlStr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		return models.Document{}, &errs.NotFoundError{Path: urlStr}
	}
	if resp.StatusCode != http.StatusOK {
		return models.Document{}, fmt.Errorf("received status code %d for URL: %s", resp.StatusCode, urlStr)
	}

	content, title, err := readHTML(resp.Body)
	if err != nil {
		return models.Document{}, fmt.Errorf("failed to parse %s: %w", urlStr, err)
	}

	return models.Document{
		ID:      urlStr,
		Source:  urlStr,
		Title:   title,
		Content: sanitizeUTF8(content),
		Metadata: map[string]interface{}{
			"source":       urlStr,
			"time":         time.Now(),
			"contentType":  resp.Header.Get("Content-Type"),
			"lastModified": resp.Header.Get("Last-Modified"),
		},
	}, nil
}

func readHTML(r io.Reader) (string, string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", "", err
	}

	title := strings.TrimSpace(doc.Find("title").Text())
	return extractMainContent(doc), title, nil
}

func extractMainContent(doc *goquery.Document) string {
	// Try to find main content area
	selectors := []string{
		"main",
		"article",
		".content",
		"#content",
		".documentation",
		"#documentation",
	}

	var content string
	for _, selector := range selectors {
		if selected := doc.Find(selector); selected.Length() > 0 {
			content = selected.Text()
			break
		}
	}

	// Fallback to body if no main content found
	if content == "" {
		content = doc.Find("body").Text()
	}

	return strings.TrimSpace(strings.Join(strings.Fields(content), " "))
}
