package prompt

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

// Encodings ship with the binary; the default loader would download them.
func init() {
	tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
}

// ContextWindows lists known model context sizes in tokens.
var ContextWindows = map[string]int{
	"llama3-8b-8192":  8192,
	"llama3-70b-8192": 8192,
}

// CountTokens estimates the token count of text with the cl100k_base encoding.
// Llama tokenizers differ, so the result is an approximation.
func CountTokens(text string) (int, error) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return 0, fmt.Errorf("failed to load tokenizer: %w", err)
	}
	return len(enc.Encode(text, nil, nil)), nil
}

// ContextWindow returns the context size for model, falling back to the
// numeric suffix convention used by names like "llama3-8b-8192".
func ContextWindow(model string) (int, bool) {
	if n, ok := ContextWindows[model]; ok {
		return n, true
	}
	i := strings.LastIndexByte(model, '-')
	if i < 0 {
		return 0, false
	}
	var n int
	if _, err := fmt.Sscanf(model[i+1:], "%d", &n); err != nil || n < 1024 {
		return 0, false
	}
	return n, true
}
