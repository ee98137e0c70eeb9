package prompt

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/xhad/srdx/internal/models"
)

func TestExtractionTemplateRender(t *testing.T) {
	rendered, err := NewExtractionTemplate().Render("The dashboard shows a leave balance tile.")
	require.NoError(t, err)

	assert.Contains(t, rendered, "Context: The dashboard shows a leave balance tile.")
	assert.Contains(t, rendered, "**Strictly output only JSON. Do not add any extra text.**")
	for _, field := range []string{"UI_Components", "State_Management", "API_Endpoints", "User_Roles", "Styling"} {
		assert.Contains(t, rendered, `"`+field+`"`)
	}
	assert.Contains(t, rendered, `"headers": { "Authorization": "Bearer <token>" }`)
	assert.NotContains(t, rendered, "{{")
}

func TestExtractionTemplateDoesNotInterpretDocumentText(t *testing.T) {
	text := `{{.document_text}} and {"a": 1}`
	rendered, err := NewExtractionTemplate().Render(text)
	require.NoError(t, err)

	assert.True(t, strings.Contains(rendered, "Context: "+text))
}

func TestLoadExtractionTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.tmpl")
	require.NoError(t, os.WriteFile(path, []byte("Summarize as JSON: {{.document_text}}"), 0644))

	tmpl, err := LoadExtractionTemplate(path)
	require.NoError(t, err)

	rendered, err := tmpl.Render("pods")
	require.NoError(t, err)
	assert.Equal(t, "Summarize as JSON: pods", rendered)

	_, err = LoadExtractionTemplate(filepath.Join(t.TempDir(), "missing.tmpl"))
	assert.Error(t, err)

	builtin, err := LoadExtractionTemplate("")
	require.NoError(t, err)
	assert.Equal(t, NewExtractionTemplate(), builtin)
}

func TestVisionMessage(t *testing.T) {
	image := models.ImagePayload{
		Data:     []byte{0x89, 'P', 'N', 'G'},
		Encoded:  "iVBORw==",
		MIMEType: "image/png",
	}

	msg := VisionMessage("describe the schema", image, ImageAsDataURI)

	assert.Equal(t, llms.ChatMessageTypeHuman, msg.Role)
	require.Len(t, msg.Parts, 2)
	assert.Equal(t, llms.TextContent{Text: "describe the schema"}, msg.Parts[0])
	assert.Equal(t, llms.ImageURLContent{URL: "data:image/png;base64,iVBORw=="}, msg.Parts[1])

	binary := VisionMessage("describe the schema", image, ImageAsBinary)

	require.Len(t, binary.Parts, 2)
	assert.Equal(t, llms.BinaryContent{MIMEType: "image/png", Data: image.Data}, binary.Parts[1])
}

func TestContextWindow(t *testing.T) {
	tests := []struct {
		model    string
		expected int
		ok       bool
	}{
		{"llama3-8b-8192", 8192, true},
		{"mixtral-8x7b-32768", 32768, true},
		{"llama-3.2-11b-vision-preview", 0, false},
		{"mistral", 0, false},
		{"llama3-8b", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			n, ok := ContextWindow(tt.model)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, n)
		})
	}
}

func TestCountTokensOffline(t *testing.T) {
	var hits atomic.Int32
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "no network in tests", http.StatusBadGateway)
	}))
	defer proxy.Close()

	t.Setenv("TIKTOKEN_CACHE_DIR", t.TempDir())
	t.Setenv("HTTPS_PROXY", proxy.URL)
	t.Setenv("HTTP_PROXY", proxy.URL)

	n, err := CountTokens("hello world")
	require.NoError(t, err)

	assert.Equal(t, 2, n)
	assert.Zero(t, hits.Load())
}

func TestCountTokensGrowsWithText(t *testing.T) {
	short, err := CountTokens("Managers approve leave.")
	require.NoError(t, err)
	long, err := CountTokens(strings.Repeat("Managers approve leave. ", 100))
	require.NoError(t, err)

	assert.Greater(t, long, short*50)
}
