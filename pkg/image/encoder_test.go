package image

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhad/srdx/internal/errs"
)

var (
	pngHeader  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
	jpegHeader = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00")
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestEncodePNG(t *testing.T) {
	path := writeFile(t, "dbschema.png", pngHeader)

	payload, err := NewWithConfig(EncoderConfig{}).Encode(path)
	require.NoError(t, err)

	assert.Equal(t, "image/png", payload.MIMEType)
	assert.Equal(t, base64.StdEncoding.EncodeToString(pngHeader), payload.Encoded)
	assert.Equal(t, "data:image/png;base64,"+payload.Encoded, payload.DataURI())
	assert.Equal(t, pngHeader, payload.Data)
}

func TestEncodeDetectsJPEGRegardlessOfExtension(t *testing.T) {
	path := writeFile(t, "dbschema.png", jpegHeader)

	payload, err := NewWithConfig(EncoderConfig{}).Encode(path)
	require.NoError(t, err)

	assert.Equal(t, "image/jpeg", payload.MIMEType)
}

func TestEncodeNonImage(t *testing.T) {
	path := writeFile(t, "notes.png", []byte("just some text"))

	var reported string
	enc := NewWithConfig(EncoderConfig{
		OnNonImage: func(_, mimeType string) { reported = mimeType },
	})

	payload, err := enc.Encode(path)
	require.NoError(t, err)

	assert.Equal(t, "text/plain", payload.MIMEType)
	assert.Equal(t, "text/plain", reported)
	assert.NotEmpty(t, payload.Encoded)
}

func TestEncodeNotFound(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "dbschema.png")

	_, err := NewWithConfig(EncoderConfig{}).Encode(missing)

	var notFound *errs.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, missing, notFound.Path)
}

func TestEncodePayloadTooLarge(t *testing.T) {
	path := writeFile(t, "dbschema.png", pngHeader)

	_, err := NewWithConfig(EncoderConfig{MaxEncodedBytes: 16}).Encode(path)

	var tooLarge *errs.PayloadTooLargeError
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, base64.StdEncoding.EncodedLen(len(pngHeader)), tooLarge.Size)
	assert.Equal(t, 16, tooLarge.Limit)
}
