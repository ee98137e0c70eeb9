package image

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/xhad/srdx/internal/errs"
	"github.com/xhad/srdx/internal/models"
)

// DefaultMaxEncodedBytes is the hosted API limit for a base64 image payload.
const DefaultMaxEncodedBytes = 4 << 20

type EncoderConfig struct {
	MaxEncodedBytes int
	// OnNonImage is called when the detected type is not an image. The
	// file is still encoded.
	OnNonImage func(path, mimeType string)
}

type Encoder struct {
	config EncoderConfig
}

func NewWithConfig(config EncoderConfig) *Encoder {
	if config.MaxEncodedBytes == 0 {
		config.MaxEncodedBytes = DefaultMaxEncodedBytes
	}
	return &Encoder{config: config}
}

// Encode reads the whole file, detects its format and base64-encodes it.
func (e *Encoder) Encode(path string) (models.ImagePayload, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.ImagePayload{}, &errs.NotFoundError{Path: path}
		}
		return models.ImagePayload{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return models.ImagePayload{}, fmt.Errorf("%s is a directory", path)
	}

	// Reject before reading when the encoding is certain to be too large.
	if size := base64.StdEncoding.EncodedLen(int(info.Size())); size > e.config.MaxEncodedBytes {
		return models.ImagePayload{}, &errs.PayloadTooLargeError{Path: path, Size: size, Limit: e.config.MaxEncodedBytes}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return models.ImagePayload{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	if len(encoded) > e.config.MaxEncodedBytes {
		return models.ImagePayload{}, &errs.PayloadTooLargeError{Path: path, Size: len(encoded), Limit: e.config.MaxEncodedBytes}
	}

	mimeType := mimetype.Detect(data).String()
	// Drop parameters such as "; charset=utf-8".
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	if !strings.HasPrefix(mimeType, "image/") && e.config.OnNonImage != nil {
		e.config.OnNonImage(path, mimeType)
	}

	return models.ImagePayload{
		Path:     path,
		Data:     data,
		Encoded:  encoded,
		MIMEType: mimeType,
	}, nil
}
