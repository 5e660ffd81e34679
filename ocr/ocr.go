//go:build ocr

// Package ocr recovers the original text inside a user-drawn region by
// running Tesseract over the region's crop of the page image.
//
// This package wraps the Tesseract OCR engine via gosseract and requires
// Tesseract to be installed on the system. On macOS, install via:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
//
// Recognition is best effort. Callers treat an empty result or an error as
// "nothing recovered" and substitute the placeholder; OCR problems never
// abort a pipeline run.
package ocr

import (
	"fmt"
	"image"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/tsawler/palimpsest/model"
)

// Client wraps a configured Tesseract instance.
type Client struct {
	client *gosseract.Client
}

// New creates an OCR client with the given configuration.
// The client should be closed when no longer needed to release resources.
func New(cfg Config) (*Client, error) {
	client := gosseract.NewClient()

	if cfg.TessdataPrefix != "" {
		client.TessdataPrefix = cfg.TessdataPrefix
	}
	if cfg.Language != "" {
		if err := client.SetLanguage(strings.Split(cfg.Language, "+")...); err != nil {
			client.Close()
			return nil, fmt.Errorf("setting OCR language %q: %w", cfg.Language, err)
		}
	}
	if err := client.SetPageSegMode(gosseract.PageSegMode(cfg.PageSegMode)); err != nil {
		client.Close()
		return nil, fmt.Errorf("setting page segmentation mode %d: %w", cfg.PageSegMode, err)
	}

	return &Client{client: client}, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// RecognizeRegion runs OCR on one region of a decoded page image and
// returns the recognized text with surrounding whitespace trimmed. An
// empty string with nil error means the engine found no text.
func (c *Client) RecognizeRegion(img image.Image, r model.Region) (string, error) {
	data, err := cropPNG(img, r)
	if err != nil {
		return "", err
	}

	if err := c.client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}

	return strings.TrimSpace(text), nil
}
