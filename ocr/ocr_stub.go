//go:build !ocr

// Package ocr recovers the original text inside a user-drawn region by
// running Tesseract over the region's crop of the page image.
//
// This is the stub implementation used when the "ocr" build tag is not
// set. All recognition functions return ErrOCRNotEnabled; the pipeline
// responds by filling every region with the placeholder instead.
//
// To enable OCR, rebuild with the "ocr" build tag:
//
//	go build -tags ocr
//
// This requires Tesseract to be installed. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package ocr

import (
	"errors"
	"image"

	"github.com/tsawler/palimpsest/model"
)

// ErrOCRNotEnabled is returned when OCR functions are called but OCR
// support was not compiled in. Rebuild with -tags ocr to enable it.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// Client is a stub OCR client that returns errors for all operations.
type Client struct{}

// New returns an error indicating OCR support is not enabled.
// To enable OCR, rebuild with: go build -tags ocr
func New(cfg Config) (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// Close is a no-op for the stub client.
// It is safe to call on a nil client.
func (c *Client) Close() error {
	return nil
}

// RecognizeRegion returns an error indicating OCR support is not enabled.
func (c *Client) RecognizeRegion(img image.Image, r model.Region) (string, error) {
	return "", ErrOCRNotEnabled
}
