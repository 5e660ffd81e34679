//go:build !ocr

package ocr

import (
	"errors"
	"image"
	"testing"

	"github.com/tsawler/palimpsest/model"
)

func TestStubNew(t *testing.T) {
	client, err := New(DefaultConfig())
	if !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("expected ErrOCRNotEnabled, got %v", err)
	}
	if client != nil {
		t.Error("expected nil client from stub")
	}
}

func TestStubCloseOnNil(t *testing.T) {
	var client *Client
	if err := client.Close(); err != nil {
		t.Errorf("Close on nil client: %v", err)
	}
}

func TestStubRecognizeRegion(t *testing.T) {
	c := &Client{}
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	_, err := c.RecognizeRegion(img, model.Region{Width: 5, Height: 5})
	if !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("expected ErrOCRNotEnabled, got %v", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Language != "eng" {
		t.Errorf("default language = %q, want eng", cfg.Language)
	}
	if cfg.PageSegMode != PSM_SINGLE_BLOCK {
		t.Errorf("default PSM = %d, want %d", cfg.PageSegMode, PSM_SINGLE_BLOCK)
	}
}
