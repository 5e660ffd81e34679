// Package format provides image format detection for page images.
package format

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Format represents a supported page-image format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PNG indicates a PNG image.
	PNG
	// JPEG indicates a JPEG image.
	JPEG
	// TIFF indicates a TIFF image (either byte order).
	TIFF
	// BMP indicates a Windows bitmap image.
	BMP
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PNG:
		return "PNG"
	case JPEG:
		return "JPEG"
	case TIFF:
		return "TIFF"
	case BMP:
		return "BMP"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case PNG:
		return ".png"
	case JPEG:
		return ".jpg"
	case TIFF:
		return ".tiff"
	case BMP:
		return ".bmp"
	default:
		return ""
	}
}

// ContentType returns the MIME type recorded for the format in OOXML
// package content types.
func (f Format) ContentType() string {
	switch f {
	case PNG:
		return "image/png"
	case JPEG:
		return "image/jpeg"
	case TIFF:
		return "image/tiff"
	case BMP:
		return "image/bmp"
	default:
		return "application/octet-stream"
	}
}

// Detect determines image format from the filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".png":
		return PNG
	case ".jpg", ".jpeg":
		return JPEG
	case ".tif", ".tiff":
		return TIFF
	case ".bmp":
		return BMP
	default:
		return Unknown
	}
}

// DetectFromMagic checks leading magic bytes to determine the image format.
// This is more reliable than extension-based detection; scanned pages often
// arrive with misleading extensions. Returns Unknown if the bytes match no
// supported format.
func DetectFromMagic(data []byte) Format {
	if len(data) < 4 {
		return Unknown
	}

	// PNG magic: \x89PNG
	if bytes.HasPrefix(data, []byte{0x89, 'P', 'N', 'G'}) {
		return PNG
	}

	// JPEG magic: \xFF\xD8\xFF
	if bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}) {
		return JPEG
	}

	// TIFF magic: II*\x00 (little endian) or MM\x00* (big endian)
	if bytes.HasPrefix(data, []byte{'I', 'I', 0x2A, 0x00}) ||
		bytes.HasPrefix(data, []byte{'M', 'M', 0x00, 0x2A}) {
		return TIFF
	}

	// BMP magic: BM
	if bytes.HasPrefix(data, []byte{'B', 'M'}) {
		return BMP
	}

	return Unknown
}
