package ocr

// Page segmentation modes, controlling how Tesseract analyzes layout.
// These mirror Tesseract's own PSM numbering.
const (
	PSM_OSD_ONLY               = 0  // Orientation and script detection only
	PSM_AUTO_OSD               = 1  // Automatic with OSD
	PSM_AUTO_ONLY              = 2  // Automatic, no OSD or OCR
	PSM_AUTO                   = 3  // Fully automatic (Tesseract default)
	PSM_SINGLE_COLUMN          = 4  // Single column of variable sizes
	PSM_SINGLE_BLOCK_VERT_TEXT = 5  // Single uniform block of vertically aligned text
	PSM_SINGLE_BLOCK           = 6  // Single uniform block of text
	PSM_SINGLE_LINE            = 7  // Single text line
	PSM_SINGLE_WORD            = 8  // Single word
	PSM_CIRCLE_WORD            = 9  // Single word in a circle
	PSM_SINGLE_CHAR            = 10 // Single character
	PSM_SPARSE_TEXT            = 11 // Find as much text as possible
	PSM_SPARSE_TEXT_OSD        = 12 // Sparse text with OSD
	PSM_RAW_LINE               = 13 // Treat image as single text line
)

// Config holds engine settings for a recognition run. All regions of one
// pipeline run share a single Config; there is no ambient engine state.
type Config struct {
	// Language selects trained data, "+"-separated for multiple
	// languages (e.g. "eng+fra").
	Language string

	// PageSegMode is the Tesseract page segmentation mode. User-drawn
	// regions are usually single blocks of text, so the default is
	// PSM_SINGLE_BLOCK rather than Tesseract's full-page default.
	PageSegMode int

	// TessdataPrefix overrides the directory Tesseract loads trained
	// data from. Empty means the engine's own default.
	TessdataPrefix string
}

// DefaultConfig returns the settings used when the caller specifies none.
func DefaultConfig() Config {
	return Config{
		Language:    "eng",
		PageSegMode: PSM_SINGLE_BLOCK,
	}
}
