package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tsawler/palimpsest"
	"github.com/tsawler/palimpsest/assemble"
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Erase marked regions and write editable documents",
	Long: `Rebuild editable documents from a region file.

The region file lists the page images and the rectangles the user drew
over rendered text. Each requested output format gets the page images as
full-page backgrounds with an editable text box positioned over every
region. With --erase the marked text is removed from the backgrounds
first; with --ocr the original text is recovered and prefilled.`,
	RunE: runRebuild,
}

var (
	regionsPath string
	configPath  string

	outPPTX string
	outDOCX string
	outPDF  string
	outHTML string

	dpiFlag  float64
	fontName string
	fontSize float64
	rtlMode  string

	eraseFlag bool
	expandPx  int
	radius    int

	ocrFlag  bool
	ocrLang  string
	tessdata string
	psm      int

	shrink       bool
	marginPt     float64
	debugOutline bool
)

func init() {
	RootCmd.AddCommand(rebuildCmd)

	f := rebuildCmd.Flags()
	f.StringVar(&regionsPath, "regions", "", "Path to the region file (required unless set in --config)")
	f.StringVar(&configPath, "config", "", "YAML file with the same settings as the flags")

	f.StringVar(&outPPTX, "pptx", "", "Write a slide deck to this path")
	f.StringVar(&outDOCX, "docx", "", "Write a word-processor document to this path")
	f.StringVar(&outPDF, "pdf", "", "Write a PDF to this path")
	f.StringVar(&outHTML, "html", "", "Write an editable HTML preview to this path")

	f.Float64Var(&dpiFlag, "dpi", 300, "Resolution of the page images in pixels per inch")
	f.StringVar(&fontName, "font", "", "Font name for region text (format default if empty)")
	f.Float64Var(&fontSize, "size", 0, "Font size in points (automatic if 0)")
	f.StringVar(&rtlMode, "rtl", "off", "Right-to-left text handling: off, on, or auto")

	f.BoolVar(&eraseFlag, "erase", false, "Erase the marked text from the page backgrounds")
	f.IntVar(&expandPx, "expand-px", 2, "Pixels to grow each region before erasing")
	f.IntVar(&radius, "radius", 3, "Sampling radius for background fill")

	f.BoolVar(&ocrFlag, "ocr", false, "Recover region text with OCR")
	f.StringVar(&ocrLang, "lang", "eng", "OCR language, join multiples with +")
	f.StringVar(&tessdata, "tessdata", os.Getenv("TESSDATA_PREFIX"), "Directory with OCR traineddata files")
	f.IntVar(&psm, "psm", 6, "OCR page segmentation mode")

	f.BoolVar(&shrink, "shrink", false, "Shrink oversized text to fit its box where the format supports it")
	f.Float64Var(&marginPt, "margin-pt", 1.5, "Text inset inside each box, in points")
	f.BoolVar(&debugOutline, "debug-outline", false, "Draw each region's rectangle in the outputs")
}

func runRebuild(cmd *cobra.Command, args []string) error {
	if configPath != "" {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		applyConfig(cmd, cfg)
	}

	if regionsPath == "" {
		return errors.New("--regions is required")
	}

	mode, err := assemble.ParseRTLMode(rtlMode)
	if err != nil {
		return err
	}

	rb := palimpsest.Open(regionsPath).
		DPI(dpiFlag).
		RTL(mode).
		MarginPt(marginPt)

	if fontName != "" || fontSize > 0 {
		rb = rb.Font(fontName, fontSize)
	}
	if shrink {
		rb = rb.ShrinkToFit()
	}
	if debugOutline {
		rb = rb.DebugOutline()
	}
	if eraseFlag {
		rb = rb.Erase(expandPx, radius)
	}
	if ocrFlag {
		rb = rb.OCR(ocrLang, psm)
		if tessdata != "" {
			rb = rb.Tessdata(tessdata)
		}
	}

	if outPPTX != "" {
		rb = rb.PPTX(outPPTX)
	}
	if outDOCX != "" {
		rb = rb.DOCX(outDOCX)
	}
	if outPDF != "" {
		rb = rb.PDF(outPDF)
	}
	if outHTML != "" {
		rb = rb.HTML(outHTML)
	}

	written, err := rb.Run()
	if err != nil {
		return err
	}
	for _, path := range written {
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	return nil
}

// applyConfig fills in settings from the config file for every flag the
// user did not set explicitly.
func applyConfig(cmd *cobra.Command, cfg *fileConfig) {
	changed := cmd.Flags().Changed

	setString := func(name string, dst *string, val string) {
		if !changed(name) && val != "" {
			*dst = val
		}
	}
	setString("regions", &regionsPath, cfg.Regions)
	setString("pptx", &outPPTX, cfg.PPTX)
	setString("docx", &outDOCX, cfg.DOCX)
	setString("pdf", &outPDF, cfg.PDF)
	setString("html", &outHTML, cfg.HTML)
	setString("font", &fontName, cfg.Font)
	setString("rtl", &rtlMode, cfg.RTL)
	setString("lang", &ocrLang, cfg.Lang)
	setString("tessdata", &tessdata, cfg.Tessdata)

	if !changed("dpi") && cfg.DPI > 0 {
		dpiFlag = cfg.DPI
	}
	if !changed("size") && cfg.Size > 0 {
		fontSize = cfg.Size
	}
	if !changed("erase") && cfg.Erase {
		eraseFlag = true
	}
	if !changed("expand-px") && cfg.ExpandPx > 0 {
		expandPx = cfg.ExpandPx
	}
	if !changed("radius") && cfg.Radius > 0 {
		radius = cfg.Radius
	}
	if !changed("ocr") && cfg.OCR {
		ocrFlag = true
	}
	if !changed("psm") && cfg.PSM > 0 {
		psm = cfg.PSM
	}
	if !changed("shrink") && cfg.Shrink {
		shrink = true
	}
	if !changed("margin-pt") && cfg.MarginPt > 0 {
		marginPt = cfg.MarginPt
	}
	if !changed("debug-outline") && cfg.DebugOutline {
		debugOutline = true
	}
}
