package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the rebuild flags so a run can be described in a
// YAML file. Explicit flags always win over config values.
type fileConfig struct {
	Regions string `yaml:"regions"`

	PPTX string `yaml:"pptx"`
	DOCX string `yaml:"docx"`
	PDF  string `yaml:"pdf"`
	HTML string `yaml:"html"`

	DPI  float64 `yaml:"dpi"`
	Font string  `yaml:"font"`
	Size float64 `yaml:"size"`
	RTL  string  `yaml:"rtl"`

	Erase    bool `yaml:"erase"`
	ExpandPx int  `yaml:"expand_px"`
	Radius   int  `yaml:"radius"`

	OCR      bool   `yaml:"ocr"`
	Lang     string `yaml:"lang"`
	Tessdata string `yaml:"tessdata"`
	PSM      int    `yaml:"psm"`

	Shrink       bool    `yaml:"shrink"`
	MarginPt     float64 `yaml:"margin_pt"`
	DebugOutline bool    `yaml:"debug_outline"`
}

func loadConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &cfg, nil
}
