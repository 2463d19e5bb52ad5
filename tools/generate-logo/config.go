// config.go defines the logo configuration type and JSON loading for the
// generate-logo tool. [LogoConfig] is deserialized from logo.json; zero
// fields fall back to the defaults in [defaultLogoConfig].

package main

import (
	"encoding/json"
	"os"
)

// LogoConfig holds the sample-logo rendering settings.
type LogoConfig struct {
	// Text is the string rendered onto the logo.
	Text string `json:"text,omitempty"`
	// Font is a local font file path relative to logo.json.
	Font string `json:"font,omitempty"`
	// FontFallback is a Google Fonts spec (e.g. "google:Inter:600") tried
	// when the local font file cannot be read.
	FontFallback string `json:"font_fallback,omitempty"`
	// Width and Height are the canvas dimensions in pixels.
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
	// FontSize is in points at 72 DPI.
	FontSize int `json:"font_size,omitempty"`
	// Background is the canvas hex color (e.g. "#FFFFFF").
	Background string `json:"background,omitempty"`
	// Ink is the text hex color (e.g. "#222222").
	Ink string `json:"ink,omitempty"`
}

// defaultLogoConfig returns the settings used for fields logo.json leaves out:
// a white canvas with dark ink, so the rendered sample spans the whole
// brightness range the recolor threshold splits.
func defaultLogoConfig() LogoConfig {
	return LogoConfig{
		Text:         "Logotint",
		FontFallback: "google:Inter:600",
		Width:        512,
		Height:       256,
		FontSize:     96,
		Background:   "#FFFFFF",
		Ink:          "#222222",
	}
}

// mergeLogoConfig applies non-zero fields from src onto dst.
func mergeLogoConfig(dst *LogoConfig, src LogoConfig) {
	if src.Text != "" {
		dst.Text = src.Text
	}
	if src.Font != "" {
		dst.Font = src.Font
	}
	if src.FontFallback != "" {
		dst.FontFallback = src.FontFallback
	}
	if src.Width != 0 {
		dst.Width = src.Width
	}
	if src.Height != 0 {
		dst.Height = src.Height
	}
	if src.FontSize != 0 {
		dst.FontSize = src.FontSize
	}
	if src.Background != "" {
		dst.Background = src.Background
	}
	if src.Ink != "" {
		dst.Ink = src.Ink
	}
}

// LoadLogoConfig reads and parses a logo.json file, filling unset fields
// from [defaultLogoConfig].
func LoadLogoConfig(path string) (LogoConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return LogoConfig{}, err
	}
	var fromFile LogoConfig
	if err := json.Unmarshal(data, &fromFile); err != nil {
		return LogoConfig{}, err
	}
	cfg := defaultLogoConfig()
	mergeLogoConfig(&cfg, fromFile)
	return cfg, nil
}
