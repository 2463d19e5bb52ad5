// generate-logo renders the project's sample logo.
//
// Reads text and styling from logo.json, resolves a font, and renders the
// text centered on a white background in a dark ink. The anti-aliased edges
// give the sample the full range of gray values between ink and background.
// Output goes to assets/logo.png at the repo root.
//
// Font resolution:
//  1. Local file path from logo.json "font" field (relative to logo.json)
//  2. Google Fonts download from "font_fallback" field (e.g. "google:Inter:600")
//
// Usage:
//
//	cd tools/generate-logo && go run .
//	cd tools/generate-logo && go run . -config logo.json -out ../../assets/logo.png
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tdewolff/font"
	"golang.org/x/image/font/opentype"
)

func main() {
	// Default paths assume running from tools/generate-logo/
	cfgPath := flag.String("config", "logo.json", "Path to the logo config")
	outPath := flag.String("out", "../../assets/logo.png", "Output PNG path")
	flag.Parse()

	cfg, err := LoadLogoConfig(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: load config: %v\n", err)
		os.Exit(1)
	}

	// Font paths in logo.json and the download cache live next to the config.
	cfgDir := filepath.Dir(*cfgPath)
	fontCacheDir := filepath.Join(cfgDir, ".fontcache")

	fontBytes, err := resolveFont(cfg, cfgDir, fontCacheDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	otFont, err := opentype.Parse(fontBytes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: parse font: %v\n", err)
		os.Exit(1)
	}

	pngData, err := RenderLogo(cfg, otFont)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: render logo: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error: create output dir: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*outPath, pngData, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error: write %s: %v\n", *outPath, err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s (%dx%d, %q)\n", *outPath, cfg.Width, cfg.Height, cfg.Text)
}

// resolveFont tries to load the configured font using this fallback chain:
//  1. Local file from cfg.Font (path relative to cfgDir)
//  2. Google Fonts from cfg.FontFallback (e.g. "google:Inter:600")
func resolveFont(cfg LogoConfig, cfgDir, fontCacheDir string) ([]byte, error) {
	// Local file first
	if cfg.Font != "" {
		localPath := filepath.Join(cfgDir, cfg.Font)
		if data, err := os.ReadFile(localPath); err == nil {
			fmt.Printf("font: %s (local)\n", cfg.Font)
			return maybeConvertWOFF2(localPath, data)
		}
	}

	// Then the Google Fonts fallback
	if cfg.FontFallback != "" {
		family, weight, ok := ParseGoogleFontSpec(cfg.FontFallback)
		if ok {
			fmt.Printf("font: %s wght@%s (Google Fonts)\n", family, weight)
			data, err := FetchGoogleFont(cfg.FontFallback, fontCacheDir)
			if err != nil {
				return nil, fmt.Errorf("google fonts fallback failed: %w", err)
			}
			return data, nil
		}
	}

	return nil, fmt.Errorf("no font configured (set \"font\" or \"font_fallback\" in logo.json)")
}

// maybeConvertWOFF2 passes data through [font.ToSFNT] when it looks like
// WOFF2, and returns it untouched otherwise.
func maybeConvertWOFF2(path string, data []byte) ([]byte, error) {
	if isWOFF2(path, data) {
		sfnt, err := font.ToSFNT(data)
		if err != nil {
			return nil, fmt.Errorf("convert woff2 to sfnt: %w", err)
		}
		return sfnt, nil
	}
	return data, nil
}

// isWOFF2 sniffs WOFF2 by file extension or by the leading "wOF2" magic.
func isWOFF2(path string, data []byte) bool {
	if strings.HasSuffix(strings.ToLower(path), ".woff2") {
		return true
	}
	if len(data) >= 4 && data[0] == 'w' && data[1] == 'O' && data[2] == 'F' && data[3] == '2' {
		return true
	}
	return false
}
