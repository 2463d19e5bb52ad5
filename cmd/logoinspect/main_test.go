package main

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tools.zach/dev/logotint/internal/colorspec"
	"tools.zach/dev/logotint/internal/imageio"
	"tools.zach/dev/logotint/internal/palette"
)

// ///////////////////////////////////////////////
// Helpers
// ///////////////////////////////////////////////

// writeTestPNG writes a 4x4 PNG at path filled with the given color.
func writeTestPNG(t *testing.T, path string, fill color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := range 4 {
		for x := range 4 {
			img.SetNRGBA(x, y, fill)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
}

// writeTwoTonePNG writes a 4x4 PNG with the top half in a and the bottom
// half in b.
func writeTwoTonePNG(t *testing.T, path string, a, b color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := range 4 {
		fill := a
		if y >= 2 {
			fill = b
		}
		for x := range 4 {
			img.SetNRGBA(x, y, fill)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
}

// ///////////////////////////////////////////////
// inspect Tests
// ///////////////////////////////////////////////

func TestInspect_UniformImage(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.png")
	writeTestPNG(t, input, color.NRGBA{R: 120, G: 130, B: 140, A: 255})

	var out bytes.Buffer
	if err := inspect(&out, input, 2, 0, ""); err != nil {
		t.Fatalf("inspect() error: %v", err)
	}
	report := out.String()

	// A uniform mid-tone image has fully deterministic statistics: the
	// darkest channel is 120 everywhere, and the image is too dark for a
	// near-white cluster so the suggestion falls back to the default.
	for _, want := range []string{
		"in.png: 4x4 png, 16 opaque pixels",
		"Dominant palette, top 2 (dark -> light):",
		"mean 120.0  stddev 0.0",
		"p50 120  p90 120  p99 120",
		"Suggested threshold: 240",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("inspect() report missing %q\nreport:\n%s", want, report)
		}
	}
}

func TestInspect_KMeansAndSwatch(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "logo.png")
	writeTwoTonePNG(t, input,
		color.NRGBA{R: 30, G: 30, B: 30, A: 255},
		color.NRGBA{R: 240, G: 240, B: 240, A: 255},
	)
	swatchPath := filepath.Join(dir, "swatch.png")

	var out bytes.Buffer
	if err := inspect(&out, input, 2, 2, swatchPath); err != nil {
		t.Fatalf("inspect() error: %v", err)
	}
	report := out.String()

	if !strings.Contains(report, "K-means palette, k=2 (dark -> light):") {
		t.Errorf("inspect() report missing k-means section:\n%s", report)
	}
	if !strings.Contains(report, "Swatch written to "+swatchPath) {
		t.Errorf("inspect() report missing swatch line:\n%s", report)
	}

	// The swatch must exist and decode; two clusters at the default tile
	// size make a 128x64 strip.
	img, format, err := imageio.Decode(swatchPath)
	if err != nil {
		t.Fatalf("Decode(swatch) error: %v", err)
	}
	if format != "png" {
		t.Errorf("swatch format = %q, want png", format)
	}
	if img.Bounds().Dx() != 128 || img.Bounds().Dy() != 64 {
		t.Errorf("swatch bounds = %v, want 128x64", img.Bounds())
	}
}

func TestInspect_MissingFile(t *testing.T) {
	dir := t.TempDir()

	var out bytes.Buffer
	err := inspect(&out, filepath.Join(dir, "absent.png"), 5, 0, "")
	if err == nil {
		t.Fatal("inspect() expected error for missing file")
	}
	var readErr *imageio.ReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("inspect() error = %v, want *imageio.ReadError", err)
	}
}

// ///////////////////////////////////////////////
// printPalette Tests
// ///////////////////////////////////////////////

func TestPrintPalette_Entries(t *testing.T) {
	var out bytes.Buffer
	printPalette(&out, "Dominant palette, top 1", []palette.Entry{
		{Color: colorspec.Color{R: 29, G: 99, B: 237}, Weight: 0.5},
	})

	got := out.String()
	for _, want := range []string{"#1d63ed", "rgb(29,99,237)", "50.0%"} {
		if !strings.Contains(got, want) {
			t.Errorf("printPalette() output missing %q:\n%s", want, got)
		}
	}
}

func TestPrintPalette_Empty(t *testing.T) {
	var out bytes.Buffer
	printPalette(&out, "Dominant palette, top 5", nil)

	if !strings.Contains(out.String(), "(no opaque pixels)") {
		t.Errorf("printPalette() output = %q, want the empty-palette marker", out.String())
	}
}
