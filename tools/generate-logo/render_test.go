// render_test.go tests [RenderLogo] output: valid PNG encoding, correct
// dimensions, background fill, anti-aliased edges, and error handling for
// invalid color inputs.

package main

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

func TestRenderLogo(t *testing.T) {
	otFont, err := opentype.Parse(goregular.TTF)
	if err != nil {
		t.Fatalf("opentype.Parse on the embedded font: %v", err)
	}

	cfg := defaultLogoConfig()
	data, err := RenderLogo(cfg, otFont)
	if err != nil {
		t.Fatalf("RenderLogo: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not decodable PNG: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != cfg.Width || bounds.Dy() != cfg.Height {
		t.Errorf("image size = %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), cfg.Width, cfg.Height)
	}

	// Corners are pure background; the centered text never reaches them.
	r, g, b, _ := img.At(0, 0).RGBA()
	if uint8(r>>8) != 255 || uint8(g>>8) != 255 || uint8(b>>8) != 255 {
		t.Errorf("corner pixel = (%d,%d,%d), want white background", r>>8, g>>8, b>>8)
	}

	// Anti-aliasing leaves at least one pixel between ink and background.
	bg := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	ink := color.NRGBA{R: 0x22, G: 0x22, B: 0x22, A: 255}
	blended := false
	for y := bounds.Min.Y; y < bounds.Max.Y && !blended; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c != bg && c != ink {
				blended = true
				break
			}
		}
	}
	if !blended {
		t.Error("expected anti-aliased pixels between ink and background")
	}
}

func TestRenderLogoBadColor(t *testing.T) {
	otFont, err := opentype.Parse(goregular.TTF)
	if err != nil {
		t.Fatalf("opentype.Parse on the embedded font: %v", err)
	}

	cfg := defaultLogoConfig()
	cfg.Ink = "not-a-color"

	if _, err := RenderLogo(cfg, otFont); err == nil {
		t.Error("RenderLogo accepted an unparseable ink color")
	}
}
