// render.go implements PNG rendering for the generate-logo tool.
// [RenderLogo] produces an image with the configured text centered on a
// solid background, sized according to [LogoConfig].

package main

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// RenderLogo renders the configured text centered on the canvas and returns
// the PNG bytes.
func RenderLogo(cfg LogoConfig, otFont *opentype.Font) ([]byte, error) {
	bgColor, err := ParseHexColor(cfg.Background)
	if err != nil {
		return nil, fmt.Errorf("parse background: %w", err)
	}
	inkColor, err := ParseHexColor(cfg.Ink)
	if err != nil {
		return nil, fmt.Errorf("parse ink: %w", err)
	}

	// Face at the configured point size
	face, err := opentype.NewFace(otFont, &opentype.FaceOptions{
		Size:    float64(cfg.FontSize),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	defer face.Close()

	// Measure the text bounding box for visual centering.
	// BoundString measures the real glyph extents so centering works for
	// any text, not just the default.
	bounds, _ := font.BoundString(face, cfg.Text)

	textW := (bounds.Max.X - bounds.Min.X).Ceil()
	textH := (bounds.Max.Y - bounds.Min.Y).Ceil()

	// Center the text on the canvas
	originX := (cfg.Width-textW)/2 - bounds.Min.X.Floor()
	originY := (cfg.Height-textH)/2 - bounds.Min.Y.Floor()

	// Canvas, flooded with the background color
	img := image.NewNRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(bgColor), image.Point{}, draw.Src)

	// Draw the text
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(inkColor),
		Face: face,
		Dot:  fixed.P(originX, originY),
	}
	d.DrawString(cfg.Text)

	// Encode to PNG
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
