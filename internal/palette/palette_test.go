// Tests for palette extraction and brightness diagnostics. Exercises
// [Dominant], [KMeans], [Brightness], [SuggestThreshold], and [Swatch].
package palette

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"tools.zach/dev/logotint/internal/colorspec"
	"tools.zach/dev/logotint/internal/recolor"
)

// twoTone returns a w×h opaque image with the left half in a and the right
// half in b.
func twoTone(w, h int, a, b color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, image.Rect(0, 0, w/2, h), image.NewUniform(a), image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(w/2, 0, w, h), image.NewUniform(b), image.Point{}, draw.Src)
	return img
}

// uniform returns a w×h opaque image filled with c.
func uniform(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

// near reports whether two channel values are within tol of each other.
func near(a, b uint8, tol int) bool {
	d := int(a) - int(b)
	if d < 0 {
		d = -d
	}
	return d <= tol
}

// ///////////////////////////////////////////////
// Dominant Tests
// ///////////////////////////////////////////////

func TestDominant(t *testing.T) {
	img := twoTone(64, 64,
		color.NRGBA{R: 200, G: 40, B: 40, A: 255},
		color.NRGBA{R: 40, G: 40, B: 200, A: 255})

	entries := Dominant(img, 2)
	if len(entries) == 0 || len(entries) > 2 {
		t.Fatalf("Dominant returned %d entries, want 1 or 2", len(entries))
	}
	for i, e := range entries {
		if e.Weight <= 0 {
			t.Errorf("entry %d has non-positive weight %v", i, e.Weight)
		}
	}
	for i := 1; i < len(entries); i++ {
		if luminance(entries[i-1].Color) > luminance(entries[i].Color) {
			t.Errorf("entries not ordered dark to light: %v before %v",
				entries[i-1].Color, entries[i].Color)
		}
	}
}

func TestDominantZeroK(t *testing.T) {
	img := uniform(8, 8, color.NRGBA{R: 100, G: 100, B: 100, A: 255})
	if got := Dominant(img, 0); got != nil {
		t.Errorf("Dominant with k=0 = %v, want nil", got)
	}
}

// ///////////////////////////////////////////////
// KMeans Tests
// ///////////////////////////////////////////////

func TestKMeansTwoColors(t *testing.T) {
	ink := color.NRGBA{R: 30, G: 30, B: 30, A: 255}
	paper := color.NRGBA{R: 240, G: 240, B: 240, A: 255}
	img := twoTone(40, 40, ink, paper)

	entries, err := KMeans(img, 2)
	if err != nil {
		t.Fatalf("KMeans: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("KMeans returned %d entries, want 2", len(entries))
	}

	// Dark to light ordering makes the indices deterministic.
	dark, light := entries[0].Color, entries[1].Color
	if !near(dark.R, 30, 8) || !near(dark.G, 30, 8) || !near(dark.B, 30, 8) {
		t.Errorf("dark cluster = %v, want near rgb(30,30,30)", dark)
	}
	if !near(light.R, 240, 8) || !near(light.G, 240, 8) || !near(light.B, 240, 8) {
		t.Errorf("light cluster = %v, want near rgb(240,240,240)", light)
	}

	// Both halves are equal, so weights should be roughly even and sum to 1.
	sum := 0.0
	for _, e := range entries {
		if e.Weight < 0.3 || e.Weight > 0.7 {
			t.Errorf("cluster weight %v outside [0.3,0.7]", e.Weight)
		}
		sum += e.Weight
	}
	if math.Abs(sum-1) > 0.001 {
		t.Errorf("weights sum to %v, want 1", sum)
	}
}

func TestKMeansZeroK(t *testing.T) {
	img := uniform(8, 8, color.NRGBA{R: 100, G: 100, B: 100, A: 255})
	entries, err := KMeans(img, 0)
	if err != nil {
		t.Fatalf("KMeans: %v", err)
	}
	if entries != nil {
		t.Errorf("KMeans with k=0 = %v, want nil", entries)
	}
}

func TestKMeansTransparentImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	entries, err := KMeans(img, 2)
	if err != nil {
		t.Fatalf("KMeans: %v", err)
	}
	if entries != nil {
		t.Errorf("KMeans on transparent image = %v, want nil", entries)
	}
}

// ///////////////////////////////////////////////
// Brightness Tests
// ///////////////////////////////////////////////

func TestBrightnessUniform(t *testing.T) {
	// Min channel of (100,150,200) is 100 for every pixel.
	img := uniform(4, 4, color.NRGBA{R: 100, G: 150, B: 200, A: 255})

	s := Brightness(img)
	if s.Pixels != 16 {
		t.Errorf("Pixels = %d, want 16", s.Pixels)
	}
	if s.Mean != 100 {
		t.Errorf("Mean = %v, want 100", s.Mean)
	}
	if s.StdDev != 0 {
		t.Errorf("StdDev = %v, want 0", s.StdDev)
	}
	if s.Median != 100 || s.P90 != 100 || s.P99 != 100 {
		t.Errorf("quantiles = %v/%v/%v, want 100/100/100", s.Median, s.P90, s.P99)
	}
}

func TestBrightnessSplit(t *testing.T) {
	// Half the pixels at brightness 50, half at 250.
	img := twoTone(4, 4,
		color.NRGBA{R: 50, G: 80, B: 90, A: 255},
		color.NRGBA{R: 250, G: 250, B: 250, A: 255})

	s := Brightness(img)
	if s.Pixels != 16 {
		t.Errorf("Pixels = %d, want 16", s.Pixels)
	}
	if s.Mean != 150 {
		t.Errorf("Mean = %v, want 150", s.Mean)
	}
	if math.Abs(s.StdDev-103.2796) > 0.001 {
		t.Errorf("StdDev = %v, want ~103.2796", s.StdDev)
	}
	if s.Median != 50 {
		t.Errorf("Median = %v, want 50", s.Median)
	}
	if s.P90 != 250 || s.P99 != 250 {
		t.Errorf("P90/P99 = %v/%v, want 250/250", s.P90, s.P99)
	}
}

func TestBrightnessEmptyImage(t *testing.T) {
	s := Brightness(image.NewNRGBA(image.Rect(0, 0, 0, 0)))
	if s.Pixels != 0 {
		t.Errorf("Pixels = %d, want 0", s.Pixels)
	}
}

// ///////////////////////////////////////////////
// SuggestThreshold Tests
// ///////////////////////////////////////////////

func TestSuggestThreshold(t *testing.T) {
	tests := []struct {
		name  string
		build func() image.Image
		want  int
	}{
		{
			name: "flat white background with ink",
			build: func() image.Image {
				img := uniform(100, 100, color.NRGBA{R: 250, G: 250, B: 250, A: 255})
				draw.Draw(img, image.Rect(10, 10, 40, 40),
					image.NewUniform(color.NRGBA{R: 30, G: 30, B: 30, A: 255}),
					image.Point{}, draw.Src)
				return img
			},
			want: 250,
		},
		{
			name: "spread background reaches its floor",
			build: func() image.Image {
				img := uniform(100, 100, color.NRGBA{R: 250, G: 250, B: 250, A: 255})
				draw.Draw(img, image.Rect(0, 0, 100, 30),
					image.NewUniform(color.NRGBA{R: 248, G: 248, B: 248, A: 255}),
					image.Point{}, draw.Src)
				draw.Draw(img, image.Rect(0, 30, 100, 60),
					image.NewUniform(color.NRGBA{R: 249, G: 249, B: 249, A: 255}),
					image.Point{}, draw.Src)
				return img
			},
			want: 248,
		},
		{
			name: "dark image falls back to default",
			build: func() image.Image {
				return uniform(32, 32, color.NRGBA{R: 40, G: 40, B: 40, A: 255})
			},
			want: recolor.DefaultThreshold,
		},
		{
			name: "empty image falls back to default",
			build: func() image.Image {
				return image.NewNRGBA(image.Rect(0, 0, 0, 0))
			},
			want: recolor.DefaultThreshold,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SuggestThreshold(tt.build()); got != tt.want {
				t.Errorf("SuggestThreshold = %d, want %d", got, tt.want)
			}
		})
	}
}

// ///////////////////////////////////////////////
// Ordering Tests
// ///////////////////////////////////////////////

func TestSortDarkToLight(t *testing.T) {
	entries := []Entry{
		{Color: colorspec.Color{R: 255, G: 255, B: 255}},
		{Color: colorspec.Color{R: 10, G: 10, B: 10}},
		{Color: colorspec.Color{R: 128, G: 128, B: 128}},
	}
	sortDarkToLight(entries)

	want := []colorspec.Color{
		{R: 10, G: 10, B: 10},
		{R: 128, G: 128, B: 128},
		{R: 255, G: 255, B: 255},
	}
	for i := range want {
		if entries[i].Color != want[i] {
			t.Errorf("entry %d = %v, want %v", i, entries[i].Color, want[i])
		}
	}
}

// ///////////////////////////////////////////////
// Swatch Tests
// ///////////////////////////////////////////////

func TestSwatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "swatch.png")

	entries := []Entry{
		{Color: colorspec.Color{R: 29, G: 29, B: 29}, Weight: 0.5},
		{Color: colorspec.Color{R: 29, G: 99, B: 237}, Weight: 0.3},
		{Color: colorspec.Color{R: 255, G: 255, B: 255}, Weight: 0.2},
	}
	if err := Swatch(entries, 64, path); err != nil {
		t.Fatalf("Swatch: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if got := img.Bounds(); got.Dx() != 192 || got.Dy() != 64 {
		t.Fatalf("swatch bounds = %dx%d, want 192x64", got.Dx(), got.Dy())
	}

	// Sample well above the label area, at each tile's horizontal center.
	for i, e := range entries {
		r16, g16, b16, _ := img.At(i*64+32, 20).RGBA()
		got := colorspec.Color{R: uint8(r16 >> 8), G: uint8(g16 >> 8), B: uint8(b16 >> 8)}
		if got != e.Color {
			t.Errorf("tile %d color = %v, want %v", i, got, e.Color)
		}
	}

	// The atomic write should leave no temp files behind.
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(dirEntries) != 1 {
		t.Errorf("output dir has %d entries, want only the swatch", len(dirEntries))
	}
}

func TestSwatchDefaultTileSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swatch.png")
	entries := []Entry{{Color: colorspec.Color{R: 29, G: 99, B: 237}, Weight: 1}}

	if err := Swatch(entries, 0, path); err != nil {
		t.Fatalf("Swatch: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := img.Bounds(); got.Dx() != 64 || got.Dy() != 64 {
		t.Errorf("swatch bounds = %dx%d, want 64x64", got.Dx(), got.Dy())
	}
}

func TestSwatchEmptyPalette(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swatch.png")
	if err := Swatch(nil, 64, path); err == nil {
		t.Fatal("expected error for empty palette, got nil")
	}
}
