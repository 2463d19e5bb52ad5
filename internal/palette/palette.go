// Package palette extracts representative colors and brightness statistics
// from a logo image. It backs the logoinspect diagnostics: dominant and
// k-means palettes, brightness quantiles, a threshold suggestion, and a
// labeled swatch preview.
package palette

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"slices"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"gonum.org/v1/gonum/stat"

	"tools.zach/dev/logotint/internal/atomicfile"
	"tools.zach/dev/logotint/internal/colorspec"
	"tools.zach/dev/logotint/internal/recolor"
)

// maxSamples caps the number of pixels fed to k-means so clustering stays
// tractable on large images.
const maxSamples = 12000

// ///////////////////////////////////////////////
// Palette Extraction
// ///////////////////////////////////////////////

// Entry is one palette color with its relative prominence. Weight is the
// share of sampled pixels attributed to the color; higher is more dominant.
type Entry struct {
	Color  colorspec.Color
	Weight float64
}

// Dominant extracts up to k prominent colors using weight-ranked dominant
// color analysis. Entries are ordered dark to light.
func Dominant(img image.Image, k int) []Entry {
	if k <= 0 {
		return nil
	}

	found := dominantcolor.FindWeight(img, k)
	entries := make([]Entry, 0, len(found))
	for _, c := range found {
		entries = append(entries, Entry{
			Color:  colorspec.Color{R: c.RGBA.R, G: c.RGBA.G, B: c.RGBA.B},
			Weight: c.Weight,
		})
	}
	sortDarkToLight(entries)
	return entries
}

// KMeans clusters a subsample of the image into k colors in RGB space.
// Entries are ordered dark to light and weighted by cluster population.
// Fully transparent pixels are excluded from the sample.
func KMeans(img image.Image, k int) ([]Entry, error) {
	if k <= 0 {
		return nil, nil
	}

	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width == 0 || height == 0 {
		return nil, nil
	}

	// Subsample to keep kmeans tractable on large images.
	step := 1
	if width*height > maxSamples {
		step = int(math.Sqrt(float64(width*height)/float64(maxSamples))) + 1
	}

	dataset := make(clusters.Observations, 0, min(width*height, maxSamples))
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			r16, g16, b16, a16 := img.At(x, y).RGBA()
			if a16 == 0 {
				continue
			}
			dataset = append(dataset, clusters.Coordinates{
				float64(r16) / 65535.0,
				float64(g16) / 65535.0,
				float64(b16) / 65535.0,
			})
		}
	}
	if len(dataset) == 0 {
		return nil, nil
	}
	if k > len(dataset) {
		k = len(dataset)
	}

	km := kmeans.New()
	cc, err := km.Partition(dataset, k)
	if err != nil {
		return nil, fmt.Errorf("clustering palette: %w", err)
	}

	entries := make([]Entry, 0, len(cc))
	for _, c := range cc {
		center := c.Center
		if len(center) < 3 {
			continue
		}
		entries = append(entries, Entry{
			Color: colorspec.Color{
				R: channelByte(center[0]),
				G: channelByte(center[1]),
				B: channelByte(center[2]),
			},
			Weight: float64(len(c.Observations)) / float64(len(dataset)),
		})
	}
	sortDarkToLight(entries)
	return entries, nil
}

// channelByte converts a clustered channel in [0,1] back to 8 bits.
func channelByte(v float64) uint8 {
	return uint8(math.Round(math.Min(math.Max(v, 0), 1) * 255))
}

// luminance returns the linear-RGB luminance of a color, 0 (black) to 1 (white).
func luminance(c colorspec.Color) float64 {
	col := colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
	r, g, b := col.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// sortDarkToLight orders entries from darkest to brightest so the ink end of
// a logo palette prints first.
func sortDarkToLight(entries []Entry) {
	slices.SortFunc(entries, func(a, b Entry) int {
		la, lb := luminance(a.Color), luminance(b.Color)
		if la < lb {
			return -1
		}
		if la > lb {
			return 1
		}
		return 0
	})
}

// ///////////////////////////////////////////////
// Brightness Statistics
// ///////////////////////////////////////////////

// Stats summarizes the min-channel brightness distribution of an image.
// Fully transparent pixels are not counted.
type Stats struct {
	// Pixels is the number of pixels measured.
	Pixels int
	// Mean and StdDev describe the brightness distribution in [0,255].
	Mean   float64
	StdDev float64
	// Median, P90 and P99 are the 0.50, 0.90 and 0.99 quantiles.
	Median float64
	P90    float64
	P99    float64
}

// Brightness computes min-channel brightness statistics over every pixel.
func Brightness(img image.Image) Stats {
	b := img.Bounds()
	xs := make([]float64, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r16, g16, b16, a16 := img.At(x, y).RGBA()
			if a16 == 0 {
				continue
			}
			br := recolor.Brightness(uint8(r16>>8), uint8(g16>>8), uint8(b16>>8))
			xs = append(xs, float64(br))
		}
	}
	if len(xs) == 0 {
		return Stats{}
	}

	slices.Sort(xs)
	return Stats{
		Pixels: len(xs),
		Mean:   stat.Mean(xs, nil),
		StdDev: stat.StdDev(xs, nil),
		Median: stat.Quantile(0.50, stat.Empirical, xs, nil),
		P90:    stat.Quantile(0.90, stat.Empirical, xs, nil),
		P99:    stat.Quantile(0.99, stat.Empirical, xs, nil),
	}
}

// SuggestThreshold proposes a whitepoint for the image: the brightness floor
// of the near-white histogram cluster, clamped to [1,255]. Images with no
// bright mass fall back to [recolor.DefaultThreshold].
func SuggestThreshold(img image.Image) int {
	var hist [256]int
	total := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r16, g16, b16, a16 := img.At(x, y).RGBA()
			if a16 == 0 {
				continue
			}
			hist[recolor.Brightness(uint8(r16>>8), uint8(g16>>8), uint8(b16>>8))]++
			total++
		}
	}
	if total == 0 {
		return recolor.DefaultThreshold
	}

	// Locate the background peak in the bright half. No mass there means
	// there is no white background to preserve.
	peak := 128
	for bin := 129; bin < 256; bin++ {
		if hist[bin] > hist[peak] {
			peak = bin
		}
	}
	if hist[peak] == 0 {
		return recolor.DefaultThreshold
	}

	// Walk down from the peak while bins keep a meaningful share of its
	// population. Anti-aliased edge ramps fall under the cut and end the walk.
	cut := max(hist[peak]/100, 1)
	floor := peak
	for bin := peak - 1; bin >= 0; bin-- {
		if hist[bin] < cut {
			break
		}
		floor = bin
	}

	if floor < 1 {
		floor = 1
	}
	return floor
}

// ///////////////////////////////////////////////
// Swatch Rendering
// ///////////////////////////////////////////////

// Swatch renders entries as a horizontal strip of tileSize-square tiles,
// each labeled with its hex value, and writes the PNG atomically to path.
// A tileSize of zero or less uses 64.
func Swatch(entries []Entry, tileSize int, path string) error {
	if len(entries) == 0 {
		return fmt.Errorf("empty palette")
	}
	if tileSize <= 0 {
		tileSize = 64
	}

	img := image.NewNRGBA(image.Rect(0, 0, tileSize*len(entries), tileSize))
	for i, e := range entries {
		tile := image.Rect(i*tileSize, 0, (i+1)*tileSize, tileSize)
		draw.Draw(img, tile, image.NewUniform(e.Color.NRGBA()), image.Point{}, draw.Src)
		drawLabel(img, tile, e.Color)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode swatch png: %w", err)
	}
	if err := atomicfile.Write(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write swatch: %w", err)
	}
	return nil
}

// drawLabel draws the hex value centered near the bottom of the tile, in
// black or white depending on the tile's luminance.
func drawLabel(img *image.NRGBA, tile image.Rectangle, c colorspec.Color) {
	ink := color.NRGBA{A: 255}
	if luminance(c) < 0.5 {
		ink = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}

	label := c.Hex()
	face := basicfont.Face7x13
	width := font.MeasureString(face, label).Ceil()

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(ink),
		Face: face,
		Dot:  fixed.P(tile.Min.X+(tile.Dx()-width)/2, tile.Max.Y-6),
	}
	d.DrawString(label)
}
