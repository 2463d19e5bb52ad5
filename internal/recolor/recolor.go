// Package recolor implements brightness-threshold recoloring of a
// decoded image toward a single target color.
//
// Each pixel is classified by its minimum channel value: at or above
// the threshold it passes through byte-identical, below it the pixel
// blends linearly toward the target, the blend growing as the pixel
// darkens. Anti-aliased edges survive because the blend factor follows
// the brightness gradient instead of snapping to a hard cutoff. Alpha
// is copied unchanged.
package recolor

import (
	"image"
	"image/draw"
	"math"
	"runtime"
	"sync"

	"tools.zach/dev/logotint/internal/colorspec"
)

// DefaultThreshold is the brightness cutoff used when the caller does
// not supply one. Channels at or above it count as background white.
const DefaultThreshold = 240

// minParallelPixels is the image area below which [Apply] stays on a
// single goroutine; chunk spawn overhead dominates under this.
const minParallelPixels = 1 << 16

// ///////////////////////////////////////////////
// Public API
// ///////////////////////////////////////////////

// Apply recolors src toward target and returns the result as a new
// NRGBA image anchored at the origin. src is never modified. threshold
// is clamped to [0,255]. Rows are processed on up to GOMAXPROCS
// goroutines for large images; see [ApplyWorkers] to control the count.
func Apply(src image.Image, target colorspec.Color, threshold int) *image.NRGBA {
	return ApplyWorkers(src, target, threshold, 0)
}

// ApplyWorkers is [Apply] with an explicit goroutine count. workers <= 0
// means GOMAXPROCS; workers == 1 forces sequential execution. The
// result is identical for every worker count: rows are split into
// disjoint contiguous chunks with no shared mutable state.
func ApplyWorkers(src image.Image, target colorspec.Color, threshold, workers int) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return dst
	}

	if threshold < 0 {
		threshold = 0
	} else if threshold > 255 {
		threshold = 255
	}

	nsrc := toNRGBA(src)

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > h {
		workers = h
	}
	if workers == 1 || w*h < minParallelPixels {
		recolorRows(dst, nsrc, target, threshold, 0, h)
		return dst
	}

	chunk := (h + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < h; start += chunk {
		end := min(start+chunk, h)
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			recolorRows(dst, nsrc, target, threshold, start, end)
		}(start, end)
	}
	wg.Wait()
	return dst
}

// Brightness returns the whiteness measure of a pixel: the minimum of
// its color channels. A pixel is only as white as its dimmest channel.
func Brightness(r, g, b uint8) uint8 {
	return min(r, g, b)
}

// BlendFactor returns the fraction of the target color mixed into a
// pixel of the given brightness: 0 at or above the threshold, rising
// linearly to 1 at pure black.
func BlendFactor(brightness, threshold int) float64 {
	if brightness >= threshold {
		return 0
	}
	f := 1 - float64(brightness)/float64(threshold)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// ///////////////////////////////////////////////
// Kernel
// ///////////////////////////////////////////////

// recolorRows transforms rows [yMin, yMax) from src into dst. Both
// images are origin-anchored NRGBA of equal size; the row range is the
// unit of parallelism.
func recolorRows(dst, src *image.NRGBA, target colorspec.Color, threshold, yMin, yMax int) {
	w := dst.Rect.Dx()
	for y := yMin; y < yMax; y++ {
		si := y * src.Stride
		di := y * dst.Stride
		for range w {
			r, g, b, a := src.Pix[si], src.Pix[si+1], src.Pix[si+2], src.Pix[si+3]
			br := int(Brightness(r, g, b))
			if br >= threshold {
				dst.Pix[di], dst.Pix[di+1], dst.Pix[di+2], dst.Pix[di+3] = r, g, b, a
			} else {
				f := BlendFactor(br, threshold)
				dst.Pix[di] = blendChannel(r, target.R, f)
				dst.Pix[di+1] = blendChannel(g, target.G, f)
				dst.Pix[di+2] = blendChannel(b, target.B, f)
				dst.Pix[di+3] = a
			}
			si += 4
			di += 4
		}
	}
}

// blendChannel interpolates orig toward tgt by f, rounds to the nearest
// integer, and clamps to the channel range.
func blendChannel(orig, tgt uint8, f float64) uint8 {
	v := math.Round(float64(orig)*(1-f) + float64(tgt)*f)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// toNRGBA returns src as an origin-anchored straight-alpha NRGBA image,
// reusing the buffer when src already is one.
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := src.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), src, b.Min, draw.Src)
	return out
}
