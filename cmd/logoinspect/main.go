// Package main implements logoinspect, a diagnostic companion to logotint
// that reports an image's palette and brightness distribution to help pick a
// target color and whitepoint threshold.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"tools.zach/dev/logotint/internal/imageio"
	"tools.zach/dev/logotint/internal/palette"
)

// ///////////////////////////////////////////////
// Usage
// ///////////////////////////////////////////////

// usage prints the command synopsis and flag defaults to the flag package's
// configured output (stderr by default).
func usage() {
	w := flag.CommandLine.Output()
	fmt.Fprintf(w, "Usage: logoinspect [flags] <image>\n\n")
	fmt.Fprintf(w, "Reports the image's palette, brightness distribution, and a suggested\n")
	fmt.Fprintf(w, "whitepoint threshold for logotint.\n\nFlags:\n")
	flag.PrintDefaults()
}

// ///////////////////////////////////////////////
// Main
// ///////////////////////////////////////////////

func main() {
	top := flag.Int("top", 5, "Dominant palette size")
	k := flag.Int("k", 0, "Also cluster the image with k-means into this many colors (0 = off)")
	swatchPath := flag.String("swatch", "", "Write a labeled palette strip PNG to this path")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}

	if err := inspect(os.Stdout, flag.Arg(0), *top, *k, *swatchPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// ///////////////////////////////////////////////
// Inspection
// ///////////////////////////////////////////////

// inspect decodes the image at path and writes the palette and brightness
// report to w. With k > 0 a k-means palette is added; with a non-empty
// swatchPath the report palette (k-means when enabled, dominant otherwise)
// is also rendered as a labeled strip PNG.
func inspect(w io.Writer, path string, top, k int, swatchPath string) error {
	img, format, err := imageio.Decode(path)
	if err != nil {
		return err
	}

	bounds := img.Bounds()
	stats := palette.Brightness(img)
	fmt.Fprintf(w, "%s: %dx%d %s, %d opaque pixels\n",
		filepath.Base(path), bounds.Dx(), bounds.Dy(), format, stats.Pixels)

	dom := palette.Dominant(img, top)
	printPalette(w, fmt.Sprintf("Dominant palette, top %d", top), dom)

	swatch := dom
	if k > 0 {
		km, err := palette.KMeans(img, k)
		if err != nil {
			return err
		}
		printPalette(w, fmt.Sprintf("K-means palette, k=%d", k), km)
		swatch = km
	}

	fmt.Fprintf(w, "\nBrightness (darkest channel per pixel):\n")
	fmt.Fprintf(w, "  mean %.1f  stddev %.1f\n", stats.Mean, stats.StdDev)
	fmt.Fprintf(w, "  p50 %.0f  p90 %.0f  p99 %.0f\n", stats.Median, stats.P90, stats.P99)
	fmt.Fprintf(w, "\nSuggested threshold: %d\n", palette.SuggestThreshold(img))

	if swatchPath != "" {
		if err := palette.Swatch(swatch, 0, swatchPath); err != nil {
			return err
		}
		fmt.Fprintf(w, "Swatch written to %s\n", swatchPath)
	}
	return nil
}

// printPalette writes one line per palette entry: hex, rgb triple, and the
// entry's share of the sampled pixels.
func printPalette(w io.Writer, title string, entries []palette.Entry) {
	fmt.Fprintf(w, "\n%s (dark -> light):\n", title)
	if len(entries) == 0 {
		fmt.Fprintf(w, "  (no opaque pixels)\n")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(w, "  %s  %-16s %5.1f%%\n", e.Color.Hex(), e.Color.String(), e.Weight*100)
	}
}
