// Package imageio decodes input images and encodes results to disk.
//
// Decoding detects the format from the stream contents; PNG, JPEG,
// GIF, BMP, TIFF, and WebP are registered. Encoding picks the codec
// from the output path's extension and writes through an atomic
// temp-file rename, so a failed run never leaves a partial output.
package imageio

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp" // decode only

	"tools.zach/dev/logotint/internal/atomicfile"
)

// ///////////////////////////////////////////////
// Errors
// ///////////////////////////////////////////////

// ReadError reports a failure to open or decode an input image.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read image %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError reports a failure to encode or persist an output image.
// The target path is guaranteed untouched when one is returned.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write image %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// ///////////////////////////////////////////////
// Decoding
// ///////////////////////////////////////////////

// Decode opens and fully decodes the image at path, returning the image
// and the detected format name ("png", "jpeg", ...). The file is closed
// before Decode returns.
func Decode(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", &ReadError{Path: path, Err: err}
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", &ReadError{Path: path, Err: err}
	}
	return img, format, nil
}

// ///////////////////////////////////////////////
// Encoding
// ///////////////////////////////////////////////

// Write encodes img to path, choosing the codec from the extension:
// .png, .bmp, .tif/.tiff, .gif, .jpg/.jpeg. Unrecognized extensions
// encode PNG. PNG output drops the alpha plane when the image is fully
// opaque, so an RGB input stays RGB on disk.
func Write(path string, img image.Image) error {
	af, err := atomicfile.Begin(path, 0o644)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	defer af.Abort()

	if err := encode(af, img, strings.ToLower(filepath.Ext(path))); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err := af.Commit(); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// encode writes img to w in the codec matching ext.
func encode(w io.Writer, img image.Image, ext string) error {
	switch ext {
	case ".bmp":
		return bmp.Encode(w, img)
	case ".tif", ".tiff":
		return tiff.Encode(w, img, nil)
	case ".gif":
		return gif.Encode(w, img, nil)
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, nil)
	default:
		return png.Encode(w, img)
	}
}
