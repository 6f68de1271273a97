// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package imaging downscales rasters under a maximum-dimension bound and
// re-encodes them into compact attachment formats.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"math"

	"golang.org/x/image/draw"
)

// jpegQuality balances attachment size against legibility of figures.
const jpegQuality = 85

// FitWithin returns the target dimensions for scaling (w, h) so the larger
// side is at most maxDim, preserving aspect ratio. Dimensions within the
// bound are returned unchanged; images are never upscaled.
//
// Both target dimensions are computed from the original dimensions against
// the original aspect ratio. Deriving the short side from an already-rounded
// long side can truncate to zero for extreme ratios, so neither dimension is
// ever computed from an intermediate result. Rounding is to nearest, with a
// floor of 1 on each side.
func FitWithin(w, h, maxDim int) (int, int) {
	if w <= 0 || h <= 0 || maxDim < 1 {
		return w, h
	}
	longest := w
	if h > longest {
		longest = h
	}
	if longest <= maxDim {
		return w, h
	}

	scale := float64(maxDim) / float64(longest)
	nw := int(math.Round(float64(w) * scale))
	nh := int(math.Round(float64(h) * scale))
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh
}

// Downscale returns src scaled to fit within maxDim. When src already fits,
// it is returned unmodified. The source raster is never mutated.
func Downscale(src image.Image, maxDim int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	nw, nh := FitWithin(w, h, maxDim)
	if nw == w && nh == h {
		return src
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// Encode serializes img into an attachment format chosen by its color
// characteristics: PNG (lossless) when transparency or an indexed palette
// is present, JPEG otherwise. It returns the bytes and their MIME type.
func Encode(img image.Image) ([]byte, string, error) {
	var buf bytes.Buffer

	if needsLossless(img) {
		if err := png.Encode(&buf, img); err != nil {
			return nil, "", fmt.Errorf("encoding PNG: %w", err)
		}
		return buf.Bytes(), "image/png", nil
	}

	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, "", fmt.Errorf("encoding JPEG: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}

// needsLossless reports whether img carries transparency or palette data
// that a lossy re-encode would damage.
func needsLossless(img image.Image) bool {
	if _, ok := img.(*image.Paletted); ok {
		return true
	}
	type opaquer interface {
		Opaque() bool
	}
	if o, ok := img.(opaquer); ok {
		return !o.Opaque()
	}

	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				return true
			}
		}
	}
	return false
}
