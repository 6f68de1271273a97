// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract walks a parsed document and materializes the embedded
// images a selection spec asks for, assigning each image a stable global
// index along the way.
package extract

import (
	"bytes"
	"fmt"
	"image"

	// Raster decoders for the embedded formats papers carry.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"

	"github.com/agustif/llm-arxiv/internal/convert"
	"github.com/agustif/llm-arxiv/internal/selection"
)

// Source enumerates a document's pages and their embedded images.
// *convert.Document satisfies it.
type Source interface {
	PageCount() int
	PageImages(page int) []convert.EmbeddedImage
}

// Image is one selected, decoded embedded image. Identity is the
// (PageNumber, GlobalIndex) pair, assigned deterministically from document
// order: re-running the walk on the same document yields identical indices.
type Image struct {
	// PageNumber is 1-indexed.
	PageNumber int

	// GlobalIndex is 1-indexed and monotonic across the whole document,
	// page order then in-page order.
	GlobalIndex int

	// Raw is the undecoded source bytes.
	Raw []byte

	// Format is the detected MIME type of Raw (e.g. "image/png").
	Format string

	// Raster is the decoded pixel data.
	Raster image.Image
}

// Diagnostic records a single non-fatal per-image failure. The walk
// continues past it.
type Diagnostic struct {
	PageNumber  int
	GlobalIndex int
	Err         error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("page %d image %d: %v", d.PageNumber, d.GlobalIndex, d.Err)
}

// Images walks the document's pages in ascending order and returns the
// images matching spec, decoded, in document order. The global index
// counter is scoped to this call and increments for every image
// encountered, selected or not, so indices are stable across specs.
//
// Decode failures are returned as diagnostics, never as an error: one
// corrupt figure must not sink the rest of the paper.
func Images(src Source, spec selection.Spec) ([]Image, []Diagnostic) {
	var (
		images      []Image
		diagnostics []Diagnostic
		globalIndex int
	)

	for page := 1; page <= src.PageCount(); page++ {
		for _, embedded := range src.PageImages(page) {
			globalIndex++
			if !spec.Matches(page, globalIndex) {
				continue
			}

			raster, format, err := decode(embedded.Raw)
			if err != nil {
				log.Warn().Int("page", page).Int("global_index", globalIndex).
					Err(err).Msg("skipping undecodable image")
				diagnostics = append(diagnostics, Diagnostic{
					PageNumber:  page,
					GlobalIndex: globalIndex,
					Err:         err,
				})
				continue
			}

			images = append(images, Image{
				PageNumber:  page,
				GlobalIndex: globalIndex,
				Raw:         embedded.Raw,
				Format:      format,
				Raster:      raster,
			})
		}
	}
	return images, diagnostics
}

// decode parses raw bytes into a raster and detects the source MIME type.
func decode(raw []byte) (image.Image, string, error) {
	raster, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, "", fmt.Errorf("decoding embedded image: %w", err)
	}
	return raster, mimetype.Detect(raw).String(), nil
}
