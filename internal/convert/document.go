// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert parses PDF bytes into pages and renders them as markdown
// with inline image placeholders. Text comes from MuPDF (go-fitz); embedded
// image enumeration comes from pdfcpu. Both are consumed as black boxes.
package convert

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/rs/zerolog/log"
)

// ConversionError means the document could not be parsed into text and
// pages at all. It is fatal: no partial text is better than silently
// wrong text.
type ConversionError struct {
	Err error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("document conversion failed: %v", e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// EmbeddedImage is one raw image resource as stored in the document.
type EmbeddedImage struct {
	// Raw is the undecoded image stream.
	Raw []byte

	// Format is the file type hint recorded in the document (e.g. "png", "jpg").
	Format string
}

// Document is a parsed paper: per-page text plus per-page embedded images
// in document order. Pages are 1-indexed throughout.
type Document struct {
	fz     *fitz.Document
	pages  int
	images [][]EmbeddedImage
}

// Open parses raw PDF bytes. Any failure to read the page structure is a
// *ConversionError.
func Open(pdf []byte) (*Document, error) {
	fz, err := fitz.NewFromMemory(pdf)
	if err != nil {
		return nil, &ConversionError{Err: fmt.Errorf("opening PDF: %w", err)}
	}

	pages := fz.NumPage()

	images, err := enumerateImages(pdf, pages)
	if err != nil {
		fz.Close()
		return nil, &ConversionError{Err: err}
	}

	log.Debug().Int("pages", pages).Msg("opened document")

	return &Document{fz: fz, pages: pages, images: images}, nil
}

// Close releases the underlying MuPDF document.
func (d *Document) Close() error {
	return d.fz.Close()
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return d.pages
}

// PageText returns the text of the given 1-indexed page.
func (d *Document) PageText(page int) (string, error) {
	if page < 1 || page > d.pages {
		return "", fmt.Errorf("page %d out of range (document has %d pages)", page, d.pages)
	}
	text, err := d.fz.Text(page - 1)
	if err != nil {
		return "", fmt.Errorf("extracting text from page %d: %w", page, err)
	}
	return text, nil
}

// PageImages returns the embedded images of the given 1-indexed page in
// document order. The order is defined by the document's object structure,
// not by spatial layout, and is stable across calls.
func (d *Document) PageImages(page int) []EmbeddedImage {
	if page < 1 || page > len(d.images) {
		return nil
	}
	return d.images[page-1]
}

// enumerateImages walks the PDF's image resources with pdfcpu and groups
// them per page, ordered by object number within each page.
func enumerateImages(pdf []byte, pages int) ([][]EmbeddedImage, error) {
	conf := model.NewDefaultConfiguration()

	pageMaps, err := api.ExtractImagesRaw(bytes.NewReader(pdf), nil, conf)
	if err != nil {
		return nil, fmt.Errorf("enumerating embedded images: %w", err)
	}

	images := make([][]EmbeddedImage, pages)
	for _, byObjNr := range pageMaps {
		objNrs := make([]int, 0, len(byObjNr))
		for nr := range byObjNr {
			objNrs = append(objNrs, nr)
		}
		sort.Ints(objNrs)

		for _, nr := range objNrs {
			img := byObjNr[nr]
			if img.PageNr < 1 || img.PageNr > pages {
				continue
			}
			raw, err := io.ReadAll(img)
			if err != nil {
				return nil, fmt.Errorf("reading image object %d on page %d: %w", nr, img.PageNr, err)
			}
			images[img.PageNr-1] = append(images[img.PageNr-1], EmbeddedImage{
				Raw:    raw,
				Format: img.FileType,
			})
		}
	}
	return images, nil
}
