// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assemble orchestrates a paper fetch into a prompt-ready payload:
// fetch, convert to markdown, select images, resize, package.
package assemble

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/agustif/llm-arxiv/internal/arxiv"
	"github.com/agustif/llm-arxiv/internal/convert"
	"github.com/agustif/llm-arxiv/internal/extract"
	"github.com/agustif/llm-arxiv/internal/imaging"
	"github.com/agustif/llm-arxiv/internal/selection"
	"github.com/agustif/llm-arxiv/pkg/types"
)

// Fetcher supplies a paper's metadata and PDF bytes. *cache.Fetcher
// satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, id arxiv.Identifier) (*types.Paper, []byte, error)
}

// Document is the parsed-paper view assembly consumes.
type Document interface {
	convert.Pager
	Close() error
}

// Opener parses PDF bytes into a Document.
type Opener func(pdf []byte) (Document, error)

// OpenPDF is the production Opener, backed by convert.Open.
func OpenPDF(pdf []byte) (Document, error) {
	return convert.Open(pdf)
}

// Options control which images are materialized and how they are encoded.
type Options struct {
	// Selection is the image-selection spec text ("all", "none",
	// "P:...", "G:..."). Empty selects everything.
	Selection string

	// Resize optionally bounds the larger image side.
	Resize types.ResizeOption
}

// ParseArgument splits an identifier argument from its optional
// query-string suffix and applies the suffix on top of base:
//
//	2310.06825?images=P:1-3&resize=true&max_dimension=256
//
// Recognized keys are "images", "resize", and "max_dimension". Suffix
// values override base options.
func ParseArgument(arg string, base Options) (string, Options, error) {
	idText, suffix, found := strings.Cut(arg, "?")
	if !found {
		return idText, base, nil
	}

	values, err := url.ParseQuery(suffix)
	if err != nil {
		return "", Options{}, fmt.Errorf("parsing identifier options %q: %w", suffix, err)
	}

	opts := base
	if v := values.Get("images"); v != "" {
		opts.Selection = v
	}
	if v := values.Get("resize"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return "", Options{}, fmt.Errorf("invalid resize value %q: want true or false", v)
		}
		opts.Resize.Enabled = enabled
	}
	if v := values.Get("max_dimension"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return "", Options{}, fmt.Errorf("invalid max_dimension value %q: want a positive integer", v)
		}
		opts.Resize.MaxDimension = n
		opts.Resize.Enabled = true
	}
	return idText, opts, nil
}

// Assembler turns an identifier argument into an AssembledPaper.
type Assembler struct {
	Fetcher Fetcher

	// Open parses PDF bytes; defaults to OpenPDF.
	Open Opener
}

// Assemble runs the fixed pipeline: fetch, convert to markdown (with a
// placeholder for every image, selected or not), parse the selection,
// extract and resize the selected images, package.
//
// Identifier, fetch, conversion, and selection failures abort the call.
// Per-image decode or encode failures are returned as diagnostics and
// never abort it.
func (a *Assembler) Assemble(ctx context.Context, argument string, opts Options) (*types.AssembledPaper, []extract.Diagnostic, error) {
	idText, opts, err := ParseArgument(argument, opts)
	if err != nil {
		return nil, nil, err
	}

	id, err := arxiv.ParseIdentifier(idText)
	if err != nil {
		return nil, nil, err
	}

	paper, pdf, err := a.Fetcher.Fetch(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	open := a.Open
	if open == nil {
		open = OpenPDF
	}
	doc, err := open(pdf)
	if err != nil {
		return nil, nil, err
	}
	defer doc.Close()

	sourceURL := paper.SourceURL
	if sourceURL == "" {
		sourceURL = id.AbsURL()
	}

	markdown, err := convert.Markdown(doc, sourceURL)
	if err != nil {
		return nil, nil, err
	}

	spec, err := selection.Parse(opts.Selection)
	if err != nil {
		return nil, nil, err
	}

	images, diagnostics := extract.Images(doc, spec)
	processed, encodeDiags := processImages(images, opts.Resize)
	diagnostics = append(diagnostics, encodeDiags...)

	log.Info().Str("id", id.String()).
		Int("pages", doc.PageCount()).
		Int("images", len(processed)).
		Int("skipped", len(diagnostics)).
		Msg("assembled paper")

	return &types.AssembledPaper{
		Paper:    *paper,
		Markdown: frontmatter(paper) + markdown,
		Images:   processed,
	}, diagnostics, nil
}

// processImages encodes each extracted image, downscaling first when
// resizing is enabled. Without resizing, the source bytes pass through
// untouched under their detected MIME type.
func processImages(images []extract.Image, resize types.ResizeOption) ([]types.ProcessedImage, []extract.Diagnostic) {
	var diagnostics []extract.Diagnostic
	processed := make([]types.ProcessedImage, 0, len(images))

	for _, img := range images {
		bounds := img.Raster.Bounds()

		if !resize.Enabled {
			processed = append(processed, types.ProcessedImage{
				PageNumber:  img.PageNumber,
				GlobalIndex: img.GlobalIndex,
				Data:        img.Raw,
				MIMEType:    img.Format,
				Width:       bounds.Dx(),
				Height:      bounds.Dy(),
			})
			continue
		}

		scaled := imaging.Downscale(img.Raster, resize.Bound())
		data, mimeType, err := imaging.Encode(scaled)
		if err != nil {
			diagnostics = append(diagnostics, extract.Diagnostic{
				PageNumber:  img.PageNumber,
				GlobalIndex: img.GlobalIndex,
				Err:         err,
			})
			continue
		}

		sb := scaled.Bounds()
		processed = append(processed, types.ProcessedImage{
			PageNumber:  img.PageNumber,
			GlobalIndex: img.GlobalIndex,
			Data:        data,
			MIMEType:    mimeType,
			Width:       sb.Dx(),
			Height:      sb.Dy(),
		})
	}
	return processed, diagnostics
}

// frontmatter prepends paper identity to the markdown, matching the
// sidecar metadata the local store writes.
func frontmatter(p *types.Paper) string {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "paper_id: %q\n", p.ID)
	if p.Title != "" {
		fmt.Fprintf(&b, "title: %q\n", p.Title)
	}
	fmt.Fprintf(&b, "source_url: %q\n", p.SourceURL)
	fmt.Fprintf(&b, "assembled_at: %q\n", time.Now().UTC().Format(time.RFC3339))
	b.WriteString("---\n\n")
	return b.String()
}
