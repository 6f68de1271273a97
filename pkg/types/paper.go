// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the llm-arxiv pipeline:
// paper metadata, search results, and assembled prompt payloads.
package types

import "time"

// Paper holds catalog metadata for a single arXiv paper.
type Paper struct {
	// ID is the normalized arXiv identifier (e.g. "2310.06825" or "hep-th/0101001").
	ID string `json:"id" yaml:"id"`

	// SourceURL is the paper's abstract page (e.g. "https://arxiv.org/abs/2310.06825").
	SourceURL string `json:"source_url" yaml:"source_url"`

	// PDFURL is the download URL for the PDF.
	PDFURL string `json:"pdf_url" yaml:"pdf_url"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Abstract is the paper abstract.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Categories lists the arXiv subject classes (e.g. "cs.CL").
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty"`

	// Published is the first-submission date.
	Published time.Time `json:"published" yaml:"published"`

	// Updated is the last-revision date.
	Updated time.Time `json:"updated" yaml:"updated"`

	// FetchedAt records when the paper entered the local store.
	FetchedAt time.Time `json:"fetched_at,omitempty" yaml:"fetched_at,omitempty"`
}

// ProcessedImage is one materialized image payload, ready to attach to a
// prompt with its declared MIME type.
type ProcessedImage struct {
	// PageNumber is the 1-indexed page the image was embedded on.
	PageNumber int `json:"page"`

	// GlobalIndex is the 1-indexed position across the whole document,
	// page order then in-page order.
	GlobalIndex int `json:"global_index"`

	// Data is the encoded image content.
	Data []byte `json:"data"`

	// MIMEType declares the encoding of Data (e.g. "image/jpeg").
	MIMEType string `json:"mime_type"`

	Width  int `json:"width"`
	Height int `json:"height"`
}

// AssembledPaper is the final fetch output: markdown text carrying one inline
// placeholder per embedded image, plus the selected images in document order.
// Selection controls which images are materialized here, never which
// placeholders appear in the text.
type AssembledPaper struct {
	Paper    Paper            `json:"paper"`
	Markdown string           `json:"markdown"`
	Images   []ProcessedImage `json:"images"`
}
