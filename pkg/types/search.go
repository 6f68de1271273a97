// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// SearchResult is one catalog hit. Results keep the order the catalog
// returned them in; the catalog's own ranking is never re-sorted.
type SearchResult struct {
	// ID is the arXiv identifier (e.g. "2310.06825").
	ID string `json:"id"`

	// Title is the paper title as returned by the catalog.
	Title string `json:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors"`

	// Abstract is the paper abstract or summary.
	Abstract string `json:"abstract"`

	// Categories lists the arXiv subject classes.
	Categories []string `json:"categories,omitempty"`

	// Published is the first-submission date.
	Published time.Time `json:"published"`

	// Updated is the last-revision date.
	Updated time.Time `json:"updated"`

	// PDFURL is the direct PDF download URL.
	PDFURL string `json:"pdf_url"`
}
