// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package arxiv normalizes paper identifiers and talks to the arXiv API:
// metadata lookup, PDF download, and catalog search.
package arxiv

import (
	"fmt"
	"regexp"
	"strings"
)

// newIDPattern matches modern arXiv IDs: "2310.06825", "2310.06825v2".
var newIDPattern = regexp.MustCompile(`^\d{4}\.\d{4,5}(?:v\d+)?$`)

// legacyIDPattern matches pre-2007 IDs: "hep-th/0101001", "math.GT/0309136".
var legacyIDPattern = regexp.MustCompile(`^[a-z-]+(?:\.[A-Z]{2})?/\d{7}$`)

// urlPattern captures the ID out of abs/pdf arxiv.org URLs, with an
// optional trailing ".pdf".
var urlPattern = regexp.MustCompile(`^https?://arxiv\.org/(?:abs|pdf)/(.+?)(?:\.pdf)?$`)

// IdentifierError reports input that is neither a recognized arXiv ID nor
// an arXiv URL.
type IdentifierError struct {
	Input string
}

func (e *IdentifierError) Error() string {
	return fmt.Sprintf("invalid arXiv identifier or URL: %q (expected forms like %q, %q, or an arxiv.org abs/pdf URL)",
		e.Input, "2310.06825", "hep-th/0101001")
}

// Identifier is a validated, normalized arXiv paper ID. Immutable once parsed.
type Identifier struct {
	id     string
	legacy bool
}

// ParseIdentifier normalizes an arXiv ID or arxiv.org URL. Accepted inputs:
// bare modern IDs with optional version suffix, legacy "archive/NNNNNNN"
// IDs, an optional "arXiv:" prefix, and abs/pdf URLs wrapping either form.
func ParseIdentifier(input string) (Identifier, error) {
	s := strings.TrimSpace(input)
	s = strings.TrimPrefix(s, "arXiv:")

	if m := urlPattern.FindStringSubmatch(s); m != nil {
		s = m[1]
	}

	switch {
	case newIDPattern.MatchString(s):
		return Identifier{id: s}, nil
	case legacyIDPattern.MatchString(s):
		return Identifier{id: s, legacy: true}, nil
	}
	return Identifier{}, &IdentifierError{Input: input}
}

// String returns the normalized ID (e.g. "2310.06825v2").
func (id Identifier) String() string { return id.id }

// Legacy reports whether the ID uses the pre-2007 "archive/NNNNNNN" form.
func (id Identifier) Legacy() bool { return id.legacy }

// AbsURL returns the paper's abstract page URL.
func (id Identifier) AbsURL() string {
	return absBase + id.id
}

// PDFURL returns the paper's PDF download URL.
func (id Identifier) PDFURL() string {
	return pdfBase + id.id
}
