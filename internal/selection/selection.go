// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package selection parses the image-selection grammar and answers
// membership queries over (page, global index) pairs.
//
// Grammar: "all", "none" (case-insensitive), "P:<list>" for pages, or
// "G:<list>" for global indices, where <list> is a comma-separated
// sequence of positive integers or closed ranges "lo-hi".
package selection

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind discriminates the Spec variants.
type Kind int

const (
	// All selects every image. The zero value, so an empty Spec is All.
	All Kind = iota
	// None selects no images.
	None
	// ByPage selects images whose page falls in any range.
	ByPage
	// ByGlobalIndex selects images whose global index falls in any range.
	ByGlobalIndex
)

func (k Kind) String() string {
	switch k {
	case All:
		return "all"
	case None:
		return "none"
	case ByPage:
		return "pages"
	case ByGlobalIndex:
		return "indices"
	default:
		return "unknown"
	}
}

// Range is a closed interval [Lo, Hi] of positive integers.
type Range struct {
	Lo, Hi int
}

func (r Range) contains(n int) bool {
	return n >= r.Lo && n <= r.Hi
}

// Spec is a parsed selection directive. All and None are terminal
// shortcuts; ranges are only consulted for ByPage and ByGlobalIndex.
// Overlapping or duplicate ranges act as a union.
type Spec struct {
	Kind   Kind
	Ranges []Range
}

// SpecError reports a malformed selection spec, naming the offending token.
type SpecError struct {
	Token  string
	Reason string
}

func (e *SpecError) Error() string {
	return fmt.Sprintf("invalid selection token %q: %s", e.Token, e.Reason)
}

// Parse parses a selection spec string. An empty string parses as All.
func Parse(s string) (Spec, error) {
	s = strings.TrimSpace(s)

	switch strings.ToLower(s) {
	case "", "all":
		return Spec{Kind: All}, nil
	case "none":
		return Spec{Kind: None}, nil
	}

	var kind Kind
	switch {
	case strings.HasPrefix(s, "P:"), strings.HasPrefix(s, "p:"):
		kind = ByPage
	case strings.HasPrefix(s, "G:"), strings.HasPrefix(s, "g:"):
		kind = ByGlobalIndex
	default:
		return Spec{}, &SpecError{Token: s, Reason: `expected "all", "none", "P:<pages>", or "G:<indices>"`}
	}

	ranges, err := parseRanges(s[2:])
	if err != nil {
		return Spec{}, err
	}
	return Spec{Kind: kind, Ranges: ranges}, nil
}

// parseRanges parses a comma-separated list of "n" or "lo-hi" tokens.
// Malformed tokens fail the whole parse; nothing is silently dropped.
func parseRanges(list string) ([]Range, error) {
	tokens := strings.Split(list, ",")
	ranges := make([]Range, 0, len(tokens))

	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			return nil, &SpecError{Token: tok, Reason: "empty token"}
		}

		lo, hi, found := strings.Cut(tok, "-")
		if !found {
			hi = lo
		}

		r, err := parseRange(tok, strings.TrimSpace(lo), strings.TrimSpace(hi))
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, r)
	}
	return ranges, nil
}

func parseRange(tok, lo, hi string) (Range, error) {
	l, err := strconv.Atoi(lo)
	if err != nil {
		return Range{}, &SpecError{Token: tok, Reason: "not a number"}
	}
	h, err := strconv.Atoi(hi)
	if err != nil {
		return Range{}, &SpecError{Token: tok, Reason: "not a number"}
	}
	if l < 1 || h < 1 {
		return Range{}, &SpecError{Token: tok, Reason: "bounds must be positive"}
	}
	if l > h {
		return Range{}, &SpecError{Token: tok, Reason: "range is reversed"}
	}
	return Range{Lo: l, Hi: h}, nil
}

// Matches reports whether the image at (page, globalIndex) is selected.
func (s Spec) Matches(page, globalIndex int) bool {
	switch s.Kind {
	case All:
		return true
	case None:
		return false
	case ByPage:
		return anyContains(s.Ranges, page)
	case ByGlobalIndex:
		return anyContains(s.Ranges, globalIndex)
	default:
		return false
	}
}

func anyContains(ranges []Range, n int) bool {
	for _, r := range ranges {
		if r.contains(n) {
			return true
		}
	}
	return false
}
