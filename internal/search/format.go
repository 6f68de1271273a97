// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search renders catalog search results for terminal display and
// builds copy-paste-ready follow-up fetch commands.
package search

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/agustif/llm-arxiv/pkg/types"
)

// FormatResults writes results as a human-readable table to w, preserving
// catalog order. With details, each row is followed by the abstract,
// categories, dates, and PDF URL.
func FormatResults(results []types.SearchResult, details bool, w io.Writer) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-14s  %-52s  %-20s  %s\n", "Rank", "ID", "Title", "Authors", "Year")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for i, r := range results {
		year := ""
		if !r.Published.IsZero() {
			year = fmt.Sprintf("%d", r.Published.Year())
		}
		fmt.Fprintf(w, "%-4d  %-14s  %-52s  %-20s  %s\n",
			i+1, r.ID, truncate(r.Title, 52), formatAuthors(r.Authors), year)

		if details {
			if len(r.Categories) > 0 {
				fmt.Fprintf(w, "      categories: %s\n", strings.Join(r.Categories, ", "))
			}
			if !r.Updated.IsZero() {
				fmt.Fprintf(w, "      updated:    %s\n", r.Updated.Format("2006-01-02"))
			}
			if r.PDFURL != "" {
				fmt.Fprintf(w, "      pdf:        %s\n", r.PDFURL)
			}
			if r.Abstract != "" {
				fmt.Fprintf(w, "      %s\n", truncate(r.Abstract, 300))
			}
			fmt.Fprintln(w)
		}
	}

	fmt.Fprintf(w, "\n%d results\n", len(results))
}

// FormatJSON writes results as indented JSON to w.
func FormatJSON(results []types.SearchResult, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// FetchCommands returns one ready-to-run fetch command per result, in
// result order.
func FetchCommands(results []types.SearchResult) []string {
	cmds := make([]string, len(results))
	for i, r := range results {
		cmds[i] = "llm-arxiv fetch " + r.ID
	}
	return cmds
}

// CopyFetchCommands joins the follow-up commands with newlines and places
// them on the system clipboard. Clipboard transfer is best-effort: the
// count of copied commands and any error are for reporting only.
func CopyFetchCommands(results []types.SearchResult) (int, error) {
	cmds := FetchCommands(results)
	if len(cmds) == 0 {
		return 0, nil
	}
	if err := clipboard.WriteAll(strings.Join(cmds, "\n")); err != nil {
		return 0, fmt.Errorf("clipboard transfer: %w", err)
	}
	return len(cmds), nil
}

func formatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return truncate(authors[0], 20)
	default:
		return truncate(authors[0], 14) + " et al."
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
