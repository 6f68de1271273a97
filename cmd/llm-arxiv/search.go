// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agustif/llm-arxiv/internal/arxiv"
	"github.com/agustif/llm-arxiv/internal/search"
	"github.com/agustif/llm-arxiv/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [keywords...]",
	Short: "Search the arXiv catalog by keyword",
	Long: `Search queries the arXiv catalog for papers matching the given keywords
and prints them in catalog order with their identifiers. Each identifier
can be passed straight to fetch; --clipboard copies ready-to-run fetch
commands for every result.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("sort-by", "relevance", "result order: relevance, last-updated, or submitted")
	searchCmd.Flags().Int("max-results", 0, "maximum number of results (default from config, else 10)")
	searchCmd.Flags().Bool("details", false, "include categories, update dates, and abstracts")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().Bool("clipboard", false, "copy a fetch command per result to the clipboard")
	searchCmd.Flags().Duration("timeout", defaultTimeout, "HTTP request timeout")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more search keywords")
	}
	query := strings.Join(args, " ")

	sortBy, _ := cmd.Flags().GetString("sort-by")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	details, _ := cmd.Flags().GetBool("details")
	asJSON, _ := cmd.Flags().GetBool("json")
	toClipboard, _ := cmd.Flags().GetBool("clipboard")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	if maxResults <= 0 {
		maxResults = viper.GetInt("max_results")
	}
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	cfg := types.SearchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		MaxResults: maxResults,
	}

	client := arxiv.NewClient(cfg.HTTPConfig)

	results, err := client.Search(cmd.Context(), query, arxiv.SortKey(sortBy), cfg.MaxResults)
	if err != nil {
		return err
	}

	if asJSON {
		if err := search.FormatJSON(results, os.Stdout); err != nil {
			return err
		}
	} else {
		search.FormatResults(results, details, os.Stdout)
	}

	if toClipboard {
		n, err := search.CopyFetchCommands(results)
		if err != nil {
			// Clipboard access fails on headless machines; the results
			// are already printed.
			fmt.Fprintf(os.Stderr, "Clipboard unavailable: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Copied %d fetch command(s) to the clipboard.\n", n)
		}
	}
	return nil
}
