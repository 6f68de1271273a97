// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agustif/llm-arxiv/internal/arxiv"
	"github.com/agustif/llm-arxiv/internal/assemble"
	"github.com/agustif/llm-arxiv/internal/cache"
	"github.com/agustif/llm-arxiv/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "llm-arxiv/0.1"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [identifier]",
	Short: "Fetch a paper and convert it to markdown with images",
	Long: `Fetch resolves an arXiv identifier (new-style ID, legacy ID, or abs/pdf
URL), downloads the PDF, and prints the paper as markdown on stdout. Every
embedded image gets a placeholder in the markdown; the images selected by
--images are written next to the markdown as files.

The identifier accepts a query-string suffix overriding the flags:

  llm-arxiv fetch '2310.06825?images=P:1-3&resize=true&max_dimension=256'`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("images", "all", `image selection: "all", "none", "P:<pages>", or "G:<indices>"`)
	fetchCmd.Flags().Bool("resize", false, "downscale extracted images")
	fetchCmd.Flags().Int("max-dimension", types.DefaultMaxDimension, "bound on the larger image side when resizing")
	fetchCmd.Flags().String("papers-dir", "", "base directory for the local paper store (default from config, else papers)")
	fetchCmd.Flags().String("images-dir", "", "directory for extracted image files (default <papers-dir>/images/<id>)")
	fetchCmd.Flags().Bool("no-cache", false, "bypass the local paper store")
	fetchCmd.Flags().Bool("json", false, "emit the full payload (metadata, markdown, base64 images) as JSON")
	fetchCmd.Flags().Duration("timeout", defaultTimeout, "HTTP request timeout")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	selectionText, _ := cmd.Flags().GetString("images")
	resize, _ := cmd.Flags().GetBool("resize")
	maxDim, _ := cmd.Flags().GetInt("max-dimension")
	papersDir, _ := cmd.Flags().GetString("papers-dir")
	imagesDir, _ := cmd.Flags().GetString("images-dir")
	noCache, _ := cmd.Flags().GetBool("no-cache")
	asJSON, _ := cmd.Flags().GetBool("json")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	if papersDir == "" {
		papersDir = viper.GetString("papers_dir")
	}

	cfg := types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		PapersDir: papersDir,
	}

	client := arxiv.NewClient(cfg.HTTPConfig)

	var store *cache.Store
	if !noCache {
		var err error
		store, err = cache.Open(cfg.PapersDir)
		if err != nil {
			return fmt.Errorf("opening paper store: %w", err)
		}
		defer store.Close()
	}

	assembler := &assemble.Assembler{
		Fetcher: &cache.Fetcher{Remote: client, Store: store},
	}
	opts := assemble.Options{
		Selection: selectionText,
		Resize:    types.ResizeOption{Enabled: resize, MaxDimension: maxDim},
	}

	paper, diagnostics, err := assembler.Assemble(cmd.Context(), args[0], opts)
	if err != nil {
		return err
	}
	for _, d := range diagnostics {
		fmt.Fprintf(os.Stderr, "Skipped %s\n", d)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(paper)
	}

	if len(paper.Images) > 0 {
		if imagesDir == "" {
			imagesDir = filepath.Join(papersDir, "images", imageSlug(paper.Paper.ID))
		}
		if err := writeImages(imagesDir, paper.Images); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %d image(s) to %s\n", len(paper.Images), imagesDir)
	}

	fmt.Print(paper.Markdown)
	return nil
}

// writeImages materializes each image as page_<P>_img_<G>.<ext>, matching
// the placeholder addresses in the markdown.
func writeImages(dir string, images []types.ProcessedImage) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	for _, img := range images {
		name := fmt.Sprintf("page_%d_img_%d%s", img.PageNumber, img.GlobalIndex, extension(img.MIMEType))
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, img.Data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}

// imageSlug makes a paper ID safe as a directory name (legacy IDs carry a
// slash).
func imageSlug(id string) string {
	return strings.ReplaceAll(id, "/", "-")
}

func extension(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/tiff":
		return ".tiff"
	case "image/bmp":
		return ".bmp"
	default:
		return ".bin"
	}
}
