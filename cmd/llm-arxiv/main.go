// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the llm-arxiv CLI: it fetches arXiv
// papers as LLM-ready markdown plus extracted images, and searches the
// catalog for paper identifiers to feed back into fetch.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agustif/llm-arxiv/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the llm-arxiv CLI.
var rootCmd = &cobra.Command{
	Use:   "llm-arxiv",
	Short: "Fetch arXiv papers as LLM-ready markdown and images",
	Long: `llm-arxiv turns arXiv papers into model-ready context. Fetch downloads a
paper by ID or URL, converts the PDF to markdown with a placeholder for
every embedded image, and materializes the images you select. Search
queries the arXiv catalog by keyword and prints identifiers ready to pass
back to fetch.

Markdown goes to stdout; diagnostics go to stderr, so output pipes clean.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		pretty, _ := cmd.Flags().GetBool("log-pretty")
		logging.Init(logging.Options{Level: level, Pretty: pretty})
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./llm-arxiv.yaml or ~/.config/llm-arxiv/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("log-pretty", false, "human-readable log output")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("llm-arxiv")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "llm-arxiv"))
		}
	}

	viper.SetDefault("papers_dir", "papers")
	viper.SetDefault("max_results", 10)

	viper.SetEnvPrefix("LLM_ARXIV")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
