// Package main provides the entry point for the faculty directory digest CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "faculty_digest",
		Short: "Faculty directory extractor and summarizer",
		Long: `faculty_digest walks a university faculty directory, extracts each profile's
name, email and biography, summarizes the biography with an LLM and writes
one CSV row per profile.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCmd())
	root.AddCommand(newDiscoverCmd())
	root.AddCommand(newExtractCmd())
	return root
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
