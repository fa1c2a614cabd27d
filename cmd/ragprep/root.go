package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ragprep",
	Short: "Prepare a document corpus for retrieval",
	Long: `ragprep turns a directory of plain-text, markdown, and JSONL documents
into retrieval-ready artifacts: an embedding matrix, a chunk index, and a
run manifest.`,
	SilenceUsage:  true,
	SilenceErrors: false,
}
