// Package cmd wires the CLI entry points for the archive Q&A service.
package cmd

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "shagqa",
	Short: "Q&A service for the CSA shag contest archive",
	Long: `shagqa answers natural-language questions about the Competitive
Shaggers Association contest archive by combining a locally built
knowledge base with a hosted language model.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
