package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/petscan/petscan/internal/stats"
)

// NewStatsCmd creates the stats command.
func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the stored pets",
		Long: `Stats computes a snapshot over every stored pet: the total count plus
breakdowns by species, breed, size, gender, and age category.

Examples:
  # Human-readable summary
  petscan stats

  # JSON for scripting
  petscan stats --json

  # Markdown report written to a file
  petscan stats --markdown -o report.md`,
		Args: cobra.NoArgs,
		RunE: runStatsCmd,
	}

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write output to specified file path (creates directories if needed)")
	cmd.Flags().String("db-dir", "",
		"Database directory (default: XDG data directory)")

	return cmd
}

// runStatsCmd executes the stats command.
func runStatsCmd(cmd *cobra.Command, _ []string) error {
	jsonOut, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOut, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	if jsonOut && markdownOut {
		return fmt.Errorf("conflicting output formats: --json and --markdown cannot be used together")
	}

	db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	snapshot, err := stats.NewAggregator(db).Compute(cmd.Context())
	if err != nil {
		return err
	}

	out, cleanup, err := outputWriter(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	switch {
	case jsonOut:
		return stats.WriteJSON(out, snapshot)
	case markdownOut:
		return stats.WriteMarkdown(out, snapshot)
	default:
		return stats.WriteText(out, snapshot)
	}
}

// outputWriter resolves the --output flag into a writer. The cleanup
// function closes the file when one was opened; for stdout it is a no-op.
func outputWriter(cmd *cobra.Command) (io.Writer, func(), error) {
	path, err := cmd.Flags().GetString("output")
	if err != nil {
		return nil, nil, err
	}
	if path == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
