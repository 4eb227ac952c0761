package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/petscan/petscan/internal/database"
	"github.com/petscan/petscan/internal/export"
)

// NewExportCmd creates the export command.
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored pets as CSV",
		Long: `Export writes stored pets as CSV: a header row followed by one row per
pet in stable order. Filters narrow the output; without them every pet
is exported.

Examples:
  # Print every pet as CSV
  petscan export

  # Write CSV to a file
  petscan export -o pets.csv

  # Only small female pets with "terrier" in the breed
  petscan export --breed terrier --gender female --size small`,
		Args: cobra.NoArgs,
		RunE: runExportCmd,
	}

	cmd.Flags().StringP("output", "o", "",
		"Write CSV to specified file path (creates directories if needed)")
	cmd.Flags().String("breed", "",
		"Only pets whose primary breed contains this text")
	cmd.Flags().String("gender", "",
		"Only pets with this gender (male, female, unknown)")
	cmd.Flags().String("size", "",
		"Only pets with this size (small, medium, large, xlarge, unknown)")
	cmd.Flags().String("age", "",
		"Only pets in this age bracket (baby, young, adult, senior, unknown)")
	cmd.Flags().String("db-dir", "",
		"Database directory (default: XDG data directory)")

	return cmd
}

// runExportCmd executes the export command.
func runExportCmd(cmd *cobra.Command, _ []string) error {
	filter, err := buildFilter(cmd)
	if err != nil {
		return err
	}

	db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	pets, err := db.List(cmd.Context(), filter)
	if err != nil {
		return fmt.Errorf("load pets for export: %w", err)
	}

	out, cleanup, err := outputWriter(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	return export.Write(out, pets)
}

// buildFilter assembles the record filter from flags.
func buildFilter(cmd *cobra.Command) (database.Filter, error) {
	var f database.Filter
	var err error

	if f.Breed, err = cmd.Flags().GetString("breed"); err != nil {
		return f, err
	}
	if f.Gender, err = cmd.Flags().GetString("gender"); err != nil {
		return f, err
	}
	if f.Size, err = cmd.Flags().GetString("size"); err != nil {
		return f, err
	}
	if f.Age, err = cmd.Flags().GetString("age"); err != nil {
		return f, err
	}
	return f, nil
}
