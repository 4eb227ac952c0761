package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewClearCmd creates the clear command.
func NewClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every stored pet",
		Long: `Clear deletes every record from the pet database. The deletion is
irreversible, so the command refuses to run without --yes.

Examples:
  petscan clear --yes`,
		Args: cobra.NoArgs,
		RunE: runClearCmd,
	}

	cmd.Flags().Bool("yes", false, "Confirm the deletion")
	cmd.Flags().String("db-dir", "",
		"Database directory (default: XDG data directory)")

	return cmd
}

// runClearCmd executes the clear command.
func runClearCmd(cmd *cobra.Command, _ []string) error {
	yes, err := cmd.Flags().GetBool("yes")
	if err != nil {
		return err
	}
	if !yes {
		return fmt.Errorf("clear deletes every stored pet; re-run with --yes to confirm")
	}

	db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	deleted, err := db.Clear(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d pets\n", deleted)
	return nil
}
