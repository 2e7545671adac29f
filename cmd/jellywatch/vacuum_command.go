package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVacuumCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "vacuum",
		Short: "Compact the record database and refresh statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Vacuum(cmd.Context()); err != nil {
				return fmt.Errorf("vacuum database: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Database compacted")
			return nil
		},
	}
}
