package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"jellywatch/internal/media"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show record store statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			stats, err := st.Stats(cmd.Context())
			if err != nil {
				return fmt.Errorf("collect stats: %w", err)
			}

			kinds := make([]media.Kind, 0, len(stats.ByKind))
			for kind := range stats.ByKind {
				kinds = append(kinds, kind)
			}
			sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

			rows := make([][]string, 0, len(kinds)+4)
			for _, kind := range kinds {
				rows = append(rows, []string{string(kind), strconv.Itoa(stats.ByKind[kind])})
			}
			rows = append(rows,
				[]string{"total", strconv.Itoa(stats.TotalRecords)},
				[]string{"added last 24h", strconv.Itoa(stats.RecentAdditions)},
				[]string{"database size", humanize.IBytes(uint64(stats.DatabaseBytes))},
				[]string{"wal enabled", yesNo(stats.WALEnabled)},
			)

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Metric", "Value"},
				rows,
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}
}
