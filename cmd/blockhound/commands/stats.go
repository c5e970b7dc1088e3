package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aind-data/blockhound/pkg/annotations"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate annotation statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	_, rows, _, err := buildConsensusTable()
	if err != nil {
		return err
	}

	stats := annotations.ComputeStatistics(rows)

	fmt.Printf("Blocks:            %d\n", stats.TotalBlocks)
	fmt.Printf("Labeled:           %d\n", stats.LabeledBlocks)
	fmt.Printf("Disagreements:     %d\n", stats.Disagreements)
	fmt.Printf("Consensus rate:    %.1f%%\n", stats.ConsensusRate*100)
	fmt.Printf("Active annotators: %d\n", stats.ActiveAnnotators)
	fmt.Printf("Overrides:         %d\n", stats.Overrides)
	return nil
}
