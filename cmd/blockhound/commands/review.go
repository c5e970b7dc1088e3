package commands

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/aind-data/blockhound/pkg/annotations"
)

var reviewDisagreementsOnly bool

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Show the consensus table across all annotators",
	Long: `Show the consensus review table: one row per block with every
annotator's label, the majority-vote consensus (smallest label wins
ties), a disagreement marker, and the admin override if set.

The table is recomputed from the record files on every run, so it always
reflects the latest state on the shared mount.`,
	RunE: runReview,
}

func init() {
	reviewCmd.Flags().BoolVar(&reviewDisagreementsOnly, "disagreements", false, "Only show blocks with disagreement")
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	cfg, rows, owners, err := buildConsensusTable()
	if err != nil {
		return err
	}

	identities := make([]string, 0, len(owners))
	for _, o := range owners {
		identities = append(identities, o.Identity)
	}
	sort.Strings(identities)

	header := []string{"BLOCK"}
	for _, id := range identities {
		header = append(header, id)
	}
	header = append(header, "CONSENSUS", "DISAGREE", "OVERRIDE")

	table := tablewriter.NewWriter(os.Stdout)
	table.Header(header)

	shown := 0
	for _, row := range rows {
		if reviewDisagreementsOnly && !row.Disagreement {
			continue
		}
		if err := table.Append(reviewRow(row, identities)); err != nil {
			return fmt.Errorf("failed to render row for %s: %w", row.BlockID, err)
		}
		shown++
	}

	if shown == 0 {
		fmt.Println("Nothing to review")
		return nil
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	stats := annotations.ComputeStatistics(rows)
	fmt.Printf("\n%d blocks, %d labeled, %d disagreements, consensus rate %.0f%% (classes: %s)\n",
		stats.TotalBlocks, stats.LabeledBlocks, stats.Disagreements, stats.ConsensusRate*100, classList(cfg.Classes))
	return nil
}

func reviewRow(row annotations.Row, identities []string) []string {
	votes := map[string]int{}
	for _, v := range row.Votes {
		votes[v.Identity] = v.Label
	}

	out := []string{row.BlockID}
	for _, id := range identities {
		if label, ok := votes[id]; ok {
			out = append(out, strconv.Itoa(label))
		} else {
			out = append(out, "-")
		}
	}

	if row.HasConsensus {
		out = append(out, strconv.Itoa(row.Consensus))
	} else {
		out = append(out, "-")
	}

	if row.Disagreement {
		out = append(out, "yes")
	} else {
		out = append(out, "")
	}

	if row.Override != nil {
		out = append(out, fmt.Sprintf("%d (%s)", row.Override.Label, row.Override.SetBy))
	} else {
		out = append(out, "")
	}

	return out
}

func classList(classes []string) string {
	out := ""
	for i, name := range classes {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%d=%s", i+1, name)
	}
	return out
}
