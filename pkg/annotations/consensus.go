package annotations

import "sort"

// Vote is one identity's submitted label for a block.
type Vote struct {
	Identity string
	Label    int
}

// Row is the derived consensus view for one block. Rows are recomputed on
// demand from the owner records and the override record; they are never
// persisted, so they always reflect the latest on-disk state.
type Row struct {
	BlockID      string
	Votes        []Vote // sorted by identity
	Consensus    int
	HasConsensus bool // false when no identity has labeled the block
	Disagreement bool
	Override     *OverrideEntry
}

// OverrideAgrees reports whether the admin override matches the computed
// consensus. False when either is absent.
func (r Row) OverrideAgrees() bool {
	return r.Override != nil && r.HasConsensus && r.Override.Label == r.Consensus
}

// ComputeConsensus reduces one block's votes to a majority label.
//
// The consensus label is the one with the strictly highest vote count; ties
// for the highest count are broken by picking the numerically smallest label
// among the tied set. This tie-break is an arbitrary but load-bearing
// convention: downstream tooling depends on it being reproducible.
//
// disagreement is true whenever two or more distinct labels were submitted,
// independent of how the tie-break resolved. With no votes at all, ok is
// false and disagreement is false.
func ComputeConsensus(votes map[string]int) (label int, ok bool, disagreement bool) {
	if len(votes) == 0 {
		return 0, false, false
	}

	counts := map[int]int{}
	for _, l := range votes {
		counts[l]++
	}

	max := 0
	for _, n := range counts {
		if n > max {
			max = n
		}
	}

	winner := 0
	for l, n := range counts {
		if n == max && (winner == 0 || l < winner) {
			winner = l
		}
	}

	return winner, true, len(counts) > 1
}

// BuildTable computes one Row per block ID from the given owner records and
// override mapping. blockIDs supplies the row order (normally the registry's
// scan order); blocks no identity has labeled still get a row, with
// HasConsensus false.
func BuildTable(owners []*OwnerRecord, overrides map[string]OverrideEntry, blockIDs []string) []Row {
	rows := make([]Row, 0, len(blockIDs))

	for _, blockID := range blockIDs {
		votes := map[string]int{}
		for _, owner := range owners {
			if entry, ok := owner.Labels[blockID]; ok {
				votes[owner.Identity] = entry.Label
			}
		}

		label, ok, disagreement := ComputeConsensus(votes)

		row := Row{
			BlockID:      blockID,
			Votes:        sortedVotes(votes),
			Consensus:    label,
			HasConsensus: ok,
			Disagreement: disagreement,
		}

		if entry, found := overrides[blockID]; found {
			e := entry
			row.Override = &e
		}

		rows = append(rows, row)
	}

	return rows
}

func sortedVotes(votes map[string]int) []Vote {
	out := make([]Vote, 0, len(votes))
	for id, label := range votes {
		out = append(out, Vote{Identity: id, Label: label})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Identity < out[j].Identity })
	return out
}

// Statistics aggregates a consensus table. All fields are derived from the
// rows passed in; nothing is cached incrementally, so the numbers can never
// drift from the source records.
type Statistics struct {
	TotalBlocks      int
	LabeledBlocks    int     // blocks with at least one vote
	Disagreements    int     // blocks with two or more distinct labels
	ConsensusRate    float64 // fraction of labeled blocks with zero disagreement
	ActiveAnnotators int     // distinct identities with at least one vote
	Overrides        int     // blocks with an admin override set
}

// ComputeStatistics aggregates rows into summary Statistics.
func ComputeStatistics(rows []Row) Statistics {
	stats := Statistics{TotalBlocks: len(rows)}

	annotators := map[string]bool{}
	for _, row := range rows {
		if row.HasConsensus {
			stats.LabeledBlocks++
		}
		if row.Disagreement {
			stats.Disagreements++
		}
		if row.Override != nil {
			stats.Overrides++
		}
		for _, v := range row.Votes {
			annotators[v.Identity] = true
		}
	}

	stats.ActiveAnnotators = len(annotators)
	if stats.LabeledBlocks > 0 {
		stats.ConsensusRate = float64(stats.LabeledBlocks-stats.Disagreements) / float64(stats.LabeledBlocks)
	}

	return stats
}
