// Package export writes annotation summaries to CSV for downstream dataset
// use.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/aind-data/blockhound/pkg/annotations"
)

// WriteCSV writes one row per block to w.
//
// Columns: block_id, consensus_label, final_label, has_disagreement, one
// user_<identity>_label column per identity (sorted by identity), and
// exported_at. Absent labels render as empty cells.
func WriteCSV(w io.Writer, rows []annotations.Row, identities []string) error {
	sorted := append([]string(nil), identities...)
	sort.Strings(sorted)

	header := []string{"block_id", "consensus_label", "final_label", "has_disagreement"}
	for _, id := range sorted {
		header = append(header, fmt.Sprintf("user_%s_label", id))
	}
	header = append(header, "exported_at")

	exportedAt := time.Now().UTC().Format(time.RFC3339)

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range rows {
		record := make([]string, 0, len(header))
		record = append(record, row.BlockID)

		if row.HasConsensus {
			record = append(record, strconv.Itoa(row.Consensus))
		} else {
			record = append(record, "")
		}

		if row.Override != nil {
			record = append(record, strconv.Itoa(row.Override.Label))
		} else {
			record = append(record, "")
		}

		record = append(record, strconv.FormatBool(row.Disagreement))

		votes := map[string]int{}
		for _, v := range row.Votes {
			votes[v.Identity] = v.Label
		}
		for _, id := range sorted {
			if label, ok := votes[id]; ok {
				record = append(record, strconv.Itoa(label))
			} else {
				record = append(record, "")
			}
		}

		record = append(record, exportedAt)

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", row.BlockID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile writes the CSV to path, creating parent directories as needed.
func WriteFile(path string, rows []annotations.Row, identities []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteCSV(f, rows, identities); err != nil {
		return err
	}

	return f.Close()
}
