package commands

import (
	"github.com/spf13/cobra"

	"github.com/aind-data/blockhound/internal/export"
	"github.com/aind-data/blockhound/internal/printer"
)

var exportCmd = &cobra.Command{
	Use:   "export <output.csv>",
	Short: "Export the annotation summary to CSV",
	Long: `Export one row per block to a CSV file: block ID, consensus label,
final (override) label, disagreement flag, one column per annotator
(sorted by identity), and the export timestamp.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	_, rows, owners, err := buildConsensusTable()
	if err != nil {
		return err
	}

	identities := make([]string, 0, len(owners))
	for _, o := range owners {
		identities = append(identities, o.Identity)
	}

	if err := export.WriteFile(args[0], rows, identities); err != nil {
		return err
	}

	printer.Success("Exported %d blocks to %s\n", len(rows), args[0])
	return nil
}
