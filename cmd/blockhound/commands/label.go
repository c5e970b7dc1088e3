package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aind-data/blockhound/internal/printer"
	"github.com/aind-data/blockhound/internal/resolver"
)

var labelCmd = &cobra.Command{
	Use:   "label",
	Short: "Record, clear, or list your labels",
}

var labelSetCmd = &cobra.Command{
	Use:   "set <block> <label>",
	Short: "Label a block",
	Long: `Record your classification label for a block and persist it immediately.

The block may be referenced by full ID (block_0042), bare number (42), or a
unique prefix. The label is a 1-based class index from blockhound.yml.`,
	Args: cobra.ExactArgs(2),
	RunE: runLabelSet,
}

var labelClearCmd = &cobra.Command{
	Use:   "clear <block>",
	Short: "Remove your label from a block",
	Args:  cobra.ExactArgs(1),
	RunE:  runLabelClear,
}

var labelListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the blocks you have labeled",
	Args:  cobra.NoArgs,
	RunE:  runLabelList,
}

func init() {
	labelCmd.AddCommand(labelSetCmd)
	labelCmd.AddCommand(labelClearCmd)
	labelCmd.AddCommand(labelListCmd)
	rootCmd.AddCommand(labelCmd)
}

func runLabelSet(cmd *cobra.Command, args []string) error {
	cfg, sess, err := openSession()
	if err != nil {
		return err
	}

	reg, err := openRegistry(cfg)
	if err != nil {
		return err
	}

	blockID, err := resolver.ResolveBlockID(reg, args[0])
	if err != nil {
		return err
	}

	label, err := strconv.Atoi(args[1])
	if err != nil || !cfg.ValidLabel(label) {
		return printer.Error(
			fmt.Sprintf("Invalid label %q", args[1]),
			fmt.Sprintf("Labels are 1-based class indexes; this project defines %d classes.", len(cfg.Classes)),
			classSuggestions(cfg.Classes),
		)
	}

	if err := sess.Store.SetLabel(blockID, label); err != nil {
		return fmt.Errorf("failed to save label: %w", err)
	}

	printer.Success("%s labeled %d (%s) by %s\n", blockID, label, cfg.ClassName(label), sess.Identity)
	return nil
}

func runLabelClear(cmd *cobra.Command, args []string) error {
	cfg, sess, err := openSession()
	if err != nil {
		return err
	}

	reg, err := openRegistry(cfg)
	if err != nil {
		return err
	}

	blockID, err := resolver.ResolveBlockID(reg, args[0])
	if err != nil {
		return err
	}

	if _, ok := sess.Store.Label(blockID); !ok {
		printer.Warning("%s was not labeled by %s\n", blockID, sess.Identity)
		return nil
	}

	if err := sess.Store.ClearLabel(blockID); err != nil {
		return fmt.Errorf("failed to clear label: %w", err)
	}

	printer.Success("%s label cleared\n", blockID)
	return nil
}

func runLabelList(cmd *cobra.Command, args []string) error {
	cfg, sess, err := openSession()
	if err != nil {
		return err
	}

	ids := sess.Store.LabeledBlockIDs()
	if len(ids) == 0 {
		fmt.Printf("No labels recorded for %s\n", sess.Identity)
		return nil
	}

	labels := sess.Store.AllLabels()
	fmt.Printf("%-12s %-7s %-12s %s\n", "BLOCK", "LABEL", "CLASS", "LABELED AT")
	for _, id := range ids {
		entry := labels[id]
		fmt.Printf("%-12s %-7d %-12s %s\n", id, entry.Label, cfg.ClassName(entry.Label), entry.LabeledAt.Format("2006-01-02 15:04"))
	}
	fmt.Printf("\n%d labeled by %s\n", len(ids), sess.Identity)
	return nil
}

func classSuggestions(classes []string) []string {
	out := make([]string, len(classes))
	for i, name := range classes {
		out[i] = fmt.Sprintf("%d = %s", i+1, name)
	}
	return out
}
