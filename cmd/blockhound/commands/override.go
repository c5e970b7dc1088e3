package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aind-data/blockhound/internal/printer"
	"github.com/aind-data/blockhound/internal/resolver"
	"github.com/aind-data/blockhound/pkg/annotations"
)

var overrideCmd = &cobra.Command{
	Use:   "override",
	Short: "Manage admin final-label overrides",
}

var overrideSetCmd = &cobra.Command{
	Use:   "set <block> <label>",
	Short: "Set the final label for a block (admin only)",
	Long: `Set the final label for a block, overriding the computed consensus in
exports and review output. Only identities on the admins allow-list in
blockhound.yml may set overrides; anyone else is rejected before any
file is touched.`,
	Args: cobra.ExactArgs(2),
	RunE: runOverrideSet,
}

var overrideListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the overrides currently set",
	Args:  cobra.NoArgs,
	RunE:  runOverrideList,
}

func init() {
	overrideCmd.AddCommand(overrideSetCmd)
	overrideCmd.AddCommand(overrideListCmd)
	rootCmd.AddCommand(overrideCmd)
}

func runOverrideSet(cmd *cobra.Command, args []string) error {
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

	if err := sess.Overrides.SetOverride(sess.Identity, blockID, label); err != nil {
		if annotations.IsUnauthorized(err) {
			return printer.Error(
				"Not authorized",
				fmt.Sprintf("Identity '%s' is not on the admins allow-list.", sess.Identity),
				[]string{"Ask a project admin to add you to admins: in blockhound.yml"},
			)
		}
		return fmt.Errorf("failed to save override: %w", err)
	}

	printer.Success("%s final label set to %d (%s) by %s\n", blockID, label, cfg.ClassName(label), sess.Identity)
	return nil
}

func runOverrideList(cmd *cobra.Command, args []string) error {
	cfg, sess, err := openSession()
	if err != nil {
		return err
	}

	overrides := sess.Overrides.AllOverrides()
	if len(overrides) == 0 {
		fmt.Println("No overrides set")
		return nil
	}

	fmt.Printf("%-12s %-7s %-12s %-12s %s\n", "BLOCK", "LABEL", "CLASS", "SET BY", "SET AT")
	for _, id := range sortedKeys(overrides) {
		e := overrides[id]
		fmt.Printf("%-12s %-7d %-12s %-12s %s\n", id, e.Label, cfg.ClassName(e.Label), e.SetBy, e.SetAt.Format("2006-01-02 15:04"))
	}
	return nil
}
