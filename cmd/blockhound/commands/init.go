package commands

import (
	"github.com/spf13/cobra"

	"github.com/aind-data/blockhound/internal/printer"
	"github.com/aind-data/blockhound/internal/scaffold"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a blockhound project in the current directory",
	Long: `Create the blockhound project structure in the current directory:

  • blockhound.yml      starter configuration
  • data/blocks/        block data root (block_NNNN subdirectories)
  • annotations/users/  one record file per annotator
  • annotations/admin/  the shared override record

Run this once per project, on a directory every annotator machine mounts.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing blockhound.yml")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	if err := scaffold.Initialize(initForce); err != nil {
		return printer.Error(
			"Project initialization failed",
			err.Error(),
			[]string{"Fix the reported problem and re-run 'blockhound init'"},
		)
	}

	printer.Success("Project initialized\n")
	printer.Info("\nNext steps:\n")
	printer.Info("  1. Point data_root in blockhound.yml at your block directory\n")
	printer.Info("  2. Add admin identities under admins:\n")
	printer.Info("  3. Run 'blockhound blocks' to verify discovery\n")
	return nil
}
