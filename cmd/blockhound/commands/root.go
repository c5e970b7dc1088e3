package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aind-data/blockhound/internal/config"
	"github.com/aind-data/blockhound/internal/registry"
	"github.com/aind-data/blockhound/internal/session"
)

var (
	version string
	commit  string
	date    string
)

var (
	cfgFile  string
	userFlag string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "blockhound",
	Short: "Blockhound - Multi-annotator block labeling over a shared filesystem",
	Long: `Blockhound records per-block classification labels from many independent
annotators into a shared, mountable filesystem - no database, no
coordination service - and aggregates them into a consensus view with
admin override.

Each annotator identity owns exactly one record file; every write goes
through an atomic temp-write/fsync/rename protocol that is safe for
concurrent access from multiple machines on NFS.`,
	Version: version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultFile, "Path to blockhound.yml")
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "Annotator identity (defaults to $USER)")
}

// loadConfig reads the configuration named by --config.
func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

// currentIdentity resolves the acting identity from --user or $USER.
func currentIdentity() (string, error) {
	if userFlag != "" {
		return userFlag, nil
	}
	if u := os.Getenv("USER"); u != "" {
		return u, nil
	}
	return "", fmt.Errorf("no identity: pass --user or set $USER")
}

// openRegistry scans the data root from cfg.
func openRegistry(cfg *config.Config) (*registry.Registry, error) {
	reg := registry.New(cfg.DataRoot)
	if err := reg.Scan(); err != nil {
		return nil, err
	}
	return reg, nil
}

// openSession loads config and opens a session for the acting identity.
func openSession() (*config.Config, *session.Session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	user, err := currentIdentity()
	if err != nil {
		return nil, nil, err
	}

	sess, err := session.Open(cfg, user)
	if err != nil {
		return nil, nil, err
	}

	return cfg, sess, nil
}
