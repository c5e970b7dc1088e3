package commands

import (
	"sort"

	"github.com/aind-data/blockhound/internal/config"
	"github.com/aind-data/blockhound/pkg/annotations"
)

// buildConsensusTable loads every owner record plus the override record and
// computes the consensus rows for all discovered blocks.
func buildConsensusTable() (*config.Config, []annotations.Row, []*annotations.OwnerRecord, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	reg, err := openRegistry(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	owners, err := annotations.LoadAllOwners(cfg.UsersDir())
	if err != nil {
		return nil, nil, nil, err
	}

	overrides := annotations.NewOverrideStore(cfg.OverridesFile(), cfg.Admins)
	if err := overrides.Load(); err != nil {
		return nil, nil, nil, err
	}

	rows := annotations.BuildTable(owners, overrides.AllOverrides(), reg.BlockIDs())
	return cfg, rows, owners, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
