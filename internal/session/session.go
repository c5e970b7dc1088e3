// Package session assembles the per-user state a blockhound process works
// with: the identity's own record store, the shared override store, and the
// admin flag resolved from the allow-list once at session start.
package session

import (
	"fmt"

	"github.com/aind-data/blockhound/internal/config"
	"github.com/aind-data/blockhound/pkg/annotations"
)

// Session is the state for one logged-in identity.
type Session struct {
	Identity  string
	IsAdmin   bool
	Store     *annotations.Store
	Overrides *annotations.OverrideStore
}

// Open prepares a session for username: normalizes the identity, loads or
// creates its record file, and loads the shared override record. After Open
// returns, the identity's file is guaranteed to exist on the shared mount.
func Open(cfg *config.Config, username string) (*Session, error) {
	store, err := annotations.NewStore(cfg.UsersDir(), username)
	if err != nil {
		return nil, err
	}

	if err := store.LoadOrCreate(); err != nil {
		return nil, fmt.Errorf("failed to open record for %s: %w", store.Identity(), err)
	}

	overrides := annotations.NewOverrideStore(cfg.OverridesFile(), cfg.Admins)
	if err := overrides.Load(); err != nil {
		return nil, fmt.Errorf("failed to load overrides: %w", err)
	}

	return &Session{
		Identity:  store.Identity(),
		IsAdmin:   overrides.IsAdmin(store.Identity()),
		Store:     store,
		Overrides: overrides,
	}, nil
}
