package annotations

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// LabelEntry records a single identity's label for one block.
type LabelEntry struct {
	Label     int       `json:"label"`      // 1-based class index
	LabeledAt time.Time `json:"labeled_at"` // UTC timestamp of the labeling action
}

// OwnerRecord is the durable annotation state for one identity.
// Exactly one file exists per identity, owned and mutated only by that
// identity's process.
type OwnerRecord struct {
	Identity  string                `json:"identity"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
	Labels    map[string]LabelEntry `json:"labels"` // blockID → entry
}

// OverrideEntry records an admin-set final label for one block.
type OverrideEntry struct {
	Label int       `json:"label"`
	SetBy string    `json:"set_by"`
	SetAt time.Time `json:"set_at"`
}

// OverrideRecord is the single shared final-label state, written only by
// identities on the admin allow-list.
type OverrideRecord struct {
	UpdatedAt time.Time                `json:"updated_at"`
	Overrides map[string]OverrideEntry `json:"overrides"` // blockID → entry
}

// identityPattern constrains owner keys to a single safe path component.
// An identity becomes a file name under the shared users directory, so
// separators and any other special characters are rejected outright.
var identityPattern = regexp.MustCompile(`^[a-z0-9._-]+$`)

// NormalizeIdentity canonicalizes a username for use as an owner key.
// Identities are case-insensitive on disk: "Alice" and "alice" map to the
// same record file.
func NormalizeIdentity(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ValidIdentity reports whether name is a normalized identity safe to use
// as an owner key. Names containing path separators or characters outside
// [a-z0-9._-] are not valid.
func ValidIdentity(name string) bool {
	return identityPattern.MatchString(name)
}

// Validate checks that the OwnerRecord has a structurally valid shape.
// Returns an error describing the first violation found.
func (r *OwnerRecord) Validate() error {
	if r.Identity == "" {
		return fmt.Errorf("identity cannot be empty")
	}

	if !ValidIdentity(r.Identity) {
		return fmt.Errorf("identity %q must match %s", r.Identity, identityPattern)
	}

	if r.CreatedAt.IsZero() {
		return fmt.Errorf("created_at is missing")
	}

	for blockID, entry := range r.Labels {
		if blockID == "" {
			return fmt.Errorf("labels contains an empty block ID")
		}
		if entry.Label < 1 {
			return fmt.Errorf("label for %s must be >= 1, got %d", blockID, entry.Label)
		}
	}

	return nil
}

// Validate checks that the OverrideRecord has a structurally valid shape.
func (r *OverrideRecord) Validate() error {
	for blockID, entry := range r.Overrides {
		if blockID == "" {
			return fmt.Errorf("overrides contains an empty block ID")
		}
		if entry.Label < 1 {
			return fmt.Errorf("override label for %s must be >= 1, got %d", blockID, entry.Label)
		}
		if !ValidIdentity(entry.SetBy) {
			return fmt.Errorf("override for %s has invalid set_by identity %q", blockID, entry.SetBy)
		}
	}

	return nil
}
