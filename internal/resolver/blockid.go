// Package resolver turns user-typed block references into full block IDs.
package resolver

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aind-data/blockhound/internal/registry"
)

// ResolveBlockID resolves a user-supplied reference to a full block ID.
//
// The function handles three cases:
//  1. Input is already a full block ID (block_NNNN) - validates existence
//  2. Input is a bare number ("42") - expands to block_0042
//  3. Input is a prefix ("block_00") - scans for matches and returns the
//     unique result, or an error listing the ambiguous candidates
func ResolveBlockID(reg *registry.Registry, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("block reference cannot be empty")
	}

	// Bare number shorthand
	if n, err := strconv.Atoi(ref); err == nil && n >= 0 && n <= 9999 {
		ref = fmt.Sprintf("block_%04d", n)
	}

	if _, err := reg.Get(ref); err == nil {
		return ref, nil
	}

	var matches []string
	for _, id := range reg.BlockIDs() {
		if strings.HasPrefix(id, ref) {
			matches = append(matches, id)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no block matches %q", ref)
	case 1:
		return matches[0], nil
	default:
		if len(matches) > 5 {
			return "", fmt.Errorf("reference %q is ambiguous: matches %s (and %d more)",
				ref, strings.Join(matches[:5], ", "), len(matches)-5)
		}
		return "", fmt.Errorf("reference %q is ambiguous: matches %s",
			ref, strings.Join(matches, ", "))
	}
}
