package annotations

import (
	"errors"

	"github.com/aind-data/blockhound/internal/atomicfile"
)

var (
	// ErrCorruptRecord indicates a record file was readable but its content
	// does not match the expected schema. Corrupt records are never
	// auto-repaired; the file must be fixed or removed by an operator.
	ErrCorruptRecord = errors.New("corrupt record")

	// ErrUnauthorized indicates an override write was attempted by an
	// identity that is not on the admin allow-list. The write is rejected
	// before any filesystem access.
	ErrUnauthorized = errors.New("identity not authorized to set overrides")

	// ErrNotFound indicates a referenced identity or block has no current
	// state.
	ErrNotFound = errors.New("not found")
)

// IsUnavailable returns true if the error means a record file could not be
// read within the retry budget (a transient shared-filesystem condition,
// worth retrying later).
func IsUnavailable(err error) bool {
	return errors.Is(err, atomicfile.ErrUnavailable)
}

// IsCorrupt returns true if the error indicates a schema-invalid record file.
func IsCorrupt(err error) bool {
	return errors.Is(err, ErrCorruptRecord)
}

// IsUnauthorized returns true if the error indicates a rejected override
// write.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsNotFound returns true if the error indicates missing state.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
