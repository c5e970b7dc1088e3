package annotations

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aind-data/blockhound/internal/atomicfile"
)

// Store manages one identity's OwnerRecord file.
//
// Every mutation is fully persisted through the atomic write protocol before
// the call returns — there is no write batching and no dirty buffering, so a
// reader on another machine sees a committed label within one
// write-and-rename cycle, never a partially applied one.
type Store struct {
	path     string
	identity string
	rec      *OwnerRecord
}

// NewStore creates a store for the given identity rooted at usersDir.
// The identity is lowercase-normalized and must be a safe single path
// component: anything outside [a-z0-9._-] is rejected before a path is
// ever formed.
func NewStore(usersDir, identity string) (*Store, error) {
	id := NormalizeIdentity(identity)
	if id == "" {
		return nil, fmt.Errorf("identity cannot be empty")
	}
	if !ValidIdentity(id) {
		return nil, fmt.Errorf("invalid identity %q: only lowercase letters, digits, '.', '_' and '-' are allowed", id)
	}

	return &Store{
		path:     filepath.Join(usersDir, id+".json"),
		identity: id,
	}, nil
}

// Identity returns the normalized identity this store owns.
func (s *Store) Identity() string {
	return s.identity
}

// LoadOrCreate reads the identity's record file, or synthesizes a fresh
// empty record and persists it immediately when the file does not exist.
// After LoadOrCreate returns successfully the file is guaranteed to exist.
func (s *Store) LoadOrCreate() error {
	data, err := atomicfile.Read(s.path)
	if os.IsNotExist(err) {
		now := time.Now().UTC()
		s.rec = &OwnerRecord{
			Identity:  s.identity,
			CreatedAt: now,
			UpdatedAt: now,
			Labels:    map[string]LabelEntry{},
		}
		return atomicfile.WriteJSON(s.path, s.rec)
	}
	if err != nil {
		return err
	}

	rec, err := decodeOwnerRecord(data)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorruptRecord, s.path, err)
	}

	s.rec = rec
	return nil
}

// Label returns the stored label for blockID, or false if the identity has
// not labeled it.
func (s *Store) Label(blockID string) (int, bool) {
	entry, ok := s.rec.Labels[blockID]
	if !ok {
		return 0, false
	}
	return entry.Label, true
}

// SetLabel records label for blockID and persists the whole record before
// returning.
func (s *Store) SetLabel(blockID string, label int) error {
	if label < 1 {
		return fmt.Errorf("label must be >= 1, got %d", label)
	}

	now := time.Now().UTC()
	if s.rec.Labels == nil {
		s.rec.Labels = map[string]LabelEntry{}
	}
	s.rec.Labels[blockID] = LabelEntry{Label: label, LabeledAt: now}
	s.rec.UpdatedAt = now

	return atomicfile.WriteJSON(s.path, s.rec)
}

// ClearLabel removes the label for blockID and persists. No-op (and no
// write) when the block was never labeled.
func (s *Store) ClearLabel(blockID string) error {
	if _, ok := s.rec.Labels[blockID]; !ok {
		return nil
	}

	delete(s.rec.Labels, blockID)
	s.rec.UpdatedAt = time.Now().UTC()

	return atomicfile.WriteJSON(s.path, s.rec)
}

// AllLabels returns a copy of the identity's blockID → entry mapping.
func (s *Store) AllLabels() map[string]LabelEntry {
	out := make(map[string]LabelEntry, len(s.rec.Labels))
	for id, entry := range s.rec.Labels {
		out[id] = entry
	}
	return out
}

// LabeledBlockIDs returns the sorted list of block IDs this identity has
// labeled.
func (s *Store) LabeledBlockIDs() []string {
	ids := make([]string, 0, len(s.rec.Labels))
	for id := range s.rec.Labels {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// OverrideStore manages the single shared override file.
//
// Multiple admin processes may hold the writer role concurrently; contention
// is resolved by atomic replace — the last successful rename wins, and no
// merge of concurrent overrides is attempted.
type OverrideStore struct {
	path   string
	admins map[string]bool
	rec    *OverrideRecord
}

// NewOverrideStore creates a store for the shared override file at path.
// admins is the externally supplied allow-list of identities permitted to
// write overrides; entries are lowercase-normalized.
func NewOverrideStore(path string, admins []string) *OverrideStore {
	allow := make(map[string]bool, len(admins))
	for _, a := range admins {
		if id := NormalizeIdentity(a); ValidIdentity(id) {
			allow[id] = true
		}
	}

	return &OverrideStore{
		path:   path,
		admins: allow,
		rec:    &OverrideRecord{UpdatedAt: time.Now().UTC(), Overrides: map[string]OverrideEntry{}},
	}
}

// Load reads the override file if it exists. A missing file is not an
// error: the store starts empty and the file is created on first write.
func (s *OverrideStore) Load() error {
	data, err := atomicfile.Read(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	rec, err := decodeOverrideRecord(data)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorruptRecord, s.path, err)
	}

	s.rec = rec
	return nil
}

// IsAdmin reports whether identity appears on the allow-list.
func (s *OverrideStore) IsAdmin(identity string) bool {
	return s.admins[NormalizeIdentity(identity)]
}

// SetOverride records a final label for blockID on behalf of identity and
// persists the whole record. Identities absent from the allow-list are
// rejected with ErrUnauthorized before any filesystem access occurs.
func (s *OverrideStore) SetOverride(identity, blockID string, label int) error {
	id := NormalizeIdentity(identity)
	if !s.admins[id] {
		return fmt.Errorf("%w: %s", ErrUnauthorized, id)
	}

	if label < 1 {
		return fmt.Errorf("label must be >= 1, got %d", label)
	}

	now := time.Now().UTC()
	if s.rec.Overrides == nil {
		s.rec.Overrides = map[string]OverrideEntry{}
	}
	s.rec.Overrides[blockID] = OverrideEntry{Label: label, SetBy: id, SetAt: now}
	s.rec.UpdatedAt = now

	return atomicfile.WriteJSON(s.path, s.rec)
}

// Override returns the override entry for blockID, if one is set.
func (s *OverrideStore) Override(blockID string) (OverrideEntry, bool) {
	entry, ok := s.rec.Overrides[blockID]
	return entry, ok
}

// AllOverrides returns a copy of the blockID → entry mapping.
func (s *OverrideStore) AllOverrides() map[string]OverrideEntry {
	out := make(map[string]OverrideEntry, len(s.rec.Overrides))
	for id, entry := range s.rec.Overrides {
		out[id] = entry
	}
	return out
}

// LoadAllOwners reads every per-identity record file under usersDir for
// consensus input. Files are matched by their .json extension; temp files
// left behind by interrupted writes (dot-prefixed, .tmp suffix) are skipped
// as non-authoritative garbage. A corrupt record surfaces ErrCorruptRecord
// rather than being silently dropped.
func LoadAllOwners(usersDir string) ([]*OwnerRecord, error) {
	entries, err := os.ReadDir(usersDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", usersDir, err)
	}

	var owners []*OwnerRecord
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".json") {
			continue
		}

		path := filepath.Join(usersDir, name)
		data, err := atomicfile.Read(path)
		if err != nil {
			return nil, err
		}

		rec, err := decodeOwnerRecord(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrCorruptRecord, path, err)
		}

		owners = append(owners, rec)
	}

	sort.Slice(owners, func(i, j int) bool { return owners[i].Identity < owners[j].Identity })
	return owners, nil
}

func decodeOwnerRecord(data []byte) (*OwnerRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var rec OwnerRecord
	if err := dec.Decode(&rec); err != nil {
		return nil, err
	}
	if rec.Labels == nil {
		rec.Labels = map[string]LabelEntry{}
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	return &rec, nil
}

func decodeOverrideRecord(data []byte) (*OverrideRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var rec OverrideRecord
	if err := dec.Decode(&rec); err != nil {
		return nil, err
	}
	if rec.Overrides == nil {
		rec.Overrides = map[string]OverrideEntry{}
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	return &rec, nil
}
