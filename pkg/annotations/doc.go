// Package annotations provides type-safe Go definitions and file schema
// patterns for the Blockhound annotation state. Annotation state is the
// shared system of record through which every Blockhound process (CLI,
// viewer, exporter) interacts, stored as JSON files on a mounted filesystem
// that many machines access concurrently.
//
// # Architecture
//
// There is no database and no coordination service. Each annotator identity
// owns exactly one record file and is the only writer of that file, which
// removes inter-annotator write conflicts by construction. A single shared
// override file carries admin-set final labels; concurrent admin writes are
// resolved by atomic replace (last successful rename wins). All reads and
// writes go through the atomicfile temp-write/fsync/rename protocol, which
// is what makes the files safe to share over NFS.
//
// # File layout
//
//	<annotations root>/
//	  users/
//	    alice.json        one OwnerRecord per identity
//	    bob.json
//	  admin/
//	    overrides.json    the single shared OverrideRecord
//
// # Consensus
//
// Consensus over the per-identity labels is recomputed on demand from the
// files (never cached persistently): majority vote per block, smallest label
// winning ties, with a disagreement flag whenever two distinct labels were
// submitted. Overrides are reported alongside consensus but never change it.
package annotations
