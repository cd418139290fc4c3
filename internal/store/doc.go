// Package store provides SQLite-backed archival of composition runs.
//
// Every Compose call that is archived becomes one row in the runs table:
// the request and the resulting composition, both as RFC 8785 canonical
// JSON, plus the content-addressed composition ID and the engine version
// that produced it. Regenerating the stored request and comparing IDs is
// the determinism check behind `seedsong replay`.
//
// # Critical Patterns
//
// Run-Level Idempotency
//   - runs.id is the primary key; rewriting a run is a no-op
//
// Logical Ordering
//   - Runs carry a seq INTEGER assigned at insert, NEVER a timestamp
//   - All listings use ORDER BY seq ASC, id ASC COLLATE BINARY
//
// Filtered Reads
//   - QueryRuns takes a sealed Predicate (Equals, And) over a fixed set of
//     columns and compiles it to parameterized SQL; values are never
//     interpolated into the statement text
//
// Schema Versions
//   - user_version tracks the applied migrations; an archive newer than
//     this build is refused
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
