// Package store provides SQLite-backed persistence for authored forms and
// saved response drafts.
//
// The engine core is persistence-free: it owns only the in-memory
// normalized index and answer map. This package is the host-side
// repository layered around it - compiled definitions go in as JSON trees,
// answer sets go in with their kind tags so every shape round-trips.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: drafts cascade with their form
//
// All writes are idempotent upserts (ON CONFLICT ... DO UPDATE); reads of
// missing rows return ErrNotFound rather than sql.ErrNoRows so callers
// never depend on database/sql internals.
package store
