// Package store provides SQLite-backed storage for auxiliary data
// containers, keyed by IR object id.
//
// Each object's entries are stored as opaque blobs together with their
// position, so a container read back from the store has the same entry
// order and bytes as the one written, including entries whose schema is
// unknown to the process.
//
// # Deterministic Query Results
//
// Every query that returns more than one row has an ORDER BY clause:
// entries by position, objects by id with BINARY collation.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Deleting an object deletes its entries
package store
