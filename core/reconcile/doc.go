// Package reconcile implements the generic set reconciliation used by the
// menu sync engine.
//
// Diff compares a list of freshly normalized snapshot candidates against
// the current database rows for the same scope and produces four disjoint
// sets: inserts, whole-row updates, unchanged rows and deletes. Matching
// is driven by a
// typed key selector per entity type instead of a runtime field name, and
// identity adoption (stamping the matched row's internal id onto the
// candidate) is an explicit callback.
//
// The package is pure: it performs no I/O and owns no transaction. Entity
// processors feed it scoped row sets and persist the resulting delta.
package reconcile
