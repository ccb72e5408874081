// Package menusync implements full-catalog menu synchronization from a
// POS partner.
//
// On every sync the partner pushes its entire menu as one snapshot
// document. The package reconciles that snapshot against the relational
// menu schema across seven entity types (main categories, sub categories,
// menu items, variant groups, variants, addon groups, addons) plus the
// derived item link tables, inside one database transaction: absent rows
// are soft-deleted, new rows inserted, matched rows replaced. Internal
// ids are stable across passes and never reused; replaying an identical
// snapshot is a no-op.
//
// # Components
//
//   - Normalizer: converts the stringly-typed snapshot into typed
//     candidate rows (tax back-calculation, packing charges, sequences,
//     synthetic NOTA buckets).
//   - Coordinator: drives the entity processors in dependency order
//     inside one transaction, tracking a diagnostic state machine.
//   - Repository: transaction-scoped storage statements, including the
//     SELECT ... FOR UPDATE reads that serialize concurrent syncs per
//     restaurant.
//   - Service: parse, archive, reconcile, post-commit search refresh.
//   - Handler: exposes the partner-facing HTTP endpoint.
//
// # HTTP Endpoints
//
//   - POST /pos/menu/sync : Ingest one full-catalog snapshot and return
//     the per-entity sync report.
package menusync
