package menusync

import (
	"menu-sync/core/reconcile"
)

// reconciled is the outcome of one entity processor: the surviving rows
// (inserts and updates, internal ids populated), the rows soft-deleted
// this pass, the partner ids of candidates dropped silently because their
// parent resolved into the delete set, and the mutation counts.
type reconciled[T any] struct {
	rows       []T
	deleted    []T
	skippedPos []string
	changes    reconcile.Changes

	// touched holds the internal ids of rows actually written this pass
	// (inserted, updated or newly soft-deleted). Only the item processor
	// fills it, for the post-commit search refresh.
	touched []uint
}

// parentIndex is what a child processor resolves its parent references
// against: the already-reconciled parent list keyed by partner id, plus
// the partner ids of parents that were deleted or skipped this pass.
type parentIndex struct {
	active map[string]uint
	gone   map[string]struct{}
}

func newParentIndex() parentIndex {
	return parentIndex{
		active: make(map[string]uint),
		gone:   make(map[string]struct{}),
	}
}

// index builds a parentIndex from a processor outcome.
func index[T any](out reconciled[T], posID func(T) string, internalID func(T) uint) parentIndex {
	idx := newParentIndex()
	for _, row := range out.rows {
		idx.active[posID(row)] = internalID(row)
	}
	for _, row := range out.deleted {
		idx.gone[posID(row)] = struct{}{}
	}
	for _, pos := range out.skippedPos {
		idx.gone[pos] = struct{}{}
	}
	return idx
}

// resolveParents stamps each candidate with its parent's internal id.
//
// A candidate whose parent resolved into this pass's delete (or skip) set
// is dropped silently. A candidate whose parent exists nowhere in the
// snapshot is a hard ValidationError; the full candidate list is walked
// before returning so one pass reports every offending record.
func resolveParents[T any](
	entity string,
	candidates []Candidate[T],
	idx parentIndex,
	pos func(T) string,
	name func(T) string,
	setParent func(*T, uint),
) (resolved []T, skippedPos []string, errs []error) {
	resolved = make([]T, 0, len(candidates))
	for _, cand := range candidates {
		if parentID, ok := idx.active[cand.ParentPosID]; ok {
			row := cand.Row
			setParent(&row, parentID)
			resolved = append(resolved, row)
			continue
		}
		if _, ok := idx.gone[cand.ParentPosID]; ok {
			skippedPos = append(skippedPos, pos(cand.Row))
			continue
		}
		errs = append(errs, &ValidationError{
			Entity:    entity,
			Name:      name(cand.Row),
			Reference: cand.ParentPosID,
		})
	}
	return resolved, skippedPos, errs
}

// activeOnly filters a delete set down to rows not already soft-deleted,
// so replaying a snapshot never re-counts old deletions.
func activeOnly[T any](rows []T, isDeleted func(T) bool) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if !isDeleted(r) {
			out = append(out, r)
		}
	}
	return out
}

// deltaChanges builds report counts from a delta and its effective
// (not-already-deleted) delete set.
func deltaChanges[T any](d reconcile.Delta[T], doomed []T) reconcile.Changes {
	return reconcile.Changes{
		Inserted: len(d.Insert),
		Updated:  len(d.Update),
		Deleted:  len(doomed),
	}
}

func ids[T any](rows []T, id func(T) uint) []uint {
	out := make([]uint, 0, len(rows))
	for _, r := range rows {
		out = append(out, id(r))
	}
	return out
}
