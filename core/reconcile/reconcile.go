package reconcile

import "reflect"

// KeyFunc extracts the match key for an entity. The key is usually the
// partner-assigned external id, but entity types may select another field
// (variants match on the partner's variant-item id).
type KeyFunc[T any] func(T) string

// AdoptFunc copies identity from the matched existing row onto a candidate
// before it is routed to the update set: the internal id, timestamps, and
// any fields managed out of band (a menu item's image). Everything a
// snapshot does not control must be adopted, because the unchanged check
// compares the adopted candidate to the stored row field by field. This is
// an explicit contract rather than an in-place mutation hidden inside the
// diff.
type AdoptFunc[T any] func(candidate *T, existing T)

// Delta is the disjoint outcome of a diff.
type Delta[T any] struct {
	// Insert holds candidates with no existing row sharing their key.
	Insert []T
	// Update holds candidates matched to an existing row whose adopted
	// form differs from it. Updates are whole-row replacements, never
	// field merges.
	Update []T
	// Unchanged holds adopted candidates identical to their matched row.
	// They persist nothing, which is what makes an identical snapshot
	// replay count zero changes.
	Unchanged []T
	// Delete holds existing rows whose key is absent from the candidates.
	Delete []T
}

// Empty reports whether the delta contains no write work.
func (d Delta[T]) Empty() bool {
	return len(d.Insert) == 0 && len(d.Update) == 0 && len(d.Delete) == 0
}

// Live returns the rows present after the pass: inserts, updates and
// unchanged rows, in candidate order per set.
func (d Delta[T]) Live() []T {
	out := make([]T, 0, len(d.Insert)+len(d.Update)+len(d.Unchanged))
	out = append(out, d.Insert...)
	out = append(out, d.Update...)
	out = append(out, d.Unchanged...)
	return out
}

// Counts returns the per-set sizes for reporting.
func (d Delta[T]) Counts() Changes {
	return Changes{
		Inserted: len(d.Insert),
		Updated:  len(d.Update),
		Deleted:  len(d.Delete),
	}
}

// Changes holds per-entity-type mutation counts for the sync report.
type Changes struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Deleted  int `json:"deleted"`
}

// Add accumulates counts from another Changes value.
func (c *Changes) Add(other Changes) {
	c.Inserted += other.Inserted
	c.Updated += other.Updated
	c.Deleted += other.Deleted
}

// Diff compares freshly normalized candidates against the current
// non-deleted rows and splits them into insert, update and delete sets.
//
// Matching rules:
//   - an empty key never matches anything; such candidates always insert
//   - duplicate keys among candidates: the last occurrence wins
//   - a matched candidate is adopted (stamped with the row's internal id)
//     and becomes a whole-row update, or lands in Unchanged when adoption
//     leaves it identical to the stored row
//   - existing rows whose key no candidate carries are deleted
//
// Diff is side-effect free: it never touches storage and the inputs are
// not reordered.
func Diff[T any](candidates, existing []T, key KeyFunc[T], adopt AdoptFunc[T]) Delta[T] {
	var delta Delta[T]

	// Dedupe keyed candidates, last occurrence winning. Order of first
	// appearance is kept so downstream sequence numbers stay stable.
	type slot struct {
		index int
	}
	keyed := make([]T, 0, len(candidates))
	seen := make(map[string]slot, len(candidates))
	for _, cand := range candidates {
		k := key(cand)
		if k == "" {
			delta.Insert = append(delta.Insert, cand)
			continue
		}
		if s, ok := seen[k]; ok {
			keyed[s.index] = cand
			continue
		}
		seen[k] = slot{index: len(keyed)}
		keyed = append(keyed, cand)
	}

	existingByKey := make(map[string]T, len(existing))
	for _, row := range existing {
		k := key(row)
		if k == "" {
			continue
		}
		existingByKey[k] = row
	}

	matched := make(map[string]struct{}, len(keyed))
	for _, cand := range keyed {
		k := key(cand)
		row, ok := existingByKey[k]
		if !ok {
			delta.Insert = append(delta.Insert, cand)
			continue
		}
		adopt(&cand, row)
		if reflect.DeepEqual(cand, row) {
			delta.Unchanged = append(delta.Unchanged, cand)
		} else {
			delta.Update = append(delta.Update, cand)
		}
		matched[k] = struct{}{}
	}

	for _, row := range existing {
		k := key(row)
		if k == "" {
			// Unkeyed rows can never be matched by a candidate; they are
			// absent from every snapshot by definition.
			delta.Delete = append(delta.Delete, row)
			continue
		}
		if _, ok := matched[k]; !ok {
			delta.Delete = append(delta.Delete, row)
		}
	}

	return delta
}
