package menusync

import (
	"context"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"menu-sync/core/reconcile"
	"menu-sync/feature/menusync/models"
)

func variantGroupKey(g models.VariantGroup) string { return g.PosID }

func adoptVariantGroup(c *models.VariantGroup, prev models.VariantGroup) {
	c.ID = prev.ID
	c.CreatedAt = prev.CreatedAt
	c.UpdatedAt = prev.UpdatedAt
}

// variantKey reconciles on the partner's variant-item id, not the
// variation id: the variation id names a reusable (size, price) template
// shared across items, while the variant-item id names this instance.
func variantKey(v models.Variant) string { return v.PosVariantItemID }

func adoptVariant(c *models.Variant, prev models.Variant) {
	c.ID = prev.ID
	c.CreatedAt = prev.CreatedAt
	c.UpdatedAt = prev.UpdatedAt
	c.IsDefault = prev.IsDefault
}

// processVariantGroups reconciles variant groups under the already-
// reconciled menu items.
func (c *Coordinator) processVariantGroups(
	ctx context.Context,
	snap *models.Snapshot,
	items reconciled[models.MenuItem],
) (reconciled[models.VariantGroup], error) {
	var out reconciled[models.VariantGroup]

	candidates := c.norm.VariantGroupCandidates(snap)
	idx := index(items,
		func(m models.MenuItem) string { return m.PosID },
		func(m models.MenuItem) uint { return m.ID })

	resolved, skipped, errs := resolveParents("variant-group", candidates, idx,
		func(g models.VariantGroup) string { return g.PosID },
		func(g models.VariantGroup) string { return g.Name },
		func(g *models.VariantGroup, parentID uint) { g.MenuItemID = parentID })
	if len(errs) > 0 {
		return out, multierr.Combine(errs...)
	}

	parentScope := make([]uint, 0, len(items.rows)+len(items.deleted))
	parentScope = append(parentScope, ids(items.rows, func(m models.MenuItem) uint { return m.ID })...)
	parentScope = append(parentScope, ids(items.deleted, func(m models.MenuItem) uint { return m.ID })...)
	existing, err := c.repo.LockVariantGroups(ctx, parentScope)
	if err != nil {
		return out, err
	}

	delta := reconcile.Diff(resolved, existing, variantGroupKey, adoptVariantGroup)
	doomed := activeOnly(delta.Delete, func(g models.VariantGroup) bool { return g.IsDeleted })
	if err := applyDelta(ctx, c.repo.tx, "variant group", &delta, ids(doomed, func(g models.VariantGroup) uint { return g.ID })); err != nil {
		return out, err
	}

	out.rows = delta.Live()
	out.deleted = delta.Delete
	out.skippedPos = skipped
	out.changes = deltaChanges(delta, doomed)
	c.log.Debug("variant groups reconciled",
		zap.Int("inserted", out.changes.Inserted),
		zap.Int("updated", out.changes.Updated),
		zap.Int("deleted", out.changes.Deleted),
		zap.Int("skipped", len(skipped)))
	return out, nil
}

// processVariants reconciles variants under the variant groups and then
// flags one default per group: the cheapest surviving variant, ties
// broken by snapshot order.
func (c *Coordinator) processVariants(
	ctx context.Context,
	snap *models.Snapshot,
	groups reconciled[models.VariantGroup],
) (reconciled[models.Variant], error) {
	var out reconciled[models.Variant]

	candidates := c.norm.VariantCandidates(snap)
	idx := index(groups,
		func(g models.VariantGroup) string { return g.PosID },
		func(g models.VariantGroup) uint { return g.ID })

	resolved, skipped, errs := resolveParents("variant", candidates, idx,
		func(v models.Variant) string { return v.PosVariantItemID },
		func(v models.Variant) string { return v.Name },
		func(v *models.Variant, parentID uint) { v.VariantGroupID = parentID })
	if len(errs) > 0 {
		return out, multierr.Combine(errs...)
	}

	parentScope := make([]uint, 0, len(groups.rows)+len(groups.deleted))
	parentScope = append(parentScope, ids(groups.rows, func(g models.VariantGroup) uint { return g.ID })...)
	parentScope = append(parentScope, ids(groups.deleted, func(g models.VariantGroup) uint { return g.ID })...)
	existing, err := c.repo.LockVariants(ctx, parentScope)
	if err != nil {
		return out, err
	}

	delta := reconcile.Diff(resolved, existing, variantKey, adoptVariant)
	flagDefaultVariants(&delta)
	doomed := activeOnly(delta.Delete, func(v models.Variant) bool { return v.IsDeleted })
	if err := applyDelta(ctx, c.repo.tx, "variant", &delta, ids(doomed, func(v models.Variant) uint { return v.ID })); err != nil {
		return out, err
	}

	out.rows = delta.Live()
	out.deleted = delta.Delete
	out.skippedPos = skipped
	out.changes = deltaChanges(delta, doomed)
	c.log.Debug("variants reconciled",
		zap.Int("inserted", out.changes.Inserted),
		zap.Int("updated", out.changes.Updated),
		zap.Int("deleted", out.changes.Deleted),
		zap.Int("skipped", len(skipped)))
	return out, nil
}

// flagDefaultVariants picks one default variant per group among the
// surviving rows and rewrites the IsDefault flags in place. An unchanged
// row whose flag flips is promoted into the update set so the flip is
// persisted.
func flagDefaultVariants(delta *reconcile.Delta[models.Variant]) {
	// The winner is tracked by position rather than external id, so
	// variants the partner sends without a variant-item id still yield
	// exactly one default per group.
	type ref struct{ set, idx int }
	sets := [][]models.Variant{delta.Insert, delta.Update, delta.Unchanged}

	winners := make(map[uint]ref)
	for s, rows := range sets {
		for i, v := range rows {
			at, ok := winners[v.VariantGroupID]
			if !ok {
				winners[v.VariantGroupID] = ref{s, i}
				continue
			}
			best := sets[at.set][at.idx]
			if v.Price < best.Price ||
				(v.Price == best.Price && v.Sequence < best.Sequence) {
				winners[v.VariantGroupID] = ref{s, i}
			}
		}
	}

	isWinner := func(s, i int, v models.Variant) bool {
		return winners[v.VariantGroupID] == ref{set: s, idx: i}
	}
	for i := range delta.Insert {
		delta.Insert[i].IsDefault = isWinner(0, i, delta.Insert[i])
	}
	for i := range delta.Update {
		delta.Update[i].IsDefault = isWinner(1, i, delta.Update[i])
	}

	// Unchanged rows are not persisted, so a flag flip there moves the
	// row into the update set.
	kept := delta.Unchanged[:0]
	for i, v := range delta.Unchanged {
		if isWinner(2, i, v) == v.IsDefault {
			kept = append(kept, v)
			continue
		}
		v.IsDefault = !v.IsDefault
		delta.Update = append(delta.Update, v)
	}
	delta.Unchanged = kept
}
