package menusync

import (
	"context"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"menu-sync/core/reconcile"
	"menu-sync/feature/menusync/models"
)

func itemKey(m models.MenuItem) string { return m.PosID }

// adoptItem stamps identity and retains the stored image when the
// snapshot carries none: images are managed out of band and an empty
// incoming value must not clear them.
func adoptItem(c *models.MenuItem, prev models.MenuItem) {
	c.ID = prev.ID
	c.CreatedAt = prev.CreatedAt
	c.UpdatedAt = prev.UpdatedAt
	if c.Image == "" {
		c.Image = prev.Image
	}
}

// processItems reconciles menu items under the already-reconciled
// sub-categories, consuming the upserted tax table for price
// back-calculation.
func (c *Coordinator) processItems(
	ctx context.Context,
	snap *models.Snapshot,
	rest models.Restaurant,
	subs reconciled[models.SubCategory],
	taxes map[string]models.Tax,
	attrs map[string]string,
) (reconciled[models.MenuItem], error) {
	var out reconciled[models.MenuItem]

	candidates := c.norm.ItemCandidates(snap, rest, taxes, attrs)
	idx := index(subs,
		func(s models.SubCategory) string { return s.PosID },
		func(s models.SubCategory) uint { return s.ID })

	resolved, skipped, errs := resolveParents("menu-item", candidates, idx,
		func(m models.MenuItem) string { return m.PosID },
		func(m models.MenuItem) string { return m.Name },
		func(m *models.MenuItem, parentID uint) { m.SubCategoryID = parentID })
	if len(errs) > 0 {
		return out, multierr.Combine(errs...)
	}

	parentScope := make([]uint, 0, len(subs.rows)+len(subs.deleted))
	parentScope = append(parentScope, ids(subs.rows, func(s models.SubCategory) uint { return s.ID })...)
	parentScope = append(parentScope, ids(subs.deleted, func(s models.SubCategory) uint { return s.ID })...)
	existing, err := c.repo.LockMenuItems(ctx, parentScope)
	if err != nil {
		return out, err
	}

	delta := reconcile.Diff(resolved, existing, itemKey, adoptItem)
	doomed := activeOnly(delta.Delete, func(m models.MenuItem) bool { return m.IsDeleted })
	if err := applyDelta(ctx, c.repo.tx, "menu item", &delta, ids(doomed, func(m models.MenuItem) uint { return m.ID })); err != nil {
		return out, err
	}

	out.rows = delta.Live()
	out.deleted = delta.Delete
	out.skippedPos = skipped
	out.changes = deltaChanges(delta, doomed)
	itemID := func(m models.MenuItem) uint { return m.ID }
	out.touched = append(out.touched, ids(delta.Insert, itemID)...)
	out.touched = append(out.touched, ids(delta.Update, itemID)...)
	out.touched = append(out.touched, ids(doomed, itemID)...)
	c.log.Debug("menu items reconciled",
		zap.Int("inserted", out.changes.Inserted),
		zap.Int("updated", out.changes.Updated),
		zap.Int("deleted", out.changes.Deleted),
		zap.Int("skipped", len(skipped)))
	return out, nil
}
