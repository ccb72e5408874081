package menusync

import (
	"context"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"menu-sync/core/reconcile"
	"menu-sync/feature/menusync/models"
)

func addonGroupKey(g models.AddonGroup) string { return g.PosID }

func adoptAddonGroup(c *models.AddonGroup, prev models.AddonGroup) {
	c.ID = prev.ID
	c.CreatedAt = prev.CreatedAt
	c.UpdatedAt = prev.UpdatedAt
}

func addonKey(a models.Addon) string { return a.PosID }

func adoptAddon(c *models.Addon, prev models.Addon) {
	c.ID = prev.ID
	c.CreatedAt = prev.CreatedAt
	c.UpdatedAt = prev.UpdatedAt
}

// processAddonGroups reconciles the restaurant's addon groups. They are
// restaurant-scoped, so no parent resolution is involved.
func (c *Coordinator) processAddonGroups(
	ctx context.Context,
	snap *models.Snapshot,
	restaurantID uint,
) (reconciled[models.AddonGroup], error) {
	var out reconciled[models.AddonGroup]

	candidates := c.norm.AddonGroupCandidates(snap, restaurantID)
	existing, err := c.repo.LockAddonGroups(ctx, restaurantID)
	if err != nil {
		return out, err
	}

	delta := reconcile.Diff(candidates, existing, addonGroupKey, adoptAddonGroup)
	doomed := activeOnly(delta.Delete, func(g models.AddonGroup) bool { return g.IsDeleted })
	if err := applyDelta(ctx, c.repo.tx, "addon group", &delta, ids(doomed, func(g models.AddonGroup) uint { return g.ID })); err != nil {
		return out, err
	}

	out.rows = delta.Live()
	out.deleted = delta.Delete
	out.changes = deltaChanges(delta, doomed)
	c.log.Debug("addon groups reconciled",
		zap.Int("inserted", out.changes.Inserted),
		zap.Int("updated", out.changes.Updated),
		zap.Int("deleted", out.changes.Deleted))
	return out, nil
}

// processAddons reconciles addons under the already-reconciled addon
// groups.
func (c *Coordinator) processAddons(
	ctx context.Context,
	snap *models.Snapshot,
	attrs map[string]string,
	groups reconciled[models.AddonGroup],
) (reconciled[models.Addon], error) {
	var out reconciled[models.Addon]

	candidates := c.norm.AddonCandidates(snap, attrs)
	idx := index(groups,
		func(g models.AddonGroup) string { return g.PosID },
		func(g models.AddonGroup) uint { return g.ID })

	resolved, skipped, errs := resolveParents("addon", candidates, idx,
		func(a models.Addon) string { return a.PosID },
		func(a models.Addon) string { return a.Name },
		func(a *models.Addon, parentID uint) { a.AddonGroupID = parentID })
	if len(errs) > 0 {
		return out, multierr.Combine(errs...)
	}

	parentScope := make([]uint, 0, len(groups.rows)+len(groups.deleted))
	parentScope = append(parentScope, ids(groups.rows, func(g models.AddonGroup) uint { return g.ID })...)
	parentScope = append(parentScope, ids(groups.deleted, func(g models.AddonGroup) uint { return g.ID })...)
	existing, err := c.repo.LockAddons(ctx, parentScope)
	if err != nil {
		return out, err
	}

	delta := reconcile.Diff(resolved, existing, addonKey, adoptAddon)
	doomed := activeOnly(delta.Delete, func(a models.Addon) bool { return a.IsDeleted })
	if err := applyDelta(ctx, c.repo.tx, "addon", &delta, ids(doomed, func(a models.Addon) uint { return a.ID })); err != nil {
		return out, err
	}

	out.rows = delta.Live()
	out.deleted = delta.Delete
	out.skippedPos = skipped
	out.changes = deltaChanges(delta, doomed)
	c.log.Debug("addons reconciled",
		zap.Int("inserted", out.changes.Inserted),
		zap.Int("updated", out.changes.Updated),
		zap.Int("deleted", out.changes.Deleted),
		zap.Int("skipped", len(skipped)))
	return out, nil
}
