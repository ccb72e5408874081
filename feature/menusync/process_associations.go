package menusync

import (
	"context"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"menu-sync/core/reconcile"
	"menu-sync/core/utils"
	"menu-sync/feature/menusync/models"
)

// processAssociations rebuilds the item to addon-group, item to addon and
// item to tax link tables. Links carry no identity of their own, so every
// pass wipes them for all touched items (surviving and deleted alike) and
// reinserts the set the snapshot implies for the survivors.
func (c *Coordinator) processAssociations(
	ctx context.Context,
	snap *models.Snapshot,
	items reconciled[models.MenuItem],
	addonGroups reconciled[models.AddonGroup],
	addons reconciled[models.Addon],
	taxes map[string]models.Tax,
) (itemGroups, itemAddons, itemTaxes reconcile.Changes, err error) {
	liveItems := make(map[string]uint, len(items.rows))
	for _, it := range items.rows {
		liveItems[it.PosID] = it.ID
	}
	groupIdx := index(addonGroups,
		func(g models.AddonGroup) string { return g.PosID },
		func(g models.AddonGroup) uint { return g.ID })
	addonsByGroup := make(map[uint][]uint)
	for _, a := range addons.rows {
		if !a.IsDeleted {
			addonsByGroup[a.AddonGroupID] = append(addonsByGroup[a.AddonGroupID], a.ID)
		}
	}

	var (
		groupRows []models.ItemAddonGroup
		addonRows []models.ItemAddon
		taxRows   []models.ItemTax
		errs      []error
	)
	for _, it := range snap.Items {
		itemID, ok := liveItems[it.ItemID]
		if !ok {
			continue
		}
		for _, ref := range it.AddonGroupRefs {
			groupID, active := groupIdx.active[ref.AddonGroupID]
			if !active {
				if _, gone := groupIdx.gone[ref.AddonGroupID]; gone {
					continue
				}
				errs = append(errs, &ValidationError{
					Entity:    "item-addon-group",
					Name:      it.Name,
					Reference: ref.AddonGroupID,
				})
				continue
			}
			groupRows = append(groupRows, models.ItemAddonGroup{
				MenuItemID:   itemID,
				AddonGroupID: groupID,
				MinSelection: utils.ToInt(ref.MinSelection),
				MaxSelection: utils.ToInt(ref.MaxSelection),
			})
			for _, addonID := range addonsByGroup[groupID] {
				addonRows = append(addonRows, models.ItemAddon{
					MenuItemID: itemID,
					AddonID:    addonID,
				})
			}
		}
		// Tax ids unknown to the snapshot's tax table are skipped: the
		// partner routinely references retired taxes on old items.
		for _, taxPos := range utils.SplitCSV(it.ItemTax) {
			tax, ok := taxes[taxPos]
			if !ok {
				continue
			}
			taxRows = append(taxRows, models.ItemTax{
				MenuItemID: itemID,
				TaxID:      tax.ID,
			})
		}
	}
	if len(errs) > 0 {
		return itemGroups, itemAddons, itemTaxes, multierr.Combine(errs...)
	}

	scope := make([]uint, 0, len(items.rows)+len(items.deleted))
	scope = append(scope, ids(items.rows, func(m models.MenuItem) uint { return m.ID })...)
	scope = append(scope, ids(items.deleted, func(m models.MenuItem) uint { return m.ID })...)

	removed, err := c.repo.RebuildItemAddonGroups(ctx, scope, groupRows)
	if err != nil {
		return itemGroups, itemAddons, itemTaxes, err
	}
	itemGroups = reconcile.Changes{Inserted: len(groupRows), Deleted: int(removed)}

	removed, err = c.repo.RebuildItemAddons(ctx, scope, addonRows)
	if err != nil {
		return itemGroups, itemAddons, itemTaxes, err
	}
	itemAddons = reconcile.Changes{Inserted: len(addonRows), Deleted: int(removed)}

	removed, err = c.repo.RebuildItemTaxes(ctx, scope, taxRows)
	if err != nil {
		return itemGroups, itemAddons, itemTaxes, err
	}
	itemTaxes = reconcile.Changes{Inserted: len(taxRows), Deleted: int(removed)}

	c.log.Debug("associations rebuilt",
		zap.Int("item_addon_groups", len(groupRows)),
		zap.Int("item_addons", len(addonRows)),
		zap.Int("item_taxes", len(taxRows)))
	return itemGroups, itemAddons, itemTaxes, nil
}
