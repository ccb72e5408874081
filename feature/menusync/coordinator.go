package menusync

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"menu-sync/feature/menusync/models"
)

// State tracks how far a sync pass progressed. Purely diagnostic: it is
// logged on failure so an aborted pass names the stage that broke.
type State string

const (
	StateStarted            State = "STARTED"
	StateRestaurantUpdated  State = "RESTAURANT_UPDATED"
	StateCategoriesDone     State = "CATEGORIES_RECONCILED"
	StateAddonStructureDone State = "ADDON_STRUCTURE_RECONCILED"
	StateTaxesUpserted      State = "TAXES_UPSERTED"
	StateItemsDone          State = "ITEMS_RECONCILED"
	StateVariantsDone       State = "VARIANTS_RECONCILED"
	StateAssociationsDone   State = "ASSOCIATIONS_REBUILT"
	StateCommitted          State = "COMMITTED"
	StateRolledBack         State = "ROLLED_BACK"
)

// Coordinator drives one sync pass inside a single database transaction.
// Entity processors run in dependency order, each consuming the
// reconciled outcome of its parent, and any error rolls the whole pass
// back. A zero-valued snapshot therefore soft-deletes the entire menu,
// but never partially.
type Coordinator struct {
	repo  *Repository
	norm  *Normalizer
	log   *zap.Logger
	state State
}

func newCoordinator(tx *gorm.DB, norm *Normalizer, log *zap.Logger) *Coordinator {
	return &Coordinator{
		repo:  NewRepository(tx),
		norm:  norm,
		log:   log,
		state: StateStarted,
	}
}

// Run executes a full sync pass for one restaurant: settings, category
// tree, addon structure, taxes, items, variants, then the link tables.
// It returns the per-entity report and the internal ids of every menu
// item touched this pass (inserted, updated or soft-deleted), which the
// caller feeds to the search refresher after commit.
func Run(
	ctx context.Context,
	db *gorm.DB,
	norm *Normalizer,
	log *zap.Logger,
	rest *models.Restaurant,
	snap *models.Snapshot,
) (*models.Report, []uint, error) {
	var (
		report   *models.Report
		affected []uint
	)
	c := newCoordinator(nil, norm, log)
	err := db.Transaction(func(tx *gorm.DB) error {
		c.repo = NewRepository(tx)
		var err error
		report, affected, err = c.run(ctx, rest, snap)
		return err
	})
	if err != nil {
		c.state = StateRolledBack
		log.Error("sync pass rolled back",
			zap.String("state", string(c.state)),
			zap.Error(err))
		return nil, nil, err
	}
	c.state = StateCommitted
	return report, affected, nil
}

func (c *Coordinator) run(ctx context.Context, rest *models.Restaurant, snap *models.Snapshot) (*models.Report, []uint, error) {
	report := &models.Report{}

	c.norm.ApplyRestaurantSettings(rest, snap)
	if err := c.repo.SaveRestaurant(ctx, rest); err != nil {
		return nil, nil, c.fail(err)
	}
	c.state = StateRestaurantUpdated
	report.Restaurant = rest

	mains, err := c.processMainCategories(ctx, snap, rest.ID)
	if err != nil {
		return nil, nil, c.fail(err)
	}
	report.MainCategories = mains.changes

	subs, err := c.processSubCategories(ctx, snap, rest.ID, mains)
	if err != nil {
		return nil, nil, c.fail(err)
	}
	report.SubCategories = subs.changes
	c.state = StateCategoriesDone

	addonGroups, err := c.processAddonGroups(ctx, snap, rest.ID)
	if err != nil {
		return nil, nil, c.fail(err)
	}
	report.AddonGroups = addonGroups.changes

	attrs := c.norm.AttributeTable(snap)
	addons, err := c.processAddons(ctx, snap, attrs, addonGroups)
	if err != nil {
		return nil, nil, c.fail(err)
	}
	report.Addons = addons.changes
	c.state = StateAddonStructureDone

	existingTaxes, err := c.repo.LockTaxes(ctx, rest.ID)
	if err != nil {
		return nil, nil, c.fail(err)
	}
	taxTable, taxRows, err := c.repo.UpsertTaxes(ctx, c.norm.TaxCandidates(snap, rest.ID), existingTaxes)
	if err != nil {
		return nil, nil, c.fail(err)
	}
	report.Taxes = taxRows
	c.state = StateTaxesUpserted

	items, err := c.processItems(ctx, snap, *rest, subs, taxTable, attrs)
	if err != nil {
		return nil, nil, c.fail(err)
	}
	report.MenuItems = items.changes
	c.state = StateItemsDone

	variantGroups, err := c.processVariantGroups(ctx, snap, items)
	if err != nil {
		return nil, nil, c.fail(err)
	}
	report.VariantGroups = variantGroups.changes

	variants, err := c.processVariants(ctx, snap, variantGroups)
	if err != nil {
		return nil, nil, c.fail(err)
	}
	report.Variants = variants.changes
	c.state = StateVariantsDone

	report.ItemAddonGroups, report.ItemAddons, report.ItemTaxes, err =
		c.processAssociations(ctx, snap, items, addonGroups, addons, taxTable)
	if err != nil {
		return nil, nil, c.fail(err)
	}
	c.state = StateAssociationsDone

	return report, items.touched, nil
}

func (c *Coordinator) fail(err error) error {
	c.log.Warn("sync stage failed",
		zap.String("state", string(c.state)),
		zap.Error(err))
	return err
}
