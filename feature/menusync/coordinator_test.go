package menusync_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"menu-sync/core/database"
	"menu-sync/core/reconcile"
	"menu-sync/feature/menusync"
	"menu-sync/feature/menusync/models"
)

func setupSyncDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	require.NoError(t, db.Create(&models.Restaurant{PosID: "R1", Partner: "petpooja", Name: "Test Kitchen"}).Error)
	return db
}

func newSyncService(db *gorm.DB) *menusync.Service {
	return menusync.NewService(db, zap.NewNop(), nil, menusync.NopRefresher{}, "petpooja")
}

// fullSnapshot covers every entity type: a parent category, a category
// under it plus one under the "no parent" sentinel, backward taxes, an
// item with variations, addon references and taxes, and an addon group.
func fullSnapshot() *models.Snapshot {
	return &models.Snapshot{
		Restaurants: []models.SnapshotRestaurant{{
			RestaurantID: "R1",
			Name:         "Test Kitchen",
			City:         "Pune",
		}},
		ParentCategories: []models.SnapshotParentCategory{
			{ID: "P1", Name: "Food", Rank: "1"},
		},
		Categories: []models.SnapshotCategory{
			{CategoryID: "C1", Name: "Starters", ParentCategoryID: "P1", Active: "1"},
			{CategoryID: "C2", Name: "Loose Items", ParentCategoryID: "0", Active: "1"},
		},
		Items: []models.SnapshotItem{
			{
				ItemID:      "I1",
				Name:        "Paneer Roll",
				CategoryID:  "C1",
				Price:       "100",
				ItemTax:     "T1,T2",
				AttributeID: "1",
				InStock:     "1",
				Variations: []models.SnapshotVariation{
					{ID: "V1", VariationID: "10", Name: "Small", GroupName: "Size", Price: "55", InStock: "1"},
					{ID: "V2", VariationID: "11", Name: "Large", GroupName: "Size", Price: "50", InStock: "1"},
				},
				AddonGroupRefs: []models.SnapshotItemAddon{
					{AddonGroupID: "AG1", MinSelection: "0", MaxSelection: "2"},
				},
			},
			{
				ItemID:     "I2",
				Name:       "Water Bottle",
				CategoryID: "C2",
				Price:      "20",
				InStock:    "1",
			},
		},
		AddonGroups: []models.SnapshotAddonGroup{
			{
				AddonGroupID: "AG1",
				Name:         "Extras",
				Items: []models.SnapshotAddonItem{
					{AddonItemID: "A1", Name: "Extra Cheese", Price: "30", Active: "1"},
					{AddonItemID: "A2", Name: "Extra Sauce", Price: "10", Active: "1"},
				},
			},
		},
		Attributes: []models.SnapshotAttribute{
			{AttributeID: "1", Name: "Veg", Active: "1"},
		},
		Taxes: []models.SnapshotTax{
			{TaxID: "T1", Name: "CGST", Rate: "2.5", TaxType: "2", Active: "1"},
			{TaxID: "T2", Name: "SGST", Rate: "2.5", TaxType: "2", Active: "1"},
		},
	}
}

func rawSnapshot(t *testing.T, snap *models.Snapshot) []byte {
	t.Helper()
	raw, err := json.Marshal(snap)
	require.NoError(t, err)
	return raw
}

func TestSync_FullPass(t *testing.T) {
	db := setupSyncDB(t)
	svc := newSyncService(db)

	report, err := svc.Sync(context.Background(), "sync-1", rawSnapshot(t, fullSnapshot()))
	require.NoError(t, err)

	// P1 plus the injected NOTA bucket for the "0" reference.
	assert.Equal(t, reconcile.Changes{Inserted: 2}, report.MainCategories)
	assert.Equal(t, reconcile.Changes{Inserted: 2}, report.SubCategories)
	assert.Equal(t, reconcile.Changes{Inserted: 2}, report.MenuItems)
	assert.Equal(t, reconcile.Changes{Inserted: 1}, report.VariantGroups)
	assert.Equal(t, reconcile.Changes{Inserted: 2}, report.Variants)
	assert.Equal(t, reconcile.Changes{Inserted: 1}, report.AddonGroups)
	assert.Equal(t, reconcile.Changes{Inserted: 2}, report.Addons)
	assert.Equal(t, reconcile.Changes{Inserted: 1}, report.ItemAddonGroups)
	assert.Equal(t, reconcile.Changes{Inserted: 2}, report.ItemAddons)
	assert.Equal(t, reconcile.Changes{Inserted: 2}, report.ItemTaxes)
	assert.Len(t, report.Taxes, 2)

	// Backward taxes: 100 inclusive of 5% stores as 95.24 pre-tax.
	var item models.MenuItem
	require.NoError(t, db.Where("pos_id = ?", "I1").First(&item).Error)
	assert.Equal(t, 95.24, item.Price)
	assert.True(t, item.TaxInclusive)
	assert.Equal(t, models.FoodTypeVeg, item.FoodType)

	// Default variant is the cheapest one.
	var variants []models.Variant
	require.NoError(t, db.Order("pos_variant_item_id").Find(&variants).Error)
	require.Len(t, variants, 2)
	assert.False(t, variants[0].IsDefault) // V1, 55
	assert.True(t, variants[1].IsDefault)  // V2, 50
}

func TestSync_IdenticalReplayIsNoOp(t *testing.T) {
	db := setupSyncDB(t)
	svc := newSyncService(db)
	raw := rawSnapshot(t, fullSnapshot())

	_, err := svc.Sync(context.Background(), "sync-1", raw)
	require.NoError(t, err)

	report, err := svc.Sync(context.Background(), "sync-2", raw)
	require.NoError(t, err)

	assert.Equal(t, reconcile.Changes{}, report.MainCategories)
	assert.Equal(t, reconcile.Changes{}, report.SubCategories)
	assert.Equal(t, reconcile.Changes{}, report.MenuItems)
	assert.Equal(t, reconcile.Changes{}, report.VariantGroups)
	assert.Equal(t, reconcile.Changes{}, report.Variants)
	assert.Equal(t, reconcile.Changes{}, report.AddonGroups)
	assert.Equal(t, reconcile.Changes{}, report.Addons)
	// Link tables carry no identity and are rebuilt every pass.
	assert.Equal(t, reconcile.Changes{Inserted: 1, Deleted: 1}, report.ItemAddonGroups)
}

func TestSync_CategoryRemovalCascades(t *testing.T) {
	db := setupSyncDB(t)
	svc := newSyncService(db)

	_, err := svc.Sync(context.Background(), "sync-1", rawSnapshot(t, fullSnapshot()))
	require.NoError(t, err)

	// Second snapshot drops category C1 but still lists its item: the
	// item's parent lands in the delete set, so it is skipped silently
	// and soft-deleted along with its variant structure.
	snap := fullSnapshot()
	snap.Categories = snap.Categories[1:]
	report, err := svc.Sync(context.Background(), "sync-2", rawSnapshot(t, snap))
	require.NoError(t, err)

	assert.Equal(t, 1, report.SubCategories.Deleted)
	assert.Equal(t, 1, report.MenuItems.Deleted)
	assert.Equal(t, 1, report.VariantGroups.Deleted)
	assert.Equal(t, 2, report.Variants.Deleted)

	var item models.MenuItem
	require.NoError(t, db.Where("pos_id = ?", "I1").First(&item).Error)
	assert.True(t, item.IsDeleted)

	// Soft-deleted rows keep their internal ids.
	var sub models.SubCategory
	require.NoError(t, db.Where("pos_id = ?", "C1").First(&sub).Error)
	assert.True(t, sub.IsDeleted)
}

func TestSync_UnknownParentRejectsAtomically(t *testing.T) {
	db := setupSyncDB(t)
	svc := newSyncService(db)

	snap := fullSnapshot()
	snap.Items[1].CategoryID = "CX" // nowhere in the snapshot
	_, err := svc.Sync(context.Background(), "sync-1", rawSnapshot(t, snap))
	require.Error(t, err)
	assert.True(t, menusync.IsValidation(err))

	// Categories were written before the item pass failed; the rollback
	// must take them with it.
	var count int64
	require.NoError(t, db.Model(&models.MainCategory{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSync_ResurrectionKeepsInternalID(t *testing.T) {
	db := setupSyncDB(t)
	svc := newSyncService(db)
	raw := rawSnapshot(t, fullSnapshot())

	_, err := svc.Sync(context.Background(), "sync-1", raw)
	require.NoError(t, err)

	var before models.MenuItem
	require.NoError(t, db.Where("pos_id = ?", "I2").First(&before).Error)

	// Drop I2, then bring it back.
	snap := fullSnapshot()
	snap.Items = snap.Items[:1]
	report, err := svc.Sync(context.Background(), "sync-2", rawSnapshot(t, snap))
	require.NoError(t, err)
	assert.Equal(t, 1, report.MenuItems.Deleted)

	report, err = svc.Sync(context.Background(), "sync-3", raw)
	require.NoError(t, err)
	assert.Equal(t, 0, report.MenuItems.Inserted)
	assert.Equal(t, 1, report.MenuItems.Updated)

	var after models.MenuItem
	require.NoError(t, db.Where("pos_id = ?", "I2").First(&after).Error)
	assert.Equal(t, before.ID, after.ID)
	assert.False(t, after.IsDeleted)

	var count int64
	require.NoError(t, db.Model(&models.MenuItem{}).Where("pos_id = ?", "I2").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSync_DefaultVariantFollowsPriceChange(t *testing.T) {
	db := setupSyncDB(t)
	svc := newSyncService(db)

	_, err := svc.Sync(context.Background(), "sync-1", rawSnapshot(t, fullSnapshot()))
	require.NoError(t, err)

	// Make V1 the cheapest; the default flag must migrate.
	snap := fullSnapshot()
	snap.Items[0].Variations[0].Price = "40"
	_, err = svc.Sync(context.Background(), "sync-2", rawSnapshot(t, snap))
	require.NoError(t, err)

	var variants []models.Variant
	require.NoError(t, db.Order("pos_variant_item_id").Find(&variants).Error)
	require.Len(t, variants, 2)
	assert.True(t, variants[0].IsDefault)
	assert.False(t, variants[1].IsDefault)
}

func TestSync_EmptySnapshotSoftDeletesEverything(t *testing.T) {
	db := setupSyncDB(t)
	svc := newSyncService(db)

	_, err := svc.Sync(context.Background(), "sync-1", rawSnapshot(t, fullSnapshot()))
	require.NoError(t, err)

	snap := fullSnapshot()
	snap.ParentCategories = nil
	snap.Categories = nil
	snap.Items = nil
	snap.AddonGroups = nil
	snap.Taxes = nil
	report, err := svc.Sync(context.Background(), "sync-2", rawSnapshot(t, snap))
	require.NoError(t, err)

	assert.Equal(t, 2, report.MainCategories.Deleted)
	assert.Equal(t, 2, report.SubCategories.Deleted)
	assert.Equal(t, 2, report.MenuItems.Deleted)
	assert.Equal(t, 1, report.AddonGroups.Deleted)
	assert.Equal(t, 2, report.Addons.Deleted)

	// Rows survive as soft-deleted, not as gaps.
	var count int64
	require.NoError(t, db.Model(&models.MenuItem{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestSync_OutOfStockStatesAreStored(t *testing.T) {
	db := setupSyncDB(t)
	svc := newSyncService(db)

	snap := fullSnapshot()
	snap.Items[1].InStock = "0"
	snap.Taxes[0].Active = "0"
	raw := rawSnapshot(t, snap)

	_, err := svc.Sync(context.Background(), "sync-1", raw)
	require.NoError(t, err)

	var item models.MenuItem
	require.NoError(t, db.Where("pos_id = ?", "I2").First(&item).Error)
	assert.False(t, item.InStock)

	var tax models.Tax
	require.NoError(t, db.Where("pos_id = ?", "T1").First(&tax).Error)
	assert.False(t, tax.Active)

	// The stored rows now match the candidates exactly, so replaying the
	// same document is a no-op.
	report, err := svc.Sync(context.Background(), "sync-2", raw)
	require.NoError(t, err)
	assert.Equal(t, reconcile.Changes{}, report.MenuItems)

	require.NoError(t, db.Where("pos_id = ?", "I2").First(&item).Error)
	assert.False(t, item.InStock)
}

func TestSync_UnknownCategoryParentRejects(t *testing.T) {
	db := setupSyncDB(t)
	svc := newSyncService(db)

	snap := fullSnapshot()
	snap.Categories[0].ParentCategoryID = "PX" // nowhere in the snapshot
	_, err := svc.Sync(context.Background(), "sync-1", rawSnapshot(t, snap))
	require.Error(t, err)
	assert.True(t, menusync.IsValidation(err))
	assert.Contains(t, err.Error(), "Starters", "the error must name the offending category")

	var count int64
	require.NoError(t, db.Model(&models.SubCategory{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSync_DroppedAddonGroupPrunesAssociations(t *testing.T) {
	db := setupSyncDB(t)
	svc := newSyncService(db)

	_, err := svc.Sync(context.Background(), "sync-1", rawSnapshot(t, fullSnapshot()))
	require.NoError(t, err)

	// The item still references AG1, but the group is gone from the
	// document: the group soft-deletes and its link rows are pruned.
	snap := fullSnapshot()
	snap.AddonGroups = nil
	report, err := svc.Sync(context.Background(), "sync-2", rawSnapshot(t, snap))
	require.NoError(t, err)

	assert.Equal(t, reconcile.Changes{Deleted: 1}, report.AddonGroups)
	assert.Equal(t, reconcile.Changes{Deleted: 2}, report.Addons)
	assert.Equal(t, reconcile.Changes{Deleted: 1}, report.ItemAddonGroups)
	assert.Equal(t, reconcile.Changes{Deleted: 2}, report.ItemAddons)

	var links int64
	require.NoError(t, db.Model(&models.ItemAddonGroup{}).Count(&links).Error)
	assert.Zero(t, links)
	require.NoError(t, db.Model(&models.ItemAddon{}).Count(&links).Error)
	assert.Zero(t, links)
}

func TestSync_UnknownRestaurant(t *testing.T) {
	db := setupSyncDB(t)
	svc := newSyncService(db)

	snap := fullSnapshot()
	snap.Restaurants[0].RestaurantID = "R9"
	_, err := svc.Sync(context.Background(), "sync-1", rawSnapshot(t, snap))
	require.Error(t, err)
	assert.True(t, menusync.IsNotFound(err))
}

func TestSync_MalformedDocument(t *testing.T) {
	db := setupSyncDB(t)
	svc := newSyncService(db)

	_, err := svc.Sync(context.Background(), "sync-1", []byte("{not json"))
	assert.ErrorIs(t, err, menusync.ErrMalformedSnapshot)

	// A parseable document without a restaurant id is equally unusable.
	_, err = svc.Sync(context.Background(), "sync-2", []byte(`{"items":[]}`))
	assert.ErrorIs(t, err, menusync.ErrMalformedSnapshot)
}
