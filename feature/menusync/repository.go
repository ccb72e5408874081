package menusync

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"menu-sync/core/reconcile"
	"menu-sync/feature/menusync/models"
)

// Repository owns all storage statements of one sync pass. It is bound to
// an explicit transaction-scoped handle passed in by the coordinator —
// never a global connection — so every read and write of a pass shares the
// same transaction.
type Repository struct {
	tx *gorm.DB
}

// NewRepository binds a repository to a database handle. Pass the
// transaction handle during a sync; the base handle is only appropriate
// for pre-transaction lookups.
func NewRepository(tx *gorm.DB) *Repository {
	return &Repository{tx: tx}
}

// FindRestaurantByPosID resolves a restaurant from its partner identifier.
// Used before the sync transaction is opened.
func (r *Repository) FindRestaurantByPosID(ctx context.Context, posID, partner string) (*models.Restaurant, error) {
	var rest models.Restaurant
	err := r.tx.WithContext(ctx).
		Where("pos_id = ? AND partner = ?", posID, partner).
		First(&rest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: "restaurant", ID: posID}
	}
	if err != nil {
		return nil, persistErr("restaurant lookup", err)
	}
	return &rest, nil
}

// SaveRestaurant persists updated restaurant settings.
func (r *Repository) SaveRestaurant(ctx context.Context, rest *models.Restaurant) error {
	return persistErr("restaurant update", r.tx.WithContext(ctx).Save(rest).Error)
}

// Locking reads. Every read is SELECT ... FOR UPDATE scoped to the
// restaurant's relevant parent ids, so a second concurrent sync for the
// same restaurant blocks here until the first commits or rolls back.
// Soft-deleted rows are read too: a reappearing external id resurrects
// its original row instead of minting a new internal id.

// lockingRead starts a SELECT ... FOR UPDATE query. sqlite has no row
// locks and rejects the clause; its single-writer model serializes
// concurrent syncs anyway.
func (r *Repository) lockingRead(ctx context.Context) *gorm.DB {
	db := r.tx.WithContext(ctx)
	if r.tx.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

func (r *Repository) LockMainCategories(ctx context.Context, restaurantID uint) ([]models.MainCategory, error) {
	var rows []models.MainCategory
	err := r.lockingRead(ctx).
		Where("restaurant_id = ?", restaurantID).
		Find(&rows).Error
	return rows, persistErr("main category read", err)
}

func (r *Repository) LockSubCategories(ctx context.Context, mainCategoryIDs []uint) ([]models.SubCategory, error) {
	if len(mainCategoryIDs) == 0 {
		return nil, nil
	}
	var rows []models.SubCategory
	err := r.lockingRead(ctx).
		Where("main_category_id IN ?", mainCategoryIDs).
		Find(&rows).Error
	return rows, persistErr("sub category read", err)
}

func (r *Repository) LockMenuItems(ctx context.Context, subCategoryIDs []uint) ([]models.MenuItem, error) {
	if len(subCategoryIDs) == 0 {
		return nil, nil
	}
	var rows []models.MenuItem
	err := r.lockingRead(ctx).
		Where("sub_category_id IN ?", subCategoryIDs).
		Find(&rows).Error
	return rows, persistErr("menu item read", err)
}

func (r *Repository) LockVariantGroups(ctx context.Context, menuItemIDs []uint) ([]models.VariantGroup, error) {
	if len(menuItemIDs) == 0 {
		return nil, nil
	}
	var rows []models.VariantGroup
	err := r.lockingRead(ctx).
		Where("menu_item_id IN ?", menuItemIDs).
		Find(&rows).Error
	return rows, persistErr("variant group read", err)
}

func (r *Repository) LockVariants(ctx context.Context, variantGroupIDs []uint) ([]models.Variant, error) {
	if len(variantGroupIDs) == 0 {
		return nil, nil
	}
	var rows []models.Variant
	err := r.lockingRead(ctx).
		Where("variant_group_id IN ?", variantGroupIDs).
		Find(&rows).Error
	return rows, persistErr("variant read", err)
}

func (r *Repository) LockAddonGroups(ctx context.Context, restaurantID uint) ([]models.AddonGroup, error) {
	var rows []models.AddonGroup
	err := r.lockingRead(ctx).
		Where("restaurant_id = ?", restaurantID).
		Find(&rows).Error
	return rows, persistErr("addon group read", err)
}

func (r *Repository) LockAddons(ctx context.Context, addonGroupIDs []uint) ([]models.Addon, error) {
	if len(addonGroupIDs) == 0 {
		return nil, nil
	}
	var rows []models.Addon
	err := r.lockingRead(ctx).
		Where("addon_group_id IN ?", addonGroupIDs).
		Find(&rows).Error
	return rows, persistErr("addon read", err)
}

func (r *Repository) LockTaxes(ctx context.Context, restaurantID uint) ([]models.Tax, error) {
	var rows []models.Tax
	err := r.lockingRead(ctx).
		Where("restaurant_id = ?", restaurantID).
		Find(&rows).Error
	return rows, persistErr("tax read", err)
}

// UpsertTaxes applies the snapshot tax table: one batched
// insert-or-replace keyed by primary id (matched rows carry their
// existing id). Returns the resolved table keyed by partner tax id.
func (r *Repository) UpsertTaxes(ctx context.Context, candidates, existing []models.Tax) (map[string]models.Tax, []models.Tax, error) {
	byPos := make(map[string]models.Tax, len(existing))
	for _, t := range existing {
		byPos[t.PosID] = t
	}
	for i := range candidates {
		if prev, ok := byPos[candidates[i].PosID]; ok {
			candidates[i].ID = prev.ID
			candidates[i].CreatedAt = prev.CreatedAt
		}
	}
	if len(candidates) > 0 {
		err := r.tx.WithContext(ctx).
			Clauses(clause.OnConflict{UpdateAll: true}).
			Create(&candidates).Error
		if err != nil {
			return nil, nil, persistErr("tax upsert", err)
		}
	}

	table := make(map[string]models.Tax, len(candidates))
	for _, t := range candidates {
		table[t.PosID] = t
	}
	return table, candidates, nil
}

// applyDelta persists one reconciliation delta: bulk insert returning ids,
// one batched whole-row upsert for updates, one batched soft-delete.
// Each statement runs only when its set is non-empty. Inserted and updated
// rows are returned with internal ids populated.
func applyDelta[T any](ctx context.Context, tx *gorm.DB, entity string, delta *reconcile.Delta[T], deleteIDs []uint) error {
	db := tx.WithContext(ctx)
	if len(delta.Insert) > 0 {
		if err := db.Create(&delta.Insert).Error; err != nil {
			return persistErr(entity+" insert", err)
		}
	}
	if len(delta.Update) > 0 {
		now := time.Now()
		for i := range delta.Update {
			if row, ok := any(&delta.Update[i]).(interface{ Touch(time.Time) }); ok {
				row.Touch(now)
			}
		}
		err := db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&delta.Update).Error
		if err != nil {
			return persistErr(entity+" update", err)
		}
	}
	if len(deleteIDs) > 0 {
		err := db.Model(new(T)).Where("id IN ?", deleteIDs).
			Updates(map[string]any{"is_deleted": true, "updated_at": time.Now()}).Error
		if err != nil {
			return persistErr(entity+" soft delete", err)
		}
	}
	return nil
}

// Association rebuilds. These rows have no identity of their own: delete
// everything scoped to the touched parents, then reinsert the set the
// current snapshot implies.

func (r *Repository) RebuildItemAddonGroups(ctx context.Context, menuItemIDs []uint, rows []models.ItemAddonGroup) (int64, error) {
	var removed int64
	if len(menuItemIDs) > 0 {
		res := r.tx.WithContext(ctx).
			Where("menu_item_id IN ?", menuItemIDs).
			Delete(&models.ItemAddonGroup{})
		if res.Error != nil {
			return 0, persistErr("item addon group delete", res.Error)
		}
		removed = res.RowsAffected
	}
	if len(rows) > 0 {
		if err := r.tx.WithContext(ctx).Create(&rows).Error; err != nil {
			return removed, persistErr("item addon group insert", err)
		}
	}
	return removed, nil
}

func (r *Repository) RebuildItemAddons(ctx context.Context, menuItemIDs []uint, rows []models.ItemAddon) (int64, error) {
	var removed int64
	if len(menuItemIDs) > 0 {
		res := r.tx.WithContext(ctx).
			Where("menu_item_id IN ?", menuItemIDs).
			Delete(&models.ItemAddon{})
		if res.Error != nil {
			return 0, persistErr("item addon delete", res.Error)
		}
		removed = res.RowsAffected
	}
	if len(rows) > 0 {
		if err := r.tx.WithContext(ctx).Create(&rows).Error; err != nil {
			return removed, persistErr("item addon insert", err)
		}
	}
	return removed, nil
}

func (r *Repository) RebuildItemTaxes(ctx context.Context, menuItemIDs []uint, rows []models.ItemTax) (int64, error) {
	var removed int64
	if len(menuItemIDs) > 0 {
		res := r.tx.WithContext(ctx).
			Where("menu_item_id IN ?", menuItemIDs).
			Delete(&models.ItemTax{})
		if res.Error != nil {
			return 0, persistErr("item tax delete", res.Error)
		}
		removed = res.RowsAffected
	}
	if len(rows) > 0 {
		if err := r.tx.WithContext(ctx).Create(&rows).Error; err != nil {
			return removed, persistErr("item tax insert", err)
		}
	}
	return removed, nil
}
