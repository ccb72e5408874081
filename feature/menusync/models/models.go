package models

import (
	"time"

	"menu-sync/core/reconcile"
)

// Food type labels resolved from the snapshot attribute table.
const (
	FoodTypeVeg    = "veg"
	FoodTypeEgg    = "egg"
	FoodTypeNonVeg = "non-veg"
	FoodTypeOther  = "other"
)

// Tax computation direction. A backward tax is extracted from a
// tax-inclusive price; a forward tax is added on top.
const (
	TaxTypeForward  = "forward"
	TaxTypeBackward = "backward"
)

// Packing charge configuration on the restaurant.
const (
	PackingApplicabilityNone  = "none"
	PackingApplicabilityItem  = "item"
	PackingApplicabilityOrder = "order"

	PackingChargeFixed   = "fixed"
	PackingChargePercent = "percent"
)

// NOTA is the synthetic "none of the above" bucket injected when the
// partner omits a required parent.
const NOTA = "NOTA"

// NOTAExternalID is the partner sentinel for "no parent".
const NOTAExternalID = "0"

// Restaurant is the top-level boundary every menu entity belongs to.
type Restaurant struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	PosID     string `gorm:"column:pos_id;size:64;index" json:"pos_id"`
	Partner   string `gorm:"size:32" json:"partner"`
	Name      string `gorm:"size:255" json:"name"`
	City      string `gorm:"size:128" json:"city"`
	Area      string `gorm:"size:255" json:"area"`
	ContactPhone string `gorm:"size:32" json:"contact_phone"`
	ContactEmail string `gorm:"size:255" json:"contact_email"`

	// Packing charge configuration resolved from restaurant settings.
	PackingApplicability string  `gorm:"size:16;default:none" json:"packing_applicability"`
	PackingChargeType    string  `gorm:"size:16;default:fixed" json:"packing_charge_type"`
	PackingCharge        float64 `json:"packing_charge"`
	TaxOnPacking         bool    `json:"tax_on_packing"`
	PackingTaxPosID      string  `gorm:"size:64" json:"packing_tax_pos_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MainCategory is the partner's parent category.
type MainCategory struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RestaurantID uint      `gorm:"index" json:"restaurant_id"`
	PosID        string    `gorm:"column:pos_id;size:64;index" json:"pos_id"`
	Partner      string    `gorm:"size:32" json:"partner"`
	Name         string    `gorm:"size:255" json:"name"`
	Sequence     int       `json:"sequence"`
	IsDeleted    bool      `gorm:"default:false" json:"is_deleted"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SubCategory hangs under a MainCategory and owns menu items.
type SubCategory struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	RestaurantID   uint      `gorm:"index" json:"restaurant_id"`
	MainCategoryID uint      `gorm:"index" json:"main_category_id"`
	PosID          string    `gorm:"column:pos_id;size:64;index" json:"pos_id"`
	Partner        string    `gorm:"size:32" json:"partner"`
	Name           string    `gorm:"size:255" json:"name"`
	Sequence       int       `json:"sequence"`
	IsDeleted      bool      `gorm:"default:false" json:"is_deleted"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// MenuItem is one sellable dish.
type MenuItem struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	RestaurantID  uint    `gorm:"index" json:"restaurant_id"`
	SubCategoryID uint    `gorm:"index" json:"sub_category_id"`
	PosID         string  `gorm:"column:pos_id;size:64;index" json:"pos_id"`
	Partner       string  `gorm:"size:32" json:"partner"`
	Name          string  `gorm:"size:255" json:"name"`
	Description   string  `gorm:"type:text" json:"description"`
	// Price is tax-exclusive. Backward (inclusive) partner prices are
	// converted at normalization time.
	Price       float64 `json:"price"`
	CGSTRate    float64 `gorm:"column:item_cgst" json:"item_cgst"`
	SGSTRate    float64 `gorm:"column:item_sgst" json:"item_sgst"`
	TaxInclusive bool   `json:"tax_inclusive"`
	FoodType    string  `gorm:"size:16" json:"food_type"`
	// Image is an opaque reference managed out of band; an empty incoming
	// value retains the stored one.
	Image         string    `gorm:"size:512" json:"image"`
	PackingCharge float64   `json:"packing_charge"`
	AllowVariants bool      `json:"allow_variants"`
	AllowAddons   bool      `json:"allow_addons"`
	InStock       bool      `json:"in_stock"`
	Sequence      int       `json:"sequence"`
	IsDeleted     bool      `gorm:"default:false" json:"is_deleted"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// VariantGroup buckets a menu item's variants (e.g. "Size").
// The partner assigns it no id; its external key is synthesized as
// "{group_name}_{parent_item_pos_id}".
type VariantGroup struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	MenuItemID uint      `gorm:"index" json:"menu_item_id"`
	PosID      string    `gorm:"column:pos_id;size:128;index" json:"pos_id"`
	Partner    string    `gorm:"size:32" json:"partner"`
	Name       string    `gorm:"size:255" json:"name"`
	Sequence   int       `json:"sequence"`
	IsDeleted  bool      `gorm:"default:false" json:"is_deleted"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Variant is one concrete (size, price) instance of a menu item.
// PosVariantItemID, not PosID, is the reconciliation key: the variation id
// identifies a (size, price) tuple shared across items, while the
// variant-item id identifies this per-item instance.
type Variant struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	VariantGroupID   uint      `gorm:"index" json:"variant_group_id"`
	PosID            string    `gorm:"column:pos_id;size:64" json:"pos_id"`
	PosVariantItemID string    `gorm:"column:pos_variant_item_id;size:64;index" json:"pos_variant_item_id"`
	Partner          string    `gorm:"size:32" json:"partner"`
	Name             string    `gorm:"size:255" json:"name"`
	Price            float64   `json:"price"`
	InStock          bool      `json:"in_stock"`
	IsDefault        bool      `gorm:"default:false" json:"is_default"`
	Sequence         int       `json:"sequence"`
	IsDeleted        bool      `gorm:"default:false" json:"is_deleted"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// AddonGroup buckets addons at the restaurant level.
type AddonGroup struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RestaurantID uint      `gorm:"index" json:"restaurant_id"`
	PosID        string    `gorm:"column:pos_id;size:64;index" json:"pos_id"`
	Partner      string    `gorm:"size:32" json:"partner"`
	Name         string    `gorm:"size:255" json:"name"`
	Sequence     int       `json:"sequence"`
	IsDeleted    bool      `gorm:"default:false" json:"is_deleted"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Addon is one selectable extra inside an addon group.
type Addon struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AddonGroupID uint      `gorm:"index" json:"addon_group_id"`
	PosID        string    `gorm:"column:pos_id;size:64;index" json:"pos_id"`
	Partner      string    `gorm:"size:32" json:"partner"`
	Name         string    `gorm:"size:255" json:"name"`
	Price        float64   `json:"price"`
	FoodType     string    `gorm:"size:16;default:non-veg" json:"food_type"`
	InStock      bool      `json:"in_stock"`
	Sequence     int       `json:"sequence"`
	IsDeleted    bool      `gorm:"default:false" json:"is_deleted"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Tax is one partner tax definition (e.g. CGST 2.5%), upserted per pass.
type Tax struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RestaurantID uint      `gorm:"index" json:"restaurant_id"`
	PosID        string    `gorm:"column:pos_id;size:64;index:idx_taxes_rest_pos" json:"pos_id"`
	Partner      string    `gorm:"size:32" json:"partner"`
	Name         string    `gorm:"size:64" json:"name"`
	Rate         float64   `json:"rate"`
	// Type is forward or backward (see TaxType constants).
	Type       string    `gorm:"size:16" json:"type"`
	OrderTypes string    `gorm:"size:64" json:"order_types"`
	OnCore     bool      `json:"on_core"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ItemAddonGroup links a menu item to an addon group with selection limits.
// It has no independent identity and is rebuilt every pass, never diffed.
type ItemAddonGroup struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	MenuItemID   uint `gorm:"index" json:"menu_item_id"`
	AddonGroupID uint `gorm:"index" json:"addon_group_id"`
	MinSelection int  `json:"min_selection"`
	MaxSelection int  `json:"max_selection"`
}

// ItemAddon links a menu item to one addon. Rebuilt every pass.
type ItemAddon struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	MenuItemID uint `gorm:"index" json:"menu_item_id"`
	AddonID    uint `gorm:"index" json:"addon_id"`
}

// ItemTax links a menu item to a tax definition. Rebuilt every pass.
type ItemTax struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	MenuItemID uint `gorm:"index" json:"menu_item_id"`
	TaxID      uint `gorm:"index" json:"tax_id"`
}

// Report is the per-entity outcome of one sync pass.
type Report struct {
	MainCategories reconcile.Changes `json:"main_categories"`
	SubCategories  reconcile.Changes `json:"sub_categories"`
	MenuItems      reconcile.Changes `json:"menu_items"`
	VariantGroups  reconcile.Changes `json:"variant_groups"`
	Variants       reconcile.Changes `json:"variants"`
	AddonGroups    reconcile.Changes `json:"addon_groups"`
	Addons         reconcile.Changes `json:"addons"`
	ItemAddonGroups reconcile.Changes `json:"item_addon_groups"`
	ItemAddons     reconcile.Changes `json:"item_addons"`
	ItemTaxes      reconcile.Changes `json:"item_taxes"`

	Restaurant *Restaurant `json:"restaurant,omitempty"`
	Taxes      []Tax       `json:"taxes,omitempty"`
}

// Touch bumps the update timestamp. The reconciler adopts the stored
// timestamps for its unchanged check, so rows that really changed are
// re-stamped just before persisting.
func (m *MainCategory) Touch(t time.Time) { m.UpdatedAt = t }
func (m *SubCategory) Touch(t time.Time)  { m.UpdatedAt = t }
func (m *MenuItem) Touch(t time.Time)     { m.UpdatedAt = t }
func (m *VariantGroup) Touch(t time.Time) { m.UpdatedAt = t }
func (m *Variant) Touch(t time.Time)      { m.UpdatedAt = t }
func (m *AddonGroup) Touch(t time.Time)   { m.UpdatedAt = t }
func (m *Addon) Touch(t time.Time)        { m.UpdatedAt = t }

// All returns every menu model for schema migration.
func All() []any {
	return []any{
		&Restaurant{},
		&MainCategory{},
		&SubCategory{},
		&MenuItem{},
		&VariantGroup{},
		&Variant{},
		&AddonGroup{},
		&Addon{},
		&Tax{},
		&ItemAddonGroup{},
		&ItemAddon{},
		&ItemTax{},
	}
}
