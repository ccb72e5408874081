package models

// Snapshot is the full-catalog document the POS partner pushes on every
// sync. The partner serializes nearly everything as strings ("1", "2.5"),
// so fields stay stringly typed here and are converted once, at the
// normalization boundary.
type Snapshot struct {
	Restaurants      []SnapshotRestaurant `json:"restaurants"`
	ParentCategories []SnapshotParentCategory `json:"parentcategories"`
	Categories       []SnapshotCategory   `json:"categories"`
	Items            []SnapshotItem       `json:"items"`
	AddonGroups      []SnapshotAddonGroup `json:"addongroups"`
	Attributes       []SnapshotAttribute  `json:"attributes"`
	Taxes            []SnapshotTax        `json:"taxes"`
	ServerDateTime   string               `json:"serverdatetime"`
	DBVersion        string               `json:"db_version"`
}

// RestaurantPosID returns the partner id of the restaurant this snapshot
// belongs to, or "" when the document carries none.
func (s *Snapshot) RestaurantPosID() string {
	if len(s.Restaurants) == 0 {
		return ""
	}
	return s.Restaurants[0].RestaurantID
}

// SnapshotRestaurant carries restaurant settings: contact info and the
// packing/tax configuration.
type SnapshotRestaurant struct {
	RestaurantID string `json:"restaurantid"`
	Name         string `json:"restaurantname"`
	City         string `json:"city"`
	Address      string `json:"address"`
	ContactPhone string `json:"contact"`
	ContactEmail string `json:"email"`

	PackagingApplicableOn string `json:"packaging_applicable_on"` // NONE | ITEM | ORDER
	PackagingChargeType   string `json:"packaging_charge_type"`   // FIXED | PERCENTAGE
	PackagingCharge       string `json:"packaging_charge"`
	CalculateTaxOnPacking string `json:"calculatetaxonpacking"` // "0" | "1"
	PackingTaxID          string `json:"packaging_tax_id"`
}

// SnapshotParentCategory is a partner parent (main) category.
type SnapshotParentCategory struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Rank   string `json:"rank"`
	Status string `json:"status"`
}

// SnapshotCategory is a partner (sub) category with a parent reference.
type SnapshotCategory struct {
	CategoryID       string `json:"categoryid"`
	Name             string `json:"categoryname"`
	ParentCategoryID string `json:"parent_category_id"`
	Rank             string `json:"categoryrank"`
	Active           string `json:"active"`
}

// SnapshotItem is a partner menu item with nested variations and
// addon-group associations.
type SnapshotItem struct {
	ItemID         string `json:"itemid"`
	Name           string `json:"itemname"`
	Description    string `json:"itemdescription"`
	CategoryID     string `json:"item_categoryid"`
	Price          string `json:"price"`
	ItemTax        string `json:"item_tax"` // comma separated tax ids, e.g. "T1,T2"
	AttributeID    string `json:"item_attributeid"`
	ImageURL       string `json:"item_image_url"`
	PackingCharges string `json:"item_packingcharges"`
	AllowVariation string `json:"itemallowvariation"`
	AllowAddon     string `json:"itemallowaddon"`
	InStock        string `json:"in_stock"`
	Rank           string `json:"itemrank"`
	Active         string `json:"active"`

	VariationGroupName string              `json:"variation_groupname"`
	Variations         []SnapshotVariation `json:"variation"`
	AddonGroupRefs     []SnapshotItemAddon `json:"addon"`
}

// SnapshotVariation is one nested (size, price) tuple on an item.
// VariationID identifies the shared tuple; ID is the per-item
// variant-item id the engine reconciles on.
type SnapshotVariation struct {
	ID          string `json:"id"` // variant-item id, the reconciliation key
	VariationID string `json:"variationid"`
	Name        string `json:"name"`
	GroupName   string `json:"groupname"`
	Price       string `json:"price"`
	InStock     string `json:"in_stock"`
	Rank        string `json:"variationrank"`
	Active      string `json:"active"`
}

// SnapshotItemAddon associates an item with an addon group plus
// selection limits.
type SnapshotItemAddon struct {
	AddonGroupID string `json:"addon_group_id"`
	MinSelection string `json:"addon_item_selection_min"`
	MaxSelection string `json:"addon_item_selection_max"`
}

// SnapshotAddonGroup carries an addon group and its nested addon items.
type SnapshotAddonGroup struct {
	AddonGroupID string              `json:"addongroupid"`
	Name         string              `json:"addongroup_name"`
	Rank         string              `json:"addongroup_rank"`
	Active       string              `json:"active"`
	Items        []SnapshotAddonItem `json:"addongroupitems"`
}

// SnapshotAddonItem is one addon inside a group.
type SnapshotAddonItem struct {
	AddonItemID string `json:"addonitemid"`
	Name        string `json:"addonitem_name"`
	Price       string `json:"addonitem_price"`
	AttributeID string `json:"attributes"`
	Rank        string `json:"addonitem_rank"`
	Active      string `json:"active"`
}

// SnapshotAttribute maps an attribute id to a food-type label
// (veg / egg / non-veg / other).
type SnapshotAttribute struct {
	AttributeID string `json:"attributeid"`
	Name        string `json:"attribute"`
	Active      string `json:"active"`
}

// SnapshotTax is one partner tax definition.
type SnapshotTax struct {
	TaxID       string `json:"taxid"`
	Name        string `json:"taxname"`
	Rate        string `json:"tax"`
	// TaxType is "1" for forward, "2" for backward (price tax-inclusive).
	TaxType     string `json:"tax_taxtype"`
	OrderTypes  string `json:"tax_ordertype"`
	CoreOrTotal string `json:"tax_coreortotal"` // "1" core, "2" total
	Active      string `json:"active"`
}
