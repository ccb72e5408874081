package menusync

import (
	"fmt"
	"strings"

	"menu-sync/core/utils"
	"menu-sync/feature/menusync/models"
)

// Candidate is a freshly normalized row plus the partner external id of
// its parent. Parent resolution to an internal id happens inside the
// entity processors, against the already-reconciled parent list.
type Candidate[T any] struct {
	Row         T
	ParentPosID string
}

// Normalizer shapes the raw partner payload into per-type candidate
// records. All string-to-number conversion and defaulting happens here,
// once, so no downstream processor branches on field presence.
type Normalizer struct {
	partner string
}

// NewNormalizer creates a normalizer stamping rows with the partner tag.
func NewNormalizer(partner string) *Normalizer {
	return &Normalizer{partner: partner}
}

// ApplyRestaurantSettings overwrites the restaurant's settings from the
// snapshot. Packing configuration values arrive in partner vocabulary
// (ITEM/ORDER, FIXED/PERCENTAGE) and are normalized to internal labels.
func (n *Normalizer) ApplyRestaurantSettings(rest *models.Restaurant, snap *models.Snapshot) {
	if len(snap.Restaurants) == 0 {
		return
	}
	sr := snap.Restaurants[0]

	if sr.Name != "" {
		rest.Name = sr.Name
	}
	if sr.City != "" {
		rest.City = sr.City
	}
	if sr.Address != "" {
		rest.Area = sr.Address
	}
	if sr.ContactPhone != "" {
		rest.ContactPhone = sr.ContactPhone
	}
	if sr.ContactEmail != "" {
		rest.ContactEmail = sr.ContactEmail
	}

	switch strings.ToLower(sr.PackagingApplicableOn) {
	case "item":
		rest.PackingApplicability = models.PackingApplicabilityItem
	case "order":
		rest.PackingApplicability = models.PackingApplicabilityOrder
	default:
		rest.PackingApplicability = models.PackingApplicabilityNone
	}
	if strings.EqualFold(sr.PackagingChargeType, "percentage") {
		rest.PackingChargeType = models.PackingChargePercent
	} else {
		rest.PackingChargeType = models.PackingChargeFixed
	}
	rest.PackingCharge = utils.ToFloat(sr.PackagingCharge)
	rest.TaxOnPacking = utils.ToBool(sr.CalculateTaxOnPacking)
	rest.PackingTaxPosID = sr.PackingTaxID
}

// MainCategoryCandidates normalizes the parent-category list.
// If any incoming sub-category references the "no parent" sentinel, a
// synthetic NOTA category with that sentinel id is injected so the
// reference always resolves.
func (n *Normalizer) MainCategoryCandidates(snap *models.Snapshot, restaurantID uint) []models.MainCategory {
	out := make([]models.MainCategory, 0, len(snap.ParentCategories)+1)
	seq := 0
	hasSentinel := false
	for _, pc := range snap.ParentCategories {
		if pc.ID == models.NOTAExternalID {
			hasSentinel = true
		}
		seq++
		out = append(out, models.MainCategory{
			RestaurantID: restaurantID,
			PosID:        pc.ID,
			Partner:      n.partner,
			Name:         pc.Name,
			Sequence:     seq,
		})
	}

	if !hasSentinel {
		for _, c := range snap.Categories {
			if parentRef(c) == models.NOTAExternalID {
				out = append(out, models.MainCategory{
					RestaurantID: restaurantID,
					PosID:        models.NOTAExternalID,
					Partner:      n.partner,
					Name:         models.NOTA,
					Sequence:     seq + 1,
				})
				break
			}
		}
	}
	return out
}

// SubCategoryCandidates normalizes the category list. Sequence is 1-based
// per parent scope in first-seen order.
func (n *Normalizer) SubCategoryCandidates(snap *models.Snapshot, restaurantID uint) []Candidate[models.SubCategory] {
	out := make([]Candidate[models.SubCategory], 0, len(snap.Categories))
	seqByParent := make(map[string]int)
	for _, c := range snap.Categories {
		parent := parentRef(c)
		seqByParent[parent]++
		out = append(out, Candidate[models.SubCategory]{
			ParentPosID: parent,
			Row: models.SubCategory{
				RestaurantID: restaurantID,
				PosID:        c.CategoryID,
				Partner:      n.partner,
				Name:         c.Name,
				Sequence:     seqByParent[parent],
			},
		})
	}
	return out
}

// parentRef maps an absent parent reference to the "no parent" sentinel.
func parentRef(c models.SnapshotCategory) string {
	if strings.TrimSpace(c.ParentCategoryID) == "" {
		return models.NOTAExternalID
	}
	return c.ParentCategoryID
}

// TaxCandidates normalizes the snapshot tax table.
func (n *Normalizer) TaxCandidates(snap *models.Snapshot, restaurantID uint) []models.Tax {
	out := make([]models.Tax, 0, len(snap.Taxes))
	for _, t := range snap.Taxes {
		taxType := models.TaxTypeForward
		if t.TaxType == "2" {
			taxType = models.TaxTypeBackward
		}
		out = append(out, models.Tax{
			RestaurantID: restaurantID,
			PosID:        t.TaxID,
			Partner:      n.partner,
			Name:         t.Name,
			Rate:         utils.ToFloat(t.Rate),
			Type:         taxType,
			OrderTypes:   t.OrderTypes,
			OnCore:       t.CoreOrTotal == "1",
			Active:       utils.ToBool(t.Active),
		})
	}
	return out
}

// AttributeTable builds the id to food-type label map carried in the
// snapshot. Labels are normalized; anything unrecognized resolves later to
// the non-veg default.
func (n *Normalizer) AttributeTable(snap *models.Snapshot) map[string]string {
	table := make(map[string]string, len(snap.Attributes))
	for _, a := range snap.Attributes {
		switch strings.ToLower(strings.TrimSpace(a.Name)) {
		case "veg":
			table[a.AttributeID] = models.FoodTypeVeg
		case "egg":
			table[a.AttributeID] = models.FoodTypeEgg
		case "non-veg", "nonveg", "non veg":
			table[a.AttributeID] = models.FoodTypeNonVeg
		case "other":
			table[a.AttributeID] = models.FoodTypeOther
		}
	}
	return table
}

// FoodType resolves an attribute id, defaulting to non-veg.
func FoodType(attrID string, table map[string]string) string {
	if label, ok := table[attrID]; ok {
		return label
	}
	return models.FoodTypeNonVeg
}

// ItemCandidates normalizes the item list against the upserted tax table.
// Backward (tax-inclusive) prices are converted to their exclusive form
// here; the stored price is always pre-tax.
func (n *Normalizer) ItemCandidates(
	snap *models.Snapshot,
	rest models.Restaurant,
	taxes map[string]models.Tax,
	attrs map[string]string,
) []Candidate[models.MenuItem] {
	out := make([]Candidate[models.MenuItem], 0, len(snap.Items))
	seqByParent := make(map[string]int)
	for _, it := range snap.Items {
		seqByParent[it.CategoryID]++

		price := utils.ToFloat(it.Price)
		breakdown := ResolveTaxes(utils.SplitCSV(it.ItemTax), taxes)
		if breakdown.Backward {
			price = PreTaxPrice(price, breakdown.CombinedRate())
		} else {
			price = utils.Round2(price)
		}

		packing := ItemPackingCharge(rest, utils.ToFloat(it.PackingCharges), price, taxes)

		out = append(out, Candidate[models.MenuItem]{
			ParentPosID: it.CategoryID,
			Row: models.MenuItem{
				RestaurantID:  rest.ID,
				PosID:         it.ItemID,
				Partner:       n.partner,
				Name:          it.Name,
				Description:   it.Description,
				Price:         price,
				CGSTRate:      breakdown.CGST,
				SGSTRate:      breakdown.SGST,
				TaxInclusive:  breakdown.Backward,
				FoodType:      FoodType(it.AttributeID, attrs),
				Image:         it.ImageURL,
				PackingCharge: packing,
				AllowVariants: utils.ToBool(it.AllowVariation),
				AllowAddons:   utils.ToBool(it.AllowAddon),
				InStock:       utils.ToBool(it.InStock),
				Sequence:      seqByParent[it.CategoryID],
			},
		})
	}
	return out
}

// VariantGroupKey synthesizes the external key of a variant group, which
// the partner assigns no id: "{group_name}_{parent_item_pos_id}".
// An empty group name defaults to NOTA.
func VariantGroupKey(groupName, itemPosID string) string {
	name := strings.TrimSpace(groupName)
	if name == "" {
		name = models.NOTA
	}
	return fmt.Sprintf("%s_%s", name, itemPosID)
}

// VariantGroupCandidates derives variant groups from the items' nested
// variations. One group per (group name, item) pair, first-seen order.
func (n *Normalizer) VariantGroupCandidates(snap *models.Snapshot) []Candidate[models.VariantGroup] {
	var out []Candidate[models.VariantGroup]
	seen := make(map[string]struct{})
	seqByItem := make(map[string]int)
	for _, it := range snap.Items {
		for _, v := range it.Variations {
			name := strings.TrimSpace(v.GroupName)
			if name == "" {
				name = strings.TrimSpace(it.VariationGroupName)
			}
			if name == "" {
				name = models.NOTA
			}
			key := VariantGroupKey(name, it.ItemID)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			seqByItem[it.ItemID]++
			out = append(out, Candidate[models.VariantGroup]{
				ParentPosID: it.ItemID,
				Row: models.VariantGroup{
					PosID:    key,
					Partner:  n.partner,
					Name:     name,
					Sequence: seqByItem[it.ItemID],
				},
			})
		}
	}
	return out
}

// VariantCandidates derives variants from the items' nested variations.
// The parent reference is the synthesized variant-group key, and the
// reconciliation key is the partner's variant-item id.
func (n *Normalizer) VariantCandidates(snap *models.Snapshot) []Candidate[models.Variant] {
	var out []Candidate[models.Variant]
	seqByGroup := make(map[string]int)
	for _, it := range snap.Items {
		for _, v := range it.Variations {
			name := strings.TrimSpace(v.GroupName)
			if name == "" {
				name = strings.TrimSpace(it.VariationGroupName)
			}
			groupKey := VariantGroupKey(name, it.ItemID)
			seqByGroup[groupKey]++
			out = append(out, Candidate[models.Variant]{
				ParentPosID: groupKey,
				Row: models.Variant{
					PosID:            v.VariationID,
					PosVariantItemID: v.ID,
					Partner:          n.partner,
					Name:             v.Name,
					Price:            utils.Round2(utils.ToFloat(v.Price)),
					InStock:          utils.ToBool(v.InStock),
					Sequence:         seqByGroup[groupKey],
				},
			})
		}
	}
	return out
}

// AddonGroupCandidates normalizes the addon-group list.
func (n *Normalizer) AddonGroupCandidates(snap *models.Snapshot, restaurantID uint) []models.AddonGroup {
	out := make([]models.AddonGroup, 0, len(snap.AddonGroups))
	for i, g := range snap.AddonGroups {
		out = append(out, models.AddonGroup{
			RestaurantID: restaurantID,
			PosID:        g.AddonGroupID,
			Partner:      n.partner,
			Name:         g.Name,
			Sequence:     i + 1,
		})
	}
	return out
}

// AddonCandidates normalizes the nested addon items, resolving the
// food-type attribute via the snapshot attribute table.
func (n *Normalizer) AddonCandidates(snap *models.Snapshot, attrs map[string]string) []Candidate[models.Addon] {
	var out []Candidate[models.Addon]
	for _, g := range snap.AddonGroups {
		for i, a := range g.Items {
			out = append(out, Candidate[models.Addon]{
				ParentPosID: g.AddonGroupID,
				Row: models.Addon{
					PosID:    a.AddonItemID,
					Partner:  n.partner,
					Name:     a.Name,
					Price:    utils.Round2(utils.ToFloat(a.Price)),
					FoodType: FoodType(a.AttributeID, attrs),
					InStock:  utils.ToBool(a.Active),
					Sequence: i + 1,
				},
			})
		}
	}
	return out
}
