package menusync

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"menu-sync/feature/menusync/models"
)

func TestMainCategoryCandidates_NOTAInjection(t *testing.T) {
	n := NewNormalizer("petpooja")
	snap := &models.Snapshot{
		ParentCategories: []models.SnapshotParentCategory{
			{ID: "P1", Name: "Food"},
		},
		Categories: []models.SnapshotCategory{
			{CategoryID: "C1", Name: "Starters", ParentCategoryID: "P1"},
			{CategoryID: "C2", Name: "Uncategorized", ParentCategoryID: "0"},
		},
	}

	out := n.MainCategoryCandidates(snap, 7)
	assert.Len(t, out, 2)
	assert.Equal(t, "P1", out[0].PosID)
	assert.Equal(t, models.NOTAExternalID, out[1].PosID)
	assert.Equal(t, models.NOTA, out[1].Name)
	assert.Equal(t, uint(7), out[1].RestaurantID)
}

func TestMainCategoryCandidates_NoInjectionWithoutSentinel(t *testing.T) {
	n := NewNormalizer("petpooja")
	snap := &models.Snapshot{
		ParentCategories: []models.SnapshotParentCategory{{ID: "P1", Name: "Food"}},
		Categories: []models.SnapshotCategory{
			{CategoryID: "C1", Name: "Starters", ParentCategoryID: "P1"},
		},
	}

	out := n.MainCategoryCandidates(snap, 7)
	assert.Len(t, out, 1)
}

func TestSubCategoryCandidates_EmptyParentMapsToSentinel(t *testing.T) {
	n := NewNormalizer("petpooja")
	snap := &models.Snapshot{
		Categories: []models.SnapshotCategory{
			{CategoryID: "C1", Name: "Starters", ParentCategoryID: "P1"},
			{CategoryID: "C2", Name: "Mains", ParentCategoryID: "P1"},
			{CategoryID: "C3", Name: "Loose", ParentCategoryID: ""},
		},
	}

	out := n.SubCategoryCandidates(snap, 1)
	assert.Equal(t, "P1", out[0].ParentPosID)
	assert.Equal(t, models.NOTAExternalID, out[2].ParentPosID)
	// Sequence is per parent scope.
	assert.Equal(t, 1, out[0].Row.Sequence)
	assert.Equal(t, 2, out[1].Row.Sequence)
	assert.Equal(t, 1, out[2].Row.Sequence)
}

func TestAttributeTableAndFoodType(t *testing.T) {
	n := NewNormalizer("petpooja")
	snap := &models.Snapshot{
		Attributes: []models.SnapshotAttribute{
			{AttributeID: "1", Name: "Veg"},
			{AttributeID: "2", Name: "Non-Veg"},
			{AttributeID: "3", Name: "egg"},
		},
	}

	table := n.AttributeTable(snap)
	assert.Equal(t, models.FoodTypeVeg, FoodType("1", table))
	assert.Equal(t, models.FoodTypeNonVeg, FoodType("2", table))
	assert.Equal(t, models.FoodTypeEgg, FoodType("3", table))
	// Unknown attribute defaults to non-veg.
	assert.Equal(t, models.FoodTypeNonVeg, FoodType("99", table))
}

func TestItemCandidates_BackwardPriceConversion(t *testing.T) {
	n := NewNormalizer("petpooja")
	rest := models.Restaurant{ID: 1}
	taxes := map[string]models.Tax{
		"T1": {ID: 1, PosID: "T1", Name: "CGST", Rate: 2.5, Type: models.TaxTypeBackward, Active: true},
		"T2": {ID: 2, PosID: "T2", Name: "SGST", Rate: 2.5, Type: models.TaxTypeBackward, Active: true},
	}
	snap := &models.Snapshot{
		Items: []models.SnapshotItem{
			{ItemID: "I1", Name: "Paneer Roll", CategoryID: "C1", Price: "100", ItemTax: "T1,T2", InStock: "1"},
			{ItemID: "I2", Name: "Water", CategoryID: "C1", Price: "20", InStock: "1"},
		},
	}

	out := n.ItemCandidates(snap, rest, taxes, nil)
	assert.Len(t, out, 2)
	assert.Equal(t, 95.24, out[0].Row.Price)
	assert.True(t, out[0].Row.TaxInclusive)
	assert.Equal(t, 2.5, out[0].Row.CGSTRate)
	assert.Equal(t, 2.5, out[0].Row.SGSTRate)
	assert.Equal(t, 20.0, out[1].Row.Price)
	assert.False(t, out[1].Row.TaxInclusive)
}

func TestVariantGroupKey(t *testing.T) {
	assert.Equal(t, "Size_I1", VariantGroupKey("Size", "I1"))
	assert.Equal(t, "NOTA_I1", VariantGroupKey("", "I1"))
	assert.Equal(t, "NOTA_I1", VariantGroupKey("  ", "I1"))
}

func TestVariantGroupCandidates_DedupAndNOTA(t *testing.T) {
	n := NewNormalizer("petpooja")
	snap := &models.Snapshot{
		Items: []models.SnapshotItem{
			{
				ItemID: "I1",
				Variations: []models.SnapshotVariation{
					{ID: "V1", VariationID: "10", Name: "Small", GroupName: "Size"},
					{ID: "V2", VariationID: "11", Name: "Large", GroupName: "Size"},
					{ID: "V3", VariationID: "12", Name: "Plain", GroupName: ""},
				},
			},
		},
	}

	out := n.VariantGroupCandidates(snap)
	assert.Len(t, out, 2)
	assert.Equal(t, "Size_I1", out[0].Row.PosID)
	assert.Equal(t, "NOTA_I1", out[1].Row.PosID)
	assert.Equal(t, models.NOTA, out[1].Row.Name)
	assert.Equal(t, "I1", out[0].ParentPosID)
}

func TestVariantCandidates_KeyIsVariantItemID(t *testing.T) {
	n := NewNormalizer("petpooja")
	snap := &models.Snapshot{
		Items: []models.SnapshotItem{
			{
				ItemID: "I1",
				Variations: []models.SnapshotVariation{
					{ID: "V1", VariationID: "10", Name: "Small", GroupName: "Size", Price: "50", InStock: "1"},
					{ID: "V2", VariationID: "10", Name: "Small", GroupName: "Size", Price: "55", InStock: "1"},
				},
			},
		},
	}

	out := n.VariantCandidates(snap)
	assert.Len(t, out, 2)
	// Shared variation id, distinct variant-item ids.
	assert.Equal(t, "V1", out[0].Row.PosVariantItemID)
	assert.Equal(t, "V2", out[1].Row.PosVariantItemID)
	assert.Equal(t, "10", out[0].Row.PosID)
	assert.Equal(t, "Size_I1", out[0].ParentPosID)
	assert.Equal(t, 1, out[0].Row.Sequence)
	assert.Equal(t, 2, out[1].Row.Sequence)
}

func TestApplyRestaurantSettings(t *testing.T) {
	n := NewNormalizer("petpooja")
	rest := &models.Restaurant{ID: 1, Name: "Old Name"}
	snap := &models.Snapshot{
		Restaurants: []models.SnapshotRestaurant{{
			RestaurantID:          "R1",
			Name:                  "New Name",
			City:                  "Pune",
			PackagingApplicableOn: "ITEM",
			PackagingChargeType:   "PERCENTAGE",
			PackagingCharge:       "4",
			CalculateTaxOnPacking: "1",
			PackingTaxID:          "T1,T2",
		}},
	}

	n.ApplyRestaurantSettings(rest, snap)
	assert.Equal(t, "New Name", rest.Name)
	assert.Equal(t, "Pune", rest.City)
	assert.Equal(t, models.PackingApplicabilityItem, rest.PackingApplicability)
	assert.Equal(t, models.PackingChargePercent, rest.PackingChargeType)
	assert.Equal(t, 4.0, rest.PackingCharge)
	assert.True(t, rest.TaxOnPacking)
	assert.Equal(t, "T1,T2", rest.PackingTaxPosID)
}
