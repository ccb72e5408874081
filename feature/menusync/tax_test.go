package menusync

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"menu-sync/feature/menusync/models"
)

func taxTable() map[string]models.Tax {
	return map[string]models.Tax{
		"T1": {ID: 1, PosID: "T1", Name: "CGST", Rate: 2.5, Type: models.TaxTypeBackward, Active: true},
		"T2": {ID: 2, PosID: "T2", Name: "SGST", Rate: 2.5, Type: models.TaxTypeBackward, Active: true},
		"T3": {ID: 3, PosID: "T3", Name: "Service Charge", Rate: 10, Type: models.TaxTypeForward, Active: true},
		"T4": {ID: 4, PosID: "T4", Name: "Old CGST", Rate: 9, Type: models.TaxTypeForward, Active: false},
	}
}

func TestResolveTaxes(t *testing.T) {
	table := taxTable()

	t.Run("SplitsComponentsByName", func(t *testing.T) {
		b := ResolveTaxes([]string{"T1", "T2"}, table)
		assert.Equal(t, 2.5, b.CGST)
		assert.Equal(t, 2.5, b.SGST)
		assert.Equal(t, 5.0, b.CombinedRate())
		assert.True(t, b.Backward)
	})

	t.Run("ForwardOnly", func(t *testing.T) {
		b := ResolveTaxes([]string{"T3"}, table)
		assert.False(t, b.Backward)
		assert.Equal(t, 10.0, b.CombinedRate())
	})

	t.Run("UnknownAndInactiveIgnored", func(t *testing.T) {
		b := ResolveTaxes([]string{"T4", "TX"}, table)
		assert.Equal(t, TaxBreakdown{}, b)
	})
}

func TestPreTaxPrice(t *testing.T) {
	// 100 inclusive of 5% GST backs out to 95.24.
	assert.Equal(t, 95.24, PreTaxPrice(100, 5))
	assert.Equal(t, 100.0, PreTaxPrice(100, 0))
	assert.Equal(t, 84.75, PreTaxPrice(100, 18))
}

func TestItemPackingCharge(t *testing.T) {
	table := taxTable()

	t.Run("NotApplicable", func(t *testing.T) {
		rest := models.Restaurant{PackingApplicability: models.PackingApplicabilityNone, PackingCharge: 10}
		assert.Equal(t, 0.0, ItemPackingCharge(rest, 5, 100, table))
	})

	t.Run("OrderLevelNotBilledPerItem", func(t *testing.T) {
		rest := models.Restaurant{PackingApplicability: models.PackingApplicabilityOrder, PackingCharge: 10}
		assert.Equal(t, 0.0, ItemPackingCharge(rest, 5, 100, table))
	})

	t.Run("ItemChargeWinsOverRestaurantDefault", func(t *testing.T) {
		rest := models.Restaurant{
			PackingApplicability: models.PackingApplicabilityItem,
			PackingChargeType:    models.PackingChargeFixed,
			PackingCharge:        10,
		}
		assert.Equal(t, 5.0, ItemPackingCharge(rest, 5, 100, table))
		assert.Equal(t, 10.0, ItemPackingCharge(rest, 0, 100, table))
	})

	t.Run("PercentOfItemPrice", func(t *testing.T) {
		rest := models.Restaurant{
			PackingApplicability: models.PackingApplicabilityItem,
			PackingChargeType:    models.PackingChargePercent,
			PackingCharge:        4,
		}
		assert.Equal(t, 8.0, ItemPackingCharge(rest, 0, 200, table))
	})

	t.Run("BackwardPackingTaxConverted", func(t *testing.T) {
		rest := models.Restaurant{
			PackingApplicability: models.PackingApplicabilityItem,
			PackingChargeType:    models.PackingChargeFixed,
			PackingCharge:        21,
			TaxOnPacking:         true,
			PackingTaxPosID:      "T1,T2",
		}
		// 21 inclusive of 5% backs out to 20.
		assert.Equal(t, 20.0, ItemPackingCharge(rest, 0, 100, table))
	})

	t.Run("ForwardPackingTaxLeavesChargeAlone", func(t *testing.T) {
		rest := models.Restaurant{
			PackingApplicability: models.PackingApplicabilityItem,
			PackingChargeType:    models.PackingChargeFixed,
			PackingCharge:        21,
			TaxOnPacking:         true,
			PackingTaxPosID:      "T3",
		}
		assert.Equal(t, 21.0, ItemPackingCharge(rest, 0, 100, table))
	})
}
