package menusync

import (
	"strings"

	"menu-sync/core/utils"
	"menu-sync/feature/menusync/models"
)

// TaxBreakdown is the effective tax resolved for one menu item from its
// referenced tax definitions.
type TaxBreakdown struct {
	CGST float64
	SGST float64
	// Backward is true when any referenced tax is computed backward,
	// i.e. the partner price is tax-inclusive and must be converted.
	Backward bool
}

// CombinedRate returns the total percentage rate.
func (t TaxBreakdown) CombinedRate() float64 {
	return t.CGST + t.SGST
}

// ResolveTaxes maps an item's referenced tax ids onto the already-upserted
// tax table. CGST and SGST components are told apart by tax name;
// a component named neither way counts toward CGST so the combined rate
// stays correct. Unknown or inactive references resolve to zero.
func ResolveTaxes(taxIDs []string, table map[string]models.Tax) TaxBreakdown {
	var out TaxBreakdown
	for _, id := range taxIDs {
		tax, ok := table[id]
		if !ok || !tax.Active {
			continue
		}
		name := strings.ToLower(tax.Name)
		if strings.Contains(name, "sgst") {
			out.SGST += tax.Rate
		} else {
			out.CGST += tax.Rate
		}
		if tax.Type == models.TaxTypeBackward {
			out.Backward = true
		}
	}
	return out
}

// PreTaxPrice converts a tax-inclusive price to its exclusive form:
// round(price / (1 + rate/100), 2).
func PreTaxPrice(price, combinedRate float64) float64 {
	if combinedRate <= 0 {
		return utils.Round2(price)
	}
	return utils.Round2(price / (1 + combinedRate/100))
}

// ItemPackingCharge computes the effective per-item packing charge under
// the restaurant's packing configuration.
//
// The charge only applies at item granularity; order-level packing is
// carried on the restaurant record and billed at order time. The item's
// own charge wins over the restaurant default. Percentage charges are
// taken from the item price. When packing is taxed and the referenced tax
// is backward, the configured charge is tax-inclusive and is converted
// with the same formula as item prices.
func ItemPackingCharge(rest models.Restaurant, itemCharge, itemPrice float64, table map[string]models.Tax) float64 {
	if rest.PackingApplicability != models.PackingApplicabilityItem {
		return 0
	}

	charge := itemCharge
	if charge <= 0 {
		charge = rest.PackingCharge
	}
	if rest.PackingChargeType == models.PackingChargePercent {
		charge = itemPrice * charge / 100
	}
	if charge <= 0 {
		return 0
	}

	if rest.TaxOnPacking {
		breakdown := ResolveTaxes(utils.SplitCSV(rest.PackingTaxPosID), table)
		if breakdown.Backward {
			return PreTaxPrice(charge, breakdown.CombinedRate())
		}
	}
	return utils.Round2(charge)
}
