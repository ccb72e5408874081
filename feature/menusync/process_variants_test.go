package menusync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menu-sync/core/reconcile"
	"menu-sync/feature/menusync/models"
)

func TestFlagDefaultVariants_CheapestWinsPerGroup(t *testing.T) {
	delta := reconcile.Delta[models.Variant]{
		Insert: []models.Variant{
			{VariantGroupID: 1, PosVariantItemID: "V1", Price: 55},
			{VariantGroupID: 1, PosVariantItemID: "V2", Price: 50},
			{VariantGroupID: 2, PosVariantItemID: "V3", Price: 10},
		},
	}
	flagDefaultVariants(&delta)

	assert.False(t, delta.Insert[0].IsDefault)
	assert.True(t, delta.Insert[1].IsDefault)
	assert.True(t, delta.Insert[2].IsDefault)
}

func TestFlagDefaultVariants_MissingVariantItemIDs(t *testing.T) {
	// Some partners omit the variant-item id; the election must still
	// produce exactly one default per group.
	delta := reconcile.Delta[models.Variant]{
		Insert: []models.Variant{
			{VariantGroupID: 1, Price: 40, Sequence: 1},
			{VariantGroupID: 1, Price: 40, Sequence: 2},
			{VariantGroupID: 1, Price: 60, Sequence: 3},
		},
	}
	flagDefaultVariants(&delta)

	defaults := 0
	for _, v := range delta.Insert {
		if v.IsDefault {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults)
	assert.True(t, delta.Insert[0].IsDefault, "price tie resolves to the lowest sequence")
}

func TestFlagDefaultVariants_PromotesUnchangedFlip(t *testing.T) {
	delta := reconcile.Delta[models.Variant]{
		Insert: []models.Variant{
			{VariantGroupID: 1, PosVariantItemID: "V9", Price: 5},
		},
		Unchanged: []models.Variant{
			{ID: 3, VariantGroupID: 1, PosVariantItemID: "V1", Price: 20, IsDefault: true},
			{ID: 4, VariantGroupID: 1, PosVariantItemID: "V2", Price: 30},
		},
	}
	flagDefaultVariants(&delta)

	assert.True(t, delta.Insert[0].IsDefault)
	require.Len(t, delta.Update, 1, "the demoted row must be persisted")
	assert.Equal(t, uint(3), delta.Update[0].ID)
	assert.False(t, delta.Update[0].IsDefault)
	assert.Len(t, delta.Unchanged, 1)
}
