package menusync

import (
	"context"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"menu-sync/core/reconcile"
	"menu-sync/feature/menusync/models"
)

func mainCatKey(m models.MainCategory) string { return m.PosID }

func adoptMainCat(c *models.MainCategory, prev models.MainCategory) {
	c.ID = prev.ID
	c.CreatedAt = prev.CreatedAt
	c.UpdatedAt = prev.UpdatedAt
}

// processMainCategories reconciles the parent-category level. The
// normalizer has already injected the synthetic NOTA bucket if any
// sub-category references the "no parent" sentinel.
func (c *Coordinator) processMainCategories(ctx context.Context, snap *models.Snapshot, restaurantID uint) (reconciled[models.MainCategory], error) {
	var out reconciled[models.MainCategory]

	candidates := c.norm.MainCategoryCandidates(snap, restaurantID)
	existing, err := c.repo.LockMainCategories(ctx, restaurantID)
	if err != nil {
		return out, err
	}

	delta := reconcile.Diff(candidates, existing, mainCatKey, adoptMainCat)
	doomed := activeOnly(delta.Delete, func(m models.MainCategory) bool { return m.IsDeleted })
	if err := applyDelta(ctx, c.repo.tx, "main category", &delta, ids(doomed, func(m models.MainCategory) uint { return m.ID })); err != nil {
		return out, err
	}

	out.rows = delta.Live()
	out.deleted = delta.Delete
	out.changes = deltaChanges(delta, doomed)
	c.log.Debug("main categories reconciled",
		zap.Int("inserted", out.changes.Inserted),
		zap.Int("updated", out.changes.Updated),
		zap.Int("deleted", out.changes.Deleted))
	return out, nil
}

func subCatKey(s models.SubCategory) string { return s.PosID }

func adoptSubCat(c *models.SubCategory, prev models.SubCategory) {
	c.ID = prev.ID
	c.CreatedAt = prev.CreatedAt
	c.UpdatedAt = prev.UpdatedAt
}

// processSubCategories reconciles the category level under the
// already-reconciled main categories. An unresolvable parent reference is
// a hard error; references to parents deleted this pass drop the
// candidate silently.
func (c *Coordinator) processSubCategories(ctx context.Context, snap *models.Snapshot, restaurantID uint, mains reconciled[models.MainCategory]) (reconciled[models.SubCategory], error) {
	var out reconciled[models.SubCategory]

	candidates := c.norm.SubCategoryCandidates(snap, restaurantID)
	idx := index(mains,
		func(m models.MainCategory) string { return m.PosID },
		func(m models.MainCategory) uint { return m.ID })

	resolved, skipped, errs := resolveParents("sub-category", candidates, idx,
		func(s models.SubCategory) string { return s.PosID },
		func(s models.SubCategory) string { return s.Name },
		func(s *models.SubCategory, parentID uint) { s.MainCategoryID = parentID })
	if len(errs) > 0 {
		return out, multierr.Combine(errs...)
	}

	parentScope := make([]uint, 0, len(mains.rows)+len(mains.deleted))
	parentScope = append(parentScope, ids(mains.rows, func(m models.MainCategory) uint { return m.ID })...)
	parentScope = append(parentScope, ids(mains.deleted, func(m models.MainCategory) uint { return m.ID })...)
	existing, err := c.repo.LockSubCategories(ctx, parentScope)
	if err != nil {
		return out, err
	}

	delta := reconcile.Diff(resolved, existing, subCatKey, adoptSubCat)
	doomed := activeOnly(delta.Delete, func(s models.SubCategory) bool { return s.IsDeleted })
	if err := applyDelta(ctx, c.repo.tx, "sub category", &delta, ids(doomed, func(s models.SubCategory) uint { return s.ID })); err != nil {
		return out, err
	}

	out.rows = delta.Live()
	out.deleted = delta.Delete
	out.skippedPos = skipped
	out.changes = deltaChanges(delta, doomed)
	c.log.Debug("sub categories reconciled",
		zap.Int("inserted", out.changes.Inserted),
		zap.Int("updated", out.changes.Updated),
		zap.Int("deleted", out.changes.Deleted),
		zap.Int("skipped", len(skipped)))
	return out, nil
}
