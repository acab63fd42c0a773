package ledger

import (
	"context"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"moneyx/internal/core"
	"moneyx/internal/store"
)

// paletteColor picks the color of the n-th category created without one.
// Hues step by the golden angle so neighbours stay distinguishable.
func paletteColor(n int) string {
	hue := math.Mod(float64(n)*137.508, 360)
	return colorful.Hcl(hue, 0.55, 0.65).Clamped().Hex()
}

type NewCategory struct {
	Name  string
	Type  core.CategoryType
	Color string
}

type CategoryPatch struct {
	Name  *string
	Type  *core.CategoryType
	Color *string
}

func (s *Service) AddCategory(ctx context.Context, in NewCategory) (core.Category, error) {
	var created core.Category
	o := &outcome{
		op:        "add category",
		title:     "Category added",
		failTitle: "Failed to add category",
		failDesc:  "An error occurred while adding the category",
	}
	err := s.run(ctx, o, func(st *store.State) error {
		c := core.Category{
			ID:    s.newID("cat"),
			Name:  in.Name,
			Type:  in.Type,
			Color: in.Color,
		}
		if c.Color == "" {
			c.Color = paletteColor(len(st.Categories))
		}
		if err := c.Validate(); err != nil {
			return core.Invalid(o.op, err)
		}
		st.Categories = append(st.Categories, c)
		created = c
		o.description = c.Name + " category has been added successfully"
		return nil
	})
	return created, err
}

// UpdateCategory edits a category in place. Transactions refer to it by id,
// so every reader sees the change immediately.
func (s *Service) UpdateCategory(ctx context.Context, id string, patch CategoryPatch) (core.Category, error) {
	var updated core.Category
	o := &outcome{
		op:        "update category",
		title:     "Category updated",
		failTitle: "Failed to update category",
		failDesc:  "An error occurred while updating the category",
	}
	err := s.run(ctx, o, func(st *store.State) error {
		c := st.Category(id)
		if c == nil {
			return core.NotFound(o.op, "category", id)
		}
		if patch.Name != nil {
			c.Name = *patch.Name
		}
		if patch.Type != nil {
			c.Type = *patch.Type
		}
		if patch.Color != nil {
			c.Color = *patch.Color
		}
		if err := c.Validate(); err != nil {
			return core.Invalid(o.op, err)
		}
		updated = *c
		o.description = c.Name + " has been updated"
		return nil
	})
	return updated, err
}

// DeleteCategory removes a category nothing refers to.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	o := &outcome{
		op:        "delete category",
		title:     "Category deleted",
		failTitle: "Cannot delete category",
		failDesc:  "An error occurred while deleting the category",
	}
	return s.run(ctx, o, func(st *store.State) error {
		c := st.Category(id)
		if c == nil {
			return core.NotFound(o.op, "category", id)
		}
		for _, tx := range st.Transactions {
			if tx.CategoryID == id {
				return core.InUse(o.op, "category", id,
					"This category is being used by transactions. Please reassign those transactions first.")
			}
		}
		for _, b := range st.Bills {
			if b.CategoryID == id {
				return core.InUse(o.op, "category", id, "This category is used by the bill "+b.Name+".")
			}
		}
		for _, bud := range st.Budgets {
			for _, line := range bud.Categories {
				if line.CategoryID == id {
					return core.InUse(o.op, "category", id, "This category has a budget allocation. Remove it from the budget first.")
				}
			}
		}
		o.description = c.Name + " has been removed"
		st.RemoveCategory(id)
		return nil
	})
}
