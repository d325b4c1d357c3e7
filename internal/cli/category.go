package cli

import (
	"fmt"
	"sort"

	"github.com/gravityplanner/gravity/internal/models"
	"github.com/gravityplanner/gravity/internal/store"
)

type CategoryAddCmd struct {
	ID    string `arg:"" help:"Short category id (e.g. deep_work)."`
	Label string `arg:"" help:"Display label."`
	Color string `short:"c" help:"Display color (hex)."`
	Icon  string `short:"i" help:"Icon name."`
}

func (c *CategoryAddCmd) Run(ctx *Context) error {
	ctx.App.Store.Dispatch(store.AddCategory{
		ID:       c.ID,
		Category: models.Category{Label: c.Label, Color: c.Color, Icon: c.Icon},
	})
	fmt.Printf("Added category %s (%s)\n", c.ID, c.Label)
	return nil
}

type CategoryListCmd struct{}

func (c *CategoryListCmd) Run(ctx *Context) error {
	s := ctx.App.Store.State()
	ids := make([]string, 0, len(s.Categories))
	for id := range s.Categories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Printf("  %-12s %s\n", id, s.Categories[id].Label)
	}
	return nil
}

type CategoryEditCmd struct {
	ID    string `arg:"" help:"Category id."`
	Label string `short:"l" help:"New display label."`
	Color string `short:"c" help:"New display color (hex)."`
	Icon  string `short:"i" help:"New icon name."`
}

func (c *CategoryEditCmd) Run(ctx *Context) error {
	s := ctx.App.Store.State()
	if _, ok := s.Categories[c.ID]; !ok {
		return fmt.Errorf("unknown category: %s", c.ID)
	}
	var patch models.CategoryPatch
	if c.Label != "" {
		patch.Label = &c.Label
	}
	if c.Color != "" {
		patch.Color = &c.Color
	}
	if c.Icon != "" {
		patch.Icon = &c.Icon
	}
	if patch.Label == nil && patch.Color == nil && patch.Icon == nil {
		return fmt.Errorf("nothing to change")
	}
	next := ctx.App.Store.Dispatch(store.UpdateCategory{ID: c.ID, Patch: patch})
	fmt.Printf("Updated category %s (%s)\n", c.ID, next.Categories[c.ID].Label)
	return nil
}

type CategoryRemoveCmd struct {
	ID string `arg:"" help:"Category id."`
}

func (c *CategoryRemoveCmd) Run(ctx *Context) error {
	s := ctx.App.Store.State()
	if _, ok := s.Categories[c.ID]; !ok {
		return fmt.Errorf("unknown category: %s", c.ID)
	}
	next := ctx.App.Store.Dispatch(store.DeleteCategory{ID: c.ID})
	if _, still := next.Categories[c.ID]; still {
		return fmt.Errorf("category %s is reserved and cannot be removed", c.ID)
	}
	fmt.Printf("Removed category %s\n", c.ID)
	return nil
}
