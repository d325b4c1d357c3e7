package cli

import (
	"fmt"
	"time"

	"github.com/gravityplanner/gravity/internal/models"
	"github.com/gravityplanner/gravity/internal/store"
)

// EditCmd patches an existing record. Only the fields given as flags change.
type EditCmd struct {
	ID          string `arg:"" help:"Record id (prefix accepted)."`
	Title       string `help:"New title."`
	Description string `short:"d" help:"New description."`
	Category    string `short:"c" help:"New category id."`
	From        string `short:"f" help:"New start time (HH:MM or YYYY-MM-DD HH:MM)."`
	To          string `short:"t" help:"New end time (HH:MM or YYYY-MM-DD HH:MM)."`
	Reopen      bool   `help:"Clear the end time so the activity is live again."`
}

func (c *EditCmd) Run(ctx *Context) error {
	s := ctx.App.Store.State()
	id, err := expandID(s, c.ID)
	if err != nil {
		return err
	}
	act, _ := s.ActivityByID(id)

	var patch models.ActivityPatch
	if c.Title != "" {
		patch.Title = &c.Title
	}
	if c.Description != "" {
		patch.Description = &c.Description
	}
	if c.Category != "" {
		if _, ok := s.Categories[c.Category]; !ok {
			return fmt.Errorf("unknown category: %s", c.Category)
		}
		patch.Category = &c.Category
	}
	if c.From != "" {
		from, err := ParseWhen(c.From, act.StartTime)
		if err != nil {
			return fmt.Errorf("invalid --from: %w", err)
		}
		patch.StartTime = &from
	}
	if c.Reopen {
		patch.ClearEnd = true
	} else if c.To != "" {
		to, err := ParseWhen(c.To, act.StartTime)
		if err != nil {
			return fmt.Errorf("invalid --to: %w", err)
		}
		patch.EndTime = &to
	}
	if patch.IsZero() {
		return fmt.Errorf("nothing to change")
	}

	start := act.StartTime
	if patch.StartTime != nil {
		start = *patch.StartTime
	}
	var end *time.Time
	if !patch.ClearEnd {
		end = act.EndTime
		if patch.EndTime != nil {
			end = patch.EndTime
		}
	}
	if end != nil && end.Before(start) {
		return fmt.Errorf("end time is before the start time")
	}

	next := ctx.App.Store.Dispatch(store.UpdateActivity{ID: id, Patch: patch})
	updated, _ := next.ActivityByID(id)
	fmt.Printf("Updated %q [%s]\n", updated.Title, updated.Category)
	return nil
}
