package cli

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/gravityplanner/gravity/internal/models"
	"github.com/gravityplanner/gravity/internal/store"
)

type GoalAddCmd struct {
	Title    string `arg:"" help:"Goal title."`
	Category string `short:"c" required:"" help:"Category the goal measures."`
	Target   int    `short:"t" required:"" help:"Target minutes per day."`
	Period   string `short:"p" enum:"day,week,month,year" default:"day" help:"Evaluation period."`
	Member   string `short:"m" help:"Member name or id. Defaults to the current member."`
}

func (c *GoalAddCmd) Run(ctx *Context) error {
	s := ctx.App.Store.State()
	member, err := ResolveMember(s, c.Member)
	if err != nil {
		return err
	}
	if _, ok := s.Categories[c.Category]; !ok {
		return fmt.Errorf("unknown category: %s", c.Category)
	}
	if c.Target <= 0 {
		return fmt.Errorf("target must be positive")
	}
	ctx.App.Store.Dispatch(store.AddGoal{
		ID:          uuid.NewString(),
		MemberID:    member.ID,
		Title:       c.Title,
		Category:    c.Category,
		TargetValue: c.Target,
		Period:      models.GoalPeriod(c.Period),
	})
	fmt.Printf("Added goal %q: %dm/day of %s\n", c.Title, c.Target, c.Category)
	return nil
}

type GoalListCmd struct {
	Member string `short:"m" help:"Member name or id. Defaults to the current member."`
}

func (c *GoalListCmd) Run(ctx *Context) error {
	s := ctx.App.Store.State()
	member, err := ResolveMember(s, c.Member)
	if err != nil {
		return err
	}
	for _, g := range s.Goals {
		if g.MemberID != member.ID {
			continue
		}
		fmt.Printf("  %-20s %dm/day of %-12s %s\n", g.Title, g.TargetValue, g.Category, dimStyle.Render(g.ID))
	}
	return nil
}

type GoalEditCmd struct {
	ID       string `arg:"" help:"Goal id."`
	Title    string `help:"New title."`
	Category string `short:"c" help:"New category."`
	Target   int    `short:"t" help:"New target minutes per day."`
	Period   string `short:"p" enum:"day,week,month,year,unchanged" default:"unchanged" help:"New evaluation period."`
}

func (c *GoalEditCmd) Run(ctx *Context) error {
	s := ctx.App.Store.State()
	if _, ok := s.GoalByID(c.ID); !ok {
		return fmt.Errorf("unknown goal: %s", c.ID)
	}
	var patch models.GoalPatch
	if c.Title != "" {
		patch.Title = &c.Title
	}
	if c.Category != "" {
		if _, ok := s.Categories[c.Category]; !ok {
			return fmt.Errorf("unknown category: %s", c.Category)
		}
		patch.Category = &c.Category
	}
	if c.Target > 0 {
		patch.TargetValue = &c.Target
	}
	if c.Period != "unchanged" {
		period := models.GoalPeriod(c.Period)
		patch.Period = &period
	}
	if patch.Title == nil && patch.Category == nil && patch.TargetValue == nil && patch.Period == nil {
		return fmt.Errorf("nothing to change")
	}
	next := ctx.App.Store.Dispatch(store.UpdateGoal{ID: c.ID, Patch: patch})
	g, _ := next.GoalByID(c.ID)
	fmt.Printf("Updated goal %q: %dm/day of %s\n", g.Title, g.TargetValue, g.Category)
	return nil
}

type GoalRemoveCmd struct {
	ID string `arg:"" help:"Goal id."`
}

func (c *GoalRemoveCmd) Run(ctx *Context) error {
	s := ctx.App.Store.State()
	if _, ok := s.GoalByID(c.ID); !ok {
		return fmt.Errorf("unknown goal: %s", c.ID)
	}
	ctx.App.Store.Dispatch(store.DeleteGoal{ID: c.ID})
	fmt.Println("Removed goal.")
	return nil
}
