package cli

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/gravityplanner/gravity/internal/constants"
	"github.com/gravityplanner/gravity/internal/models"
	"github.com/gravityplanner/gravity/internal/store"
)

type MemberAddCmd struct {
	Name  string `arg:"" help:"Member name."`
	Role  string `short:"r" enum:"admin,partner,child" default:"partner" help:"Member role."`
	Color string `short:"c" help:"Display color (hex)."`
}

func (c *MemberAddCmd) Run(ctx *Context) error {
	if err := ctx.RequirePin(); err != nil {
		return err
	}
	next := ctx.App.Store.Dispatch(store.AddMember{
		ID:    uuid.NewString(),
		Name:  c.Name,
		Role:  models.MemberRole(c.Role),
		Color: c.Color,
	})
	if _, err := ResolveMember(next, c.Name); err != nil {
		return fmt.Errorf("failed to add member")
	}
	fmt.Printf("Added member %s (%s)\n", c.Name, c.Role)
	return nil
}

type MemberListCmd struct{}

func (c *MemberListCmd) Run(ctx *Context) error {
	s := ctx.App.Store.State()
	for _, m := range s.Members {
		marker := " "
		if m.ID == s.CurrentMemberID {
			marker = "*"
		}
		fmt.Printf("%s %-16s %-8s %s\n", marker, m.Name, m.Role, dimStyle.Render(m.ID))
	}
	return nil
}

type MemberEditCmd struct {
	Member string `arg:"" help:"Member name or id."`
	Name   string `help:"New name."`
	Role   string `short:"r" enum:"admin,partner,child,unchanged" default:"unchanged" help:"New role."`
	Color  string `short:"c" help:"New display color (hex)."`
}

func (c *MemberEditCmd) Run(ctx *Context) error {
	if err := ctx.RequirePin(); err != nil {
		return err
	}
	s := ctx.App.Store.State()
	m, err := ResolveMember(s, c.Member)
	if err != nil {
		return err
	}
	action := store.UpdateMember{ID: m.ID}
	if c.Name != "" {
		action.Name = &c.Name
	}
	if c.Role != "unchanged" {
		role := models.MemberRole(c.Role)
		action.Role = &role
	}
	if c.Color != "" {
		action.Color = &c.Color
	}
	if action.Name == nil && action.Role == nil && action.Color == nil {
		return fmt.Errorf("nothing to change")
	}
	next := ctx.App.Store.Dispatch(action)
	updated, _ := next.MemberByID(m.ID)
	fmt.Printf("Updated member %s (%s)\n", updated.Name, updated.Role)
	return nil
}

type MemberRemoveCmd struct {
	Member string `arg:"" help:"Member name or id."`
}

func (c *MemberRemoveCmd) Run(ctx *Context) error {
	if err := ctx.RequirePin(); err != nil {
		return err
	}
	s := ctx.App.Store.State()
	m, err := ResolveMember(s, c.Member)
	if err != nil {
		return err
	}
	if m.ID == constants.PrimaryMemberID {
		return fmt.Errorf("the primary member cannot be removed")
	}
	ctx.App.Store.Dispatch(store.DeleteMember{ID: m.ID})
	fmt.Printf("Removed member %s\n", m.Name)
	return nil
}

type MemberSwitchCmd struct {
	Member string `arg:"" help:"Member name or id."`
}

func (c *MemberSwitchCmd) Run(ctx *Context) error {
	s := ctx.App.Store.State()
	m, err := ResolveMember(s, c.Member)
	if err != nil {
		return err
	}
	ctx.App.Store.Dispatch(store.SwitchMember{ID: m.ID})
	fmt.Printf("Now tracking as %s\n", m.Name)
	return nil
}
