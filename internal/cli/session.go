package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gravityplanner/gravity/internal/models"
	"github.com/gravityplanner/gravity/internal/store"
)

// SessionToggleCmd starts or ends a work session. Activities started while a
// session is active are tagged as official time.
type SessionToggleCmd struct {
	Type   string `short:"t" help:"Session type id. Defaults to the member's first configured type."`
	Member string `short:"m" help:"Member name or id. Defaults to the current member."`
}

func (c *SessionToggleCmd) Run(ctx *Context) error {
	s := ctx.App.Store.State()
	member, err := ResolveMember(s, c.Member)
	if err != nil {
		return err
	}
	wasActive := s.ActiveSessions[member.ID] != nil
	ctx.App.Store.Dispatch(store.ToggleSession{
		MemberID:      member.ID,
		SessionTypeID: c.Type,
		Now:           time.Now().UTC(),
	})
	if wasActive {
		fmt.Printf("Session ended for %s\n", member.Name)
	} else {
		fmt.Printf("Session started for %s\n", member.Name)
	}
	return nil
}

type SessionStatusCmd struct {
	Member string `short:"m" help:"Member name or id. Defaults to the current member."`
}

func (c *SessionStatusCmd) Run(ctx *Context) error {
	s := ctx.App.Store.State()
	member, err := ResolveMember(s, c.Member)
	if err != nil {
		return err
	}
	active := s.ActiveSessions[member.ID]
	if active == nil {
		fmt.Printf("No active session for %s\n", member.Name)
		return nil
	}
	label := active.SessionTypeID
	for _, st := range s.SessionTypes[member.ID] {
		if st.ID == active.SessionTypeID {
			label = st.Label
		}
	}
	fmt.Printf("%s: %s for %s\n", member.Name, label, FormatDuration(time.Since(active.StartedAt)))
	return nil
}

type SessionTypeAddCmd struct {
	Label  string  `arg:"" help:"Session type label (e.g. Office)."`
	Target float64 `short:"t" help:"Daily target hours."`
	Color  string  `short:"c" help:"Display color (hex)."`
	Member string  `short:"m" help:"Member name or id. Defaults to the current member."`
}

func (c *SessionTypeAddCmd) Run(ctx *Context) error {
	s := ctx.App.Store.State()
	member, err := ResolveMember(s, c.Member)
	if err != nil {
		return err
	}
	ctx.App.Store.Dispatch(store.AddSessionType{
		MemberID: member.ID,
		SessionType: models.SessionType{
			ID:          uuid.NewString(),
			Label:       c.Label,
			DailyTarget: c.Target,
			Color:       c.Color,
		},
	})
	fmt.Printf("Added session type %q for %s\n", c.Label, member.Name)
	return nil
}

type SessionTypeListCmd struct {
	Member string `short:"m" help:"Member name or id. Defaults to the current member."`
}

func (c *SessionTypeListCmd) Run(ctx *Context) error {
	s := ctx.App.Store.State()
	member, err := ResolveMember(s, c.Member)
	if err != nil {
		return err
	}
	for _, st := range s.SessionTypes[member.ID] {
		fmt.Printf("  %-16s %.1fh/day  %s\n", st.Label, st.DailyTarget, dimStyle.Render(st.ID))
	}
	return nil
}

type SessionTypeEditCmd struct {
	ID     string  `arg:"" help:"Session type id."`
	Label  string  `short:"l" help:"New label."`
	Target float64 `short:"t" help:"New daily target hours."`
	Color  string  `short:"c" help:"New display color (hex)."`
	Member string  `short:"m" help:"Member name or id. Defaults to the current member."`
}

func (c *SessionTypeEditCmd) Run(ctx *Context) error {
	s := ctx.App.Store.State()
	member, err := ResolveMember(s, c.Member)
	if err != nil {
		return err
	}
	var patch models.SessionTypePatch
	if c.Label != "" {
		patch.Label = &c.Label
	}
	if c.Target > 0 {
		patch.DailyTarget = &c.Target
	}
	if c.Color != "" {
		patch.Color = &c.Color
	}
	if patch.Label == nil && patch.DailyTarget == nil && patch.Color == nil {
		return fmt.Errorf("nothing to change")
	}
	ctx.App.Store.Dispatch(store.UpdateSessionType{MemberID: member.ID, ID: c.ID, Patch: patch})
	fmt.Println("Updated session type.")
	return nil
}

type SessionTypeRemoveCmd struct {
	ID     string `arg:"" help:"Session type id."`
	Member string `short:"m" help:"Member name or id. Defaults to the current member."`
}

func (c *SessionTypeRemoveCmd) Run(ctx *Context) error {
	s := ctx.App.Store.State()
	member, err := ResolveMember(s, c.Member)
	if err != nil {
		return err
	}
	ctx.App.Store.Dispatch(store.DeleteSessionType{MemberID: member.ID, ID: c.ID})
	fmt.Println("Removed session type.")
	return nil
}
