package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/gravityplanner/gravity/internal/store"
)

type StartCmd struct {
	Title       string `arg:"" help:"What you are doing."`
	Category    string `short:"c" help:"Category id. Inferred from the title when omitted."`
	Description string `short:"d" help:"Optional details."`
	Member      string `short:"m" help:"Member name or id. Defaults to the current member."`
}

func (c *StartCmd) Run(ctx *Context) error {
	s := ctx.App.Store.State()
	member, err := ResolveMember(s, c.Member)
	if err != nil {
		return err
	}
	if c.Category != "" {
		if _, ok := s.Categories[c.Category]; !ok {
			return fmt.Errorf("unknown category: %s", c.Category)
		}
	}

	prev, hadOpen := s.OpenActivity(member.ID)
	next := ctx.App.StartActivity(member.ID, c.Title, c.Description, c.Category)

	act, ok := next.OpenActivity(member.ID)
	if !ok {
		return fmt.Errorf("failed to start activity")
	}
	if hadOpen {
		fmt.Printf("Stopped %q (%s)\n", prev.Title, FormatDuration(time.Since(prev.StartTime)))
	}
	fmt.Printf("Started %q [%s] for %s\n", act.Title, act.Category, member.Name)
	return nil
}

type StopCmd struct {
	Member string `short:"m" help:"Member name or id. Defaults to the current member."`
}

func (c *StopCmd) Run(ctx *Context) error {
	s := ctx.App.Store.State()
	member, err := ResolveMember(s, c.Member)
	if err != nil {
		return err
	}
	open, ok := s.OpenActivity(member.ID)
	if !ok {
		fmt.Printf("Nothing running for %s\n", member.Name)
		return nil
	}
	ctx.App.StopActivity(member.ID)
	fmt.Printf("Stopped %q (%s)\n", open.Title, FormatDuration(time.Since(open.StartTime)))
	return nil
}

// ResolveCmd seals activities left open across a day boundary.
type ResolveCmd struct {
	End string `short:"e" help:"End time (HH:MM or YYYY-MM-DD HH:MM). Defaults to end of the start day."`
}

func (c *ResolveCmd) Run(ctx *Context) error {
	stale := ctx.App.Stale()
	if len(stale) == 0 {
		fmt.Println("No stale activities.")
		return nil
	}
	s := ctx.App.Store.State()
	for _, st := range stale {
		end := st.SuggestedEnd
		if c.End != "" {
			parsed, err := ParseWhen(c.End, st.Activity.StartTime)
			if err != nil {
				return err
			}
			end = parsed
		}
		if end.Before(st.Activity.StartTime) {
			return fmt.Errorf("end time is before the activity started")
		}
		ctx.App.Store.Dispatch(store.ResolveStaleActivity{MemberID: st.MemberID, EndTime: end})

		name := st.MemberID
		if m, ok := s.MemberByID(st.MemberID); ok {
			name = m.Name
		}
		fmt.Printf("Resolved %q for %s, ended %s\n",
			st.Activity.Title, name, end.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

// LearnCmd teaches the categorizer a keyword.
type LearnCmd struct {
	Keyword  string `arg:"" help:"Keyword to match in titles."`
	Category string `arg:"" help:"Category id to assign."`
}

func (c *LearnCmd) Run(ctx *Context) error {
	s := ctx.App.Store.State()
	if _, ok := s.Categories[c.Category]; !ok {
		return fmt.Errorf("unknown category: %s", c.Category)
	}
	ctx.App.Store.Dispatch(store.LearnRule{Keyword: strings.ToLower(c.Keyword), Category: c.Category})
	fmt.Printf("Learned: %q -> %s\n", strings.ToLower(c.Keyword), c.Category)
	return nil
}
