package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/gravityplanner/gravity/internal/store"
)

// AddCmd records a closed activity after the fact. Missing fields are
// collected interactively.
type AddCmd struct {
	Title       string `arg:"" optional:"" help:"What you did."`
	From        string `short:"f" help:"Start time (HH:MM or YYYY-MM-DD HH:MM)."`
	To          string `short:"t" help:"End time (HH:MM or YYYY-MM-DD HH:MM)."`
	Category    string `short:"c" help:"Category id. Inferred from the title when omitted."`
	Description string `short:"d" help:"Optional details."`
	Member      string `short:"m" help:"Member name or id. Defaults to the current member."`
}

func (c *AddCmd) Run(ctx *Context) error {
	s := ctx.App.Store.State()
	member, err := ResolveMember(s, c.Member)
	if err != nil {
		return err
	}

	if c.Title == "" || c.From == "" || c.To == "" {
		form := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Title").Value(&c.Title).
				Validate(func(v string) error {
					if v == "" {
						return fmt.Errorf("title is required")
					}
					return nil
				}),
			huh.NewInput().Title("From (HH:MM)").Value(&c.From),
			huh.NewInput().Title("To (HH:MM)").Value(&c.To),
			huh.NewInput().Title("Description").Value(&c.Description),
		))
		if err := form.Run(); err != nil {
			return err
		}
	}

	now := time.Now()
	from, err := ParseWhen(c.From, now)
	if err != nil {
		return fmt.Errorf("invalid --from: %w", err)
	}
	to, err := ParseWhen(c.To, now)
	if err != nil {
		return fmt.Errorf("invalid --to: %w", err)
	}
	if !to.After(from) {
		return fmt.Errorf("end must be after start")
	}
	if c.Category != "" {
		if _, ok := s.Categories[c.Category]; !ok {
			return fmt.Errorf("unknown category: %s", c.Category)
		}
	}

	ctx.App.AddRetroactive(member.ID, c.Title, c.Description, c.Category, from, to)
	fmt.Printf("Added %q (%s) for %s\n", c.Title, FormatDuration(to.Sub(from)), member.Name)
	return nil
}

type NoteCmd struct {
	Title       string `arg:"" help:"Note text."`
	Description string `short:"d" help:"Optional details."`
	Member      string `short:"m" help:"Member name or id."`
}

func (c *NoteCmd) Run(ctx *Context) error {
	s := ctx.App.Store.State()
	member, err := ResolveMember(s, c.Member)
	if err != nil {
		return err
	}
	ctx.App.AddNote(member.ID, c.Title, c.Description)
	fmt.Printf("Noted: %q\n", c.Title)
	return nil
}

type ReminderCmd struct {
	Title       string `arg:"" help:"Reminder text."`
	At          string `short:"a" help:"When to surface it (HH:MM or YYYY-MM-DD HH:MM). Defaults to now."`
	Description string `short:"d" help:"Optional details."`
	Member      string `short:"m" help:"Member name or id."`
}

func (c *ReminderCmd) Run(ctx *Context) error {
	s := ctx.App.Store.State()
	member, err := ResolveMember(s, c.Member)
	if err != nil {
		return err
	}
	var at time.Time
	if c.At != "" {
		at, err = ParseWhen(c.At, time.Now())
		if err != nil {
			return err
		}
	}
	ctx.App.AddReminder(member.ID, c.Title, c.Description, at)
	fmt.Printf("Reminder set: %q\n", c.Title)
	return nil
}

// DoneCmd toggles the completed flag of a note or reminder.
type DoneCmd struct {
	ID string `arg:"" help:"Record id (prefix accepted)."`
}

func (c *DoneCmd) Run(ctx *Context) error {
	s := ctx.App.Store.State()
	id, err := expandID(s, c.ID)
	if err != nil {
		return err
	}
	next := ctx.App.Store.Dispatch(store.ToggleCompleted{ID: id})
	act, _ := next.ActivityByID(id)
	state := "open"
	if act.Completed {
		state = "done"
	}
	fmt.Printf("%q is now %s\n", act.Title, state)
	return nil
}

// AckCmd acknowledges a reminder so it stops surfacing.
type AckCmd struct {
	ID string `arg:"" help:"Reminder id (prefix accepted)."`
}

func (c *AckCmd) Run(ctx *Context) error {
	s := ctx.App.Store.State()
	id, err := expandID(s, c.ID)
	if err != nil {
		return err
	}
	ctx.App.Store.Dispatch(store.AcknowledgeReminder{ID: id})
	fmt.Println("Acknowledged.")
	return nil
}

// expandID resolves a unique id prefix against the activity log.
func expandID(s store.State, prefix string) (string, error) {
	var match string
	for _, a := range s.Activities {
		if a.ID == prefix {
			return a.ID, nil
		}
		if len(prefix) >= 4 && len(a.ID) > len(prefix) && a.ID[:len(prefix)] == prefix {
			if match != "" {
				return "", fmt.Errorf("ambiguous id prefix: %s", prefix)
			}
			match = a.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("no record matches id: %s", prefix)
	}
	return match, nil
}
