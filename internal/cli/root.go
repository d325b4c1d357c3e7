// Package cli implements the command surface. Commands are thin: they parse
// input, dispatch actions through the app, and render the resulting state.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/gravityplanner/gravity/internal/app"
	"github.com/gravityplanner/gravity/internal/constants"
	"github.com/gravityplanner/gravity/internal/models"
	"github.com/gravityplanner/gravity/internal/pin"
	"github.com/gravityplanner/gravity/internal/store"
)

type Context struct {
	App *app.App
}

// ResolveMember maps a member name or id to the member, defaulting to the
// current member when the query is empty.
func ResolveMember(s store.State, query string) (models.Member, error) {
	if query == "" {
		if m, ok := s.MemberByID(s.CurrentMemberID); ok {
			return m, nil
		}
		return models.Member{}, fmt.Errorf("no current member")
	}
	for _, m := range s.Members {
		if m.ID == query || strings.EqualFold(m.Name, query) {
			return m, nil
		}
	}
	return models.Member{}, fmt.Errorf("unknown member: %s", query)
}

// RequirePin gates an administrative command behind the parent PIN when one
// is set.
func (c *Context) RequirePin() error {
	s := c.App.Store.State()
	if s.ParentPin == "" {
		return nil
	}
	var entered string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Parent PIN").
			EchoMode(huh.EchoModePassword).
			Value(&entered),
	))
	if err := form.Run(); err != nil {
		return err
	}
	if !pin.Verify(entered, s.ParentPin) {
		return fmt.Errorf("incorrect PIN")
	}
	return nil
}

// ParseWhen parses a point in time: HH:MM (today), YYYY-MM-DD (midnight), or
// both combined.
func ParseWhen(input string, ref time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	ref = ref.Local()
	if t, err := time.ParseInLocation(constants.TimeFormat, input, ref.Location()); err == nil {
		y, m, d := ref.Date()
		return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, ref.Location()), nil
	}
	if t, err := time.ParseInLocation(constants.DateFormat, input, ref.Location()); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(constants.DateFormat+" "+constants.TimeFormat, input, ref.Location()); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid time %q (expected HH:MM, YYYY-MM-DD, or both)", input)
}

// FormatDuration renders a duration as 1h05m / 12m / 45s.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh%02dm", h, m)
}
