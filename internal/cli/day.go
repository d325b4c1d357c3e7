package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/gravityplanner/gravity/internal/constants"
	"github.com/gravityplanner/gravity/internal/timeline"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	gapStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
	liveStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88")).Bold(true)
	dimStyle   = lipgloss.NewStyle().Faint(true)
)

type DayCmd struct {
	Date   string `short:"D" help:"Date to show (YYYY-MM-DD). Defaults to today."`
	Member string `short:"m" help:"Member name or id. Defaults to the current member."`
}

func (c *DayCmd) Run(ctx *Context) error {
	s := ctx.App.Store.State()
	member, err := ResolveMember(s, c.Member)
	if err != nil {
		return err
	}
	now := time.Now()
	date := now
	if c.Date != "" {
		date, err = time.ParseInLocation(constants.DateFormat, c.Date, now.Location())
		if err != nil {
			return fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", c.Date)
		}
	}

	view := timeline.DayView(s, member.ID, date, now)
	fmt.Println(titleStyle.Render(fmt.Sprintf("%s, %s", member.Name, date.Format("Mon Jan 2"))))
	if len(view) == 0 {
		fmt.Println(dimStyle.Render("  nothing recorded"))
		return nil
	}

	for _, e := range view {
		line := renderEntry(e)
		fmt.Println(line)
	}
	return nil
}

func renderEntry(e timeline.Entry) string {
	span := fmt.Sprintf("%s - %s",
		e.StartTime.Local().Format(constants.TimeFormat),
		e.End().Local().Format(constants.TimeFormat))

	switch {
	case e.IsGap:
		return gapStyle.Render(fmt.Sprintf("  %s  %s (%s)", span, e.Title, FormatDuration(e.Duration())))
	case e.IsLive:
		return liveStyle.Render(fmt.Sprintf("  %s  %s [%s] (running, %s)",
			e.StartTime.Local().Format(constants.TimeFormat), e.Title, e.Category, FormatDuration(e.Duration())))
	case e.Duration() == 0:
		// Notes and reminders are instants.
		return dimStyle.Render(fmt.Sprintf("  %s          %s: %s",
			e.StartTime.Local().Format(constants.TimeFormat), e.Category, e.Title))
	default:
		return fmt.Sprintf("  %s  %s [%s] (%s)", span, e.Title, e.Category, FormatDuration(e.Duration()))
	}
}
