package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gravityplanner/gravity/internal/constants"
	"github.com/gravityplanner/gravity/internal/models"
	"github.com/gravityplanner/gravity/internal/timeline"
)

func (m Model) View() string {
	s := m.app.Store.State()
	now := time.Now()

	var b strings.Builder

	b.WriteString(headerStyle.Render(m.date.Format("Monday, January 2")))
	b.WriteString("  ")
	b.WriteString(statusStyle.Render(string(m.app.SyncStatus())))
	b.WriteString("\n")

	for _, mem := range s.Members {
		style := memberStyle
		if mem.ID == m.memberID {
			style = memberActiveStyle
		}
		name := mem.Name
		if s.ActiveSessions[mem.ID] != nil {
			name += " ●"
		}
		b.WriteString(style.Render(name))
	}
	b.WriteString("\n\n")

	view := timeline.DayView(s, m.memberID, m.date, now)
	if len(view) == 0 {
		b.WriteString(dimStyle.Render("  nothing recorded"))
		b.WriteString("\n")
	}
	for _, e := range view {
		b.WriteString(m.renderEntry(e))
		b.WriteString("\n")
	}

	if m.showStats {
		b.WriteString("\n")
		b.WriteString(m.renderStats(now))
	}

	if m.mode == modeStartInput {
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return docStyle.Render(b.String())
}

func (m Model) renderEntry(e timeline.Entry) string {
	span := fmt.Sprintf("%s-%s",
		e.StartTime.Local().Format(constants.TimeFormat),
		e.End().Local().Format(constants.TimeFormat))

	switch {
	case e.IsGap:
		return gapStyle.Render(fmt.Sprintf("  %s  %s (%s)", span, e.Title, formatDur(e.Duration())))
	case e.IsLive:
		return liveStyle.Render(fmt.Sprintf("  %s  ▶ %s [%s] %s",
			e.StartTime.Local().Format(constants.TimeFormat), e.Title, e.Category, formatDur(e.Duration())))
	case e.Type == models.ActivityTypeNote || e.Type == models.ActivityTypeReminder:
		return noteStyle.Render(fmt.Sprintf("  %s        %s: %s",
			e.StartTime.Local().Format(constants.TimeFormat), e.Category, e.Title))
	default:
		return fmt.Sprintf("  %s  %s [%s] (%s)", span, e.Title, e.Category, formatDur(e.Duration()))
	}
}

func (m Model) renderStats(now time.Time) string {
	s := m.app.Store.State()
	from, to := timeline.PeriodInterval(models.PeriodDay, m.date)
	sum := timeline.Aggregate(s, m.memberID, from, to, now)
	if sum.Total == 0 {
		return dimStyle.Render("  no tracked time")
	}

	ids := make([]string, 0, len(sum.ByCategory))
	for id := range sum.ByCategory {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if sum.ByCategory[ids[i]] != sum.ByCategory[ids[j]] {
			return sum.ByCategory[ids[i]] > sum.ByCategory[ids[j]]
		}
		return ids[i] < ids[j]
	})

	var b strings.Builder
	for _, id := range ids {
		label := id
		if cat, ok := s.Categories[id]; ok {
			label = cat.Label
		}
		line := fmt.Sprintf("  %-14s %s", label, formatDur(sum.ByCategory[id]))
		if id == constants.CategoryNothing {
			line = gapStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("  %-14s %s", "total", formatDur(sum.Total)))
	return b.String()
}

func formatDur(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	h := int(d.Hours())
	mins := int(d.Minutes()) % 60
	if h == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%dh%02dm", h, mins)
}
