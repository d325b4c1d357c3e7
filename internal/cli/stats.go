package cli

import (
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/gravityplanner/gravity/internal/constants"
	"github.com/gravityplanner/gravity/internal/models"
	"github.com/gravityplanner/gravity/internal/timeline"
)

type StatsCmd struct {
	Period string `short:"p" enum:"day,week,month,year" default:"day" help:"Aggregation period."`
	Member string `short:"m" help:"Member name or id. Defaults to the current member."`
}

func (c *StatsCmd) Run(ctx *Context) error {
	s := ctx.App.Store.State()
	member, err := ResolveMember(s, c.Member)
	if err != nil {
		return err
	}

	period := models.GoalPeriod(c.Period)
	now := time.Now()
	from, to := timeline.PeriodInterval(period, now)
	sum := timeline.Aggregate(s, member.ID, from, to, now)

	fmt.Println(titleStyle.Render(fmt.Sprintf("%s, this %s", member.Name, c.Period)))
	if sum.Total == 0 && sum.Notes == 0 && sum.Reminders == 0 {
		fmt.Println(dimStyle.Render("  nothing tracked"))
		return nil
	}

	type row struct {
		id string
		d  time.Duration
	}
	rows := make([]row, 0, len(sum.ByCategory))
	for id, d := range sum.ByCategory {
		rows = append(rows, row{id, d})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].d != rows[j].d {
			return rows[i].d > rows[j].d
		}
		return rows[i].id < rows[j].id
	})

	for _, r := range rows {
		label := r.id
		if cat, ok := s.Categories[r.id]; ok {
			label = cat.Label
		}
		line := fmt.Sprintf("  %-14s %8s  %s", label, FormatDuration(r.d), bar(r.d, sum.Total))
		if r.id == constants.CategoryNothing {
			line = gapStyle.Render(line)
		}
		fmt.Println(line)
	}

	fmt.Printf("  %-14s %8s\n", "total", FormatDuration(sum.Total))
	if sum.Official > 0 {
		fmt.Printf("  %-14s %8s (%.0f%%)\n", "official", FormatDuration(sum.Official), sum.OfficialShare()*100)
	}
	if sum.Notes > 0 || sum.Reminders > 0 {
		fmt.Println(dimStyle.Render(fmt.Sprintf("  %d notes, %d reminders", sum.Notes, sum.Reminders)))
	}

	printGoals(s.Goals, member.ID, sum, period)
	return nil
}

func printGoals(goals []models.Goal, memberID string, sum timeline.Summary, period models.GoalPeriod) {
	var mine []models.Goal
	for _, g := range goals {
		if g.MemberID == memberID {
			mine = append(mine, g)
		}
	}
	if len(mine) == 0 {
		return
	}
	fmt.Println()
	fmt.Println(titleStyle.Render("Goals"))
	for _, g := range mine {
		p := timeline.Progress(g, sum, period)
		mark := " "
		if p.Completed {
			mark = "✓"
		}
		fmt.Printf("  %s %-20s %s / %s (%.0f%%)\n",
			mark, g.Title, FormatDuration(p.Achieved), FormatDuration(p.Target), p.Percent)
	}
}

func bar(d, total time.Duration) string {
	if total <= 0 {
		return ""
	}
	width := int(float64(d) / float64(total) * 24)
	out := ""
	for i := 0; i < width; i++ {
		out += "█"
	}
	return lipgloss.NewStyle().Faint(true).Render(out)
}
