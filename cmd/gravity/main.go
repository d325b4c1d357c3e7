package main

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/gravityplanner/gravity/internal/app"
	"github.com/gravityplanner/gravity/internal/cli"
	"github.com/gravityplanner/gravity/internal/config"
	"github.com/gravityplanner/gravity/internal/errors"
)

var CLI struct {
	Version kong.VersionFlag
	Debug   bool `help:"Enable verbose logging to stderr."`

	Init    cli.InitCmd    `cmd:"" help:"Initialize local storage and optionally configure sync."`
	Tui     cli.TuiCmd     `cmd:"" help:"Launch the interactive day view." default:"1"`
	Start   cli.StartCmd   `cmd:"" help:"Start a live activity."`
	Stop    cli.StopCmd    `cmd:"" help:"Stop the running activity."`
	Resolve cli.ResolveCmd `cmd:"" help:"Resolve activities left open across a day boundary."`
	Add     cli.AddCmd     `cmd:"" help:"Record a past activity."`
	Edit    cli.EditCmd    `cmd:"" help:"Edit a recorded activity."`
	Note    cli.NoteCmd    `cmd:"" help:"Record a note."`
	Remind  cli.ReminderCmd `cmd:"" help:"Set a reminder."`
	Done    cli.DoneCmd    `cmd:"" help:"Toggle a note or reminder completed."`
	Ack     cli.AckCmd     `cmd:"" help:"Acknowledge a reminder."`
	Learn   cli.LearnCmd   `cmd:"" help:"Teach the categorizer a keyword."`
	Day     cli.DayCmd     `cmd:"" help:"Show the day timeline."`
	Stats   cli.StatsCmd   `cmd:"" help:"Show aggregated time per category."`
	Doctor  cli.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Sync    cli.SyncCmd    `cmd:"" help:"Show sync status."`

	Member struct {
		Add    cli.MemberAddCmd    `cmd:"" help:"Add a family member."`
		List   cli.MemberListCmd   `cmd:"" help:"List members." default:"1"`
		Edit   cli.MemberEditCmd   `cmd:"" help:"Edit a member."`
		Remove cli.MemberRemoveCmd `cmd:"" help:"Remove a member."`
		Switch cli.MemberSwitchCmd `cmd:"" help:"Switch the current member."`
	} `cmd:"" help:"Manage family members."`

	Category struct {
		Add    cli.CategoryAddCmd    `cmd:"" help:"Add a category."`
		List   cli.CategoryListCmd   `cmd:"" help:"List categories." default:"1"`
		Edit   cli.CategoryEditCmd   `cmd:"" help:"Edit a category."`
		Remove cli.CategoryRemoveCmd `cmd:"" help:"Remove a category."`
	} `cmd:"" help:"Manage categories."`

	Goal struct {
		Add    cli.GoalAddCmd    `cmd:"" help:"Add a time goal."`
		List   cli.GoalListCmd   `cmd:"" help:"List goals." default:"1"`
		Edit   cli.GoalEditCmd   `cmd:"" help:"Edit a goal."`
		Remove cli.GoalRemoveCmd `cmd:"" help:"Remove a goal."`
	} `cmd:"" help:"Manage time goals."`

	Session struct {
		Toggle cli.SessionToggleCmd `cmd:"" help:"Start or end a work session." default:"1"`
		Status cli.SessionStatusCmd `cmd:"" help:"Show the active session."`
		Type   struct {
			Add    cli.SessionTypeAddCmd    `cmd:"" help:"Add a session type."`
			List   cli.SessionTypeListCmd   `cmd:"" help:"List session types." default:"1"`
			Edit   cli.SessionTypeEditCmd   `cmd:"" help:"Edit a session type."`
			Remove cli.SessionTypeRemoveCmd `cmd:"" help:"Remove a session type."`
		} `cmd:"" help:"Manage session types."`
	} `cmd:"" help:"Manage work sessions."`

	Theme cli.ThemeCmd `cmd:"" help:"Set the UI theme."`
	Pin   struct {
		Set   cli.PinSetCmd   `cmd:"" help:"Set or change the parent PIN." default:"1"`
		Clear cli.PinClearCmd `cmd:"" help:"Clear the parent PIN."`
	} `cmd:"" help:"Manage the parent PIN."`
	Remote struct {
		Set   cli.RemoteSetCmd   `cmd:"" help:"Store the remote connection string."`
		Clear cli.RemoteClearCmd `cmd:"" help:"Remove the remote connection string."`
	} `cmd:"" help:"Manage the sync remote."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("gravity"),
		kong.Description("Local-first time tracking for the whole household"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": "v0.3.0"},
	)

	cfg, err := config.Load()
	if err != nil {
		errors.Fatalf("could not load configuration: %v", err)
	}
	if CLI.Debug {
		cfg.Debug = true
	}

	a, err := app.New(cfg)
	if err != nil {
		errors.Fatal(err)
	}
	a.Start(context.Background())
	defer a.Shutdown()

	if err := kctx.Run(&cli.Context{App: a}); err != nil {
		// Fatal exits without running defers; drain the queue first.
		a.Shutdown()
		errors.Fatal(err)
	}
}
