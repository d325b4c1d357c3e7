package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/gravityplanner/gravity/internal/keyring"
	"github.com/gravityplanner/gravity/internal/pin"
	"github.com/gravityplanner/gravity/internal/store"
)

type ThemeCmd struct {
	Theme string `arg:"" enum:"dark,light" help:"Theme name."`
}

func (c *ThemeCmd) Run(ctx *Context) error {
	ctx.App.Store.Dispatch(store.SetTheme{Theme: c.Theme})
	fmt.Printf("Theme set to %s\n", c.Theme)
	return nil
}

// PinSetCmd sets or changes the parent PIN that gates member management.
type PinSetCmd struct{}

func (c *PinSetCmd) Run(ctx *Context) error {
	if err := ctx.RequirePin(); err != nil {
		return err
	}
	var entered, confirm string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("New PIN").EchoMode(huh.EchoModePassword).Value(&entered),
		huh.NewInput().Title("Confirm PIN").EchoMode(huh.EchoModePassword).Value(&confirm),
	))
	if err := form.Run(); err != nil {
		return err
	}
	if entered == "" {
		return fmt.Errorf("PIN cannot be empty")
	}
	if entered != confirm {
		return fmt.Errorf("PINs do not match")
	}
	ctx.App.Store.Dispatch(store.SetParentPin{Hash: pin.Hash(entered)})
	fmt.Println("Parent PIN set.")
	return nil
}

type PinClearCmd struct{}

func (c *PinClearCmd) Run(ctx *Context) error {
	if err := ctx.RequirePin(); err != nil {
		return err
	}
	ctx.App.Store.Dispatch(store.SetParentPin{Hash: ""})
	fmt.Println("Parent PIN cleared.")
	return nil
}

// RemoteSetCmd stores the remote connection string in the OS keyring.
type RemoteSetCmd struct {
	DSN string `arg:"" help:"Connection string (postgres:// URL or sqlite file path)."`
}

func (c *RemoteSetCmd) Run(ctx *Context) error {
	if err := keyring.SetConnectionString(c.DSN); err != nil {
		return err
	}
	fmt.Println("Remote connection stored. Restart to start syncing.")
	return nil
}

type RemoteClearCmd struct{}

func (c *RemoteClearCmd) Run(ctx *Context) error {
	if err := keyring.DeleteConnectionString(); err != nil && err != keyring.ErrNotFound {
		return err
	}
	fmt.Println("Remote connection removed.")
	return nil
}
