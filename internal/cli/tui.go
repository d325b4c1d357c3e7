package cli

import (
	"fmt"

	"github.com/gravityplanner/gravity/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	// Surface stale activities before entering the alt screen.
	if stale := ctx.App.Stale(); len(stale) > 0 {
		fmt.Printf("%d activity(ies) left open across a day boundary; run 'gravity resolve' first.\n", len(stale))
	}
	ctx.App.AutoStop()
	return tui.Run(ctx.App)
}
