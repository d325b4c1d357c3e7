package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/gravityplanner/gravity/internal/constants"
	"github.com/gravityplanner/gravity/internal/keyring"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false

	// Check 1: data directory writable
	if err := checkDataDir(ctx); err != nil {
		fmt.Printf("❌ Data directory: FAIL\n   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Data directory: OK\n")
	}

	// Check 2: OS keyring available
	if keyring.IsAvailable() {
		fmt.Printf("✓ OS keyring: OK\n")
	} else {
		fmt.Printf("⚠ OS keyring: WARNING (unavailable, remote credentials cannot be stored)\n")
	}

	// Check 3: remote reachable
	if ctx.App.Remote == nil {
		fmt.Printf("⊘ Remote store: SKIPPED (not configured)\n")
	} else {
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := ctx.App.Remote.Init(cctx)
		cancel()
		if err != nil {
			fmt.Printf("❌ Remote store: FAIL\n   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Remote store: OK\n")
		}
	}

	// Check 4: no concurrent instance fighting over the local mirror
	if n, err := countInstances(); err != nil {
		fmt.Printf("⊘ Concurrent instances: SKIPPED (%v)\n", err)
	} else if n > 1 {
		fmt.Printf("⚠ Concurrent instances: WARNING (%d running, local state may race)\n", n)
	} else {
		fmt.Printf("✓ Concurrent instances: OK\n")
	}

	// Check 5: stale open activities
	if stale := ctx.App.Stale(); len(stale) > 0 {
		fmt.Printf("⚠ Stale activities: WARNING (%d open across a day boundary, run 'gravity resolve')\n", len(stale))
	} else {
		fmt.Printf("✓ Stale activities: OK\n")
	}

	fmt.Println()
	if hasError {
		return fmt.Errorf("diagnostics found problems")
	}
	fmt.Println("All checks passed.")
	return nil
}

func checkDataDir(ctx *Context) error {
	dir := ctx.App.Config.DataDir
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	probe := dir + "/.doctor-probe"
	if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
		return err
	}
	return os.Remove(probe)
}

func countInstances() (int, error) {
	procs, err := ps.Processes()
	if err != nil {
		return 0, err
	}
	n := 0
	for _, p := range procs {
		if strings.HasPrefix(p.Executable(), constants.AppName) {
			n++
		}
	}
	return n, nil
}
