package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/eathmover/internal/cli"
	"github.com/julianstephens/eathmover/internal/keyring"
	"github.com/julianstephens/eathmover/internal/notifier"
	"github.com/julianstephens/eathmover/internal/session"
)

type DoctorCmd struct{}

type check struct {
	name    string
	run     func(*cli.Context) error
	warning bool
}

var checks = []check{
	{name: "Journal reachable", run: checkJournal},
	{name: "Configuration", run: checkConfig},
	{name: "Clock", run: checkClock},
	{name: "OS keyring", run: checkKeyring, warning: true},
	{name: "Session", run: checkSession, warning: true},
	{name: "Notification tray", run: checkTray, warning: true},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	for _, c := range checks {
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.warning:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	fmt.Println("All diagnostics passed!")
	return nil
}

func checkJournal(ctx *cli.Context) error {
	if ctx.Store == nil {
		return errors.New("no journal configured")
	}
	if err := ctx.Store.Load(ctx.Ctx()); err != nil {
		return fmt.Errorf("failed to load journal at %s: %w", ctx.Store.GetConfigPath(), err)
	}
	_, err := ctx.Store.ListLocations(ctx.Ctx())
	return err
}

func checkConfig(ctx *cli.Context) error {
	if ctx.Config == nil {
		return errors.New("configuration not loaded")
	}
	return ctx.Config.Validate()
}

func checkClock(*cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkKeyring(*cli.Context) error {
	if !keyring.IsAvailable() {
		return errors.New("sessions cannot be remembered and keyring-backed journals will not open")
	}
	return nil
}

func checkSession(ctx *cli.Context) error {
	if _, ok := ctx.Session.Current(); !ok {
		return fmt.Errorf("%w, sign in with 'eathmover login'", session.ErrNoSession)
	}
	return nil
}

func checkTray(*cli.Context) error {
	if _, err := notifier.TrayConfigDir(); err != nil {
		return fmt.Errorf("tray config directory unavailable: %w", err)
	}
	if !notifier.TrayRunning() {
		return notifier.ErrTrayNotRunning
	}
	return nil
}
