package bookings

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/eathmover/internal/cli"
	"github.com/julianstephens/eathmover/internal/logger"
	"github.com/julianstephens/eathmover/internal/models"
	"github.com/julianstephens/eathmover/internal/session"
	"github.com/julianstephens/eathmover/internal/tui"
)

type BookCmd struct {
	Guest bool `help:"Browse without signing in. Confirming a booking still needs a login."`
}

func (c *BookCmd) Run(ctx *cli.Context) error {
	if !c.Guest {
		if _, err := ctx.EnsureSignedIn(models.RoleUser); err != nil {
			if !errors.Is(err, session.ErrNoSession) {
				return err
			}
			logger.Debug("Sign in skipped, browsing as guest")
		}
	}

	var locations []models.SavedLocation
	if ctx.Store != nil {
		locs, err := ctx.Store.ListLocations(ctx.Ctx())
		if err != nil {
			logger.Warn("Saved locations unavailable", "error", err)
		}
		locations = locs
	}

	m := tui.NewModel(ctx.Ctx(), tui.Options{
		Flow:             ctx.NewFlow(),
		Gateway:          ctx.Gateway,
		Session:          ctx.Session,
		Notify:           ctx.Notify,
		Locations:        locations,
		PollInterval:     ctx.Config.Poll.Interval,
		FastPollInterval: ctx.Config.Poll.FastInterval,
	})
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx.Ctx())).Run(); err != nil {
		return fmt.Errorf("booking flow failed: %w", err)
	}
	return nil
}
