package bookings

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/eathmover/internal/cli"
	"github.com/julianstephens/eathmover/internal/logger"
	"github.com/julianstephens/eathmover/internal/models"
	"github.com/julianstephens/eathmover/internal/tui"
)

type BookingsCmd struct {
	List    ListCmd    `cmd:"" default:"withargs" help:"List your bookings."`
	History HistoryCmd `cmd:"" help:"Show completed, cancelled and declined bookings."`
	Watch   WatchCmd   `cmd:"" help:"Watch your bookings and get notified when their status changes."`
}

func userBookings(ctx *cli.Context) ([]models.Booking, error) {
	id, err := ctx.EnsureSignedIn(models.RoleUser)
	if err != nil {
		return nil, err
	}
	bookings, err := ctx.Gateway.GetUserBookings(ctx.Ctx(), id.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings: %w", err)
	}
	return bookings, nil
}

type ListCmd struct {
	Filter string `help:"Which bookings to show." enum:"all,pending,active" default:"all" short:"f"`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	bookings, err := userBookings(ctx)
	if err != nil {
		return err
	}

	counts := models.CountBookings(bookings)
	fmt.Printf("All (%d)  Pending (%d)  Active (%d)\n\n", counts.All, counts.Pending, counts.Active)

	shown := models.FilterBookings(bookings, models.BookingFilter(c.Filter))
	if len(shown) == 0 {
		if c.Filter == string(models.FilterAll) {
			fmt.Println("No bookings")
		} else {
			fmt.Printf("No %s bookings\n", c.Filter)
		}
		return nil
	}
	for _, b := range shown {
		printBooking(b)
	}
	return nil
}

type HistoryCmd struct{}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	bookings, err := userBookings(ctx)
	if err != nil {
		return err
	}
	history := models.BookingHistory(bookings)
	if len(history) == 0 {
		fmt.Println("No past bookings")
		return nil
	}
	fmt.Println("Booking history:")
	for _, b := range history {
		printBooking(b)
	}
	return nil
}

type WatchCmd struct {
	Interval time.Duration `help:"Refresh interval. Defaults to poll.interval from the config."`
}

func (c *WatchCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.EnsureSignedIn(models.RoleUser); err != nil {
		return err
	}
	interval, fast := ctx.Config.Poll.Interval, ctx.Config.Poll.FastInterval
	if c.Interval > 0 {
		interval = c.Interval
	}
	logger.Debug("Watching bookings", "interval", interval, "fast_interval", fast)

	m := tui.NewWatchModel(ctx.Ctx(), tui.UserBookings(ctx.Gateway, ctx.Session), interval, fast, ctx.Notify)
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx.Ctx())).Run(); err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}
	return nil
}
