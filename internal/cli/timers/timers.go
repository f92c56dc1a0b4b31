package timers

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/eathmover/internal/cli"
	"github.com/julianstephens/eathmover/internal/logger"
	"github.com/julianstephens/eathmover/internal/timer"
	"github.com/julianstephens/eathmover/internal/tui"
	"github.com/julianstephens/eathmover/internal/workflow"
)

type TimerCmd struct {
	Arrival ArrivalCmd `cmd:"" help:"Count down to the operator's arrival."`
	Work    WorkCmd    `cmd:"" help:"Count down the booked working time."`
}

type ArrivalCmd struct {
	BookingID string `help:"Booking to count down to. Without it the default arrival window is used." name:"booking-id"`
	Plain     bool   `help:"Print the countdown as plain lines instead of a full screen view."`
}

func (c *ArrivalCmd) Run(ctx *cli.Context) error {
	fallback := time.Duration(0)
	if ctx.Config != nil {
		fallback = ctx.Config.Arrival.Default
	}
	d := workflow.ResolveArrival(ctx.Ctx(), workflow.GatewayArrival{Gateway: ctx.Gateway}, c.BookingID, fallback)
	logger.Debug("Arrival countdown", "booking_id", c.BookingID, "duration", d)

	title := "Operator arrival"
	if c.BookingID != "" {
		title += " #" + c.BookingID
	}
	_, err := countdown(ctx, title, d, c.Plain)
	return err
}

type WorkCmd struct {
	Duration time.Duration `help:"Booked working time, e.g. 1h30m." default:"1h"`
	Rate     float64       `help:"Hourly machine rate. When set, the final amount is printed."`
	Plain    bool          `help:"Print the countdown as plain lines instead of a full screen view."`
}

func (c *WorkCmd) Run(ctx *cli.Context) error {
	worked, err := countdown(ctx, "Work timer", c.Duration, c.Plain)
	if err != nil {
		return err
	}

	fmt.Printf("Worked: %s\n", workflow.DurationLabel(worked))
	if c.Rate > 0 {
		booked := workflow.EstimateCost(c.Rate, int(c.Duration.Minutes()))
		b := workflow.ComputeBreakdown(fmt.Sprint(booked), workflow.DurationLabel(c.Duration), worked)
		fmt.Printf("Estimated: %s\n", workflow.FormatAmount(int64(b.EstimatedAmount)))
		fmt.Printf("Total:     %s\n", workflow.FormatAmount(b.FinalAmount))
	}
	return nil
}

// countdown runs a countdown to completion or until the user quits and
// returns how much of it elapsed.
func countdown(ctx *cli.Context, title string, d time.Duration, plain bool) (time.Duration, error) {
	if plain {
		return plainCountdown(ctx, title, d)
	}
	m := tui.NewTimerModel(ctx.Ctx(), title, d, ctx.Notify)
	final, err := tea.NewProgram(&m, tea.WithAltScreen(), tea.WithContext(ctx.Ctx())).Run()
	if err != nil {
		return 0, fmt.Errorf("countdown failed: %w", err)
	}
	return final.(*tui.TimerModel).Elapsed(), nil
}

func plainCountdown(ctx *cli.Context, title string, d time.Duration) (time.Duration, error) {
	engine := timer.NewEngine()
	h := timer.Run(ctx.Ctx(), engine, timer.Options{
		OnFinish: func(timer.Snapshot) { ctx.Notify(ctx.Ctx(), title, timer.MsgFinished) },
	})
	defer h.Cancel()

	// an interrupt before the first tick is a quit, not a failure
	if err := h.Start(d); err != nil {
		if errors.Is(err, timer.ErrCancelled) {
			return 0, nil
		}
		return 0, err
	}
	fmt.Println(title)

	var last timer.Snapshot
	for {
		select {
		case ev, ok := <-h.Events():
			if !ok {
				fmt.Println()
				return last.Total - last.Remaining, nil
			}
			last = ev.Snapshot
			fmt.Printf("\r  %s ", ev.Display)
			if ev.Finished {
				fmt.Printf("\n%s\n", timer.MsgFinished)
				return last.Total, nil
			}
		case <-ctx.Ctx().Done():
			fmt.Println()
			return last.Total - last.Remaining, nil
		}
	}
}
