package bookings

import (
	"fmt"
	"time"

	"github.com/julianstephens/eathmover/internal/cli"
	"github.com/julianstephens/eathmover/internal/models"
	"github.com/julianstephens/eathmover/internal/workflow"
)

type OperatorCmd struct {
	Jobs     OperatorJobsCmd     `cmd:"" help:"List booking requests assigned to you."`
	Accept   OperatorAcceptCmd   `cmd:"" help:"Accept a pending booking."`
	Decline  OperatorDeclineCmd  `cmd:"" help:"Decline a pending booking."`
	Complete OperatorCompleteCmd `cmd:"" help:"Mark a booking as completed."`
	Earnings OperatorEarningsCmd `cmd:"" help:"Show earnings and past jobs."`
}

type OperatorJobsCmd struct {
	Filter string `help:"Which bookings to show." enum:"all,pending,active" default:"pending" short:"f"`
}

func (c *OperatorJobsCmd) Run(ctx *cli.Context) error {
	id, err := ctx.EnsureSignedIn(models.RoleOperator)
	if err != nil {
		return err
	}
	jobs, err := ctx.Gateway.GetOperatorBookings(ctx.Ctx(), id.ID)
	if err != nil {
		return fmt.Errorf("failed to get bookings: %w", err)
	}
	jobs = models.FilterBookings(jobs, models.BookingFilter(c.Filter))
	if len(jobs) == 0 {
		fmt.Println("No booking requests")
		return nil
	}
	for _, b := range jobs {
		printBooking(b)
	}
	return nil
}

type OperatorAcceptCmd struct {
	BookingID string `arg:"" help:"Booking ID."`
}

func (c *OperatorAcceptCmd) Run(ctx *cli.Context) error {
	id, err := ctx.EnsureSignedIn(models.RoleOperator)
	if err != nil {
		return err
	}
	msg, err := ctx.Gateway.AcceptBooking(ctx.Ctx(), c.BookingID, id.ID)
	if err != nil {
		return err
	}
	printResult(msg, "Booking #%s accepted", c.BookingID)
	return nil
}

type OperatorDeclineCmd struct {
	BookingID string `arg:"" help:"Booking ID."`
}

func (c *OperatorDeclineCmd) Run(ctx *cli.Context) error {
	id, err := ctx.EnsureSignedIn(models.RoleOperator)
	if err != nil {
		return err
	}
	msg, err := ctx.Gateway.DeclineBooking(ctx.Ctx(), c.BookingID, id.ID)
	if err != nil {
		return err
	}
	printResult(msg, "Booking #%s declined", c.BookingID)
	return nil
}

type OperatorCompleteCmd struct {
	BookingID string `arg:"" help:"Booking ID."`
}

func (c *OperatorCompleteCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.EnsureSignedIn(models.RoleOperator); err != nil {
		return err
	}
	msg, err := ctx.Gateway.CompleteBooking(ctx.Ctx(), c.BookingID)
	if err != nil {
		return err
	}
	printResult(msg, "Booking #%s completed", c.BookingID)
	return nil
}

type OperatorEarningsCmd struct {
	History bool `help:"Also list finished jobs." short:"H"`
}

func (c *OperatorEarningsCmd) Run(ctx *cli.Context) error {
	id, err := ctx.EnsureSignedIn(models.RoleOperator)
	if err != nil {
		return err
	}
	jobs, err := ctx.Gateway.GetOperatorEarnings(ctx.Ctx(), id.ID)
	if err != nil {
		return fmt.Errorf("failed to get earnings: %w", err)
	}

	e := models.SummarizeEarnings(jobs, time.Now())
	fmt.Printf("Total earnings: %s\n", workflow.FormatAmount(int64(e.TotalEarnings)))
	fmt.Printf("This month:     %s\n", workflow.FormatAmount(int64(e.ThisMonth)))
	fmt.Printf("Last month:     %s\n", workflow.FormatAmount(int64(e.LastMonth)))
	fmt.Printf("Completed jobs: %d\n", e.TotalTransactions)

	if !c.History {
		return nil
	}
	history := models.BookingHistory(jobs)
	fmt.Println()
	if len(history) == 0 {
		fmt.Println("No finished jobs yet")
		return nil
	}
	for _, b := range history {
		printBooking(b)
	}
	return nil
}

func printResult(msg, fallback string, args ...any) {
	if msg == "" {
		msg = fmt.Sprintf(fallback, args...)
	}
	fmt.Printf("✓ %s\n", msg)
}
