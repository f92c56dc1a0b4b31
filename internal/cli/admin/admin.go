package admin

import (
	"fmt"
	"strings"

	"github.com/julianstephens/eathmover/internal/cli"
	"github.com/julianstephens/eathmover/internal/models"
	"github.com/julianstephens/eathmover/internal/workflow"
)

type AdminCmd struct {
	Live    LiveCmd    `cmd:"" help:"Show bookings currently in progress."`
	Reports ReportsCmd `cmd:"" help:"Show marketplace totals."`
}

type LiveCmd struct{}

func (c *LiveCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.EnsureSignedIn(models.RoleAdmin); err != nil {
		return err
	}
	live, err := ctx.Gateway.GetLiveBookings(ctx.Ctx())
	if err != nil {
		return fmt.Errorf("failed to get live bookings: %w", err)
	}
	if len(live) == 0 {
		fmt.Println("No live bookings")
		return nil
	}

	fmt.Printf("Live bookings (%d):\n", len(live))
	for _, b := range live {
		fmt.Printf("  #%s [%s] %s", b.BookingID, strings.ToUpper(string(b.Status)), b.MachineType)
		if b.UserName != "" || b.OperatorName != "" {
			fmt.Printf(" - %s with %s", orDash(b.UserName), orDash(b.OperatorName))
		}
		fmt.Println()
		if b.Location != "" {
			fmt.Printf("      %s\n", b.Location)
		}
	}
	return nil
}

type ReportsCmd struct{}

func (c *ReportsCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.EnsureSignedIn(models.RoleAdmin); err != nil {
		return err
	}
	r, err := ctx.Gateway.GetReports(ctx.Ctx())
	if err != nil {
		return fmt.Errorf("failed to get reports: %w", err)
	}

	fmt.Println("Users")
	fmt.Printf("  Active:            %d%s\n", r.ActiveUsers, change(r.ActiveUsersChange))
	fmt.Printf("  New:               %d%s\n", r.NewUsers, change(r.NewUsersChange))
	fmt.Println("Revenue")
	fmt.Printf("  Total:             %s%s\n", workflow.FormatAmount(int64(r.TotalRevenue)), change(r.RevenueChange))
	fmt.Printf("  Avg booking:       %s%s\n", workflow.FormatAmount(int64(r.AvgBookingValue)), change(r.AvgBookingChange))
	fmt.Println("Bookings")
	fmt.Printf("  Total:             %d%s\n", r.TotalBookings, change(r.BookingsChange))
	if r.MostBookedMachine != "" {
		fmt.Printf("  Most booked:       %s (%d)\n", r.MostBookedMachine, r.MachineBookingsCount)
	}
	fmt.Println("Operators")
	fmt.Printf("  Active:            %d%s\n", r.ActiveOperators, change(r.OperatorsChange))
	if r.TopOperator != "" {
		fmt.Printf("  Top:               %s (%d)\n", r.TopOperator, r.OperatorBookingsCount)
	}
	return nil
}

func change(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return ""
	}
	return "  (" + s + ")"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
