package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/eathmover/internal/cli"
	"github.com/julianstephens/eathmover/internal/constants"
	"github.com/julianstephens/eathmover/internal/models"
)

type OperatorsCmd struct {
	Search OperatorsSearchCmd `cmd:"" help:"Find operators for a machine type, place and time."`
	Show   OperatorsShowCmd   `cmd:"" help:"Show an operator's profile."`
}

type OperatorsSearchCmd struct {
	Type     string `help:"Machine type, e.g. JCB or Excavator." name:"machine-type" required:""`
	Location string `help:"Work site address." required:""`
	Date     string `help:"Date (YYYY-MM-DD). Defaults to today."`
	Time     string `help:"Start time (HH:MM)." default:"09:00"`
}

func (c *OperatorsSearchCmd) Run(ctx *cli.Context) error {
	date := c.Date
	if date == "" || date == "today" {
		date = time.Now().Format(constants.DateFormat)
	}
	if _, err := time.Parse(constants.DateFormat, date); err != nil {
		return fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", date)
	}
	if _, err := time.Parse(constants.TimeFormat, c.Time); err != nil {
		return fmt.Errorf("invalid time format: %s (expected HH:MM)", c.Time)
	}

	matches, err := ctx.Gateway.SearchOperators(ctx.Ctx(), models.OperatorQuery{
		Location:    strings.TrimSpace(c.Location),
		MachineType: strings.TrimSpace(c.Type),
		Date:        date,
		Time:        c.Time,
	})
	if err != nil {
		return fmt.Errorf("operator search failed: %w", err)
	}
	if len(matches) == 0 {
		fmt.Println("No operators available for that slot")
		return nil
	}

	fmt.Printf("Operators for %s on %s at %s:\n", c.Type, date, c.Time)
	for _, o := range matches {
		fmt.Printf("  %s (ID: %s)", o.DisplayName(), o.OperatorID)
		if o.Phone != "" {
			fmt.Printf(" - %s", o.Phone)
		}
		fmt.Println()
		if o.MachineModel != "" {
			fmt.Printf("      Machine: %s\n", o.MachineModel)
		}
		if o.EstimatedCost != "" {
			fmt.Printf("      Estimate: %s%s\n", constants.CurrencySymbol, o.EstimatedCost)
		}
	}
	return nil
}

type OperatorsShowCmd struct {
	ID string `arg:"" help:"Operator ID."`
}

func (c *OperatorsShowCmd) Run(ctx *cli.Context) error {
	p, err := ctx.Gateway.GetOperatorProfile(ctx.Ctx(), c.ID)
	if err != nil {
		return fmt.Errorf("failed to get operator %s: %w", c.ID, err)
	}

	fmt.Printf("Operator:   %s (ID: %s)\n", p.Name, c.ID)
	if p.Phone != "" {
		fmt.Printf("Phone:      %s\n", p.Phone)
	}
	if p.Email != "" {
		fmt.Printf("Email:      %s\n", p.Email)
	}
	if p.ExperienceYears > 0 {
		fmt.Printf("Experience: %d years\n", p.ExperienceYears)
	}
	if p.Rating > 0 {
		fmt.Printf("Rating:     %.1f/%d\n", p.Rating, constants.MaxRating)
	}
	if p.TotalBookings > 0 {
		fmt.Printf("Bookings:   %d\n", p.TotalBookings)
	}
	if ms := p.MachineList(); len(ms) > 0 {
		fmt.Printf("Machines:   %s\n", strings.Join(ms, ", "))
	}
	if p.Status != "" {
		fmt.Printf("Status:     %s\n", p.Status)
	}
	return nil
}
