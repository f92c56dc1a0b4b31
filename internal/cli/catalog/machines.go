package catalog

import (
	"fmt"

	"github.com/julianstephens/eathmover/internal/cli"
	"github.com/julianstephens/eathmover/internal/models"
	"github.com/julianstephens/eathmover/internal/workflow"
)

type MachinesCmd struct {
	Category string `help:"Only show one category (jcb, excavator, dozer or 1-3)." short:"c"`
	ShowIDs  bool   `help:"Show machine IDs." name:"show-ids"`
}

func (c *MachinesCmd) Run(ctx *cli.Context) error {
	machines, err := ctx.Gateway.GetUserMachines(ctx.Ctx())
	if err != nil {
		return fmt.Errorf("failed to get machines: %w", err)
	}

	header := "Machines:"
	if c.Category != "" {
		cat, err := models.ParseCategory(c.Category)
		if err != nil {
			return err
		}
		machines = models.MachinesByCategory(machines, cat)
		header = cat.String() + " machines:"
	}
	if len(machines) == 0 {
		fmt.Println("No machines available")
		return nil
	}

	fmt.Println(header)
	for _, m := range machines {
		idStr := ""
		if c.ShowIDs {
			idStr = fmt.Sprintf(" (ID: %d)", m.MachineID)
		}
		fmt.Printf("  %s%s - %s/hr", m.DisplayName(), idStr, workflow.FormatAmount(int64(m.PricePerHour)))
		if t := m.DisplayType(); t != "" {
			fmt.Printf(" [%s]", t)
		}
		fmt.Println()
		if m.Specs != "" {
			fmt.Printf("      %s\n", m.Specs)
		}
	}
	return nil
}

type MachineShowCmd struct {
	ID int `arg:"" help:"Machine ID."`
}

func (c *MachineShowCmd) Run(ctx *cli.Context) error {
	m, err := ctx.Gateway.GetMachineDetails(ctx.Ctx(), c.ID)
	if err != nil {
		return fmt.Errorf("failed to get machine %d: %w", c.ID, err)
	}
	if m.MachineID == 0 {
		m.MachineID = models.FlexInt(c.ID)
	}

	fmt.Printf("Machine:      %s (ID: %d)\n", m.DisplayName(), m.MachineID)
	if t := m.DisplayType(); t != "" {
		fmt.Printf("Type:         %s\n", t)
	}
	fmt.Printf("Price:        %s/hr\n", workflow.FormatAmount(int64(m.PricePerHour)))
	if m.ModelYear != nil {
		fmt.Printf("Year:         %d\n", *m.ModelYear)
	}
	if m.Specs != "" {
		fmt.Printf("Specs:        %s\n", m.Specs)
	}
	if m.Availability != "" {
		fmt.Printf("Availability: %s\n", m.Availability)
	}
	if m.Address != "" {
		fmt.Printf("Address:      %s\n", m.Address)
	}
	return nil
}
