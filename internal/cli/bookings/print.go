package bookings

import (
	"fmt"
	"strings"

	"github.com/julianstephens/eathmover/internal/models"
	"github.com/julianstephens/eathmover/internal/workflow"
)

func printBooking(b models.Booking) {
	machine := b.MachineModel
	if machine == "" {
		machine = b.MachineType
	}
	fmt.Printf("  #%s [%s] %s", b.BookingID, strings.ToUpper(strings.TrimSpace(string(b.Status))), machine)
	if when := strings.TrimSpace(b.BookingDate + " " + b.StartTime); when != "" {
		fmt.Printf(" on %s", when)
	}
	if b.TotalAmount > 0 {
		fmt.Printf(" - %s", workflow.FormatAmount(int64(b.TotalAmount)))
	}
	fmt.Println()
	if b.OperatorName != "" {
		fmt.Printf("      Operator: %s", b.OperatorName)
		if b.OperatorPhone != "" {
			fmt.Printf(" (%s)", b.OperatorPhone)
		}
		fmt.Println()
	}
	if b.UserName != "" {
		fmt.Printf("      Customer: %s", b.UserName)
		if b.UserPhone != "" {
			fmt.Printf(" (%s)", b.UserPhone)
		}
		fmt.Println()
	}
	if b.Location != "" {
		fmt.Printf("      Location: %s\n", b.Location)
	}
}
