package journal

import (
	"fmt"
	"strings"

	"github.com/julianstephens/eathmover/internal/cli"
	"github.com/julianstephens/eathmover/internal/constants"
	"github.com/julianstephens/eathmover/internal/workflow"
)

type FeedbackCmd struct {
	List FeedbackListCmd `cmd:"" default:"withargs" help:"List ratings you have given."`
}

type FeedbackListCmd struct{}

func (c *FeedbackListCmd) Run(ctx *cli.Context) error {
	items, err := ctx.Store.ListFeedback(ctx.Ctx())
	if err != nil {
		return fmt.Errorf("failed to list feedback: %w", err)
	}
	if len(items) == 0 {
		fmt.Println("No feedback recorded")
		return nil
	}
	for _, f := range items {
		stars := strings.Repeat("★", f.Rating) + strings.Repeat("☆", constants.MaxRating-f.Rating)
		fmt.Printf("  %s %s", f.CreatedAt.Local().Format(constants.DateFormat), stars)
		if f.BookingID != "" {
			fmt.Printf(" booking #%s", f.BookingID)
		}
		if f.OperatorID != "" {
			fmt.Printf(" operator %s", f.OperatorID)
		}
		fmt.Println()
		if f.Comment != "" {
			fmt.Printf("      %q\n", f.Comment)
		}
	}
	return nil
}

type PaymentsCmd struct {
	List PaymentsListCmd `cmd:"" default:"withargs" help:"List recorded payments."`
}

type PaymentsListCmd struct{}

func (c *PaymentsListCmd) Run(ctx *cli.Context) error {
	items, err := ctx.Store.ListPayments(ctx.Ctx())
	if err != nil {
		return fmt.Errorf("failed to list payments: %w", err)
	}
	if len(items) == 0 {
		fmt.Println("No payments recorded")
		return nil
	}
	var total int64
	for _, p := range items {
		amount := int64(p.Amount)
		total += amount
		fmt.Printf("  %s %s via %s (%s)", p.CreatedAt.Local().Format(constants.DateFormat), workflow.FormatAmount(amount), strings.ToUpper(string(p.Method)), p.UPIID)
		if p.BookingID != "" {
			fmt.Printf(" booking #%s", p.BookingID)
		}
		fmt.Println()
	}
	fmt.Printf("Total: %s\n", workflow.FormatAmount(total))
	return nil
}
