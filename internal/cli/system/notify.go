package system

import (
	"fmt"

	"github.com/julianstephens/eathmover/internal/cli"
	"github.com/julianstephens/eathmover/internal/constants"
)

type NotifyCmd struct {
	Text string `arg:"" optional:"" help:"Message to send." default:"Test notification"`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	if ctx.Notifier == nil {
		return fmt.Errorf("notifications are not configured")
	}
	if err := ctx.Notifier.Notify(ctx.Ctx(), constants.AppName, c.Text); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	fmt.Println("✓ Notification sent")
	return nil
}
