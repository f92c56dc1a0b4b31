package auth

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/eathmover/internal/api"
	"github.com/julianstephens/eathmover/internal/cli"
	"github.com/julianstephens/eathmover/internal/models"
)

type PasswordCmd struct {
	Request PasswordRequestCmd `cmd:"" help:"Request a password reset OTP."`
	Confirm PasswordConfirmCmd `cmd:"" help:"Set a new password with the OTP."`
}

type PasswordRequestCmd struct {
	Phone string `help:"Account phone number." xor:"contact"`
	Email string `help:"Account email address." xor:"contact"`
	Role  string `help:"Account role." enum:"user,operator,admin" default:"user"`
}

func (c *PasswordRequestCmd) Run(ctx *cli.Context) error {
	role, err := models.ParseRole(c.Role)
	if err != nil {
		return err
	}
	msg, err := ctx.Gateway.RequestPasswordReset(ctx.Ctx(), models.PasswordResetRequest{
		Phone: strings.TrimSpace(c.Phone),
		Email: strings.TrimSpace(c.Email),
		Role:  role,
	})
	if err != nil {
		return err
	}
	if msg == "" {
		msg = "OTP sent"
	}
	fmt.Printf("✓ %s\n", msg)
	return nil
}

type PasswordConfirmCmd struct {
	Phone    string `help:"Account phone number." required:""`
	OTP      string `help:"One-time code from the reset request." name:"otp" required:""`
	Password string `help:"New password. Prompted for when omitted." env:"EATHMOVER_NEW_PASSWORD"`
	Role     string `help:"Account role." enum:"user,operator,admin" default:"user"`
}

func (c *PasswordConfirmCmd) Run(ctx *cli.Context) error {
	role, err := models.ParseRole(c.Role)
	if err != nil {
		return err
	}
	confirm := c.Password
	if c.Password == "" {
		err := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("New password").EchoMode(huh.EchoModePassword).Value(&c.Password),
			huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).Value(&confirm),
		)).Run()
		if err != nil {
			return err
		}
	}

	req := models.PasswordResetConfirm{
		Phone:       strings.TrimSpace(c.Phone),
		OTP:         strings.TrimSpace(c.OTP),
		NewPassword: c.Password,
		Role:        role,
	}
	if err := api.ValidateResetConfirm(req, confirm); err != nil {
		return err
	}
	msg, err := ctx.Gateway.ConfirmPasswordReset(ctx.Ctx(), req)
	if err != nil {
		return err
	}
	if msg == "" {
		msg = "Password updated"
	}
	fmt.Printf("✓ %s\n", msg)
	return nil
}
