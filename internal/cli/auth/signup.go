package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/eathmover/internal/api"
	"github.com/julianstephens/eathmover/internal/cli"
	"github.com/julianstephens/eathmover/internal/models"
)

type SignupCmd struct {
	Role     string `arg:"" help:"Account type." enum:"user,operator,admin"`
	Name     string `help:"Full name." required:""`
	Phone    string `help:"Phone number." required:""`
	Email    string `help:"Email address."`
	Address  string `help:"Postal address."`
	Password string `help:"Password. Prompted for when omitted." env:"EATHMOVER_PASSWORD"`
}

func (c *SignupCmd) Run(ctx *cli.Context) error {
	role, err := models.ParseRole(c.Role)
	if err != nil {
		return err
	}
	if c.Password == "" {
		var confirm string
		err := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&c.Password),
			huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).Value(&confirm),
		)).Run()
		if err != nil {
			return err
		}
		if c.Password != confirm {
			return errors.New("passwords do not match")
		}
	}

	profile := models.SignupProfile{
		Name:     strings.TrimSpace(c.Name),
		Phone:    strings.TrimSpace(c.Phone),
		Email:    strings.TrimSpace(c.Email),
		Address:  strings.TrimSpace(c.Address),
		Password: c.Password,
		Role:     role,
	}
	if err := api.ValidateSignup(profile); err != nil {
		return err
	}

	var msg string
	switch role {
	case models.RoleOperator:
		msg, err = ctx.Gateway.CreateOperator(ctx.Ctx(), profile)
	case models.RoleAdmin:
		msg, err = ctx.Gateway.CreateAdmin(ctx.Ctx(), profile)
	default:
		msg, err = ctx.Gateway.CreateUser(ctx.Ctx(), profile)
	}
	if err != nil {
		return err
	}
	if msg == "" {
		msg = "Account created"
	}
	fmt.Printf("✓ %s\n", msg)
	fmt.Printf("  Sign in with: eathmover login --phone %s --role %s\n", profile.Phone, role)
	return nil
}
