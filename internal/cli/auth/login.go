package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/eathmover/internal/cli"
	"github.com/julianstephens/eathmover/internal/models"
)

type LoginCmd struct {
	Phone    string `help:"Account phone number." xor:"login"`
	Email    string `help:"Account email address." xor:"login"`
	Password string `help:"Account password. Prompted for when omitted." env:"EATHMOVER_PASSWORD"`
	Role     string `help:"Account role." enum:"user,operator,admin" default:"user"`
	Remember bool   `help:"Keep the session in the OS keyring for later commands."`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	role, err := models.ParseRole(c.Role)
	if err != nil {
		return err
	}
	if strings.TrimSpace(c.Phone) == "" && strings.TrimSpace(c.Email) == "" {
		return errors.New("either --phone or --email is required")
	}
	if c.Password == "" {
		if err := huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&c.Password).
			Run(); err != nil {
			return err
		}
	}

	id, err := cli.SignIn(ctx.Ctx(), ctx, models.LoginRequest{
		Phone:    strings.TrimSpace(c.Phone),
		Email:    strings.TrimSpace(c.Email),
		Password: c.Password,
		Role:     role,
	})
	if err != nil {
		return err
	}

	name := id.DisplayName
	if name == "" {
		name = id.ID
	}
	fmt.Printf("✓ Signed in as %s (%s)\n", name, id.Role)

	if c.Remember {
		if err := ctx.Session.Remember(); err != nil {
			return fmt.Errorf("failed to store session in keyring: %w", err)
		}
		fmt.Println("✓ Session stored in OS keyring")
	} else {
		fmt.Println("  The session ends with this command. Use --remember to keep it.")
	}
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	if err := ctx.Session.Clear(); err != nil {
		return fmt.Errorf("failed to clear stored session: %w", err)
	}
	fmt.Println("✓ Signed out")
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx *cli.Context) error {
	id, ok := ctx.Session.Current()
	if !ok {
		fmt.Println("Not signed in")
		return nil
	}
	fmt.Printf("Role:  %s\n", id.Role)
	fmt.Printf("ID:    %s\n", id.ID)
	if id.DisplayName != "" {
		fmt.Printf("Name:  %s\n", id.DisplayName)
	}
	if id.Phone != "" {
		fmt.Printf("Phone: %s\n", id.Phone)
	}
	if id.Email != "" {
		fmt.Printf("Email: %s\n", id.Email)
	}
	if id.ExpiresAt != nil {
		fmt.Printf("Token expires: %s\n", id.ExpiresAt.Local().Format(time.RFC1123))
	}
	return nil
}
