package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/eathmover/internal/api"
	"github.com/julianstephens/eathmover/internal/config"
	"github.com/julianstephens/eathmover/internal/keyring"
	"github.com/julianstephens/eathmover/internal/logger"
	"github.com/julianstephens/eathmover/internal/models"
	"github.com/julianstephens/eathmover/internal/notifier"
	"github.com/julianstephens/eathmover/internal/session"
	"github.com/julianstephens/eathmover/internal/storage"
	"github.com/julianstephens/eathmover/internal/storage/postgres"
	"github.com/julianstephens/eathmover/internal/storage/sqlite"
	"github.com/julianstephens/eathmover/internal/workflow"
)

// KeyringStorePath selects the PostgreSQL connection string kept in the OS keyring.
const KeyringStorePath = "keyring"

type Context struct {
	Root     context.Context
	Config   *config.Config
	Gateway  api.Gateway
	Session  *session.Session
	Store    storage.Provider
	Notifier *notifier.Notifier
}

// Ctx returns the context commands should pass to blocking calls.
func (c *Context) Ctx() context.Context {
	if c.Root == nil {
		return context.Background()
	}
	return c.Root
}

// Notify sends a tray notification when a notifier is configured.
func (c *Context) Notify(ctx context.Context, title, text string) {
	if c.Notifier == nil {
		return
	}
	c.Notifier.NotifyQuietly(ctx, title, text)
}

// NewFlow builds a booking workflow over the context's gateway, session and journal.
func (c *Context) NewFlow() *workflow.Flow {
	opts := workflow.Options{
		Gateway: c.Gateway,
		Session: c.Session,
		Arrival: workflow.GatewayArrival{Gateway: c.Gateway},
	}
	if c.Store != nil {
		opts.Journal = c.Store
	}
	if c.Config != nil {
		opts.DefaultArrival = c.Config.Arrival.Default
	}
	return workflow.New(opts)
}

// OpenStore picks the journal backend for cfg. A postgres:// path must not
// embed a password; the keyring path may, since the keyring is encrypted.
func OpenStore(cfg config.StoreConfig) (storage.Provider, error) {
	switch {
	case cfg.Path == KeyringStorePath:
		connStr, err := keyring.GetConnectionString()
		if err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return nil, errors.New("no connection string found in keyring, use 'eathmover keyring set' to store one")
			}
			return nil, err
		}
		return postgres.New(connStr), nil
	case cfg.IsPostgres() || postgres.IsConnString(cfg.Path):
		if err := postgres.ValidateConnString(cfg.Path); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("%w: store it with 'eathmover keyring set' and set store.path to %q, or use .pgpass", err, KeyringStorePath)
			}
			return nil, err
		}
		return postgres.New(cfg.Path), nil
	}
	return sqlite.NewStore(config.ExpandHome(cfg.Path)), nil
}

// SignIn logs in through the gateway and records the identity on the session.
func SignIn(ctx context.Context, c *Context, req models.LoginRequest) (session.Identity, error) {
	if req.Role == "" {
		req.Role = models.RoleUser
	}
	var (
		data models.LoginData
		err  error
	)
	if req.Role == models.RoleAdmin {
		data, err = c.Gateway.AdminLogin(ctx, req)
	} else {
		data, err = c.Gateway.Login(ctx, req)
	}
	if err != nil {
		return session.Identity{}, err
	}
	if data.Role == "" {
		data.Role = req.Role
	}

	id := session.Identity{
		Role:        req.Role,
		ID:          data.ID(),
		DisplayName: data.Name,
		Phone:       data.Phone,
		Email:       data.Email,
		Token:       data.Token,
	}
	if id.Phone == "" {
		id.Phone = req.Phone
	}
	if id.Email == "" {
		id.Email = req.Email
	}
	if err := c.Session.Set(id); err != nil {
		return session.Identity{}, fmt.Errorf("login response did not identify the account: %w", err)
	}
	return id, nil
}

// EnsureSignedIn returns the active identity for role, prompting for
// credentials when there is none.
func (c *Context) EnsureSignedIn(role models.Role) (session.Identity, error) {
	if id, ok := c.Session.Get(role); ok {
		return id, nil
	}

	var login, password string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Phone or email").
				Value(&login).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&password),
		).Title("Sign in as " + string(role)),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return session.Identity{}, session.ErrNoSession
		}
		return session.Identity{}, err
	}

	req := models.LoginRequest{Password: password, Role: role}
	if strings.Contains(login, "@") {
		req.Email = strings.TrimSpace(login)
	} else {
		req.Phone = strings.TrimSpace(login)
	}
	id, err := SignIn(c.Ctx(), c, req)
	if err != nil {
		return session.Identity{}, err
	}
	logger.Debug("Signed in interactively", "role", role)
	return id, nil
}
