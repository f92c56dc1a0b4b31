package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/eathmover/internal/api"
	"github.com/julianstephens/eathmover/internal/cli"
	"github.com/julianstephens/eathmover/internal/cli/admin"
	"github.com/julianstephens/eathmover/internal/cli/auth"
	"github.com/julianstephens/eathmover/internal/cli/bookings"
	"github.com/julianstephens/eathmover/internal/cli/catalog"
	"github.com/julianstephens/eathmover/internal/cli/journal"
	"github.com/julianstephens/eathmover/internal/cli/system"
	"github.com/julianstephens/eathmover/internal/cli/timers"
	"github.com/julianstephens/eathmover/internal/config"
	"github.com/julianstephens/eathmover/internal/constants"
	"github.com/julianstephens/eathmover/internal/errors"
	"github.com/julianstephens/eathmover/internal/logger"
	"github.com/julianstephens/eathmover/internal/notifier"
	"github.com/julianstephens/eathmover/internal/session"
	"github.com/julianstephens/eathmover/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Path to config.yaml." type:"path"`
	Store   string `help:"Journal location: a SQLite file, a PostgreSQL connection string without credentials, or 'keyring'." env:"EATHMOVER_STORE_PATH"`
	BaseURL string `help:"Backend API base URL." name:"base-url"`
	Debug   bool   `help:"Log debug output to stderr."`

	Book      bookings.BookCmd       `cmd:"" help:"Book a machine and operator interactively." default:"1"`
	Login     auth.LoginCmd          `cmd:"" help:"Sign in."`
	Logout    auth.LogoutCmd         `cmd:"" help:"Sign out and forget the stored session."`
	Whoami    auth.WhoamiCmd         `cmd:"" help:"Show the signed-in account."`
	Signup    auth.SignupCmd         `cmd:"" help:"Create an account."`
	Password  auth.PasswordCmd       `cmd:"" help:"Reset a forgotten password."`
	Machines  catalog.MachinesCmd    `cmd:"" help:"List rentable machines."`
	Machine   catalog.MachineShowCmd `cmd:"" help:"Show one machine."`
	Operators catalog.OperatorsCmd   `cmd:"" help:"Search and inspect operators."`
	Bookings  bookings.BookingsCmd   `cmd:"" help:"List, review and watch your bookings."`
	Operator  bookings.OperatorCmd   `cmd:"" help:"Handle booking requests as an operator."`
	Timer     timers.TimerCmd        `cmd:"" help:"Run arrival and work countdowns."`
	Admin     admin.AdminCmd         `cmd:"" help:"Marketplace administration."`
	Locations journal.LocationsCmd   `cmd:"" help:"Manage saved work site addresses."`
	Feedback  journal.FeedbackCmd    `cmd:"" help:"Review ratings you have given."`
	Payments  journal.PaymentsCmd    `cmd:"" help:"Review recorded payments."`
	Init      system.InitCmd         `cmd:"" help:"Initialize the local journal."`
	Diagnose  system.DebugCmd        `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
	Doctor    system.DoctorCmd       `cmd:"" help:"Run health checks and diagnostics."`
	Keyring   system.KeyringCmd      `cmd:"" help:"Manage the journal connection string in the OS keyring."`
	Notify    system.NotifyCmd       `cmd:"" hidden:"" help:"Send a test notification through the tray app."`
}

// journalCommands open the local journal before running.
var journalCommands = map[string]bool{
	"book":      true,
	"locations": true,
	"feedback":  true,
	"payments":  true,
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Rent earth-moving machines with an operator, by the hour"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Load(config.Options{ConfigFile: CLI.Config})
	if err != nil {
		errors.Fatal(err)
	}
	if CLI.Store != "" {
		cfg.Store.Path = config.ExpandHome(CLI.Store)
	}
	if CLI.BaseURL != "" {
		cfg.API.BaseURL = CLI.BaseURL
	}
	cfg.Debug = cfg.Debug || CLI.Debug

	command := strings.Fields(kctx.Command())[0]
	if err := logger.Init(logger.Config{
		Debug:     cfg.Debug,
		ConfigDir: cfg.ConfigDir,
		// full screen commands own the terminal
		Stderr: command != "book" && command != "timer" && command != "bookings",
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file logging disabled: %v\n", err)
	}

	root, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess := session.New(session.WithStore(session.NewKeyringStore()))
	if err := sess.Restore(); err != nil {
		logger.Debug("No stored session", "error", err)
	}

	gateway, err := api.NewClient(api.Options{
		BaseURL:       cfg.API.BaseURL,
		Timeout:       cfg.API.Timeout,
		RatePerSecond: cfg.API.RatePerSecond,
		Burst:         cfg.API.Burst,
		Token:         sess.Token,
	})
	if err != nil {
		errors.Fatal(err)
	}

	store, err := cli.OpenStore(cfg.Store)
	if err != nil && (journalCommands[command] || command == "init") {
		errors.Fatal(err)
	}
	if store != nil {
		defer store.Close()
	}

	appCtx := &cli.Context{
		Root:     root,
		Config:   cfg,
		Gateway:  gateway,
		Session:  sess,
		Store:    store,
		Notifier: notifier.New(),
	}

	if journalCommands[command] {
		if err := loadJournal(root, store); err != nil {
			errors.Fatal(err)
		}
	}

	if err := kctx.Run(appCtx); err != nil {
		stop()
		if store != nil {
			_ = store.Close()
		}
		errors.Fatal(err)
	}
}

// loadJournal opens the journal, creating it on first use.
func loadJournal(ctx context.Context, store storage.Provider) error {
	err := store.Load(ctx)
	if !errors.Is(err, storage.ErrNotInitialized) {
		return err
	}
	logger.Info("Creating local journal", "path", store.GetConfigPath())
	return store.Init(ctx)
}
