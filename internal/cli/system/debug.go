package system

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/eathmover/internal/cli"
	"github.com/julianstephens/eathmover/internal/storage/postgres"
)

type DebugCmd struct {
	DBPath  DebugDBPathCmd  `cmd:"" name:"db-path" help:"Show journal location."`
	Config  DebugConfigCmd  `cmd:"" help:"Dump the effective configuration as JSON."`
	Session DebugSessionCmd `cmd:"" help:"Dump the active session as JSON, without the token."`
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	path := ""
	if ctx.Config != nil {
		path = postgres.MaskPassword(ctx.Config.Store.Path)
	}
	return printJSON(map[string]string{"path": path})
}

type DebugConfigCmd struct{}

func (cmd *DebugConfigCmd) Run(ctx *cli.Context) error {
	if ctx.Config == nil {
		return fmt.Errorf("configuration not loaded")
	}
	cfg := *ctx.Config
	cfg.Store.Path = postgres.MaskPassword(cfg.Store.Path)
	return printJSON(cfg)
}

type DebugSessionCmd struct{}

func (cmd *DebugSessionCmd) Run(ctx *cli.Context) error {
	id, ok := ctx.Session.Current()
	if !ok {
		return printJSON(nil)
	}
	if id.Token != "" {
		id.Token = "****"
	}
	return printJSON(id)
}
