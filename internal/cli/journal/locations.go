package journal

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/eathmover/internal/cli"
	"github.com/julianstephens/eathmover/internal/models"
	"github.com/julianstephens/eathmover/internal/storage"
)

type LocationsCmd struct {
	Add    LocationAddCmd    `cmd:"" help:"Save a work site address."`
	List   LocationListCmd   `cmd:"" default:"withargs" help:"List saved addresses."`
	Delete LocationDeleteCmd `cmd:"" help:"Delete a saved address."`
}

type LocationAddCmd struct {
	Label   string `arg:"" help:"Short name, e.g. 'Yard'."`
	Address string `arg:"" help:"Full site address."`
}

func (c *LocationAddCmd) Run(ctx *cli.Context) error {
	loc := models.SavedLocation{
		ID:        uuid.New().String(),
		Label:     strings.TrimSpace(c.Label),
		Address:   strings.TrimSpace(c.Address),
		CreatedAt: time.Now(),
	}
	if err := loc.Validate(); err != nil {
		return err
	}
	if err := ctx.Store.AddLocation(ctx.Ctx(), loc); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return fmt.Errorf("a location labelled %q already exists", loc.Label)
		}
		return fmt.Errorf("failed to save location: %w", err)
	}
	fmt.Printf("✓ Saved %s: %s\n", loc.Label, loc.Address)
	return nil
}

type LocationListCmd struct {
	ShowIDs bool `help:"Show location IDs." name:"show-ids"`
}

func (c *LocationListCmd) Run(ctx *cli.Context) error {
	locs, err := ctx.Store.ListLocations(ctx.Ctx())
	if err != nil {
		return fmt.Errorf("failed to list locations: %w", err)
	}
	if len(locs) == 0 {
		fmt.Println("No saved locations")
		return nil
	}
	fmt.Println("Saved locations:")
	for _, l := range locs {
		idStr := ""
		if c.ShowIDs {
			idStr = fmt.Sprintf(" (ID: %s)", l.ID)
		}
		fmt.Printf("  %s%s - %s\n", l.Label, idStr, l.Address)
	}
	return nil
}

type LocationDeleteCmd struct {
	Ref string `arg:"" help:"Location ID or label."`
}

func (c *LocationDeleteCmd) Run(ctx *cli.Context) error {
	id, err := resolveLocation(ctx, c.Ref)
	if err != nil {
		return err
	}
	if err := ctx.Store.DeleteLocation(ctx.Ctx(), id); err != nil {
		return fmt.Errorf("failed to delete location: %w", err)
	}
	fmt.Printf("✓ Deleted location %s\n", c.Ref)
	return nil
}

// resolveLocation accepts either an id or a case-insensitive label.
func resolveLocation(ctx *cli.Context, ref string) (string, error) {
	if l, err := ctx.Store.GetLocation(ctx.Ctx(), ref); err == nil {
		return l.ID, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return "", err
	}
	locs, err := ctx.Store.ListLocations(ctx.Ctx())
	if err != nil {
		return "", err
	}
	for _, l := range locs {
		if strings.EqualFold(l.Label, strings.TrimSpace(ref)) {
			return l.ID, nil
		}
	}
	return "", fmt.Errorf("location %q not found", ref)
}
