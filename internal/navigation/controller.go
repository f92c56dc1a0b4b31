package navigation

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/julianstephens/eathmover/internal/logger"
	"github.com/julianstephens/eathmover/internal/models"
)

var (
	ErrUnknownAction = errors.New("action not available on this screen")
	ErrUnknownTab    = errors.New("tab not available for this role")
)

// ParamIsAdmin is carried into the settings screen to select its tab set.
const ParamIsAdmin = "is_admin"

// Transition is one recorded navigation step.
type Transition struct {
	From   Screen
	To     Screen
	Action Action
	// Params holds the present BookingContext fields plus screen flags.
	Params       map[string]string
	Context      models.BookingContext
	ClearHistory bool
	// EndsFlow is set when the booking context was discarded.
	EndsFlow bool
}

// Controller tracks the current screen, the back stack, and the booking
// context for one signed-in role. It is driven from a single goroutine.
type Controller struct {
	role    models.Role
	isAdmin bool
	current Screen
	history []Screen
	ctx     models.BookingContext
	journal []Transition
}

func NewController(role models.Role) *Controller {
	return &Controller{
		role:    role,
		isAdmin: role == models.RoleAdmin,
		current: HomeFor(role),
	}
}

func (c *Controller) Current() Screen                { return c.current }
func (c *Controller) Context() models.BookingContext { return c.ctx }
func (c *Controller) Role() models.Role              { return c.role }

// History returns a copy of the back stack, oldest first.
func (c *Controller) History() []Screen {
	return append([]Screen(nil), c.history...)
}

// Journal returns every transition recorded so far.
func (c *Controller) Journal() []Transition {
	return append([]Transition(nil), c.journal...)
}

// Trigger applies action on the current screen. bc is merged into the
// carried context before the transition is built.
func (c *Controller) Trigger(action Action, bc models.BookingContext) (Transition, error) {
	if action == ActionBack {
		return c.Back(), nil
	}
	to, ok := routes[c.current][action]
	if !ok {
		return Transition{}, fmt.Errorf("%w: %s on %s", ErrUnknownAction, action, c.current)
	}

	if to == ScreenMachineSelection {
		// a new booking flow starts from an empty context
		c.ctx = models.BookingContext{}
	}
	c.ctx = c.ctx.Merge(bc)
	tr := Transition{From: c.current, To: to, Action: action}
	if flowEnd[to] {
		tr.ClearHistory = true
		c.history = nil
	} else {
		c.history = append(c.history, c.current)
	}
	return c.record(tr), nil
}

// Back unwinds one step, or jumps home from screens that override back.
func (c *Controller) Back() Transition {
	tr := Transition{From: c.current, Action: ActionBack}
	switch {
	case homeOverride[c.current]:
		tr.To = HomeFor(c.role)
		tr.ClearHistory = true
		c.history = nil
	case len(c.history) == 0:
		tr.To = HomeFor(c.role)
	default:
		tr.To = c.history[len(c.history)-1]
		c.history = c.history[:len(c.history)-1]
	}
	return c.record(tr)
}

// SelectTab handles a bottom navigation selection. Reselecting the active
// tab is handled without navigating and records nothing. Any other tab
// clears history and lands on that tab's screen.
func (c *Controller) SelectTab(tab Tab) (bool, *Transition, error) {
	set := c.Tabs()
	to, ok := set.Screen(tab)
	if !ok {
		return false, nil, fmt.Errorf("%w: %s", ErrUnknownTab, tab)
	}
	if active, ok := set.TabOf(c.current); ok && active == tab {
		return true, nil, nil
	}

	c.history = nil
	c.ctx = models.BookingContext{}
	tr := c.record(Transition{From: c.current, To: to, Action: Action("tab:" + string(tab)), ClearHistory: true})
	return true, &tr, nil
}

// ActiveTab reports the tab whose screen is current, if any.
func (c *Controller) ActiveTab() (Tab, bool) {
	return c.Tabs().TabOf(c.current)
}

// Tabs returns the tab set for the current screen. The settings screen is
// shared by users and admins and picks its set from the carried flag.
func (c *Controller) Tabs() TabSet {
	if c.current == ScreenSettings {
		if c.isAdmin {
			return adminTabs
		}
		return userTabs
	}
	return TabsFor(c.role)
}

// OpenSettings navigates to settings, carrying isAdmin in the transition.
func (c *Controller) OpenSettings(isAdmin bool) Transition {
	c.isAdmin = isAdmin
	c.history = append(c.history, c.current)
	return c.record(Transition{From: c.current, To: ScreenSettings, Action: ActionSettings})
}

// Reset returns to the role's home and discards history and context.
func (c *Controller) Reset() Transition {
	c.history = nil
	return c.record(Transition{From: c.current, To: HomeFor(c.role), Action: ActionHome, ClearHistory: true})
}

func (c *Controller) record(tr Transition) Transition {
	if flowEnd[tr.To] || tr.To == HomeFor(c.role) {
		tr.EndsFlow = !c.ctx.IsZero()
		c.ctx = models.BookingContext{}
	}

	tr.Context = c.ctx
	tr.Params = c.ctx.Params()
	if tr.To == ScreenSettings {
		tr.Params[ParamIsAdmin] = strconv.FormatBool(c.isAdmin)
	}

	c.current = tr.To
	c.journal = append(c.journal, tr)
	logger.Debug("Navigation transition", "from", tr.From, "to", tr.To, "action", tr.Action, "params", len(tr.Params))
	return tr
}
