package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/eathmover/internal/models"
)

func TestTriggerCarriesPresentParamsOnly(t *testing.T) {
	c := NewController(models.RoleUser)

	_, err := c.Trigger(ActionBook, models.BookingContext{})
	require.NoError(t, err)
	_, err = c.Trigger(ActionSearch, models.BookingContext{MachineID: "7", MachineType: "Excavator", Location: "X"})
	require.NoError(t, err)

	tr, err := c.Trigger(ActionSearch, models.BookingContext{})
	require.NoError(t, err)

	assert.Equal(t, ScreenOperatorFound, tr.To)
	assert.Equal(t, "7", tr.Params[models.ParamMachineID])
	_, hasOperator := tr.Params[models.ParamOperatorID]
	assert.False(t, hasOperator, "absent operator id must be omitted")
}

func TestTriggerRejectsUndeclaredAction(t *testing.T) {
	c := NewController(models.RoleUser)

	_, err := c.Trigger(ActionPay, models.BookingContext{})
	assert.ErrorIs(t, err, ErrUnknownAction)
	assert.Equal(t, ScreenHome, c.Current())
	assert.Empty(t, c.Journal())
}

func TestBackUnwindsHistory(t *testing.T) {
	c := NewController(models.RoleUser)
	_, _ = c.Trigger(ActionBook, models.BookingContext{})
	_, _ = c.Trigger(ActionDetails, models.BookingContext{MachineID: "3"})

	tr := c.Back()
	assert.Equal(t, ScreenMachineSelection, tr.To)
	tr = c.Back()
	assert.Equal(t, ScreenHome, tr.To)
	tr = c.Back()
	assert.Equal(t, ScreenHome, tr.To, "empty history lands home")
}

func TestBackFromBookingConfirmationJumpsHome(t *testing.T) {
	c := NewController(models.RoleUser)
	steps := []Action{ActionBook, ActionSearch, ActionSearch, ActionConfirm}
	for _, a := range steps {
		_, err := c.Trigger(a, models.BookingContext{MachineID: "2", OperatorID: "5", BookingID: "40"})
		require.NoError(t, err)
	}
	require.Equal(t, ScreenBookingConfirmation, c.Current())

	tr := c.Back()

	assert.Equal(t, ScreenHome, tr.To)
	assert.True(t, tr.ClearHistory)
	assert.True(t, tr.EndsFlow)
	assert.Empty(t, c.History())
	assert.True(t, c.Context().IsZero(), "booking context discarded at home")
}

func TestBackFromPaymentSuccessfulJumpsHome(t *testing.T) {
	c := NewController(models.RoleUser)
	c.current = ScreenPaymentSuccessful
	c.history = []Screen{ScreenHome, ScreenPayment}

	tr, err := c.Trigger(ActionBack, models.BookingContext{})
	require.NoError(t, err)
	assert.Equal(t, ScreenHome, tr.To)
	assert.Empty(t, c.History())
}

func TestSelectActiveTabRecordsNothing(t *testing.T) {
	c := NewController(models.RoleUser)

	handled, tr, err := c.SelectTab(TabHome)

	require.NoError(t, err)
	assert.True(t, handled)
	assert.Nil(t, tr)
	assert.Empty(t, c.Journal())
	assert.Equal(t, ScreenHome, c.Current())
}

func TestSelectOtherTabClearsHistory(t *testing.T) {
	c := NewController(models.RoleUser)
	_, _ = c.Trigger(ActionBook, models.BookingContext{})
	_, _ = c.Trigger(ActionDetails, models.BookingContext{MachineID: "1"})
	require.Len(t, c.History(), 2)

	handled, tr, err := c.SelectTab(TabHistory)

	require.NoError(t, err)
	assert.True(t, handled)
	require.NotNil(t, tr)
	assert.Equal(t, ScreenHistory, tr.To)
	assert.True(t, tr.ClearHistory)
	assert.Empty(t, c.History())
	assert.True(t, c.Context().IsZero())

	_, tr, _ = c.SelectTab(TabHistory)
	assert.Nil(t, tr, "reselecting history is a no-op")
}

func TestSelectTabUnknownForRole(t *testing.T) {
	c := NewController(models.RoleOperator)

	_, _, err := c.SelectTab(TabVerification)
	assert.ErrorIs(t, err, ErrUnknownTab)

	_, tr, err := c.SelectTab(TabEarnings)
	require.NoError(t, err)
	assert.Equal(t, ScreenOperatorEarnings, tr.To)
}

func TestSettingsTabsFollowAdminFlag(t *testing.T) {
	tests := []struct {
		name     string
		role     models.Role
		isAdmin  bool
		wantTabs []Tab
	}{
		{"user settings", models.RoleUser, false, []Tab{TabHome, TabBook, TabHistory, TabProfile}},
		{"admin settings", models.RoleAdmin, true, []Tab{TabDashboard, TabVerification, TabRequests, TabReports, TabSettings}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(tt.role)
			tr := c.OpenSettings(tt.isAdmin)

			assert.Equal(t, ScreenSettings, tr.To)
			assert.Equal(t, map[bool]string{true: "true", false: "false"}[tt.isAdmin], tr.Params[ParamIsAdmin])
			assert.Equal(t, tt.wantTabs, c.Tabs().Tabs)
		})
	}
}

func TestAdminReselectSettingsIsNoop(t *testing.T) {
	c := NewController(models.RoleAdmin)
	c.OpenSettings(true)
	before := len(c.Journal())

	handled, tr, err := c.SelectTab(TabSettings)

	require.NoError(t, err)
	assert.True(t, handled)
	assert.Nil(t, tr)
	assert.Len(t, c.Journal(), before)
}

func TestNewFlowStartsWithEmptyContext(t *testing.T) {
	c := NewController(models.RoleUser)
	_, _ = c.Trigger(ActionBook, models.BookingContext{})
	_, _ = c.Trigger(ActionSearch, models.BookingContext{MachineID: "1", Location: "A"})
	c.Reset()

	tr, err := c.Trigger(ActionBook, models.BookingContext{})
	require.NoError(t, err)
	assert.Empty(t, tr.Params)
}

func TestHomeForRole(t *testing.T) {
	assert.Equal(t, ScreenHome, HomeFor(models.RoleUser))
	assert.Equal(t, ScreenOperatorDashboard, HomeFor(models.RoleOperator))
	assert.Equal(t, ScreenAdminDashboard, HomeFor(models.RoleAdmin))
	assert.NotEmpty(t, Actions(ScreenOperatorFound))
}
