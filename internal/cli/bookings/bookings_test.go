package bookings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/eathmover/internal/api/mocks"
	"github.com/julianstephens/eathmover/internal/cli"
	"github.com/julianstephens/eathmover/internal/config"
	"github.com/julianstephens/eathmover/internal/models"
	"github.com/julianstephens/eathmover/internal/session"
)

func signedIn(t *testing.T, role models.Role, id string) (*cli.Context, *mocks.MockGateway) {
	t.Helper()
	gw := &mocks.MockGateway{}
	sess := session.New()
	require.NoError(t, sess.Set(session.Identity{Role: role, ID: id, DisplayName: "Asha"}))
	return &cli.Context{
		Root:    context.Background(),
		Config:  config.Default(),
		Gateway: gw,
		Session: sess,
	}, gw
}

var sample = []models.Booking{
	{BookingID: "9", Status: models.StatusPending, MachineModel: "3DX", OperatorName: "Ravi"},
	{BookingID: "12", Status: "active", MachineModel: "EX 210"},
	{BookingID: "4", Status: models.StatusCompleted, MachineModel: "D6", TotalAmount: 2400},
	{BookingID: "15", Status: models.StatusDeclined, MachineType: "Dozer"},
}

func TestListCmd(t *testing.T) {
	ctx, gw := signedIn(t, models.RoleUser, "7")
	gw.On("GetUserBookings", mock.Anything, "7").Return(sample, nil)

	for _, f := range []string{"all", "pending", "active"} {
		assert.NoError(t, (&ListCmd{Filter: f}).Run(ctx), f)
	}
	gw.AssertNumberOfCalls(t, "GetUserBookings", 3)
}

func TestHistoryCmd(t *testing.T) {
	ctx, gw := signedIn(t, models.RoleUser, "7")
	gw.On("GetUserBookings", mock.Anything, "7").Return(sample, nil)

	assert.NoError(t, (&HistoryCmd{}).Run(ctx))
	gw.AssertExpectations(t)
}

func TestOperatorCommandsUseOperatorIdentity(t *testing.T) {
	ctx, gw := signedIn(t, models.RoleOperator, "42")
	gw.On("GetOperatorBookings", mock.Anything, "42").Return(sample, nil)
	gw.On("AcceptBooking", mock.Anything, "9", "42").Return("", nil)
	gw.On("DeclineBooking", mock.Anything, "9", "42").Return("Booking declined", nil)
	gw.On("CompleteBooking", mock.Anything, "12").Return("", nil)

	assert.NoError(t, (&OperatorJobsCmd{Filter: "pending"}).Run(ctx))
	assert.NoError(t, (&OperatorAcceptCmd{BookingID: "9"}).Run(ctx))
	assert.NoError(t, (&OperatorDeclineCmd{BookingID: "9"}).Run(ctx))
	assert.NoError(t, (&OperatorCompleteCmd{BookingID: "12"}).Run(ctx))
	gw.AssertExpectations(t)
}

func TestOperatorEarningsCmd(t *testing.T) {
	ctx, gw := signedIn(t, models.RoleOperator, "42")
	gw.On("GetOperatorEarnings", mock.Anything, "42").Return(sample, nil)

	assert.NoError(t, (&OperatorEarningsCmd{}).Run(ctx))
	assert.NoError(t, (&OperatorEarningsCmd{History: true}).Run(ctx))
	gw.AssertNumberOfCalls(t, "GetOperatorEarnings", 2)
}

func TestOperatorEarningsCmdWrapsGatewayError(t *testing.T) {
	ctx, gw := signedIn(t, models.RoleOperator, "42")
	gw.On("GetOperatorEarnings", mock.Anything, "42").Return(nil, assert.AnError)

	err := (&OperatorEarningsCmd{}).Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}
