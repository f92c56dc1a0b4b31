package workflow

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/eathmover/internal/api"
	"github.com/julianstephens/eathmover/internal/api/mocks"
	"github.com/julianstephens/eathmover/internal/errors"
	"github.com/julianstephens/eathmover/internal/models"
	"github.com/julianstephens/eathmover/internal/navigation"
	"github.com/julianstephens/eathmover/internal/session"
	"github.com/julianstephens/eathmover/internal/timer"
)

type memJournal struct {
	payments []models.Payment
	feedback []models.Feedback
}

func (j *memJournal) AddPayment(_ context.Context, p models.Payment) error {
	j.payments = append(j.payments, p)
	return nil
}

func (j *memJournal) AddFeedback(_ context.Context, f models.Feedback) error {
	j.feedback = append(j.feedback, f)
	return nil
}

func intPtr(n int) *models.FlexInt { v := models.FlexInt(n); return &v }

var excavator = models.Machine{
	MachineID:    5,
	CategoryID:   intPtr(int(models.CategoryExcavator)),
	ModelName:    "CAT 320",
	Type:         "Excavator",
	PricePerHour: 1200,
}

func signedIn(t *testing.T) *session.Session {
	t.Helper()
	s := session.New()
	require.NoError(t, s.Set(session.Identity{Role: models.RoleUser, ID: "7", DisplayName: "Asha"}))
	return s
}

func newFlow(t *testing.T, gw *mocks.MockGateway, j Journal) *Flow {
	t.Helper()
	return New(Options{Gateway: gw, Session: signedIn(t), Journal: j})
}

// toOperatorFound walks a fresh flow up to the operator screen with one match.
func toOperatorFound(t *testing.T, f *Flow, gw *mocks.MockGateway) {
	t.Helper()
	gw.On("SearchOperators", mock.Anything, mock.Anything).Return([]models.OperatorMatch{{
		OperatorProfile: models.OperatorProfile{OperatorID: "42", Name: "Ravi", Phone: "9000000000"},
	}}, nil).Once()

	_, err := f.Begin()
	require.NoError(t, err)
	_, err = f.SelectMachine(Selection{Machine: excavator, Date: "2026-10-20", Time: "09:00", Location: "X", Duration: "2 Hours 30 Min"})
	require.NoError(t, err)
	_, err = f.SearchOperators(context.Background())
	require.NoError(t, err)
	require.Equal(t, navigation.ScreenOperatorFound, f.Screen())
}

func TestFlow_SelectMachine(t *testing.T) {
	f := newFlow(t, &mocks.MockGateway{}, nil)
	_, err := f.Begin()
	require.NoError(t, err)

	_, err = f.SelectMachine(Selection{Machine: excavator})
	assert.Equal(t, errors.KindValidation, errors.KindOf(err))
	assert.Equal(t, navigation.ScreenMachineSelection, f.Screen())

	step, err := f.SelectMachine(Selection{Machine: excavator, Location: "X", Duration: "2 Hours 30 Min"})
	require.NoError(t, err)
	assert.Equal(t, navigation.ScreenOperatorSearch, step.Transition.To)
	assert.Equal(t, "5", step.Transition.Params[models.ParamMachineID])
	assert.Equal(t, "₹3,000", step.Transition.Params[models.ParamEstimatedCost])
	assert.NotContains(t, step.Transition.Params, models.ParamOperatorID)
}

func TestFlow_SelectMachineOutOfOrder(t *testing.T) {
	f := newFlow(t, &mocks.MockGateway{}, nil)
	_, err := f.SelectMachine(Selection{Machine: excavator, Location: "X"})
	assert.ErrorIs(t, err, navigation.ErrUnknownAction)
	assert.Equal(t, navigation.ScreenHome, f.Screen())
}

func TestFlow_SearchOperatorsFailsOpen(t *testing.T) {
	tests := []struct {
		name   string
		result []models.OperatorMatch
		err    error
		notice string
	}{
		{name: "empty result", result: []models.OperatorMatch{}, notice: MsgNoOperator},
		{name: "api failure", err: errors.API(200, "No operators in area"), notice: "No operators in area"},
		{name: "transport failure", err: errors.Transport(stderrors.New("dial tcp: connection refused")), notice: errors.MsgCannotConnect},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &mocks.MockGateway{}
			gw.On("SearchOperators", mock.Anything, mock.Anything).Return(tt.result, tt.err)
			f := newFlow(t, gw, nil)
			_, err := f.Begin()
			require.NoError(t, err)
			_, err = f.SelectMachine(Selection{Machine: excavator, Location: "X"})
			require.NoError(t, err)

			step, err := f.SearchOperators(context.Background())
			require.NoError(t, err)
			assert.Equal(t, navigation.ScreenOperatorFound, step.Transition.To)
			assert.Equal(t, tt.notice, step.Notice)
			assert.NotContains(t, step.Transition.Params, models.ParamOperatorID)
			assert.Equal(t, "X", step.Transition.Params[models.ParamLocation])

			_, err = f.ConfirmBooking(context.Background())
			assert.Equal(t, MsgOperatorMissing, errors.UserMessage(err))
			assert.Equal(t, navigation.ScreenOperatorFound, f.Screen())
			gw.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
		})
	}
}

func TestFlow_SearchOperatorsQuery(t *testing.T) {
	gw := &mocks.MockGateway{}
	f := newFlow(t, gw, nil)
	toOperatorFound(t, f, gw)

	gw.AssertCalled(t, "SearchOperators", mock.Anything, models.OperatorQuery{
		Location: "X", MachineType: "Excavator", Date: "2026-10-20", Time: "09:00",
	})
	bc := f.Context()
	assert.Equal(t, "42", bc.OperatorID)
	assert.Equal(t, "Ravi", bc.OperatorName)
	assert.Equal(t, "5", bc.MachineID)
}

func TestFlow_ConfirmBooking(t *testing.T) {
	gw := &mocks.MockGateway{}
	f := newFlow(t, gw, nil)
	toOperatorFound(t, f, gw)

	gw.On("CreateBooking", mock.Anything, mock.MatchedBy(func(b models.Booking) bool {
		return b.UserID == "7" && b.OperatorID == "42" && b.MachineID == "5" &&
			b.Status == models.StatusPending && b.TotalAmount == 3000
	})).Return("88", nil)

	step, err := f.ConfirmBooking(context.Background())
	require.NoError(t, err)
	assert.Equal(t, navigation.ScreenBookingConfirmation, step.Transition.To)
	assert.Equal(t, MsgBookingSent, step.Notice)
	assert.Equal(t, "88", step.Transition.Params[models.ParamBookingID])
	gw.AssertExpectations(t)

	// back from the confirmation never returns to the submitted form
	back := f.Back()
	assert.Equal(t, navigation.ScreenHome, back.Transition.To)
	assert.True(t, f.Context().IsZero())
}

func TestFlow_ConfirmBookingFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"server message", errors.API(200, "Operator busy"), "Operator busy"},
		{"generic api failure", errors.API(500, ""), MsgBookingFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &mocks.MockGateway{}
			f := newFlow(t, gw, nil)
			toOperatorFound(t, f, gw)
			gw.On("CreateBooking", mock.Anything, mock.Anything).Return("", tt.err)

			_, err := f.ConfirmBooking(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.want, errors.UserMessage(err))
			assert.Equal(t, navigation.ScreenOperatorFound, f.Screen())
			assert.Equal(t, "42", f.Context().OperatorID)
		})
	}
}

func TestFlow_ConfirmBookingRequiresUser(t *testing.T) {
	gw := &mocks.MockGateway{}
	f := New(Options{Gateway: gw, Session: session.New()})
	toOperatorFound(t, f, gw)

	_, err := f.ConfirmBooking(context.Background())
	assert.Equal(t, MsgLoginRequired, errors.UserMessage(err))
	gw.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
}

func TestFlow_ArrivalUsesLookup(t *testing.T) {
	gw := &mocks.MockGateway{}
	now := time.Date(2026, 10, 20, 8, 30, 0, 0, time.Local)
	gw.On("GetBooking", mock.Anything, "88").Return(models.Booking{
		BookingID: "88", BookingDate: "2026-10-20", StartTime: "09:00",
	}, nil)

	f := New(Options{
		Gateway: gw,
		Session: signedIn(t),
		Arrival: GatewayArrival{Gateway: gw, Now: func() time.Time { return now }},
	})
	toOperatorFound(t, f, gw)
	gw.On("CreateBooking", mock.Anything, mock.Anything).Return("88", nil)

	_, err := f.ConfirmBooking(context.Background())
	require.NoError(t, err)
	_, err = f.Track()
	require.NoError(t, err)
	step, err := f.Arrival(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, step.Countdown)
}

func TestFlow_ArrivalFallsBackWhenLookupUnsupported(t *testing.T) {
	gw := &mocks.MockGateway{}
	gw.On("GetBooking", mock.Anything, "88").Return(models.Booking{}, api.ErrNotImplemented)

	f := New(Options{Gateway: gw, Session: signedIn(t), Arrival: GatewayArrival{Gateway: gw}})
	toOperatorFound(t, f, gw)
	gw.On("CreateBooking", mock.Anything, mock.Anything).Return("88", nil)

	_, err := f.ConfirmBooking(context.Background())
	require.NoError(t, err)
	_, err = f.Track()
	require.NoError(t, err)
	step, err := f.Arrival(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, step.Countdown)
}

func TestFlow_PaymentAndRating(t *testing.T) {
	gw := &mocks.MockGateway{}
	j := &memJournal{}
	f := newFlow(t, gw, j)
	toOperatorFound(t, f, gw)
	gw.On("CreateBooking", mock.Anything, mock.Anything).Return("88", nil)
	ctx := context.Background()

	_, err := f.ConfirmBooking(ctx)
	require.NoError(t, err)
	_, err = f.Track()
	require.NoError(t, err)
	_, err = f.Arrival(ctx)
	require.NoError(t, err)
	_, err = f.StartWork()
	require.NoError(t, err)
	_, err = f.FinishWork(2 * time.Hour)
	require.NoError(t, err)

	step, err := f.PriceBreakdown()
	require.NoError(t, err)
	require.NotNil(t, step.Breakdown)
	assert.Equal(t, int64(2400), step.Breakdown.FinalAmount)

	_, err = f.ProceedToPayment()
	require.NoError(t, err)

	_, err = f.Pay(ctx, "  ")
	assert.Equal(t, MsgUPIRequired, errors.UserMessage(err))
	assert.Empty(t, j.payments)

	step, err = f.Pay(ctx, "asha@upi")
	require.NoError(t, err)
	assert.Equal(t, navigation.ScreenPaymentSuccessful, step.Transition.To)
	require.Len(t, j.payments, 1)
	assert.Equal(t, float64(2400), j.payments[0].Amount)
	assert.Equal(t, "88", j.payments[0].BookingID)

	_, err = f.OpenRating()
	require.NoError(t, err)

	_, err = f.Rate(ctx, 0, "")
	assert.Equal(t, MsgRatingRequired, errors.UserMessage(err))
	_, err = f.Rate(ctx, 6, "")
	assert.Equal(t, errors.KindValidation, errors.KindOf(err))
	assert.Empty(t, j.feedback)

	step, err = f.Rate(ctx, 5, " great work ")
	require.NoError(t, err)
	assert.Equal(t, navigation.ScreenHome, step.Transition.To)
	assert.True(t, step.Transition.EndsFlow)
	assert.True(t, f.Context().IsZero())
	require.Len(t, j.feedback, 1)
	assert.Equal(t, "great work", j.feedback[0].Comment)
	assert.Equal(t, "42", j.feedback[0].OperatorID)
}

func TestFlow_HomeDiscardsContext(t *testing.T) {
	gw := &mocks.MockGateway{}
	f := newFlow(t, gw, nil)
	toOperatorFound(t, f, gw)

	step := f.Home()
	assert.Equal(t, navigation.ScreenHome, step.Transition.To)
	assert.True(t, step.Transition.EndsFlow)
	assert.True(t, f.Context().IsZero())
	assert.Empty(t, f.Navigator().History())
}

func TestFlow_LoginToArrivalCountdown(t *testing.T) {
	ctx := context.Background()
	gw := &mocks.MockGateway{}
	gw.On("Login", mock.Anything, mock.Anything).Return(models.LoginData{
		UserID: "7", Name: "Asha", Role: models.RoleUser,
	}, nil)
	gw.On("GetUserMachines", mock.Anything).Return([]models.Machine{excavator, {MachineID: 9, CategoryID: intPtr(1)}}, nil)
	gw.On("SearchOperators", mock.Anything, mock.MatchedBy(func(q models.OperatorQuery) bool {
		return q.Location == "X"
	})).Return([]models.OperatorMatch{{
		OperatorProfile: models.OperatorProfile{OperatorID: "42", Name: "Ravi"},
	}}, nil)
	gw.On("CreateBooking", mock.Anything, mock.Anything).Return("", nil)

	sess := session.New()
	data, err := gw.Login(ctx, models.LoginRequest{Phone: "9000000001", Password: "secret", Role: models.RoleUser})
	require.NoError(t, err)
	require.NoError(t, sess.Set(session.Identity{Role: data.Role, ID: data.ID(), DisplayName: data.Name}))

	f := New(Options{Gateway: gw, Session: sess, Arrival: GatewayArrival{Gateway: gw}})
	_, err = f.Begin()
	require.NoError(t, err)

	machines, err := gw.GetUserMachines(ctx)
	require.NoError(t, err)
	picked := models.MachinesByCategory(machines, models.CategoryExcavator)
	require.Len(t, picked, 1)

	_, err = f.SelectMachine(Selection{Machine: picked[0], Location: "X"})
	require.NoError(t, err)
	_, err = f.SearchOperators(ctx)
	require.NoError(t, err)
	_, err = f.ConfirmBooking(ctx)
	require.NoError(t, err)
	assert.False(t, f.Context().HasBooking())
	_, err = f.Track()
	require.NoError(t, err)

	step, err := f.Arrival(ctx)
	require.NoError(t, err)
	assert.Equal(t, navigation.ScreenOperatorArrival, f.Screen())
	gw.AssertNotCalled(t, "GetBooking", mock.Anything, mock.Anything)

	engine := timer.NewEngine()
	require.NoError(t, engine.Start(step.Countdown))
	assert.Equal(t, "01:30:00", engine.Snapshot().Display())

	finished := 0
	for i := 0; i < 5400; i++ {
		if engine.Tick() {
			finished++
		}
	}
	assert.Equal(t, 1, finished)
	assert.Equal(t, "00:00:00", engine.Snapshot().Display())
	assert.Equal(t, timer.StatusFinished, engine.Status())
}
