package workflow

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/eathmover/internal/api"
	"github.com/julianstephens/eathmover/internal/constants"
	"github.com/julianstephens/eathmover/internal/errors"
	"github.com/julianstephens/eathmover/internal/logger"
	"github.com/julianstephens/eathmover/internal/models"
	"github.com/julianstephens/eathmover/internal/navigation"
	"github.com/julianstephens/eathmover/internal/session"
)

// User-visible messages of the booking flow.
const (
	MsgNoOperator       = "No operators available for this request"
	MsgOperatorMissing  = "Operator ID not found"
	MsgMachineRequired  = "Machine ID is required"
	MsgLoginRequired    = "User ID not found. Please login again."
	MsgLocationRequired = "Please enter a location"
	MsgRatingRequired   = "Please select a rating"
	MsgUPIRequired      = "Please enter UPI ID"
	MsgBookingSent      = "Booking request sent to operator successfully"
	MsgBookingFailed    = "Failed to create booking request"
)

// Journal persists records the backend has no endpoint for.
type Journal interface {
	AddPayment(ctx context.Context, p models.Payment) error
	AddFeedback(ctx context.Context, f models.Feedback) error
}

// Selection is what the user picks on the machine selection screen.
type Selection struct {
	Machine  models.Machine
	Date     string
	Time     string
	Location string
	Duration string
}

// Step is the result of one workflow operation.
type Step struct {
	Transition navigation.Transition
	// Notice is an informational message for the user; the step still succeeded.
	Notice string
	// Countdown is set when entering the arrival screen.
	Countdown time.Duration
	// Breakdown is set when entering the price breakdown screen.
	Breakdown *Breakdown
}

type Options struct {
	Gateway        api.Gateway
	Session        *session.Session
	Journal        Journal
	Arrival        ArrivalLookup
	DefaultArrival time.Duration
	Now            func() time.Time
}

// Flow drives a single user through the booking lifecycle. Every step checks
// that it is legal on the current screen before it calls out to the gateway
// or the journal, so a rejected step has no side effects.
type Flow struct {
	gateway        api.Gateway
	session        *session.Session
	journal        Journal
	arrival        ArrivalLookup
	defaultArrival time.Duration
	now            func() time.Time

	nav    *navigation.Controller
	worked time.Duration
	bill   *Breakdown
}

func New(opts Options) *Flow {
	f := &Flow{
		gateway:        opts.Gateway,
		session:        opts.Session,
		journal:        opts.Journal,
		arrival:        opts.Arrival,
		defaultArrival: opts.DefaultArrival,
		now:            opts.Now,
		nav:            navigation.NewController(models.RoleUser),
	}
	if f.defaultArrival <= 0 {
		f.defaultArrival = constants.DefaultArrivalCountdown
	}
	if f.now == nil {
		f.now = time.Now
	}
	return f
}

func (f *Flow) Screen() navigation.Screen         { return f.nav.Current() }
func (f *Flow) Context() models.BookingContext    { return f.nav.Context() }
func (f *Flow) Navigator() *navigation.Controller { return f.nav }
func (f *Flow) Journal() []navigation.Transition  { return f.nav.Journal() }

func (f *Flow) allow(action navigation.Action) error {
	if !slices.Contains(navigation.Actions(f.nav.Current()), action) {
		return fmt.Errorf("%w: %s on %s", navigation.ErrUnknownAction, action, f.nav.Current())
	}
	return nil
}

func (f *Flow) expect(screens ...navigation.Screen) error {
	if !slices.Contains(screens, f.nav.Current()) {
		return fmt.Errorf("%w: not available on %s", navigation.ErrUnknownAction, f.nav.Current())
	}
	return nil
}

func (f *Flow) trigger(action navigation.Action, bc models.BookingContext) (Step, error) {
	tr, err := f.nav.Trigger(action, bc)
	if err != nil {
		return Step{}, err
	}
	if tr.EndsFlow || tr.To == navigation.ScreenMachineSelection {
		f.worked = 0
		f.bill = nil
	}
	return Step{Transition: tr}, nil
}

// Begin opens machine selection with a fresh context.
func (f *Flow) Begin() (Step, error) {
	return f.trigger(navigation.ActionBook, models.BookingContext{})
}

// MachineDetails loads one machine and opens its details screen.
func (f *Flow) MachineDetails(ctx context.Context, machineID int) (models.Machine, Step, error) {
	if err := f.allow(navigation.ActionDetails); err != nil {
		return models.Machine{}, Step{}, err
	}
	m, err := f.gateway.GetMachineDetails(ctx, machineID)
	if err != nil {
		return models.Machine{}, Step{}, err
	}
	step, err := f.trigger(navigation.ActionDetails, models.BookingContext{})
	if err != nil {
		return models.Machine{}, Step{}, err
	}
	return m, step, nil
}

// SelectMachine creates the booking context and moves on to operator search.
func (f *Flow) SelectMachine(sel Selection) (Step, error) {
	if err := f.expect(navigation.ScreenMachineSelection, navigation.ScreenMachineDetails); err != nil {
		return Step{}, err
	}
	if sel.Machine.MachineID <= 0 {
		return Step{}, errors.Validation(MsgMachineRequired)
	}
	if strings.TrimSpace(sel.Location) == "" {
		return Step{}, errors.Validation(MsgLocationRequired)
	}

	bc := models.BookingContext{
		MachineID:        strconv.Itoa(sel.Machine.MachineID.Int()),
		MachineModel:     sel.Machine.DisplayName(),
		MachineType:      sel.Machine.DisplayType(),
		Date:             strings.TrimSpace(sel.Date),
		Time:             strings.TrimSpace(sel.Time),
		Location:         strings.TrimSpace(sel.Location),
		DurationEstimate: strings.TrimSpace(sel.Duration),
	}
	if minutes := DurationMinutes(sel.Duration); minutes > 0 && sel.Machine.PricePerHour > 0 {
		bc.EstimatedCost = FormatAmount(EstimateCost(sel.Machine.PricePerHour.Float64(), minutes))
	}
	return f.trigger(navigation.ActionSearch, bc)
}

// SearchOperators asks the gateway for an operator matching the carried
// context. The first match is carried forward. No match and gateway failures
// still advance to the operator screen, with the operator absent and a notice.
func (f *Flow) SearchOperators(ctx context.Context) (Step, error) {
	if err := f.expect(navigation.ScreenOperatorSearch); err != nil {
		return Step{}, err
	}
	cur := f.nav.Context()
	matches, err := f.gateway.SearchOperators(ctx, models.OperatorQuery{
		Location:    cur.Location,
		MachineType: cur.MachineType,
		Date:        cur.Date,
		Time:        cur.Time,
	})

	var bc models.BookingContext
	notice := ""
	switch {
	case err != nil:
		logger.Warn("Operator search failed", "location", cur.Location, "error", err)
		notice = errors.UserMessage(err)
	case len(matches) == 0:
		notice = MsgNoOperator
	default:
		m := matches[0]
		bc = models.BookingContext{
			OperatorID:    m.OperatorID.String(),
			OperatorName:  m.DisplayName(),
			OperatorPhone: m.Phone,
		}
		if cur.EstimatedCost == "" {
			bc.EstimatedCost = m.EstimatedCost.String()
		}
		if cur.DurationEstimate == "" {
			bc.DurationEstimate = m.Duration
		}
	}

	step, terr := f.trigger(navigation.ActionSearch, bc)
	if terr != nil {
		return Step{}, terr
	}
	step.Notice = notice
	return step, nil
}

// ConfirmBooking submits the booking request. On failure the flow stays on
// the operator screen and the error carries the message to show.
func (f *Flow) ConfirmBooking(ctx context.Context) (Step, error) {
	if err := f.allow(navigation.ActionConfirm); err != nil {
		return Step{}, err
	}
	cur := f.nav.Context()
	if !cur.HasOperator() {
		return Step{}, errors.Validation(MsgOperatorMissing)
	}
	if f.session == nil {
		return Step{}, errors.Validation(MsgLoginRequired)
	}
	user, err := f.session.Require(models.RoleUser)
	if err != nil {
		return Step{}, errors.Validation(MsgLoginRequired)
	}
	if cur.MachineID == "" || cur.MachineID == "0" {
		return Step{}, errors.Validation(MsgMachineRequired)
	}

	amount, _ := ParseAmount(cur.EstimatedCost)
	id, err := f.gateway.CreateBooking(ctx, models.Booking{
		UserID:       models.FlexString(user.ID),
		OperatorID:   models.FlexString(cur.OperatorID),
		MachineID:    models.FlexString(cur.MachineID),
		MachineType:  cur.MachineType,
		MachineModel: cur.MachineModel,
		BookingDate:  cur.Date,
		StartTime:    cur.Time,
		Location:     cur.Location,
		Duration:     cur.DurationEstimate,
		TotalAmount:  models.FlexFloat(amount),
		Status:       models.StatusPending,
	})
	if err != nil {
		logger.Warn("Booking request failed", "machine_id", cur.MachineID, "operator_id", cur.OperatorID, "error", err)
		if errors.KindOf(err) == errors.KindAPI && errors.UserMessage(err) == errors.MsgGenericAPI {
			return Step{}, errors.API(errors.StatusOf(err), MsgBookingFailed)
		}
		return Step{}, err
	}

	step, err := f.trigger(navigation.ActionConfirm, models.BookingContext{BookingID: id})
	if err != nil {
		return Step{}, err
	}
	step.Notice = MsgBookingSent
	logger.Info("Booking requested", "booking_id", id, "operator_id", cur.OperatorID)
	return step, nil
}

// ViewBookings leaves the confirmation for the bookings list.
func (f *Flow) ViewBookings() (Step, error) {
	return f.trigger(navigation.ActionViewBookings, models.BookingContext{})
}

func (f *Flow) Track() (Step, error) {
	return f.trigger(navigation.ActionTrack, models.BookingContext{})
}

// Arrival enters the arrival screen and resolves its countdown.
func (f *Flow) Arrival(ctx context.Context) (Step, error) {
	if err := f.allow(navigation.ActionArrival); err != nil {
		return Step{}, err
	}
	countdown := ResolveArrival(ctx, f.arrival, f.nav.Context().BookingID, f.defaultArrival)
	step, err := f.trigger(navigation.ActionArrival, models.BookingContext{})
	if err != nil {
		return Step{}, err
	}
	step.Countdown = countdown
	return step, nil
}

func (f *Flow) StartWork() (Step, error) {
	return f.trigger(navigation.ActionStartWork, models.BookingContext{})
}

// FinishWork records how long the work timer ran.
func (f *Flow) FinishWork(worked time.Duration) (Step, error) {
	step, err := f.trigger(navigation.ActionFinishWork, models.BookingContext{})
	if err != nil {
		return Step{}, err
	}
	if worked > 0 {
		f.worked = worked
	}
	return step, nil
}

// ConfirmOperator skips the work timer once the operator is on site.
func (f *Flow) ConfirmOperator() (Step, error) {
	return f.trigger(navigation.ActionConfirmArrive, models.BookingContext{})
}

func (f *Flow) PriceBreakdown() (Step, error) {
	step, err := f.trigger(navigation.ActionPriceDetails, models.BookingContext{})
	if err != nil {
		return Step{}, err
	}
	cur := f.nav.Context()
	b := ComputeBreakdown(cur.EstimatedCost, cur.DurationEstimate, f.worked)
	f.bill = &b
	step.Breakdown = &b
	return step, nil
}

// ProceedToPayment opens the payment screen.
func (f *Flow) ProceedToPayment() (Step, error) {
	return f.trigger(navigation.ActionPay, models.BookingContext{})
}

// Pay records a UPI payment in the journal and shows the success screen.
func (f *Flow) Pay(ctx context.Context, upiID string) (Step, error) {
	if err := f.allow(navigation.ActionPaid); err != nil {
		return Step{}, err
	}
	if strings.TrimSpace(upiID) == "" {
		return Step{}, errors.Validation(MsgUPIRequired)
	}

	cur := f.nav.Context()
	p := models.Payment{
		ID:        uuid.NewString(),
		BookingID: cur.BookingID,
		Method:    models.PaymentUPI,
		UPIID:     strings.TrimSpace(upiID),
		CreatedAt: f.now(),
	}
	if f.bill != nil {
		p.Amount = float64(f.bill.FinalAmount)
	} else {
		p.Amount, _ = ParseAmount(cur.EstimatedCost)
	}
	if err := p.Validate(); err != nil {
		return Step{}, errors.Validation(err.Error())
	}
	if f.journal != nil {
		if err := f.journal.AddPayment(ctx, p); err != nil {
			return Step{}, fmt.Errorf("failed to record payment: %w", err)
		}
	}
	return f.trigger(navigation.ActionPaid, models.BookingContext{})
}

// OpenRating moves from the payment success screen to the rating form.
func (f *Flow) OpenRating() (Step, error) {
	return f.trigger(navigation.ActionRate, models.BookingContext{})
}

// Rate stores the feedback and returns home, ending the flow.
func (f *Flow) Rate(ctx context.Context, stars int, comment string) (Step, error) {
	if err := f.allow(navigation.ActionSubmit); err != nil {
		return Step{}, err
	}
	if stars == 0 {
		return Step{}, errors.Validation(MsgRatingRequired)
	}
	cur := f.nav.Context()
	fb := models.Feedback{
		ID:         uuid.NewString(),
		BookingID:  cur.BookingID,
		OperatorID: cur.OperatorID,
		Rating:     stars,
		Comment:    strings.TrimSpace(comment),
		CreatedAt:  f.now(),
	}
	if err := fb.Validate(); err != nil {
		return Step{}, errors.Validation(err.Error())
	}
	if f.journal != nil {
		if err := f.journal.AddFeedback(ctx, fb); err != nil {
			return Step{}, fmt.Errorf("failed to save feedback: %w", err)
		}
	}
	return f.trigger(navigation.ActionSubmit, models.BookingContext{})
}

func (f *Flow) SkipRating() (Step, error) {
	return f.trigger(navigation.ActionSkip, models.BookingContext{})
}

func (f *Flow) Back() Step {
	return Step{Transition: f.nav.Back()}
}

// Home abandons the flow from any step.
func (f *Flow) Home() Step {
	f.worked = 0
	f.bill = nil
	return Step{Transition: f.nav.Reset()}
}
