package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/eathmover/internal/constants"
	"github.com/julianstephens/eathmover/internal/errors"
	"github.com/julianstephens/eathmover/internal/logger"
	"github.com/julianstephens/eathmover/internal/models"
	"github.com/julianstephens/eathmover/internal/navigation"
	"github.com/julianstephens/eathmover/internal/timer"
	"github.com/julianstephens/eathmover/internal/tui/components/bookings"
	"github.com/julianstephens/eathmover/internal/tui/components/countdown"
	"github.com/julianstephens/eathmover/internal/tui/components/machines"
	"github.com/julianstephens/eathmover/internal/workflow"
)

type machinesLoadedMsg struct {
	machines []models.Machine
	err      error
}

type detailsMsg struct {
	machine models.Machine
	step    workflow.Step
	err     error
}

// stepMsg carries the result of a workflow call made off the event loop.
type stepMsg struct {
	step workflow.Step
	err  error
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		h, v := docStyle.GetFrameSize()
		m.help.Width = msg.Width - h
		m.machines.SetSize(msg.Width-h, msg.Height-v-6)
		m.bookings.SetSize(msg.Width-h, msg.Height-v-6)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case countdown.TickMsg:
		var arrivalCmd, workCmd tea.Cmd
		m.arrival, arrivalCmd = m.arrival.Update(msg)
		m.work, workCmd = m.work.Update(msg)
		return m, tea.Batch(arrivalCmd, workCmd)

	case countdown.FinishedMsg:
		return m, m.countdownFinished(msg)

	case machinesLoadedMsg:
		m.busy = false
		if msg.err != nil {
			m.err = errors.UserMessage(msg.err)
			return m, nil
		}
		m.machines.SetMachines(msg.machines)
		return m, nil

	case detailsMsg:
		m.busy = false
		if msg.err != nil {
			m.err = errors.UserMessage(msg.err)
			return m, nil
		}
		mc := msg.machine
		m.detail = &mc
		return m, m.afterStep(msg.step)

	case stepMsg:
		m.busy = false
		if msg.err != nil {
			m.err = errors.UserMessage(msg.err)
			m.sync()
			return m, nil
		}
		return m, m.afterStep(msg.step)

	case refreshMsg:
		return m, m.refreshed(msg)

	case refreshErrMsg:
		if m.watch == nil || msg.watcher != m.watch.id {
			return m, nil
		}
		m.err = errors.UserMessage(msg.err)
		return m, m.watch.next()

	case machines.SelectMsg:
		return m, m.openSelection(msg.Machine)

	case machines.DetailsMsg:
		return m, m.loadDetails(msg.Machine.MachineID.Int())

	case bookings.TrackMsg:
		if m.screen != navigation.ScreenUserBookings {
			return m, nil
		}
		b := msg.Booking
		m.tracked = &b
		return m, m.apply(m.flow.Track())

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		if m.busy {
			return m, nil
		}
		if m.form != nil {
			return m.updateForm(msg)
		}
		return m.handleKey(msg)
	}

	if m.form != nil {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	if m.watch != nil {
		m.watch.stop()
		m.watch = nil
	}
	return m, tea.Quit
}

// call runs fn off the event loop and reports back with a stepMsg.
func (m *Model) call(fn func(ctx context.Context) (workflow.Step, error)) tea.Cmd {
	m.busy = true
	m.err = ""
	ctx := m.ctx
	return func() tea.Msg {
		step, err := fn(ctx)
		return stepMsg{step: step, err: err}
	}
}

// apply handles the result of a synchronous workflow call.
func (m *Model) apply(step workflow.Step, err error) tea.Cmd {
	if err != nil {
		m.err = errors.UserMessage(err)
		return nil
	}
	return m.afterStep(step)
}

// afterStep refreshes the cached view of the workflow and sets up the
// resources the new screen needs, releasing those of the screen just left.
func (m *Model) afterStep(step workflow.Step) tea.Cmd {
	m.err = ""
	m.notice = step.Notice
	m.sync()

	var cmds []tea.Cmd
	if m.watch != nil && m.screen != navigation.ScreenUserBookings && m.screen != navigation.ScreenHistory {
		m.watch.stop()
		m.watch = nil
	}
	if m.screen != navigation.ScreenOperatorArrival && m.arrival.Snapshot().Status != timer.StatusIdle {
		m.arrival.Stop()
	}
	if m.screen != navigation.ScreenWorkTimer && m.work.Snapshot().Status != timer.StatusIdle {
		m.work.Stop()
	}

	switch m.screen {
	case navigation.ScreenHome:
		m.detail = nil
		m.tracked = nil
		m.breakdown = nil
	case navigation.ScreenMachineSelection:
		if step.Transition.From == navigation.ScreenHome {
			cmds = append(cmds, m.loadMachines())
		}
	case navigation.ScreenOperatorSearch:
		if step.Transition.Action != navigation.ActionBack {
			cmds = append(cmds, m.call(m.flow.SearchOperators))
		}
	case navigation.ScreenUserBookings, navigation.ScreenHistory:
		if m.watch == nil {
			cmds = append(cmds, m.startWatch())
		}
	case navigation.ScreenOperatorArrival:
		if step.Countdown > 0 {
			cmd, err := m.arrival.Start(step.Countdown)
			if err != nil {
				m.err = errors.UserMessage(err)
			}
			cmds = append(cmds, cmd)
		}
	case navigation.ScreenWorkTimer:
		cmd, err := m.work.Start(m.workDuration())
		if err != nil {
			m.err = errors.UserMessage(err)
		}
		cmds = append(cmds, cmd)
	case navigation.ScreenFinalPriceBreakdown:
		if step.Breakdown != nil {
			m.breakdown = step.Breakdown
		}
	case navigation.ScreenPayment:
		cmds = append(cmds, m.openPayment())
	case navigation.ScreenRatingFeedback:
		cmds = append(cmds, m.openRating())
	}
	return tea.Batch(cmds...)
}

func (m Model) workDuration() time.Duration {
	if minutes := workflow.DurationMinutes(m.bc.DurationEstimate); minutes > 0 {
		return time.Duration(minutes) * time.Minute
	}
	return m.opts.DefaultWork
}

func (m *Model) loadMachines() tea.Cmd {
	m.busy = true
	ctx, gw := m.ctx, m.opts.Gateway
	return func() tea.Msg {
		list, err := gw.GetUserMachines(ctx)
		return machinesLoadedMsg{machines: list, err: err}
	}
}

func (m *Model) loadDetails(machineID int) tea.Cmd {
	m.busy = true
	m.err = ""
	ctx, flow := m.ctx, m.flow
	return func() tea.Msg {
		mc, step, err := flow.MachineDetails(ctx, machineID)
		return detailsMsg{machine: mc, step: step, err: err}
	}
}

func (m *Model) startWatch() tea.Cmd {
	m.watch = newWatcher(UserBookings(m.opts.Gateway, m.opts.Session), m.opts.PollInterval, m.opts.FastPollInterval)
	return m.watch.start(m.ctx)
}

func (m *Model) refreshed(msg refreshMsg) tea.Cmd {
	if m.watch == nil || msg.watcher != m.watch.id {
		return nil
	}
	m.err = ""
	if m.screen == navigation.ScreenHistory {
		m.bookings.SetBookings(models.BookingHistory(msg.bookings))
	} else {
		m.bookings.SetBookings(msg.bookings)
	}
	m.watch.adjust(msg.bookings)
	for _, c := range msg.changes {
		if c.New() {
			continue
		}
		title, text := changeText(c)
		m.notice = title + ": " + text
		m.opts.Notify(m.ctx, title, text)
	}
	return m.watch.next()
}

func (m *Model) countdownFinished(msg countdown.FinishedMsg) tea.Cmd {
	switch msg.ID {
	case m.arrival.ID():
		m.notice = timer.MsgFinished
		m.opts.Notify(m.ctx, "Operator arrival", "The operator should be on site now")
	case m.work.ID():
		m.notice = timer.MsgFinished
		m.opts.Notify(m.ctx, "Work timer", "The booked duration is over")
	}
	return nil
}

func (m *Model) openSelection(mc models.Machine) tea.Cmd {
	now := m.opts.Now()
	m.selection = selectionFields{
		Machine: mc,
		Date:    now.Format(constants.DateFormat),
		Time:    "09:00",
		Hours:   1,
	}
	m.form = newSelectionForm(&m.selection, m.opts.Locations)
	m.formKind = formSelection
	return m.form.Init()
}

func (m *Model) openPayment() tea.Cmd {
	amount := m.bc.EstimatedCost
	if m.breakdown != nil {
		amount = workflow.FormatAmount(m.breakdown.FinalAmount)
	}
	m.payment = paymentFields{}
	m.form = newPaymentForm(&m.payment, amount)
	m.formKind = formPayment
	return m.form.Init()
}

func (m *Model) openRating() tea.Cmd {
	name := m.bc.OperatorName
	if name == "" {
		name = "your operator"
	}
	m.rating = ratingFields{Stars: constants.MaxRating}
	m.form = newRatingForm(&m.rating, name)
	m.formKind = formRating
	return m.form.Init()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		return m, m.formAborted()
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		cmds = append(cmds, m.formCompleted())
	case huh.StateAborted:
		cmds = append(cmds, m.formAborted())
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) closeForm() formKind {
	kind := m.formKind
	m.form = nil
	m.formKind = formNone
	return kind
}

func (m *Model) formCompleted() tea.Cmd {
	switch m.closeForm() {
	case formSelection:
		return m.apply(m.flow.SelectMachine(m.selection.Selection()))
	case formPayment:
		flow, upi := m.flow, m.payment.UPIID
		return m.call(func(ctx context.Context) (workflow.Step, error) {
			return flow.Pay(ctx, upi)
		})
	case formRating:
		flow, stars, comment := m.flow, m.rating.Stars, m.rating.Comment
		return m.call(func(ctx context.Context) (workflow.Step, error) {
			return flow.Rate(ctx, stars, comment)
		})
	}
	return nil
}

// formAborted closes the form. Leaving the rating form skips the rating.
func (m *Model) formAborted() tea.Cmd {
	switch m.closeForm() {
	case formRating:
		return m.apply(m.flow.SkipRating())
	case formPayment:
		return m.afterStep(m.flow.Back())
	}
	return nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Back):
		if m.screen == navigation.ScreenHome {
			return m, nil
		}
		return m, m.afterStep(m.flow.Back())
	}

	switch m.screen {
	case navigation.ScreenHome:
		switch {
		case key.Matches(msg, m.keys.Book):
			return m, m.apply(m.flow.Begin())
		case key.Matches(msg, m.keys.History):
			tr, err := m.flow.Navigator().Trigger(navigation.ActionHistory, models.BookingContext{})
			return m, m.apply(workflow.Step{Transition: tr}, err)
		}

	case navigation.ScreenMachineSelection:
		var cmd tea.Cmd
		m.machines, cmd = m.machines.Update(msg)
		return m, cmd

	case navigation.ScreenMachineDetails:
		if key.Matches(msg, m.keys.Confirm) && m.detail != nil {
			return m, m.openSelection(*m.detail)
		}

	case navigation.ScreenOperatorSearch:
		if key.Matches(msg, m.keys.Confirm) {
			return m, m.call(m.flow.SearchOperators)
		}

	case navigation.ScreenOperatorFound:
		if key.Matches(msg, m.keys.Confirm) {
			return m, m.call(m.flow.ConfirmBooking)
		}

	case navigation.ScreenBookingConfirmation:
		switch {
		case key.Matches(msg, m.keys.Track):
			return m, m.apply(m.flow.Track())
		case key.Matches(msg, m.keys.Bookings):
			return m, m.apply(m.flow.ViewBookings())
		case key.Matches(msg, m.keys.Home):
			return m, m.afterStep(m.flow.Home())
		}

	case navigation.ScreenUserBookings, navigation.ScreenHistory:
		var cmd tea.Cmd
		m.bookings, cmd = m.bookings.Update(msg)
		return m, cmd

	case navigation.ScreenLiveTracking:
		if key.Matches(msg, m.keys.Arrived) {
			return m, m.call(m.flow.Arrival)
		}

	case navigation.ScreenOperatorArrival:
		switch {
		case key.Matches(msg, m.keys.Toggle):
			return m, m.arrival.Toggle()
		case key.Matches(msg, m.keys.Work):
			return m, m.apply(m.flow.StartWork())
		case key.Matches(msg, m.keys.Confirm):
			return m, m.apply(m.flow.ConfirmOperator())
		}

	case navigation.ScreenWorkTimer:
		switch {
		case key.Matches(msg, m.keys.Toggle):
			return m, m.work.Toggle()
		case key.Matches(msg, m.keys.Finish):
			worked := m.work.Elapsed()
			logger.Debug("Work finished", "worked", worked)
			return m, m.apply(m.flow.FinishWork(worked))
		}

	case navigation.ScreenWorkSummary:
		if key.Matches(msg, m.keys.Confirm) {
			return m, m.apply(m.flow.PriceBreakdown())
		}

	case navigation.ScreenFinalPriceBreakdown:
		if key.Matches(msg, m.keys.Confirm) {
			return m, m.apply(m.flow.ProceedToPayment())
		}

	case navigation.ScreenPayment:
		if key.Matches(msg, m.keys.Confirm) {
			return m, m.openPayment()
		}

	case navigation.ScreenPaymentSuccessful:
		switch {
		case key.Matches(msg, m.keys.Rate):
			return m, m.apply(m.flow.OpenRating())
		case key.Matches(msg, m.keys.Home):
			return m, m.afterStep(m.flow.Home())
		}

	case navigation.ScreenRatingFeedback:
		if key.Matches(msg, m.keys.Confirm) {
			return m, m.openRating()
		}
	}
	return m, nil
}
