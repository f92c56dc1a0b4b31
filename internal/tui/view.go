package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/eathmover/internal/models"
	"github.com/julianstephens/eathmover/internal/navigation"
	"github.com/julianstephens/eathmover/internal/workflow"
)

var screenTitles = map[navigation.Screen]string{
	navigation.ScreenHome:                "EathMover",
	navigation.ScreenMachineSelection:    "Choose a machine",
	navigation.ScreenMachineDetails:      "Machine details",
	navigation.ScreenOperatorSearch:      "Finding an operator",
	navigation.ScreenOperatorFound:       "Operator",
	navigation.ScreenBookingConfirmation: "Booking requested",
	navigation.ScreenUserBookings:        "My bookings",
	navigation.ScreenHistory:             "Booking history",
	navigation.ScreenLiveTracking:        "Live tracking",
	navigation.ScreenOperatorArrival:     "Operator arrival",
	navigation.ScreenWorkTimer:           "Work timer",
	navigation.ScreenWorkSummary:         "Work summary",
	navigation.ScreenFinalPriceBreakdown: "Price breakdown",
	navigation.ScreenPayment:             "Payment",
	navigation.ScreenPaymentSuccessful:   "Payment successful",
	navigation.ScreenRatingFeedback:      "Rate your operator",
}

func row(label, value string) string {
	if strings.TrimSpace(value) == "" {
		value = "-"
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value))
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	title := screenTitles[m.screen]
	if title == "" {
		title = string(m.screen)
	}
	parts := []string{titleStyle.Render(title), ""}

	if m.form != nil {
		parts = append(parts, m.form.View())
	} else {
		parts = append(parts, m.body())
	}

	if m.busy {
		parts = append(parts, "", m.spinner.View()+" working...")
	}
	if m.notice != "" {
		parts = append(parts, "", noticeStyle.Render(m.notice))
	}
	if m.err != "" {
		parts = append(parts, "", dangerStyle.Render(m.err))
	}
	parts = append(parts, "", m.help.View(m.keys))

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) body() string {
	switch m.screen {
	case navigation.ScreenHome:
		return "Rent heavy equipment with an operator, by the hour."

	case navigation.ScreenMachineSelection:
		header := "All categories"
		if c := m.machines.Category(); c != 0 {
			header = c.String()
		}
		if m.machines.Len() == 0 && !m.busy {
			return warningStyle.Render("No machines available in " + strings.ToLower(header))
		}
		return lipgloss.JoinVertical(lipgloss.Left, warningStyle.Render(header), m.machines.View())

	case navigation.ScreenMachineDetails:
		if m.detail == nil {
			return ""
		}
		return m.machineCard(*m.detail)

	case navigation.ScreenOperatorSearch:
		return m.contextCard()

	case navigation.ScreenOperatorFound:
		if !m.bc.HasOperator() {
			return warningStyle.Render(workflow.MsgNoOperator)
		}
		return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			row("Operator", m.bc.OperatorName),
			row("Phone", m.bc.OperatorPhone),
			row("Machine", m.bc.MachineModel),
			row("Estimate", m.bc.EstimatedCost),
		))

	case navigation.ScreenBookingConfirmation:
		return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			row("Booking", "#"+m.bc.BookingID),
			row("Status", string(models.StatusPending)),
			row("Operator", m.bc.OperatorName),
			row("When", strings.TrimSpace(m.bc.Date+" "+m.bc.Time)),
		))

	case navigation.ScreenUserBookings, navigation.ScreenHistory:
		return m.bookings.View()

	case navigation.ScreenLiveTracking:
		if m.tracked != nil {
			b := m.tracked
			return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
				row("Booking", "#"+b.BookingID.String()),
				row("Status", strings.ToUpper(string(b.Status))),
				row("Operator", b.OperatorName),
				row("Phone", b.OperatorPhone),
				row("Location", b.Location),
			))
		}
		return m.contextCard()

	case navigation.ScreenOperatorArrival:
		return lipgloss.Place(m.width/2, 9, lipgloss.Center, lipgloss.Center, m.arrival.View())

	case navigation.ScreenWorkTimer:
		return lipgloss.Place(m.width/2, 9, lipgloss.Center, lipgloss.Center, m.work.View())

	case navigation.ScreenWorkSummary:
		return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			row("Machine", m.bc.MachineModel),
			row("Operator", m.bc.OperatorName),
			row("Booked", m.bc.DurationEstimate),
			row("Location", m.bc.Location),
		))

	case navigation.ScreenFinalPriceBreakdown:
		if m.breakdown == nil {
			return ""
		}
		b := m.breakdown
		return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			row("Estimated", fmt.Sprintf("%s (%s)", workflow.FormatAmount(int64(b.EstimatedAmount)), workflow.DurationLabel(time.Duration(b.EstimatedMinutes)*time.Minute))),
			row("Worked", workflow.DurationLabel(time.Duration(b.WorkedMinutes)*time.Minute)),
			row("Total", workflow.FormatAmount(b.FinalAmount)),
		))

	case navigation.ScreenPayment:
		return warningStyle.Render("Press enter to pay")

	case navigation.ScreenPaymentSuccessful:
		return noticeStyle.Render("Payment recorded. Thank you!")

	case navigation.ScreenRatingFeedback:
		return warningStyle.Render("Press enter to rate")
	}
	return ""
}

func (m Model) machineCard(mc models.Machine) string {
	rows := []string{
		row("Model", mc.DisplayName()),
		row("Type", mc.DisplayType()),
		row("Price", workflow.FormatAmount(int64(mc.PricePerHour))+"/hr"),
	}
	if mc.ModelYear != nil {
		rows = append(rows, row("Year", fmt.Sprint(*mc.ModelYear)))
	}
	if mc.Specs != "" {
		rows = append(rows, row("Specs", mc.Specs))
	}
	if mc.Availability != "" {
		rows = append(rows, row("Availability", mc.Availability))
	}
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) contextCard() string {
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		row("Machine", m.bc.MachineModel),
		row("Type", m.bc.MachineType),
		row("When", strings.TrimSpace(m.bc.Date+" "+m.bc.Time)),
		row("Location", m.bc.Location),
		row("Duration", m.bc.DurationEstimate),
		row("Estimate", m.bc.EstimatedCost),
	))
}
