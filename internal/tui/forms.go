package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/eathmover/internal/constants"
	"github.com/julianstephens/eathmover/internal/models"
	"github.com/julianstephens/eathmover/internal/workflow"
)

type formKind int

const (
	formNone formKind = iota
	formSelection
	formPayment
	formRating
)

// selectionFields backs the booking details form.
type selectionFields struct {
	Machine  models.Machine
	Date     string
	Time     string
	Location string
	Hours    int
}

func (s selectionFields) Selection() workflow.Selection {
	return workflow.Selection{
		Machine:  s.Machine,
		Date:     strings.TrimSpace(s.Date),
		Time:     strings.TrimSpace(s.Time),
		Location: strings.TrimSpace(s.Location),
		Duration: workflow.DurationLabel(time.Duration(s.Hours) * time.Hour),
	}
}

type paymentFields struct {
	UPIID string
}

type ratingFields struct {
	Stars   int
	Comment string
}

func validateDate(s string) error {
	if _, err := time.Parse(constants.DateFormat, strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use YYYY-MM-DD")
	}
	return nil
}

func validateTime(s string) error {
	if _, err := time.Parse(constants.TimeFormat, strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use HH:MM")
	}
	return nil
}

func required(msg string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s", msg)
		}
		return nil
	}
}

func newSelectionForm(fm *selectionFields, locations []models.SavedLocation) *huh.Form {
	suggestions := make([]string, 0, len(locations))
	for _, l := range locations {
		suggestions = append(suggestions, l.Address)
	}

	hours := make([]huh.Option[int], 0, 8)
	for h := 1; h <= 8; h++ {
		label := workflow.DurationLabel(time.Duration(h) * time.Hour)
		if fm.Machine.PricePerHour > 0 {
			label += " · " + workflow.FormatAmount(workflow.EstimateCost(fm.Machine.PricePerHour.Float64(), h*60))
		}
		hours = append(hours, huh.NewOption(label, h))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title(fm.Machine.DisplayName()).
				Description(fm.Machine.DisplayType()),
			huh.NewInput().
				Title("Date").
				Placeholder(constants.DateFormat).
				Value(&fm.Date).
				Validate(validateDate),
			huh.NewInput().
				Title("Start time").
				Placeholder(constants.TimeFormat).
				Value(&fm.Time).
				Validate(validateTime),
			huh.NewInput().
				Title("Site location").
				Suggestions(suggestions).
				Value(&fm.Location).
				Validate(required(workflow.MsgLocationRequired)),
			huh.NewSelect[int]().
				Title("Duration").
				Options(hours...).
				Value(&fm.Hours),
		),
	).WithShowHelp(false)
}

func newPaymentForm(fm *paymentFields, amount string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("UPI ID").
				Description("Amount due: " + amount).
				Placeholder("name@bank").
				Value(&fm.UPIID).
				Validate(required(workflow.MsgUPIRequired)),
		),
	).WithShowHelp(false)
}

func newRatingForm(fm *ratingFields, operator string) *huh.Form {
	stars := make([]huh.Option[int], 0, constants.MaxRating)
	for n := constants.MaxRating; n >= constants.MinRating; n-- {
		stars = append(stars, huh.NewOption(strings.Repeat("★", n), n))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Rate "+operator).
				Options(stars...).
				Value(&fm.Stars),
			huh.NewText().
				Title("Comments").
				CharLimit(500).
				Value(&fm.Comment),
		),
	).WithShowHelp(false)
}
