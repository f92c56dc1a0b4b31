package models

import (
	"strings"
	"time"
)

type OperatorProfile struct {
	OperatorID      FlexString `json:"operator_id"`
	Name            string     `json:"name"`
	Phone           string     `json:"phone,omitempty"`
	Email           string     `json:"email,omitempty"`
	Address         string     `json:"address,omitempty"`
	ExperienceYears FlexInt    `json:"experience_years,omitempty"`
	TotalBookings   FlexInt    `json:"total_bookings,omitempty"`
	Rating          FlexFloat  `json:"rating,omitempty"`
	// Machines is a comma-separated list of machine types.
	Machines      string `json:"machines,omitempty"`
	ProfileImage  string `json:"profile_image,omitempty"`
	Status        string `json:"status,omitempty"`
	LicenseNumber string `json:"license_number,omitempty"`
	LicenseExpiry string `json:"license_expiry,omitempty"`
}

func (p OperatorProfile) MachineList() []string {
	var out []string
	for _, m := range strings.Split(p.Machines, ",") {
		if m = strings.TrimSpace(m); m != "" {
			out = append(out, m)
		}
	}
	return out
}

// OperatorMatch is one operator search result: the operator profile plus
// the machine and slot the search endpoint echoes back.
type OperatorMatch struct {
	OperatorProfile
	OperatorName  string     `json:"operator_name,omitempty"`
	MachineID     FlexString `json:"machine_id,omitempty"`
	MachineModel  string     `json:"machine_model,omitempty"`
	MachineType   string     `json:"machine_type,omitempty"`
	Location      string     `json:"location,omitempty"`
	Date          string     `json:"date,omitempty"`
	Time          string     `json:"time,omitempty"`
	Duration      string     `json:"duration,omitempty"`
	EstimatedCost FlexString `json:"estimated_cost,omitempty"`
}

func (o OperatorMatch) DisplayName() string {
	if o.OperatorName != "" {
		return o.OperatorName
	}
	return o.Name
}

type OperatorQuery struct {
	Location    string
	MachineType string
	Date        string
	Time        string
}

// Earnings totals an operator's completed bookings.
type Earnings struct {
	TotalEarnings     float64
	ThisMonth         float64
	LastMonth         float64
	TotalTransactions int
}

// SummarizeEarnings adds up completed bookings. Month buckets use the
// booking date in now's location; undated bookings count toward the total
// only.
func SummarizeEarnings(bookings []Booking, now time.Time) Earnings {
	thisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonth := thisMonth.AddDate(0, -1, 0)
	nextMonth := thisMonth.AddDate(0, 1, 0)

	var e Earnings
	for _, b := range bookings {
		if !b.Status.Is(StatusCompleted) {
			continue
		}
		amount := b.TotalAmount.Float64()
		e.TotalTransactions++
		e.TotalEarnings += amount

		day, ok := b.Day(now.Location())
		switch {
		case !ok:
		case !day.Before(thisMonth) && day.Before(nextMonth):
			e.ThisMonth += amount
		case !day.Before(lastMonth) && day.Before(thisMonth):
			e.LastMonth += amount
		}
	}
	return e
}
