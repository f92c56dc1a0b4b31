package models

import (
	"slices"
	"strings"
	"time"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "PENDING"
	StatusActive    BookingStatus = "ACTIVE"
	StatusCompleted BookingStatus = "COMPLETED"
	StatusCancelled BookingStatus = "CANCELLED"
	StatusRejected  BookingStatus = "REJECTED"
	StatusDeclined  BookingStatus = "DECLINED"
)

// Is compares against a backend status string, ignoring case and padding.
func (s BookingStatus) Is(other BookingStatus) bool {
	return strings.EqualFold(strings.TrimSpace(string(s)), string(other))
}

// IsTerminal reports whether the booking has left the live lifecycle.
func (s BookingStatus) IsTerminal() bool {
	return s.Is(StatusCompleted) || s.Is(StatusCancelled) || s.Is(StatusRejected) || s.Is(StatusDeclined)
}

type Booking struct {
	BookingID     FlexString    `json:"booking_id"`
	UserName      string        `json:"user_name,omitempty"`
	OperatorName  string        `json:"operator_name,omitempty"`
	MachineType   string        `json:"machine_type,omitempty"`
	MachineModel  string        `json:"machine_model,omitempty"`
	BookingDate   string        `json:"booking_date,omitempty"`
	StartTime     string        `json:"start_time,omitempty"`
	EndTime       string        `json:"end_time,omitempty"`
	TotalHours    FlexInt       `json:"total_hours,omitempty"`
	TotalAmount   FlexFloat     `json:"total_amount,omitempty"`
	Status        BookingStatus `json:"status"`
	Location      string        `json:"location,omitempty"`
	UserID        FlexString    `json:"user_id,omitempty"`
	OperatorID    FlexString    `json:"operator_id,omitempty"`
	MachineID     FlexString    `json:"machine_id,omitempty"`
	Duration      string        `json:"duration,omitempty"`
	MachineImage  string        `json:"machine_image,omitempty"`
	OperatorPhone string        `json:"operator_phone,omitempty"`
	UserPhone     string        `json:"user_phone,omitempty"`
	UserLocation  string        `json:"user_location,omitempty"`
}

// Day parses the date part of BookingDate, which the backend sends either
// as YYYY-MM-DD or as a full created_at timestamp.
func (b Booking) Day(loc *time.Location) (time.Time, bool) {
	s := strings.TrimSpace(b.BookingDate)
	if len(s) < len(time.DateOnly) {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation(time.DateOnly, s[:len(time.DateOnly)], loc)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// BookingHistory keeps bookings in a terminal status and orders them by
// descending numeric id. Ids that do not parse compare as equal, so their
// relative order is preserved. The input slice is not modified.
func BookingHistory(bookings []Booking) []Booking {
	history := make([]Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.Status.IsTerminal() {
			history = append(history, b)
		}
	}
	slices.SortStableFunc(history, compareBookingIDDesc)
	return history
}

func compareBookingIDDesc(a, b Booking) int {
	ai, aok := a.BookingID.Int()
	bi, bok := b.BookingID.Int()
	if !aok || !bok {
		return 0
	}
	switch {
	case ai > bi:
		return -1
	case ai < bi:
		return 1
	}
	return 0
}

type BookingFilter string

const (
	FilterAll     BookingFilter = "all"
	FilterPending BookingFilter = "pending"
	FilterActive  BookingFilter = "active"
)

// FilterBookings narrows a booking list the way the bookings screen tabs do.
func FilterBookings(bookings []Booking, filter BookingFilter) []Booking {
	if filter == FilterAll || filter == "" {
		return slices.Clone(bookings)
	}
	var out []Booking
	for _, b := range bookings {
		switch filter {
		case FilterPending:
			if b.Status.Is(StatusPending) {
				out = append(out, b)
			}
		case FilterActive:
			if b.Status.Is(StatusActive) {
				out = append(out, b)
			}
		}
	}
	return out
}

// BookingCounts tallies bookings per status tab.
type BookingCounts struct {
	All     int
	Pending int
	Active  int
}

func CountBookings(bookings []Booking) BookingCounts {
	c := BookingCounts{All: len(bookings)}
	for _, b := range bookings {
		switch {
		case b.Status.Is(StatusPending):
			c.Pending++
		case b.Status.Is(StatusActive):
			c.Active++
		}
	}
	return c
}
