package models

import (
	"fmt"
	"strings"
	"time"
)

// SavedLocation is a site address the user reuses across bookings.
type SavedLocation struct {
	ID        string    `json:"id" db:"id"`
	Label     string    `json:"label" db:"label"`
	Address   string    `json:"address" db:"address"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (l *SavedLocation) Validate() error {
	if strings.TrimSpace(l.Label) == "" {
		return fmt.Errorf("location label cannot be empty")
	}
	if strings.TrimSpace(l.Address) == "" {
		return fmt.Errorf("location address cannot be empty")
	}
	return nil
}

// Feedback is a post-job rating. The backend has no endpoint for it, so it
// lives in the local journal.
type Feedback struct {
	ID         string    `json:"id" db:"id"`
	BookingID  string    `json:"booking_id,omitempty" db:"booking_id"`
	OperatorID string    `json:"operator_id,omitempty" db:"operator_id"`
	Rating     int       `json:"rating" db:"rating"`
	Comment    string    `json:"comment,omitempty" db:"comment"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

func (f *Feedback) Validate() error {
	if f.Rating < 1 || f.Rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5, got %d", f.Rating)
	}
	return nil
}

type PaymentMethod string

const PaymentUPI PaymentMethod = "upi"

// Payment records a completed payment step.
type Payment struct {
	ID        string        `json:"id" db:"id"`
	BookingID string        `json:"booking_id,omitempty" db:"booking_id"`
	Method    PaymentMethod `json:"method" db:"method"`
	UPIID     string        `json:"upi_id" db:"upi_id"`
	Amount    float64       `json:"amount" db:"amount"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
}

func (p *Payment) Validate() error {
	if p.Method == PaymentUPI && strings.TrimSpace(p.UPIID) == "" {
		return fmt.Errorf("UPI ID cannot be empty")
	}
	if p.Amount < 0 {
		return fmt.Errorf("amount cannot be negative")
	}
	return nil
}
