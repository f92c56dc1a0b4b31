package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/eathmover/internal/api"
	"github.com/julianstephens/eathmover/internal/constants"
	"github.com/julianstephens/eathmover/internal/logger"
)

// ArrivalLookup resolves how long until the operator reaches the site.
type ArrivalLookup interface {
	ArrivalIn(ctx context.Context, bookingID string) (time.Duration, error)
}

// ArrivalFunc adapts a function to ArrivalLookup.
type ArrivalFunc func(ctx context.Context, bookingID string) (time.Duration, error)

func (f ArrivalFunc) ArrivalIn(ctx context.Context, bookingID string) (time.Duration, error) {
	return f(ctx, bookingID)
}

// GatewayArrival looks up the booking through the gateway and reads its
// scheduled start. The countdown runs to the booking's date and start time.
type GatewayArrival struct {
	Gateway api.Gateway
	Now     func() time.Time
}

func (g GatewayArrival) ArrivalIn(ctx context.Context, bookingID string) (time.Duration, error) {
	b, err := g.Gateway.GetBooking(ctx, bookingID)
	if err != nil {
		return 0, err
	}
	if b.BookingDate == "" || b.StartTime == "" {
		return 0, fmt.Errorf("booking %s has no scheduled start", bookingID)
	}
	start, err := time.ParseInLocation(constants.DateFormat+" "+constants.TimeFormat, b.BookingDate+" "+b.StartTime, time.Local)
	if err != nil {
		return 0, fmt.Errorf("invalid scheduled start for booking %s: %w", bookingID, err)
	}
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	d := start.Sub(now())
	if d <= 0 {
		return 0, errors.New("scheduled start has passed")
	}
	return d, nil
}

// ResolveArrival returns the countdown for the arrival screen. Without a
// booking id, a lookup, or a usable lookup result it returns fallback.
func ResolveArrival(ctx context.Context, lookup ArrivalLookup, bookingID string, fallback time.Duration) time.Duration {
	if fallback <= 0 {
		fallback = constants.DefaultArrivalCountdown
	}
	if lookup == nil || strings.TrimSpace(bookingID) == "" {
		return fallback
	}
	d, err := lookup.ArrivalIn(ctx, bookingID)
	if err != nil || d <= 0 {
		logger.Debug("Arrival lookup unavailable, using default countdown", "booking_id", bookingID, "error", err)
		return fallback
	}
	return d
}
