package api

import (
	"context"
	"net/url"
	"strings"

	"github.com/julianstephens/eathmover/internal/errors"
	"github.com/julianstephens/eathmover/internal/models"
)

const (
	pathUserBookings    = "user/get_user_bookings.php"
	pathCreateBooking   = "booking/create_booking.php"
	pathCompleteBooking = "booking/complete_booking.php"
	pathLiveBookings    = "admin/get_live_bookings.php"
	pathReports         = "admin/get_reports.php"
)

func (c *Client) GetUserBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, errors.Validation("User ID not found. Please login again.")
	}
	env, err := get[models.List[models.Booking]](ctx, c, pathUserBookings, url.Values{"user_id": {userID}})
	if err != nil {
		return nil, err
	}
	return models.Items(env), nil
}

// CreateBooking submits b and returns the new booking id when the backend
// reports one.
func (c *Client) CreateBooking(ctx context.Context, b models.Booking) (string, error) {
	switch {
	case b.UserID == "":
		return "", errors.Validation("User ID not found. Please login again.")
	case b.MachineID == "" || b.MachineID == "0":
		return "", errors.Validation("Invalid machine")
	}
	if b.Status == "" {
		b.Status = models.StatusPending
	}
	env, err := post[models.Booking](ctx, c, pathCreateBooking, b)
	if err != nil {
		return "", err
	}
	return env.Data.BookingID.String(), nil
}

func (c *Client) CompleteBooking(ctx context.Context, bookingID string) (string, error) {
	if strings.TrimSpace(bookingID) == "" {
		return "", errors.Validation("Booking ID not found")
	}
	return c.message(ctx, pathCompleteBooking, models.Booking{
		BookingID: models.FlexString(bookingID),
		Status:    models.StatusCompleted,
	})
}

// GetBooking is not offered by the backend; callers fall back to defaults.
func (c *Client) GetBooking(ctx context.Context, bookingID string) (models.Booking, error) {
	return models.Booking{}, ErrNotImplemented
}

func (c *Client) GetLiveBookings(ctx context.Context) ([]models.Booking, error) {
	env, err := get[models.List[models.Booking]](ctx, c, pathLiveBookings, nil)
	if err != nil {
		return nil, err
	}
	return models.Items(env), nil
}

func (c *Client) GetReports(ctx context.Context) (models.ReportsData, error) {
	env, err := get[models.ReportsData](ctx, c, pathReports, nil)
	if err != nil {
		return models.ReportsData{}, err
	}
	return env.Data, nil
}
