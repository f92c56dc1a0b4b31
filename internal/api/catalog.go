package api

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/julianstephens/eathmover/internal/errors"
	"github.com/julianstephens/eathmover/internal/models"
)

const (
	pathUserMachines     = "user/get_machines.php"
	pathMachineDetails   = "machines/machine_details.php"
	pathSearchOperators  = "operator/search_operators.php"
	pathOperatorProfile  = "operator/get_operator_profile.php"
	pathOperatorBookings = "operator/get_operator_bookings.php"
	pathAcceptBooking    = "operator/accept_booking.php"
	pathDeclineBooking   = "operator/decline_booking.php"
	pathOperatorEarnings = "operator/get_earnings.php"
)

func (c *Client) GetUserMachines(ctx context.Context) ([]models.Machine, error) {
	env, err := get[models.List[models.Machine]](ctx, c, pathUserMachines, nil)
	if err != nil {
		return nil, err
	}
	return models.Items(env), nil
}

func (c *Client) GetMachineDetails(ctx context.Context, machineID int) (models.Machine, error) {
	if machineID <= 0 {
		return models.Machine{}, errors.Validation("Invalid machine")
	}
	env, err := get[models.Machine](ctx, c, pathMachineDetails, url.Values{"machine_id": {strconv.Itoa(machineID)}})
	if err != nil {
		return models.Machine{}, err
	}
	return env.Data, nil
}

// SearchOperators returns matching operators. An empty result is not an error.
func (c *Client) SearchOperators(ctx context.Context, q models.OperatorQuery) ([]models.OperatorMatch, error) {
	if strings.TrimSpace(q.Location) == "" {
		return nil, errors.Validation("Please enter a location")
	}
	query := url.Values{
		"location":     {q.Location},
		"machine_type": {q.MachineType},
		"date":         {q.Date},
		"time":         {q.Time},
	}
	env, err := get[models.List[models.OperatorMatch]](ctx, c, pathSearchOperators, query)
	if err != nil {
		return nil, err
	}
	return models.Items(env), nil
}

func (c *Client) GetOperatorProfile(ctx context.Context, operatorID string) (models.OperatorProfile, error) {
	if strings.TrimSpace(operatorID) == "" {
		return models.OperatorProfile{}, errors.Validation("Operator ID not found")
	}
	env, err := get[models.OperatorProfile](ctx, c, pathOperatorProfile, url.Values{"operator_id": {operatorID}})
	if err != nil {
		return models.OperatorProfile{}, err
	}
	return env.Data, nil
}

func (c *Client) GetOperatorBookings(ctx context.Context, operatorID string) ([]models.Booking, error) {
	if strings.TrimSpace(operatorID) == "" {
		return nil, errors.Validation("Operator ID not found")
	}
	env, err := get[models.List[models.Booking]](ctx, c, pathOperatorBookings, url.Values{"operator_id": {operatorID}})
	if err != nil {
		return nil, err
	}
	return models.Items(env), nil
}

// GetOperatorEarnings returns every booking assigned to the operator, newest
// first. Totals are derived client-side with models.SummarizeEarnings.
func (c *Client) GetOperatorEarnings(ctx context.Context, operatorID string) ([]models.Booking, error) {
	if strings.TrimSpace(operatorID) == "" {
		return nil, errors.Validation("Operator ID not found")
	}
	env, err := get[models.List[models.Booking]](ctx, c, pathOperatorEarnings, url.Values{"operator_id": {operatorID}})
	if err != nil {
		return nil, err
	}
	return models.Items(env), nil
}

func (c *Client) AcceptBooking(ctx context.Context, bookingID, operatorID string) (string, error) {
	return c.respond(ctx, pathAcceptBooking, bookingID, operatorID)
}

func (c *Client) DeclineBooking(ctx context.Context, bookingID, operatorID string) (string, error) {
	return c.respond(ctx, pathDeclineBooking, bookingID, operatorID)
}

func (c *Client) respond(ctx context.Context, path, bookingID, operatorID string) (string, error) {
	if strings.TrimSpace(bookingID) == "" || strings.TrimSpace(operatorID) == "" {
		return "", errors.Validation("Booking and operator are required")
	}
	return c.message(ctx, path, models.Booking{
		BookingID:  models.FlexString(bookingID),
		OperatorID: models.FlexString(operatorID),
	})
}
