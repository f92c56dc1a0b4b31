package api

import (
	"context"
	"errors"

	"github.com/julianstephens/eathmover/internal/models"
)

// ErrNotImplemented is returned for operations the backend does not expose.
var ErrNotImplemented = errors.New("operation not supported by the backend")

// Gateway is the typed contract of the remote backend. Every method returns
// an *errors.AppError classified as validation, api or transport on failure.
type Gateway interface {
	Login(ctx context.Context, req models.LoginRequest) (models.LoginData, error)
	AdminLogin(ctx context.Context, req models.LoginRequest) (models.LoginData, error)
	CreateUser(ctx context.Context, profile models.SignupProfile) (string, error)
	CreateOperator(ctx context.Context, profile models.SignupProfile) (string, error)
	CreateAdmin(ctx context.Context, profile models.SignupProfile) (string, error)
	RequestPasswordReset(ctx context.Context, req models.PasswordResetRequest) (string, error)
	ConfirmPasswordReset(ctx context.Context, req models.PasswordResetConfirm) (string, error)

	GetLiveBookings(ctx context.Context) ([]models.Booking, error)
	GetReports(ctx context.Context) (models.ReportsData, error)

	GetUserMachines(ctx context.Context) ([]models.Machine, error)
	GetMachineDetails(ctx context.Context, machineID int) (models.Machine, error)
	SearchOperators(ctx context.Context, q models.OperatorQuery) ([]models.OperatorMatch, error)
	GetOperatorProfile(ctx context.Context, operatorID string) (models.OperatorProfile, error)
	GetOperatorBookings(ctx context.Context, operatorID string) ([]models.Booking, error)
	GetOperatorEarnings(ctx context.Context, operatorID string) ([]models.Booking, error)
	AcceptBooking(ctx context.Context, bookingID, operatorID string) (string, error)
	DeclineBooking(ctx context.Context, bookingID, operatorID string) (string, error)

	GetUserBookings(ctx context.Context, userID string) ([]models.Booking, error)
	CreateBooking(ctx context.Context, b models.Booking) (string, error)
	CompleteBooking(ctx context.Context, bookingID string) (string, error)
	GetBooking(ctx context.Context, bookingID string) (models.Booking, error)
}

var _ Gateway = (*Client)(nil)
