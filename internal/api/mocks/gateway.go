package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/julianstephens/eathmover/internal/api"
	"github.com/julianstephens/eathmover/internal/models"
)

var _ api.Gateway = (*MockGateway)(nil)

// MockGateway is a testify mock of api.Gateway.
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Login(ctx context.Context, req models.LoginRequest) (models.LoginData, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.LoginData), args.Error(1)
}

func (m *MockGateway) AdminLogin(ctx context.Context, req models.LoginRequest) (models.LoginData, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.LoginData), args.Error(1)
}

func (m *MockGateway) CreateUser(ctx context.Context, profile models.SignupProfile) (string, error) {
	args := m.Called(ctx, profile)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) CreateOperator(ctx context.Context, profile models.SignupProfile) (string, error) {
	args := m.Called(ctx, profile)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) CreateAdmin(ctx context.Context, profile models.SignupProfile) (string, error) {
	args := m.Called(ctx, profile)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) RequestPasswordReset(ctx context.Context, req models.PasswordResetRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) ConfirmPasswordReset(ctx context.Context, req models.PasswordResetConfirm) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) GetLiveBookings(ctx context.Context) ([]models.Booking, error) {
	args := m.Called(ctx)
	return bookings(args.Get(0)), args.Error(1)
}

func (m *MockGateway) GetReports(ctx context.Context) (models.ReportsData, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.ReportsData), args.Error(1)
}

func (m *MockGateway) GetUserMachines(ctx context.Context) ([]models.Machine, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]models.Machine), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGateway) GetMachineDetails(ctx context.Context, machineID int) (models.Machine, error) {
	args := m.Called(ctx, machineID)
	return args.Get(0).(models.Machine), args.Error(1)
}

func (m *MockGateway) SearchOperators(ctx context.Context, q models.OperatorQuery) ([]models.OperatorMatch, error) {
	args := m.Called(ctx, q)
	if v := args.Get(0); v != nil {
		return v.([]models.OperatorMatch), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGateway) GetOperatorProfile(ctx context.Context, operatorID string) (models.OperatorProfile, error) {
	args := m.Called(ctx, operatorID)
	return args.Get(0).(models.OperatorProfile), args.Error(1)
}

func (m *MockGateway) GetOperatorBookings(ctx context.Context, operatorID string) ([]models.Booking, error) {
	args := m.Called(ctx, operatorID)
	return bookings(args.Get(0)), args.Error(1)
}

func (m *MockGateway) GetOperatorEarnings(ctx context.Context, operatorID string) ([]models.Booking, error) {
	args := m.Called(ctx, operatorID)
	return bookings(args.Get(0)), args.Error(1)
}

func (m *MockGateway) AcceptBooking(ctx context.Context, bookingID, operatorID string) (string, error) {
	args := m.Called(ctx, bookingID, operatorID)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) DeclineBooking(ctx context.Context, bookingID, operatorID string) (string, error) {
	args := m.Called(ctx, bookingID, operatorID)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) GetUserBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	args := m.Called(ctx, userID)
	return bookings(args.Get(0)), args.Error(1)
}

func (m *MockGateway) CreateBooking(ctx context.Context, b models.Booking) (string, error) {
	args := m.Called(ctx, b)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) CompleteBooking(ctx context.Context, bookingID string) (string, error) {
	args := m.Called(ctx, bookingID)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) GetBooking(ctx context.Context, bookingID string) (models.Booking, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).(models.Booking), args.Error(1)
}

func bookings(v any) []models.Booking {
	if v == nil {
		return nil
	}
	return v.([]models.Booking)
}
