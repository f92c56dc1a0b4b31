package storage

import (
	"context"
	"errors"

	"github.com/julianstephens/eathmover/internal/models"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrNotInitialized = errors.New("storage not initialized, run 'eathmover init' first")
	ErrDuplicate      = errors.New("record already exists")
)

// Provider is the local journal: records the backend has no endpoint for.
type Provider interface {
	// Lifecycle
	Init(ctx context.Context) error
	Load(ctx context.Context) error
	Close() error

	// Saved locations
	AddLocation(ctx context.Context, l models.SavedLocation) error
	GetLocation(ctx context.Context, id string) (models.SavedLocation, error)
	ListLocations(ctx context.Context) ([]models.SavedLocation, error)
	DeleteLocation(ctx context.Context, id string) error

	// Feedback
	AddFeedback(ctx context.Context, f models.Feedback) error
	ListFeedback(ctx context.Context) ([]models.Feedback, error)

	// Payments
	AddPayment(ctx context.Context, p models.Payment) error
	ListPayments(ctx context.Context) ([]models.Payment, error)

	// GetConfigPath returns a display-safe description of where data lives.
	GetConfigPath() string
}
