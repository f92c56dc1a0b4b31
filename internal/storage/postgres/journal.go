package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	pq "github.com/lib/pq"

	"github.com/julianstephens/eathmover/internal/models"
	"github.com/julianstephens/eathmover/internal/storage"
)

const uniqueViolation = "23505"

func (s *Store) AddLocation(ctx context.Context, l models.SavedLocation) error {
	if err := l.Validate(); err != nil {
		return err
	}
	l.CreatedAt = l.CreatedAt.UTC()
	_, err := s.db.NamedExecContext(ctx,
		`INSERT INTO saved_locations (id, label, address, created_at) VALUES (:id, :label, :address, :created_at)`, l)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("%w: location %q", storage.ErrDuplicate, l.Label)
		}
		return fmt.Errorf("failed to insert location: %w", err)
	}
	return nil
}

func (s *Store) GetLocation(ctx context.Context, id string) (models.SavedLocation, error) {
	var l models.SavedLocation
	err := s.db.GetContext(ctx, &l,
		`SELECT id, label, address, created_at FROM saved_locations WHERE id = $1 OR label = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SavedLocation{}, fmt.Errorf("%w: location %s", storage.ErrNotFound, id)
	}
	if err != nil {
		return models.SavedLocation{}, fmt.Errorf("failed to get location: %w", err)
	}
	return l, nil
}

func (s *Store) ListLocations(ctx context.Context) ([]models.SavedLocation, error) {
	var out []models.SavedLocation
	if err := s.db.SelectContext(ctx, &out,
		`SELECT id, label, address, created_at FROM saved_locations ORDER BY label ASC`); err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}
	return out, nil
}

func (s *Store) DeleteLocation(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM saved_locations WHERE id = $1 OR label = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete location: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: location %s", storage.ErrNotFound, id)
	}
	return nil
}

func (s *Store) AddFeedback(ctx context.Context, f models.Feedback) error {
	if err := f.Validate(); err != nil {
		return err
	}
	f.CreatedAt = f.CreatedAt.UTC()
	_, err := s.db.NamedExecContext(ctx,
		`INSERT INTO feedback (id, booking_id, operator_id, rating, comment, created_at)
		 VALUES (:id, :booking_id, :operator_id, :rating, :comment, :created_at)`, f)
	if err != nil {
		return fmt.Errorf("failed to insert feedback: %w", err)
	}
	return nil
}

func (s *Store) ListFeedback(ctx context.Context) ([]models.Feedback, error) {
	var out []models.Feedback
	if err := s.db.SelectContext(ctx, &out,
		`SELECT id, booking_id, operator_id, rating, comment, created_at FROM feedback ORDER BY created_at DESC`); err != nil {
		return nil, fmt.Errorf("failed to query feedback: %w", err)
	}
	return out, nil
}

func (s *Store) AddPayment(ctx context.Context, p models.Payment) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	_, err := s.db.NamedExecContext(ctx,
		`INSERT INTO payments (id, booking_id, method, upi_id, amount, created_at)
		 VALUES (:id, :booking_id, :method, :upi_id, :amount, :created_at)`, p)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

func (s *Store) ListPayments(ctx context.Context) ([]models.Payment, error) {
	var out []models.Payment
	if err := s.db.SelectContext(ctx, &out,
		`SELECT id, booking_id, method, upi_id, amount, created_at FROM payments ORDER BY created_at DESC`); err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	return out, nil
}
