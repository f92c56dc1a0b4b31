package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/eathmover/internal/models"
	"github.com/julianstephens/eathmover/internal/storage"
)

func (s *Store) AddLocation(ctx context.Context, l models.SavedLocation) error {
	if err := l.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO saved_locations (id, label, address, created_at) VALUES (?, ?, ?, ?)`,
		l.ID, l.Label, l.Address, l.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: location %q", storage.ErrDuplicate, l.Label)
		}
		return fmt.Errorf("failed to insert location: %w", err)
	}
	return nil
}

func (s *Store) GetLocation(ctx context.Context, id string) (models.SavedLocation, error) {
	var l models.SavedLocation
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, label, address, created_at FROM saved_locations WHERE id = ? OR label = ?`, id, id,
	).Scan(&l.ID, &l.Label, &l.Address, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SavedLocation{}, fmt.Errorf("%w: location %s", storage.ErrNotFound, id)
	}
	if err != nil {
		return models.SavedLocation{}, fmt.Errorf("failed to get location: %w", err)
	}
	if l.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return models.SavedLocation{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return l, nil
}

func (s *Store) ListLocations(ctx context.Context) ([]models.SavedLocation, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, label, address, created_at FROM saved_locations ORDER BY label ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}
	defer rows.Close()

	var out []models.SavedLocation
	for rows.Next() {
		var l models.SavedLocation
		var createdAt string
		if err := rows.Scan(&l.ID, &l.Label, &l.Address, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		if l.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// DeleteLocation removes a location by id or label.
func (s *Store) DeleteLocation(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM saved_locations WHERE id = ? OR label = ?`, id, id)
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
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO feedback (id, booking_id, operator_id, rating, comment, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		f.ID, f.BookingID, f.OperatorID, f.Rating, f.Comment, f.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert feedback: %w", err)
	}
	return nil
}

func (s *Store) ListFeedback(ctx context.Context) ([]models.Feedback, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, booking_id, operator_id, rating, comment, created_at FROM feedback ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback: %w", err)
	}
	defer rows.Close()

	var out []models.Feedback
	for rows.Next() {
		var f models.Feedback
		var createdAt string
		if err := rows.Scan(&f.ID, &f.BookingID, &f.OperatorID, &f.Rating, &f.Comment, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		if f.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *Store) AddPayment(ctx context.Context, p models.Payment) error {
	if err := p.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO payments (id, booking_id, method, upi_id, amount, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.BookingID, string(p.Method), p.UPIID, p.Amount, p.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

func (s *Store) ListPayments(ctx context.Context) ([]models.Payment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, booking_id, method, upi_id, amount, created_at FROM payments ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var out []models.Payment
	for rows.Next() {
		var p models.Payment
		var method, createdAt string
		if err := rows.Scan(&p.ID, &p.BookingID, &method, &p.UPIID, &p.Amount, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		p.Method = models.PaymentMethod(method)
		if p.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
