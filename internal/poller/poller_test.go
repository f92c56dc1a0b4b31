package poller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/eathmover/internal/models"
)

func booking(id string, status models.BookingStatus) models.Booking {
	return models.Booking{BookingID: models.FlexString(id), Status: status}
}

type scripted struct {
	mu    sync.Mutex
	calls int
	steps [][]models.Booking
	err   error
}

func (s *scripted) fetch(context.Context) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	i := min(s.calls-1, len(s.steps)-1)
	return s.steps[i], nil
}

func TestDiff(t *testing.T) {
	prev := map[string]models.BookingStatus{
		"1": models.StatusPending,
		"2": models.StatusActive,
	}
	cur := []models.Booking{
		booking("1", "pending"),
		booking("2", models.StatusCompleted),
		booking("3", models.StatusPending),
		booking("", models.StatusPending),
	}

	changes := Diff(prev, cur)
	require.Len(t, changes, 2)
	assert.Equal(t, "2", changes[0].BookingID)
	assert.Equal(t, models.StatusActive, changes[0].From)
	assert.Equal(t, models.StatusCompleted, changes[0].To)
	assert.False(t, changes[0].New())
	assert.Equal(t, "3", changes[1].BookingID)
	assert.True(t, changes[1].New())
}

func TestPollBaselineThenChanges(t *testing.T) {
	src := &scripted{steps: [][]models.Booking{
		{booking("1", models.StatusPending)},
		{booking("1", models.StatusPending)},
		{booking("1", models.StatusActive)},
	}}
	p := New(src.fetch, Options{})
	ctx := context.Background()

	_, changes, err := p.Poll(ctx)
	require.NoError(t, err)
	assert.Empty(t, changes, "first refresh is the baseline")

	_, changes, err = p.Poll(ctx)
	require.NoError(t, err)
	assert.Empty(t, changes)

	bookings, changes, err := p.Poll(ctx)
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
	require.Len(t, changes, 1)
	assert.Equal(t, models.StatusActive, changes[0].To)
}

func TestPollError(t *testing.T) {
	src := &scripted{err: errors.New("offline")}
	p := New(src.fetch, Options{})
	_, _, err := p.Poll(context.Background())
	assert.EqualError(t, err, "offline")
}

func TestStartRefreshesImmediately(t *testing.T) {
	src := &scripted{steps: [][]models.Booking{{booking("1", models.StatusPending)}}}
	refreshed := make(chan []models.Booking, 4)
	p := New(src.fetch, Options{
		Interval: time.Hour,
		OnRefresh: func(b []models.Booking, _ []Change) {
			refreshed <- b
		},
	})

	require.NoError(t, p.Start(context.Background()))
	defer p.Stop()

	select {
	case b := <-refreshed:
		assert.Len(t, b, 1)
	case <-time.After(time.Second):
		t.Fatal("expected an immediate refresh")
	}
	assert.ErrorIs(t, p.Start(context.Background()), ErrAlreadyRunning)
}

func TestStartReportsErrors(t *testing.T) {
	src := &scripted{err: errors.New("offline")}
	var got error
	p := New(src.fetch, Options{Interval: time.Hour, OnError: func(err error) { got = err }})

	require.NoError(t, p.Start(context.Background()))
	p.Stop()
	assert.EqualError(t, got, "offline")
}

func TestSetFast(t *testing.T) {
	p := New(func(context.Context) ([]models.Booking, error) { return nil, nil }, Options{
		Interval:     10 * time.Second,
		FastInterval: 5 * time.Second,
	})
	assert.Equal(t, 10*time.Second, p.Interval())

	require.NoError(t, p.Start(context.Background()))
	p.SetFast(true)
	assert.Equal(t, 5*time.Second, p.Interval())
	p.SetFast(false)
	assert.Equal(t, 10*time.Second, p.Interval())
	p.Stop()

	// stopping twice is harmless
	p.Stop()
}

func TestStopAfterCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := &scripted{steps: [][]models.Booking{{}}}
	p := New(src.fetch, Options{Interval: time.Hour})
	require.NoError(t, p.Start(ctx))
	cancel()
	p.Stop()
	assert.Equal(t, 1, src.calls)
}
