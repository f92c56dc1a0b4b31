package timers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/eathmover/internal/api"
	"github.com/julianstephens/eathmover/internal/api/mocks"
	"github.com/julianstephens/eathmover/internal/cli"
	"github.com/julianstephens/eathmover/internal/config"
	"github.com/julianstephens/eathmover/internal/models"
)

func TestWorkCmdPlainRunsToFinish(t *testing.T) {
	ctx := &cli.Context{Root: context.Background()}

	start := time.Now()
	err := (&WorkCmd{Duration: time.Second, Rate: 600, Plain: true}).Run(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 900*time.Millisecond)
}

func TestWorkCmdRejectsZeroDuration(t *testing.T) {
	ctx := &cli.Context{Root: context.Background()}
	assert.Error(t, (&WorkCmd{Plain: true}).Run(ctx))
}

func TestArrivalCmdStopsOnCancel(t *testing.T) {
	gw := &mocks.MockGateway{}
	gw.On("GetBooking", mock.Anything, "101").Return(models.Booking{}, api.ErrNotImplemented)

	root, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	ctx := &cli.Context{Root: root, Gateway: gw, Config: config.Default()}

	done := make(chan error, 1)
	go func() { done <- (&ArrivalCmd{BookingID: "101", Plain: true}).Run(ctx) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("arrival countdown did not stop when its context ended")
	}
	gw.AssertExpectations(t)
}
