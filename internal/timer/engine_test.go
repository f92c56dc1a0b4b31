package timer

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/eathmover/internal/errors"
)

func TestStartIsIdempotentWhileRunning(t *testing.T) {
	e := NewEngine()
	require.NoError(t, e.Start(10*time.Second))
	e.Tick()
	e.Tick()

	require.NoError(t, e.Start(time.Hour))

	snap := e.Snapshot()
	assert.Equal(t, StatusRunning, snap.Status)
	assert.Equal(t, 10*time.Second, snap.Total)
	assert.Equal(t, 8*time.Second, snap.Remaining)
}

func TestStartRejectsNonPositiveDuration(t *testing.T) {
	e := NewEngine()
	err := e.Start(0)
	require.Error(t, err)
	assert.Equal(t, errors.KindValidation, errors.KindOf(err))
	assert.Equal(t, MsgNoTime, errors.UserMessage(err))
	assert.Equal(t, StatusIdle, e.Status())
}

func TestPauseFreezesRemaining(t *testing.T) {
	e := NewEngine()
	require.NoError(t, e.Start(5*time.Second))
	e.Tick()
	e.Pause()

	for i := 0; i < 10; i++ {
		assert.False(t, e.Tick())
	}
	snap := e.Snapshot()
	assert.Equal(t, StatusPaused, snap.Status)
	assert.Equal(t, 4*time.Second, snap.Remaining)

	e.Resume()
	e.Tick()
	assert.Equal(t, 3*time.Second, e.Snapshot().Remaining)
}

func TestPauseWhenNotRunningIsNoop(t *testing.T) {
	e := NewEngine()
	e.Pause()
	assert.Equal(t, StatusIdle, e.Status())
}

func TestStartWhilePausedResumes(t *testing.T) {
	e := NewEngine()
	require.NoError(t, e.Start(5*time.Second))
	e.Tick()
	e.Pause()

	require.NoError(t, e.Start(time.Minute))

	snap := e.Snapshot()
	assert.Equal(t, StatusRunning, snap.Status)
	assert.Equal(t, 4*time.Second, snap.Remaining)
}

func TestStopResetsToTotal(t *testing.T) {
	tests := []struct {
		name  string
		setup func(e *Engine)
	}{
		{"from running", func(e *Engine) { e.Tick(); e.Tick() }},
		{"from paused", func(e *Engine) { e.Tick(); e.Pause() }},
		{"from finished", func(e *Engine) {
			for i := 0; i < 5; i++ {
				e.Tick()
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine()
			require.NoError(t, e.Start(3*time.Second))
			tt.setup(e)

			e.Stop()

			snap := e.Snapshot()
			assert.Equal(t, StatusIdle, snap.Status)
			assert.Equal(t, snap.Total, snap.Remaining)
			assert.Equal(t, "00:00:03", snap.Display())
		})
	}
}

func TestFinishReportedOnce(t *testing.T) {
	e := NewEngine()
	require.NoError(t, e.Start(2500*time.Millisecond))

	finishes := 0
	for i := 0; i < 10; i++ {
		if e.Tick() {
			finishes++
		}
	}

	assert.Equal(t, 1, finishes)
	snap := e.Snapshot()
	assert.Equal(t, StatusFinished, snap.Status)
	assert.Equal(t, time.Duration(0), snap.Remaining)
	assert.Equal(t, "00:00:00", snap.Display())
}

func TestArrivalCountdownRunsToZero(t *testing.T) {
	e := NewEngine()
	require.NoError(t, e.Start(5_400_000*time.Millisecond))
	assert.Equal(t, "01:30:00", e.Snapshot().Display())

	finishes := 0
	for i := 0; i < 5400; i++ {
		if e.Tick() {
			finishes++
		}
		if i == 0 {
			assert.Equal(t, "01:29:59", e.Snapshot().Display())
		}
	}

	assert.Equal(t, 1, finishes)
	assert.Equal(t, "00:00:00", e.Snapshot().Display())
	assert.Equal(t, StatusFinished, e.Status())
	assert.False(t, e.Tick())
}

func TestDecompose(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{0, "00:00:00"},
		{999, "00:00:00"},
		{1_000, "00:00:01"},
		{61_000, "00:01:01"},
		{5_400_000, "01:30:00"},
		{3_599_000, "00:59:59"},
		{90_061_000, "25:01:01"},
		{-5_000, "00:00:00"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(time.Duration(tt.ms)*time.Millisecond))
		})
	}
}

func TestDecomposeIdentity(t *testing.T) {
	var samples []int64
	for ms := int64(0); ms <= 5_000; ms += 7 {
		samples = append(samples, ms)
	}
	// Geometric spread up past 99 hours, each with a sub-second remainder.
	for ms := int64(1_000); ms < 500*3_600_000; ms = ms*3 + 137 {
		samples = append(samples, ms, ms+999, 3_600_000*(ms/3_600_000)+59*60_000+59_999)
	}
	samples = append(samples, 99*3_600_000+3_599_999, 100*3_600_000, 123*3_600_000+45*60_000+6_789)

	for _, ms := range samples {
		h, m, s := Decompose(ms)
		require.Equal(t, ms, h*3_600_000+m*60_000+s*1_000+ms%1_000, "ms=%d", ms)
		require.True(t, m >= 0 && m < 60, "minutes out of range for ms=%d: %d", ms, m)
		require.True(t, s >= 0 && s < 60, "seconds out of range for ms=%d: %d", ms, s)

		fields := strings.Split(Format(time.Duration(ms)*time.Millisecond), ":")
		require.Len(t, fields, 3, "ms=%d", ms)
		for i, want := range []int64{h, m, s} {
			assert.GreaterOrEqual(t, len(fields[i]), 2, "field %d of ms=%d not padded", i, ms)
			got, err := strconv.ParseInt(fields[i], 10, 64)
			require.NoError(t, err)
			assert.Equal(t, want, got, "field %d of ms=%d", i, ms)
		}
		if h < 100 {
			assert.Len(t, Format(time.Duration(ms)*time.Millisecond), 8, "ms=%d", ms)
		}
	}
}
