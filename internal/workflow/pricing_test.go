package workflow

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDurationMinutes(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"2 Hours 30 Min", 150},
		{"1 Hour", 60},
		{"45 min", 45},
		{"3hours", 180},
		{"0 Hours", 0},
		{"", 0},
		{"soon", 0},
	}
	for _, tt := range tests {
		if got := DurationMinutes(tt.in); got != tt.want {
			t.Errorf("DurationMinutes(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestDurationLabel(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{2*time.Hour + 30*time.Minute, "2 Hours 30 Min"},
		{time.Hour, "1 Hour"},
		{time.Hour + time.Minute, "1 Hour 1 Min"},
		{20 * time.Minute, "20 Min"},
		{0, "0 Hours"},
	}
	for _, tt := range tests {
		if got := DurationLabel(tt.d); got != tt.want {
			t.Errorf("DurationLabel(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestEstimateCost(t *testing.T) {
	if got := EstimateCost(1200, 150); got != 3000 {
		t.Errorf("EstimateCost() = %d, want 3000", got)
	}
	if got := EstimateCost(1000, 1); got != 17 {
		t.Errorf("EstimateCost() = %d, want 17", got)
	}
}

func TestFormatAndParseAmount(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "₹0"},
		{950, "₹950"},
		{3000, "₹3,000"},
		{1234567, "₹1,234,567"},
	}
	for _, tt := range tests {
		got := FormatAmount(tt.amount)
		if got != tt.want {
			t.Errorf("FormatAmount(%d) = %q, want %q", tt.amount, got, tt.want)
		}
		v, ok := ParseAmount(got)
		if !ok || int64(v) != tt.amount {
			t.Errorf("ParseAmount(%q) = %v, %v", got, v, ok)
		}
	}
	if _, ok := ParseAmount("₹"); ok {
		t.Error("ParseAmount of a bare symbol should fail")
	}
	if _, ok := ParseAmount("abc"); ok {
		t.Error("ParseAmount of text should fail")
	}
}

func TestComputeBreakdown(t *testing.T) {
	b := ComputeBreakdown("₹3,000", "2 Hours 30 Min", 0)
	if b.FinalAmount != 3000 || b.EstimatedMinutes != 150 {
		t.Errorf("without worked time got %+v", b)
	}

	b = ComputeBreakdown("₹3,000", "2 Hours 30 Min", 100*time.Minute+10*time.Second)
	if b.WorkedMinutes != 101 {
		t.Errorf("WorkedMinutes = %d, want 101", b.WorkedMinutes)
	}
	if b.FinalAmount != 2020 {
		t.Errorf("FinalAmount = %d, want 2020", b.FinalAmount)
	}
}

func TestResolveArrival(t *testing.T) {
	ctx := context.Background()
	fallback := 90 * time.Minute
	ok := ArrivalFunc(func(context.Context, string) (time.Duration, error) { return 12 * time.Minute, nil })
	failing := ArrivalFunc(func(context.Context, string) (time.Duration, error) { return 0, errors.New("boom") })

	tests := []struct {
		name      string
		lookup    ArrivalLookup
		bookingID string
		want      time.Duration
	}{
		{"no booking id", ok, "", fallback},
		{"nil lookup", nil, "12", fallback},
		{"lookup fails", failing, "12", fallback},
		{"lookup succeeds", ok, "12", 12 * time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveArrival(ctx, tt.lookup, tt.bookingID, fallback); got != tt.want {
				t.Errorf("ResolveArrival() = %v, want %v", got, tt.want)
			}
		})
	}

	if got := ResolveArrival(ctx, nil, "", 0); got != 90*time.Minute {
		t.Errorf("zero fallback should use the default, got %v", got)
	}
}
