package workflow

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/eathmover/internal/constants"
)

var (
	hoursPattern   = regexp.MustCompile(`(\d+)\s*hour`)
	minutesPattern = regexp.MustCompile(`(\d+)\s*min`)
)

// DurationMinutes parses strings such as "2 Hours 30 Min". Unrecognised
// input yields 0.
func DurationMinutes(s string) int {
	s = strings.ToLower(s)
	total := 0
	if m := hoursPattern.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		total += n * 60
	}
	if m := minutesPattern.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		total += n
	}
	return total
}

// DurationLabel renders d the way booking durations are entered.
func DurationLabel(d time.Duration) string {
	hours := int(d / time.Hour)
	minutes := int((d % time.Hour) / time.Minute)
	plural := func(n int) string {
		if n > 1 {
			return "s"
		}
		return ""
	}
	switch {
	case hours > 0 && minutes > 0:
		return fmt.Sprintf("%d Hour%s %d Min", hours, plural(hours), minutes)
	case hours > 0:
		return fmt.Sprintf("%d Hour%s", hours, plural(hours))
	case minutes > 0:
		return fmt.Sprintf("%d Min", minutes)
	}
	return "0 Hours"
}

// EstimateCost prices minutes of work at pricePerHour, rounded to the
// nearest rupee.
func EstimateCost(pricePerHour float64, minutes int) int64 {
	return int64(math.Round(pricePerHour / 60.0 * float64(minutes)))
}

// FormatAmount renders a rupee amount with the currency symbol and
// thousands separators.
func FormatAmount(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + constants.CurrencySymbol + b.String()
}

// ParseAmount strips the currency symbol and separators from a rendered
// amount.
func ParseAmount(s string) (float64, bool) {
	s = strings.NewReplacer(constants.CurrencySymbol, "", ",", "").Replace(s)
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Breakdown is the final bill shown after work completes.
type Breakdown struct {
	EstimatedMinutes int
	EstimatedAmount  float64
	WorkedMinutes    int
	FinalAmount      int64
}

// ComputeBreakdown derives the final amount from the estimate's implied
// per-minute rate. Without a recorded work duration the estimate stands.
func ComputeBreakdown(estimatedCost, durationEstimate string, worked time.Duration) Breakdown {
	b := Breakdown{EstimatedMinutes: DurationMinutes(durationEstimate)}
	b.EstimatedAmount, _ = ParseAmount(estimatedCost)
	b.FinalAmount = int64(math.Round(b.EstimatedAmount))

	if worked <= 0 || b.EstimatedMinutes == 0 {
		return b
	}
	b.WorkedMinutes = int(math.Ceil(worked.Minutes()))
	perMinute := b.EstimatedAmount / float64(b.EstimatedMinutes)
	b.FinalAmount = int64(math.Round(perMinute * float64(b.WorkedMinutes)))
	return b
}
