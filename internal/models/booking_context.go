package models

import "strings"

// BookingContext is the typed record carried forward through the booking
// flow. Empty fields are absent. Values are copied between steps; a step
// extends the context with Merge and never clears what earlier steps set.
type BookingContext struct {
	MachineID        string
	MachineModel     string
	MachineType      string
	Date             string
	Time             string
	Location         string
	DurationEstimate string
	EstimatedCost    string
	OperatorID       string
	OperatorName     string
	OperatorPhone    string
	BookingID        string
}

// Parameter keys used when a context is rendered for a transition.
const (
	ParamMachineID     = "machine_id"
	ParamMachineModel  = "machine_model"
	ParamMachineType   = "machine_type"
	ParamDate          = "date"
	ParamTime          = "time"
	ParamLocation      = "location"
	ParamDuration      = "duration"
	ParamEstimatedCost = "estimated_cost"
	ParamOperatorID    = "operator_id"
	ParamOperatorName  = "operator_name"
	ParamOperatorPhone = "operator_phone"
	ParamBookingID     = "booking_id"
)

func (c BookingContext) fields() [][2]string {
	return [][2]string{
		{ParamMachineID, c.MachineID},
		{ParamMachineModel, c.MachineModel},
		{ParamMachineType, c.MachineType},
		{ParamDate, c.Date},
		{ParamTime, c.Time},
		{ParamLocation, c.Location},
		{ParamDuration, c.DurationEstimate},
		{ParamEstimatedCost, c.EstimatedCost},
		{ParamOperatorID, c.OperatorID},
		{ParamOperatorName, c.OperatorName},
		{ParamOperatorPhone, c.OperatorPhone},
		{ParamBookingID, c.BookingID},
	}
}

// Params renders the present fields. Absent fields have no key at all.
func (c BookingContext) Params() map[string]string {
	params := make(map[string]string)
	for _, kv := range c.fields() {
		if v := strings.TrimSpace(kv[1]); v != "" {
			params[kv[0]] = v
		}
	}
	return params
}

// Merge returns c extended with the fields of next that c does not have yet.
func (c BookingContext) Merge(next BookingContext) BookingContext {
	fill := func(dst *string, src string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = src
		}
	}
	fill(&c.MachineID, next.MachineID)
	fill(&c.MachineModel, next.MachineModel)
	fill(&c.MachineType, next.MachineType)
	fill(&c.Date, next.Date)
	fill(&c.Time, next.Time)
	fill(&c.Location, next.Location)
	fill(&c.DurationEstimate, next.DurationEstimate)
	fill(&c.EstimatedCost, next.EstimatedCost)
	fill(&c.OperatorID, next.OperatorID)
	fill(&c.OperatorName, next.OperatorName)
	fill(&c.OperatorPhone, next.OperatorPhone)
	fill(&c.BookingID, next.BookingID)
	return c
}

func (c BookingContext) HasOperator() bool {
	return strings.TrimSpace(c.OperatorID) != ""
}

func (c BookingContext) HasBooking() bool {
	return strings.TrimSpace(c.BookingID) != ""
}

func (c BookingContext) IsZero() bool {
	return c == BookingContext{}
}
