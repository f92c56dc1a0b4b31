package models

type ReportsData struct {
	ActiveUsers           int     `json:"active_users"`
	NewUsers              int     `json:"new_users"`
	ActiveUsersChange     string  `json:"active_users_change,omitempty"`
	NewUsersChange        string  `json:"new_users_change,omitempty"`
	TotalRevenue          float64 `json:"total_revenue"`
	AvgBookingValue       float64 `json:"avg_booking_value"`
	RevenueChange         string  `json:"revenue_change,omitempty"`
	AvgBookingChange      string  `json:"avg_booking_change,omitempty"`
	TotalBookings         int     `json:"total_bookings"`
	BookingsChange        string  `json:"bookings_change,omitempty"`
	MostBookedMachine     string  `json:"most_booked_machine,omitempty"`
	MachineBookingsCount  int     `json:"machine_bookings_count"`
	ActiveOperators       int     `json:"active_operators"`
	OperatorsChange       string  `json:"operators_change,omitempty"`
	TopOperator           string  `json:"top_operator,omitempty"`
	OperatorBookingsCount int     `json:"operator_bookings_count"`
}
