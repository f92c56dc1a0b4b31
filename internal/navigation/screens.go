package navigation

import "github.com/julianstephens/eathmover/internal/models"

type Screen string

const (
	// User screens
	ScreenHome                Screen = "home"
	ScreenMachineSelection    Screen = "machine_selection"
	ScreenMachineDetails      Screen = "machine_details"
	ScreenOperatorSearch      Screen = "operator_search"
	ScreenOperatorFound       Screen = "operator_found"
	ScreenBookingConfirmation Screen = "booking_confirmation"
	ScreenUserBookings        Screen = "user_bookings"
	ScreenLiveTracking        Screen = "live_tracking"
	ScreenOperatorArrival     Screen = "operator_arrival"
	ScreenWorkTimer           Screen = "work_timer"
	ScreenWorkSummary         Screen = "work_summary"
	ScreenFinalPriceBreakdown Screen = "final_price_breakdown"
	ScreenPayment             Screen = "payment"
	ScreenPaymentSuccessful   Screen = "payment_successful"
	ScreenRatingFeedback      Screen = "rating_feedback"
	ScreenHistory             Screen = "history"
	ScreenProfile             Screen = "profile"
	ScreenSavedLocations      Screen = "saved_locations"
	ScreenSettings            Screen = "settings"

	// Operator screens
	ScreenOperatorDashboard Screen = "operator_dashboard"
	ScreenOperatorRequests  Screen = "operator_requests"
	ScreenOperatorEarnings  Screen = "operator_earnings"
	ScreenOperatorProfile   Screen = "operator_profile"

	// Admin screens
	ScreenAdminDashboard    Screen = "admin_dashboard"
	ScreenAdminVerification Screen = "admin_verification"
	ScreenAdminBookings     Screen = "admin_bookings"
	ScreenAdminReports      Screen = "admin_reports"
)

type Action string

const (
	ActionBack          Action = "back"
	ActionHome          Action = "home"
	ActionBook          Action = "book"
	ActionDetails       Action = "details"
	ActionSearch        Action = "search"
	ActionConfirm       Action = "confirm_booking"
	ActionViewBookings  Action = "view_bookings"
	ActionTrack         Action = "track"
	ActionArrival       Action = "arrival"
	ActionStartWork     Action = "start_work"
	ActionConfirmArrive Action = "confirm_operator"
	ActionFinishWork    Action = "finish_work"
	ActionPriceDetails  Action = "price_breakdown"
	ActionPay           Action = "pay"
	ActionPaid          Action = "payment_done"
	ActionRate          Action = "rate"
	ActionSubmit        Action = "submit"
	ActionSkip          Action = "skip"
	ActionLocations     Action = "saved_locations"
	ActionSettings      Action = "settings"
	ActionHistory       Action = "history"
)

// routes lists every screen's outbound actions. Back is handled separately.
var routes = map[Screen]map[Action]Screen{
	ScreenHome: {
		ActionBook:      ScreenMachineSelection,
		ActionHistory:   ScreenHistory,
		ActionLocations: ScreenSavedLocations,
	},
	ScreenMachineSelection: {
		ActionDetails: ScreenMachineDetails,
		ActionSearch:  ScreenOperatorSearch,
	},
	ScreenMachineDetails: {
		ActionSearch: ScreenOperatorSearch,
	},
	ScreenOperatorSearch: {
		ActionSearch: ScreenOperatorFound,
	},
	ScreenOperatorFound: {
		ActionConfirm: ScreenBookingConfirmation,
	},
	ScreenBookingConfirmation: {
		ActionViewBookings: ScreenUserBookings,
		ActionTrack:        ScreenLiveTracking,
		ActionHome:         ScreenHome,
	},
	ScreenUserBookings: {
		ActionTrack: ScreenLiveTracking,
	},
	ScreenLiveTracking: {
		ActionArrival: ScreenOperatorArrival,
	},
	ScreenOperatorArrival: {
		ActionStartWork:     ScreenWorkTimer,
		ActionConfirmArrive: ScreenWorkSummary,
	},
	ScreenWorkTimer: {
		ActionFinishWork: ScreenWorkSummary,
	},
	ScreenWorkSummary: {
		ActionPriceDetails: ScreenFinalPriceBreakdown,
	},
	ScreenFinalPriceBreakdown: {
		ActionPay: ScreenPayment,
	},
	ScreenPayment: {
		ActionPaid: ScreenPaymentSuccessful,
	},
	ScreenPaymentSuccessful: {
		ActionRate: ScreenRatingFeedback,
		ActionHome: ScreenHome,
	},
	ScreenRatingFeedback: {
		ActionSubmit: ScreenHome,
		ActionSkip:   ScreenHome,
	},
	ScreenProfile: {
		ActionLocations: ScreenSavedLocations,
		ActionSettings:  ScreenSettings,
	},
	ScreenOperatorDashboard: {
		ActionStartWork: ScreenWorkTimer,
	},
	ScreenAdminDashboard: {
		ActionSettings: ScreenSettings,
	},
}

// homeOverride maps screens whose back action jumps straight home instead of
// unwinding history. Both sit after a committed step that must not be resubmitted.
var homeOverride = map[Screen]bool{
	ScreenBookingConfirmation: true,
	ScreenPaymentSuccessful:   true,
}

// flowEnd marks destinations that finish the booking flow and discard its context.
var flowEnd = map[Screen]bool{
	ScreenHome: true,
}

// Actions returns the outbound actions declared for s, excluding back.
func Actions(s Screen) []Action {
	var out []Action
	for a := range routes[s] {
		out = append(out, a)
	}
	return out
}

// HomeFor returns the landing screen for a role.
func HomeFor(role models.Role) Screen {
	switch role {
	case models.RoleOperator:
		return ScreenOperatorDashboard
	case models.RoleAdmin:
		return ScreenAdminDashboard
	}
	return ScreenHome
}
