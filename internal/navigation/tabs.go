package navigation

import "github.com/julianstephens/eathmover/internal/models"

type Tab string

const (
	TabHome    Tab = "home"
	TabBook    Tab = "book"
	TabHistory Tab = "history"
	TabProfile Tab = "profile"

	TabDashboard Tab = "dashboard"
	TabRequests  Tab = "bookings"
	TabEarnings  Tab = "earnings"

	TabVerification Tab = "verification"
	TabReports      Tab = "reports"
	TabSettings     Tab = "settings"
)

// TabSet is the ordered bottom navigation of one role.
type TabSet struct {
	Role models.Role
	Tabs []Tab
	home map[Tab]Screen
}

func (s TabSet) Screen(tab Tab) (Screen, bool) {
	screen, ok := s.home[tab]
	return screen, ok
}

// TabOf returns the tab whose home screen is screen.
func (s TabSet) TabOf(screen Screen) (Tab, bool) {
	for _, t := range s.Tabs {
		if s.home[t] == screen {
			return t, true
		}
	}
	return "", false
}

var (
	userTabs = TabSet{
		Role: models.RoleUser,
		Tabs: []Tab{TabHome, TabBook, TabHistory, TabProfile},
		home: map[Tab]Screen{
			TabHome:    ScreenHome,
			TabBook:    ScreenMachineSelection,
			TabHistory: ScreenHistory,
			TabProfile: ScreenProfile,
		},
	}
	operatorTabs = TabSet{
		Role: models.RoleOperator,
		Tabs: []Tab{TabDashboard, TabRequests, TabEarnings, TabProfile},
		home: map[Tab]Screen{
			TabDashboard: ScreenOperatorDashboard,
			TabRequests:  ScreenOperatorRequests,
			TabEarnings:  ScreenOperatorEarnings,
			TabProfile:   ScreenOperatorProfile,
		},
	}
	adminTabs = TabSet{
		Role: models.RoleAdmin,
		Tabs: []Tab{TabDashboard, TabVerification, TabRequests, TabReports, TabSettings},
		home: map[Tab]Screen{
			TabDashboard:    ScreenAdminDashboard,
			TabVerification: ScreenAdminVerification,
			TabRequests:     ScreenAdminBookings,
			TabReports:      ScreenAdminReports,
			TabSettings:     ScreenSettings,
		},
	}
)

// TabsFor returns the bottom navigation for role.
func TabsFor(role models.Role) TabSet {
	switch role {
	case models.RoleOperator:
		return operatorTabs
	case models.RoleAdmin:
		return adminTabs
	}
	return userTabs
}
