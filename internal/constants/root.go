package constants

import "time"

const (
	AppName            = "eathmover"
	DefaultKeyringUser = "database-connection"
	SessionKeyringUser = "session"
	DefaultConfigDir   = "~/.config/eathmover"
	DefaultStorePath   = "~/.config/eathmover/eathmover.db"
	Version            = "v0.3.0"

	// DateFormat is the booking date format accepted by the backend (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the booking start time format (HH:MM)
	TimeFormat = "15:04"

	// CurrencySymbol prefixes rendered amounts
	CurrencySymbol = "₹"

	// Gateway constants
	DefaultBaseURL      = "http://10.0.2.2/Earth_mover/api/"
	DefaultTimeout      = 15 * time.Second
	ExtendedTimeout     = 30 * time.Second
	FastTimeout         = 10 * time.Second
	DefaultRatePerSec   = 5
	RequestIDHeader     = "X-Request-ID"
	EnvPrefix           = "EATHMOVER"
	DefaultConfigName   = "config"
	DefaultConfigFormat = "yaml"

	// Countdown constants
	TickInterval            = time.Second
	DefaultArrivalCountdown = 90 * time.Minute
	// DefaultArrivalCountdownMs mirrors DefaultArrivalCountdown in milliseconds.
	DefaultArrivalCountdownMs = 5_400_000

	// Polling constants
	DefaultPollInterval = 10 * time.Second
	FastPollInterval    = 5 * time.Second

	// Notify constants
	NotifierLockfileName   = "eathmover-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.eathmover"
	TrayExecutablePrefix   = "eathmover-tray"
	TraySecretHeader       = "X-Eathmover-Secret"

	// Validation constants
	OTPLength         = 6
	MinPasswordLength = 6
	MinRating         = 1
	MaxRating         = 5
)
