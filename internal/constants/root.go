package constants

import "time"

const (
	AppName            = "datebook"
	DefaultConfigDir   = "~/.config/datebook"
	DefaultConfigFile  = "~/.config/datebook/config.yaml"
	DefaultStoragePath = "~/.config/datebook/datebook.db"
	Version            = "v0.3.0"

	// DateFormat is the wire format for event dates (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the wire format for event times (HH:MM, 24-hour)
	TimeFormat = "15:04"

	// Storage keys
	EventsKey         = "calendar_events"
	ProviderConfigKey = "email_provider"

	// Reminder constants
	DefaultPollInterval = 5 * time.Minute
	DefaultUpcomingMax  = 5
	PollStartupDelay    = 2 * time.Second

	// Keyring users
	KeyringConnectionUser = "database-connection"
	KeyringSMTPUser       = "smtp-password"

	// Notify constants
	NotifierLockfileName   = "datebook-notifier.lock"
	NotificationDurationMs = 8000
	TrayAppIdentifier      = "com.julianstephens.datebook"
	TrayExecutablePrefix   = "datebook-tray"

	// Email provider
	DefaultProviderEndpoint = "https://api.emailjs.com/api/v1.0/email/send"
	DefaultSMTPPort         = 587
)
