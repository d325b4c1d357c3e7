package constants

import "time"

const (
	// AppName identifies the application in the keyring and config paths.
	AppName = "gravity"

	// DefaultKeyringUser is the keyring account under which the remote DSN is stored.
	DefaultKeyringUser = "remote-dsn"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"
)

const (
	// PrimaryMemberID is the sentinel local id of the default "Me" member.
	// The remote store assigns its own id to this member; the identity map
	// translates between the two.
	PrimaryMemberID = "me"

	// Reserved category ids. These are structurally required by the reducer
	// and the timeline engine and can never be deleted.
	CategoryNothing  = "nothing"
	CategoryNote     = "note"
	CategoryReminder = "reminder"
)

const (
	// GapThreshold is the minimum uncovered interval between two activities
	// that gets surfaced as "Doing Nothing" time.
	GapThreshold = time.Minute

	// CoverageTolerance absorbs clock rounding when checking whether another
	// activity's extent already spans a candidate gap.
	CoverageTolerance = 10 * time.Second
)

const (
	// SettingsDebounceDelay restarts on every settings change.
	SettingsDebounceDelay = time.Second

	// SettingsDebounceMaxWait forces a flush even while changes keep
	// streaming in, so a steady stream cannot starve the flush.
	SettingsDebounceMaxWait = 5 * time.Second

	// SyncMaxAttempts bounds retries of a single queued remote task before
	// it is dropped.
	SyncMaxAttempts = 3
)

const DefaultTheme = "dark"
