package model

// Options holds the user-configurable runtime options after flags, env and
// the config file have been merged.
type Options struct {
	Vault string // vault root directory

	// Jobs caps the number of references processed at once. 0 = no cap.
	Jobs int

	ConfirmOverwrite bool // ask before replacing an existing PNG copy
	AssumeYes        bool // answer every confirmation with yes
	Silent           bool // automatic run: say nothing when no embeds match
	Verbose          bool

	NoUI bool // Disable TUI when true
}
