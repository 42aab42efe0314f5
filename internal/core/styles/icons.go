package styles

// Status glyphs for task lists.
var (
	IconOpen       = "○"
	IconInProgress = "◐"
	IconToReview   = "◑"
	IconClosed     = "✓"
	IconUnknown    = "?"
)

// Check result glyphs for doctor and import output.
var (
	IconPass = "✔"
	IconWarn = "●"
	IconFail = "✘"
	IconSkip = "⚠"
)
