package log

// Version information for the log module.
//
// 1.1.0 added Options with level and console selection, and the Uint64,
// Duration and Time field helpers used by the fingerprint report.
const (
	// Version is the current version of the log module.
	Version = "1.1.0"

	// MinCompatibleVersion is the minimum version that is compatible with this version.
	MinCompatibleVersion = "1.0.0"
)
