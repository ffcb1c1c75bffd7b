package messages

// System messages for platform adapters, configuration, and logging.
const (
	ConfigMissingFileFmt  = "read config %s: %w"
	ConfigInvalidTOMLFmt  = "parse config %s: %w"
	ConfigExpandPathFmt   = "expand path %q: %w"
	ConfigNegativeFreeFmt = "min_free_gb must not be negative (got %d)"

	LogOpenFileFmt = "open log file %s: %w"

	PlatformUnsupportedFmt    = "%s is only supported on Windows Server (running on %s)"
	PlatformCommandFailedFmt  = "%s: %w (output: %s)"
	PlatformDecodeOutputFmt   = "decode %s output: %w"
	PlatformElevationQueryFmt = "query process token elevation: %w"
	PlatformProductTypeFmt    = "read product type from the registry: %w"
	PlatformFreeSpaceFmt      = "query free space for %s: %w"
)
