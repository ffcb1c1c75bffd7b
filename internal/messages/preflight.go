package messages

// Preflight check names, result lines, and remediation text.
const (
	PreflightCheckNamePlatform  = "Platform"
	PreflightCheckNamePrivilege = "Privileges"
	PreflightCheckNameFeature   = "Features"
	PreflightCheckNamePath      = "Paths"
	PreflightCheckNameDiskSpace = "Disk space"

	PreflightHeaderFmt = "Running preflight checks on %s\n"

	PreflightStatusOKLabel   = "[OK]  "
	PreflightStatusWarnLabel = "[WARN]"
	PreflightStatusFailLabel = "[FAIL]"
	PreflightResultLineFmt   = "%s %s: %s\n"
	PreflightRecommendFmt    = "      -> %s\n"

	PreflightPlatformOK            = "server-class operating system detected"
	PreflightPlatformNotServerFmt  = "this operating system is not a server edition (product type %q)"
	PreflightPlatformNotServerHint = "AD DS domain controllers require Windows Server; run forestctl on a Windows Server machine"
	PreflightPlatformQueryFmt      = "could not determine the operating system edition: %v"

	PreflightPrivilegeOK   = "process is running elevated"
	PreflightPrivilegeFail = "process is not running with administrative privileges"
	PreflightPrivilegeHint = "start an elevated shell (Run as administrator) and re-run forestctl"

	PreflightFeatureDiscoveredFmt    = "feature %s is installed"
	PreflightFeatureNotInstalledFmt  = "feature %s is available but not installed; it will be installed during provisioning"
	PreflightFeatureUndiscoveredFmt  = "feature %s is not known to this system"
	PreflightFeatureUndiscoveredHint = "verify the feature name and that the server edition supports the AD DS role"
	PreflightFeatureQueryFmt         = "feature query for %s failed: %v"

	PreflightPathOKFmt      = "path %s exists"
	PreflightPathMissingFmt = "path %s does not exist"
	PreflightPathHint       = "create the directory or point forestctl at an existing location"

	PreflightDiskOKFmt       = "volume of %s has %s free (minimum %s)"
	PreflightDiskLowFmt      = "volume of %s has only %s free (minimum %s)"
	PreflightDiskHint        = "free up disk space or choose paths on a volume with more capacity"
	PreflightDiskQueryFmt    = "free-space query for %s failed: %v"
	PreflightSummaryFmt      = "Preflight: %d checks, %d passed, %d failed (%.0f%% passed)"
	PreflightFailedKindFmt   = "preflight %s check failed: %s"
	PreflightPassed          = "All preflight checks passed"
	PreflightFailedErrorLine = "preflight checks failed; resolve the findings above and re-run"
)
