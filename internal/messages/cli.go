package messages

// CLI messages for user-facing commands and prompts.
const (
	// RootUse is the CLI command name.
	RootUse = "forestctl"
	// RootShort is the short description for the root command.
	RootShort = "Active Directory forest provisioning CLI"
	RootLong  = "forestctl orchestrates creation of Active Directory forests and promotion of\ndomain controllers on Windows Server. All mutating operations are preceded by\na preflight gate and a confirmation prompt."

	RootFlagVerbose = "Enable debug output"
	RootFlagLogFile = "Append all log lines to this file"
	RootFlagConfig  = "Path to a forestctl.toml config file"

	// VersionCommitFmt formats the commit hash for version display.
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"
	VersionTemplate  = "{{.Version}}\n"

	// ForestUse is the forest command group name.
	ForestUse   = "forest"
	ForestShort = "Manage Active Directory forests"

	ForestCreateUse   = "create"
	ForestCreateShort = "Create a new Active Directory forest on this server"

	// DCUse is the domain-controller command group name.
	DCUse   = "dc"
	DCShort = "Manage domain controllers"

	DCPromoteUse   = "promote"
	DCPromoteShort = "Promote this server to a domain controller in an existing domain"

	PreflightUse   = "preflight"
	PreflightShort = "Run environment checks without changing anything"

	FlagDomain           = "Fully qualified domain name (e.g. contoso.com)"
	FlagNetBIOS          = "NetBIOS name (defaults to the first DNS label, uppercased)"
	FlagDomainMode       = "Domain functional level (Win2016, Win2019, Win2022, Win2025)"
	FlagForestMode       = "Forest functional level (Win2016, Win2019, Win2022, Win2025)"
	FlagDatabasePath     = "Directory for the AD DS database"
	FlagLogPath          = "Directory for the AD DS logs"
	FlagSysvolPath       = "Directory for SYSVOL"
	FlagInstallDNS       = "Install the DNS Server role alongside AD DS"
	FlagSafeModePassword = "Directory Services Restore Mode password (prompted when omitted)"
	FlagYes              = "Skip the confirmation prompt"
	FlagForce            = "Skip the confirmation prompt and pass force through to platform calls"
	FlagDryRun           = "Show what would run without changing anything"
	FlagPassThru         = "Print an operation summary on success"

	ConfirmCreateForestFmt = "Create a new Active Directory forest for %s on this server?"
	ConfirmPromoteDCFmt    = "Promote this server to a domain controller for %s?"
	ConfirmDeclined        = "aborted: confirmation declined"
	ConfirmRequiresTermFmt = "confirmation for %s requires an interactive terminal; re-run with --yes to proceed without prompting"

	DryRunNoticeFmt = "Dry run: no changes made. The %s operation for %s would run preflight checks, install required features and modules, prepare directories, and invoke AD DS provisioning.\n"

	// PromptYesDefaultFmt formats yes/no prompts with yes as default.
	PromptYesDefaultFmt = "%s [Y/n]: "
	// PromptNoDefaultFmt formats yes/no prompts with no as default.
	PromptNoDefaultFmt = "%s [y/N]: "
	PromptInvalidInput = "Please answer 'y' or 'n'."

	OutcomeHeader        = "Operation summary:"
	OutcomeDomainFmt     = "  Domain:        %s"
	OutcomeNetBIOSFmt    = "  NetBIOS:       %s"
	OutcomeDomainModeFmt = "  Domain mode:   %s"
	OutcomeForestModeFmt = "  Forest mode:   %s"
	OutcomePathsFmt      = "  Paths:         database=%s log=%s sysvol=%s"
	OutcomeDNSFmt        = "  Install DNS:   %t"
	OutcomeStatusFmt     = "  Status:        %s"
	OutcomeCompletedFmt  = "  Completed at:  %s"

	OperationFailedFmt = "%s failed for %s: %v"
)
