package messages

// Orchestrator, installer, and credential messages.
const (
	// Feature installer.
	FeatureAlreadyInstalledFmt   = "feature %s is already installed; nothing to do"
	FeatureInstallingFmt         = "installing feature %s"
	FeatureInstalledFmt          = "feature %s installed"
	FeatureRebootPendingFmt      = "feature %s installed but a reboot is pending; complete provisioning and reboot when convenient"
	FeatureNotFoundFmt           = "feature %s was not found on this system\n\nRemediation:\n  - Verify the feature name with Get-WindowsFeature\n  - Confirm this Windows Server edition ships the AD DS role"
	FeatureQueryFailedFmt        = "query feature %s: %w"
	FeatureInstallFailedFmt      = "install feature %s: %w"
	FeatureVerificationFailedFmt = "feature %s still reports as not installed after installation\n\nRemediation:\n  - Inspect the servicing logs (CBS.log)\n  - Re-run the operation; feature installation is safe to repeat"

	// Package installer.
	PkgRepositoryCheckFailedFmt = "query package repositories: %w"
	PkgRepositoryMissingFmt     = "package repository %s is not registered (registered: %s)\n\nRemediation:\n  - Register the repository with Register-PSRepository\n  - Or set a registered repository in forestctl.toml"
	PkgRepositoryNoneRegistered = "none"
	PkgModulePresentFmt         = "module %s is already present; skipping"
	PkgModuleQueryFailedFmt     = "query module %s: %w"
	PkgTrustFailedFmt           = "mark repository %s trusted: %w"
	PkgInstallingFmt            = "installing module %s from %s"
	PkgInstallFailedFmt         = "install module %s: %w"
	PkgVerificationFailedFmt    = "module %s is not present after installation from %s\n\nRemediation:\n  - Check connectivity to the repository\n  - Install the module manually with Install-Module and re-run"
	PkgSummaryFmt               = "Modules: %d checked, %d installed, %d skipped, %d failed"

	// Path helper.
	PathsAllPresentFmt   = "all %d required paths are present"
	PathsMissingFmt      = "missing paths: %s (present: %s)"
	PathsNonePresent     = "none"
	PathInvalidEmptyFmt  = "%s path must not be empty"
	PathNotAbsoluteFmt   = "%s path %q must be an absolute Windows path (e.g. C:\\Windows\\NTDS)"
	PathPreparedFmt      = "prepared directory %s"
	PathPrepareFailedFmt = "prepare directory %s: %w"

	// Secret prompt.
	SecretSupplied         = "using the credential supplied by the caller"
	SecretPromptTitle      = "Directory Services Restore Mode password"
	SecretPromptFailedFmt  = "no credential captured: you may have cancelled the prompt or entered invalid input: %w"
	SecretPromptEmpty      = "no credential captured: the prompt returned an empty value; you may have cancelled it"
	SecretRequiresTerminal = "the credential prompt requires an interactive terminal; pass the credential explicitly"

	// Orchestrator.
	OpCreateForest = "forest creation"
	OpPromoteDC    = "domain controller promotion"

	StepPreflight      = "preflight"
	StepFeatureInstall = "feature installation"
	StepPackageInstall = "module installation"
	StepPathPrep       = "path preparation"
	StepSecretAcquire  = "credential acquisition"
	StepProvision      = "AD DS provisioning"

	OrchestratorStartFmt      = "starting %s for %s"
	OrchestratorStepFmt       = "step: %s"
	OrchestratorStepFailedFmt = "%s for %s failed during %s: %v"
	OrchestratorDoneFmt       = "%s for %s completed"
	OrchestratorWrapFmt       = "%s for %s failed during %s: %w\n\nTroubleshooting:\n  - Re-run 'forestctl preflight' to inspect the environment\n  - Provisioning steps are safe to re-run; no rollback is attempted\n  - Review the log file for the full step-by-step record"

	ProvisionCallFailedFmt = "AD DS provisioning call failed: %w"

	// Request validation.
	RequestDomainRequired   = "domain name is required"
	RequestDomainInvalidFmt = "domain name %q is not a valid DNS name"
	RequestModeInvalidFmt   = "functional level %q is not supported (supported: %s)"
)
