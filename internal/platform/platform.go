// Package platform defines the narrow interfaces forestctl uses to reach the
// operating system: Windows feature management, the PowerShell module
// repository, AD DS deployment, and host facts (edition, elevation, disk
// space). Each capability is a separate interface so tests can substitute
// doubles per concern. The Windows implementations live behind build tags;
// other platforms get a stub that reports a non-server edition.
package platform

import "context"

// FeatureState describes one Windows role/feature as reported by the host.
type FeatureState struct {
	Name string
	// Found is false when the feature name is unknown to this system.
	Found        bool
	Installed    bool
	InstallState string
}

// FeatureInstallResult is the outcome of a feature install call.
type FeatureInstallResult struct {
	Success        bool
	RebootRequired bool
}

// Repository is a registered package source.
type Repository struct {
	Name    string
	Trusted bool
}

// ForestSpec carries everything the AD DS forest deployment call needs.
type ForestSpec struct {
	DomainName       string
	NetBIOSName      string
	DomainMode       string
	ForestMode       string
	DatabasePath     string
	LogPath          string
	SysvolPath       string
	InstallDNS       bool
	Force            bool
	SafeModePassword string
}

// ControllerSpec carries everything the domain controller promotion call needs.
type ControllerSpec struct {
	DomainName       string
	DatabasePath     string
	LogPath          string
	SysvolPath       string
	InstallDNS       bool
	Force            bool
	SafeModePassword string
}

// FeatureManager queries and installs Windows roles and features.
type FeatureManager interface {
	Query(ctx context.Context, name string) (FeatureState, error)
	Install(ctx context.Context, name string) (FeatureInstallResult, error)
}

// PackageManager queries repositories and installs PowerShell modules.
type PackageManager interface {
	Repositories(ctx context.Context) ([]Repository, error)
	SetRepositoryTrusted(ctx context.Context, name string) error
	IsModuleInstalled(ctx context.Context, name string) (bool, error)
	InstallModule(ctx context.Context, name, repository string) error
}

// Provisioner performs the AD DS deployment calls.
type Provisioner interface {
	InstallForest(ctx context.Context, spec ForestSpec) error
	PromoteController(ctx context.Context, spec ControllerSpec) error
}

// System reports host facts consumed by the preflight checker.
type System interface {
	// ProductType returns the OS product type and whether it is a
	// server-class edition.
	ProductType() (name string, server bool, err error)
	// IsElevated reports whether the process holds administrative privileges.
	IsElevated() (bool, error)
	// FreeBytes returns the free space on the volume containing path.
	FreeBytes(path string) (uint64, error)
}

// Set bundles one implementation of every capability.
type Set struct {
	Features    FeatureManager
	Packages    PackageManager
	Provisioner Provisioner
	System      System
}
