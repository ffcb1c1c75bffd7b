//go:build !windows

package platform

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/forestctl/forestctl/internal/messages"
)

// ErrUnsupported reports a platform call on a non-Windows host.
var ErrUnsupported = errors.New("unsupported platform")

func unsupported(operation string) error {
	return fmt.Errorf("%w: "+messages.PlatformUnsupportedFmt, ErrUnsupported, operation, runtime.GOOS)
}

type unsupportedFeatureManager struct{}

func (unsupportedFeatureManager) Query(context.Context, string) (FeatureState, error) {
	return FeatureState{}, unsupported("feature query")
}

func (unsupportedFeatureManager) Install(context.Context, string) (FeatureInstallResult, error) {
	return FeatureInstallResult{}, unsupported("feature installation")
}

type unsupportedPackageManager struct{}

func (unsupportedPackageManager) Repositories(context.Context) ([]Repository, error) {
	return nil, unsupported("repository query")
}

func (unsupportedPackageManager) SetRepositoryTrusted(context.Context, string) error {
	return unsupported("repository trust")
}

func (unsupportedPackageManager) IsModuleInstalled(context.Context, string) (bool, error) {
	return false, unsupported("module query")
}

func (unsupportedPackageManager) InstallModule(context.Context, string, string) error {
	return unsupported("module installation")
}

type unsupportedProvisioner struct{}

func (unsupportedProvisioner) InstallForest(context.Context, ForestSpec) error {
	return unsupported("forest installation")
}

func (unsupportedProvisioner) PromoteController(context.Context, ControllerSpec) error {
	return unsupported("domain controller promotion")
}

type unsupportedSystem struct{}

// ProductType reports the current OS as non-server so the preflight platform
// check fails first with a clear message instead of a later platform call
// erroring out mid-sequence.
func (unsupportedSystem) ProductType() (string, bool, error) {
	return runtime.GOOS, false, nil
}

func (unsupportedSystem) IsElevated() (bool, error) {
	return false, unsupported("elevation query")
}

func (unsupportedSystem) FreeBytes(string) (uint64, error) {
	return 0, unsupported("free-space query")
}

// New returns stub implementations that fail every capability.
func New() Set {
	return Set{
		Features:    unsupportedFeatureManager{},
		Packages:    unsupportedPackageManager{},
		Provisioner: unsupportedProvisioner{},
		System:      unsupportedSystem{},
	}
}
