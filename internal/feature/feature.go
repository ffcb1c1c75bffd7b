// Package feature ensures a Windows role/feature is installed, with a
// check → install → verify sequence that is safe to re-run.
package feature

import (
	"context"
	"errors"
	"fmt"

	"github.com/forestctl/forestctl/internal/logging"
	"github.com/forestctl/forestctl/internal/messages"
	"github.com/forestctl/forestctl/internal/platform"
)

// DefaultFeature is the AD DS role installed for every provisioning run.
const DefaultFeature = "AD-Domain-Services"

// Error kinds raised by the installer. Both are terminal; nothing retries.
var (
	ErrNotFound           = errors.New("feature not found")
	ErrVerificationFailed = errors.New("feature verification failed")
)

// Installer installs a feature through the injected manager.
type Installer struct {
	Features platform.FeatureManager
	Log      *logging.Logger
}

// EnsureInstalled checks the feature's state and installs it when needed.
// Already installed: no-op. Unknown to the system: ErrNotFound, no install
// attempted. Otherwise install, then re-query; a feature still reporting
// not-installed raises ErrVerificationFailed. A pending reboot is a warning,
// not a failure.
func (i *Installer) EnsureInstalled(ctx context.Context, name string) error {
	state, err := i.Features.Query(ctx, name)
	if err != nil {
		wrapped := fmt.Errorf(messages.FeatureQueryFailedFmt, name, err)
		i.Log.Errorf("%v", wrapped)
		return wrapped
	}
	if !state.Found {
		wrapped := fmt.Errorf("%w: "+messages.FeatureNotFoundFmt, ErrNotFound, name)
		i.Log.Errorf("%v", wrapped)
		return wrapped
	}
	if state.Installed {
		i.Log.Infof(messages.FeatureAlreadyInstalledFmt, name)
		return nil
	}

	i.Log.Infof(messages.FeatureInstallingFmt, name)
	result, err := i.Features.Install(ctx, name)
	if err != nil {
		wrapped := fmt.Errorf(messages.FeatureInstallFailedFmt, name, err)
		i.Log.Errorf("%v", wrapped)
		return wrapped
	}
	if result.RebootRequired {
		i.Log.Warnf(messages.FeatureRebootPendingFmt, name)
	}

	verified, err := i.Features.Query(ctx, name)
	if err != nil {
		wrapped := fmt.Errorf(messages.FeatureQueryFailedFmt, name, err)
		i.Log.Errorf("%v", wrapped)
		return wrapped
	}
	if !verified.Installed {
		wrapped := fmt.Errorf("%w: "+messages.FeatureVerificationFailedFmt, ErrVerificationFailed, name)
		i.Log.Errorf("%v", wrapped)
		return wrapped
	}

	i.Log.Successf(messages.FeatureInstalledFmt, name)
	return nil
}
