// Package pkgmgr ensures the PowerShell modules required by provisioning are
// present, installing them from a registered repository when they are not.
package pkgmgr

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/forestctl/forestctl/internal/logging"
	"github.com/forestctl/forestctl/internal/messages"
	"github.com/forestctl/forestctl/internal/platform"
)

// DefaultRepository is the implicit module source.
const DefaultRepository = "PSGallery"

// DefaultModules are the secret-management modules every provisioning run
// needs for credential handling.
var DefaultModules = []string{
	"Microsoft.PowerShell.SecretManagement",
	"Az.KeyVault",
}

// Error kinds raised by the installer. Both are terminal.
var (
	ErrRepositoryNotFound = errors.New("package repository not registered")
	ErrVerificationFailed = errors.New("module verification failed")
)

// Installer installs modules through the injected manager.
type Installer struct {
	Packages   platform.PackageManager
	Log        *logging.Logger
	Repository string
}

// EnsureModules verifies the source repository is registered, then ensures
// each named module is present: already-present modules are skipped, others
// are installed (after marking the repository trusted) and re-queried. The
// first failure aborts the remaining list; a half-installed module set would
// leave provisioning running against an environment the preflight never saw.
// Aggregate metrics are logged before returning, success or not.
func (i *Installer) EnsureModules(ctx context.Context, names []string) (err error) {
	repository := i.Repository
	if repository == "" {
		repository = DefaultRepository
	}

	var checked, installed, skipped, failed int
	defer func() {
		i.Log.Infof(messages.PkgSummaryFmt, checked, installed, skipped, failed)
	}()

	if err := i.checkRepository(ctx, repository); err != nil {
		return err
	}

	trusted := false
	for _, name := range names {
		checked++
		present, err := i.Packages.IsModuleInstalled(ctx, name)
		if err != nil {
			failed++
			wrapped := fmt.Errorf(messages.PkgModuleQueryFailedFmt, name, err)
			i.Log.Errorf("%v", wrapped)
			return wrapped
		}
		if present {
			skipped++
			i.Log.Infof(messages.PkgModulePresentFmt, name)
			continue
		}

		if !trusted {
			if err := i.Packages.SetRepositoryTrusted(ctx, repository); err != nil {
				failed++
				wrapped := fmt.Errorf(messages.PkgTrustFailedFmt, repository, err)
				i.Log.Errorf("%v", wrapped)
				return wrapped
			}
			trusted = true
		}

		i.Log.Infof(messages.PkgInstallingFmt, name, repository)
		if err := i.Packages.InstallModule(ctx, name, repository); err != nil {
			failed++
			wrapped := fmt.Errorf(messages.PkgInstallFailedFmt, name, err)
			i.Log.Errorf("%v", wrapped)
			return wrapped
		}

		present, err = i.Packages.IsModuleInstalled(ctx, name)
		if err != nil {
			failed++
			wrapped := fmt.Errorf(messages.PkgModuleQueryFailedFmt, name, err)
			i.Log.Errorf("%v", wrapped)
			return wrapped
		}
		if !present {
			failed++
			wrapped := fmt.Errorf("%w: "+messages.PkgVerificationFailedFmt, ErrVerificationFailed, name, repository)
			i.Log.Errorf("%v", wrapped)
			return wrapped
		}
		installed++
	}
	return nil
}

// checkRepository fails with the registered repository names as a hint when
// the requested source is missing.
func (i *Installer) checkRepository(ctx context.Context, repository string) error {
	repos, err := i.Packages.Repositories(ctx)
	if err != nil {
		wrapped := fmt.Errorf(messages.PkgRepositoryCheckFailedFmt, err)
		i.Log.Errorf("%v", wrapped)
		return wrapped
	}
	registered := make([]string, 0, len(repos))
	for _, r := range repos {
		if strings.EqualFold(r.Name, repository) {
			return nil
		}
		registered = append(registered, r.Name)
	}
	hint := messages.PkgRepositoryNoneRegistered
	if len(registered) > 0 {
		hint = strings.Join(registered, ", ")
	}
	wrapped := fmt.Errorf("%w: "+messages.PkgRepositoryMissingFmt, ErrRepositoryNotFound, repository, hint)
	i.Log.Errorf("%v", wrapped)
	return wrapped
}
