// Package provision sequences an AD DS deployment: preflight, feature and
// module installation, path preparation, credential acquisition, and the
// external provisioning call. Steps run strictly in order; the first failure
// aborts the rest and is re-raised with operation context and
// troubleshooting hints. No rollback is attempted — every platform call in
// the sequence is safe to re-run.
package provision

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/forestctl/forestctl/internal/feature"
	"github.com/forestctl/forestctl/internal/logging"
	"github.com/forestctl/forestctl/internal/messages"
	"github.com/forestctl/forestctl/internal/pathutil"
	"github.com/forestctl/forestctl/internal/pkgmgr"
	"github.com/forestctl/forestctl/internal/platform"
	"github.com/forestctl/forestctl/internal/preflight"
	"github.com/forestctl/forestctl/internal/secret"
)

// ErrProvisioningFailed tags failures of the external AD DS call itself.
var ErrProvisioningFailed = errors.New("external provisioning failed")

var (
	mkdirAllFunc = os.MkdirAll
	nowFunc      = time.Now
)

// Orchestrator wires the provisioning sequence over injected capabilities.
type Orchestrator struct {
	System      platform.System
	Features    platform.FeatureManager
	Packages    platform.PackageManager
	Provisioner platform.Provisioner
	Prompter    secret.Prompter
	Log         *logging.Logger

	// Repository and Modules override the pkgmgr defaults when set.
	Repository   string
	Modules      []string
	MinFreeBytes uint64
}

// CreateForest runs the full sequence and ends with an AD DS forest
// deployment call for req.DomainName.
func (o *Orchestrator) CreateForest(ctx context.Context, req Request) (*Outcome, error) {
	return o.run(ctx, messages.OpCreateForest, &req, func(password string) error {
		return o.Provisioner.InstallForest(ctx, platform.ForestSpec{
			DomainName:       req.DomainName,
			NetBIOSName:      req.NetBIOSName,
			DomainMode:       string(req.DomainMode),
			ForestMode:       string(req.ForestMode),
			DatabasePath:     req.DatabasePath,
			LogPath:          req.LogPath,
			SysvolPath:       req.SysvolPath,
			InstallDNS:       req.InstallDNS,
			Force:            req.Force,
			SafeModePassword: password,
		})
	})
}

// PromoteController runs the full sequence and ends with a domain controller
// promotion call into the existing domain req.DomainName.
func (o *Orchestrator) PromoteController(ctx context.Context, req Request) (*Outcome, error) {
	return o.run(ctx, messages.OpPromoteDC, &req, func(password string) error {
		return o.Provisioner.PromoteController(ctx, platform.ControllerSpec{
			DomainName:       req.DomainName,
			DatabasePath:     req.DatabasePath,
			LogPath:          req.LogPath,
			SysvolPath:       req.SysvolPath,
			InstallDNS:       req.InstallDNS,
			Force:            req.Force,
			SafeModePassword: password,
		})
	})
}

type step struct {
	name string
	fn   func() error
}

func (o *Orchestrator) run(ctx context.Context, operation string, req *Request, provisionCall func(password string) error) (*Outcome, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, o.wrap(operation, req.DomainName, messages.StepPreflight, err)
	}

	o.Log.Infof(messages.OrchestratorStartFmt, operation, req.DomainName)

	var password string
	steps := []step{
		{messages.StepPreflight, func() error {
			checker := &preflight.Checker{System: o.System, Features: o.Features, Log: o.Log}
			_, _, err := checker.Run(ctx, preflight.Params{
				Features:     []string{feature.DefaultFeature},
				Paths:        parentDirs(req.DatabasePath, req.LogPath, req.SysvolPath),
				MinFreeBytes: o.MinFreeBytes,
			})
			return err
		}},
		{messages.StepFeatureInstall, func() error {
			installer := &feature.Installer{Features: o.Features, Log: o.Log}
			return installer.EnsureInstalled(ctx, feature.DefaultFeature)
		}},
		{messages.StepPackageInstall, func() error {
			installer := &pkgmgr.Installer{Packages: o.Packages, Log: o.Log, Repository: o.Repository}
			modules := o.Modules
			if len(modules) == 0 {
				modules = pkgmgr.DefaultModules
			}
			return installer.EnsureModules(ctx, modules)
		}},
		{messages.StepPathPrep, func() error {
			return o.preparePaths(req.DatabasePath, req.LogPath, req.SysvolPath)
		}},
		{messages.StepSecretAcquire, func() error {
			var err error
			password, err = secret.Acquire(o.Log, o.Prompter, req.SafeModePassword)
			return err
		}},
		{messages.StepProvision, func() error {
			if err := provisionCall(password); err != nil {
				return fmt.Errorf("%w: "+messages.ProvisionCallFailedFmt, ErrProvisioningFailed, err)
			}
			return nil
		}},
	}

	for _, s := range steps {
		o.Log.Debugf(messages.OrchestratorStepFmt, s.name)
		if err := s.fn(); err != nil {
			return nil, o.wrap(operation, req.DomainName, s.name, err)
		}
	}

	o.Log.Successf(messages.OrchestratorDoneFmt, operation, req.DomainName)
	return newOutcome(req, nowFunc()), nil
}

// wrap logs the failing step and re-raises the error enriched with the
// operation, the domain, and troubleshooting hints. The inner error kind
// stays visible to errors.Is through the chain.
func (o *Orchestrator) wrap(operation, domainName, stepName string, err error) error {
	o.Log.Errorf(messages.OrchestratorStepFailedFmt, operation, domainName, stepName, err)
	return fmt.Errorf(messages.OrchestratorWrapFmt, operation, domainName, stepName, err)
}

// preparePaths creates each provisioning directory, then batch-verifies all
// of them so a partially prepared set reports every missing directory at
// once.
func (o *Orchestrator) preparePaths(paths ...string) error {
	for _, p := range paths {
		if err := mkdirAllFunc(p, 0o755); err != nil {
			wrapped := fmt.Errorf(messages.PathPrepareFailedFmt, p, err)
			o.Log.Errorf("%v", wrapped)
			return wrapped
		}
		o.Log.Debugf(messages.PathPreparedFmt, p)
	}
	return pathutil.CheckAll(o.Log, paths)
}

// parentDirs returns the deduplicated parent directories of the provisioning
// paths. The targets themselves are created later, in the path preparation
// step; preflight checks that the locations they will live in exist and have
// space.
func parentDirs(paths ...string) []string {
	seen := make(map[string]struct{}, len(paths))
	var parents []string
	for _, p := range paths {
		parent := filepath.Dir(p)
		if _, ok := seen[parent]; ok {
			continue
		}
		seen[parent] = struct{}{}
		parents = append(parents, parent)
	}
	return parents
}
