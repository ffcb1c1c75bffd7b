package provision

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forestctl/forestctl/internal/feature"
	"github.com/forestctl/forestctl/internal/logging"
	"github.com/forestctl/forestctl/internal/platform"
	"github.com/forestctl/forestctl/internal/preflight"
)

// recorder is a healthy fake for every platform capability. It appends a
// high-level event per mutating call so tests can assert ordering.
type recorder struct {
	events []string

	elevated        bool
	featureMissing  bool
	provisionErr    error
	forestSpecs     []platform.ForestSpec
	controllerSpecs []platform.ControllerSpec
}

func (r *recorder) ProductType() (string, bool, error) {
	r.events = append(r.events, "Preflight")
	return "ServerNT", true, nil
}

func (r *recorder) IsElevated() (bool, error) { return r.elevated, nil }

func (r *recorder) FreeBytes(string) (uint64, error) { return 500 << 30, nil }

func (r *recorder) Query(_ context.Context, name string) (platform.FeatureState, error) {
	installed := !r.featureMissing
	return platform.FeatureState{Name: name, Found: true, Installed: installed}, nil
}

func (r *recorder) Install(_ context.Context, name string) (platform.FeatureInstallResult, error) {
	r.events = append(r.events, "FeatureInstall")
	r.featureMissing = false
	return platform.FeatureInstallResult{Success: true}, nil
}

func (r *recorder) Repositories(context.Context) ([]platform.Repository, error) {
	return []platform.Repository{{Name: "PSGallery"}}, nil
}

func (r *recorder) SetRepositoryTrusted(context.Context, string) error { return nil }

func (r *recorder) IsModuleInstalled(context.Context, string) (bool, error) { return true, nil }

func (r *recorder) InstallModule(context.Context, string, string) error {
	r.events = append(r.events, "PackageInstall")
	return nil
}

func (r *recorder) SecretInput(string) (string, error) {
	r.events = append(r.events, "SecretAcquire")
	return "dsrm-password", nil
}

func (r *recorder) InstallForest(_ context.Context, spec platform.ForestSpec) error {
	r.events = append(r.events, "ExternalProvision")
	r.forestSpecs = append(r.forestSpecs, spec)
	return r.provisionErr
}

func (r *recorder) PromoteController(_ context.Context, spec platform.ControllerSpec) error {
	r.events = append(r.events, "ExternalProvision")
	r.controllerSpecs = append(r.controllerSpecs, spec)
	return r.provisionErr
}

func newOrchestrator(t *testing.T, rec *recorder) *Orchestrator {
	t.Helper()
	var stdout, stderr bytes.Buffer
	log, err := logging.New(&stdout, &stderr, logging.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = log.Close() })
	return &Orchestrator{
		System:      rec,
		Features:    rec,
		Packages:    rec,
		Provisioner: rec,
		Prompter:    rec,
		Log:         log,
	}
}

// requestUnder returns a valid request whose provisioning paths live under
// base, so preflight sees an existing parent directory.
func requestUnder(base string) Request {
	return Request{
		DomainName:   "contoso.com",
		DatabasePath: filepath.Join(base, "ntds"),
		LogPath:      filepath.Join(base, "ntds-log"),
		SysvolPath:   filepath.Join(base, "sysvol"),
		InstallDNS:   true,
	}
}

func trackMkdir(t *testing.T, rec *recorder) {
	t.Helper()
	orig := mkdirAllFunc
	mkdirAllFunc = func(path string, perm os.FileMode) error {
		rec.events = append(rec.events, "PathPrep")
		return os.MkdirAll(path, perm)
	}
	t.Cleanup(func() { mkdirAllFunc = orig })
}

func TestCreateForestRunsStepsInOrder(t *testing.T) {
	rec := &recorder{elevated: true, featureMissing: true}
	trackMkdir(t, rec)
	o := newOrchestrator(t, rec)

	outcome, err := o.CreateForest(context.Background(), requestUnder(t.TempDir()))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Preflight",
		"FeatureInstall",
		"PathPrep", "PathPrep", "PathPrep",
		"SecretAcquire",
		"ExternalProvision",
	}, rec.events)
	require.NotNil(t, outcome)
	assert.Equal(t, "contoso.com", outcome.DomainName)
	assert.Equal(t, "CONTOSO", outcome.NetBIOSName)
	assert.Equal(t, StatusCompleted, outcome.Status)
}

func TestCreateForestInstallsMissingModules(t *testing.T) {
	rec := &recorder{elevated: true}
	trackMkdir(t, rec)
	o := newOrchestrator(t, rec)
	o.Modules = []string{"Az.KeyVault"}

	// Force the module to be absent so the install path runs.
	o.Packages = &absentModules{recorder: rec}

	_, err := o.CreateForest(context.Background(), requestUnder(t.TempDir()))
	require.NoError(t, err)
	assert.Contains(t, rec.events, "PackageInstall")
}

// absentModules reports every module missing until installed.
type absentModules struct {
	*recorder
	installed map[string]bool
}

func (a *absentModules) IsModuleInstalled(_ context.Context, name string) (bool, error) {
	return a.installed[name], nil
}

func (a *absentModules) InstallModule(ctx context.Context, name, repo string) error {
	if a.installed == nil {
		a.installed = map[string]bool{}
	}
	a.installed[name] = true
	return a.recorder.InstallModule(ctx, name, repo)
}

func TestPreflightFailureAbortsEverything(t *testing.T) {
	rec := &recorder{elevated: false, featureMissing: true}
	trackMkdir(t, rec)
	o := newOrchestrator(t, rec)

	_, err := o.CreateForest(context.Background(), requestUnder(t.TempDir()))
	require.Error(t, err)
	assert.True(t, errors.Is(err, preflight.ErrInsufficientPrivilege))
	assert.Contains(t, err.Error(), "contoso.com")
	assert.NotContains(t, rec.events, "FeatureInstall")
	assert.NotContains(t, rec.events, "PathPrep")
	assert.NotContains(t, rec.events, "SecretAcquire")
	assert.NotContains(t, rec.events, "ExternalProvision")
}

func TestProvisionFailureIsWrappedWithContext(t *testing.T) {
	rec := &recorder{elevated: true, provisionErr: errors.New("DCPROMO error 0x54b")}
	trackMkdir(t, rec)
	o := newOrchestrator(t, rec)

	_, err := o.CreateForest(context.Background(), requestUnder(t.TempDir()))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProvisioningFailed))
	assert.Contains(t, err.Error(), "contoso.com")
	assert.Contains(t, err.Error(), "DCPROMO error 0x54b")
	assert.Contains(t, err.Error(), "Troubleshooting:")
}

func TestSuppliedCredentialSkipsPrompt(t *testing.T) {
	rec := &recorder{elevated: true}
	trackMkdir(t, rec)
	o := newOrchestrator(t, rec)

	req := requestUnder(t.TempDir())
	req.SafeModePassword = "supplied-password"
	_, err := o.CreateForest(context.Background(), req)
	require.NoError(t, err)
	assert.NotContains(t, rec.events, "SecretAcquire")
	require.Len(t, rec.forestSpecs, 1)
	assert.Equal(t, "supplied-password", rec.forestSpecs[0].SafeModePassword)
}

func TestForestSpecCarriesRequest(t *testing.T) {
	rec := &recorder{elevated: true}
	trackMkdir(t, rec)
	o := newOrchestrator(t, rec)

	req := requestUnder(t.TempDir())
	req.NetBIOSName = "CONTOSOAD"
	req.DomainMode = LevelWin2019
	req.Force = true
	_, err := o.CreateForest(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, rec.forestSpecs, 1)
	spec := rec.forestSpecs[0]
	assert.Equal(t, "CONTOSOAD", spec.NetBIOSName)
	assert.Equal(t, "Win2019", spec.DomainMode)
	assert.True(t, spec.Force)
	assert.True(t, spec.InstallDNS)
}

func TestPromoteControllerUsesControllerCall(t *testing.T) {
	rec := &recorder{elevated: true}
	trackMkdir(t, rec)
	o := newOrchestrator(t, rec)

	outcome, err := o.PromoteController(context.Background(), requestUnder(t.TempDir()))
	require.NoError(t, err)
	require.Len(t, rec.controllerSpecs, 1)
	assert.Empty(t, rec.forestSpecs)
	assert.Equal(t, "contoso.com", rec.controllerSpecs[0].DomainName)
	assert.Equal(t, StatusCompleted, outcome.Status)
}

func TestInvalidRequestFailsBeforeAnyCall(t *testing.T) {
	rec := &recorder{elevated: true}
	trackMkdir(t, rec)
	o := newOrchestrator(t, rec)

	req := requestUnder(t.TempDir())
	req.DomainName = "not a domain"
	_, err := o.CreateForest(context.Background(), req)
	require.Error(t, err)
	assert.Empty(t, rec.events)
}

func TestOutcomeTimestamp(t *testing.T) {
	rec := &recorder{elevated: true}
	trackMkdir(t, rec)
	o := newOrchestrator(t, rec)

	fixed := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	orig := nowFunc
	nowFunc = func() time.Time { return fixed }
	t.Cleanup(func() { nowFunc = orig })

	outcome, err := o.CreateForest(context.Background(), requestUnder(t.TempDir()))
	require.NoError(t, err)
	assert.Equal(t, fixed, outcome.CompletedAt)
}

func TestFeatureDefaultIsADDomainServices(t *testing.T) {
	assert.Equal(t, "AD-Domain-Services", feature.DefaultFeature)
}
