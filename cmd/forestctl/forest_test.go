package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forestctl/forestctl/internal/platform"
	"github.com/forestctl/forestctl/internal/secret"
)

// healthySet is a platform fake representing an elevated Windows Server
// with every feature and module already present.
type healthySet struct {
	forestSpecs     []platform.ForestSpec
	controllerSpecs []platform.ControllerSpec
	forestErr       error
}

func (s *healthySet) ProductType() (string, bool, error) { return "ServerNT", true, nil }
func (s *healthySet) IsElevated() (bool, error)          { return true, nil }
func (s *healthySet) FreeBytes(string) (uint64, error)   { return 500 << 30, nil }

func (s *healthySet) Query(_ context.Context, name string) (platform.FeatureState, error) {
	return platform.FeatureState{Name: name, Found: true, Installed: true, InstallState: "Installed"}, nil
}

func (s *healthySet) Install(_ context.Context, name string) (platform.FeatureInstallResult, error) {
	return platform.FeatureInstallResult{Success: true}, nil
}

func (s *healthySet) Repositories(context.Context) ([]platform.Repository, error) {
	return []platform.Repository{{Name: "PSGallery", Trusted: true}}, nil
}

func (s *healthySet) SetRepositoryTrusted(context.Context, string) error { return nil }

func (s *healthySet) IsModuleInstalled(context.Context, string) (bool, error) { return true, nil }

func (s *healthySet) InstallModule(context.Context, string, string) error { return nil }

func (s *healthySet) InstallForest(_ context.Context, spec platform.ForestSpec) error {
	s.forestSpecs = append(s.forestSpecs, spec)
	return s.forestErr
}

func (s *healthySet) PromoteController(_ context.Context, spec platform.ControllerSpec) error {
	s.controllerSpecs = append(s.controllerSpecs, spec)
	return nil
}

type staticPrompter struct{ value string }

func (p staticPrompter) SecretInput(string) (string, error) { return p.value, nil }

// installFakes routes the CLI at a healthySet and a canned prompter for the
// duration of a test.
func installFakes(t *testing.T, set *healthySet) {
	t.Helper()
	origPlatform, origPrompter, origTerminal := newPlatformFunc, newPrompterFunc, isTerminalFunc
	t.Cleanup(func() {
		newPlatformFunc, newPrompterFunc, isTerminalFunc = origPlatform, origPrompter, origTerminal
	})
	newPlatformFunc = func() platform.Set {
		return platform.Set{Features: set, Packages: set, Provisioner: set, System: set}
	}
	newPrompterFunc = func() secret.Prompter { return staticPrompter{value: "Sup3rSecret!"} }
	isTerminalFunc = func() bool { return true }
}

// runCLI executes the root command with the given stdin and args, returning
// captured stdout, stderr, and the command error.
func runCLI(stdin io.Reader, args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetIn(stdin)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// pathArgs points the provisioning directories into a temp tree so tests
// never touch real system paths. The directories are direct children of
// base so their parent exists for the preflight path check.
func pathArgs(base string) []string {
	return []string{
		"--database-path", filepath.Join(base, "ntds"),
		"--log-path", filepath.Join(base, "ntds-log"),
		"--sysvol-path", filepath.Join(base, "sysvol"),
	}
}

func TestForestCreateDryRunMakesNoChanges(t *testing.T) {
	set := &healthySet{}
	installFakes(t, set)
	base := t.TempDir()

	args := append([]string{"forest", "create", "--domain", "contoso.com", "--dry-run"}, pathArgs(base)...)
	stdout, _, err := runCLI(bytes.NewReader(nil), args...)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Dry run: no changes made")
	assert.Contains(t, stdout, "contoso.com")
	assert.Empty(t, set.forestSpecs)
	_, statErr := os.Stat(filepath.Join(base, "ntds"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestForestCreateYesRunsProvisioning(t *testing.T) {
	set := &healthySet{}
	installFakes(t, set)
	base := t.TempDir()

	args := append([]string{"forest", "create", "--domain", "contoso.com", "--yes", "--pass-thru"}, pathArgs(base)...)
	stdout, _, err := runCLI(bytes.NewReader(nil), args...)
	require.NoError(t, err)

	require.Len(t, set.forestSpecs, 1)
	spec := set.forestSpecs[0]
	assert.Equal(t, "contoso.com", spec.DomainName)
	assert.Equal(t, "CONTOSO", spec.NetBIOSName)
	assert.Equal(t, "Win2025", spec.DomainMode)
	assert.Equal(t, "Sup3rSecret!", spec.SafeModePassword)

	assert.Contains(t, stdout, "Operation summary:")
	assert.Contains(t, stdout, "contoso.com")
	assert.Contains(t, stdout, "CONTOSO")
	assert.Contains(t, stdout, "Completed")

	assert.DirExists(t, filepath.Join(base, "ntds"))
	assert.DirExists(t, filepath.Join(base, "sysvol"))
}

func TestForestCreateConfirmDeclined(t *testing.T) {
	set := &healthySet{}
	installFakes(t, set)
	base := t.TempDir()

	args := append([]string{"forest", "create", "--domain", "contoso.com"}, pathArgs(base)...)
	stdout, _, err := runCLI(bytes.NewReader([]byte("n\n")), args...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "confirmation declined")
	assert.Contains(t, stdout, "Create a new Active Directory forest for contoso.com")
	assert.Empty(t, set.forestSpecs)
}

func TestForestCreateConfirmRequiresTerminal(t *testing.T) {
	set := &healthySet{}
	installFakes(t, set)
	isTerminalFunc = func() bool { return false }
	base := t.TempDir()

	args := append([]string{"forest", "create", "--domain", "contoso.com"}, pathArgs(base)...)
	_, _, err := runCLI(bytes.NewReader(nil), args...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires an interactive terminal")
	assert.Empty(t, set.forestSpecs)
}

func TestForestCreateFailureNamesDomain(t *testing.T) {
	set := &healthySet{forestErr: errors.New("DCPromo validation failed")}
	installFakes(t, set)
	base := t.TempDir()

	args := append([]string{"forest", "create", "--domain", "contoso.com", "--yes"}, pathArgs(base)...)
	_, stderr, err := runCLI(bytes.NewReader(nil), args...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contoso.com")
	assert.Contains(t, err.Error(), "Troubleshooting")
	assert.Contains(t, stderr, "forest creation failed for contoso.com")
}

func TestForestCreateRequiresDomainFlag(t *testing.T) {
	set := &healthySet{}
	installFakes(t, set)

	_, _, err := runCLI(bytes.NewReader(nil), "forest", "create", "--yes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "domain")
	assert.Empty(t, set.forestSpecs)
}

func TestForestCreateRejectsUnknownMode(t *testing.T) {
	set := &healthySet{}
	installFakes(t, set)
	base := t.TempDir()

	args := append([]string{"forest", "create", "--domain", "contoso.com", "--yes", "--domain-mode", "Win2003"}, pathArgs(base)...)
	_, _, err := runCLI(bytes.NewReader(nil), args...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Win2003")
	assert.Empty(t, set.forestSpecs)
}
