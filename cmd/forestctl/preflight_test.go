package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forestctl/forestctl/internal/platform"
	"github.com/forestctl/forestctl/internal/preflight"
)

type unelevatedSet struct{ *healthySet }

func (s unelevatedSet) IsElevated() (bool, error) { return false, nil }

func TestPreflightCommandReportsChecks(t *testing.T) {
	set := &healthySet{}
	installFakes(t, set)

	stdout, _, err := runCLI(bytes.NewReader(nil), "preflight")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Running preflight checks on")
	assert.Contains(t, stdout, "[OK]")
	assert.Contains(t, stdout, "Platform")
	assert.Contains(t, stdout, "Privileges")
	assert.Contains(t, stdout, "Features")
	assert.NotContains(t, stdout, "[FAIL]")
	assert.Empty(t, set.forestSpecs)
}

func TestPreflightCommandFailsWithoutElevation(t *testing.T) {
	set := &healthySet{}
	installFakes(t, set)
	newPlatformFunc = func() platform.Set {
		return platform.Set{Features: set, Packages: set, Provisioner: set, System: unelevatedSet{set}}
	}

	stdout, _, err := runCLI(bytes.NewReader(nil), "preflight")
	require.Error(t, err)
	assert.ErrorIs(t, err, preflight.ErrInsufficientPrivilege)
	assert.Contains(t, stdout, "[FAIL]")
	assert.Contains(t, stdout, "administrative privileges")
	assert.Contains(t, stdout, "Run as administrator")
}
