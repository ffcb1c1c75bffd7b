//go:build windows

package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/forestctl/forestctl/internal/messages"
)

const dsrmPasswordEnvVar = "FORESTCTL_DSRM_PASSWORD"

// runPowerShell executes a script in a non-interactive PowerShell and returns
// stdout. extraEnv entries are appended to the child environment so secrets
// never appear on the command line or in process listings.
func runPowerShell(ctx context.Context, label, script string, extraEnv ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "powershell.exe",
		"-NoProfile", "-NonInteractive", "-ExecutionPolicy", "Bypass", "-Command", script)
	if len(extraEnv) > 0 {
		cmd.Env = append(cmd.Environ(), extraEnv...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = strings.TrimSpace(stdout.String())
		}
		return nil, fmt.Errorf(messages.PlatformCommandFailedFmt, label, err, detail)
	}
	return bytes.TrimSpace(stdout.Bytes()), nil
}

// WindowsFeatureManager manages roles and features through the
// ServerManager cmdlets.
type WindowsFeatureManager struct{}

type featureRecord struct {
	Name         string `json:"Name"`
	Installed    bool   `json:"Installed"`
	InstallState string `json:"InstallState"`
}

func (WindowsFeatureManager) Query(ctx context.Context, name string) (FeatureState, error) {
	script := fmt.Sprintf(
		`$f = Get-WindowsFeature -Name %q -ErrorAction SilentlyContinue; `+
			`if ($f) { @{Name=$f.Name; Installed=[bool]$f.Installed; InstallState=[string]$f.InstallState} | ConvertTo-Json -Compress }`,
		name)
	out, err := runPowerShell(ctx, "Get-WindowsFeature", script)
	if err != nil {
		return FeatureState{}, err
	}
	if len(out) == 0 {
		return FeatureState{Name: name, Found: false}, nil
	}
	var rec featureRecord
	if err := json.Unmarshal(out, &rec); err != nil {
		return FeatureState{}, fmt.Errorf(messages.PlatformDecodeOutputFmt, "Get-WindowsFeature", err)
	}
	return FeatureState{
		Name:         rec.Name,
		Found:        true,
		Installed:    rec.Installed,
		InstallState: rec.InstallState,
	}, nil
}

type featureInstallRecord struct {
	Success       bool   `json:"Success"`
	RestartNeeded string `json:"RestartNeeded"`
}

func (WindowsFeatureManager) Install(ctx context.Context, name string) (FeatureInstallResult, error) {
	script := fmt.Sprintf(
		`$r = Install-WindowsFeature -Name %q -IncludeManagementTools; `+
			`@{Success=[bool]$r.Success; RestartNeeded=[string]$r.RestartNeeded} | ConvertTo-Json -Compress`,
		name)
	out, err := runPowerShell(ctx, "Install-WindowsFeature", script)
	if err != nil {
		return FeatureInstallResult{}, err
	}
	var rec featureInstallRecord
	if err := json.Unmarshal(out, &rec); err != nil {
		return FeatureInstallResult{}, fmt.Errorf(messages.PlatformDecodeOutputFmt, "Install-WindowsFeature", err)
	}
	return FeatureInstallResult{
		Success:        rec.Success,
		RebootRequired: strings.EqualFold(rec.RestartNeeded, "Yes"),
	}, nil
}

// WindowsPackageManager manages PowerShell modules through PowerShellGet.
type WindowsPackageManager struct{}

type repositoryRecord struct {
	Name               string `json:"Name"`
	InstallationPolicy string `json:"InstallationPolicy"`
}

func (WindowsPackageManager) Repositories(ctx context.Context) ([]Repository, error) {
	script := `@(Get-PSRepository | Select-Object Name,InstallationPolicy) | ConvertTo-Json -Compress`
	out, err := runPowerShell(ctx, "Get-PSRepository", script)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	var records []repositoryRecord
	// A single repository serializes as an object, not an array.
	if out[0] == '{' {
		var one repositoryRecord
		if err := json.Unmarshal(out, &one); err != nil {
			return nil, fmt.Errorf(messages.PlatformDecodeOutputFmt, "Get-PSRepository", err)
		}
		records = []repositoryRecord{one}
	} else if err := json.Unmarshal(out, &records); err != nil {
		return nil, fmt.Errorf(messages.PlatformDecodeOutputFmt, "Get-PSRepository", err)
	}
	repos := make([]Repository, 0, len(records))
	for _, rec := range records {
		repos = append(repos, Repository{
			Name:    rec.Name,
			Trusted: strings.EqualFold(rec.InstallationPolicy, "Trusted"),
		})
	}
	return repos, nil
}

func (WindowsPackageManager) SetRepositoryTrusted(ctx context.Context, name string) error {
	script := fmt.Sprintf(`Set-PSRepository -Name %q -InstallationPolicy Trusted`, name)
	_, err := runPowerShell(ctx, "Set-PSRepository", script)
	return err
}

func (WindowsPackageManager) IsModuleInstalled(ctx context.Context, name string) (bool, error) {
	script := fmt.Sprintf(`if (Get-Module -ListAvailable -Name %q) { 'present' }`, name)
	out, err := runPowerShell(ctx, "Get-Module", script)
	if err != nil {
		return false, err
	}
	return string(out) == "present", nil
}

func (WindowsPackageManager) InstallModule(ctx context.Context, name, repository string) error {
	script := fmt.Sprintf(`Install-Module -Name %q -Repository %q -Scope AllUsers -Force -AllowClobber`, name, repository)
	_, err := runPowerShell(ctx, "Install-Module", script)
	return err
}

// ADDSProvisioner performs forest installation and domain controller
// promotion through the ADDSDeployment cmdlets. The DSRM password travels
// via the child process environment only.
type ADDSProvisioner struct{}

func (ADDSProvisioner) InstallForest(ctx context.Context, spec ForestSpec) error {
	var b strings.Builder
	b.WriteString(`$password = ConvertTo-SecureString -String $env:` + dsrmPasswordEnvVar + ` -AsPlainText -Force; `)
	fmt.Fprintf(&b, `Install-ADDSForest -DomainName %q -DomainNetbiosName %q -DomainMode %q -ForestMode %q `,
		spec.DomainName, spec.NetBIOSName, spec.DomainMode, spec.ForestMode)
	fmt.Fprintf(&b, `-DatabasePath %q -LogPath %q -SysvolPath %q `,
		spec.DatabasePath, spec.LogPath, spec.SysvolPath)
	fmt.Fprintf(&b, `-InstallDns:$%t -SafeModeAdministratorPassword $password -NoRebootOnCompletion -Force:$%t -Confirm:$false`,
		spec.InstallDNS, spec.Force)

	_, err := runPowerShell(ctx, "Install-ADDSForest", b.String(),
		dsrmPasswordEnvVar+"="+spec.SafeModePassword)
	return err
}

func (ADDSProvisioner) PromoteController(ctx context.Context, spec ControllerSpec) error {
	var b strings.Builder
	b.WriteString(`$password = ConvertTo-SecureString -String $env:` + dsrmPasswordEnvVar + ` -AsPlainText -Force; `)
	fmt.Fprintf(&b, `Install-ADDSDomainController -DomainName %q `, spec.DomainName)
	fmt.Fprintf(&b, `-DatabasePath %q -LogPath %q -SysvolPath %q `,
		spec.DatabasePath, spec.LogPath, spec.SysvolPath)
	fmt.Fprintf(&b, `-InstallDns:$%t -SafeModeAdministratorPassword $password -NoRebootOnCompletion -Force:$%t -Confirm:$false`,
		spec.InstallDNS, spec.Force)

	_, err := runPowerShell(ctx, "Install-ADDSDomainController", b.String(),
		dsrmPasswordEnvVar+"="+spec.SafeModePassword)
	return err
}

// New returns the real Windows implementation of every capability.
func New() Set {
	return Set{
		Features:    WindowsFeatureManager{},
		Packages:    WindowsPackageManager{},
		Provisioner: ADDSProvisioner{},
		System:      WindowsSystem{},
	}
}
