package provision

import (
	"fmt"
	"strings"

	"github.com/forestctl/forestctl/internal/messages"
	"github.com/forestctl/forestctl/internal/pathutil"
)

// FunctionalLevel is an AD DS domain or forest functional level.
type FunctionalLevel string

const (
	LevelWin2016 FunctionalLevel = "Win2016"
	LevelWin2019 FunctionalLevel = "Win2019"
	LevelWin2022 FunctionalLevel = "Win2022"
	LevelWin2025 FunctionalLevel = "Win2025"
)

// DefaultLevel is applied when the caller does not pick a functional level.
const DefaultLevel = LevelWin2025

var supportedLevels = []FunctionalLevel{LevelWin2016, LevelWin2019, LevelWin2022, LevelWin2025}

// ParseFunctionalLevel resolves a case-insensitive level name. Empty input
// yields DefaultLevel.
func ParseFunctionalLevel(s string) (FunctionalLevel, error) {
	if strings.TrimSpace(s) == "" {
		return DefaultLevel, nil
	}
	for _, level := range supportedLevels {
		if strings.EqualFold(s, string(level)) {
			return level, nil
		}
	}
	return "", fmt.Errorf(messages.RequestModeInvalidFmt, s, supportedLevelNames())
}

func supportedLevelNames() string {
	names := make([]string, len(supportedLevels))
	for i, level := range supportedLevels {
		names[i] = string(level)
	}
	return strings.Join(names, ", ")
}

// Request is the caller's provisioning intent. It is a transient,
// request-scoped value; Normalize fills defaults and Validate enforces the
// invariants before any step runs.
type Request struct {
	DomainName       string
	NetBIOSName      string
	DomainMode       FunctionalLevel
	ForestMode       FunctionalLevel
	DatabasePath     string
	LogPath          string
	SysvolPath       string
	InstallDNS       bool
	Force            bool
	SafeModePassword string
}

// DeriveNetBIOS returns the default NetBIOS name for a DNS domain: the
// first label, uppercased.
func DeriveNetBIOS(domainName string) string {
	label, _, _ := strings.Cut(domainName, ".")
	return strings.ToUpper(label)
}

// Normalize fills unset fields with defaults.
func (r *Request) Normalize() {
	if r.NetBIOSName == "" {
		r.NetBIOSName = DeriveNetBIOS(r.DomainName)
	}
	if r.DomainMode == "" {
		r.DomainMode = DefaultLevel
	}
	if r.ForestMode == "" {
		r.ForestMode = DefaultLevel
	}
}

// Validate enforces the request invariants: a DNS-shaped domain name,
// functional levels from the supported set, and absolute provisioning paths.
func (r *Request) Validate() error {
	if strings.TrimSpace(r.DomainName) == "" {
		return fmt.Errorf(messages.RequestDomainRequired)
	}
	if !isDNSName(r.DomainName) {
		return fmt.Errorf(messages.RequestDomainInvalidFmt, r.DomainName)
	}
	for _, mode := range []FunctionalLevel{r.DomainMode, r.ForestMode} {
		if _, err := ParseFunctionalLevel(string(mode)); err != nil {
			return err
		}
	}
	for _, p := range []struct{ label, path string }{
		{"database", r.DatabasePath},
		{"log", r.LogPath},
		{"sysvol", r.SysvolPath},
	} {
		if err := pathutil.ValidateProvisioningPath(p.label, p.path); err != nil {
			return err
		}
	}
	return nil
}

// isDNSName checks a dotted sequence of LDH labels (letters, digits,
// hyphens; no empty labels, no leading/trailing hyphen).
func isDNSName(name string) bool {
	if len(name) > 253 {
		return false
	}
	for _, label := range strings.Split(name, ".") {
		if label == "" || len(label) > 63 {
			return false
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return false
		}
		for _, c := range label {
			switch {
			case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-':
			default:
				return false
			}
		}
	}
	return true
}
