// Package preflight aggregates environment validation into a single gate run
// before any mutating provisioning step.
package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/forestctl/forestctl/internal/logging"
	"github.com/forestctl/forestctl/internal/messages"
	"github.com/forestctl/forestctl/internal/platform"
)

// Error kinds for failed check categories. Callers use errors.Is.
var (
	ErrPlatformMismatch      = errors.New("platform mismatch")
	ErrInsufficientPrivilege = errors.New("insufficient privileges")
	ErrFeatureNotFound       = errors.New("feature not discoverable")
	ErrPathMissing           = errors.New("required path missing")
	ErrInsufficientDiskSpace = errors.New("insufficient disk space")
)

// Status classifies a single check result.
type Status string

const (
	StatusOK   Status = "ok"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// Result is the outcome of one check.
type Result struct {
	Status         Status
	CheckName      string
	Message        string
	Recommendation string
}

// Params selects what the checker validates beyond platform and privileges.
// Empty Features/Paths skip those phases entirely.
type Params struct {
	Features     []string
	Paths        []string
	MinFreeBytes uint64
}

// Summary carries the pass/fail gate and check metrics. Created fresh per
// invocation; immutable once returned.
type Summary struct {
	Passed      bool
	Checked     int
	PassedCount int
	FailedCount int
}

// Checker runs the preflight gate against injected platform capabilities.
type Checker struct {
	System   platform.System
	Features platform.FeatureManager
	Log      *logging.Logger
}

var statFunc = os.Stat

// Run performs, in order: platform kind, elevation, feature discoverability,
// and path existence plus free space. It returns every check result, a
// metrics summary, and a categorized error for the first failing category.
// Warnings count as passed.
func (c *Checker) Run(ctx context.Context, params Params) (Summary, []Result, error) {
	var results []Result
	var failure error

	record := func(rs []Result, err error) {
		results = append(results, rs...)
		if failure == nil && err != nil {
			failure = err
		}
	}

	record(c.checkPlatform())
	record(c.checkPrivilege())
	if len(params.Features) > 0 {
		record(c.checkFeatures(ctx, params.Features))
	}
	if len(params.Paths) > 0 {
		record(c.checkPaths(params.Paths, params.MinFreeBytes))
	}

	summary := summarize(results)
	percentage := 100.0
	if summary.Checked > 0 {
		percentage = float64(summary.PassedCount) / float64(summary.Checked) * 100
	}
	c.Log.Infof(messages.PreflightSummaryFmt,
		summary.Checked, summary.PassedCount, summary.FailedCount, percentage)

	if failure != nil {
		c.Log.Errorf("%v", failure)
		return summary, results, failure
	}
	c.Log.Infof(messages.PreflightPassed)
	return summary, results, nil
}

func summarize(results []Result) Summary {
	s := Summary{Checked: len(results)}
	for _, r := range results {
		if r.Status == StatusFail {
			s.FailedCount++
		} else {
			s.PassedCount++
		}
	}
	s.Passed = s.FailedCount == 0
	return s
}

func (c *Checker) checkPlatform() ([]Result, error) {
	product, server, err := c.System.ProductType()
	if err != nil {
		return []Result{{
			Status:         StatusFail,
			CheckName:      messages.PreflightCheckNamePlatform,
			Message:        fmt.Sprintf(messages.PreflightPlatformQueryFmt, err),
			Recommendation: messages.PreflightPlatformNotServerHint,
		}}, fmt.Errorf("%w: "+messages.PreflightPlatformQueryFmt, ErrPlatformMismatch, err)
	}
	if !server {
		message := fmt.Sprintf(messages.PreflightPlatformNotServerFmt, product)
		return []Result{{
			Status:         StatusFail,
			CheckName:      messages.PreflightCheckNamePlatform,
			Message:        message,
			Recommendation: messages.PreflightPlatformNotServerHint,
		}}, fmt.Errorf("%w: %s", ErrPlatformMismatch, message)
	}
	return []Result{{
		Status:    StatusOK,
		CheckName: messages.PreflightCheckNamePlatform,
		Message:   messages.PreflightPlatformOK,
	}}, nil
}

func (c *Checker) checkPrivilege() ([]Result, error) {
	elevated, err := c.System.IsElevated()
	if err != nil || !elevated {
		message := messages.PreflightPrivilegeFail
		if err != nil {
			message = fmt.Sprintf("%s: %v", messages.PreflightPrivilegeFail, err)
		}
		return []Result{{
			Status:         StatusFail,
			CheckName:      messages.PreflightCheckNamePrivilege,
			Message:        message,
			Recommendation: messages.PreflightPrivilegeHint,
		}}, fmt.Errorf("%w: %s", ErrInsufficientPrivilege, message)
	}
	return []Result{{
		Status:    StatusOK,
		CheckName: messages.PreflightCheckNamePrivilege,
		Message:   messages.PreflightPrivilegeOK,
	}}, nil
}

// checkFeatures verifies every requested feature is known to the system.
// An installed feature passes; a discoverable-but-uninstalled feature warns
// and passes, since the feature installer runs later in the sequence; an
// unknown feature fails hard.
func (c *Checker) checkFeatures(ctx context.Context, names []string) ([]Result, error) {
	var results []Result
	var failure error
	for _, name := range names {
		state, err := c.Features.Query(ctx, name)
		if err != nil {
			message := fmt.Sprintf(messages.PreflightFeatureQueryFmt, name, err)
			results = append(results, Result{
				Status:         StatusFail,
				CheckName:      messages.PreflightCheckNameFeature,
				Message:        message,
				Recommendation: messages.PreflightFeatureUndiscoveredHint,
			})
			if failure == nil {
				failure = fmt.Errorf("%w: %s", ErrFeatureNotFound, message)
			}
			continue
		}
		switch {
		case !state.Found:
			message := fmt.Sprintf(messages.PreflightFeatureUndiscoveredFmt, name)
			results = append(results, Result{
				Status:         StatusFail,
				CheckName:      messages.PreflightCheckNameFeature,
				Message:        message,
				Recommendation: messages.PreflightFeatureUndiscoveredHint,
			})
			if failure == nil {
				failure = fmt.Errorf("%w: %s", ErrFeatureNotFound, message)
			}
		case !state.Installed:
			c.Log.Warnf(messages.PreflightFeatureNotInstalledFmt, name)
			results = append(results, Result{
				Status:    StatusWarn,
				CheckName: messages.PreflightCheckNameFeature,
				Message:   fmt.Sprintf(messages.PreflightFeatureNotInstalledFmt, name),
			})
		default:
			results = append(results, Result{
				Status:    StatusOK,
				CheckName: messages.PreflightCheckNameFeature,
				Message:   fmt.Sprintf(messages.PreflightFeatureDiscoveredFmt, name),
			})
		}
	}
	return results, failure
}

func (c *Checker) checkPaths(paths []string, minFreeBytes uint64) ([]Result, error) {
	var results []Result
	var failure error
	for _, p := range paths {
		if _, err := statFunc(p); err != nil {
			message := fmt.Sprintf(messages.PreflightPathMissingFmt, p)
			results = append(results, Result{
				Status:         StatusFail,
				CheckName:      messages.PreflightCheckNamePath,
				Message:        message,
				Recommendation: messages.PreflightPathHint,
			})
			if failure == nil {
				failure = fmt.Errorf("%w: %s", ErrPathMissing, message)
			}
			continue
		}
		results = append(results, Result{
			Status:    StatusOK,
			CheckName: messages.PreflightCheckNamePath,
			Message:   fmt.Sprintf(messages.PreflightPathOKFmt, p),
		})

		free, err := c.System.FreeBytes(p)
		if err != nil {
			message := fmt.Sprintf(messages.PreflightDiskQueryFmt, p, err)
			results = append(results, Result{
				Status:         StatusFail,
				CheckName:      messages.PreflightCheckNameDiskSpace,
				Message:        message,
				Recommendation: messages.PreflightDiskHint,
			})
			if failure == nil {
				failure = fmt.Errorf("%w: %s", ErrInsufficientDiskSpace, message)
			}
			continue
		}
		if free < minFreeBytes {
			message := fmt.Sprintf(messages.PreflightDiskLowFmt, p, formatBytes(free), formatBytes(minFreeBytes))
			results = append(results, Result{
				Status:         StatusFail,
				CheckName:      messages.PreflightCheckNameDiskSpace,
				Message:        message,
				Recommendation: messages.PreflightDiskHint,
			})
			if failure == nil {
				failure = fmt.Errorf("%w: %s", ErrInsufficientDiskSpace, message)
			}
			continue
		}
		results = append(results, Result{
			Status:    StatusOK,
			CheckName: messages.PreflightCheckNameDiskSpace,
			Message:   fmt.Sprintf(messages.PreflightDiskOKFmt, p, formatBytes(free), formatBytes(minFreeBytes)),
		})
	}
	return results, failure
}

// formatBytes renders a byte count in the largest whole binary unit.
func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
