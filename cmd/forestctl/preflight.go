package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/forestctl/forestctl/internal/config"
	"github.com/forestctl/forestctl/internal/feature"
	"github.com/forestctl/forestctl/internal/messages"
	"github.com/forestctl/forestctl/internal/preflight"
)

var (
	okLabel   = color.New(color.FgGreen).Sprint(messages.PreflightStatusOKLabel)
	warnLabel = color.New(color.FgYellow).Sprint(messages.PreflightStatusWarnLabel)
	failLabel = color.New(color.FgRed).Sprint(messages.PreflightStatusFailLabel)
)

var hostnameFunc = os.Hostname

func newPreflightCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   messages.PreflightUse,
		Short: messages.PreflightShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreflight(cmd, root)
		},
	}
}

func runPreflight(cmd *cobra.Command, root *rootOptions) error {
	cfg, log, err := root.load(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Close() }()

	host, err := hostnameFunc()
	if err != nil {
		host = "this server"
	}
	fmt.Fprintf(cmd.OutOrStdout(), messages.PreflightHeaderFmt, host)

	set := newPlatformFunc()
	checker := &preflight.Checker{System: set.System, Features: set.Features, Log: log}
	_, results, runErr := checker.Run(cmd.Context(), preflight.Params{
		Features:     []string{feature.DefaultFeature},
		Paths:        preflightPaths(cfg),
		MinFreeBytes: cfg.MinFreeBytes(),
	})
	for _, result := range results {
		printResult(cmd.OutOrStdout(), result)
	}
	return runErr
}

// preflightPaths returns the parent directories of the configured
// provisioning paths, deduplicated in order. The targets themselves are
// created during provisioning, so only their parents must exist up front.
func preflightPaths(cfg *config.Config) []string {
	seen := make(map[string]bool)
	var paths []string
	for _, p := range []string{cfg.Paths.Database, cfg.Paths.Log, cfg.Paths.Sysvol} {
		parent := filepath.Dir(p)
		if !seen[parent] {
			seen[parent] = true
			paths = append(paths, parent)
		}
	}
	return paths
}

func printResult(out io.Writer, result preflight.Result) {
	label := okLabel
	switch result.Status {
	case preflight.StatusWarn:
		label = warnLabel
	case preflight.StatusFail:
		label = failLabel
	}
	fmt.Fprintf(out, messages.PreflightResultLineFmt, label, result.CheckName, result.Message)
	if result.Recommendation != "" && result.Status != preflight.StatusOK {
		fmt.Fprintf(out, messages.PreflightRecommendFmt, result.Recommendation)
	}
}
