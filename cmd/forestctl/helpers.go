package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/forestctl/forestctl/internal/config"
	"github.com/forestctl/forestctl/internal/logging"
	"github.com/forestctl/forestctl/internal/messages"
	"github.com/forestctl/forestctl/internal/platform"
	"github.com/forestctl/forestctl/internal/provision"
	"github.com/forestctl/forestctl/internal/secret"
	"github.com/forestctl/forestctl/internal/terminal"
)

// Test seams for the platform adapter, the credential prompter, and the
// terminal check.
var (
	newPlatformFunc = platform.New
	newPrompterFunc = func() secret.Prompter { return secret.NewHuhPrompter() }
	isTerminalFunc  = terminal.IsInteractive
)

// provisionFlags holds the flag values shared by forest create and
// dc promote.
type provisionFlags struct {
	domain           string
	netBIOS          string
	domainMode       string
	forestMode       string
	databasePath     string
	logPath          string
	sysvolPath       string
	installDNS       bool
	safeModePassword string
	yes              bool
	force            bool
	dryRun           bool
	passThru         bool
}

func (f *provisionFlags) register(cmd *cobra.Command, forest bool) {
	cmd.Flags().StringVar(&f.domain, "domain", "", messages.FlagDomain)
	if forest {
		cmd.Flags().StringVar(&f.netBIOS, "netbios", "", messages.FlagNetBIOS)
		cmd.Flags().StringVar(&f.forestMode, "forest-mode", "", messages.FlagForestMode)
	}
	cmd.Flags().StringVar(&f.domainMode, "domain-mode", "", messages.FlagDomainMode)
	cmd.Flags().StringVar(&f.databasePath, "database-path", "", messages.FlagDatabasePath)
	cmd.Flags().StringVar(&f.logPath, "log-path", "", messages.FlagLogPath)
	cmd.Flags().StringVar(&f.sysvolPath, "sysvol-path", "", messages.FlagSysvolPath)
	cmd.Flags().BoolVar(&f.installDNS, "install-dns", true, messages.FlagInstallDNS)
	cmd.Flags().StringVar(&f.safeModePassword, "safe-mode-password", "", messages.FlagSafeModePassword)
	cmd.Flags().BoolVarP(&f.yes, "yes", "y", false, messages.FlagYes)
	cmd.Flags().BoolVar(&f.force, "force", false, messages.FlagForce)
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, messages.FlagDryRun)
	cmd.Flags().BoolVar(&f.passThru, "pass-thru", false, messages.FlagPassThru)
	_ = cmd.MarkFlagRequired("domain")
}

// request builds the provisioning request, filling path defaults from cfg.
// Flag values win over config values.
func (f *provisionFlags) request(cfg *config.Config) (provision.Request, error) {
	domainMode, err := provision.ParseFunctionalLevel(f.domainMode)
	if err != nil {
		return provision.Request{}, err
	}
	forestMode, err := provision.ParseFunctionalLevel(f.forestMode)
	if err != nil {
		return provision.Request{}, err
	}
	req := provision.Request{
		DomainName:       f.domain,
		NetBIOSName:      f.netBIOS,
		DomainMode:       domainMode,
		ForestMode:       forestMode,
		DatabasePath:     f.databasePath,
		LogPath:          f.logPath,
		SysvolPath:       f.sysvolPath,
		InstallDNS:       f.installDNS,
		Force:            f.force,
		SafeModePassword: f.safeModePassword,
	}
	if req.DatabasePath == "" {
		req.DatabasePath = cfg.Paths.Database
	}
	if req.LogPath == "" {
		req.LogPath = cfg.Paths.Log
	}
	if req.SysvolPath == "" {
		req.SysvolPath = cfg.Paths.Sysvol
	}
	return req, nil
}

// provisionCall selects the orchestrator entry point for a command.
type provisionCall func(o *provision.Orchestrator, ctx context.Context, req provision.Request) (*provision.Outcome, error)

// runProvision is the shared command body for forest create and dc promote.
// Dry-run short-circuits before the confirmation prompt; --yes and --force
// both skip the prompt.
func runProvision(cmd *cobra.Command, root *rootOptions, flags *provisionFlags, operation, confirmFmt string, call provisionCall) error {
	cfg, log, err := root.load(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Close() }()

	req, err := flags.request(cfg)
	if err != nil {
		return err
	}
	req.Normalize()

	if flags.dryRun {
		fmt.Fprintf(cmd.OutOrStdout(), messages.DryRunNoticeFmt, operation, req.DomainName)
		return nil
	}

	if !flags.yes && !flags.force {
		if !isTerminalFunc() {
			return fmt.Errorf(messages.ConfirmRequiresTermFmt, operation)
		}
		confirmed, err := promptYesNo(cmd.InOrStdin(), cmd.OutOrStdout(),
			fmt.Sprintf(confirmFmt, req.DomainName), false)
		if err != nil {
			return err
		}
		if !confirmed {
			return errors.New(messages.ConfirmDeclined)
		}
	}

	outcome, err := call(buildOrchestrator(cfg, log), cmd.Context(), req)
	if err != nil {
		log.Errorf(messages.OperationFailedFmt, operation, req.DomainName, err)
		return err
	}
	if flags.passThru {
		printOutcome(cmd.OutOrStdout(), outcome)
	}
	return nil
}

func buildOrchestrator(cfg *config.Config, log *logging.Logger) *provision.Orchestrator {
	set := newPlatformFunc()
	return &provision.Orchestrator{
		System:       set.System,
		Features:     set.Features,
		Packages:     set.Packages,
		Provisioner:  set.Provisioner,
		Prompter:     newPrompterFunc(),
		Log:          log,
		Repository:   cfg.Repository,
		Modules:      cfg.Modules,
		MinFreeBytes: cfg.MinFreeBytes(),
	}
}

func printOutcome(out io.Writer, outcome *provision.Outcome) {
	fmt.Fprintln(out, messages.OutcomeHeader)
	fmt.Fprintf(out, messages.OutcomeDomainFmt+"\n", outcome.DomainName)
	if outcome.NetBIOSName != "" {
		fmt.Fprintf(out, messages.OutcomeNetBIOSFmt+"\n", outcome.NetBIOSName)
	}
	fmt.Fprintf(out, messages.OutcomeDomainModeFmt+"\n", outcome.DomainMode)
	if outcome.ForestMode != "" {
		fmt.Fprintf(out, messages.OutcomeForestModeFmt+"\n", outcome.ForestMode)
	}
	fmt.Fprintf(out, messages.OutcomePathsFmt+"\n", outcome.DatabasePath, outcome.LogPath, outcome.SysvolPath)
	fmt.Fprintf(out, messages.OutcomeDNSFmt+"\n", outcome.InstallDNS)
	fmt.Fprintf(out, messages.OutcomeStatusFmt+"\n", outcome.Status)
	fmt.Fprintf(out, messages.OutcomeCompletedFmt+"\n", outcome.CompletedAt.Format(time.RFC3339))
}

// promptYesNo asks a yes/no question and returns the user's choice or an
// error. defaultYes controls the result when the user provides an empty
// response.
func promptYesNo(in io.Reader, out io.Writer, prompt string, defaultYes bool) (bool, error) {
	reader := bufio.NewReader(in)
	for {
		if defaultYes {
			if _, err := fmt.Fprintf(out, messages.PromptYesDefaultFmt, prompt); err != nil {
				return false, err
			}
		} else {
			if _, err := fmt.Fprintf(out, messages.PromptNoDefaultFmt, prompt); err != nil {
				return false, err
			}
		}
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
		response := strings.TrimSpace(line)
		if response == "" {
			if errors.Is(err, io.EOF) {
				return false, nil
			}
			return defaultYes, nil
		}
		switch strings.ToLower(response) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		if _, err := fmt.Fprintln(out, messages.PromptInvalidInput); err != nil {
			return false, err
		}
	}
}
