package main

import (
	"github.com/spf13/cobra"

	"github.com/forestctl/forestctl/internal/config"
	"github.com/forestctl/forestctl/internal/logging"
	"github.com/forestctl/forestctl/internal/messages"
)

// rootOptions carries the persistent flags shared by every subcommand.
type rootOptions struct {
	verbose    bool
	logFile    string
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		Long:          messages.RootLong,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, messages.RootFlagVerbose)
	cmd.PersistentFlags().StringVar(&opts.logFile, "log-file", "", messages.RootFlagLogFile)
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", messages.RootFlagConfig)

	cmd.AddCommand(newForestCmd(opts))
	cmd.AddCommand(newDCCmd(opts))
	cmd.AddCommand(newPreflightCmd(opts))
	return cmd
}

// load resolves the config file and builds the command's logger. The log
// file flag wins over the config file value.
func (o *rootOptions) load(cmd *cobra.Command) (*config.Config, *logging.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	logFile := o.logFile
	if logFile == "" {
		logFile = cfg.LogFile
	}
	log, err := logging.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), logging.Options{
		Verbose:  o.verbose,
		FilePath: logFile,
	})
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}
