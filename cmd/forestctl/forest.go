package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/forestctl/forestctl/internal/messages"
	"github.com/forestctl/forestctl/internal/provision"
)

func newForestCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   messages.ForestUse,
		Short: messages.ForestShort,
	}
	cmd.AddCommand(newForestCreateCmd(root))
	return cmd
}

func newForestCreateCmd(root *rootOptions) *cobra.Command {
	flags := &provisionFlags{}
	cmd := &cobra.Command{
		Use:   messages.ForestCreateUse,
		Short: messages.ForestCreateShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProvision(cmd, root, flags, messages.OpCreateForest, messages.ConfirmCreateForestFmt,
				func(o *provision.Orchestrator, ctx context.Context, req provision.Request) (*provision.Outcome, error) {
					return o.CreateForest(ctx, req)
				})
		},
	}
	flags.register(cmd, true)
	return cmd
}
