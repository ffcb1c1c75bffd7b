package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/forestctl/forestctl/internal/messages"
	"github.com/forestctl/forestctl/internal/provision"
)

func newDCCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   messages.DCUse,
		Short: messages.DCShort,
	}
	cmd.AddCommand(newDCPromoteCmd(root))
	return cmd
}

func newDCPromoteCmd(root *rootOptions) *cobra.Command {
	flags := &provisionFlags{}
	cmd := &cobra.Command{
		Use:   messages.DCPromoteUse,
		Short: messages.DCPromoteShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProvision(cmd, root, flags, messages.OpPromoteDC, messages.ConfirmPromoteDCFmt,
				func(o *provision.Orchestrator, ctx context.Context, req provision.Request) (*provision.Outcome, error) {
					return o.PromoteController(ctx, req)
				})
		},
	}
	flags.register(cmd, false)
	return cmd
}
