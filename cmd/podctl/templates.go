package main

import (
	"github.com/chtzvt/podctl/internal/action"
	"github.com/spf13/cobra"
)

func viewCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:       "view [pods|templates]",
		Short:     "List pods or templates",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(action.Pods), string(action.Templates)},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				c.opts.Resource = args[0]
			}
			return c.run(cmd, action.View)
		},
	}
}

func refreshCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Refresh templates and their snapshots on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, action.Refresh)
		},
	}
}
