package main

import (
	"github.com/chtzvt/podctl/internal/action"
	"github.com/spf13/cobra"
)

func cloneCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "clone",
		Short:   "Clone one pod of a template for the logged in user",
		Example: `  podctl clone -u admin -t ubuntu20`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, action.Clone)
		},
	}
}

func bulkCloneCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "bulk-clone",
		Aliases: []string{"bulk_clone"},
		Short:   "Clone a template for every user in a userlist",
		Example: `  podctl bulk-clone -u admin -t ubuntu20 -l users.txt`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, action.BulkClone)
		},
	}
}

func deleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Delete pods by template, by userlist, or both",
		Long: `Delete pods in bulk.

  -t only        deletes every pod of the template
  -l only        deletes every pod of each listed user
  -t and -l      deletes only that template's pods for the listed users`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, action.Delete)
		},
	}
}

func powerCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "power",
		Short:   "Power on or off a template's pods for the listed users",
		Example: `  podctl power -u admin -t ubuntu20 -l users.txt --state off`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, action.Power)
		},
	}
}

func revertCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "revert",
		Short:   "Revert a template's pods for the listed users to a snapshot",
		Example: `  podctl revert -u admin -t ubuntu20 -l users.txt --snapshot clean`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, action.Revert)
		},
	}
}
