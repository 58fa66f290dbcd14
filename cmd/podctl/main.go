package main

import (
	"fmt"
	"io"
	"os"

	"github.com/chtzvt/podctl/cmd/podctl/config"
	"github.com/chtzvt/podctl/internal/action"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cli holds everything parsed from flags for one invocation.
type cli struct {
	v       *viper.Viper
	cfgFile string
	action  string
	check   bool
	opts    action.Options

	stdin  *os.File
	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "podctl",
		Short: "Admin CLI for the virtual lab pod service",
		Long: `podctl logs in to the pod service and performs one administrative action:
cloning, deleting, powering, reverting, listing or refreshing pods and templates.

Actions can be given as subcommands (podctl bulk-clone ...) or with -a/--action.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.action == "" {
				return cmd.Help()
			}
			a, err := action.Parse(c.action)
			if err != nil {
				return err
			}
			return c.run(cmd, a)
		},
	}
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &action.UsageError{Msg: err.Error()}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&c.cfgFile, "config", "", "config file (default is ./podctl.yaml)")
	pf.StringP("username", "u", "", "Username (or $PODCTL_USERNAME)")
	pf.StringP("password", "p", "", "Password (or $PODCTL_PASSWORD, prompted when omitted)")
	pf.String("deployment", "", "Named deployment from the config file")
	pf.String("api-url", "", "API base URL (default "+config.DefaultAPIURL+")")
	pf.Duration("timeout", 0, "Per-request timeout (default 30s)")
	pf.Bool("insecure", false, "Skip TLS certificate verification")
	pf.String("log-level", "", "Log level: debug, info, warn, error (default info)")
	pf.StringP("output", "o", "", "Output format: text, json, yaml, table (default text)")

	pf.StringVarP(&c.opts.Template, "template", "t", "", "Template name")
	pf.StringVarP(&c.opts.UserList, "userlist", "l", "", "Path to a newline separated userlist")
	pf.StringVar(&c.opts.Snapshot, "snapshot", "", "Snapshot name to revert to")
	pf.StringVar(&c.opts.State, "state", "", "Power state to set (on|off)")
	pf.StringVarP(&c.opts.Resource, "resource", "r", "", "Resource to view (pods|templates)")
	pf.BoolVar(&c.check, "check", false, "List pods before delete and warn about filters that match nothing")
	root.Flags().StringVarP(&c.action, "action", "a", "", "Action to perform: clone, bulk_clone, delete, view, refresh, power, revert")

	for key, flag := range map[string]string{
		"username":             "username",
		"password":             "password",
		"deployment":           "deployment",
		"api_url":              "api-url",
		"timeout":              "timeout",
		"insecure_skip_verify": "insecure",
		"log_level":            "log-level",
		"output":               "output",
	} {
		if err := c.v.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("bind --%s to %s: %v", flag, key, err))
		}
	}

	root.AddCommand(
		cloneCmd(c),
		bulkCloneCmd(c),
		deleteCmd(c),
		viewCmd(c),
		refreshCmd(c),
		powerCmd(c),
		revertCmd(c),
	)

	completion := &cobra.Command{
		Use:   "completion",
		Short: "Generate shell completion scripts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.GenBashCompletion(c.stdout)
		},
	}
	root.AddCommand(completion)

	return root
}

func main() {
	c := &cli{
		v:      viper.New(),
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	root := newRootCmd(c)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorMessage(err))
		os.Exit(exitCode(err))
	}
}
