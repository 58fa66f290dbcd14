package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/chtzvt/podctl/cmd/podctl/config"
	"github.com/chtzvt/podctl/internal/action"
	"github.com/chtzvt/podctl/internal/api"
	"github.com/chtzvt/podctl/internal/userlist"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	exitOK = iota
	exitFailure
	exitUsage
	exitFile
	exitAuth
	exitAPI
)

// run validates everything locally, then logs in and performs a.
func (c *cli) run(cmd *cobra.Command, a action.Action) error {
	cfg, err := config.LoadConfig(c.v, c.cfgFile)
	if err != nil {
		return err
	}
	dep, err := cfg.Resolve()
	if err != nil {
		return &action.UsageError{Msg: err.Error()}
	}
	format, err := action.ParseFormat(cfg.Output)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.LogLevel, c)
	if err != nil {
		return err
	}

	if cfg.Username == "" {
		return &action.UsageError{Msg: "Need to specify a username (-u)"}
	}

	caps := action.Capabilities{
		SingleClone: dep.Capabilities.SingleClone,
		PowerRevert: dep.Capabilities.PowerRevert,
	}
	plan, err := action.Prepare(a, c.opts, caps)
	if err != nil {
		return err
	}

	password := cfg.Password
	if password == "" {
		if password, err = c.readPassword(); err != nil {
			return err
		}
	}

	if dep.InsecureSkipVerify {
		logger.WithField("api_url", dep.APIURL).Warn("TLS certificate verification is disabled")
	}

	client, err := api.NewClient(api.Config{
		BaseURL:            dep.APIURL,
		Timeout:            cfg.Timeout,
		InsecureSkipVerify: dep.InsecureSkipVerify,
		Logger:             logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := &action.Runner{
		Client:        client,
		Out:           c.stdout,
		Format:        format,
		Logger:        logger,
		CheckExisting: c.check,
	}
	return runner.Execute(ctx, cfg.Username, password, plan)
}

func (c *cli) readPassword() (string, error) {
	if c.stdin == nil || !term.IsTerminal(int(c.stdin.Fd())) {
		return "", &action.UsageError{Msg: "Need to specify a password (-p)"}
	}
	fmt.Fprint(c.stderr, "Password: ")
	b, err := term.ReadPassword(int(c.stdin.Fd()))
	fmt.Fprintln(c.stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if len(b) == 0 {
		return "", &action.UsageError{Msg: "Need to specify a password (-p)"}
	}
	return string(b), nil
}

func newLogger(level string, c *cli) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, &action.UsageError{Msg: fmt.Sprintf("Unknown log level %q", level)}
	}
	return &logrus.Logger{
		Out:   c.stderr,
		Level: lvl,
		Formatter: &logrus.TextFormatter{
			FullTimestamp: true,
		},
		Hooks: make(logrus.LevelHooks),
	}, nil
}

func exitCode(err error) int {
	var (
		usageErr *action.UsageError
		fileErr  *userlist.FileError
		authErr  *api.AuthError
		apiErr   *api.APIError
	)
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &usageErr):
		return exitUsage
	case errors.As(err, &fileErr):
		return exitFile
	case errors.As(err, &authErr):
		return exitAuth
	case errors.As(err, &apiErr):
		return exitAPI
	}
	return exitFailure
}

func errorMessage(err error) string {
	var authErr *api.AuthError
	if errors.As(err, &authErr) {
		return fmt.Sprintf("[!] Login failed (%d), nothing was changed: %s", authErr.Status, authErr.Body)
	}
	return "[!] " + strings.TrimPrefix(err.Error(), "[!] ")
}
