package action

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chtzvt/podctl/internal/api"
	"github.com/sirupsen/logrus"
)

// PodClient is the subset of the pod service API the runner drives.
type PodClient interface {
	Login(ctx context.Context, username, password string) ([]byte, error)
	CloneTemplate(ctx context.Context, template string) ([]byte, error)
	BulkClone(ctx context.Context, template string, users []string) ([]byte, error)
	ListPods(ctx context.Context) ([]api.Pod, error)
	BulkDelete(ctx context.Context, filters []string) ([]byte, error)
	BulkPower(ctx context.Context, filters []string, on bool) ([]byte, error)
	BulkRevert(ctx context.Context, filters []string, snapshot string) ([]byte, error)
	PresetTemplates(ctx context.Context) ([]string, error)
	CustomTemplates(ctx context.Context) ([]api.TemplateCategory, error)
	RefreshTemplates(ctx context.Context) ([]byte, error)
}

// Runner logs in and executes exactly one plan against a PodClient.
type Runner struct {
	Client PodClient
	Out    io.Writer
	Format Format
	Logger *logrus.Logger

	// CheckExisting makes delete list pods first and warn about filters
	// that match nothing. The delete is sent either way.
	CheckExisting bool
}

// Login authenticates the session. Any failure stops the invocation.
func (r *Runner) Login(ctx context.Context, username, password string) error {
	body, err := r.Client.Login(ctx, username, password)
	if err != nil {
		return err
	}
	r.logger().WithField("username", username).Debug("login succeeded")
	if r.Format == Text || r.Format == "" {
		fmt.Fprintf(r.Out, "[+] Login Response: %s\n", strings.TrimSpace(string(body)))
	}
	return nil
}

// Execute logs in with the given credentials and runs p.
func (r *Runner) Execute(ctx context.Context, username, password string, p *Plan) error {
	if err := r.Login(ctx, username, password); err != nil {
		return err
	}
	return r.Run(ctx, p)
}

// Run executes p on an already authenticated session.
func (r *Runner) Run(ctx context.Context, p *Plan) error {
	log := r.logger().WithField("action", p.Action)

	var (
		body []byte
		err  error
	)
	switch p.Action {
	case Clone:
		log.WithField("template", p.Template).Info("cloning pod")
		body, err = r.Client.CloneTemplate(ctx, p.Template)
	case BulkClone:
		log.WithFields(logrus.Fields{"template": p.Template, "users": len(p.Users)}).Info("bulk cloning pods")
		body, err = r.Client.BulkClone(ctx, p.Template, p.Users)
	case Delete:
		if r.CheckExisting {
			r.checkExisting(ctx, p.Filters)
		}
		log.WithField("filters", p.Filters).Info("deleting pods")
		body, err = r.Client.BulkDelete(ctx, p.Filters)
	case Power:
		log.WithFields(logrus.Fields{"filters": p.Filters, "on": p.On}).Info("setting pod power state")
		body, err = r.Client.BulkPower(ctx, p.Filters, p.On)
	case Revert:
		log.WithFields(logrus.Fields{"filters": p.Filters, "snapshot": p.Snapshot}).Info("reverting pods")
		body, err = r.Client.BulkRevert(ctx, p.Filters, p.Snapshot)
	case Refresh:
		log.Info("refreshing templates")
		body, err = r.Client.RefreshTemplates(ctx)
	case View:
		return r.view(ctx, p.Resource)
	default:
		return usagef("Unknown action %q, expected one of %s", p.Action, joinActions())
	}
	if err != nil {
		return err
	}
	return writeResponse(r.Out, r.Format, body)
}

func (r *Runner) view(ctx context.Context, res Resource) error {
	switch res {
	case Pods:
		pods, err := r.Client.ListPods(ctx)
		if err != nil {
			return err
		}
		return writePods(r.Out, r.Format, pods)
	case Templates:
		presets, err := r.Client.PresetTemplates(ctx)
		if err != nil {
			return err
		}
		custom, err := r.Client.CustomTemplates(ctx)
		if err != nil {
			return err
		}
		return writeTemplates(r.Out, r.Format, newTemplateListing(presets, custom))
	}
	return usagef("Only viewing %v is implemented", Resources)
}

// checkExisting warns about delete filters that match no current pod. The
// server matches a filter against any pod whose name contains it.
func (r *Runner) checkExisting(ctx context.Context, filters []string) {
	log := r.logger()
	pods, err := r.Client.ListPods(ctx)
	if err != nil {
		log.WithError(err).Warn("could not list pods before delete, continuing")
		return
	}
	for _, f := range filters {
		matched := 0
		for _, p := range pods {
			if strings.Contains(p.Name, f) {
				matched++
			}
		}
		if matched == 0 {
			log.WithField("filter", f).Warn("no existing pod matches filter")
			continue
		}
		log.WithFields(logrus.Fields{"filter": f, "pods": matched}).Debug("filter matches existing pods")
	}
}

func (r *Runner) logger() *logrus.Logger {
	if r.Logger == nil {
		l := logrus.New()
		l.Out = io.Discard
		r.Logger = l
	}
	return r.Logger
}
