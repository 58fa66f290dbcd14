package action

import (
	"fmt"
	"strings"

	"github.com/chtzvt/podctl/internal/userlist"
)

type Action string

const (
	Clone     Action = "clone"
	BulkClone Action = "bulk_clone"
	Delete    Action = "delete"
	View      Action = "view"
	Refresh   Action = "refresh"
	Power     Action = "power"
	Revert    Action = "revert"
)

var Actions = []Action{Clone, BulkClone, Delete, View, Refresh, Power, Revert}

type Resource string

const (
	Pods      Resource = "pods"
	Templates Resource = "templates"
)

var Resources = []Resource{Pods, Templates}

var PowerStates = []string{"on", "off"}

// Capabilities lists the optional actions the target deployment supports.
type Capabilities struct {
	SingleClone bool
	PowerRevert bool
}

// Options are the operator supplied arguments for one action.
type Options struct {
	Template string
	UserList string
	Snapshot string
	State    string
	Resource string
}

// Plan is a validated action with every input resolved. Building a plan
// reads the user list, so executing one never touches the filesystem.
type Plan struct {
	Action   Action
	Template string
	Users    []string
	Filters  []string
	On       bool
	Snapshot string
	Resource Resource
}

// UsageError reports a missing or invalid argument combination. It is
// always returned before any network call.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return e.Msg }

func usagef(format string, args ...any) error {
	return &UsageError{Msg: fmt.Sprintf(format, args...)}
}

// Parse maps an action name to an Action. Dashes are accepted in place of
// underscores so "bulk-clone" and "bulk_clone" are the same action.
func Parse(name string) (Action, error) {
	a := Action(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_"))
	for _, known := range Actions {
		if a == known {
			return a, nil
		}
	}
	return "", usagef("Unknown action %q, expected one of %s", name, joinActions())
}

func joinActions() string {
	names := make([]string, len(Actions))
	for i, a := range Actions {
		names[i] = string(a)
	}
	return strings.Join(names, ", ")
}

// Prepare validates opts for a and resolves them into a Plan.
func Prepare(a Action, opts Options, caps Capabilities) (*Plan, error) {
	if err := validate(a, opts, caps); err != nil {
		return nil, err
	}

	p := &Plan{
		Action:   a,
		Template: opts.Template,
		Snapshot: opts.Snapshot,
		Resource: Resource(opts.Resource),
		On:       opts.State == "on",
	}

	haveUsers := opts.UserList != "" && a != Clone && a != View && a != Refresh
	if haveUsers {
		users, err := userlist.Load(opts.UserList)
		if err != nil {
			return nil, err
		}
		if len(users) == 0 {
			return nil, usagef("Userlist %s contains no users", opts.UserList)
		}
		p.Users = users
	}

	switch a {
	case Delete:
		filters, err := userlist.DeleteFilters(opts.Template, p.Users, haveUsers)
		if err != nil {
			return nil, usagef("Need to specify a userlist or a template for this operation")
		}
		p.Filters = filters
	case Power, Revert:
		p.Filters = userlist.ComposeIdentifiers(opts.Template, p.Users)
	}

	return p, nil
}

func validate(a Action, opts Options, caps Capabilities) error {
	switch a {
	case Clone:
		if !caps.SingleClone {
			return usagef("This deployment does not support %s", a)
		}
		if opts.Template == "" {
			return usagef("Need to specify a template for clone!")
		}
	case BulkClone:
		if opts.Template == "" || opts.UserList == "" {
			return usagef("Need to specify a template and userlist for bulk_clone!")
		}
	case Delete:
		if opts.Template == "" && opts.UserList == "" {
			return usagef("Need to specify a userlist or a template for this operation")
		}
	case View:
		if opts.Resource == "" {
			return usagef("Need to specify resource to view!")
		}
		if !validResource(opts.Resource) {
			return usagef("Only viewing %v is implemented", Resources)
		}
	case Refresh:
	case Power:
		if !caps.PowerRevert {
			return usagef("This deployment does not support %s", a)
		}
		if opts.State == "" {
			return usagef("Need to specify power state to set!")
		}
		if opts.State != "on" && opts.State != "off" {
			return usagef("Power state must be one of %s, got %q", strings.Join(PowerStates, ", "), opts.State)
		}
		if opts.Template == "" || opts.UserList == "" {
			return usagef("Need to specify a userlist and a template for this operation")
		}
	case Revert:
		if !caps.PowerRevert {
			return usagef("This deployment does not support %s", a)
		}
		if opts.Template == "" && opts.UserList == "" {
			return usagef("Need to specify a userlist or a template for this operation")
		}
		if opts.Snapshot == "" {
			return usagef("Need to specify snapshot to revert to!")
		}
		if opts.Template == "" || opts.UserList == "" {
			return usagef("Need to specify a userlist and a template for this operation")
		}
	default:
		return usagef("Unknown action %q, expected one of %s", a, joinActions())
	}
	return nil
}

func validResource(r string) bool {
	for _, known := range Resources {
		if Resource(r) == known {
			return true
		}
	}
	return false
}
