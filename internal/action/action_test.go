package action

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/chtzvt/podctl/internal/userlist"
	"github.com/stretchr/testify/require"
)

var allCaps = Capabilities{SingleClone: true, PowerRevert: true}

func usersFile(t *testing.T, contents string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "users.txt")
	require.NoError(t, os.WriteFile(p, []byte(contents), 0o600))
	return p
}

func requireUsage(t *testing.T, err error, msg string) {
	t.Helper()
	var ue *UsageError
	require.True(t, errors.As(err, &ue), "expected UsageError, got %v", err)
	require.Contains(t, ue.Msg, msg)
}

func TestParse(t *testing.T) {
	a, err := Parse("bulk-clone")
	require.NoError(t, err)
	require.Equal(t, BulkClone, a)

	a, err = Parse("REVERT")
	require.NoError(t, err)
	require.Equal(t, Revert, a)

	_, err = Parse("reboot")
	requireUsage(t, err, "Unknown action")
}

func TestPrepare_Validation(t *testing.T) {
	users := usersFile(t, "a\nb\n")
	cases := []struct {
		name   string
		action Action
		opts   Options
		caps   Capabilities
		msg    string
	}{
		{"clone needs template", Clone, Options{}, allCaps, "template for clone"},
		{"clone unsupported", Clone, Options{Template: "web"}, Capabilities{PowerRevert: true}, "does not support clone"},
		{"bulk clone needs template", BulkClone, Options{UserList: users}, allCaps, "template and userlist"},
		{"bulk clone needs userlist", BulkClone, Options{Template: "web"}, allCaps, "template and userlist"},
		{"delete needs something", Delete, Options{}, allCaps, "userlist or a template"},
		{"view needs resource", View, Options{}, allCaps, "resource to view"},
		{"view rejects unknown", View, Options{Resource: "vms"}, allCaps, "Only viewing"},
		{"power needs state", Power, Options{Template: "web", UserList: users}, allCaps, "power state"},
		{"power rejects bad state", Power, Options{Template: "web", UserList: users, State: "reboot"}, allCaps, "on, off"},
		{"power needs userlist", Power, Options{Template: "web", State: "on"}, allCaps, "userlist and a template"},
		{"power unsupported", Power, Options{Template: "web", UserList: users, State: "on"}, Capabilities{SingleClone: true}, "does not support power"},
		{"revert needs selector", Revert, Options{Snapshot: "s"}, allCaps, "userlist or a template"},
		{"revert needs snapshot", Revert, Options{Template: "web", UserList: users}, allCaps, "snapshot"},
		{"revert needs both", Revert, Options{Template: "web", Snapshot: "s"}, allCaps, "userlist and a template"},
		{"revert unsupported", Revert, Options{Template: "web", UserList: users, Snapshot: "s"}, Capabilities{}, "does not support revert"},
		{"unknown action", Action("reboot"), Options{}, allCaps, "Unknown action"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Prepare(tc.action, tc.opts, tc.caps)
			require.Nil(t, p)
			requireUsage(t, err, tc.msg)
		})
	}
}

func TestPrepare_ValidationPrecedesFileRead(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.txt")
	_, err := Prepare(Power, Options{Template: "web", UserList: missing}, allCaps)
	requireUsage(t, err, "power state")
}

func TestPrepare_FileError(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.txt")
	_, err := Prepare(BulkClone, Options{Template: "web", UserList: missing}, allCaps)
	var fe *userlist.FileError
	require.True(t, errors.As(err, &fe))
	require.Equal(t, missing, fe.Path)
}

func TestPrepare_EmptyUserList(t *testing.T) {
	_, err := Prepare(BulkClone, Options{Template: "web", UserList: usersFile(t, "\n\n")}, allCaps)
	requireUsage(t, err, "contains no users")
}

func TestPrepare_BulkClone(t *testing.T) {
	p, err := Prepare(BulkClone, Options{Template: "ubuntu20", UserList: usersFile(t, "alice\nbob\n")}, allCaps)
	require.NoError(t, err)
	require.Equal(t, "ubuntu20", p.Template)
	require.Equal(t, []string{"alice", "bob"}, p.Users)
	require.Nil(t, p.Filters)
}

func TestPrepare_DeleteFilters(t *testing.T) {
	users := usersFile(t, "a\nb\n")

	p, err := Prepare(Delete, Options{Template: "web"}, allCaps)
	require.NoError(t, err)
	require.Equal(t, []string{"web"}, p.Filters)

	p, err = Prepare(Delete, Options{UserList: users}, allCaps)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, p.Filters)

	p, err = Prepare(Delete, Options{Template: "web", UserList: users}, allCaps)
	require.NoError(t, err)
	require.Equal(t, []string{"web_a", "web_b"}, p.Filters)
}

func TestPrepare_PowerState(t *testing.T) {
	users := usersFile(t, "a\n")

	p, err := Prepare(Power, Options{Template: "web", UserList: users, State: "on"}, allCaps)
	require.NoError(t, err)
	require.True(t, p.On)
	require.Equal(t, []string{"web_a"}, p.Filters)

	p, err = Prepare(Power, Options{Template: "web", UserList: users, State: "off"}, allCaps)
	require.NoError(t, err)
	require.False(t, p.On)
}

func TestPrepare_Revert(t *testing.T) {
	p, err := Prepare(Revert, Options{Template: "web", UserList: usersFile(t, "a\nb"), Snapshot: "clean"}, allCaps)
	require.NoError(t, err)
	require.Equal(t, "clean", p.Snapshot)
	require.Equal(t, []string{"web_a", "web_b"}, p.Filters)
}

func TestPrepare_IgnoresUserListWhereUnused(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.txt")
	p, err := Prepare(Refresh, Options{UserList: missing}, allCaps)
	require.NoError(t, err)
	require.Nil(t, p.Users)

	p, err = Prepare(View, Options{Resource: "pods", UserList: missing}, allCaps)
	require.NoError(t, err)
	require.Equal(t, Pods, p.Resource)
}
