package api

import (
	"context"
	"net/http"
)

// Pod is a pod as listed by /admin/view/pods. Only the name is used.
type Pod struct {
	Name string `json:"Name" yaml:"Name"`
}

// CloneTemplate clones one pod of template for the logged in user.
func (c *Client) CloneTemplate(ctx context.Context, template string) ([]byte, error) {
	return c.do(ctx, http.MethodPost, "/pod/clone/template", map[string]string{"template": template})
}

// BulkClone clones template once for every user in a single call.
func (c *Client) BulkClone(ctx context.Context, template string, users []string) ([]byte, error) {
	body := struct {
		Template string   `json:"template"`
		Users    []string `json:"users"`
	}{template, users}
	return c.do(ctx, http.MethodPost, "/admin/pod/clone/bulk", body)
}

// ListPods returns every pod on the server.
func (c *Client) ListPods(ctx context.Context) ([]Pod, error) {
	var pods []Pod
	if err := c.getJSON(ctx, "/admin/view/pods", &pods); err != nil {
		return nil, err
	}
	return pods, nil
}

// BulkDelete deletes every pod matching one of filters.
func (c *Client) BulkDelete(ctx context.Context, filters []string) ([]byte, error) {
	body := struct {
		Filters []string `json:"filters"`
	}{filters}
	return c.do(ctx, http.MethodDelete, "/admin/pod/delete/bulk", body)
}

// BulkPower powers the matching pods on or off.
func (c *Client) BulkPower(ctx context.Context, filters []string, on bool) ([]byte, error) {
	body := struct {
		Filters []string `json:"filters"`
		On      bool     `json:"On"`
	}{filters, on}
	return c.do(ctx, http.MethodPost, "/admin/pod/power/bulk", body)
}

// BulkRevert reverts the matching pods to the named snapshot.
func (c *Client) BulkRevert(ctx context.Context, filters []string, snapshot string) ([]byte, error) {
	body := struct {
		Filters  []string `json:"filters"`
		Snapshot string   `json:"snapshot"`
	}{filters, snapshot}
	return c.do(ctx, http.MethodPost, "/admin/pod/revert/bulk", body)
}
