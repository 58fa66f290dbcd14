package api

import (
	"context"
	"net/http"
)

// TemplateCategory groups the VM images that custom templates can be built
// from. VM names arrive percent-encoded twice.
type TemplateCategory struct {
	Name string   `json:"name" yaml:"name"`
	VMs  []string `json:"vms" yaml:"vms"`
}

// PresetTemplates lists the preset template names.
func (c *Client) PresetTemplates(ctx context.Context) ([]string, error) {
	var out struct {
		Templates []string `json:"templates"`
	}
	if err := c.getJSON(ctx, "/view/templates/preset", &out); err != nil {
		return nil, err
	}
	return out.Templates, nil
}

// CustomTemplates lists the image categories available for custom templates.
func (c *Client) CustomTemplates(ctx context.Context) ([]TemplateCategory, error) {
	var out struct {
		Templates []TemplateCategory `json:"templates"`
	}
	if err := c.getJSON(ctx, "/view/templates/custom", &out); err != nil {
		return nil, err
	}
	return out.Templates, nil
}

// RefreshTemplates asks the server to resync templates and their snapshots.
func (c *Client) RefreshTemplates(ctx context.Context) ([]byte, error) {
	return c.do(ctx, http.MethodPost, "/admin/templates/refresh", nil)
}
