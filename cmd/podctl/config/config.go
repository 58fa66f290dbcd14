package config

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Capabilities lists the optional actions a deployment supports.
type Capabilities struct {
	SingleClone bool `mapstructure:"single_clone"`
	PowerRevert bool `mapstructure:"power_revert"`
}

// CapabilityOverrides are a deployment's capability settings. A key left
// out of the config file inherits the top level value.
type CapabilityOverrides struct {
	SingleClone *bool `mapstructure:"single_clone"`
	PowerRevert *bool `mapstructure:"power_revert"`
}

func (o CapabilityOverrides) apply(base Capabilities) Capabilities {
	if o.SingleClone != nil {
		base.SingleClone = *o.SingleClone
	}
	if o.PowerRevert != nil {
		base.PowerRevert = *o.PowerRevert
	}
	return base
}

// DeploymentConfig describes one server deployment.
type DeploymentConfig struct {
	APIURL             string              `mapstructure:"api_url"`
	InsecureSkipVerify bool                `mapstructure:"insecure_skip_verify"`
	Capabilities       CapabilityOverrides `mapstructure:"capabilities"`
}

// Target is the resolved connection settings for one invocation.
type Target struct {
	APIURL             string
	InsecureSkipVerify bool
	Capabilities       Capabilities
}

type PodctlConfig struct {
	APIURL             string                      `mapstructure:"api_url"`
	InsecureSkipVerify bool                        `mapstructure:"insecure_skip_verify"`
	Capabilities       Capabilities                `mapstructure:"capabilities"`
	Deployment         string                      `mapstructure:"deployment"`
	Deployments        map[string]DeploymentConfig `mapstructure:"deployments"`
	Username           string                      `mapstructure:"username"`
	Password           string                      `mapstructure:"password"`
	Timeout            time.Duration               `mapstructure:"timeout"`
	LogLevel           string                      `mapstructure:"log_level"`
	Output             string                      `mapstructure:"output"`
}

// Resolve returns the connection settings for the selected deployment, or
// the top level settings when none is selected.
func (c *PodctlConfig) Resolve() (Target, error) {
	top := Target{
		APIURL:             c.APIURL,
		InsecureSkipVerify: c.InsecureSkipVerify,
		Capabilities:       c.Capabilities,
	}
	if c.Deployment == "" {
		return top, nil
	}

	d, ok := c.Deployments[strings.ToLower(c.Deployment)]
	if !ok {
		known := make([]string, 0, len(c.Deployments))
		for name := range c.Deployments {
			known = append(known, name)
		}
		sort.Strings(known)
		return Target{}, fmt.Errorf("unknown deployment %q (configured: %s)", c.Deployment, strings.Join(known, ", "))
	}
	if d.APIURL == "" {
		return Target{}, fmt.Errorf("deployment %q has no api_url", c.Deployment)
	}
	return Target{
		APIURL:             d.APIURL,
		InsecureSkipVerify: d.InsecureSkipVerify || c.InsecureSkipVerify,
		Capabilities:       d.Capabilities.apply(c.Capabilities),
	}, nil
}
