package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
username: instructor
timeout: 5s
capabilities:
  single_clone: false
deployments:
  dev:
    api_url: https://goclone-dev.example/api/v1
    insecure_skip_verify: true
  prod:
    api_url: https://goclone.example/api/v1
    capabilities:
      single_clone: true
      power_revert: false
  legacy:
    api_url: https://goclone-legacy.example/api/v1
    capabilities:
      power_revert: false
`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "podctl.yaml")
	require.NoError(t, os.WriteFile(p, []byte(contents), 0o600))
	return p
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())
	cfg, err := LoadConfig(viper.New(), "")
	require.NoError(t, err)
	require.Equal(t, DefaultAPIURL, cfg.APIURL)
	require.Equal(t, 30*time.Second, cfg.Timeout)
	require.False(t, cfg.InsecureSkipVerify)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "text", cfg.Output)
	require.Equal(t, Capabilities{SingleClone: true, PowerRevert: true}, cfg.Capabilities)
}

func TestLoadConfig_File(t *testing.T) {
	cfg, err := LoadConfig(viper.New(), writeConfig(t, sampleConfig))
	require.NoError(t, err)
	require.Equal(t, "instructor", cfg.Username)
	require.Equal(t, 5*time.Second, cfg.Timeout)
	require.Equal(t, Capabilities{SingleClone: false, PowerRevert: true}, cfg.Capabilities)
	require.Len(t, cfg.Deployments, 3)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	t.Setenv("PODCTL_USERNAME", "ta")
	t.Setenv("PODCTL_CAPABILITIES__POWER_REVERT", "false")
	cfg, err := LoadConfig(viper.New(), writeConfig(t, sampleConfig))
	require.NoError(t, err)
	require.Equal(t, "ta", cfg.Username)
	require.False(t, cfg.Capabilities.PowerRevert)
}

func TestResolve(t *testing.T) {
	cfg, err := LoadConfig(viper.New(), writeConfig(t, sampleConfig))
	require.NoError(t, err)

	d, err := cfg.Resolve()
	require.NoError(t, err)
	require.Equal(t, DefaultAPIURL, d.APIURL)
	require.Equal(t, Capabilities{SingleClone: false, PowerRevert: true}, d.Capabilities)

	cfg.Deployment = "dev"
	d, err = cfg.Resolve()
	require.NoError(t, err)
	require.Equal(t, "https://goclone-dev.example/api/v1", d.APIURL)
	require.True(t, d.InsecureSkipVerify)
	require.Equal(t, cfg.Capabilities, d.Capabilities)

	cfg.Deployment = "PROD"
	d, err = cfg.Resolve()
	require.NoError(t, err)
	require.False(t, d.InsecureSkipVerify)
	require.Equal(t, Capabilities{SingleClone: true, PowerRevert: false}, d.Capabilities)

	cfg.Deployment = "staging"
	_, err = cfg.Resolve()
	require.ErrorContains(t, err, "unknown deployment")
}

func TestResolve_PartialCapabilitiesInheritOmittedKeys(t *testing.T) {
	cfg, err := LoadConfig(viper.New(), writeConfig(t, sampleConfig))
	require.NoError(t, err)

	// legacy only sets power_revert; single_clone comes from the top level.
	cfg.Deployment = "legacy"
	d, err := cfg.Resolve()
	require.NoError(t, err)
	require.Equal(t, Capabilities{SingleClone: false, PowerRevert: false}, d.Capabilities)

	cfg.Capabilities.SingleClone = true
	d, err = cfg.Resolve()
	require.NoError(t, err)
	require.Equal(t, Capabilities{SingleClone: true, PowerRevert: false}, d.Capabilities)

	// A block that only disables single_clone keeps power_revert enabled.
	cfg, err = LoadConfig(viper.New(), writeConfig(t, `
deployments:
  legacy:
    api_url: https://goclone-legacy.example/api/v1
    capabilities:
      single_clone: false
`))
	require.NoError(t, err)
	cfg.Deployment = "legacy"
	d, err = cfg.Resolve()
	require.NoError(t, err)
	require.Equal(t, Capabilities{SingleClone: false, PowerRevert: true}, d.Capabilities)
}

// chdir is a go1.21-compatible stand-in for testing.T.Chdir (Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(prev)) })
}
