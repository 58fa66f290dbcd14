package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const DefaultAPIURL = "https://goclone-dev.sdc.cpp/api/v1"

// LoadConfig reads podctl.yaml (or cfgFile), the PODCTL_ environment and any
// flags already bound to v. A missing config file is not an error.
func LoadConfig(v *viper.Viper, cfgFile string) (*PodctlConfig, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("podctl")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/podctl/")
		v.AddConfigPath("/etc/podctl/")
	}

	v.SetEnvPrefix("PODCTL") // env vars like PODCTL_CAPABILITIES__POWER_REVERT
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))

	v.SetDefault("api_url", DefaultAPIURL)
	v.SetDefault("insecure_skip_verify", false)
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("log_level", "info")
	v.SetDefault("output", "text")
	v.SetDefault("capabilities.single_clone", true)
	v.SetDefault("capabilities.power_revert", true)

	v.BindEnv("api_url")
	v.BindEnv("insecure_skip_verify")
	v.BindEnv("timeout")
	v.BindEnv("username")
	v.BindEnv("password")
	v.BindEnv("log_level")
	v.BindEnv("output")
	v.BindEnv("deployment")
	v.BindEnv("capabilities.single_clone")
	v.BindEnv("capabilities.power_revert")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg PodctlConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	return &cfg, nil
}
