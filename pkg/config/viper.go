package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/opentoolset/relay/pkg/dotdir"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the RELAY_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound by the command)
//  2. Environment variables (RELAY_SERVER_ENDPOINT, RELAY_GATEWAY_LISTEN, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	// 1. Register all defaults from NewDefaultConfig().
	setViperDefaults(v)

	// 2. Config file discovery via dotdir resolution.
	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// 3. Environment variables: RELAY_SERVER_API_KEY, RELAY_KEYS_TAVILY_API_KEY, etc.
	v.SetEnvPrefix("RELAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// ConfigFromViper materializes a Config from the viper precedence chain.
// Every registry key is read back through viper so env vars and config file
// values land in the same struct the rest of the code consumes.
func ConfigFromViper(v *viper.Viper) (*Config, error) {
	c := NewDefaultConfig()
	c.Version = v.GetInt("version")

	for key := range configKeys {
		if err := c.SetKey(key, v.GetString(key)); err != nil {
			return nil, fmt.Errorf("applying config key %s: %w", key, err)
		}
	}

	return c, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation, via the same key registry that powers
// "relay config get/set". This keeps defaults.go as the single source of
// truth and guarantees viper and the registry never disagree on key names.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)
	for key, info := range configKeys {
		v.SetDefault(key, info.get(d))
	}
}
