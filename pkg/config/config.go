// Package config provides a reusable loader for the governance engine's
// configuration files and environment variables.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"governedchain/pkg/utils"
)

// Config is the unified configuration for one DAO process. It mirrors the
// structure of the YAML files under cmd/config.
type Config struct {
	DAO struct {
		Account        string `mapstructure:"account" json:"account"`
		DefaultGas     uint64 `mapstructure:"default_gas" json:"default_gas"`
		TickIntervalS  int64  `mapstructure:"tick_interval_seconds" json:"tick_interval_seconds"`
	} `mapstructure:"dao" json:"dao"`

	Treasury struct {
		DefaultPartition string `mapstructure:"default_partition" json:"default_partition"`
	} `mapstructure:"treasury" json:"treasury"`

	Voting struct {
		DefaultDurationSeconds int64 `mapstructure:"default_duration_seconds" json:"default_duration_seconds"`
		DefaultQuorumPercent   uint8 `mapstructure:"default_quorum_percent" json:"default_quorum_percent"`
	} `mapstructure:"voting" json:"voting"`

	Storage struct {
		DBPath string `mapstructure:"db_path" json:"db_path"`
	} `mapstructure:"storage" json:"storage"`

	Logging struct {
		Level string `mapstructure:"level" json:"level"`
		File  string `mapstructure:"file" json:"file"`
	} `mapstructure:"logging" json:"logging"`
}

// AppConfig holds the configuration loaded via Load or LoadFromEnv.
var AppConfig Config

// Load reads configuration files and merges any environment-specific
// overrides. The resulting configuration is stored in AppConfig and
// returned.
//
// If env is empty, only the default configuration is loaded.
func Load(env string) (*Config, error) {
	viper.SetConfigName("default")
	viper.AddConfigPath("cmd/config")
	viper.AddConfigPath("config")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		return nil, utils.Wrap(err, "load config")
	}

	if env != "" {
		viper.SetConfigName(env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, utils.Wrap(err, fmt.Sprintf("merge %s config", env))
		}
	}

	viper.AutomaticEnv()

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return nil, utils.Wrap(err, "unmarshal config")
	}
	return &AppConfig, nil
}

// LoadFromEnv loads configuration using the GOVERNEDCHAIN_ENV environment
// variable.
func LoadFromEnv() (*Config, error) {
	return Load(utils.EnvOrDefault("GOVERNEDCHAIN_ENV", ""))
}
