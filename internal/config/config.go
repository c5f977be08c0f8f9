package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/tgienger/taskflow/internal/db"
	"github.com/tgienger/taskflow/internal/errs"
)

// EnvDBPath overrides the database location
const EnvDBPath = "TASKFLOW_DB"

// Config is the merged result of defaults, config file, .env, environment and flags
type Config struct {
	DBPath   string `yaml:"db_path" mapstructure:"db_path"`
	WIPLimit int    `yaml:"wip_limit" mapstructure:"wip_limit"`
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
}

// DefaultConfig returns the built-in settings
func DefaultConfig() *Config {
	return &Config{
		DBPath:   DefaultDBPath(),
		WIPLimit: db.DefaultWIPLimit,
		LogLevel: "info",
	}
}

// Load reads configFile (if it exists) into v and returns the merged
// config. Flags bound to v before the call take precedence.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	// a missing .env is normal
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errs.Validation("LoadConfig", ".env", err.Error())
	}

	def := DefaultConfig()
	v.SetDefault("db_path", def.DBPath)
	v.SetDefault("wip_limit", def.WIPLimit)
	v.SetDefault("log_level", def.LogLevel)
	if err := v.BindEnv("db_path", EnvDBPath); err != nil {
		return nil, err
	}

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			v.SetConfigFile(configFile)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, errs.Validation("LoadConfig", configFile, err.Error())
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errs.Validation("LoadConfig", "", err.Error())
	}
	if cfg.WIPLimit < 1 {
		return nil, errs.Validation("LoadConfig", "wip_limit", "must be at least 1")
	}
	if cfg.DBPath == "" {
		return nil, errs.Validation("LoadConfig", "db_path", "must not be empty")
	}
	return cfg, nil
}

// DefaultDBPath follows XDG_DATA_HOME, falling back to ~/.local/share
func DefaultDBPath() string {
	return filepath.Join(DataDir(), "taskflow.db")
}

// DataDir is where the database and log file live by default
func DataDir() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ".taskflow"
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "taskflow")
}

// DefaultConfigPath follows XDG_CONFIG_HOME, falling back to ~/.config
func DefaultConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "taskflow", "config.yaml")
}
