package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// SubmissionPort is the implicit-TLS mail submission port. It is fixed
// and not configurable.
const SubmissionPort = 465

// Config holds the mail submission settings read from the config file.
// All three fields are required.
type Config struct {
	// Host is the submission server hostname, without a port.
	Host string `mapstructure:"host" yaml:"host"`

	// Username authenticates the submission connection.
	Username string `mapstructure:"username" yaml:"username"`

	// Password authenticates the submission connection.
	Password string `mapstructure:"password" yaml:"password"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/maildeck/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "maildeck", "config.yaml")
}

// DefaultDBPath returns the default path for the mailbox database,
// located at ~/.local/share/maildeck/mailbox.db.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "mailbox.db")
	}
	return filepath.Join(home, ".local", "share", "maildeck", "mailbox.db")
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// A missing file or a missing required key is an error; the caller treats
// both as fatal at startup.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	for key, val := range map[string]string{
		"host":     cfg.Host,
		"username": cfg.Username,
		"password": cfg.Password,
	} {
		if val == "" {
			return nil, fmt.Errorf("config %s: missing required key %q", path, key)
		}
	}

	return cfg, nil
}
