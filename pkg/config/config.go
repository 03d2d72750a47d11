package config

import (
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

type Config struct {
	Environment string `koanf:"environment" default:"development"`

	ServerHost string `koanf:"server_host"`
	ServerPort int    `koanf:"server_port" default:"3690"`

	DatabaseFilePath          string        `koanf:"database_file_path" default:"shelfmark.db"`
	DatabaseDebug             bool          `koanf:"database_debug"`
	DatabaseConnectRetryCount int           `koanf:"database_connect_retry_count" default:"5"`
	DatabaseConnectRetryDelay time.Duration `koanf:"database_connect_retry_delay" default:"2s"`
	DatabaseBusyTimeout       time.Duration `koanf:"database_busy_timeout" default:"5s"`

	CoversBaseURL           string `koanf:"covers_base_url" default:"https://covers.openlibrary.org"`
	CoversRequestsPerSecond int    `koanf:"covers_requests_per_second" default:"4"`
	CoversUserAgent         string `koanf:"covers_user_agent" default:"shelfmark (https://github.com/shelfmark/shelfmark)"`
}

const (
	envPrefix     = "SHELFMARK_"
	configFileENV = "SHELFMARK_CONFIG"
)

// New loads configuration from an optional YAML file (path taken from
// SHELFMARK_CONFIG, defaulting to shelfmark.yml) with SHELFMARK_-prefixed
// environment variables layered on top.
func New() (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	k := koanf.New(".")

	path := os.Getenv(configFileENV)
	if path == "" {
		path = "shelfmark.yml"
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "failed to load config file %s", path)
		}
	}

	err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			// SHELFMARK_SERVER_PORT -> server_port
			if key == configFileENV {
				return "", nil
			}
			return strings.ToLower(strings.TrimPrefix(key, envPrefix)), value
		},
	}), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	return cfg, nil
}
