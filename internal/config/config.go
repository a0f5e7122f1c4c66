package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Auth      AuthConfig      `yaml:"auth"`
	Map       MapConfig       `yaml:"map"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig selects the blob substrate. Backend "sqlite" (default) uses
// Path; backend "postgres" uses the connection fields.
type StorageConfig struct {
	Backend  string `yaml:"backend"`
	Path     string `yaml:"path"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

// MapConfig is the fallback position and zoom handed to clients when no
// better position source exists.
type MapConfig struct {
	HomeLat float64 `yaml:"home_lat"`
	HomeLng float64 `yaml:"home_lng"`
	Zoom    int     `yaml:"zoom"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// DSN returns a PostgreSQL connection string.
func (s StorageConfig) DSN() string {
	sslmode := s.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		s.User, s.Password, s.Host, s.Port, s.Name, sslmode)
}

// Load reads config from a YAML file, then applies environment variable
// overrides. Env vars use the prefix MAPTRACK_ and underscore-separated
// paths:
//
//	MAPTRACK_SERVER_HOST, MAPTRACK_SERVER_PORT,
//	MAPTRACK_STORAGE_BACKEND, MAPTRACK_STORAGE_PATH,
//	MAPTRACK_STORAGE_HOST, MAPTRACK_STORAGE_PORT, MAPTRACK_STORAGE_NAME,
//	MAPTRACK_STORAGE_USER, MAPTRACK_STORAGE_PASSWORD,
//	MAPTRACK_AUTH_API_KEY
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MAPTRACK_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("MAPTRACK_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("MAPTRACK_STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("MAPTRACK_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("MAPTRACK_STORAGE_HOST"); v != "" {
		cfg.Storage.Host = v
	}
	if v := os.Getenv("MAPTRACK_STORAGE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Storage.Port = port
		}
	}
	if v := os.Getenv("MAPTRACK_STORAGE_NAME"); v != "" {
		cfg.Storage.Name = v
	}
	if v := os.Getenv("MAPTRACK_STORAGE_USER"); v != "" {
		cfg.Storage.User = v
	}
	if v := os.Getenv("MAPTRACK_STORAGE_PASSWORD"); v != "" {
		cfg.Storage.Password = v
	}
	if v := os.Getenv("MAPTRACK_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "sqlite"
	}
	if cfg.Map.Zoom == 0 {
		cfg.Map.Zoom = 13
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	switch c.Storage.Backend {
	case "sqlite":
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the sqlite backend")
		}
	case "postgres":
		if c.Storage.Host == "" {
			return fmt.Errorf("storage.host is required for the postgres backend")
		}
		if c.Storage.Port == 0 {
			return fmt.Errorf("storage.port is required for the postgres backend")
		}
		if c.Storage.Name == "" {
			return fmt.Errorf("storage.name is required for the postgres backend")
		}
		if c.Storage.User == "" {
			return fmt.Errorf("storage.user is required for the postgres backend")
		}
	default:
		return fmt.Errorf("storage.backend must be sqlite or postgres, got %q", c.Storage.Backend)
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	return nil
}
