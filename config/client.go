package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DevelopmentAPIURL = "http://localhost:5000/api"
	ProductionAPIURL  = "https://spark-backend-5v4v.onrender.com/api"
)

// ClientConfig настройки терминального клиента портала.
type ClientConfig struct {
	Env         string `yaml:"env"`
	APIURL      string `yaml:"api_url"`
	SessionFile string `yaml:"session_file"`
}

// BaseURL returns the explicit API URL or the one bound to the environment.
func (c *ClientConfig) BaseURL() string {
	if c.APIURL != "" {
		return strings.TrimRight(c.APIURL, "/")
	}
	if c.Env == EnvProduction {
		return ProductionAPIURL
	}
	return DevelopmentAPIURL
}

func DefaultClientDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".hackportal"), nil
}

// LoadClient читает YAML-файл (если есть), затем переменные окружения
// HACKPORTAL_ENV, HACKPORTAL_API_URL и HACKPORTAL_SESSION_FILE.
// Пустой path означает ~/.hackportal/config.yaml.
func LoadClient(path string) (*ClientConfig, error) {
	cfg := &ClientConfig{Env: EnvDevelopment}

	dir, err := DefaultClientDir()
	if err != nil {
		return nil, err
	}
	if path == "" {
		path = filepath.Join(dir, "config.yaml")
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse client config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read client config %s: %w", path, err)
	}

	if v := os.Getenv("HACKPORTAL_ENV"); v != "" {
		cfg.Env = v
	}
	if v := os.Getenv("HACKPORTAL_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("HACKPORTAL_SESSION_FILE"); v != "" {
		cfg.SessionFile = v
	}

	if cfg.Env != EnvDevelopment && cfg.Env != EnvProduction {
		return nil, fmt.Errorf("unknown client env %q (want %s or %s)", cfg.Env, EnvDevelopment, EnvProduction)
	}
	if cfg.SessionFile == "" {
		cfg.SessionFile = filepath.Join(dir, "session.json")
	}
	return cfg, nil
}
