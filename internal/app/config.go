package app

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// BaseURL is the backend API root, including the /api prefix.
	BaseURL string `yaml:"base_url"`
	// UserName is shown in the sessions page greeting.
	UserName       string        `yaml:"user_name"`
	Theme          string        `yaml:"theme"`
	LogFile        string        `yaml:"log_file"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

func DefaultConfig() Config {
	return Config{
		BaseURL:        "http://localhost:8000/api",
		UserName:       "Student",
		Theme:          "paper",
		LogFile:        defaultLogPath(),
		RequestTimeout: 120 * time.Second,
	}
}

// LoadConfig reads the YAML config at path, falling back to defaults when
// the file is missing. A .env file in the working directory and the
// STUDYBUDDY_* environment variables override file values, which keeps
// local development pointed at local backends without touching the config.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, err
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, err
			}
		}
	}

	_ = godotenv.Load()
	if v := os.Getenv("STUDYBUDDY_API_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("STUDYBUDDY_USER"); v != "" {
		cfg.UserName = v
	}
	if v := os.Getenv("STUDYBUDDY_LOG"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("STUDYBUDDY_THEME"); v != "" {
		cfg.Theme = v
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8000/api"
	}
	if cfg.UserName == "" {
		cfg.UserName = "Student"
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 120 * time.Second
	}
	return cfg, nil
}

func SaveConfig(cfg Config, path string) error {
	if path == "" {
		return errors.New("no path provided for config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func DefaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "studybuddy", "config.yml")
}

func defaultLogPath() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "studybuddy.log")
	}
	return filepath.Join(base, "studybuddy", "studybuddy.log")
}
