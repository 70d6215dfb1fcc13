package config

import (
	"errors"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config defines the app configuration.
type Config struct {
	Server struct {
		Port     int    `yaml:"port" env:"PORT" env-default:"4000"`
		Env      string `yaml:"env" env:"ENV" env-default:"development"`
		LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	} `yaml:"server"`
	TMDB struct {
		BaseURL          string `yaml:"base_url" env:"TMDB_BASE_URL" env-default:"https://api.themoviedb.org/3"`
		APIKey           string `yaml:"-" env:"TMDB_API_KEY"`
		Language         string `yaml:"language" env:"TMDB_LANGUAGE" env-default:"ja-JP"`
		FallbackLanguage string `yaml:"fallback_language" env:"TMDB_FALLBACK_LANGUAGE" env-default:"en-US"`
	} `yaml:"tmdb"`
	Backend struct {
		BaseURL string `yaml:"base_url" env:"BACKEND_BASE_URL" env-default:"http://localhost:8000/api"`
	} `yaml:"backend"`
	Cors struct {
		TrustedOrigins []string `yaml:"trusted_origins" env:"TRUSTEDORIGINS" env-separator:" "`
	} `yaml:"cors"`
	Guard struct {
		TTL time.Duration `yaml:"ttl" env:"GUARD_TTL" env-default:"30s"`
	} `yaml:"guard"`
}

// ErrMissingAPIKey is returned by Decode when no TMDB credential is configured.
var ErrMissingAPIKey = errors.New("config: TMDB_API_KEY must be set")

// Decode reads the configuration from the YAML file named by CINEREVIEW_CONFIG,
// if any, and then from the environment.
func Decode() (Config, error) {
	var cfg Config
	var err error
	if path := os.Getenv("CINEREVIEW_CONFIG"); path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return Config{}, err
	}
	if cfg.TMDB.APIKey == "" {
		return Config{}, ErrMissingAPIKey
	}
	return cfg, nil
}
