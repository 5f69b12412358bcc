package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/malambomutila/ai-weather-app/internal/client"
)

// Config holds application configuration loaded from YAML, .env, and the environment.
// The credential is read once here and handed to the client constructor.
type Config struct {
	ServerPort string `validate:"required,numeric"`

	WeatherAPIKey     string        `validate:"required"`
	WeatherAPIURL     string        `validate:"required,url"`
	IconBaseURL       string        `validate:"required,url"`
	WeatherAPITimeout time.Duration `validate:"gt=0"`

	RequestTimeout time.Duration `validate:"gt=0"`

	CityMinLength int `validate:"min=1"`
	CityMaxLength int `validate:"gtefield=CityMinLength"`

	SpeechSynthesizer []string
	SpeechRecognizer  []string

	DegradedWindow   time.Duration `validate:"gte=0"`
	DegradedErrorPct int           `validate:"min=0,max=100"`

	ShutdownTimeout               time.Duration `validate:"gt=0"`
	ShutdownInFlightTimeout       time.Duration `validate:"gt=0"`
	ShutdownInFlightCheckInterval time.Duration `validate:"gt=0"`

	TrackedCities []string

	CredentialFile string
}

// String redacts the credential so a Config can be logged.
func (c Config) String() string {
	c.WeatherAPIKey = "[redacted]"
	type plain Config
	return fmt.Sprintf("%+v", plain(c))
}

type fileConfig struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	WeatherAPI struct {
		URL     string `yaml:"url"`
		IconURL string `yaml:"icon_url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"weather_api"`

	Request struct {
		Timeout string `yaml:"timeout"`
	} `yaml:"request"`

	City struct {
		MinLength int `yaml:"min_length"`
		MaxLength int `yaml:"max_length"`
	} `yaml:"city"`

	Speech struct {
		Synthesizer []string `yaml:"synthesizer"`
		Recognizer  []string `yaml:"recognizer"`
	} `yaml:"speech"`

	Health struct {
		DegradedWindow   string `yaml:"degraded_window"`
		DegradedErrorPct int    `yaml:"degraded_error_pct"`
	} `yaml:"health"`

	Shutdown struct {
		Timeout               string `yaml:"timeout"`
		InFlightTimeout       string `yaml:"in_flight_timeout"`
		InFlightCheckInterval string `yaml:"in_flight_check_interval"`
	} `yaml:"shutdown"`

	Metrics struct {
		TrackedCities []string `yaml:"tracked_cities"`
	} `yaml:"metrics"`

	Credential struct {
		File string `yaml:"file"`
	} `yaml:"credential"`
}

type secretsFile struct {
	WeatherAPIKey string `yaml:"weather_api_key"`
}

// DefaultCredentialFile is the sidecar key file looked up next to the program.
const DefaultCredentialFile = "api_key.txt"

var validate = validator.New()

// Load reads configuration from config/{ENV_NAME}.yaml (default dev), which must exist.
// Call from project root.
func Load() (*Config, error) {
	return load(true)
}

// LoadOptional is Load without requiring the YAML file; defaults fill every gap.
// The credential is still required.
func LoadOptional() (*Config, error) {
	return load(false)
}

func load(requireFile bool) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	env := os.Getenv("ENV_NAME")
	if env == "" {
		env = "dev"
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("config: get working directory: %w", err)
	}

	var fc fileConfig
	configPath := filepath.Join(cwd, "config", env+".yaml")
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	case os.IsNotExist(err):
		if requireFile {
			return nil, fmt.Errorf("config file not found: %s", configPath)
		}
	default:
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	cfg.ServerPort = strings.TrimSpace(os.Getenv("PORT"))
	if cfg.ServerPort == "" {
		cfg.ServerPort = fc.Server.Port
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}

	cfg.CredentialFile = fc.Credential.File
	if cfg.CredentialFile == "" {
		cfg.CredentialFile = DefaultCredentialFile
	}
	if !filepath.IsAbs(cfg.CredentialFile) {
		cfg.CredentialFile = filepath.Join(cwd, cfg.CredentialFile)
	}

	cfg.WeatherAPIKey, err = loadCredential(cwd, cfg.CredentialFile)
	if err != nil {
		return nil, err
	}

	cfg.WeatherAPIURL = strings.TrimSpace(os.Getenv("WEATHER_API_URL"))
	if cfg.WeatherAPIURL == "" {
		cfg.WeatherAPIURL = fc.WeatherAPI.URL
	}
	if cfg.WeatherAPIURL == "" {
		cfg.WeatherAPIURL = client.DefaultAPIURL
	}
	cfg.IconBaseURL = fc.WeatherAPI.IconURL
	if cfg.IconBaseURL == "" {
		cfg.IconBaseURL = client.DefaultIconBaseURL
	}
	cfg.WeatherAPITimeout = parseDurationOrZero(fc.WeatherAPI.Timeout, 5*time.Second)
	cfg.RequestTimeout = parseDuration(fc.Request.Timeout, 10*time.Second)

	cfg.CityMinLength = fc.City.MinLength
	if cfg.CityMinLength <= 0 {
		cfg.CityMinLength = 1
	}
	cfg.CityMaxLength = fc.City.MaxLength
	if cfg.CityMaxLength <= 0 {
		cfg.CityMaxLength = 100
	}

	cfg.SpeechSynthesizer = fc.Speech.Synthesizer
	if len(cfg.SpeechSynthesizer) == 0 {
		cfg.SpeechSynthesizer = []string{"espeak"}
	}
	cfg.SpeechRecognizer = fc.Speech.Recognizer

	cfg.DegradedWindow = parseDuration(fc.Health.DegradedWindow, 60*time.Second)
	cfg.DegradedErrorPct = fc.Health.DegradedErrorPct
	if cfg.DegradedErrorPct <= 0 {
		cfg.DegradedErrorPct = 50
	}

	cfg.ShutdownTimeout = parseDuration(fc.Shutdown.Timeout, 30*time.Second)
	cfg.ShutdownInFlightTimeout = parseDuration(fc.Shutdown.InFlightTimeout, 10*time.Second)
	cfg.ShutdownInFlightCheckInterval = parseDuration(fc.Shutdown.InFlightCheckInterval, 100*time.Millisecond)

	cfg.TrackedCities = fc.Metrics.TrackedCities

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadCredential resolves the API key: WEATHER_API_KEY (including .env), then
// config/secrets.yaml, then the sidecar file. Surrounding whitespace is trimmed.
func loadCredential(cwd, sidecarPath string) (string, error) {
	if key := strings.TrimSpace(os.Getenv("WEATHER_API_KEY")); key != "" {
		return key, nil
	}

	secretsPath := filepath.Join(cwd, "config", "secrets.yaml")
	secretsData, err := os.ReadFile(secretsPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("read secrets file: %w", err)
		}
	} else {
		var sec secretsFile
		if err := yaml.Unmarshal(secretsData, &sec); err != nil {
			return "", fmt.Errorf("parse secrets file: %w", err)
		}
		if key := strings.TrimSpace(sec.WeatherAPIKey); key != "" {
			return key, nil
		}
	}

	sidecar, err := os.ReadFile(sidecarPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("read credential file: %w", err)
		}
	} else if key := strings.TrimSpace(string(sidecar)); key != "" {
		return key, nil
	}

	return "", fmt.Errorf("%w: WEATHER_API_KEY required (set env, .env, config/secrets.yaml weather_api_key, or %s)",
		client.ErrMissingCredential, filepath.Base(sidecarPath))
}

// parseDuration parses a duration string and returns defaultVal if parsing fails or result is <= 0.
func parseDuration(s string, defaultVal time.Duration) time.Duration {
	d := parseDurationOrZero(s, defaultVal)
	if d <= 0 {
		return defaultVal
	}
	return d
}

// parseDurationOrZero parses a duration string, returning defaultVal on empty string or parse error.
// Returns zero or negative durations as-is (caller should handle fallback).
func parseDurationOrZero(s string, defaultVal time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return defaultVal
	}
	return d
}

// validateConfig runs struct-tag validation, then raises RequestTimeout above
// WeatherAPITimeout so the provider timeout is what callers observe.
func validateConfig(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			if fe.Field() == "WeatherAPITimeout" {
				return fmt.Errorf("WEATHER_API_TIMEOUT must be positive")
			}
			return fmt.Errorf("invalid config: %s failed %q", fe.Field(), fe.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if cfg.RequestTimeout <= cfg.WeatherAPITimeout {
		cfg.RequestTimeout = cfg.WeatherAPITimeout + time.Second
	}
	return nil
}
