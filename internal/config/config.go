package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override, e.g. TOUR_SERVER_PORT.
const EnvPrefix = "TOUR"

// Config structure represents the application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server" envconfig:"server"`
	API     APIConfig     `yaml:"api" envconfig:"api"`
	UI      UIConfig      `yaml:"ui" envconfig:"ui"`
	Logging LoggingConfig `yaml:"logging" envconfig:"log"`
	Seed    SeedConfig    `yaml:"seed" envconfig:"seed"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Port            string        `yaml:"port" envconfig:"port" validate:"required,numeric"`
	Mode            string        `yaml:"mode" envconfig:"mode" validate:"oneof=development production test"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"shutdown_timeout" validate:"gt=0"`
	CORSOrigins     []string      `yaml:"cors_origins" envconfig:"cors_origins"`
}

// APIConfig configures how the views reach the course data service.
type APIConfig struct {
	// BaseURL of the JSON API. Empty means the server's own /api mount.
	BaseURL string        `yaml:"base_url" envconfig:"base_url" validate:"omitempty,url"`
	Timeout time.Duration `yaml:"timeout" envconfig:"timeout" validate:"gt=0"`
}

// UIConfig tunes the view components.
type UIConfig struct {
	SearchDebounce  time.Duration `yaml:"search_debounce" envconfig:"search_debounce" validate:"gte=0"`
	DashboardOffset int           `yaml:"dashboard_offset" envconfig:"dashboard_offset" validate:"gte=0"`
	DashboardSize   int           `yaml:"dashboard_size" envconfig:"dashboard_size" validate:"gt=0"`
}

// LoggingConfig selects level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"level" validate:"oneof=debug info warn error disabled"`
	Format string `yaml:"format" envconfig:"format" validate:"oneof=json text"`
}

// SeedConfig controls the initial contents of the in-memory store.
type SeedConfig struct {
	Enabled bool `yaml:"enabled" envconfig:"enabled"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := Default()

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// A missing .env file is fine; variables may come from the real environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Default returns the configuration used when no file or environment override is present.
func Default() *Config {
	config := &Config{}
	setDefaults(config)
	return config
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.ShutdownTimeout = 10 * time.Second
	config.Server.CORSOrigins = []string{"*"}

	config.API.Timeout = 5 * time.Second

	config.UI.SearchDebounce = 300 * time.Millisecond
	config.UI.DashboardOffset = 1
	config.UI.DashboardSize = 4

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Seed.Enabled = true
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	err := validate.Struct(config)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		// Namespace is "Config.server.port"; drop the root type name.
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", field, fe.Tag()))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// APIBaseURL returns the data-service base URL, falling back to the local /api mount.
func (c *Config) APIBaseURL() string {
	if c.API.BaseURL != "" {
		return strings.TrimRight(c.API.BaseURL, "/")
	}
	return "http://127.0.0.1:" + c.Server.Port + "/api"
}
