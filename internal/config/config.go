package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/livefir/livescene/internal/logger"
)

// FileName is the config file looked up when no path is given
const FileName = "livescene.yaml"

// Config represents the livescene configuration
type Config struct {
	Log        logger.Config    `yaml:"log"`
	Reconciler ReconcilerConfig `yaml:"reconciler"`
	Server     ServerConfig     `yaml:"server"`
	Journal    JournalConfig    `yaml:"journal"`
}

// ReconcilerConfig tunes the reconciler
type ReconcilerConfig struct {
	// IDCapacity preallocates the element id map
	IDCapacity int `yaml:"id_capacity" validate:"gte=0"`

	// IgnoreEventListeners skips listener edits instead of failing
	IgnoreEventListeners bool `yaml:"ignore_event_listeners"`
}

// ServerConfig configures the websocket edit stream
type ServerConfig struct {
	Addr  string        `yaml:"addr" validate:"required"`
	Path  string        `yaml:"path" validate:"required,startswith=/"`
	Tick  time.Duration `yaml:"tick" validate:"gt=0"`
	Queue int           `yaml:"queue" validate:"gte=1"`
}

// JournalConfig configures batch recording; an empty path disables it
type JournalConfig struct {
	Path string `yaml:"path"`
}

// DefaultConfig returns a new Config with default values
func DefaultConfig() *Config {
	return &Config{
		Log: logger.DefaultConfig(),
		Reconciler: ReconcilerConfig{
			IDCapacity: 64,
		},
		Server: ServerConfig{
			Addr:  ":8090",
			Path:  "/edits",
			Tick:  16 * time.Millisecond,
			Queue: 256,
		},
	}
}

// LoadConfig loads the configuration from path. If the file doesn't exist
// the defaults are returned. Fields missing from the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return config, nil
}

// SaveConfig writes the configuration to path
func SaveConfig(path string, config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// FieldError is a validation failure on one config field
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// MultiError collects every invalid field
type MultiError []FieldError

func (m MultiError) Error() string {
	msgs := make([]string, 0, len(m))
	for _, err := range m {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field and reports all failures at once
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	errs := make(MultiError, 0, len(validationErrs))
	for _, e := range validationErrs {
		var message string
		switch e.Tag() {
		case "required":
			message = "is required"
		case "oneof":
			message = fmt.Sprintf("must be one of [%s]", e.Param())
		case "startswith":
			message = fmt.Sprintf("must start with %q", e.Param())
		case "gt":
			message = fmt.Sprintf("must be greater than %s", e.Param())
		case "gte":
			message = fmt.Sprintf("must be at least %s", e.Param())
		default:
			message = "is invalid"
		}
		errs = append(errs, FieldError{Field: yamlPath(e.StructNamespace()), Message: message})
	}
	return errs
}

var yamlNames = map[string]string{
	"Log": "log", "Level": "level", "Format": "format",
	"Reconciler": "reconciler", "IDCapacity": "id_capacity",
	"Server": "server", "Addr": "addr", "Path": "path", "Tick": "tick", "Queue": "queue",
}

// yamlPath turns "Config.Server.Tick" into "server.tick"
func yamlPath(namespace string) string {
	parts := strings.Split(namespace, ".")[1:]
	for i, p := range parts {
		if name, ok := yamlNames[p]; ok {
			parts[i] = name
		}
	}
	return strings.Join(parts, ".")
}
