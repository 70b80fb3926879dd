package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dyluth/catalog/internal/instance"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = "catalog.yml"

// Defaults applied by Validate when a value is omitted.
const (
	DefaultInstance      = "default"
	DefaultRedisImage    = "redis:7-alpine"
	DefaultResetDelay    = 2 * time.Second
	DefaultCheckDebounce = 300 * time.Millisecond
	DefaultNotifyTTL     = 3 * time.Second
	DefaultLogLevel      = "warn"
)

// CatalogConfig represents the top-level catalog.yml configuration
type CatalogConfig struct {
	Version       string              `yaml:"version"`
	Instance      string              `yaml:"instance,omitempty"`
	Store         StoreConfig         `yaml:"store,omitempty"`
	Form          FormConfig          `yaml:"form,omitempty"`
	Notifications NotificationsConfig `yaml:"notifications,omitempty"`
	LogLevel      string              `yaml:"log_level,omitempty"`
}

// StoreConfig locates the Redis record store
type StoreConfig struct {
	RedisURL string `yaml:"redis_url,omitempty"` // Empty means discover the instance's managed container
	Image    string `yaml:"image,omitempty"`     // Image used by `catalog up`
}

// FormConfig tunes form session timing
type FormConfig struct {
	ResetDelay    time.Duration `yaml:"reset_delay,omitempty"`    // Pause before clearing the form after a create
	CheckDebounce time.Duration `yaml:"check_debounce,omitempty"` // Delay before verifying a typed identifier
}

// NotificationsConfig tunes the notification queue
type NotificationsConfig struct {
	DefaultTTL time.Duration `yaml:"default_ttl,omitempty"`
}

// Default returns a validated configuration with every default applied.
func Default() *CatalogConfig {
	c := &CatalogConfig{
		Version: "1.0",
		Form:    FormConfig{CheckDebounce: DefaultCheckDebounce},
	}
	_ = c.Validate()
	return c
}

// Validate performs strict validation and fills in defaults
func (c *CatalogConfig) Validate() error {
	if c.Version != "1.0" {
		return fmt.Errorf("unsupported version: %s (expected: 1.0)", c.Version)
	}

	if c.Instance == "" {
		c.Instance = DefaultInstance
	}
	if err := instance.ValidateName(c.Instance); err != nil {
		return err
	}

	if c.Store.Image == "" {
		c.Store.Image = DefaultRedisImage
	}

	if c.Form.ResetDelay < 0 {
		return fmt.Errorf("form.reset_delay must be >= 0, got %s", c.Form.ResetDelay)
	}
	if c.Form.ResetDelay == 0 {
		c.Form.ResetDelay = DefaultResetDelay
	}

	// Zero is meaningful here: verify on every keystroke
	if c.Form.CheckDebounce < 0 {
		return fmt.Errorf("form.check_debounce must be >= 0, got %s", c.Form.CheckDebounce)
	}

	if c.Notifications.DefaultTTL < 0 {
		return fmt.Errorf("notifications.default_ttl must be >= 0, got %s", c.Notifications.DefaultTTL)
	}
	if c.Notifications.DefaultTTL == 0 {
		c.Notifications.DefaultTTL = DefaultNotifyTTL
	}

	switch c.LogLevel {
	case "":
		c.LogLevel = DefaultLogLevel
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level: %s (must be 'debug', 'info', 'warn' or 'error')", c.LogLevel)
	}

	return nil
}

// Load reads and validates catalog.yml from the specified path.
// A missing file yields the defaults.
func Load(path string) (*CatalogConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	config := CatalogConfig{Form: FormConfig{CheckDebounce: DefaultCheckDebounce}}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}
