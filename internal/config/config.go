package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	env "github.com/netflix/go-env"
	"github.com/pelletier/go-toml/v2"

	"casefinder/internal/domain"
	"casefinder/internal/eventbus"
	"casefinder/internal/logging"
)

// FileName is the per-directory config file
const FileName = ".casefinder.toml"

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid configuration")

// Duration is a time.Duration written as a string ("4s") in TOML
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Config represents the application configuration
type Config struct {
	Version     int               `toml:"version"`
	DefaultMode domain.SearchType `toml:"default_mode"`
	Lookup      LookupSettings    `toml:"lookup"`
	UI          UISettings        `toml:"ui"`
	Log         LogSettings       `toml:"log"`
	Server      ServerSettings    `toml:"server"`
}

// LookupSettings configures the lookup client. An empty URL runs the form
// in validation-only mode.
type LookupSettings struct {
	URL       string   `toml:"url"`
	APIKey    string   `toml:"api_key"`
	Timeout   Duration `toml:"timeout"`
	RateLimit float64  `toml:"rate_limit"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	ToastDuration Duration `toml:"toast_duration"`
	AltScreen     bool     `toml:"alt_screen"`
}

type LogSettings struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// ServerSettings configures the development lookup service
type ServerSettings struct {
	Addr    string   `toml:"addr"`
	DBPath  string   `toml:"db_path"`
	APIKeys []string `toml:"api_keys,omitempty"`
}

// envOverrides are applied on top of the file when set
type envOverrides struct {
	LookupURL    string `env:"CASEFINDER_LOOKUP_URL"`
	APIKey       string `env:"CASEFINDER_API_KEY"`
	LogLevel     string `env:"CASEFINDER_LOG_LEVEL"`
	LogFile      string `env:"CASEFINDER_LOG_FILE"`
	ServerAddr   string `env:"CASEFINDER_SERVER_ADDR"`
	ServerDBPath string `env:"CASEFINDER_DB_PATH"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:     1,
		DefaultMode: domain.SearchByCaseNumber,
		Lookup: LookupSettings{
			Timeout:   Duration{10 * time.Second},
			RateLimit: 5,
		},
		UI: UISettings{
			ToastDuration: Duration{4 * time.Second},
			AltScreen:     true,
		},
		Log: LogSettings{
			File:  "casefinder.log",
			Level: "info",
		},
		Server: ServerSettings{
			Addr:   "127.0.0.1:8080",
			DBPath: "cases.db",
		},
	}
}

// Validate checks the configuration for values the program can't run with
func (c *Config) Validate() error {
	switch c.DefaultMode {
	case domain.SearchByCaseNumber, domain.SearchByID:
	default:
		return fmt.Errorf("%w: unknown default_mode %q", ErrInvalid, c.DefaultMode)
	}
	if c.Lookup.Timeout.Duration <= 0 {
		return fmt.Errorf("%w: lookup.timeout must be positive", ErrInvalid)
	}
	if c.Lookup.RateLimit < 0 {
		return fmt.Errorf("%w: lookup.rate_limit must not be negative", ErrInvalid)
	}
	if c.UI.ToastDuration.Duration <= 0 {
		return fmt.Errorf("%w: ui.toast_duration must be positive", ErrInvalid)
	}
	if !logging.ValidLevel(c.Log.Level) {
		return fmt.Errorf("%w: unknown log level %q", ErrInvalid, c.Log.Level)
	}
	return nil
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	LoadFromPath(path string) (*Config, error)
	SaveToPath(cfg *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// NewConfigService creates a config service for path. An empty path means
// FileName in the working directory when present, otherwise the user config dir.
func NewConfigService(path string) ConfigService {
	if path == "" {
		path = DefaultPath()
	}
	return &configService{filePath: path}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(path string, bus eventbus.EventBus) ConfigService {
	cs := NewConfigService(path).(*configService)
	cs.bus = bus
	return cs
}

// DefaultPath picks the config file location
func DefaultPath() string {
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return FileName
	}
	return filepath.Join(configDir, "casefinder", "config.toml")
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from the service's path. A missing file
// yields the defaults. Environment overrides are applied either way.
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, os.ErrNotExist) {
		cfg = DefaultConfig()
		err = nil
	}
	if err != nil {
		return nil, err
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{Path: cs.filePath})
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific path. Keys missing from
// the file keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(cfg *Config, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: path})
	}
	return nil
}

func applyEnv(cfg *Config) error {
	var o envOverrides
	if _, err := env.UnmarshalFromEnviron(&o); err != nil {
		return fmt.Errorf("failed to parse environment variables: %w", err)
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Lookup.URL, o.LookupURL)
	set(&cfg.Lookup.APIKey, o.APIKey)
	set(&cfg.Log.Level, o.LogLevel)
	set(&cfg.Log.File, o.LogFile)
	set(&cfg.Server.Addr, o.ServerAddr)
	set(&cfg.Server.DBPath, o.ServerDBPath)
	return nil
}
