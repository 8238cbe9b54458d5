package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"textbuddy/internal/backend"
	"textbuddy/internal/sms"
	"textbuddy/internal/store"
)

// DefaultBaseURL is the hosted backend.
const DefaultBaseURL = "https://api.textbuddy.app"

var (
	ErrMissingGameID   = errors.New("config: game_id is required")
	ErrMissingAPIKey   = errors.New("config: api_key is required")
	ErrInvalidStore    = errors.New("config: unknown store kind")
	ErrInvalidTimeout  = errors.New("config: timeout must be positive")
	ErrInvalidPlatform = errors.New("config: unknown platform")
)

// Config holds the SDK settings and the runtime wiring options.
type Config struct {
	GameID     string        `yaml:"game_id"`
	APIKey     string        `yaml:"api_key"`
	EnableLogs bool          `yaml:"enable_logs"`
	BaseURL    string        `yaml:"base_url"`
	Timeout    time.Duration `yaml:"timeout"`

	Home       string       `yaml:"home"`  // state directory, e.g. $HOME/.textbuddy
	Store      store.Kind   `yaml:"store"` // memory, file, sealed or sqlite
	Passphrase string       `yaml:"passphrase"`
	Platform   sms.Platform `yaml:"platform"`
	LogLevel   string       `yaml:"log_level"`
}

// Defaults returns the configuration used before any file or environment
// override is applied.
func Defaults() Config {
	home := ".textbuddy"
	if dir, err := os.UserHomeDir(); err == nil {
		home = filepath.Join(dir, ".textbuddy")
	}
	return Config{
		BaseURL:  DefaultBaseURL,
		Timeout:  backend.DefaultTimeout,
		Home:     home,
		Store:    store.KindFile,
		Platform: sms.PlatformAndroid,
		LogLevel: "info",
	}
}

// LoadConfig builds a Config from defaults, the YAML file at path (skipped
// when path is empty), TEXTBUDDY_* environment variables and overrides, in
// that order, then validates it.
func LoadConfig(path string, overrides ...func(*Config)) (Config, error) {
	cfg := Defaults()
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	for _, o := range overrides {
		o(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	// #nosec G304 -- the config path is chosen by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("TEXTBUDDY_GAME_ID", &cfg.GameID)
	str("TEXTBUDDY_API_KEY", &cfg.APIKey)
	str("TEXTBUDDY_BASE_URL", &cfg.BaseURL)
	str("TEXTBUDDY_PASSPHRASE", &cfg.Passphrase)
	str("TEXTBUDDY_HOME", &cfg.Home)

	if v, ok := lookup("TEXTBUDDY_STORE"); ok && v != "" {
		cfg.Store = store.Kind(strings.ToLower(v))
	}
	if v, ok := lookup("TEXTBUDDY_PLATFORM"); ok && v != "" {
		cfg.Platform = sms.Platform(strings.ToLower(v))
	}
	if v, ok := lookup("TEXTBUDDY_ENABLE_LOGS"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TEXTBUDDY_ENABLE_LOGS: %w", err)
		}
		cfg.EnableLogs = b
	}
	if v, ok := lookup("TEXTBUDDY_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TEXTBUDDY_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}
	return nil
}

// Validate reports the first problem that would stop the SDK from starting.
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.GameID) == "":
		return ErrMissingGameID
	case c.APIKey == "":
		return ErrMissingAPIKey
	case !c.Store.Valid():
		return fmt.Errorf("%w: %q", ErrInvalidStore, c.Store)
	case c.Timeout <= 0:
		return ErrInvalidTimeout
	}
	switch c.Platform {
	case sms.PlatformAndroid, sms.PlatformIOS:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPlatform, c.Platform)
	}
	return nil
}
