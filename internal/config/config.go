// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"relicpanel/internal/models"
)

// ErrMissingAPIKey is a configuration failure surfaced at startup
var ErrMissingAPIKey = errors.New("gemini api key not set (GEMINI_API_KEY or API_KEY)")

// SamplingConfig holds generation parameters for one kind of request
type SamplingConfig struct {
	Temperature     float32 `yaml:"temperature"`
	TopP            float32 `yaml:"top_p"`
	MaxOutputTokens int32   `yaml:"max_output_tokens,omitempty"`
	DisableThinking bool    `yaml:"disable_thinking,omitempty"`
}

type Config struct {
	Gemini struct {
		APIKey   string         `yaml:"api_key,omitempty"`
		Model    string         `yaml:"model"`
		Opening  SamplingConfig `yaml:"opening"`
		NextLine SamplingConfig `yaml:"next_line"`
	} `yaml:"gemini"`
	Speech struct {
		Engine      string  `yaml:"engine"` // exec, http
		Binary      string  `yaml:"binary,omitempty"`
		Endpoint    string  `yaml:"endpoint,omitempty"`
		Language    string  `yaml:"language"`
		Rate        float64 `yaml:"rate"`
		Pitch       float64 `yaml:"pitch"`
		CatalogPoll int     `yaml:"catalog_poll"` // seconds
	} `yaml:"speech"`
	Discussion struct {
		TurnTimeout int                  `yaml:"turn_timeout"` // seconds
		Roster      []models.Participant `yaml:"roster,omitempty"`
		Preferences map[string][]string  `yaml:"voice_preferences,omitempty"`
	} `yaml:"discussion"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Events struct {
		Endpoint string `yaml:"endpoint,omitempty"`
	} `yaml:"events"`
	Store struct {
		Path     string `yaml:"path,omitempty"`
		Disabled bool   `yaml:"disabled,omitempty"`
	} `yaml:"store"`
	Export struct {
		Dir string `yaml:"dir,omitempty"`
	} `yaml:"export"`
	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file,omitempty"`
	} `yaml:"log"`
}

// Load reads .env (if present) and the config file at path, or the
// user config file when path is empty. A missing config file yields
// defaults.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()
	if path == "" {
		path = ConfigPath()
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path, falling back to defaults when the
// file does not exist.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		cfg := defaultConfig()
		applyEnv(cfg)
		return cfg, nil
	}

	// Expand environment variables in config
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	applyDefaults(&cfg)
	applyEnv(&cfg)
	return &cfg, nil
}

func defaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = "gemini-2.5-flash"
	}
	if cfg.Gemini.Opening == (SamplingConfig{}) {
		cfg.Gemini.Opening = SamplingConfig{Temperature: 1.0, TopP: 0.95}
	}
	if cfg.Gemini.NextLine == (SamplingConfig{}) {
		cfg.Gemini.NextLine = SamplingConfig{
			Temperature:     0.85,
			TopP:            0.95,
			MaxOutputTokens: 100,
			DisableThinking: true,
		}
	}
	if cfg.Speech.Engine == "" {
		cfg.Speech.Engine = "exec"
	}
	if cfg.Speech.Engine == "exec" && cfg.Speech.Binary == "" {
		cfg.Speech.Binary = "espeak-ng"
	}
	if cfg.Speech.Engine == "http" && cfg.Speech.Endpoint == "" {
		cfg.Speech.Endpoint = "http://localhost:5959"
	}
	if cfg.Speech.Language == "" {
		cfg.Speech.Language = "de-DE"
	}
	if cfg.Speech.Rate == 0 {
		cfg.Speech.Rate = 0.95
	}
	if cfg.Speech.Pitch == 0 {
		cfg.Speech.Pitch = 1.0
	}
	if cfg.Speech.CatalogPoll == 0 {
		cfg.Speech.CatalogPoll = 10
	}
	if cfg.Discussion.TurnTimeout == 0 {
		cfg.Discussion.TurnTimeout = 30
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":5970"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// applyEnv fills the API key from GEMINI_API_KEY or API_KEY when the
// config file has none.
func applyEnv(cfg *Config) {
	if cfg.Gemini.APIKey != "" {
		return
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.Gemini.APIKey = key
		return
	}
	cfg.Gemini.APIKey = os.Getenv("API_KEY")
}

// Validate reports configuration failures that must stop startup
func (c *Config) Validate() error {
	if c.Gemini.APIKey == "" {
		return ErrMissingAPIKey
	}
	switch c.Speech.Engine {
	case "exec", "http":
	default:
		return fmt.Errorf("unknown speech engine %q", c.Speech.Engine)
	}
	if c.Speech.Rate <= 0 || c.Speech.Rate > 10 {
		return fmt.Errorf("speech rate %.2f out of range", c.Speech.Rate)
	}
	if len(c.Discussion.Roster) > 0 {
		if _, err := models.NewRoster(c.Discussion.Roster...); err != nil {
			return fmt.Errorf("discussion roster: %w", err)
		}
	}
	return nil
}

// Roster returns the configured roster or the built-in panel
func (c *Config) Roster() models.Roster {
	if len(c.Discussion.Roster) == 0 {
		return models.DefaultRoster()
	}
	r, err := models.NewRoster(c.Discussion.Roster...)
	if err != nil {
		return models.DefaultRoster()
	}
	return r
}

func (c *Config) TurnTimeout() time.Duration {
	return time.Duration(c.Discussion.TurnTimeout) * time.Second
}

func (c *Config) CatalogPoll() time.Duration {
	return time.Duration(c.Speech.CatalogPoll) * time.Second
}

func ConfigPath() string {
	configDir, _ := os.UserConfigDir()
	if configDir == "" {
		configDir = os.ExpandEnv("$HOME/.config")
	}
	return filepath.Join(configDir, "relicpanel", "config.yaml")
}

// StorePath returns the run log database location
func (c *Config) StorePath() (string, error) {
	if c.Store.Path != "" {
		return c.Store.Path, nil
	}
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "runs.db"), nil
}

// ExportDir returns where transcript exports are written
func (c *Config) ExportDir() (string, error) {
	if c.Export.Dir != "" {
		return c.Export.Dir, nil
	}
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "transcripts"), nil
}

func dataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "relicpanel"), nil
}
