// Package config loads the plannersmart configuration file and applies
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/alexanderramin/plannersmart/internal/llm"
)

const (
	DefaultListen        = "127.0.0.1:3001"
	DefaultServerURL     = "http://localhost:3001"
	DefaultLogLevel      = "info"
	DefaultAlarmSchedule = "@every 1m"
	DefaultTokenTTL      = time.Hour

	dirName  = ".plannersmart"
	fileName = "config.yaml"
)

// ErrMissingJWTSecret is returned by RequireServe when no signing secret is set.
var ErrMissingJWTSecret = errors.New("jwt_secret is not configured (set PLANNERSMART_JWT_SECRET)")

type Config struct {
	// Listen is the HTTP listen address of the backend.
	Listen string `yaml:"listen"`

	// DBPath is the SQLite database file used by serve.
	DBPath string `yaml:"db_path"`

	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`

	// ServerURL is the backend the CLI talks to when no session overrides it.
	ServerURL string `yaml:"server_url"`

	LogLevel      string `yaml:"log_level"`
	AlarmSchedule string `yaml:"alarm_schedule"`

	LLM llm.LLMConfig `yaml:"llm"`
}

// Dir returns the per-user plannersmart directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// DefaultPath returns $PLANNERSMART_CONFIG, or config.yaml inside Dir.
func DefaultPath() (string, error) {
	if p := os.Getenv("PLANNERSMART_CONFIG"); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

func DefaultConfig() *Config {
	cfg := &Config{
		Listen:        DefaultListen,
		TokenTTL:      DefaultTokenTTL,
		ServerURL:     DefaultServerURL,
		LogLevel:      DefaultLogLevel,
		AlarmSchedule: DefaultAlarmSchedule,
		LLM:           llm.DefaultConfig(),
	}
	if dir, err := Dir(); err == nil {
		cfg.DBPath = filepath.Join(dir, "plannersmart.db")
	}
	return cfg
}

// Normalize fills zero values with defaults so partial files still work.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.Listen == "" {
		c.Listen = def.Listen
	}
	if c.DBPath == "" {
		c.DBPath = def.DBPath
	}
	if c.TokenTTL <= 0 {
		c.TokenTTL = def.TokenTTL
	}
	if c.ServerURL == "" {
		c.ServerURL = def.ServerURL
	}
	c.ServerURL = strings.TrimRight(c.ServerURL, "/")
	if _, err := parseLevel(c.LogLevel); err != nil || c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.AlarmSchedule == "" {
		c.AlarmSchedule = def.AlarmSchedule
	}
	if c.LLM.Model == "" {
		c.LLM.Model = def.LLM.Model
	}
	if c.LLM.TimeoutMs <= 0 {
		c.LLM.TimeoutMs = def.LLM.TimeoutMs
	}
	if c.LLM.MaxRetries < 0 {
		c.LLM.MaxRetries = 0
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		c.LLM.Temperature = def.LLM.Temperature
	}
}

// Load reads the YAML file at path, loads a .env file from the working
// directory if one exists, and applies PLANNERSMART_* overrides.
// A missing file yields the defaults and is not created.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	// .env is optional.
	_ = godotenv.Load()

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		cfg = &Config{}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	cfg.Normalize()
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PLANNERSMART_LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("PLANNERSMART_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("PLANNERSMART_JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	} else if v := os.Getenv("JWT_SECRET"); v != "" && cfg.JWTSecret == "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("PLANNERSMART_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.TokenTTL = d
		}
	}
	if v := os.Getenv("PLANNERSMART_SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("PLANNERSMART_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("PLANNERSMART_ALARM_SCHEDULE"); v != "" {
		cfg.AlarmSchedule = v
	}
	llm.ApplyEnv(&cfg.LLM)
}

// Save writes cfg to path with 0600 permissions via a temp file and rename.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}
	cfg.Normalize()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return WriteFileAtomic(path, data)
}

// WriteFileAtomic writes data to path with 0600 permissions, creating the
// parent directory with 0700 if needed.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".plannersmart-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// RequireServe checks the settings the backend cannot start without.
func (c *Config) RequireServe() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return ErrMissingJWTSecret
	}
	return nil
}

// Logger builds a text slog logger at the configured level.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(strings.TrimSpace(s)))); err != nil {
		return slog.LevelInfo, err
	}
	return level, nil
}
