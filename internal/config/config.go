package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/RBrouq/trading-framework/internal/logging"
)

const DefaultEnvFile = ".env"

// Config holds credentials and logging settings read from the environment.
type Config struct {
	EnvFile   string
	EnvLoaded bool

	AlpacaKey    string
	AlpacaSecret string

	LogLevel      string
	LogDir        string
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogConsole    bool
	LogJSON       bool
}

// EnvFile returns the .env path to load: TF_ENV_FILE, or ".env".
func EnvFile() string {
	return getEnv("TF_ENV_FILE", DefaultEnvFile)
}

// Load reads envFile into the process environment (existing variables win)
// and builds a Config from it. A missing .env file is not an error;
// EnvLoaded reports whether it was read.
func Load(envFile string) (*Config, error) {
	cfg := &Config{EnvFile: envFile}
	if envFile != "" {
		cfg.EnvLoaded = godotenv.Load(envFile) == nil
	}

	cfg.AlpacaKey = firstEnv("ALPACA_API_KEY", "APCA_API_KEY_ID")
	cfg.AlpacaSecret = firstEnv("ALPACA_SECRET_KEY", "APCA_API_SECRET_KEY")

	cfg.LogLevel = getEnv("TF_LOG_LEVEL", "info")
	cfg.LogDir = os.Getenv("TF_LOG_DIR")
	if cfg.LogDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve log dir: %w", err)
		}
		cfg.LogDir = filepath.Join(home, ".trading_framework", "logs")
	}
	cfg.LogFile = getEnv("TF_LOG_FILE", "framework.log")

	var err error
	if cfg.LogMaxSizeMB, err = envInt("TF_LOG_MAX_SIZE_MB", 5); err != nil {
		return nil, err
	}
	if cfg.LogMaxBackups, err = envInt("TF_LOG_MAX_BACKUPS", 5); err != nil {
		return nil, err
	}
	if cfg.LogConsole, err = envBool("TF_LOG_CONSOLE", false); err != nil {
		return nil, err
	}
	if cfg.LogJSON, err = envBool("TF_LOG_JSON", false); err != nil {
		return nil, err
	}

	return cfg, nil
}

// HasCredentials reports whether both Alpaca secrets are set.
func (c *Config) HasCredentials() bool {
	return c.AlpacaKey != "" && c.AlpacaSecret != ""
}

func (c *Config) Logging() logging.Options {
	return logging.Options{
		Level:      logging.ParseLevel(c.LogLevel),
		Dir:        c.LogDir,
		FileName:   c.LogFile,
		MaxSizeMB:  c.LogMaxSizeMB,
		MaxBackups: c.LogMaxBackups,
		Console:    c.LogConsole,
		JSON:       c.LogJSON,
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

func envInt(key string, def int) (int, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("invalid %s: must be >= 0", key)
	}
	return v, nil
}

func envBool(key string, def bool) (bool, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}
