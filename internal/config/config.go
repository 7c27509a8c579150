package config

import (
	"fmt"
	"os"
	"time"

	"tft-wrapped/internal/constants"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	BackendBaseURL string        `toml:"backend_base_url"`
	Platform       string        `toml:"platform"`
	DDragonBaseURL string        `toml:"ddragon_base_url"`
	DDragonVersion string        `toml:"ddragon_version"`
	DDragonLocale  string        `toml:"ddragon_locale"`
	PollInterval   time.Duration `toml:"poll_interval"`
	PollTimeout    time.Duration `toml:"poll_timeout"`
	DBPath         string        `toml:"db_path"`
	ServerPort     string        `toml:"server_port"`
	LogLevel       string        `toml:"log_level"`
	CacheTTL       time.Duration `toml:"cache_ttl"`
}

func DefaultConfig() *Config {
	return &Config{
		BackendBaseURL: "http://localhost:8080",
		Platform:       constants.DefaultPlatform,
		DDragonBaseURL: constants.DDragonBaseURL,
		DDragonVersion: constants.DDragonVersion,
		DDragonLocale:  constants.DDragonLocale,
		PollInterval:   constants.DefaultPollInterval,
		PollTimeout:    constants.DefaultPollTimeout,
		DBPath:         "wrapped.db",
		ServerPort:     "8090",
		LogLevel:       "info",
		CacheTTL:       constants.DatasetMemoryTTL,
	}
}

// Load applies defaults, then the optional TOML file named by
// WRAPPED_CONFIG, then environment variables.
func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := DefaultConfig()

	if path := os.Getenv("WRAPPED_CONFIG"); path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		logger.Debug().Str("path", path).Msg("config file loaded")
	}

	cfg.BackendBaseURL = getEnv("BACKEND_BASE_URL", cfg.BackendBaseURL)
	cfg.Platform = getEnv("PLATFORM", cfg.Platform)
	cfg.DDragonBaseURL = getEnv("DDRAGON_BASE_URL", cfg.DDragonBaseURL)
	cfg.DDragonVersion = getEnv("DDRAGON_VERSION", cfg.DDragonVersion)
	cfg.DDragonLocale = getEnv("DDRAGON_LOCALE", cfg.DDragonLocale)
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.ServerPort = getEnv("SERVER_PORT", cfg.ServerPort)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	var err error
	if cfg.PollInterval, err = getDuration("POLL_INTERVAL", cfg.PollInterval); err != nil {
		return nil, err
	}
	if cfg.PollTimeout, err = getDuration("POLL_TIMEOUT", cfg.PollTimeout); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getDuration("CACHE_TTL", cfg.CacheTTL); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Info().
		Str("backend_base_url", cfg.BackendBaseURL).
		Str("platform", cfg.Platform).
		Str("ddragon_version", cfg.DDragonVersion).
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Dur("poll_interval", cfg.PollInterval).
		Dur("poll_timeout", cfg.PollTimeout).
		Dur("cache_ttl", cfg.CacheTTL).
		Msg("configuration loaded")

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.BackendBaseURL == "" {
		return fmt.Errorf("BACKEND_BASE_URL is required")
	}
	if c.DDragonBaseURL == "" || c.DDragonVersion == "" || c.DDragonLocale == "" {
		return fmt.Errorf("ddragon base url, version and locale are required")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", c.PollInterval)
	}
	if c.PollTimeout <= 0 {
		return fmt.Errorf("poll timeout must be positive, got %s", c.PollTimeout)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache ttl must be positive, got %s", c.CacheTTL)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

var Module = fx.Provide(Load)
