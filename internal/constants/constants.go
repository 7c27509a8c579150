package constants

import "time"

const (
	DefaultPollInterval = 1200 * time.Millisecond
	DefaultPollTimeout  = 10 * time.Minute
	DatasetMemoryTTL    = 30 * time.Minute
)

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	CardBuildTimeout   = 20 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	// Progress never reaches 100% before the job is terminal.
	MaxProgressPercent = 95
	MaxListItems       = 8
	DaysPerYear        = 365
	DefaultYear        = 2025
	DefaultPlatform    = "EUW1"
)

const (
	DDragonBaseURL = "https://ddragon.leagueoflegends.com/cdn"
	DDragonVersion = "15.24.1"
	DDragonLocale  = "en_US"
)
