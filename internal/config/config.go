package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/osse101/BrandishRaid_Go/internal/database"
)

// Config holds the application configuration
type Config struct {
	Port        int    `env:"PORT" envDefault:"8080"`
	APIKey      string `env:"API_KEY"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"text"`
	LogDir      string `env:"LOG_DIR" envDefault:"logs"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"brandish-raid"`
	Version     string `env:"VERSION" envDefault:"dev"`

	// TrustedProxies are the peers whose X-Forwarded-For header is believed
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	DB DBConfig

	Workers WorkerConfig

	Cooldowns CooldownConfig

	// DevMode bypasses raid cooldowns
	DevMode bool `env:"DEV_MODE" envDefault:"false"`

	TraceExporter string `env:"TRACE_EXPORTER" envDefault:"none"`
	OTELEndpoint  string `env:"OTEL_ENDPOINT" envDefault:"localhost:4318"`

	// EventDeadLetterPath is where events that exhausted their retries are appended
	EventDeadLetterPath string `env:"EVENT_DEAD_LETTER_PATH" envDefault:"logs/event_deadletter.jsonl"`
}

// DBConfig selects and tunes the storage backend
type DBConfig struct {
	Backend         string        `env:"DB_BACKEND" envDefault:"postgres"`
	User            string        `env:"DB_USER" envDefault:"postgres"`
	Password        string        `env:"DB_PASSWORD" envDefault:"postgres"`
	Host            string        `env:"DB_HOST" envDefault:"localhost"`
	Port            string        `env:"DB_PORT" envDefault:"5432"`
	Name            string        `env:"DB_NAME" envDefault:"brandishraid"`
	MaxConns        int           `env:"DB_MAX_CONNS" envDefault:"20"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_IDLE_TIME" envDefault:"5m"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
}

// WorkerConfig sizes the job pool and the raid sweep
type WorkerConfig struct {
	Count         int           `env:"WORKER_COUNT" envDefault:"4"`
	QueueSize     int           `env:"WORKER_QUEUE_SIZE" envDefault:"256"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"1m"`
}

// CooldownConfig holds the raid start cooldowns
type CooldownConfig struct {
	Backend string        `env:"COOLDOWN_BACKEND" envDefault:"postgres"`
	Village time.Duration `env:"RAID_VILLAGE_COOLDOWN" envDefault:"1h"`
	Global  time.Duration `env:"RAID_GLOBAL_COOLDOWN" envDefault:"10m"`
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgParseEnv, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return database.ConnString(c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// UsesPostgres reports whether any component needs a database pool
func (c *Config) UsesPostgres() bool {
	return c.DB.Backend == BackendPostgres || c.Cooldowns.Backend == BackendPostgres
}

// DiscordConfig holds the bot binary's configuration
type DiscordConfig struct {
	Token              string `env:"DISCORD_TOKEN"`
	AppID              string `env:"DISCORD_APP_ID"`
	APIURL             string `env:"API_URL" envDefault:"http://localhost:8080"`
	APIKey             string `env:"API_KEY"`
	ForceCommandUpdate bool   `env:"DISCORD_FORCE_COMMAND_UPDATE" envDefault:"false"`
	HealthPort         string `env:"DISCORD_HEALTH_PORT" envDefault:"8082"`
	LogLevel           string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat          string `env:"LOG_FORMAT" envDefault:"text"`
}

// LoadDiscord loads the bot configuration
func LoadDiscord() (*DiscordConfig, error) {
	_ = godotenv.Load()

	cfg := &DiscordConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgParseEnv, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
