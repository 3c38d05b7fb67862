// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is everything the daemon reads from its environment. A .env file in
// the working directory is honored via godotenv autoload in main.
type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Queue.
	QueueCapacity    int           `env:"QUEUE_CAPACITY" envDefault:"64"`
	HeartbeatTimeout time.Duration `env:"QUEUE_HEARTBEAT_TIMEOUT" envDefault:"60s"`
	EvictInterval    time.Duration `env:"QUEUE_EVICT_INTERVAL" envDefault:"15s"`
	MatchInterval    time.Duration `env:"QUEUE_MATCH_INTERVAL" envDefault:"2s"`

	// Sessions.
	TurnTimeout   time.Duration `env:"TURN_TIMEOUT" envDefault:"90s"`
	FinishedTTL   time.Duration `env:"SESSION_FINISHED_TTL" envDefault:"10m"`
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"1m"`

	// WordFile overrides the embedded board word list.
	WordFile string `env:"WORD_FILE"`

	// History journal. Empty RedisAddr disables journaling.
	RedisAddr    string `env:"REDIS_ADDR"`
	RedisDB      int    `env:"REDIS_DB" envDefault:"0"`
	HistoryQueue string `env:"HISTORY_QUEUE_NAME" envDefault:"codenames_actions"`

	// Historian drain (cmd/historian).
	ArchiveFile  string        `env:"HISTORY_ARCHIVE_FILE" envDefault:"codenames_actions.jsonl"`
	ArchiveBatch int           `env:"HISTORIAN_BATCH_SIZE" envDefault:"20"`
	ArchiveFlush time.Duration `env:"HISTORIAN_FLUSH_INTERVAL" envDefault:"500ms"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
