package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort     string `mapstructure:"APP_PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	Database    string `mapstructure:"DATABASE_NAME"`
	Env         string `mapstructure:"ENV"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	MaxRequestsPerMin int `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisLockDB   int    `mapstructure:"REDIS_LOCK_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Booking engine policy knobs.
	MaxOccurrences    int `mapstructure:"MAX_OCCURRENCES"`     // hard ceiling for recurrence expansion
	LockTTLSeconds    int `mapstructure:"LOCK_TTL_SECONDS"`    // resource lock lease
	LockWaitMillis    int `mapstructure:"LOCK_WAIT_MILLIS"`    // max time to wait for a resource lock
	CancelCutoffMins  int `mapstructure:"CANCEL_CUTOFF_MINS"`  // minutes before start after which cancellation closes (0 = until start)
	CompletionSweep   int `mapstructure:"COMPLETION_SWEEP"`    // backstop sweep interval in minutes
	CompletionEnabled bool `mapstructure:"COMPLETION_ENABLED"` // run the asynq completion worker
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "deskhive")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_LOCK_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("MAX_OCCURRENCES", 366)
	viper.SetDefault("LOCK_TTL_SECONDS", 10)
	viper.SetDefault("LOCK_WAIT_MILLIS", 2000)
	viper.SetDefault("CANCEL_CUTOFF_MINS", 0)
	viper.SetDefault("COMPLETION_SWEEP", 10)
	viper.SetDefault("COMPLETION_ENABLED", true)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
