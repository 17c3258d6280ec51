package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"betboard/database"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// HTTP configuration
	HTTPAddr string

	// Ledger configuration
	StartingBalance   int64 // Points credited to every new account
	ChallengeMinRaise int64 // Amount a replacing challenge must add on top of the current challenge

	// Event forwarding
	NATSURL           string
	NATSSubjectPrefix string

	// Logging
	LogLevel  string
	LogFormat string // "text" or "json"

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = Load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	config := &Config{
		DatabaseName: os.Getenv("DATABASE_NAME"),

		HTTPAddr: os.Getenv("HTTP_ADDR"),

		StartingBalance:   100,
		ChallengeMinRaise: 1,

		NATSURL:           os.Getenv("NATS_URL"),
		NATSSubjectPrefix: os.Getenv("NATS_SUBJECT_PREFIX"),

		LogLevel:  os.Getenv("LOG_LEVEL"),
		LogFormat: os.Getenv("LOG_FORMAT"),

		Environment: os.Getenv("ENVIRONMENT"),
	}
	config.DatabaseURL = database.ConstructDatabaseURL(os.Getenv("DATABASE_URL"), config.DatabaseName)

	// Override defaults if environment variables are set
	if balance := os.Getenv("STARTING_BALANCE"); balance != "" {
		parsed, err := strconv.ParseInt(balance, 10, 64)
		if err != nil || parsed < 0 {
			return nil, fmt.Errorf("STARTING_BALANCE must be a non-negative integer, got %q", balance)
		}
		config.StartingBalance = parsed
	}
	if raise := os.Getenv("CHALLENGE_MIN_RAISE"); raise != "" {
		parsed, err := strconv.ParseInt(raise, 10, 64)
		if err != nil || parsed < 0 {
			return nil, fmt.Errorf("CHALLENGE_MIN_RAISE must be a non-negative integer, got %q", raise)
		}
		config.ChallengeMinRaise = parsed
	}

	if config.Environment == "" {
		config.Environment = "development"
	}
	if config.HTTPAddr == "" {
		config.HTTPAddr = ":8080"
	}
	if config.NATSSubjectPrefix == "" {
		config.NATSSubjectPrefix = "betboard.events"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "text"
		if config.Environment == "production" {
			config.LogFormat = "json"
		}
	}

	if config.Environment != "test" {
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}
