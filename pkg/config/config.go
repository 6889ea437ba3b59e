package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"solodesk/pkg/client"
	"solodesk/pkg/logger"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Slot engine knobs.
	SlotPageSize       int
	MutationPause      time.Duration
	MutationBatchPause time.Duration
	MutationBatchSize  int
	RetryMaxAttempts   int
	RetryBaseDelay     time.Duration
	RetryMultiplier    float64
	PublicWindowWeeks  int

	KafkaBrokers       []string
	KafkaBookingsTopic string

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		SlotPageSize:       getEnvNum(EnvSlotPageSize, DefaultSlotPageSize),
		MutationPause:      getEnvDuration(EnvMutationPause, DefaultMutationPause),
		MutationBatchPause: getEnvDuration(EnvMutationBatchPause, DefaultMutationBatchPause),
		MutationBatchSize:  getEnvNum(EnvMutationBatchSize, DefaultMutationBatchSize),
		RetryMaxAttempts:   getEnvNum(EnvRetryMaxAttempts, DefaultRetryMaxAttempts),
		RetryBaseDelay:     getEnvDuration(EnvRetryBaseDelay, DefaultRetryBaseDelay),
		RetryMultiplier:    getEnvFloat(EnvRetryMultiplier, DefaultRetryMultiplier),
		PublicWindowWeeks:  getEnvNum(EnvPublicWindowWeeks, DefaultPublicWindowWeeks),

		KafkaBrokers:       getEnvList(EnvKafkaBrokers, nil),
		KafkaBookingsTopic: getEnvStr(EnvKafkaBookingsTopic, DefaultKafkaBookingsTopic),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.FormatJSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		problems = append(problems, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		problems = append(problems, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}
	if cfg.MongoDatabaseName == "" {
		problems = append(problems, "MongoDatabaseName cannot be empty")
	}

	for name, d := range map[string]time.Duration{
		"MongoConnTimeout": cfg.MongoConnTimeout,
		"RateLimitWindow":  cfg.RateLimitWindow,
		"RequestTimeout":   cfg.RequestTimeout,
		"ReadTimeout":      cfg.ReadTimeout,
		"WriteTimeout":     cfg.WriteTimeout,
		"IdleTimeout":      cfg.IdleTimeout,
		"ShutdownTimeout":  cfg.ShutdownTimeout,
	} {
		if d <= 0 {
			problems = append(problems, fmt.Sprintf("%s must be positive, got: %s", name, d))
		}
	}

	if cfg.RateLimitRequests <= 0 {
		problems = append(problems, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		problems = append(problems, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if cfg.SlotPageSize <= 0 {
		problems = append(problems, fmt.Sprintf("SlotPageSize must be positive, got: %d", cfg.SlotPageSize))
	}
	if cfg.MutationPause < 0 || cfg.MutationBatchPause < 0 {
		problems = append(problems, "MutationPause and MutationBatchPause cannot be negative")
	}
	if cfg.MutationBatchSize <= 0 {
		problems = append(problems, fmt.Sprintf("MutationBatchSize must be positive, got: %d", cfg.MutationBatchSize))
	}
	if cfg.RetryMaxAttempts < 1 {
		problems = append(problems, fmt.Sprintf("RetryMaxAttempts must be at least 1, got: %d", cfg.RetryMaxAttempts))
	}
	if cfg.RetryBaseDelay < 0 {
		problems = append(problems, fmt.Sprintf("RetryBaseDelay cannot be negative, got: %s", cfg.RetryBaseDelay))
	}
	if cfg.RetryMultiplier < 1 {
		problems = append(problems, fmt.Sprintf("RetryMultiplier must be at least 1, got: %g", cfg.RetryMultiplier))
	}
	if cfg.PublicWindowWeeks < 1 {
		problems = append(problems, fmt.Sprintf("PublicWindowWeeks must be at least 1, got: %d", cfg.PublicWindowWeeks))
	}

	if len(problems) > 0 {
		msg := "Configuration validation failed:\n"
		for i, p := range problems {
			msg += fmt.Sprintf("  %d. %s\n", i+1, p)
		}
		return fmt.Errorf("%s", msg)
	}
	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"port", cfg.Port,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"slot_page_size", cfg.SlotPageSize,
		"mutation_pause", cfg.MutationPause,
		"mutation_batch_pause", cfg.MutationBatchPause,
		"mutation_batch_size", cfg.MutationBatchSize,
		"retry_max_attempts", cfg.RetryMaxAttempts,
		"retry_base_delay", cfg.RetryBaseDelay,
		"retry_multiplier", cfg.RetryMultiplier,
		"public_window_weeks", cfg.PublicWindowWeeks,
		"kafka_enabled", len(cfg.KafkaBrokers) > 0,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// NormalizePaginationLimit clamps a caller-supplied page size.
func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		return 10
	}
	if limit > DefaultPaginationLimit {
		return DefaultPaginationLimit
	}
	return limit
}
