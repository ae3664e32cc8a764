package config

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"medassist/pkg/client"
	"medassist/pkg/logger"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI          string        `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabaseName string        `env:"MONGO_DB" envDefault:"medical_center"`
	MongoConnTimeout  time.Duration `env:"MONGO_CONN_TIMEOUT" envDefault:"10s"`
	MongoTLS          bool          `env:"MONGO_TLS" envDefault:"true"`

	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"2h"`

	Port      string `env:"PORT" envDefault:"8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	TimeZone               string        `env:"TIME_ZONE" envDefault:"Local"`
	WeekdayMatching        string        `env:"WEEKDAY_MATCHING" envDefault:"strict"`
	EnforceUniqueSlots     bool          `env:"BOOKING_ENFORCE_UNIQUE_SLOTS" envDefault:"false"`
	BookingLockTTL         time.Duration `env:"BOOKING_LOCK_TTL" envDefault:"10s"`
	MaxConcurrentToolCalls int           `env:"MAX_CONCURRENT_TOOL_CALLS" envDefault:"40"`
	SeedDepartmentsFile    string        `env:"SEED_DEPARTMENTS_FILE"`

	RateLimitRequests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"10"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`

	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	MaxRequestSize int           `env:"MAX_REQUEST_SIZE" envDefault:"1048576"`

	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	BookingEventsTopic    string `env:"BOOKING_EVENTS_TOPIC" envDefault:"medassist.bookings"`
	BookingEventsDLQTopic string `env:"BOOKING_EVENTS_DLQ_TOPIC"`
	Kafka                 Kafka  `envPrefix:"KAFKA_"`

	Location *time.Location `env:"-"`
	Log      *logger.Logger `env:"-"`
	Client   *client.Client `env:"-"`
}

type Kafka struct {
	Enabled              bool          `env:"ENABLED" envDefault:"false"`
	Brokers              []string      `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	ProducerMaxAttempts  int           `env:"PRODUCER_MAX_ATTEMPTS" envDefault:"3"`
	ProducerBatchTimeout time.Duration `env:"PRODUCER_BATCH_TIMEOUT" envDefault:"10ms"`
	ProducerRequireAcks  int           `env:"PRODUCER_REQUIRE_ACKS" envDefault:"-1"` // -1 = all, 0 = none, 1 = leader only
	ProducerCompression  string        `env:"PRODUCER_COMPRESSION" envDefault:"snappy"`
	ProducerAsync        bool          `env:"PRODUCER_ASYNC" envDefault:"false"`
}

// Load reads .env (when present) and the process environment, validates the
// result and exits on any configuration error.
func Load(serviceName string) *Config {
	_ = godotenv.Load()

	cfg, err := Parse()
	if cfg == nil {
		logger.New(logger.Config{Service: serviceName}).Fatal("Failed to parse configuration", "error", err)
	}

	cfg.Log = logger.New(logger.Config{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		AddSource: true,
		Service:   serviceName,
	})
	cfg.Client = client.NewClient()

	if err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

// Parse builds a Config from the environment without side effects. A non-nil
// Config with a non-nil error means parsing succeeded but validation failed.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return cfg, fmt.Errorf("invalid %s %q: %w", EnvTimeZone, cfg.TimeZone, err)
	}
	cfg.Location = loc

	return cfg, cfg.Validate()
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, client.MongoOptions{
		URI:         cfg.MongoURI,
		ConnTimeout: cfg.MongoConnTimeout,
		TLS:         cfg.MongoTLS,
	})
}

// SetRedis connects the session store backend. Without REDIS_ADDR it is a no-op
// and sessions stay in process memory.
func (cfg *Config) SetRedis() {
	if cfg.RedisAddr == "" {
		cfg.Log.Warn("REDIS_ADDR not set, conversation sessions are kept in memory")
		return
	}
	cfg.Client.SetRedis(cfg.Log, client.RedisOptions{
		Addr:        cfg.RedisAddr,
		Password:    cfg.RedisPassword,
		DB:          cfg.RedisDB,
		ConnTimeout: cfg.MongoConnTimeout,
	})
}

// FoldWeekdays reports whether weekday names from callers are matched case-insensitively.
func (cfg *Config) FoldWeekdays() bool {
	return cfg.WeekdayMatching == WeekdayMatchingFold
}

// Now returns the current time in the configured location.
func (cfg *Config) Now() time.Time {
	if cfg.Location == nil {
		return time.Now()
	}
	return time.Now().In(cfg.Location)
}

func (cfg *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errs = append(errs, "MongoURI cannot be empty")
	} else if len(cfg.MongoURI) < 10 || !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errs = append(errs, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}

	if cfg.MongoDatabaseName == "" {
		errs = append(errs, "MongoDatabaseName cannot be empty")
	}

	if cfg.WeekdayMatching != WeekdayMatchingStrict && cfg.WeekdayMatching != WeekdayMatchingFold {
		errs = append(errs, fmt.Sprintf("WeekdayMatching must be one of [strict, fold], got: %s", cfg.WeekdayMatching))
	}

	positiveDurations := []struct {
		name  string
		value time.Duration
	}{
		{"MongoConnTimeout", cfg.MongoConnTimeout},
		{"SessionTTL", cfg.SessionTTL},
		{"BookingLockTTL", cfg.BookingLockTTL},
		{"RateLimitWindow", cfg.RateLimitWindow},
		{"RequestTimeout", cfg.RequestTimeout},
		{"ReadTimeout", cfg.ReadTimeout},
		{"WriteTimeout", cfg.WriteTimeout},
		{"IdleTimeout", cfg.IdleTimeout},
		{"ShutdownTimeout", cfg.ShutdownTimeout},
	}
	for _, d := range positiveDurations {
		if d.value <= 0 {
			errs = append(errs, fmt.Sprintf("%s must be positive, got: %s", d.name, d.value))
		}
	}

	if cfg.RateLimitRequests <= 0 {
		errs = append(errs, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errs = append(errs, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.MaxConcurrentToolCalls <= 0 {
		errs = append(errs, fmt.Sprintf("MaxConcurrentToolCalls must be positive, got: %d", cfg.MaxConcurrentToolCalls))
	}
	if cfg.RedisDB < 0 {
		errs = append(errs, fmt.Sprintf("RedisDB cannot be negative, got: %d", cfg.RedisDB))
	}

	if cfg.Kafka.Enabled {
		errs = append(errs, cfg.Kafka.validate(cfg.BookingEventsTopic)...)
	}

	if len(errs) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errs {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return errors.New(errMsg)
	}

	return nil
}

func (k Kafka) validate(topic string) []string {
	var errs []string

	if topic == "" {
		errs = append(errs, "BookingEventsTopic cannot be empty when Kafka is enabled")
	}
	if len(k.Brokers) == 0 {
		errs = append(errs, "At least one Kafka broker is required")
	}
	for i, broker := range k.Brokers {
		if broker == "" {
			errs = append(errs, fmt.Sprintf("Broker %d cannot be empty", i))
		}
	}
	if k.ProducerMaxAttempts <= 0 {
		errs = append(errs, fmt.Sprintf("ProducerMaxAttempts must be positive, got: %d", k.ProducerMaxAttempts))
	}
	if k.ProducerBatchTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("ProducerBatchTimeout must be positive, got: %s", k.ProducerBatchTimeout))
	}

	validCompressions := map[string]bool{
		"none": true, "gzip": true, "snappy": true, "lz4": true, "zstd": true,
	}
	if !validCompressions[k.ProducerCompression] {
		errs = append(errs, fmt.Sprintf("ProducerCompression must be one of [none, gzip, snappy, lz4, zstd], got: %s", k.ProducerCompression))
	}

	validAcks := map[int]bool{-1: true, 0: true, 1: true}
	if !validAcks[k.ProducerRequireAcks] {
		errs = append(errs, fmt.Sprintf("ProducerRequireAcks must be -1, 0, or 1, got: %d", k.ProducerRequireAcks))
	}

	return errs
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"mongo_tls", cfg.MongoTLS,
		"redis_addr", cfg.RedisAddr,
		"redis_db", cfg.RedisDB,
		"session_ttl", cfg.SessionTTL,
		"port", cfg.Port,
		"time_zone", cfg.TimeZone,
		"weekday_matching", cfg.WeekdayMatching,
		"enforce_unique_slots", cfg.EnforceUniqueSlots,
		"booking_lock_ttl", cfg.BookingLockTTL,
		"max_concurrent_tool_calls", cfg.MaxConcurrentToolCalls,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"kafka_enabled", cfg.Kafka.Enabled,
		"kafka_brokers", cfg.Kafka.Brokers,
		"booking_events_topic", cfg.BookingEventsTopic,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log)
	_ = cfg.Log.Sync()
}
