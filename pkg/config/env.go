package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DB"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"
	EnvMongoTLS          = "MONGO_TLS"

	EnvRedisAddr     = "REDIS_ADDR"
	EnvRedisPassword = "REDIS_PASSWORD"
	EnvRedisDB       = "REDIS_DB"
	EnvSessionTTL    = "SESSION_TTL"

	EnvPort      = "PORT"
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"

	EnvTimeZone               = "TIME_ZONE"
	EnvWeekdayMatching        = "WEEKDAY_MATCHING"
	EnvEnforceUniqueSlots     = "BOOKING_ENFORCE_UNIQUE_SLOTS"
	EnvBookingLockTTL         = "BOOKING_LOCK_TTL"
	EnvMaxConcurrentToolCalls = "MAX_CONCURRENT_TOOL_CALLS"
	EnvSeedDepartmentsFile    = "SEED_DEPARTMENTS_FILE"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvKafkaEnabled          = "KAFKA_ENABLED"
	EnvKafkaBrokers          = "KAFKA_BROKERS"
	EnvBookingEventsTopic    = "BOOKING_EVENTS_TOPIC"
	EnvBookingEventsDLQTopic = "BOOKING_EVENTS_DLQ_TOPIC"
)

const (
	WeekdayMatchingStrict = "strict"
	WeekdayMatchingFold   = "fold"
)
