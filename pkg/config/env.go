package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvSlotPageSize       = "SLOT_PAGE_SIZE"
	EnvMutationPause      = "MUTATION_PAUSE"
	EnvMutationBatchPause = "MUTATION_BATCH_PAUSE"
	EnvMutationBatchSize  = "MUTATION_BATCH_SIZE"

	EnvRetryMaxAttempts = "RETRY_MAX_ATTEMPTS"
	EnvRetryBaseDelay   = "RETRY_BASE_DELAY"
	EnvRetryMultiplier  = "RETRY_MULTIPLIER"

	EnvPublicWindowWeeks = "PUBLIC_WINDOW_WEEKS"

	EnvKafkaBrokers       = "KAFKA_BROKERS"
	EnvKafkaBookingsTopic = "KAFKA_BOOKINGS_TOPIC"
)
