package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "solodesk"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	// Regeneration can legitimately run for minutes when the slot set is
	// large; the request timeout has to cover a full delete-and-create cycle.
	DefaultRequestTimeout = 5 * time.Minute
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout = 15 * time.Second
	// WriteTimeout must outlast the request timeout or the server cuts off
	// long-running regeneration responses mid-write.
	DefaultWriteTimeout    = 6 * time.Minute
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Batch mutation pacing, tuned against the store's rate limiter:
	// a short pause after every operation and a longer one every eighth.
	DefaultSlotPageSize       = 100
	DefaultMutationPause      = 400 * time.Millisecond
	DefaultMutationBatchPause = 1200 * time.Millisecond
	DefaultMutationBatchSize  = 8

	DefaultRetryMaxAttempts = 5
	DefaultRetryBaseDelay   = 200 * time.Millisecond
	DefaultRetryMultiplier  = 1.8

	// How far ahead the public page lists open slots.
	DefaultPublicWindowWeeks = 12

	DefaultKafkaBookingsTopic = "solodesk.bookings.submitted"

	DefaultPaginationLimit = 100
)
