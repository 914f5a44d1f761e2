package config

import "time"

const (
	DefaultPort     = "3000"
	DefaultLogLevel = "info"

	DefaultBackendBaseURL = "http://localhost:8080"
	DefaultBackendTimeout = 10 * time.Second

	DefaultCookieName   = "auth_token"
	DefaultUserCookieTTL  = 7 * 24 * time.Hour
	DefaultAdminCookieTTL = 24 * time.Hour

	DefaultRedisAddr     = "localhost:6379"
	DefaultWizardDraftTTL = 2 * time.Hour

	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "laundromat"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultKafkaTopic = "laundromat.events"

	DefaultRateLimitRequests = 5
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Slot generation bounds. The quantum is fixed product-wide: one
	// washing-machine turn is 30 minutes.
	DefaultSlotDurationMin   = 30
	DefaultMaxSlotCapacity   = 5
	DefaultMaxCustomCapacity = 4

	DefaultPaginationLimit = 50
)
