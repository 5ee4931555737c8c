package constants

import "time"

const (
	DefaultRequestTimeout = 10 * time.Second
	DefaultTimeout        = 5 * time.Second
	ShutdownTimeout       = 15 * time.Second
	SweepTimeout          = 2 * time.Minute
)

// Echo context keys
const (
	ContextTokenData      = "token_data"
	ContextRequestContext = "request_context"
)

// Database pool defaults
const (
	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 10
	DatabaseConnMaxLifetime = 30 // minutes
)

// Redis keys
const (
	RedisKeyActingMode = "session:mode:"
	ActingModeTTL      = 30 * 24 * time.Hour
)

// Pagination defaults
const (
	DefaultPageNumber = 1
	DefaultPageSize   = 20
	MaxPageSize       = 100
)

// Queue task types
const (
	TaskParticipantInvited = "participant:invited"
	TaskEventStatusChanged = "event:status_changed"
	TaskParticipantJoined  = "participant:joined"
	QueueDefault           = "default"
)
