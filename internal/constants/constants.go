package constants

import "time"

const (
	DefaultTable          = "messages"
	DefaultBusyTimeoutMS  = 5000
	DefaultPollInterval   = 1 * time.Second
	DefaultMaxBatch       = 100
	DefaultCursorFlushN   = 50
	DefaultCursorFlushT   = 5 * time.Second
	DefaultKafkaBatchWait = 250 * time.Millisecond
)

const (
	DefaultConnectAttempts = 5
	DefaultConnectInterval = 1 * time.Second
	DefaultConnectMaxWait  = 30 * time.Second
	DefaultInsertAttempts  = 3
	DefaultInsertInterval  = 100 * time.Millisecond
	DefaultInsertMaxWait   = 2 * time.Second
	DefaultRetryMultiplier = 2.0
)

const (
	// Pause after a transient fetch error before polling the source again.
	DefaultFetchErrorWait = 1 * time.Second
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	FieldUnknown = "unknown"
)
