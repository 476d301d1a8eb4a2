package constants

import "time"

const (
	DefaultHTTPTimeout = 10 * time.Second
)

const (
	CacheKeyPrefixDedup = "dedup:"
	CacheKeyPrefixRate  = "ratelimit:"
)

const (
	// RateBucketLayout keys the rate-limit counter by the current UTC minute.
	RateBucketLayout = "2006-01-02T15:04"
	RateBucketTTL    = 60 * time.Second
)

const (
	DefaultDedupWindowSeconds = 300
	DefaultMaxPerMinute       = 60
	DefaultContextLines       = 5
)

const (
	MaxStackFrames  = 20
	MaxRelatedFiles = 5
	MaxWalkFrames   = 15
)

const (
	RedactionMarker = "[REDACTED]"
)

const (
	ProjectHeader = "X-Faultline-Project"
)

const (
	DefaultQueueSize    = 64
	DefaultQueueWorkers = 2
)

const (
	HTTPStatusOKMin = 200
	HTTPStatusOKMax = 300
)

const (
	ShutdownTimeout = 5 * time.Second
)
