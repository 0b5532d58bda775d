package constant

import (
	"time"
)

const (
	ContextGuest = "guest"
	ActorSystem  = "system"
)

// Context key types to avoid collisions
type contextKey string

const (
	ContextKeyUserID    contextKey = "user_id"
	ContextKeyUserEmail contextKey = "user_email"
	ContextKeyUserRole  contextKey = "user_role"
	ContextKeyTokenID   contextKey = "token_id"
)

const (
	RoleSuperAdmin = "superadmin"
	RoleAdmin      = "admin"
	RoleHod        = "hod"
	RoleUser       = "user"
)

const (
	RequestParamPage    = "page"
	RequestParamLimit   = "limit"
	RequestParamSortBy  = "sort_by"
	RequestParamSortDir = "sort_dir"
)

const (
	RequestParamID         = "id"
	RequestParamResourceID = "resourceID"
	RequestParamDate       = "date"
	RequestParamStart      = "start"
	RequestParamEnd        = "end"
	RequestParamFrom       = "from"
	RequestParamDuration   = "duration_hours"
	RequestParamMinGap     = "min_gap_minutes"
	RequestParamStatus     = "status"
	RequestParamKind       = "kind"
	RequestParamResources  = "resource_ids"
	RequestParamDays       = "days"
)

const (
	DefaultValuePage    = 1
	DefaultValueLimit   = 10
	DefaultValueSortBy  = "created_at"
	DefaultValueSortDir = "DESC"
)

const (
	FieldCreatedAt  = "created_at"
	FieldCreatedBy  = "created_by"
	FieldModifiedAt = "modified_at"
	FieldModifiedBy = "modified_by"
)

const (
	DateFormat    = time.RFC3339
	DayFormat     = time.DateOnly
	HourMinFormat = "15:04"
)

const (
	MinutesToSeconds = 60
	HoursInDay       = 24
)

const (
	OtelServiceScopeName    = "service"
	OtelRepositoryScopeName = "repository"
	OtelHandlerScopeName    = "handler"
	OtelEventScopeName      = "event"
	OtelExternalScopeName   = "external"
	OtelWorkerScopeName     = "worker"

	OtelQueryAttributeKey = "query"
	OtelS3ScopeName       = "s3"
	OtelKafkaScopeName    = "kafka"
)

const (
	CachePrefixResource        = "resource"
	CachePrefixResourceGets    = "resource:gets"
	CachePrefixResourceCount   = "resource:count"
	CachePrefixAvailabilityDay = "availability:day"
	CachePrefixOccupancy       = "availability:occupancy"
	CacheKeyDashboardExport    = "dashboard:export:latest"
	CachePrefixRateLimit       = "ratelimit"
)

const (
	RequestHeaderAuthorization      = "Authorization"
	RequestHeaderContentType        = "Content-Type"
	RequestHeaderRateLimit          = "X-RateLimit-Limit"
	RequestHeaderRateLimitRemaining = "X-RateLimit-Remaining"
	RequestHeaderRateLimitWindow    = "X-RateLimit-Window"
	RequestHeaderRequestID          = "X-Request-ID"
	RequestHeaderRetryAfter         = "Retry-After"
	RequestHeaderAPIKey             = "X-API-Key"
)

const (
	ContentTypeJSON = "application/json"
)

const (
	ResponseErrorPrepareShutdown      = "SERVER PREPARING TO SHUT DOWN"
	ResponseErrorRequestLimitExceeded = "REQUEST LIMIT EXCEEDED"
)

const (
	ServerEnvDevelopment = "development"
	ServerEnvProduction  = "production"
)

const (
	Asterix = "*"
	Empty   = ""
)
