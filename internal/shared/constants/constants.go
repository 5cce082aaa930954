package constants

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
	HeaderRetryAfter    = "Retry-After"

	// Gin context keys set by middleware.
	ContextKeyUserID       = "user_id"
	ContextKeyUserRole     = "user_role"
	ContextKeyRequestID    = "request_id"
	ContextKeyCapabilities = "capabilities"

	// Table names.
	TableDepartments     = "departments"
	TableIssueCategories = "issue_categories"
	TableIssues          = "issues"
	TableIssueUpdates    = "issue_updates"
	TableAnonymousTokens = "anonymous_tokens"
	TableProfiles        = "profiles"
	TableAccounts        = "accounts"

	// SystemActor is recorded as the author of automatic status changes.
	SystemActor = "system"
)
