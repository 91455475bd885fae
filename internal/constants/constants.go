package constants

// Session / context keys
const (
	ContextKeyUserID  = "user_id"
	ContextKeyRole    = "user_role"
	SessionCookieName = "gradproject_session"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Auth
const MinPasswordLength = 8

// Teams
const (
	MinTeamSize = 2
	MaxTeamSize = 5
)

// AI task suggestions
const MaxSuggestedTasks = 20
