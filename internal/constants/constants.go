package constants

// Context keys used to pass authenticated state between middleware and handlers.
const (
	ContextKeyUserID     = "user_id"
	ContextKeyUser       = "user"
	ContextKeyChat       = "chat"
	ContextKeyChatMember = "chat_member"
)

// Password policy bounds.
const (
	MinPasswordLength = 6
	MaxPasswordLength = 50
)

// Pagination defaults.
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Token lifetime defaults, in minutes.
const (
	DefaultAccessTokenTTLMinutes  = 60
	DefaultRefreshTokenTTLMinutes = 60 * 24 * 15
)

// LinkTokenLength is the length of a shareable invite link token.
const LinkTokenLength = 16
