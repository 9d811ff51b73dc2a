package constants

import "time"

// Session keys
const (
	SessionCookieName       = "board_session"
	ContextKeyUserID        = "user_id"
	SessionKeyPendingInvite = "pending_invite_token"
)

// Context keys set by middleware
const (
	ContextKeyOrganization = "organization"
	ContextKeyMembership   = "organization_member"
	ContextKeyBoard        = "board"
	ContextKeyRequestID    = "request_id"
)

// Validation limits
const (
	MinPasswordLength = 8
)

// Pagination defaults
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// InvitationTTL is the validity window of a newly created invitation.
const InvitationTTL = 7 * 24 * time.Hour
