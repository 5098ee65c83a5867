package domain

import "time"

// Audit event kinds recorded by the security audit trail.
const (
	AuditLogin        = "login"
	AuditLoginFailed  = "login_failed"
	AuditRegister     = "register"
	AuditRatingSubmit = "rating_submitted"
	AuditRoleChange   = "role_changed"
)

// AuditEvent is an append-only record of a security-relevant action.
// Subject is the acting username ("anonymous" when none resolved).
type AuditEvent struct {
	Subject   string
	Kind      string
	Detail    string
	Timestamp time.Time
}
