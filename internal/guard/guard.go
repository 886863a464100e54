// Package guard decides whether a decoded session may reach a role-gated resource.
package guard

import (
	"github.com/jobnest/jobnest-backend/internal/app/model"
)

// Reason explains a Decision
type Reason string

const (
	ReasonAdmitted        Reason = "admitted"
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonForbidden       Reason = "forbidden"
)

// Session is the decoded credential of a request
type Session struct {
	UserID uint
	Email  string
	Role   model.UserRole
}

// Decision is the outcome of an admission check
type Decision struct {
	Authenticated bool
	Allowed       bool
	Reason        Reason
	Identity      uint
	Role          model.UserRole
}

// Decide admits the session when it is present, carries a known role, and that
// role is in allowed. An empty allowed set admits any authenticated session.
// Decide never mutates the session.
func Decide(session *Session, allowed ...model.UserRole) Decision {
	if session == nil || session.UserID == 0 || !session.Role.IsValid() {
		return Decision{Reason: ReasonUnauthenticated}
	}

	decision := Decision{
		Authenticated: true,
		Identity:      session.UserID,
		Role:          session.Role,
	}

	if len(allowed) == 0 {
		decision.Allowed = true
		decision.Reason = ReasonAdmitted
		return decision
	}

	for _, role := range allowed {
		if role == session.Role {
			decision.Allowed = true
			decision.Reason = ReasonAdmitted
			return decision
		}
	}

	decision.Reason = ReasonForbidden
	return decision
}

// IsOwner reports whether the session identity owns a resource
func IsOwner(session *Session, ownerID uint) bool {
	return session != nil && session.UserID != 0 && session.UserID == ownerID
}
