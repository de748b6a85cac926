package auth

import (
	"time"

	"tiffin-api/apperrors"
	"tiffin-api/models"
)

// Session is the caller identity decoded from a valid token. It is never
// stored server side.
type Session struct {
	UserID    uint
	Role      models.UserRole
	Name      string
	Phone     string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Is reports whether the session carries role.
func (s *Session) Is(role models.UserRole) bool {
	return s != nil && s.Role == role
}

// Authorize checks session against the allowed roles. A nil session is
// rejected before any role check. An empty allowed list admits any
// authenticated caller.
func Authorize(session *Session, allowed ...models.UserRole) error {
	if session == nil {
		return apperrors.ErrAccessTokenRequired
	}
	if len(allowed) == 0 {
		return nil
	}
	for _, r := range allowed {
		if session.Role == r {
			return nil
		}
	}
	return apperrors.ErrInsufficientPermissions
}
