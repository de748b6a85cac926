package middleware

import (
	"strings"

	"tiffin-api/apperrors"
	"tiffin-api/auth"
	"tiffin-api/models"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// AuthRequired resolves the bearer token into a Session. A missing token
// answers 401; a malformed header or a bad or expired token 403.
func AuthRequired(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			Abort(c, err)
			return
		}
		session, err := tokens.ResolveToken(token)
		if err != nil {
			Abort(c, err)
			return
		}
		c.Set(sessionKey, session)
		c.Next()
	}
}

// RoleRequired enforces that the caller has one of the allowed roles.
func RoleRequired(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := auth.Authorize(GetSession(c), roles...); err != nil {
			Abort(c, err)
			return
		}
		c.Next()
	}
}

// GetSession extracts the caller's session, nil when unauthenticated.
func GetSession(c *gin.Context) *auth.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	s, _ := v.(*auth.Session)
	return s
}

// Abort answers with the error envelope for err and stops the chain.
func Abort(c *gin.Context, err error) {
	httpErr := apperrors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= 500 {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// bearerToken returns "" when no credentials were sent. A header using any
// other scheme is an invalid token, not a missing one.
func bearerToken(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", nil
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", apperrors.ErrInvalidToken
	}
	return strings.TrimSpace(token), nil
}
