package auth_test

import (
	"testing"
	"time"

	"tiffin-api/apperrors"
	"tiffin-api/auth"
	"tiffin-api/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_IssueAndResolve(t *testing.T) {
	clock := newClock()
	tokens := auth.NewTokenService([]byte("test-secret"), 0).WithClock(clock.Now)

	user := &models.User{ID: 42, Name: "Asha", Phone: "+911", Email: "asha@x.com", Role: models.RoleDeliveryPartner}
	token, err := tokens.IssueToken(user)
	require.NoError(t, err)

	session, err := tokens.ResolveToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), session.UserID)
	assert.Equal(t, models.RoleDeliveryPartner, session.Role)
	assert.Equal(t, "Asha", session.Name)
	assert.Equal(t, "+911", session.Phone)
	assert.Equal(t, 24*time.Hour, session.ExpiresAt.Sub(session.IssuedAt))
}

func TestTokenService_ResolveFailures(t *testing.T) {
	clock := newClock()
	tokens := auth.NewTokenService([]byte("test-secret"), 0).WithClock(clock.Now)
	good, err := tokens.IssueToken(&models.User{ID: 1, Role: models.RoleCustomer})
	require.NoError(t, err)

	other := auth.NewTokenService([]byte("other-secret"), 0).WithClock(clock.Now)
	forged, err := other.IssueToken(&models.User{ID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)

	roleless, err := tokens.IssueToken(&models.User{ID: 1})
	require.NoError(t, err)
	unknownRole, err := tokens.IssueToken(&models.User{ID: 1, Role: "SUPERUSER"})
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"id": 1, "role": "ADMIN"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"missing", "", apperrors.ErrAccessTokenRequired},
		{"garbage", "not-a-token", apperrors.ErrInvalidToken},
		{"wrong secret", forged, apperrors.ErrInvalidToken},
		{"alg none", unsigned, apperrors.ErrInvalidToken},
		{"tampered", good[:len(good)-2] + "xx", apperrors.ErrInvalidToken},
		{"no role", roleless, apperrors.ErrInvalidToken},
		{"unknown role", unknownRole, apperrors.ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tokens.ResolveToken(tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTokenService_Expiry(t *testing.T) {
	clock := newClock()
	tokens := auth.NewTokenService([]byte("test-secret"), 0).WithClock(clock.Now)
	token, err := tokens.IssueToken(&models.User{ID: 7, Role: models.RoleCustomer})
	require.NoError(t, err)

	clock.Advance(23 * time.Hour)
	_, err = tokens.ResolveToken(token)
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)
	_, err = tokens.ResolveToken(token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
