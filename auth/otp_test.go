package auth_test

import (
	"testing"
	"time"

	"tiffin-api/auth"
	"tiffin-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOTPChallenge_IsExpired(t *testing.T) {
	issued := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	c := &models.OTPChallenge{Phone: "+1", Code: "111111", ExpiresAt: issued.Add(auth.DefaultOTPTTL)}

	assert.False(t, c.IsExpired(issued))
	assert.False(t, c.IsExpired(issued.Add(auth.DefaultOTPTTL)))
	assert.True(t, c.IsExpired(issued.Add(auth.DefaultOTPTTL+time.Nanosecond)))
}

func TestRandomCode(t *testing.T) {
	for range 20 {
		code, err := auth.RandomCode()
		require.NoError(t, err)
		assert.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9')
		}
	}
}
