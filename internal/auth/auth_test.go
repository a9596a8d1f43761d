package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdelacroix/cinetheque/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	a := New("test-secret", time.Hour)
	user := &models.User{ID: uuid.New(), IsAdmin: true}

	token, err := a.GenerateToken(user)
	require.NoError(t, err)

	claims, err := a.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID())
	assert.True(t, claims.IsAdmin)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := New("secret-a", time.Hour).GenerateToken(&models.User{ID: uuid.New()})
	require.NoError(t, err)

	_, err = New("secret-b", time.Hour).ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	a := New("test-secret", -time.Minute)
	token, err := a.GenerateToken(&models.User{ID: uuid.New()})
	require.NoError(t, err)

	_, err = a.ParseToken(token)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
