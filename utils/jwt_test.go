package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskhive/config"
	"taskhive/models"
)

func TestGenerateAndParseJWTToken(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"

	user := &models.User{Role: models.RoleAdmin}
	user.ID = 42

	tokenString, err := GenerateJWTToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := ParseJWTToken(tokenString)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	remaining := time.Until(claims.ExpiresAt.Time)
	assert.Greater(t, remaining, 23*time.Hour)
	assert.LessOrEqual(t, remaining, TokenTTL)
}

func TestParseJWTTokenRejectsWrongSecret(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"

	user := &models.User{Role: models.RoleUser}
	user.ID = 7

	tokenString, err := GenerateJWTToken(user)
	require.NoError(t, err)

	config.AppConfig.JWTSecret = "another-secret"
	_, err = ParseJWTToken(tokenString)
	assert.Error(t, err)
}

func TestParseDeadline(t *testing.T) {
	deadline, err := ParseDeadline("2026-12-31")
	require.NoError(t, err)
	require.NotNil(t, deadline)
	assert.Equal(t, 2026, deadline.Year())
	assert.Equal(t, time.December, deadline.Month())

	deadline, err = ParseDeadline("2026-12-31T15:04:05Z")
	require.NoError(t, err)
	require.NotNil(t, deadline)
	assert.Equal(t, 15, deadline.Hour())

	deadline, err = ParseDeadline("")
	require.NoError(t, err)
	assert.Nil(t, deadline)

	_, err = ParseDeadline("31/12/2026")
	assert.Error(t, err)
}
