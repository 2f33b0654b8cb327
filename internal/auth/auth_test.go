package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vidronox/fleetcheck/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNewService(t *testing.T) {
	service := NewService("test-secret", "")
	assert.NotNil(t, service)
	assert.NotEmpty(t, service.jwtSecret)
	assert.Equal(t, 24*time.Hour, service.tokenExp)

	service = NewService("test-secret", "2h")
	assert.Equal(t, 2*time.Hour, service.tokenExp)

	// Malformed expiry falls back to the default
	service = NewService("test-secret", "soon")
	assert.Equal(t, 24*time.Hour, service.tokenExp)
}

func TestService_HashPassword(t *testing.T) {
	service := NewService("test-secret", "")

	password := "testpassword123"
	hash, err := service.HashPassword(password)

	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)
}

func TestService_CheckPassword(t *testing.T) {
	service := NewService("test-secret", "")

	password := "testpassword123"
	hash, _ := service.HashPassword(password)

	// Test correct password
	assert.True(t, service.CheckPassword(password, hash))

	// Test incorrect password
	assert.False(t, service.CheckPassword("wrongpassword", hash))
}

func TestService_GenerateToken(t *testing.T) {
	service := NewService("test-secret", "")

	profile := &models.Profile{
		ID:       primitive.NewObjectID(),
		Username: "joao.silva",
		FullName: "João Silva",
		Role:     models.RoleDriver,
	}

	token, err := service.GenerateToken(profile)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestService_ValidateToken(t *testing.T) {
	service := NewService("test-secret", "")

	profile := &models.Profile{
		ID:       primitive.NewObjectID(),
		Username: "ana.supervisora",
		FullName: "Ana Supervisora",
		Role:     models.RoleSupervisor,
	}

	t.Run("valid token", func(t *testing.T) {
		token, _ := service.GenerateToken(profile)
		claims, err := service.ValidateToken(token)

		assert.NoError(t, err)
		assert.Equal(t, profile.ID.Hex(), claims.UserID)
		assert.Equal(t, profile.Username, claims.Username)
		assert.Equal(t, profile.FullName, claims.FullName)
		assert.Equal(t, models.RoleSupervisor, claims.Role)
	})

	t.Run("bearer prefix stripped", func(t *testing.T) {
		token, _ := service.GenerateToken(profile)
		claims, err := service.ValidateToken("Bearer " + token)

		assert.NoError(t, err)
		assert.Equal(t, profile.Username, claims.Username)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := service.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("token from another secret", func(t *testing.T) {
		other := NewService("other-secret", "")
		token, _ := other.GenerateToken(profile)

		_, err := service.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := NewService("test-secret", "-1h")
		token, _ := expired.GenerateToken(profile)

		_, err := service.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})
}

func TestService_ExtractTokenFromHeader(t *testing.T) {
	service := NewService("test-secret", "")

	token, err := service.ExtractTokenFromHeader("Bearer abc123")
	assert.NoError(t, err)
	assert.Equal(t, "abc123", token)

	_, err = service.ExtractTokenFromHeader("")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = service.ExtractTokenFromHeader("Basic abc123")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = service.ExtractTokenFromHeader("Bearer")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_ValidatePassword(t *testing.T) {
	service := NewService("test-secret", "")

	assert.Error(t, service.ValidatePassword("short"))
	assert.NoError(t, service.ValidatePassword("longenough"))
}

func TestService_ValidateUsername(t *testing.T) {
	service := NewService("test-secret", "")

	assert.Error(t, service.ValidateUsername("ab"))
	assert.NoError(t, service.ValidateUsername("joao.silva"))
}
