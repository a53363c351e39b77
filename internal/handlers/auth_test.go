package handlers

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trailbook/trailbook-backend/internal/models"
)

func TestAuthResponseEnvelope(t *testing.T) {
	id := uuid.MustParse("2f9d9a6e-5a1c-4a3f-9b6e-0d2f4c8a1b3c")
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	raw, err := json.Marshal(AuthResponse{
		Success: true,
		Message: "Login successful",
		User: &models.User{
			ID:        id,
			Email:     "trail@example.com",
			CreatedAt: created,
		},
		Token: "tok",
	})
	require.NoError(t, err)

	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &envelope))

	assert.Equal(t, true, envelope["success"])
	assert.Equal(t, "tok", envelope["token"])

	user, ok := envelope["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, id.String(), user["id"])
	assert.Equal(t, "trail@example.com", user["email"])
	assert.Contains(t, user, "created_at")
}

func TestAuthResponseOmitsEmptyUser(t *testing.T) {
	raw, err := json.Marshal(AuthResponse{Success: true, Message: "Signed out"})
	require.NoError(t, err)

	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &envelope))
	assert.NotContains(t, envelope, "user")
	assert.NotContains(t, envelope, "token")
}
