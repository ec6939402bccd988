package controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	"Fastbreak/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/v1/users", "", gin.H{
		"username": "Jordan",
		"email":    "Jordan@Example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Response struct {
			ID       uint   `json:"id"`
			PublicID string `json:"public_id"`
			Username string `json:"username"`
			Email    string `json:"email"`
		} `json:"response"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotZero(t, created.Response.ID)
	assert.NotEmpty(t, created.Response.PublicID)
	assert.Equal(t, "jordan", created.Response.Username, "identities are lowercased")
	assert.Equal(t, "jordan@example.com", created.Response.Email)

	// Passwords are stored hashed, never verbatim.
	var stored models.User
	require.NoError(t, s.DB.First(&stored, created.Response.ID).Error)
	assert.NotEqual(t, "password123", stored.Password)

	w = doJSON(t, s, http.MethodPost, "/api/v1/login", "", gin.H{
		"email":    "jordan@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var login struct {
		Response struct {
			Token    string `json:"token"`
			ID       uint   `json:"id"`
			Username string `json:"username"`
			IsAdmin  bool   `json:"is_admin"`
		} `json:"response"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	assert.NotEmpty(t, login.Response.Token)
	assert.Equal(t, created.Response.ID, login.Response.ID)
	assert.False(t, login.Response.IsAdmin)

	// The token opens authenticated routes.
	w = doJSON(t, s, http.MethodGet, "/api/v1/leagues", login.Response.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s := newTestServer(t)
	createTestUser(t, s, "jordan", false)

	w := doJSON(t, s, http.MethodPost, "/api/v1/login", "", gin.H{
		"email":    "jordan@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doJSON(t, s, http.MethodPost, "/api/v1/login", "", gin.H{
		"email":    "nobody@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doJSON(t, s, http.MethodPost, "/api/v1/login", "", gin.H{
		"email": "not-an-email", "password": "password123",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestRegistrationValidation(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/v1/users", "", gin.H{
		"username": "shorty",
		"email":    "shorty@example.com",
		"password": "abc",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "at least 6 characters")

	// The admin flag cannot be smuggled in at registration.
	w = doJSON(t, s, http.MethodPost, "/api/v1/users", "", gin.H{
		"username": "sneaky",
		"email":    "sneaky@example.com",
		"password": "password123",
		"is_admin": true,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var stored models.User
	require.NoError(t, s.DB.Where("username = ?", "sneaky").First(&stored).Error)
	assert.False(t, stored.IsAdmin)
}

func TestGetTeams(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/v1/teams", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Response []models.Team `json:"response"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Response, 30)

	east, west := 0, 0
	for _, team := range envelope.Response {
		switch team.Conference {
		case models.ConferenceEast:
			east++
		case models.ConferenceWest:
			west++
		}
		assert.NotEmpty(t, team.Tricode)
		assert.NotEmpty(t, team.LogoURL)
		assert.Positive(t, team.Seed)
	}
	assert.Equal(t, 15, east)
	assert.Equal(t, 15, west)
}
