package server

import (
	"testing"

	"aura/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterAdministrador(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name           string
		requestBody    map[string]string
		expectedStatus int
	}{
		{
			name:           "Valid registration",
			requestBody:    map[string]string{"usuario": "carpanta", "contrasena": "secreta123"},
			expectedStatus: fiber.StatusCreated,
		},
		{
			name:           "Missing usuario",
			requestBody:    map[string]string{"contrasena": "secreta123"},
			expectedStatus: fiber.StatusBadRequest,
		},
		{
			name:           "Missing contrasena",
			requestBody:    map[string]string{"usuario": "otra"},
			expectedStatus: fiber.StatusBadRequest,
		},
		{
			name:           "Duplicate usuario",
			requestBody:    map[string]string{"usuario": "carpanta", "contrasena": "otra456"},
			expectedStatus: fiber.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := ts.app.Test(jsonRequest("POST", "/api/administradores", tt.requestBody, ""), -1)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}

	// The stored credential is a bcrypt hash, never the plaintext
	var admin models.Administrador
	require.NoError(t, ts.db.Where("usuario = ?", "carpanta").First(&admin).Error)
	assert.NotEqual(t, "secreta123", admin.ContrasenaHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.ContrasenaHash), []byte("secreta123")))
}

func TestLoginAdministrador(t *testing.T) {
	ts := newTestServer(t)

	resp, err := ts.app.Test(jsonRequest("POST", "/api/administradores",
		map[string]string{"usuario": "admin", "contrasena": "secreta123"}, ""), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	tests := []struct {
		name           string
		requestBody    map[string]string
		expectedStatus int
	}{
		{
			name:           "Valid login",
			requestBody:    map[string]string{"usuario": "admin", "contrasena": "secreta123"},
			expectedStatus: fiber.StatusOK,
		},
		{
			name:           "Wrong password",
			requestBody:    map[string]string{"usuario": "admin", "contrasena": "mala"},
			expectedStatus: fiber.StatusUnauthorized,
		},
		{
			name:           "Unknown usuario",
			requestBody:    map[string]string{"usuario": "nadie", "contrasena": "secreta123"},
			expectedStatus: fiber.StatusUnauthorized,
		},
		{
			name:           "Missing fields",
			requestBody:    map[string]string{"usuario": "admin"},
			expectedStatus: fiber.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := ts.app.Test(jsonRequest("POST", "/api/admin-login", tt.requestBody, ""), -1)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == fiber.StatusOK {
				body := decodeBody(t, resp)
				assert.NotNil(t, body["token"])
				assert.NotNil(t, body["mensaje"])
			}
		})
	}
}

func TestLoginAdministradorWrongMethod(t *testing.T) {
	ts := newTestServer(t)

	resp, err := ts.app.Test(jsonRequest("GET", "/api/admin-login", nil, ""), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusMethodNotAllowed, resp.StatusCode)
}

func TestLegacyAdminTokenOpensAdminRoutes(t *testing.T) {
	ts := newTestServer(t)

	resp, err := ts.app.Test(jsonRequest("POST", "/api/administradores",
		map[string]string{"usuario": "moderadora", "contrasena": "secreta123"}, ""), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, err = ts.app.Test(jsonRequest("POST", "/api/admin-login",
		map[string]string{"usuario": "moderadora", "contrasena": "secreta123"}, ""), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	token := decodeBody(t, resp)["token"].(string)

	resp, err = ts.app.Test(jsonRequest("GET", "/api/admin/obras/pendientes", nil, token), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
