package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/bizsuite/internal/handlers/testutil"
	"github.com/charlesng35/bizsuite/internal/permissions"
)

func TestLoginAndMe(t *testing.T) {
	env := testutil.NewEnv(t)
	user := env.CreateUser(permissions.RoleUser)

	result := env.Login(user.Username, testutil.DefaultPassword)
	require.Equal(t, "Bearer", result.Tokens.TokenType)
	require.Equal(t, "User", result.User.Role)
	require.Contains(t, result.Permissions[permissions.ModuleLeads], "create")
	require.NotContains(t, result.Permissions[permissions.ModuleInvoices], "create")

	w := env.Request(http.MethodGet, "/api/auth/me", nil, result.Tokens.AccessToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var me struct {
		User        testutil.UserPayload `json:"user"`
		Permissions map[string][]string  `json:"permissions"`
	}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &me)
	require.Equal(t, user.ID, me.User.ID)
	require.NotEmpty(t, me.Permissions)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := testutil.NewEnv(t)
	user := env.CreateUser(permissions.RoleUser)

	w := env.Request(http.MethodPost, "/api/auth/login", map[string]string{
		"identifier": user.Username,
		"password":   "wrong-password",
	}, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.Request(http.MethodPost, "/api/auth/login", map[string]string{"identifier": user.Username}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "password is required", testutil.DecodeResponse(t, w).Error.Message)
}

func TestMeReflectsRoleChangesImmediately(t *testing.T) {
	env := testutil.NewEnv(t)
	user := env.CreateUser(permissions.RoleUser)
	token := env.Token(user)

	require.NoError(t, env.DB.Model(user).Update("role", "ReadOnly").Error)

	w := env.Request(http.MethodGet, "/api/auth/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var me struct {
		User testutil.UserPayload `json:"user"`
	}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &me)
	require.Equal(t, "ReadOnly", me.User.Role)

	require.NoError(t, env.DB.Model(user).Update("is_active", false).Error)
	w = env.Request(http.MethodGet, "/api/auth/me", nil, token)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	env := testutil.NewEnv(t)

	w := env.Request(http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"status":"up"`)
	require.Contains(t, w.Body.String(), `"component":"permission_catalog"`)

	w = env.Request(http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "bizsuite_api_latency_seconds")
}
