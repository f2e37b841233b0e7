package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/bizsuite/internal/handlers/testutil"
	"github.com/charlesng35/bizsuite/internal/permissions"
)

type recordPayload struct {
	ID      uint   `json:"id"`
	OwnerID uint   `json:"owner_id"`
	Name    string `json:"name"`
}

func createRecord(t *testing.T, env *testutil.Env, token, path, name string) recordPayload {
	t.Helper()
	w := env.Request(http.MethodPost, path, map[string]any{"name": name}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var rec recordPayload
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &rec)
	return rec
}

func listRecords(t *testing.T, env *testutil.Env, token, path string) []recordPayload {
	t.Helper()
	w := env.Request(http.MethodGet, path, nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out []recordPayload
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &out)
	return out
}

func TestRecordOwnershipAndReassign(t *testing.T) {
	env := testutil.NewEnv(t)
	alice := env.CreateUser(permissions.RoleUser)
	bob := env.CreateUser(permissions.RoleUser)
	aliceToken, bobToken := env.Token(alice), env.Token(bob)

	lead := createRecord(t, env, aliceToken, "/api/leads", "Initech")
	require.Equal(t, alice.ID, lead.OwnerID)
	leadPath := fmt.Sprintf("/api/leads/%d", lead.ID)

	w := env.Request(http.MethodGet, leadPath, nil, aliceToken)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.Request(http.MethodGet, leadPath, nil, bobToken)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, "access denied to lead", testutil.DecodeResponse(t, w).Error.Message)
	require.Empty(t, listRecords(t, env, bobToken, "/api/leads"))

	w = env.Request(http.MethodPatch, leadPath+"/owner", map[string]any{"owner_id": bob.ID}, aliceToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.Request(http.MethodGet, leadPath, nil, bobToken)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.Request(http.MethodGet, leadPath, nil, aliceToken)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestRecordValidationAndGuards(t *testing.T) {
	env := testutil.NewEnv(t)
	user := env.Token(env.CreateUser(permissions.RoleUser))
	reader := env.Token(env.CreateUser(permissions.RoleReadOnly))
	admin := env.Token(env.CreateUser(permissions.RoleAdmin))

	w := env.Request(http.MethodPost, "/api/contacts", map[string]any{"email": "x@example.com"}, user)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "name is required", testutil.DecodeResponse(t, w).Error.Message)

	w = env.Request(http.MethodPost, "/api/contacts", map[string]any{"name": "Pat"}, reader)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, "permission denied: create on contacts", testutil.DecodeResponse(t, w).Error.Message)

	w = env.Request(http.MethodGet, "/api/contacts/not-a-number", nil, user)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = env.Request(http.MethodGet, "/api/contacts", nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Admins pass the access check, so a missing record is a plain 404.
	w = env.Request(http.MethodGet, "/api/contacts/999", nil, admin)
	require.Equal(t, http.StatusNotFound, w.Code)

	// Users cannot create accounts by default, managers can.
	w = env.Request(http.MethodPost, "/api/accounts", map[string]any{"name": "Umbrella"}, user)
	require.Equal(t, http.StatusForbidden, w.Code)
	manager := env.Token(env.CreateUser(permissions.RoleManager))
	createRecord(t, env, manager, "/api/accounts", "Umbrella")
	require.Len(t, listRecords(t, env, manager, "/api/accounts"), 1)
}
