package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/bizsuite/internal/handlers/testutil"
	"github.com/charlesng35/bizsuite/internal/permissions"
)

func TestTeamEndpoints(t *testing.T) {
	env := testutil.NewEnv(t)
	admin := env.Token(env.CreateUser(permissions.RoleAdmin))
	member := env.CreateUser(permissions.RoleUser)
	memberToken := env.Token(member)

	w := env.Request(http.MethodPost, "/api/teams", map[string]any{"name": "Enterprise"}, memberToken)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = env.Request(http.MethodPost, "/api/teams", map[string]any{"name": "Enterprise"}, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var team struct {
		ID uint `json:"id"`
	}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &team)

	w = env.Request(http.MethodPost, "/api/teams", map[string]any{"name": "Enterprise"}, admin)
	require.Equal(t, http.StatusConflict, w.Code)

	membersPath := fmt.Sprintf("/api/teams/%d/members", team.ID)
	w = env.Request(http.MethodPost, membersPath, map[string]any{"user_id": member.ID}, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = env.Request(http.MethodPost, membersPath, map[string]any{"user_id": member.ID}, admin)
	require.Equal(t, http.StatusConflict, w.Code)
	w = env.Request(http.MethodPost, membersPath, map[string]any{"user_id": 0}, admin)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = env.Request(http.MethodGet, fmt.Sprintf("/api/teams/%d", team.ID), nil, memberToken)
	require.Equal(t, http.StatusOK, w.Code)
	var loaded struct {
		Members []map[string]any `json:"members"`
	}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &loaded)
	require.Len(t, loaded.Members, 1)

	w = env.Request(http.MethodDelete, fmt.Sprintf("%s/%d", membersPath, member.ID), nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.Request(http.MethodDelete, fmt.Sprintf("%s/%d", membersPath, member.ID), nil, admin)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = env.Request(http.MethodGet, "/api/teams/abc", nil, admin)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = env.Request(http.MethodDelete, fmt.Sprintf("/api/teams/%d", team.ID), nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.Request(http.MethodGet, fmt.Sprintf("/api/teams/%d", team.ID), nil, admin)
	require.Equal(t, http.StatusNotFound, w.Code)
}
