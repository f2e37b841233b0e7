package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/bizsuite/internal/models"
	"github.com/charlesng35/bizsuite/internal/permissions"
	"github.com/charlesng35/bizsuite/pkg/response"
)

type stubUsers map[uint]*models.User

func (s stubUsers) GetByID(_ context.Context, id uint) (*models.User, error) {
	if user, ok := s[id]; ok {
		return user, nil
	}
	return nil, errors.New("user not found")
}

type stubEvaluator struct {
	allowModule  map[string]bool
	allowEntity  map[uint]bool
	entityCalled bool
}

func (s *stubEvaluator) HasPermission(ctx context.Context, module string, action permissions.Action) bool {
	return s.allowModule[module+":"+string(action)]
}

func (s *stubEvaluator) HasEntityAccess(ctx context.Context, entityType string, entityID uint) bool {
	s.entityCalled = true
	return s.allowEntity[entityID]
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) *response.ErrorInfo {
	t.Helper()
	var payload response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.False(t, payload.Success)
	require.NotNil(t, payload.Error)
	return payload.Error
}
