package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	iauth "github.com/charlesng35/bizsuite/internal/auth"
	"github.com/charlesng35/bizsuite/internal/models"
	"github.com/charlesng35/bizsuite/internal/permissions"
)

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	jwtSvc, err := iauth.NewJWTService(iauth.JWTConfig{
		Secret:         "test-suite-super-secret-key-32-bytes!!",
		Issuer:         "test-suite",
		AccessTokenTTL: time.Minute,
	})
	require.NoError(t, err)

	users := stubUsers{
		7: {BaseModel: models.BaseModel{ID: 7}, Username: "mia", Role: "Manager", IsActive: true},
		8: {BaseModel: models.BaseModel{ID: 8}, Username: "old", Role: "User", IsActive: false},
	}

	r := gin.New()
	r.GET("/secure", Auth(jwtSvc, users), func(c *gin.Context) {
		principal, ok := permissions.PrincipalFromContext(c.Request.Context())
		require.True(t, ok)
		user, ok := CurrentUser(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{
			"user_id":  principal.UserID,
			"role":     string(principal.Role),
			"username": user.Username,
		})
	})

	call := func(header string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/secure", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		r.ServeHTTP(w, req)
		return w
	}

	w := call("")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))

	require.Equal(t, http.StatusUnauthorized, call("Bearer not-a-token").Code)

	// The token claims User but the stored role wins.
	token, _, err := jwtSvc.GenerateAccessToken(7, "User")
	require.NoError(t, err)
	w = call("Bearer " + token)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"user_id":7,"role":"Manager","username":"mia"}`, w.Body.String())

	inactive, _, err := jwtSvc.GenerateAccessToken(8, "User")
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, call("Bearer "+inactive).Code)

	missing, _, err := jwtSvc.GenerateAccessToken(99, "Admin")
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, call("Bearer "+missing).Code)
}
