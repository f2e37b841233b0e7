package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	iauth "github.com/charlesng35/bizsuite/internal/auth"
	"github.com/charlesng35/bizsuite/internal/middleware"
	"github.com/charlesng35/bizsuite/internal/models"
	"github.com/charlesng35/bizsuite/internal/permissions"
	"github.com/charlesng35/bizsuite/internal/services"
	appErrors "github.com/charlesng35/bizsuite/pkg/errors"
	"github.com/charlesng35/bizsuite/pkg/metrics"
	"github.com/charlesng35/bizsuite/pkg/response"
)

// AuthHandler issues access tokens and describes the current caller.
type AuthHandler struct {
	users *services.UserService
	jwt   *iauth.JWTService
	authz *permissions.Authorizer
}

func NewAuthHandler(users *services.UserService, jwt *iauth.JWTService, authz *permissions.Authorizer) *AuthHandler {
	return &AuthHandler{users: users, jwt: jwt, authz: authz}
}

type loginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type userPayload struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

func newUserPayload(user *models.User) userPayload {
	return userPayload{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
	}
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.users.Authenticate(requestContext(c), req.Identifier, req.Password)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		if errors.Is(err, appErrors.ErrInvalidCredentials) {
			response.Error(c, err)
			return
		}
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}

	token, _, err := h.jwt.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}
	metrics.AuthAttempts.WithLabelValues("success").Inc()

	role, _ := permissions.ParseRole(user.Role)
	perms, err := h.authz.EffectivePermissionsFor(requestContext(c), permissions.Principal{UserID: user.ID, Role: role})
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"tokens": tokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   int(h.jwt.TTL().Seconds()),
		},
		"user":        newUserPayload(user),
		"permissions": perms,
	})
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	perms, err := h.authz.EffectivePermissions(requestContext(c))
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":        newUserPayload(user),
		"permissions": perms,
	})
}
