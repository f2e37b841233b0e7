package middleware

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/bizsuite/internal/permissions"
	"github.com/charlesng35/bizsuite/pkg/errors"
	"github.com/charlesng35/bizsuite/pkg/response"
)

// Evaluator answers authorization questions for the caller in ctx.
// *permissions.Authorizer satisfies it.
type Evaluator interface {
	HasPermission(ctx context.Context, module string, action permissions.Action) bool
	HasEntityAccess(ctx context.Context, entityType string, entityID uint) bool
}

// RequirePermission allows the request through only when the caller may
// perform action on module.
func RequirePermission(evaluator Evaluator, module string, action permissions.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if _, ok := permissions.PrincipalFromContext(ctx); !ok {
			response.Abort(c, errors.ErrUnauthorized)
			return
		}
		if !evaluator.HasPermission(ctx, module, action) {
			response.Abort(c, errors.NewForbidden(fmt.Sprintf("permission denied: %s on %s", action, module)))
			return
		}
		c.Next()
	}
}

// RequireAdmin restricts a route to the Admin role. Policy and override
// writes use it so no other role can widen its own grants.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := permissions.PrincipalFromContext(c.Request.Context())
		if !ok {
			response.Abort(c, errors.ErrUnauthorized)
			return
		}
		if principal.Role != permissions.RoleAdmin {
			response.Abort(c, errors.NewForbidden("administrator role required"))
			return
		}
		c.Next()
	}
}

// RequireEntityAccess allows the request through only when the caller may
// access the entity whose ID is in the named path parameter.
func RequireEntityAccess(evaluator Evaluator, entityType, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if _, ok := permissions.PrincipalFromContext(ctx); !ok {
			response.Abort(c, errors.ErrUnauthorized)
			return
		}

		id, err := ParseID(c.Param(param))
		if err != nil {
			response.Abort(c, errors.NewBadRequest(fmt.Sprintf("invalid %s id", entityType)))
			return
		}
		if !evaluator.HasEntityAccess(ctx, entityType, id) {
			response.Abort(c, errors.NewForbidden("access denied to "+entityType))
			return
		}
		c.Next()
	}
}

// ParseID parses a positive numeric identifier.
func ParseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(id), nil
}
