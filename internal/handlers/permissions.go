package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/bizsuite/internal/permissions"
	"github.com/charlesng35/bizsuite/internal/services"
	appErrors "github.com/charlesng35/bizsuite/pkg/errors"
	"github.com/charlesng35/bizsuite/pkg/response"
)

type PermissionHandler struct {
	svc   *services.PermissionService
	authz *permissions.Authorizer
}

func NewPermissionHandler(svc *services.PermissionService, authz *permissions.Authorizer) *PermissionHandler {
	return &PermissionHandler{svc: svc, authz: authz}
}

type policyChangeRequest struct {
	Module  string `json:"module" validate:"required,max=64"`
	Action  string `json:"action" validate:"required,crm_action"`
	Allowed *bool  `json:"allowed" validate:"required"`
}

type rolePoliciesRequest struct {
	Changes []policyChangeRequest `json:"changes" validate:"required,min=1,dive"`
}

func (r policyChangeRequest) toChange() services.PolicyChange {
	return services.PolicyChange{
		Module:  strings.TrimSpace(r.Module),
		Action:  r.Action,
		Allowed: *r.Allowed,
	}
}

// GET /api/permissions/modules
func (h *PermissionHandler) Modules(c *gin.Context) {
	modules, err := h.svc.ListModules(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, modules)
}

// GET /api/permissions/me
func (h *PermissionHandler) Mine(c *gin.Context) {
	perms, err := h.authz.EffectivePermissions(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, perms)
}

// GET /api/permissions/check?module=&action=
func (h *PermissionHandler) Check(c *gin.Context) {
	module := strings.TrimSpace(c.Query("module"))
	action := strings.TrimSpace(c.Query("action"))
	if module == "" || action == "" {
		response.Error(c, appErrors.NewBadRequest("module and action are required"))
		return
	}

	allowed := h.authz.HasPermission(requestContext(c), module, permissions.Action(action))
	response.Success(c, http.StatusOK, gin.H{
		"module":  module,
		"action":  action,
		"allowed": allowed,
	})
}

// GET /api/permissions/roles/:role
func (h *PermissionHandler) RolePolicies(c *gin.Context) {
	rows, err := h.svc.ListRolePermissions(requestContext(c), c.Param("role"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, rows)
}

// PUT /api/permissions/roles/:role
func (h *PermissionHandler) SetRolePolicies(c *gin.Context) {
	var body rolePoliciesRequest
	if !bindAndValidate(c, &body) {
		return
	}

	changes := make([]services.PolicyChange, 0, len(body.Changes))
	for _, change := range body.Changes {
		changes = append(changes, change.toChange())
	}

	rows, err := h.svc.SetRolePermissions(requestContext(c), c.Param("role"), changes)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, rows)
}

// GET /api/permissions/users/:id/overrides
func (h *PermissionHandler) Overrides(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	rows, err := h.svc.ListOverrides(requestContext(c), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, rows)
}

// PUT /api/permissions/users/:id/overrides
func (h *PermissionHandler) SetOverride(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body policyChangeRequest
	if !bindAndValidate(c, &body) {
		return
	}

	row, err := h.svc.SetOverride(requestContext(c), userID, body.toChange())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, row)
}

// DELETE /api/permissions/users/:id/overrides?module=&action=
func (h *PermissionHandler) RevokeOverride(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	module := strings.TrimSpace(c.Query("module"))
	action := strings.TrimSpace(c.Query("action"))
	if module == "" || action == "" {
		response.Error(c, appErrors.NewBadRequest("module and action are required"))
		return
	}

	if err := h.svc.RevokeOverride(requestContext(c), userID, module, action); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"revoked": true})
}
