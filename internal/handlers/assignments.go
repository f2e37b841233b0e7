package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/bizsuite/internal/crm"
	"github.com/charlesng35/bizsuite/internal/middleware"
	"github.com/charlesng35/bizsuite/internal/permissions"
	"github.com/charlesng35/bizsuite/internal/services"
	appErrors "github.com/charlesng35/bizsuite/pkg/errors"
	"github.com/charlesng35/bizsuite/pkg/response"
)

// AssignmentHandler manages explicit entity grants. The guarding module is
// derived from the entity type, so checks run inline rather than as route
// middleware.
type AssignmentHandler struct {
	svc   *services.AssignmentService
	authz middleware.Evaluator
}

func NewAssignmentHandler(svc *services.AssignmentService, authz middleware.Evaluator) *AssignmentHandler {
	return &AssignmentHandler{svc: svc, authz: authz}
}

type createAssignmentRequest struct {
	EntityType     string `json:"entity_type" validate:"required,max=32"`
	EntityID       uint   `json:"entity_id" validate:"required,gt=0"`
	AssignedToType string `json:"assigned_to_type" validate:"required,oneof=user team"`
	AssignedToID   uint   `json:"assigned_to_id" validate:"required,gt=0"`
	Notes          string `json:"notes" validate:"omitempty,max=1024"`
}

// POST /api/assignments
func (h *AssignmentHandler) Create(c *gin.Context) {
	var body createAssignmentRequest
	if !bindAndValidate(c, &body) {
		return
	}
	entityType := strings.TrimSpace(body.EntityType)
	if !h.authorizeAssign(c, entityType) || !h.authorizeEntity(c, entityType, body.EntityID) {
		return
	}

	assignment, err := h.svc.Assign(requestContext(c), services.AssignInput{
		EntityType:   entityType,
		EntityID:     body.EntityID,
		AssigneeType: body.AssignedToType,
		AssigneeID:   body.AssignedToID,
		Notes:        body.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// GET /api/assignments?entity_type=&entity_id=
func (h *AssignmentHandler) List(c *gin.Context) {
	entityType := strings.TrimSpace(c.Query("entity_type"))
	entityID, err := strconv.ParseUint(c.Query("entity_id"), 10, 64)
	if entityType == "" || err != nil || entityID == 0 {
		response.Error(c, appErrors.NewBadRequest("entity_type and entity_id are required"))
		return
	}
	if _, ok := crm.ModuleFor(entityType); !ok {
		response.Error(c, services.ErrEntityTypeUnknown)
		return
	}
	if !h.authorizeEntity(c, entityType, uint(entityID)) {
		return
	}

	rows, err := h.svc.List(requestContext(c), entityType, uint(entityID))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, rows)
}

// DELETE /api/assignments/:id
func (h *AssignmentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	assignment, err := h.svc.Get(requestContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !h.authorizeAssign(c, assignment.EntityType) || !h.authorizeEntity(c, assignment.EntityType, assignment.EntityID) {
		return
	}

	if err := h.svc.Delete(requestContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *AssignmentHandler) authorizeAssign(c *gin.Context, entityType string) bool {
	module, ok := crm.ModuleFor(entityType)
	if !ok {
		response.Error(c, services.ErrEntityTypeUnknown)
		return false
	}
	if !h.authz.HasPermission(requestContext(c), module, permissions.ActionAssign) {
		response.Error(c, appErrors.NewForbidden(fmt.Sprintf("permission denied: %s on %s", permissions.ActionAssign, module)))
		return false
	}
	return true
}

func (h *AssignmentHandler) authorizeEntity(c *gin.Context, entityType string, entityID uint) bool {
	if !h.authz.HasEntityAccess(requestContext(c), entityType, entityID) {
		response.Error(c, appErrors.NewForbidden("access denied to "+entityType))
		return false
	}
	return true
}
