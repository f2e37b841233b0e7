package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/bizsuite/internal/services"
	appErrors "github.com/charlesng35/bizsuite/pkg/errors"
	"github.com/charlesng35/bizsuite/pkg/response"
	appValidator "github.com/charlesng35/bizsuite/pkg/validator"
)

// RecordHandler serves one CRM record type. Module permissions and
// per-record access are enforced by route middleware; List additionally
// filters to the records the caller may see.
type RecordHandler[T any] struct {
	svc *services.RecordService[T]
}

func NewRecordHandler[T any](svc *services.RecordService[T]) *RecordHandler[T] {
	return &RecordHandler[T]{svc: svc}
}

type reassignRequest struct {
	OwnerID uint `json:"owner_id" validate:"required,gt=0"`
}

// GET /api/<records>
func (h *RecordHandler[T]) List(c *gin.Context) {
	records, err := h.svc.List(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, records)
}

// GET /api/<records>/:id
func (h *RecordHandler[T]) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	record, err := h.svc.Get(requestContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, record)
}

// POST /api/<records>
func (h *RecordHandler[T]) Create(c *gin.Context) {
	var record T
	if err := c.ShouldBindJSON(&record); err != nil {
		response.Error(c, appErrors.NewBadRequest("invalid JSON payload"))
		return
	}
	if err := appValidator.ValidateStruct(&record); err != nil {
		response.Error(c, appErrors.NewBadRequest(appValidator.Describe(err)))
		return
	}

	created, err := h.svc.Create(requestContext(c), &record)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// PATCH /api/<records>/:id/owner
func (h *RecordHandler[T]) Reassign(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body reassignRequest
	if !bindAndValidate(c, &body) {
		return
	}

	record, err := h.svc.Reassign(requestContext(c), id, body.OwnerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, record)
}
