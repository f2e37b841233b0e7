package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/bizsuite/internal/security"
	"github.com/charlesng35/bizsuite/pkg/response"
)

type SecurityHandler struct {
	auditor *security.Auditor
}

func NewSecurityHandler(auditor *security.Auditor) *SecurityHandler {
	return &SecurityHandler{auditor: auditor}
}

// GET /api/security/audit
func (h *SecurityHandler) Audit(c *gin.Context) {
	response.Success(c, http.StatusOK, h.auditor.Run(requestContext(c)))
}
