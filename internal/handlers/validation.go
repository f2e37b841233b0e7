package handlers

import (
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/charlesng35/bizsuite/internal/permissions"
	appErrors "github.com/charlesng35/bizsuite/pkg/errors"
	"github.com/charlesng35/bizsuite/pkg/response"
	appValidator "github.com/charlesng35/bizsuite/pkg/validator"
)

var registerRules sync.Once

// registerDomainRules installs the crm_action and crm_role tags.
func registerDomainRules() {
	registerRules.Do(func() {
		_ = appValidator.RegisterValidation("crm_action", func(fl validator.FieldLevel) bool {
			_, ok := permissions.ParseAction(fl.Field().String())
			return ok
		})
		_ = appValidator.RegisterValidation("crm_role", func(fl validator.FieldLevel) bool {
			_, ok := permissions.ParseRole(fl.Field().String())
			return ok
		})
		appValidator.RegisterMessage("crm_action", "%s must be one of view, create, update, delete, export, import, assign")
		appValidator.RegisterMessage("crm_role", "%s must be one of Admin, Manager, User, ReadOnly")
	})
}

// bindAndValidate binds the JSON payload into dest and runs struct validation rules.
// When validation fails, an error response is automatically written and false is returned.
func bindAndValidate[T any](c *gin.Context, dest *T) bool {
	registerDomainRules()

	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.NewBadRequest("invalid JSON payload"))
		return false
	}

	if err := appValidator.ValidateStruct(dest); err != nil {
		response.Error(c, appErrors.NewBadRequest(appValidator.Describe(err)))
		return false
	}

	return true
}

// pathID parses the named numeric path parameter, writing a 400 on failure.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, appErrors.NewBadRequest("invalid "+strings.ReplaceAll(name, "_", " ")))
		return 0, false
	}
	return uint(id), true
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
