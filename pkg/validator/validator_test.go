package validator

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	Username     string `json:"username" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	AssigneeType string `json:"assigned_to_type" validate:"oneof=user team"`
}

func TestValidateStructSuccess(t *testing.T) {
	payload := testPayload{Username: "alice", Email: "alice@example.com", AssigneeType: "team"}
	require.NoError(t, ValidateStruct(payload))
}

func TestValidateStructFailures(t *testing.T) {
	err := ValidateStruct(testPayload{Email: "invalid", AssigneeType: "group"})
	require.Error(t, err)

	var failures ValidationErrors
	require.True(t, errors.As(err, &failures))
	require.Len(t, failures, 3)

	fields := make([]string, 0, len(failures))
	for _, f := range failures {
		fields = append(fields, f.Field)
	}
	require.ElementsMatch(t, []string{"username", "email", "assigned_to_type"}, fields)
}

func TestDescribe(t *testing.T) {
	err := ValidateStruct(testPayload{Email: "alice@example.com", AssigneeType: "group"})
	require.Equal(t, "username is required; assigned to type must be one of: user, team", Describe(err))

	require.Equal(t, "invalid request payload", Describe(errors.New("boom")))
	require.Equal(t, "invalid request payload", Describe(nil))
}

func TestRegisterValidationAndMessage(t *testing.T) {
	require.NoError(t, RegisterValidation("bizsuite", func(fl validator.FieldLevel) bool {
		return fl.Field().String() == "bizsuite"
	}))
	RegisterMessage("bizsuite", "%s must be bizsuite")

	type custom struct {
		Value string `json:"value" validate:"bizsuite"`
	}

	require.NoError(t, ValidateStruct(custom{Value: "bizsuite"}))
	err := ValidateStruct(custom{Value: "other"})
	require.Error(t, err)
	require.Equal(t, "value must be bizsuite", Describe(err))
}
