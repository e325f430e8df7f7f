package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func ValidateRequest(obj any) []ValidationError {
	var validationErrors []ValidationError

	err := validate.Struct(obj)
	if err == nil {
		return nil
	}

	for _, err := range err.(validator.ValidationErrors) {
		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: getErrorMsg(err),
			Type:    err.Tag(),
		})
	}

	return validationErrors
}

func getErrorMsg(err validator.FieldError) string {
	switch err.Tag() {
	case "required", "required_if":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "oneof":
		return "Value must be one of: " + err.Param()
	case "gt":
		return "Value must be greater than " + err.Param()
	default:
		return "Invalid value"
	}
}

// FieldFailed reports whether one of the given fields is among the
// validation failures. Handlers use it to pick the canonical mensagem for
// the failing field group.
func FieldFailed(errs []ValidationError, fields ...string) bool {
	for _, e := range errs {
		for _, f := range fields {
			if e.Field == f {
				return true
			}
		}
	}
	return false
}

// RespondWithError writes the localized error body used by every endpoint.
func RespondWithError(c *gin.Context, code int, mensagem string) {
	c.JSON(code, gin.H{
		"mensagem": mensagem,
	})
}
