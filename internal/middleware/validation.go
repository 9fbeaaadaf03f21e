package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
	"github.com/yigit/enrollment/internal/pkg/validation"
)

// BindJSON decodes the request body into obj and validates its tags. On failure the
// error response has already been written and false is returned.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		HandleAPIError(c, apperrors.NewValidationError("Invalid request format",
			map[string]interface{}{"body": err.Error()}))
		return false
	}

	if err := validation.ValidateStruct(obj); err != nil {
		HandleAPIError(c, err)
		return false
	}
	return true
}

// BindJSONOnly decodes the body without tag validation, for payloads validated by services
func BindJSONOnly(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		HandleAPIError(c, apperrors.NewValidationError("Invalid request format",
			map[string]interface{}{"body": err.Error()}))
		return false
	}
	return true
}
