package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/enrollment/internal/app/models/dto"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
	"github.com/yigit/enrollment/internal/pkg/logger"
)

// errorMapping ties an error sentinel to the status and code it is reported with
type errorMapping struct {
	target   error
	status   int
	code     dto.ErrorCode
	fallback string
}

var errorMappings = []errorMapping{
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeInvalidRequest, "Invalid request"},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"},
	{apperrors.ErrTokenNotFound, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Token not found"},
	{apperrors.ErrInvalidSignature, http.StatusForbidden, dto.ErrorCodeForbidden, "Invalid signature"},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},
	{apperrors.ErrResourceAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeConflict, "Conflict"},
	{apperrors.ErrPayloadTooLarge, http.StatusRequestEntityTooLarge, dto.ErrorCodePayloadTooLarge, "Payload too large"},
	{apperrors.ErrExternalService, http.StatusBadGateway, dto.ErrorCodeExternalServiceError, "External service error"},
	{apperrors.ErrConfiguration, http.StatusInternalServerError, dto.ErrorCodeConfiguration, "Configuration error"},
}

// ErrorDetailFor converts err into the status code and error body it is reported with
func ErrorDetailFor(err error) (int, *dto.ErrorDetail) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		message := apperrors.MessageOf(err)
		if message == "" {
			message = m.fallback
		}
		detail := dto.NewErrorDetail(m.code, message).WithStatus(m.status)
		if details := apperrors.DetailsOf(err); len(details) > 0 {
			detail = detail.WithDetails(details)
		}
		return m.status, detail
	}

	return http.StatusInternalServerError,
		dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").
			WithStatus(http.StatusInternalServerError).
			WithSeverity(dto.ErrorSeverityCritical)
}

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	status, detail := ErrorDetailFor(err)
	if status >= http.StatusInternalServerError || status == http.StatusBadGateway {
		logger.Error().Err(err).
			Str("path", c.FullPath()).
			Int("status", status).
			Msg("Request failed")
	} else {
		logger.Debug().Err(err).Str("path", c.FullPath()).Int("status", status).Msg("Request rejected")
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}
