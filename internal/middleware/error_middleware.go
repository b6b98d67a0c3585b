package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/tourofcourses/internal/app/models/dto"
	"github.com/yigit/tourofcourses/internal/pkg/apperrors"
	"github.com/yigit/tourofcourses/internal/pkg/logger"
)

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Course not found").WithField("id"),
		))
	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrBadRequest):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed").WithDetails(err.Error()),
		))
	case errors.Is(err, apperrors.ErrTransport):
		logger.Warn().Err(err).Str("path", c.Request.URL.Path).Msg("Upstream service failed")
		c.JSON(http.StatusBadGateway, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeExternalServiceError, "Upstream service unavailable"),
		))
	default:
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled API error")
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"),
		))
	}
}

// BadRequest writes a VAL_001 response for malformed input
func BadRequest(c *gin.Context, message string, err error) {
	detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message)
	if err != nil {
		detail = detail.WithDetails(err.Error())
	}
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
}
