package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Leganyst/clinic-booking/internal/service"
)

// ErrorResponse — единый формат ошибки REST.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

const (
	CodeMissingToken            = "MISSING_TOKEN"
	CodeInvalidToken            = "INVALID_TOKEN"
	CodeInsufficientPermissions = "INSUFFICIENT_PERMISSIONS"
	CodeValidationError         = "VALIDATION_ERROR"
	CodeResourceNotFound        = "RESOURCE_NOT_FOUND"
	CodeInvalidTransition       = "INVALID_TRANSITION"
	CodeDoctorNotEligible       = "DOCTOR_NOT_ELIGIBLE"
	CodeAlreadyExists           = "ALREADY_EXISTS"
	CodeInvalidCredentials      = "INVALID_CREDENTIALS"
	CodeInternal                = "INTERNAL_ERROR"
)

func sendError(c *gin.Context, status int, code, title, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: title, Message: message, Code: code})
}

func sendValidationError(c *gin.Context, message string) {
	sendError(c, http.StatusBadRequest, CodeValidationError, "Validation failed", message)
}

// writeError сопоставляет ошибки ядра со статусами HTTP.
func writeError(c *gin.Context, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		sendValidationError(c, err.Error())
	case errors.Is(err, service.ErrNotFound):
		sendError(c, http.StatusNotFound, CodeResourceNotFound, "Resource not found", err.Error())
	case errors.Is(err, service.ErrInvalidTransition):
		sendError(c, http.StatusConflict, CodeInvalidTransition, "Invalid status transition", err.Error())
	case errors.Is(err, service.ErrDoctorNotEligible):
		sendError(c, http.StatusConflict, CodeDoctorNotEligible, "Doctor is not approved", err.Error())
	case errors.Is(err, service.ErrAlreadyExists):
		sendError(c, http.StatusConflict, CodeAlreadyExists, "Already exists", err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		sendError(c, http.StatusUnauthorized, CodeInvalidCredentials, "Invalid credentials", "The supplied credentials are incorrect")
	default:
		log.Error("http.internal_error", zap.String("path", c.FullPath()), zap.Error(err))
		sendError(c, http.StatusInternalServerError, CodeInternal, "Internal error", "Please try again later")
	}
}
