package utils

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mechanicshop-backend/config"
)

// ErrorKind classifies an AppError for status-code mapping.
type ErrorKind string

const (
	KindValidation       ErrorKind = "validation"
	KindConflict         ErrorKind = "conflict"
	KindNotFound         ErrorKind = "not_found"
	KindForbidden        ErrorKind = "forbidden"
	KindUnauthenticated  ErrorKind = "unauthenticated"
	KindInvalidReference ErrorKind = "invalid_reference"
	KindInternal         ErrorKind = "internal"
)

// AppError is the typed error every service operation surfaces. The
// controllers do nothing with it beyond a 1:1 kind-to-status mapping.
type AppError struct {
	Kind    ErrorKind
	Message string
	// Details carries per-field messages for multi-field validation
	// failures; rendered as {"errors": [...]} when non-empty.
	Details []string
	Err     error
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.Err }

func ValidationError(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

func ValidationErrors(details []string) *AppError {
	return &AppError{Kind: KindValidation, Message: "Invalid input", Details: details}
}

func ConflictError(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

func NotFoundError(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

func ForbiddenError(message string) *AppError {
	return &AppError{Kind: KindForbidden, Message: message}
}

func UnauthenticatedError(message string) *AppError {
	return &AppError{Kind: KindUnauthenticated, Message: message}
}

func InvalidReferenceError(message string) *AppError {
	return &AppError{Kind: KindInvalidReference, Message: message}
}

func InternalError(message string, err error) *AppError {
	return &AppError{Kind: KindInternal, Message: message, Err: err}
}

func statusFor(kind ErrorKind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindInvalidReference:
		// Every endpoint that surfaces a dangling reference treats it
		// as a client error on the request body.
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// RespondWithError writes a plain error body with the given status.
func RespondWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// HandleError maps a service error onto the HTTP response. Internal
// failure detail is logged but only echoed to the client in
// development mode.
func HandleError(c *gin.Context, err error) {
	appErr, ok := err.(*AppError)
	if !ok {
		appErr = InternalError("An unexpected error occurred", err)
	}

	if appErr.Kind == KindInternal {
		config.Log.Error("internal error",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(appErr.Err))
		message := "An unexpected error occurred"
		if os.Getenv("APP_ENV") == "development" && appErr.Err != nil {
			message = appErr.Message + ": " + appErr.Err.Error()
		} else if appErr.Message != "" {
			message = appErr.Message
		}
		RespondWithError(c, http.StatusInternalServerError, message)
		return
	}

	if len(appErr.Details) > 0 {
		c.AbortWithStatusJSON(statusFor(appErr.Kind), gin.H{"errors": appErr.Details})
		return
	}
	RespondWithError(c, statusFor(appErr.Kind), appErr.Message)
}
