package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error kinds understood by the HTTP layer. Every rejection carries a
// machine-readable kind plus a human-readable message.
const (
	KindValidation   = "validation"
	KindConflict     = "conflict"
	KindNotFound     = "not_found"
	KindUnauthorized = "unauthorized"
	KindPayment      = "payment"
	KindStore        = "store"
)

// ServiceError is the error type returned by all service-layer operations.
type ServiceError struct {
	Kind    string
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ServiceError) Unwrap() error { return e.Err }

func ValidationError(msg string) error   { return &ServiceError{Kind: KindValidation, Message: msg} }
func ConflictError(msg string) error     { return &ServiceError{Kind: KindConflict, Message: msg} }
func NotFoundError(msg string) error     { return &ServiceError{Kind: KindNotFound, Message: msg} }
func UnauthorizedError(msg string) error { return &ServiceError{Kind: KindUnauthorized, Message: msg} }

// PaymentError wraps a failure from the payment collaborator.
func PaymentError(msg string, err error) error {
	return &ServiceError{Kind: KindPayment, Message: msg, Err: err}
}

// StoreError wraps a failure from the underlying data store.
func StoreError(msg string, err error) error {
	return &ServiceError{Kind: KindStore, Message: msg, Err: err}
}

// ErrorKind extracts the kind from an error, defaulting to store.
func ErrorKind(err error) string {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindStore
}

func statusForKind(kind string) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusForbidden
	case KindPayment:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse is the JSON shape for all error replies.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// RespondError maps a service error onto an HTTP response.
func RespondError(c *gin.Context, err error) {
	var se *ServiceError
	if errors.As(err, &se) {
		if se.Kind == KindStore || se.Kind == KindPayment {
			GetLogger().Error("request failed", zap.String("kind", se.Kind), zap.Error(err))
		}
		c.JSON(statusForKind(se.Kind), ErrorResponse{Error: se.Kind, Message: se.Message})
		return
	}
	GetLogger().Error("request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: KindStore, Message: "Unexpected server error"})
}

// ErrorHandler recovers from panics and returns a structured 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				GetLogger().Error("Unhandled panic", zap.Any("error", r))
				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Error:   KindStore,
					Message: "An unexpected error occurred. Please try again later.",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}
