package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/jwalitptl/patient-api/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// RespondError maps the error taxonomy onto HTTP statuses and writes the
// error envelope. Unrecognized errors become a generic 500.
func RespondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch apperrors.CodeOf(err) {
	case apperrors.ErrNotFound:
		status = http.StatusNotFound
	case apperrors.ErrMissingFields, apperrors.ErrInvalidFormat:
		status = http.StatusBadRequest
	case apperrors.ErrDuplicateUsername, apperrors.ErrDuplicateEmail:
		status = http.StatusConflict
	case apperrors.ErrInvalidCredentials, apperrors.ErrUnauthenticated:
		status = http.StatusUnauthorized
	case apperrors.ErrAccountInactive, apperrors.ErrForbidden:
		status = http.StatusForbidden
	case apperrors.ErrPersistence:
		status = http.StatusInternalServerError
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	c.JSON(status, NewErrorResponse(message))
}
