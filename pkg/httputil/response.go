package httputil

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/jwalitptl/patient-registry/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error represents API error
type Error struct {
	Code    int         `json:"code"`
	Kind    string      `json:"kind"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, data interface{}) {
	RespondWithStatus(c, http.StatusOK, data)
}

// RespondWithStatus sends a success response with an explicit status code
func RespondWithStatus(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithError sends an error response. Registry errors carry their own
// status; anything else is reported as an internal error without details.
func RespondWithError(c *gin.Context, err error) {
	// Keep the error on the context so the logging middleware records it.
	_ = c.Error(err)

	appErr := AsAppError(err)
	c.JSON(appErr.StatusCode(), NewErrorResponse(appErr))
}

// AsAppError returns the registry error wrapped in err, or wraps err as an
// internal error.
func AsAppError(err error) *errors.AppError {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return errors.NewInternal(err)
}

// NewErrorResponse renders appErr without its wrapped cause.
func NewErrorResponse(appErr *errors.AppError) Response {
	return Response{
		Success: false,
		Error: &Error{
			Code:    appErr.StatusCode(),
			Kind:    appErr.Code.String(),
			Message: appErr.Message,
		},
	}
}

// RespondWithBindError leaves field validation failures to the validation
// middleware and reports anything else, such as malformed JSON, as a bad
// request.
func RespondWithBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}
	RespondWithError(c, errors.NewBadRequest("invalid request body", err))
}
