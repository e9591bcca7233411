package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a unique error code
type ErrorCode int

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *AppError carrying the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// StatusCode maps the error code to an HTTP status for the API shell.
func (e *AppError) StatusCode() int {
	switch e.Code {
	case ErrNotFound, ErrEmptyCollection:
		return http.StatusNotFound
	case ErrCapacityExceeded:
		return http.StatusConflict
	case ErrDivisionByZero, ErrInsufficientOperands, ErrMalformedExpression, ErrInvalidCharacter:
		return http.StatusUnprocessableEntity
	case ErrBadRequest, ErrInvalidExponent:
		return http.StatusBadRequest
	case ErrTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Common error codes
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrBadRequest
	ErrInternal
	ErrEmptyCollection
	ErrCapacityExceeded
	ErrDivisionByZero
	ErrInsufficientOperands
	ErrMalformedExpression
	ErrInvalidCharacter
	ErrInvalidExponent
	ErrTooManyRequests
)

var codeNames = map[ErrorCode]string{
	ErrNotFound:             "NotFound",
	ErrBadRequest:           "BadRequest",
	ErrInternal:             "Internal",
	ErrEmptyCollection:      "EmptyCollection",
	ErrCapacityExceeded:     "CapacityExceeded",
	ErrDivisionByZero:       "DivisionByZero",
	ErrInsufficientOperands: "InsufficientOperands",
	ErrMalformedExpression:  "MalformedExpression",
	ErrInvalidCharacter:     "InvalidCharacter",
	ErrInvalidExponent:      "InvalidExponent",
	ErrTooManyRequests:      "TooManyRequests",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ErrorCode(%d)", int(c))
}

// CodeOf extracts the code of the first *AppError in err's chain.
func CodeOf(err error) (ErrorCode, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code, true
	}
	return 0, false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	c, ok := CodeOf(err)
	return ok && c == code
}

// Error constructors
func NewNotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func NewBadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    ErrBadRequest,
		Message: message,
		Err:     err,
	}
}

func NewInternal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

func NewEmptyCollection(collection string) *AppError {
	return &AppError{
		Code:    ErrEmptyCollection,
		Message: fmt.Sprintf("%s is empty", collection),
	}
}

func NewCapacityExceeded(collection string, capacity int) *AppError {
	return &AppError{
		Code:    ErrCapacityExceeded,
		Message: fmt.Sprintf("%s is full (capacity %d)", collection, capacity),
	}
}

func NewDivisionByZero(pos int) *AppError {
	return &AppError{
		Code:    ErrDivisionByZero,
		Message: fmt.Sprintf("division by zero at position %d", pos),
	}
}

func NewInsufficientOperands(op rune, pos int) *AppError {
	return &AppError{
		Code:    ErrInsufficientOperands,
		Message: fmt.Sprintf("operator %q at position %d needs two operands", op, pos),
	}
}

func NewMalformedExpression(remaining int) *AppError {
	return &AppError{
		Code:    ErrMalformedExpression,
		Message: fmt.Sprintf("malformed expression: %d values left on the stack, want 1", remaining),
	}
}

func NewInvalidCharacter(ch rune, pos int) *AppError {
	return &AppError{
		Code:    ErrInvalidCharacter,
		Message: fmt.Sprintf("invalid character %q at position %d", ch, pos),
	}
}

func NewTooManyRequests() *AppError {
	return &AppError{
		Code:    ErrTooManyRequests,
		Message: "rate limit exceeded",
	}
}

func NewInvalidExponent(exponent int) *AppError {
	return &AppError{
		Code:    ErrInvalidExponent,
		Message: fmt.Sprintf("exponent must be non-negative, got %d", exponent),
	}
}
