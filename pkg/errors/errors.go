package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

// Code identifies a failure class. Codes are part of the API contract:
// clients switch on them, so existing values never change meaning.
type Code string

const (
	CodeValidation    Code = "VALIDATION_ERROR"
	CodeUnauthorized  Code = "UNAUTHORIZED"
	CodeForbidden     Code = "FORBIDDEN"
	CodeNotFound      Code = "NOT_FOUND"
	CodeConflict      Code = "CONFLICT"
	CodeInvalidFormat Code = "INVALID_FORMAT"

	CodeEmptyCart          Code = "EMPTY_CART"
	CodeProductUnavailable Code = "PRODUCT_UNAVAILABLE"
	CodeInsufficientStock  Code = "INSUFFICIENT_STOCK"
	CodeMediaUpload        Code = "MEDIA_UPLOAD_ERROR"

	CodeRateLimit Code = "RATE_LIMITED"

	CodeInternal   Code = "INTERNAL_ERROR"
	CodeDependency Code = "DEPENDENCY_ERROR"
)

// Metadata carries the HTTP mapping for a code. DetailsAllowed gates
// whether structured details may reach the response body.
type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation:         {http.StatusBadRequest, false, "validation failed", true},
	CodeUnauthorized:       {http.StatusUnauthorized, false, "authentication required", false},
	CodeForbidden:          {http.StatusForbidden, false, "access denied", false},
	CodeNotFound:           {http.StatusNotFound, false, "resource not found", false},
	CodeConflict:           {http.StatusConflict, false, "conflict detected", false},
	CodeInvalidFormat:      {http.StatusBadRequest, false, "invalid format", true},
	CodeEmptyCart:          {http.StatusUnprocessableEntity, false, "your cart is empty", false},
	CodeProductUnavailable: {http.StatusUnprocessableEntity, false, "one or more products in your cart are unavailable", true},
	CodeInsufficientStock:  {http.StatusUnprocessableEntity, false, "insufficient stock", true},
	CodeMediaUpload:        {http.StatusBadGateway, true, "media upload failed", true},
	CodeRateLimit:          {http.StatusTooManyRequests, true, "too many requests, slow down", false},
	CodeInternal:           {http.StatusInternalServerError, true, "something went wrong, please try again", false},
	CodeDependency:         {http.StatusServiceUnavailable, true, "dependency unavailable", true},
}

// MetadataFor resolves the mapping for code, treating anything unknown
// as an internal error.
func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

// Error is the typed error carried across service boundaries. The
// message is frontend-facing for safe codes; the cause stays internal.
type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

// Wrap attaches a code and caller message to an underlying error while
// keeping the cause reachable through errors.Is and errors.As.
func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As extracts the typed error from a chain, or nil when there is none.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}
