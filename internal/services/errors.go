package services

import "errors"

type ErrorCode string

const (
	ErrorInvalid       ErrorCode = "invalid"
	ErrorConfiguration ErrorCode = "configuration"
	ErrorNotFound      ErrorCode = "not_found"
	ErrorConflict      ErrorCode = "conflict"
)

// ServiceError is a classified failure the API layer can map to a status.
// Store and driver errors are never wrapped into a ServiceError.
type ServiceError struct {
	Code    ErrorCode
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

// NewValidationError flags malformed caller input (response vectors, schedule anchors, ratings).
func NewValidationError(msg string) error { return &ServiceError{Code: ErrorInvalid, Message: msg} }

// NewConfigurationError flags a broken catalog or setting; it is a programming/data error.
func NewConfigurationError(msg string) error {
	return &ServiceError{Code: ErrorConfiguration, Message: msg}
}

func NewNotFoundError(msg string) error { return &ServiceError{Code: ErrorNotFound, Message: msg} }
func NewConflictError(msg string) error { return &ServiceError{Code: ErrorConflict, Message: msg} }

func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

func IsValidationError(err error) bool {
	se, ok := AsServiceError(err)
	return ok && se.Code == ErrorInvalid
}

func IsConfigurationError(err error) bool {
	se, ok := AsServiceError(err)
	return ok && se.Code == ErrorConfiguration
}
