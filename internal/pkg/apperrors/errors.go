package apperrors

import "errors"

// Planning input errors. These are the unrecoverable conditions of the
// planning core: missing required input data. Graph and placement problems
// are never errors; they travel as warnings on the returned plan.
var (
	ErrDegreeNotFound     = errors.New("degree template not found")
	ErrStudentNotFound    = errors.New("student not found")
	ErrEmptyCourseList    = errors.New("course list is empty")
	ErrInvalidPlanRequest = errors.New("invalid plan request")
)

// CustomError wraps a sentinel with request-specific context. Callers keep
// matching on the sentinel through errors.Is; the message, code and details
// are for logs and command output.
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}
