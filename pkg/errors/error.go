package errors

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalError represents a generic internal error.
	GeneralInternalError ErrorCode = "general_internal_error"
	// GeneralNotFoundError represents a generic not found error.
	GeneralNotFoundError ErrorCode = "general_not_found_error"
	// GeneralRepositoryError represents a generic repository error.
	GeneralRepositoryError ErrorCode = "general_repository_error"

	// OutOfOrderTick represents a fetched tick whose id is not strictly
	// greater than the last seen id. Fatal to the current batch.
	OutOfOrderTick ErrorCode = "out_of_order_tick"
	// MissingAnchorTick represents an event whose anchor tick cannot be
	// found in the tick store. The event is skipped, not the batch.
	MissingAnchorTick ErrorCode = "missing_anchor_tick"
	// GapResetBoundaryFailure represents a forced gap-close that cannot
	// find the expected previous tick.
	GapResetBoundaryFailure ErrorCode = "gap_reset_boundary_failure"
	// IncompleteForwardWindow represents an outcome horizon that has not
	// yet fully elapsed in available data.
	IncompleteForwardWindow ErrorCode = "incomplete_forward_window"
	// InvalidTickMapping represents a ticks table whose columns cannot be
	// resolved to an id/timestamp/price mapping.
	InvalidTickMapping ErrorCode = "invalid_tick_mapping"
)

// ErrorDetails represents detailed information about an error.
type ErrorDetails struct {
	// Message (required) is the user-defined error message.
	Message string

	// Code (required) is the error code string.
	Code ErrorCode

	// Field (optional) is the related field the error occurred on, if any.
	Field string
}

// NewErrorDetails creates a new ErrorDetails with the given parameters.
func NewErrorDetails(message string, code ErrorCode, field string) *ErrorDetails {
	return &ErrorDetails{
		Message: message,
		Code:    code,
		Field:   field,
	}
}

// Error is used to implement the Golang `error` interface.
func (e *ErrorDetails) Error() string {
	return e.Message
}

// ErrorCodeEquals checks whether a given `error` has a specific code.
func ErrorCodeEquals(err error, code ErrorCode) bool {
	errDetails, ok := err.(*ErrorDetails)
	if !ok {
		return false
	}

	return errDetails.Code == code
}
