package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a domain error so transport layers can map it to a
// status code without inspecting messages.
type ErrorCode string

const (
	CodeNotFound            ErrorCode = "NOT_FOUND"
	CodeValidation          ErrorCode = "VALIDATION_ERROR"
	CodeForbidden           ErrorCode = "FORBIDDEN"
	CodeConflict            ErrorCode = "CONFLICT"
	CodeInvalidDateRange    ErrorCode = "INVALID_DATE_RANGE"
	CodeVehicleUnavailable  ErrorCode = "VEHICLE_UNAVAILABLE"
	CodeOverlappingBooking  ErrorCode = "OVERLAPPING_BOOKING"
	CodeInvalidTransition   ErrorCode = "INVALID_TRANSITION"
	CodeBookingNotCompleted ErrorCode = "BOOKING_NOT_COMPLETED"
	CodeDuplicateReview     ErrorCode = "DUPLICATE_REVIEW"
	CodeInvalidRating       ErrorCode = "INVALID_RATING"
	CodeInternal            ErrorCode = "INTERNAL_ERROR"
)

// Error is a typed, expected outcome of a domain operation. Unexpected
// storage/connectivity failures are wrapped with CodeInternal instead.
type Error struct {
	Code    ErrorCode
	Message string
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause, if any.
func (e *Error) Unwrap() error { return e.cause }

// NewNotFoundError reports that an entity does not exist.
func NewNotFoundError(entity, id string) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s %s not found", entity, id)}
}

// NewValidationError reports malformed or missing input.
func NewValidationError(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// NewForbiddenError reports a role or ownership mismatch.
func NewForbiddenError(msg string) *Error {
	return &Error{Code: CodeForbidden, Message: msg}
}

// NewConflictError reports a concurrent-modification or referential conflict.
func NewConflictError(msg string) *Error {
	return &Error{Code: CodeConflict, Message: msg}
}

// NewInvalidDateRangeError reports an unusable rental interval.
func NewInvalidDateRangeError(msg string) *Error {
	return &Error{Code: CodeInvalidDateRange, Message: msg}
}

// NewVehicleUnavailableError reports that a vehicle cannot be booked.
func NewVehicleUnavailableError(vehicleID string) *Error {
	return &Error{Code: CodeVehicleUnavailable, Message: fmt.Sprintf("vehicle %s is not available for booking", vehicleID)}
}

// NewOverlappingBookingError reports a conflict with an accepted booking on
// the same vehicle.
func NewOverlappingBookingError(vehicleID string) *Error {
	return &Error{Code: CodeOverlappingBooking, Message: fmt.Sprintf("requested interval overlaps an existing booking for vehicle %s", vehicleID)}
}

// NewInvalidTransitionError reports an illegal booking status move.
func NewInvalidTransitionError(from, to string) *Error {
	return &Error{Code: CodeInvalidTransition, Message: fmt.Sprintf("cannot transition booking from %s to %s", from, to)}
}

// NewBookingNotCompletedError reports a review attempt on an unfinished booking.
func NewBookingNotCompletedError(bookingID string) *Error {
	return &Error{Code: CodeBookingNotCompleted, Message: fmt.Sprintf("booking %s is not completed", bookingID)}
}

// NewDuplicateReviewError reports a second review for the same booking.
func NewDuplicateReviewError(bookingID string) *Error {
	return &Error{Code: CodeDuplicateReview, Message: fmt.Sprintf("booking %s already has a review by this user", bookingID)}
}

// NewInvalidRatingError reports a rating outside [1,5].
func NewInvalidRatingError(rating int) *Error {
	return &Error{Code: CodeInvalidRating, Message: fmt.Sprintf("rating must be between 1 and 5, got %d", rating)}
}

// NewInternalError wraps an unexpected infrastructure failure.
func NewInternalError(msg string, cause error) *Error {
	return &Error{Code: CodeInternal, Message: msg, cause: cause}
}

// CodeOf extracts the domain error code from err, or CodeInternal when err is
// not a domain error.
func CodeOf(err error) ErrorCode {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// IsCode reports whether err carries the given domain error code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
