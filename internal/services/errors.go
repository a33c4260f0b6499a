package services

import (
	"errors"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("not authorized")
	ErrInvalidInput    = errors.New("invalid input")
	ErrConflict        = errors.New("already active")
	ErrThresholdNotMet = errors.New("not enough players")
	ErrRemoteFailure   = errors.New("remote call failed")
)

// Notice turns an error returned by a service into the text shown to the acting user.
func Notice(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "There is no active poll or vote in this channel."
	case errors.Is(err, ErrUnauthorized):
		return "You are not allowed to do that here."
	case errors.Is(err, ErrConflict):
		return "There is already an active poll or vote in this channel."
	case errors.Is(err, ErrThresholdNotMet):
		return "Not enough players are available on that date."
	case errors.Is(err, ErrInvalidInput):
		var ie *InputError
		if errors.As(err, &ie) {
			return ie.Reason
		}
		return "That input is not valid."
	case errors.Is(err, ErrRemoteFailure):
		return "Discord did not accept the request, please try again."
	default:
		return "Something went wrong, please try again later."
	}
}

// InputError carries a user-facing reason for an ErrInvalidInput failure.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return "invalid input: " + e.Reason
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

func Invalid(reason string) error {
	return &InputError{Reason: reason}
}
