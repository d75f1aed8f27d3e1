package request

import "errors"

var (
	// ErrNotFound means the request does not exist.
	ErrNotFound = errors.New("service request not found")
	// ErrInvalidTransition means the current status does not allow the move.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrAlreadyAssigned means another provider won the accept race.
	ErrAlreadyAssigned = errors.New("request already accepted by another provider")
	// ErrProviderBusy means the provider already holds an accepted request.
	ErrProviderBusy = errors.New("provider already has an active request")
	// ErrUnauthorized means the caller fails an ownership or role check.
	ErrUnauthorized = errors.New("not authorized for this request")
)
