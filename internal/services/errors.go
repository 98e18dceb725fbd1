package services

import "errors"

// Failure kinds returned by the lifecycle services. Handlers map these to
// HTTP statuses; nothing in this package knows about transport.
var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("requester does not own this subscription")
	ErrInvalidState      = errors.New("subscription state does not allow this transition")
	ErrAlreadySubscribed = errors.New("member already has an in-force subscription for this academy")
)
