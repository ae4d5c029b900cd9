package errors

import "errors"

var (
	ErrInvalidRange     = errors.New("timeline range is invalid")
	ErrSourceFetch      = errors.New("timeline source fetch failed")
	ErrPrincipalMissing = errors.New("requesting principal is unresolved")
)
