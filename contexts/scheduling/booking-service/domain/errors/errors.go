package errors

import "errors"

var (
	ErrProposalNotFound      = errors.New("booking proposal not found")
	ErrProposalExpired       = errors.New("booking link has expired")
	ErrProposalNotSelectable = errors.New("booking proposal is no longer open for selection")
	ErrSlotUnavailable       = errors.New("requested slot is not an offered candidate")
	ErrNotAwaitingApproval   = errors.New("booking proposal is not awaiting approval")
	ErrInvalidProposalInput  = errors.New("invalid booking proposal input")
	ErrScopeViolation        = errors.New("actor is outside the proposal's tenant scope")
	ErrConflict              = errors.New("booking proposal conflict")
)
