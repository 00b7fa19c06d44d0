package workflow

import "errors"

// Workflow outcomes callers are expected to branch on. Handlers map these to
// HTTP status codes; everything else is treated as an internal error.
var (
	ErrNotFound             = errors.New("record not found")
	ErrNotEligible          = errors.New("student does not meet the eligibility criteria")
	ErrDuplicateApplication = errors.New("student already has a live application for this company")
	ErrPositionsFull        = errors.New("all positions for this company are filled")
	ErrCompanyInactive      = errors.New("company posting is not active")
	ErrDeadlinePassed       = errors.New("application deadline has passed")
	ErrNotOwner             = errors.New("application belongs to another student")
	ErrInvalidTransition    = errors.New("status change is not allowed from the current state")
)
