package engine

import (
	"errors"
	"fmt"
)

// Validation errors. All are detected before any mutation becomes visible;
// an operation that returns one of these leaves the input snapshot untouched.
var (
	// ErrDuplicateMember indicates a join for a user already on the roster,
	// in any status.
	ErrDuplicateMember = errors.New("user is already a member of this group")

	// ErrMemberNotFound indicates an operation on a user not on the roster
	// (or, for admin transfer, not an accepted member).
	ErrMemberNotFound = errors.New("member not found")

	// ErrInvalidTransition indicates a member status change from a state
	// other than waiting. Members are decided exactly once.
	ErrInvalidTransition = errors.New("member is not awaiting a decision")

	// ErrAlreadyAssigned indicates a rotation turn assignment for a member
	// who already has one.
	ErrAlreadyAssigned = errors.New("member already has a rotation turn")

	// ErrInvalidStatus indicates an unrecognized group status value.
	ErrInvalidStatus = errors.New("unrecognized group status")

	// ErrIllegalTransition indicates a group status change along an edge
	// outside pending->active, pending->closed, active->closed.
	ErrIllegalTransition = errors.New("group status transition not allowed")

	// ErrObligationNotFound indicates a settlement for a counterparty/period
	// pair that does not exist.
	ErrObligationNotFound = errors.New("obligation not found")
)

// InvariantError reports an internal inconsistency in a group snapshot, such
// as an accepted member without a rotation turn. It is distinct from the
// validation errors above: it signals a programming error, not bad input, and
// is never repaired silently.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return "group invariant violated: " + e.Msg
}

func invariantf(format string, args ...any) error {
	return &InvariantError{Msg: fmt.Sprintf(format, args...)}
}
