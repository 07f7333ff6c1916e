package engine

import "errors"

// Request-validation errors. Both are deterministic and caller-correctable;
// the API layer maps them to client-facing responses.
var (
	ErrInvalidCategory   = errors.New("invalid disaster category")
	ErrInvalidDelay      = errors.New("intervention delay out of range")
	ErrInvalidCheckpoint = errors.New("not a checkpoint day")
)

// ErrStructuralInvariant marks an internal defensive check failing (the
// exactly-four-phases contract). It is never caused by caller input.
var ErrStructuralInvariant = errors.New("structural invariant violation")
