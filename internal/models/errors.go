package models

import (
	"fmt"
)

// PreconditionError reports a violated pipeline precondition: unsorted
// input, or a consistency bound referenced by the limiting-parameter
// table that is not part of the observation row. These are programming
// or wiring errors, distinct from check findings, which are data.
type PreconditionError struct {
	Op     string
	Detail string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: precondition violated: %s", e.Op, e.Detail)
}

// IsTransient returns false: retrying the same input cannot help.
func (e *PreconditionError) IsTransient() bool {
	return false
}
