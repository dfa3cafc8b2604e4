package funnel

import (
	"errors"
	"fmt"

	"github.com/jonathan/application-tracker/internal/types"
)

// InvalidTransitionError indicates a status value outside the enumerated
// funnel set. Nothing is written when this is returned.
type InvalidTransitionError struct {
	Status types.Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status: %q", e.Status)
}

// IsInvalidTransition reports whether err is (or wraps) an InvalidTransitionError.
func IsInvalidTransition(err error) bool {
	var it *InvalidTransitionError
	return errors.As(err, &it)
}
