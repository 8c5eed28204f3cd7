// Package sizing decides how many record slots a snapshot buffer gets.
package sizing

import (
	"fmt"

	"ptree/internal/errs"
)

// extraSlots pads the live process count so forks landing between the
// counting phase and the traversal phase do not immediately overflow the
// buffer.
const extraSlots = 15

// ChooseCapacity returns the number of slots to allocate for a snapshot:
// the live count plus slack for a growing system, clamped to the caller's
// requested maximum so an enormous request never drives an enormous
// allocation. liveCount is a stale point-in-time reading; the padding only
// lowers the odds of truncation, it cannot rule it out.
func ChooseCapacity(requestedMax, liveCount int) (int, error) {
	if requestedMax < 1 {
		return 0, fmt.Errorf("%w: requested maximum %d, want at least 1", errs.ErrInvalidArgument, requestedMax)
	}
	return min(requestedMax, liveCount+extraSlots), nil
}
