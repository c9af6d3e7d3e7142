// Package digestion turns a child's age and latest digestion reading into
// feeding guidance and ranked food and meal suggestions.
//
// Everything here is pure: no I/O, no shared state, safe for concurrent use.
package digestion

// Need is the fiber adjustment suggested by the latest stool reading
type Need string

const (
	NeedIncreaseFiber Need = "increase_fiber"
	NeedDecreaseFiber Need = "decrease_fiber"
	NeedBalanced      Need = "balanced"
)

// ClassifyNeed maps a Bristol stool type to a fiber need.
// Types 1-2 (firm) call for more fiber, 6-7 (loose) for less. A missing
// reading is treated as balanced.
func ClassifyNeed(stoolType *int) Need {
	if stoolType == nil {
		return NeedBalanced
	}
	switch {
	case *stoolType <= 2:
		return NeedIncreaseFiber
	case *stoolType >= 6:
		return NeedDecreaseFiber
	default:
		return NeedBalanced
	}
}
