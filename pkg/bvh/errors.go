package bvh

import "errors"

// Sentinel errors covering the three-kind taxonomy from spec.md §7. None of
// these are swallowed: Build and BuildSBVH always return one of these
// (wrapped in a *BuildError, sometimes with extra fmt.Errorf context)
// rather than partial output on failure.
var (
	// ErrOverAllocation is returned when the node array would grow past
	// its pre-declared bound (spec.md invariant 4): 2*N for the plain
	// builder, Config.OverAllocationFactor*N for the SBVH builder.
	ErrOverAllocation = errors.New("bvh: node count exceeds over-allocation bound")

	// ErrNoSplitCandidate is returned when both the object-split and
	// spatial-split searches report infinite cost for a range with
	// count >= 2. The source treats this as unreachable for valid input
	// and aborts the process; the rebuilt builder surfaces it instead.
	ErrNoSplitCandidate = errors.New("bvh: no split candidate found for a non-leaf range")

	// ErrAxisMismatch is returned when the three per-axis reshuffles of
	// a split disagree on how many references went left/right. This
	// indicates a logic error in the partition kernel.
	ErrAxisMismatch = errors.New("bvh: per-axis left/right counts disagree")

	// ErrOrphanedReference is returned when a straddling primitive ends
	// up assigned to neither child during a spatial split.
	ErrOrphanedReference = errors.New("bvh: primitive assigned to neither child of a spatial split")
)

// BuildError decorates a sentinel error with the recursion context in which
// it was raised, so callers get more than "it failed" out of a build that
// aborts partway through.
type BuildError struct {
	Err        error
	NodeIndex  int
	FirstIndex int
	Count      int
}

func (e *BuildError) Error() string {
	return e.Err.Error()
}

func (e *BuildError) Unwrap() error {
	return e.Err
}
