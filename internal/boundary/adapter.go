package boundary

import (
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"ptree/internal/errs"
	"ptree/internal/proctree"
	"ptree/internal/sizing"
	"ptree/internal/telemetry"
	"ptree/internal/walk"
)

// Result carries every count involved in one snapshot call. The original
// interface folded RequestedMax and Capacity into a single number; they
// are distinct here so a caller can tell heuristic sizing apart from a
// genuinely short request.
type Result struct {
	// Total is the true number of live processes at traversal time.
	// It may exceed Stored; that difference is truncation, not failure.
	Total int
	// Stored is the number of records copied into the caller's buffer.
	Stored int
	// RequestedMax is the maximum the caller asked for.
	RequestedMax int
	// Capacity is the sizer-derived staging capacity actually allocated.
	Capacity int
}

// Truncated reports whether the snapshot is missing processes.
func (r Result) Truncated() bool { return r.Stored < r.Total }

// Adapter runs snapshot calls against one tree.
type Adapter struct {
	tree  *proctree.Tree
	alloc Allocator
}

// New creates an adapter for tree. A nil alloc gets an unbounded
// HeapAllocator.
func New(tree *proctree.Tree, alloc Allocator) *Adapter {
	if alloc == nil {
		alloc = &HeapAllocator{}
	}
	return &Adapter{tree: tree, alloc: alloc}
}

// Snapshot performs one bounded pre-order snapshot of the tree.
//
// The protocol is two-phase on purpose: the process count is taken under
// the read lock, the lock is dropped for the allocation (which may block),
// and the lock is re-acquired for the traversal. The tree may grow inside
// that window; the walk then truncates rather than fail, and Result.Total
// still reports the full size.
//
// On error nothing is written back to the caller's count, and any staging
// buffer already allocated has been freed.
func (a *Adapter) Snapshot(buf CallerBuffer, count CallerCount) (Result, error) {
	started := time.Now()
	res, err := a.snapshot(buf, count)
	if err != nil {
		telemetry.CountError(errKind(err))
		return res, err
	}
	telemetry.ObserveSnapshot(res.Stored, res.Total, time.Since(started))
	return res, nil
}

func (a *Adapter) snapshot(buf CallerBuffer, count CallerCount) (Result, error) {
	var res Result

	if buf == nil || count == nil {
		return res, fmt.Errorf("%w: nil buffer or count argument", errs.ErrInvalidArgument)
	}
	requested, err := count.Read()
	if err != nil {
		return res, fmt.Errorf("%w: reading requested maximum: %v", errs.ErrInvalidArgument, err)
	}
	res.RequestedMax = requested

	a.tree.RLock()
	live := a.tree.Count()
	a.tree.RUnlock()

	capacity, err := sizing.ChooseCapacity(requested, live)
	if err != nil {
		return res, err
	}
	res.Capacity = capacity

	staging, err := a.alloc.Alloc(capacity)
	if err != nil {
		return res, err
	}

	a.tree.RLock()
	stored, total := walk.Walk(a.tree.Root(), staging)
	a.tree.RUnlock()
	res.Stored = stored
	res.Total = total

	if err := buf.WriteRecords(staging[:stored]); err != nil {
		a.alloc.Free(staging)
		return res, fmt.Errorf("%w: copying records out: %v", errs.ErrBoundaryFault, err)
	}
	if err := count.Write(stored); err != nil {
		a.alloc.Free(staging)
		return res, fmt.Errorf("%w: writing back stored count: %v", errs.ErrBoundaryFault, err)
	}
	a.alloc.Free(staging)

	if res.Truncated() {
		log.WithFields(log.Fields{
			"stored":    stored,
			"total":     total,
			"requested": requested,
			"capacity":  capacity,
		}).Debug("snapshot truncated")
	}
	return res, nil
}

func errKind(err error) string {
	switch {
	case errors.Is(err, errs.ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, errs.ErrOutOfMemory):
		return "out_of_memory"
	case errors.Is(err, errs.ErrBoundaryFault):
		return "boundary_fault"
	default:
		return "other"
	}
}
