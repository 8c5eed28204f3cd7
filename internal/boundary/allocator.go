package boundary

import (
	"fmt"

	"ptree/internal/errs"
	"ptree/internal/prinfo"
)

// Allocator provides the staging storage the walker writes into. Alloc
// may block and may fail; the adapter therefore never calls it while
// holding the tree lock. Every successful Alloc is paired with exactly
// one Free, on success and failure paths alike.
type Allocator interface {
	Alloc(n int) ([]prinfo.Record, error)
	Free(buf []prinfo.Record)
}

// HeapAllocator allocates staging buffers from the Go heap. A MaxRecords
// above 0 caps the largest request, modelling allocation failure.
type HeapAllocator struct {
	MaxRecords int
}

// Alloc returns a zeroed buffer of n records.
func (a *HeapAllocator) Alloc(n int) ([]prinfo.Record, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative allocation of %d records", errs.ErrOutOfMemory, n)
	}
	if a.MaxRecords > 0 && n > a.MaxRecords {
		return nil, fmt.Errorf("%w: %d records over the %d limit", errs.ErrOutOfMemory, n, a.MaxRecords)
	}
	return make([]prinfo.Record, n), nil
}

// Free releases the buffer. The Go heap needs no help, so this is a no-op
// kept for protocol symmetry.
func (a *HeapAllocator) Free([]prinfo.Record) {}
