package boundary

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ptree/internal/errs"
	"ptree/internal/prinfo"
	"ptree/internal/proctree"
)

// fixtureTree: root 1 with children [2, 3] (2 older), 2 has child 4.
// Pre-order: 1, 2, 4, 3.
func fixtureTree(t *testing.T) *proctree.Tree {
	t.Helper()
	tree := proctree.New(1, "init", 0)
	for _, f := range []struct{ parent, pid int32 }{
		{1, 2}, {2, 4}, {1, 3},
	} {
		_, err := tree.Fork(f.parent, f.pid, fmt.Sprintf("p%d", f.pid), 0, proctree.StateRunning)
		require.NoError(t, err)
	}
	return tree
}

// countingAllocator tracks Alloc/Free pairing around an inner allocator.
type countingAllocator struct {
	inner  Allocator
	allocs int
	frees  int
}

func (a *countingAllocator) Alloc(n int) ([]prinfo.Record, error) {
	buf, err := a.inner.Alloc(n)
	if err == nil {
		a.allocs++
	}
	return buf, err
}

func (a *countingAllocator) Free(buf []prinfo.Record) {
	a.frees++
	a.inner.Free(buf)
}

// growingAllocator forks extra processes while the allocation is in
// flight, landing exactly in the unlocked window between the counting and
// traversal phases.
type growingAllocator struct {
	tree    *proctree.Tree
	growBy  int32
	nextPID int32
}

func (a *growingAllocator) Alloc(n int) ([]prinfo.Record, error) {
	for i := int32(0); i < a.growBy; i++ {
		if _, err := a.tree.Fork(1, a.nextPID+i, "latecomer", 0, proctree.StateRunning); err != nil {
			return nil, err
		}
	}
	return make([]prinfo.Record, n), nil
}

func (a *growingAllocator) Free([]prinfo.Record) {}

// faultBuffer fails every copy, modelling an invalid caller address.
type faultBuffer struct{}

func (faultBuffer) WriteRecords([]prinfo.Record) error { return errors.New("page not mapped") }

// faultCount can fail on either direction.
type faultCount struct {
	value     int
	failRead  bool
	failWrite bool
	wrote     bool
}

func (c *faultCount) Read() (int, error) {
	if c.failRead {
		return 0, errors.New("page not mapped")
	}
	return c.value, nil
}

func (c *faultCount) Write(n int) error {
	if c.failWrite {
		return errors.New("page not mapped")
	}
	c.value = n
	c.wrote = true
	return nil
}

func TestSnapshot_EndToEnd(t *testing.T) {
	adapter := New(fixtureTree(t), nil)

	var buf MemBuffer
	count := NewMemCount(10)

	res, err := adapter.Snapshot(&buf, count)
	require.NoError(t, err)

	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 4, res.Stored)
	assert.Equal(t, 10, res.RequestedMax)
	assert.Equal(t, 10, res.Capacity, "min(10, 4 live + 15 slack)")
	assert.False(t, res.Truncated())
	assert.Equal(t, 4, count.Value(), "stored count written back")

	require.Len(t, buf.Records, 4)
	var got []int32
	for _, r := range buf.Records {
		got = append(got, r.PID)
	}
	assert.Equal(t, []int32{1, 2, 4, 3}, got, "pre-order")
}

func TestSnapshot_TruncatesToRequestedMax(t *testing.T) {
	adapter := New(fixtureTree(t), nil)

	var buf MemBuffer
	count := NewMemCount(2)

	res, err := adapter.Snapshot(&buf, count)
	require.NoError(t, err)

	assert.Equal(t, 4, res.Total, "true total survives truncation")
	assert.Equal(t, 2, res.Stored)
	assert.True(t, res.Truncated())
	assert.Equal(t, 2, count.Value())
	require.Len(t, buf.Records, 2)
	assert.Equal(t, int32(1), buf.Records[0].PID)
	assert.Equal(t, int32(2), buf.Records[1].PID)
}

func TestSnapshot_SingleProcessTree(t *testing.T) {
	adapter := New(proctree.New(1, "init", 0), nil)

	var buf MemBuffer
	count := NewMemCount(100)

	res, err := adapter.Snapshot(&buf, count)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, 1, res.Stored)
	assert.Equal(t, 1, count.Value())
}

func TestSnapshot_Idempotent(t *testing.T) {
	adapter := New(fixtureTree(t), nil)

	var first, second MemBuffer
	_, err := adapter.Snapshot(&first, NewMemCount(10))
	require.NoError(t, err)
	_, err = adapter.Snapshot(&second, NewMemCount(10))
	require.NoError(t, err)

	assert.Equal(t, first.Records, second.Records)
}

func TestSnapshot_InvalidArguments(t *testing.T) {
	adapter := New(fixtureTree(t), nil)
	var buf MemBuffer

	_, err := adapter.Snapshot(nil, NewMemCount(10))
	assert.ErrorIs(t, err, errs.ErrInvalidArgument, "nil buffer")

	_, err = adapter.Snapshot(&buf, nil)
	assert.ErrorIs(t, err, errs.ErrInvalidArgument, "nil count")

	_, err = adapter.Snapshot(&buf, NewMemCount(0))
	assert.ErrorIs(t, err, errs.ErrInvalidArgument, "requested max below 1")

	_, err = adapter.Snapshot(&buf, &faultCount{failRead: true})
	assert.ErrorIs(t, err, errs.ErrInvalidArgument, "unreadable count")
	assert.Empty(t, buf.Records, "nothing copied out on failure")
}

func TestSnapshot_OutOfMemory(t *testing.T) {
	adapter := New(fixtureTree(t), &HeapAllocator{MaxRecords: 1})

	var buf MemBuffer
	count := NewMemCount(10)

	_, err := adapter.Snapshot(&buf, count)
	assert.ErrorIs(t, err, errs.ErrOutOfMemory)
	assert.Empty(t, buf.Records, "nothing copied out")
	assert.Equal(t, 10, count.Value(), "count argument untouched")
}

func TestSnapshot_BoundaryFaultOnCopyOut(t *testing.T) {
	alloc := &countingAllocator{inner: &HeapAllocator{}}
	adapter := New(fixtureTree(t), alloc)

	cnt := &faultCount{value: 10}
	_, err := adapter.Snapshot(faultBuffer{}, cnt)

	assert.ErrorIs(t, err, errs.ErrBoundaryFault)
	assert.False(t, cnt.wrote, "no partial count written")
	assert.Equal(t, 1, alloc.allocs)
	assert.Equal(t, 1, alloc.frees, "staging buffer freed on the fault path")
}

func TestSnapshot_BoundaryFaultOnCountWriteBack(t *testing.T) {
	alloc := &countingAllocator{inner: &HeapAllocator{}}
	adapter := New(fixtureTree(t), alloc)

	var buf MemBuffer
	_, err := adapter.Snapshot(&buf, &faultCount{value: 10, failWrite: true})

	assert.ErrorIs(t, err, errs.ErrBoundaryFault)
	assert.Equal(t, 1, alloc.frees, "staging buffer freed after write-back fault")
}

func TestSnapshot_FreesExactlyOnceOnSuccess(t *testing.T) {
	alloc := &countingAllocator{inner: &HeapAllocator{}}
	adapter := New(fixtureTree(t), alloc)

	var buf MemBuffer
	_, err := adapter.Snapshot(&buf, NewMemCount(10))
	require.NoError(t, err)
	assert.Equal(t, 1, alloc.allocs)
	assert.Equal(t, 1, alloc.frees)
}

func TestSnapshot_TreeGrowsDuringAllocation(t *testing.T) {
	// The count is taken under the read lock, the lock is dropped for the
	// allocation, and the tree grows before the walk re-acquires it. The
	// call still succeeds with a consistent, truncated pre-order prefix.
	tree := fixtureTree(t)
	alloc := &growingAllocator{tree: tree, growBy: 30, nextPID: 100}
	adapter := New(tree, alloc)

	var buf MemBuffer
	count := NewMemCount(100)

	res, err := adapter.Snapshot(&buf, count)
	require.NoError(t, err)

	assert.Equal(t, 19, res.Capacity, "sized from the stale count of 4 plus slack")
	assert.Equal(t, 34, res.Total, "walk sees the grown tree")
	assert.Equal(t, 19, res.Stored)
	assert.True(t, res.Truncated(), "growth in the race window shows up as truncation")
	assert.Equal(t, 19, count.Value())
	assert.Equal(t, int32(1), buf.Records[0].PID, "prefix is still valid pre-order")
}

func TestStreamBuffer_EncodesRecords(t *testing.T) {
	adapter := New(fixtureTree(t), nil)

	var raw bytes.Buffer
	count := NewMemCount(10)
	res, err := adapter.Snapshot(&StreamBuffer{W: &raw}, count)
	require.NoError(t, err)

	require.Equal(t, res.Stored*prinfo.RecordSize, raw.Len())
	var first prinfo.Record
	require.NoError(t, first.UnmarshalBinary(raw.Bytes()[:prinfo.RecordSize]))
	assert.Equal(t, int32(1), first.PID)
	assert.Equal(t, "init", first.CommString())
}
