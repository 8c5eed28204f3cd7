package boundary

import (
	"fmt"
	"io"

	"ptree/internal/prinfo"
)

// CallerBuffer is the caller-owned destination for snapshot records.
// WriteRecords may fail when the backing memory is invalid.
type CallerBuffer interface {
	WriteRecords(recs []prinfo.Record) error
}

// CallerCount is the caller's in/out count argument: in, the requested
// maximum number of entries; out, the number actually stored. Either
// direction may fail when the backing memory is invalid.
type CallerCount interface {
	Read() (int, error)
	Write(n int) error
}

// MemBuffer is an in-process CallerBuffer backed by a record slice.
type MemBuffer struct {
	Records []prinfo.Record
}

// WriteRecords replaces the buffer contents with a copy of recs.
func (b *MemBuffer) WriteRecords(recs []prinfo.Record) error {
	b.Records = append(b.Records[:0], recs...)
	return nil
}

// MemCount is an in-process CallerCount backed by a plain int.
type MemCount struct {
	value int
}

// NewMemCount returns a count argument holding the requested maximum.
func NewMemCount(requestedMax int) *MemCount {
	return &MemCount{value: requestedMax}
}

// Read returns the current value.
func (c *MemCount) Read() (int, error) { return c.value, nil }

// Write overwrites the value with the stored-entry count.
func (c *MemCount) Write(n int) error {
	c.value = n
	return nil
}

// Value returns the current value without the error of Read.
func (c *MemCount) Value() int { return c.value }

// StreamBuffer is a CallerBuffer that marshals records little-endian into
// an io.Writer, for piping snapshots out of the process.
type StreamBuffer struct {
	W io.Writer
}

// WriteRecords encodes and writes each record in order.
func (b *StreamBuffer) WriteRecords(recs []prinfo.Record) error {
	for i := range recs {
		raw, err := recs[i].MarshalBinary()
		if err != nil {
			return err
		}
		if _, err := b.W.Write(raw); err != nil {
			return fmt.Errorf("writing record %d: %w", i, err)
		}
	}
	return nil
}
