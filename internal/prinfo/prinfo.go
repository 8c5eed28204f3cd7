// Package prinfo defines the fixed-layout record a process-tree snapshot
// hands to its caller.
//
// The layout is stable and position-dependent: four signed 32-bit pids,
// a 64-bit coarse run state, a 32-bit uid and a fixed-width command name.
// Pid 0 never names a live process and doubles as the "no such relative"
// sentinel for the child and sibling fields.
package prinfo

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// CommLen is the fixed width of the command-name field, including the
// terminating NUL. Matches the kernel's TASK_COMM_LEN.
const CommLen = 16

// RecordSize is the marshalled size of one Record in bytes.
const RecordSize = 4*4 + 8 + 4 + CommLen

// Record is an immutable snapshot of one live process, taken at the
// instant the walker visited it.
type Record struct {
	ParentPID      int32
	PID            int32
	FirstChildPID  int32 // youngest (last-created) child, 0 when childless
	NextSiblingPID int32 // next in the parent's child order, 0 when last
	State          int64
	UID            uint32
	Comm           [CommLen]byte
}

// SetComm stores the command name, truncating to CommLen-1 bytes and
// NUL-padding the remainder.
func (r *Record) SetComm(comm string) {
	r.Comm = [CommLen]byte{}
	if len(comm) > CommLen-1 {
		comm = comm[:CommLen-1]
	}
	copy(r.Comm[:], comm)
}

// CommString returns the command name without NUL padding.
func (r *Record) CommString() string {
	if i := bytes.IndexByte(r.Comm[:], 0); i >= 0 {
		return string(r.Comm[:i])
	}
	return string(r.Comm[:])
}

// String renders the record in a compact single-line form for logs.
func (r Record) String() string {
	return fmt.Sprintf("pid=%d ppid=%d child=%d sibling=%d state=%d uid=%d comm=%q",
		r.PID, r.ParentPID, r.FirstChildPID, r.NextSiblingPID, r.State, r.UID, r.CommString())
}

// MarshalBinary encodes the record in little-endian byte order.
func (r *Record) MarshalBinary() ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, RecordSize))
	if err := binary.Write(buf, binary.LittleEndian, r); err != nil {
		return nil, fmt.Errorf("encoding record for pid %d: %w", r.PID, err)
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a record produced by MarshalBinary.
func (r *Record) UnmarshalBinary(data []byte) error {
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, r); err != nil {
		return fmt.Errorf("decoding record: %w", err)
	}
	return nil
}
