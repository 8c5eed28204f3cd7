package prinfo

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordSizeMatchesEncoding(t *testing.T) {
	assert.Equal(t, RecordSize, binary.Size(Record{}))
}

func TestSetComm_Truncation(t *testing.T) {
	var r Record

	r.SetComm("bash")
	assert.Equal(t, "bash", r.CommString())
	assert.Equal(t, byte(0), r.Comm[4], "padding is NUL")
	assert.Equal(t, byte(0), r.Comm[CommLen-1])

	r.SetComm("a-very-long-command-name")
	assert.Equal(t, "a-very-long-com", r.CommString())
	assert.Len(t, r.CommString(), CommLen-1, "room is left for the terminator")

	// Overwriting with a shorter name leaves no residue.
	r.SetComm("sh")
	assert.Equal(t, "sh", r.CommString())
}

func TestRecord_BinaryRoundTrip(t *testing.T) {
	r := Record{
		ParentPID:      1,
		PID:            42,
		FirstChildPID:  77,
		NextSiblingPID: 0,
		State:          8,
		UID:            1000,
	}
	r.SetComm("zombie")

	raw, err := r.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, raw, RecordSize)

	var got Record
	require.NoError(t, got.UnmarshalBinary(raw))
	assert.Equal(t, r, got)
}

func TestRecord_String(t *testing.T) {
	r := Record{PID: 7, ParentPID: 1}
	r.SetComm("kthreadd")
	s := r.String()
	assert.Contains(t, s, "pid=7")
	assert.Contains(t, s, `comm="kthreadd"`)
}
