package walk

import (
	"ptree/internal/prinfo"
	"ptree/internal/proctree"
)

// Take copies one live node into an immutable record. It reads only the
// node and its directly linked relatives, so a single lock-protected
// traversal step sees a consistent view. Caller must hold the tree's
// read lock.
func Take(n *proctree.Node) prinfo.Record {
	r := prinfo.Record{
		ParentPID:      n.ParentID(),
		PID:            n.PID(),
		FirstChildPID:  n.YoungestChildID(),
		NextSiblingPID: n.NextSiblingID(),
		State:          int64(n.State()),
		UID:            n.UID(),
	}
	r.SetComm(n.Comm())
	return r
}
