// Package proctree models a live tree of process records, the in-process
// analogue of the kernel task list.
//
// A Tree owns every Node and guards structure with a reader/writer lock:
//
// Mutations (write lock taken internally):
//   - Fork(parent, pid, ...) - append a new child in creation order
//   - Exit(pid) - remove a process, reparenting orphans to the root
//   - Trace(pid, tracer) - set or clear a temporary parent redirect
//   - SetState(pid, state) - update the coarse run state
//
// Reads used during a traversal take no locks of their own. Callers bracket
// the whole walk with Tree.RLock/RUnlock and may then use Count, Lookup and
// the Node accessors (Parent, Children, ParentID, YoungestChildID,
// NextSiblingID) freely. Multiple concurrent readers are fine; no reader
// ever observes a half-applied mutation.
//
// Exactly one root exists for the lifetime of the Tree. It is its own
// parent, the way the kernel's init task is, and it cannot exit.
package proctree
