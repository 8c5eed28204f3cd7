package proctree

import (
	"fmt"
	"sync"
)

// Tree is the shared, concurrently-mutated process tree. Structure is
// protected by a reader/writer lock: mutators lock internally, readers
// bracket their traversal with RLock/RUnlock.
type Tree struct {
	mu    sync.RWMutex
	root  *Node
	nodes map[int32]*Node
}

// New creates a tree holding only its root process. The root is its own
// parent and lives as long as the tree.
func New(rootPID int32, comm string, uid uint32) *Tree {
	root := &Node{pid: rootPID, comm: comm, uid: uid}
	root.parent = root
	return &Tree{
		root:  root,
		nodes: map[int32]*Node{rootPID: root},
	}
}

// RLock takes the shared read lock. Any number of readers may hold it at
// once; mutations block until all readers are gone.
func (t *Tree) RLock() { t.mu.RLock() }

// RUnlock releases the shared read lock.
func (t *Tree) RUnlock() { t.mu.RUnlock() }

// Root returns the distinguished root node. The root reference never
// changes, so no lock is required.
func (t *Tree) Root() *Node { return t.root }

// Count returns the number of live processes at the instant called.
// Caller must hold the read lock; the result is stale the moment the
// lock is dropped.
func (t *Tree) Count() int { return len(t.nodes) }

// Lookup returns the node for pid, or nil. Caller must hold the read lock.
func (t *Tree) Lookup(pid int32) *Node { return t.nodes[pid] }

// Fork creates a new process as the youngest child of parentPID.
func (t *Tree) Fork(parentPID, pid int32, comm string, uid uint32, state State) (*Node, error) {
	if pid < 1 {
		return nil, fmt.Errorf("fork: pid %d out of range", pid)
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	parent := t.nodes[parentPID]
	if parent == nil {
		return nil, fmt.Errorf("fork %d: unknown parent %d", pid, parentPID)
	}
	if t.nodes[pid] != nil {
		return nil, fmt.Errorf("fork: pid %d already live", pid)
	}

	child := &Node{pid: pid, comm: comm, uid: uid, state: state, parent: parent}
	parent.children = append(parent.children, child)
	t.nodes[pid] = child
	return child, nil
}

// Exit removes a process. Its children are reparented to the root in
// their existing order, appended after the root's current children.
// The root itself cannot exit.
func (t *Tree) Exit(pid int32) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := t.nodes[pid]
	if n == nil {
		return fmt.Errorf("exit: unknown pid %d", pid)
	}
	if n == t.root {
		return fmt.Errorf("exit: pid %d is the root", pid)
	}

	for _, c := range n.children {
		c.parent = t.root
		t.root.children = append(t.root.children, c)
	}
	n.children = nil

	n.parent.children = removeChild(n.parent.children, n)
	n.parent = nil
	delete(t.nodes, pid)
	return nil
}

// Trace sets a temporary parent redirect on pid, the way a debugger
// attaching does. A tracerPID of 0 clears the redirect. The redirect is
// deliberately invisible to Node.ParentID, which always reports the real
// parent.
func (t *Tree) Trace(pid, tracerPID int32) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := t.nodes[pid]
	if n == nil {
		return fmt.Errorf("trace: unknown pid %d", pid)
	}
	if tracerPID == 0 {
		n.tracer = nil
		return nil
	}
	tracer := t.nodes[tracerPID]
	if tracer == nil {
		return fmt.Errorf("trace %d: unknown tracer %d", pid, tracerPID)
	}
	n.tracer = tracer
	return nil
}

// SetState updates the coarse run state of pid.
func (t *Tree) SetState(pid int32, state State) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := t.nodes[pid]
	if n == nil {
		return fmt.Errorf("setstate: unknown pid %d", pid)
	}
	n.state = state
	return nil
}

func removeChild(children []*Node, victim *Node) []*Node {
	for i, c := range children {
		if c == victim {
			return append(children[:i], children[i+1:]...)
		}
	}
	return children
}
