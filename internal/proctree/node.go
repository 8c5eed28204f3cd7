package proctree

// State is the coarse scheduler state of a process. Values mirror the
// kernel's task state bits.
type State int64

const (
	StateRunning         State = 0
	StateInterruptible   State = 1
	StateUninterruptible State = 2
	StateStopped         State = 4
	StateZombie          State = 8
)

// Node is one live process in the tree. Nodes are created and destroyed
// only by their owning Tree; everyone else holds borrowed, read-only
// references valid while the tree's read lock is held.
type Node struct {
	pid   int32
	comm  string
	uid   uint32
	state State

	parent *Node // real parent; the root points at itself
	tracer *Node // temporary redirect target, never reported as parent

	children []*Node // creation order, oldest first
}

// PID returns the process id.
func (n *Node) PID() int32 { return n.pid }

// Comm returns the short display name.
func (n *Node) Comm() string { return n.comm }

// UID returns the owning user id.
func (n *Node) UID() uint32 { return n.uid }

// State returns the coarse run state. Caller must hold the tree's read lock.
func (n *Node) State() State { return n.state }

// Parent returns the real parent node. The root returns itself.
// Caller must hold the tree's read lock.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the live child list, oldest first.
// Caller must hold the tree's read lock and must not retain the slice
// past the unlock.
func (n *Node) Children() []*Node { return n.children }

// ParentID returns the pid of the real parent, never that of a temporary
// trace redirect. Caller must hold the tree's read lock.
func (n *Node) ParentID() int32 { return n.parent.pid }

// YoungestChildID returns the pid of the most recently created child,
// or 0 when childless. Caller must hold the tree's read lock.
func (n *Node) YoungestChildID() int32 {
	if len(n.children) == 0 {
		return 0
	}
	return n.children[len(n.children)-1].pid
}

// NextSiblingID returns the pid of the next node in the parent's child
// order, or 0 when n is the last child. The root, which sits in no child
// list, always returns 0. Caller must hold the tree's read lock.
func (n *Node) NextSiblingID() int32 {
	siblings := n.parent.children
	for i, s := range siblings {
		if s == n {
			if i+1 < len(siblings) {
				return siblings[i+1].pid
			}
			return 0
		}
	}
	return 0
}
